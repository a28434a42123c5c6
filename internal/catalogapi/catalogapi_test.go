package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/talkincode/arcatalog/config"
	"github.com/talkincode/arcatalog/internal/app"
	"github.com/talkincode/arcatalog/internal/assets"
	"github.com/talkincode/arcatalog/internal/catalog"
	"github.com/talkincode/arcatalog/internal/domain"
	"github.com/talkincode/arcatalog/internal/webserver"
	"github.com/talkincode/arcatalog/pkg/metrics"
)

type fakeApp struct {
	cfg      *config.AppConfig
	svc      *catalog.Service
	verifier *assets.Verifier
	products []domain.Product
}

func (f *fakeApp) Config() *config.AppConfig  { return f.cfg }
func (f *fakeApp) Catalog() *catalog.Service  { return f.svc }
func (f *fakeApp) Assets() *assets.Verifier   { return f.verifier }
func (f *fakeApp) SystemInfo() app.SystemInfo { return app.SystemInfo{Goroutines: 7, Uptime: "1s"} }

func (f *fakeApp) VerifyAssets(ctx context.Context) (assets.Report, error) {
	return f.verifier.Verify(ctx, f.products)
}

type brokenRepository struct{}

func (brokenRepository) All(context.Context) ([]domain.Product, error) {
	return nil, errors.New("connection refused")
}

func (brokenRepository) Get(context.Context, string) (domain.Product, error) {
	return domain.Product{}, errors.New("connection refused")
}

func (brokenRepository) ByCategory(context.Context, string) ([]domain.Product, error) {
	return nil, errors.New("connection refused")
}

func newTestServer(t *testing.T, repo catalog.Repository, latency catalog.Latency) *webserver.Server {
	t.Helper()
	cfg := config.DefaultAppConfig()
	cfg.Web.StaticDir = t.TempDir()
	cfg.Web.ModelsDir = t.TempDir()
	cfg.Web.RequestTimeout = 200 * time.Millisecond

	if repo == nil {
		memory, err := catalog.NewMemoryRepository(catalog.DefaultProducts())
		if err != nil {
			t.Fatal(err)
		}
		repo = memory
	}
	fake := &fakeApp{
		cfg:      cfg,
		svc:      catalog.NewService(repo, catalog.WithLatency(latency), catalog.WithRecorder(metrics.CatalogRecorder{})),
		verifier: assets.NewVerifier(assets.Config{ModelsPath: cfg.Web.ModelsPath, ModelsDir: cfg.Web.ModelsDir, StaticDir: cfg.Web.StaticDir}, nil),
		products: catalog.DefaultProducts(),
	}
	srv := webserver.NewServer(cfg.Web, false)
	Init(srv, fake)
	return srv
}

func doGet(t *testing.T, srv *webserver.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("Expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	var body webserver.ErrorBody
	decode(t, rec, &body)
	if body.Code != code {
		t.Fatalf("Expected code %s, got %s", code, body.Code)
	}
}

func TestHealthz(t *testing.T) {
	rec := doGet(t, newTestServer(t, nil, catalog.Latency{}), "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestSwaggerDoc(t *testing.T) {
	rec := doGet(t, newTestServer(t, nil, catalog.Latency{}), "/swagger/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var doc struct {
		Paths map[string]interface{} `json:"paths"`
	}
	decode(t, rec, &doc)
	for _, path := range []string{"/api/v1/products", "/api/v1/products/{id}", "/api/v1/export/products", "/api/v1/catalog"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("Expected %s in the API doc", path)
		}
	}
}

func TestListProducts(t *testing.T) {
	srv := newTestServer(t, nil, catalog.Latency{})

	tests := []struct {
		target string
		total  int
	}{
		{"/api/v1/products", 3},
		{"/api/v1/products?category=Dessert", 3},
		{"/api/v1/products?category=Entree", 0},
		{"/api/v1/products?category=dessert", 0},
	}
	for _, tt := range tests {
		rec := doGet(t, srv, tt.target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.target, rec.Code)
		}
		var resp domain.ProductListResponse
		decode(t, rec, &resp)
		if resp.Total != tt.total || len(resp.Products) != tt.total {
			t.Errorf("%s: total=%d len=%d, want %d", tt.target, resp.Total, len(resp.Products), tt.total)
		}
		if resp.Products == nil {
			t.Errorf("%s: products must be a list, got null", tt.target)
		}
	}
}

func TestListProductsInvalidCategory(t *testing.T) {
	srv := newTestServer(t, nil, catalog.Latency{})
	rec := doGet(t, srv, "/api/v1/products?category="+strings.Repeat("x", catalog.MaxCategoryLength+1))
	expectError(t, rec, http.StatusBadRequest, "INVALID_QUERY")
}

func TestGetProduct(t *testing.T) {
	srv := newTestServer(t, nil, catalog.Latency{})

	rec := doGet(t, srv, "/api/v1/products/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var p domain.Product
	decode(t, rec, &p)
	if p.Name != "Nachos" || p.ModelURL != "/models/nachos.glb" || p.CategoryName() != "Dessert" {
		t.Errorf("unexpected product %+v", p)
	}
	if !strings.Contains(rec.Body.String(), `"imageUrl"`) {
		t.Errorf("Expected camelCase fields, got %s", rec.Body.String())
	}

	expectError(t, doGet(t, srv, "/api/v1/products/99"), http.StatusNotFound, "PRODUCT_NOT_FOUND")
}

func TestGetProductExactID(t *testing.T) {
	srv := newTestServer(t, nil, catalog.Latency{})

	for _, path := range []string{"/api/v1/products/%202%20", "/api/v1/products/2%20", "/api/v1/products/%20"} {
		expectError(t, doGet(t, srv, path), http.StatusNotFound, "PRODUCT_NOT_FOUND")
	}
}

func TestGetProductNamedExport(t *testing.T) {
	products := catalog.DefaultProducts()
	products[0].ID = "export"
	repo, err := catalog.NewMemoryRepository(products)
	if err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, repo, catalog.Latency{})

	rec := doGet(t, srv, "/api/v1/products/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var p domain.Product
	decode(t, rec, &p)
	if p.ID != "export" {
		t.Errorf("Expected product export, got %+v", p)
	}
}

func TestCategoriesAndSnapshot(t *testing.T) {
	srv := newTestServer(t, nil, catalog.Latency{})

	var categories struct {
		Categories []string `json:"categories"`
	}
	decode(t, doGet(t, srv, "/api/v1/categories"), &categories)
	if len(categories.Categories) != 1 || categories.Categories[0] != "Dessert" {
		t.Fatalf("unexpected categories %v", categories.Categories)
	}

	var snap struct {
		Products   []domain.Product `json:"products"`
		Total      int              `json:"total"`
		Categories []string         `json:"categories"`
	}
	decode(t, doGet(t, srv, "/api/v1/catalog"), &snap)
	if snap.Total != 3 || len(snap.Products) != 3 || len(snap.Categories) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestExportProducts(t *testing.T) {
	srv := newTestServer(t, nil, catalog.Latency{})

	rec := doGet(t, srv, "/api/v1/export/products?format=csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "catalog.csv") {
		t.Errorf("unexpected content disposition %s", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "id,name,description,imageUrl,modelUrl") {
		t.Errorf("unexpected csv header: %s", rec.Body.String())
	}
	if lines := strings.Count(strings.TrimSpace(rec.Body.String()), "\n"); lines != 3 {
		t.Errorf("Expected 3 data rows, got %d", lines)
	}

	rec = doGet(t, srv, "/api/v1/export/products?format=xlsx")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Errorf("unexpected xlsx export %d", rec.Code)
	}

	expectError(t, doGet(t, srv, "/api/v1/export/products?format=pdf"), http.StatusBadRequest, "INVALID_FORMAT")
}

func TestARConfig(t *testing.T) {
	var cfg ARConfig
	decode(t, doGet(t, newTestServer(t, nil, catalog.Latency{}), "/api/v1/ar/config"), &cfg)
	if cfg.ModelsPath != "/models" || cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("unexpected runtime config %+v", cfg)
	}
	if len(cfg.Session.RequiredFeatures) != 1 || cfg.Session.RequiredFeatures[0] != "hit-test" {
		t.Errorf("unexpected session features %+v", cfg.Session)
	}
}

func TestAssetsReport(t *testing.T) {
	srv := newTestServer(t, nil, catalog.Latency{})
	expectError(t, doGet(t, srv, "/api/v1/assets/report"), http.StatusNotFound, "REPORT_NOT_READY")

	var report assets.Report
	rec := doGet(t, srv, "/api/v1/assets/report?refresh=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	decode(t, rec, &report)
	if report.Checked != 6 || len(report.Missing) != 6 {
		t.Fatalf("unexpected report %+v", report)
	}

	rec = doGet(t, srv, "/api/v1/assets/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected cached report, got %d", rec.Code)
	}
}

func TestCatalogMetrics(t *testing.T) {
	if err := metrics.InitMetrics(""); err != nil {
		t.Fatal(err)
	}
	defer metrics.Close()

	srv := newTestServer(t, nil, catalog.Latency{})
	doGet(t, srv, "/api/v1/products")
	doGet(t, srv, "/api/v1/products")

	var resp struct {
		Window     string                     `json:"window"`
		Operations map[string]metrics.Summary `json:"operations"`
	}
	rec := doGet(t, srv, "/api/v1/metrics/catalog")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &resp)
	if resp.Window != "1h0m0s" {
		t.Errorf("unexpected window %s", resp.Window)
	}
	if resp.Operations[catalog.OpListAll].Count != 2 {
		t.Errorf("Expected 2 list_all calls, got %+v", resp.Operations[catalog.OpListAll])
	}

	expectError(t, doGet(t, srv, "/api/v1/metrics/catalog?window=soon"), http.StatusBadRequest, "INVALID_WINDOW")
}

func TestCatalogMetricsUnavailable(t *testing.T) {
	_ = metrics.Close()
	expectError(t, doGet(t, newTestServer(t, nil, catalog.Latency{}), "/api/v1/metrics/catalog"),
		http.StatusServiceUnavailable, "METRICS_UNAVAILABLE")
}

func TestSystemInfo(t *testing.T) {
	var info app.SystemInfo
	decode(t, doGet(t, newTestServer(t, nil, catalog.Latency{}), "/api/v1/system/info"), &info)
	if info.Goroutines != 7 {
		t.Errorf("unexpected system info %+v", info)
	}
}

func TestRequestTimeout(t *testing.T) {
	srv := newTestServer(t, nil, catalog.Latency{List: time.Hour})
	expectError(t, doGet(t, srv, "/api/v1/products"), http.StatusGatewayTimeout, "CATALOG_TIMEOUT")
}

func TestRepositoryUnavailable(t *testing.T) {
	srv := newTestServer(t, brokenRepository{}, catalog.Latency{})
	expectError(t, doGet(t, srv, "/api/v1/products"), http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE")
	expectError(t, doGet(t, srv, "/api/v1/products/1"), http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE")
}
