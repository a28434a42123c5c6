package catalog

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/talkincode/arcatalog/internal/domain"
)

type recordedCall struct {
	op  string
	err error
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *fakeRecorder) Observe(op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{op: op, err: err})
}

type failingRepository struct {
	err error
}

func (f failingRepository) All(context.Context) ([]domain.Product, error) {
	return nil, f.err
}

func (f failingRepository) Get(context.Context, string) (domain.Product, error) {
	return domain.Product{}, f.err
}

func (f failingRepository) ByCategory(context.Context, string) ([]domain.Product, error) {
	return nil, f.err
}

func newTestService(t *testing.T, products []domain.Product, opts ...Option) *Service {
	t.Helper()
	repo, err := NewMemoryRepository(products)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	opts = append([]Option{WithLatency(Latency{})}, opts...)
	return NewService(repo, opts...)
}

func mixedProducts() []domain.Product {
	products := DefaultProducts()
	extra := []domain.Product{
		{ID: "4", Name: "Tacos", ModelURL: "/models/tacos.glb", Scale: 1,
			Dimensions: domain.ProductDimensions{Width: 1, Height: 1, Depth: 1},
			Category:   domain.StringPtr("Entree")},
		{ID: "5", Name: "Mystery box", ModelURL: "/models/box.glb", Scale: 2,
			Dimensions: domain.ProductDimensions{Width: 1, Height: 1, Depth: 1}},
		{ID: "6", Name: "Churros", ModelURL: "/models/churros.glb", Scale: 1,
			Dimensions: domain.ProductDimensions{Width: 1, Height: 1, Depth: 1},
			Category:   domain.StringPtr("Dessert")},
	}
	return append(products, extra...)
}

func TestSeedScenario(t *testing.T) {
	svc := newTestService(t, DefaultProducts())
	ctx := context.Background()

	desserts, err := svc.ListByCategory(ctx, "Dessert")
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if desserts.Total != 3 || len(desserts.Products) != 3 {
		t.Fatalf("Expected 3 desserts, got total=%d len=%d", desserts.Total, len(desserts.Products))
	}

	entrees, err := svc.ListByCategory(ctx, "Entree")
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if entrees.Total != 0 || len(entrees.Products) != 0 {
		t.Fatalf("Expected no entrees, got %+v", entrees)
	}

	p, found, err := svc.GetByID(ctx, "2")
	if err != nil || !found {
		t.Fatalf("GetByID(2) found=%v err=%v", found, err)
	}
	if p.Name != "Nachos" {
		t.Errorf("Expected Nachos, got %s", p.Name)
	}

	_, found, err = svc.GetByID(ctx, "99")
	if err != nil {
		t.Fatalf("GetByID(99) unexpected error: %v", err)
	}
	if found {
		t.Error("Expected product 99 to be absent")
	}

	categories, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if !reflect.DeepEqual(categories, []string{"Dessert"}) {
		t.Errorf("Expected [Dessert], got %v", categories)
	}
}

func TestListAllTotalMatches(t *testing.T) {
	svc := newTestService(t, mixedProducts())
	resp, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if resp.Total != len(resp.Products) || resp.Total != 6 {
		t.Fatalf("Expected total 6 matching len, got total=%d len=%d", resp.Total, len(resp.Products))
	}
	for i, p := range resp.Products {
		if p.Sort != i {
			t.Errorf("product %s at %d has sort %d", p.ID, i, p.Sort)
		}
	}
}

func TestGetByIDEveryProduct(t *testing.T) {
	svc := newTestService(t, mixedProducts())
	for _, want := range mixedProducts() {
		got, found, err := svc.GetByID(context.Background(), want.ID)
		if err != nil || !found {
			t.Fatalf("GetByID(%s) found=%v err=%v", want.ID, found, err)
		}
		if got.ID != want.ID || got.Name != want.Name {
			t.Errorf("GetByID(%s) returned %s/%s", want.ID, got.ID, got.Name)
		}
	}
}

func TestCategoriesPartitionCatalog(t *testing.T) {
	svc := newTestService(t, mixedProducts())
	ctx := context.Background()

	categories, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if !reflect.DeepEqual(categories, []string{"Dessert", "Entree"}) {
		t.Fatalf("Expected first-occurrence order [Dessert Entree], got %v", categories)
	}

	seen := make(map[string]int)
	for _, c := range categories {
		resp, err := svc.ListByCategory(ctx, c)
		if err != nil {
			t.Fatalf("ListByCategory(%s): %v", c, err)
		}
		for _, p := range resp.Products {
			if !p.HasCategory(c) {
				t.Errorf("product %s in %s has category %q", p.ID, c, p.CategoryName())
			}
			seen[p.ID]++
		}
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	for _, p := range all.Products {
		if p.Category == nil {
			seen[p.ID]++
		}
	}
	if len(seen) != all.Total {
		t.Fatalf("Expected partition to cover %d products, got %d", all.Total, len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("product %s counted %d times", id, n)
		}
	}
}

func TestListByCategoryCaseSensitive(t *testing.T) {
	svc := newTestService(t, DefaultProducts())
	resp, err := svc.ListByCategory(context.Background(), "dessert")
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("Expected no match for lower-case category, got %d", resp.Total)
	}
}

func TestListByCategoryInvalidQuery(t *testing.T) {
	svc := newTestService(t, DefaultProducts())
	long := make([]byte, MaxCategoryLength+1)
	for i := range long {
		long[i] = 'a'
	}
	for _, category := range []string{string(long), "\xff\xfe"} {
		_, err := svc.ListByCategory(context.Background(), category)
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("Expected ErrInvalidQuery for %q, got %v", category, err)
		}
	}
}

func TestReturnedProductsAreCopies(t *testing.T) {
	svc := newTestService(t, DefaultProducts())
	ctx := context.Background()

	resp, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	resp.Products[0].Name = "changed"
	*resp.Products[0].Category = "changed"
	*resp.Products[0].Price = 0

	p, _, err := svc.GetByID(ctx, resp.Products[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.Name == "changed" || p.CategoryName() == "changed" || *p.Price == 0 {
		t.Fatalf("catalog was mutated through a response: %+v", p)
	}
}

func TestLatencyDelaysCalls(t *testing.T) {
	svc := newTestService(t, DefaultProducts(), WithLatency(Latency{List: 30 * time.Millisecond}))
	start := time.Now()
	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("Expected at least 30ms delay, got %v", elapsed)
	}
}

func TestCancelInterruptsDelay(t *testing.T) {
	svc := newTestService(t, DefaultProducts(), WithLatency(Latency{List: time.Hour, Get: time.Hour}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.ListAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ListAll: expected context.Canceled, got %v", err)
	}
	if _, _, err := svc.GetByID(ctx, "1"); !errors.Is(err, context.Canceled) {
		t.Errorf("GetByID: expected context.Canceled, got %v", err)
	}
}

func TestDeadlineYieldsTimeout(t *testing.T) {
	svc := newTestService(t, DefaultProducts(), WithLatency(Latency{List: time.Hour}))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.ListByCategory(ctx, "Dessert")
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}
}

func TestRepositoryFailureIsUnavailable(t *testing.T) {
	svc := NewService(failingRepository{err: errors.New("connection refused")}, WithLatency(Latency{}))
	ctx := context.Background()

	if _, err := svc.ListAll(ctx); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("ListAll: expected ErrUnavailable, got %v", err)
	}
	if _, found, err := svc.GetByID(ctx, "1"); found || !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("GetByID: expected ErrUnavailable, got found=%v err=%v", found, err)
	}
	if _, err := svc.ListCategories(ctx); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("ListCategories: expected ErrUnavailable, got %v", err)
	}
}

func TestRecorderObservesCalls(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(t, DefaultProducts(), WithRecorder(rec))
	ctx := context.Background()

	_, _ = svc.ListAll(ctx)
	_, _, _ = svc.GetByID(ctx, "99")
	_, _ = svc.ListByCategory(ctx, string([]byte{0xff}))

	if len(rec.calls) != 3 {
		t.Fatalf("Expected 3 observed calls, got %d", len(rec.calls))
	}
	if rec.calls[0].op != OpListAll || rec.calls[0].err != nil {
		t.Errorf("unexpected first call %+v", rec.calls[0])
	}
	if rec.calls[1].op != OpGetByID || rec.calls[1].err != nil {
		t.Errorf("absent product must not be recorded as failure: %+v", rec.calls[1])
	}
	if rec.calls[2].op != OpListByCategory || !errors.Is(rec.calls[2].err, domain.ErrInvalidQuery) {
		t.Errorf("unexpected third call %+v", rec.calls[2])
	}
}

func TestSnapshot(t *testing.T) {
	svc := newTestService(t, mixedProducts(), WithLatency(Latency{List: 20 * time.Millisecond, Categories: 20 * time.Millisecond}))
	start := time.Now()
	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Total != 6 || len(snap.Categories) != 2 {
		t.Fatalf("unexpected snapshot total=%d categories=%v", snap.Total, snap.Categories)
	}
	// both calls wait in parallel
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Snapshot took %v", elapsed)
	}
}

func TestDefaultLatency(t *testing.T) {
	repo, err := NewMemoryRepository(DefaultProducts())
	if err != nil {
		t.Fatal(err)
	}
	got := NewService(repo).Latency()
	if got.List != 300*time.Millisecond || got.Get != 200*time.Millisecond || got.Categories != 0 {
		t.Fatalf("unexpected default latency %+v", got)
	}
}
