package catalogapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/arcatalog/internal/catalog"
	"github.com/talkincode/arcatalog/internal/domain"
	"github.com/talkincode/arcatalog/internal/webserver"
)

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// registerProductRoutes registers read-only catalog endpoints
func registerProductRoutes(srv *webserver.Server) {
	srv.ApiGET("/products", listProducts)
	srv.ApiGET("/products/:id", getProduct)
	srv.ApiGET("/export/products", exportProducts)
	srv.ApiGET("/categories", listCategories)
	srv.ApiGET("/catalog", getCatalog)
}

// listProducts lists the catalog, or one category of it
// @Summary list products
// @Tags Products
// @Param category query string false "Exact category name"
// @Success 200 {object} domain.ProductListResponse
// @Failure 400 {object} webserver.ErrorBody
// @Failure 504 {object} webserver.ErrorBody
// @Router /api/v1/products [get]
func listProducts(c echo.Context) error {
	ctx := c.Request().Context()
	if category := c.QueryParam("category"); category != "" {
		resp, err := GetCatalog(c).ListByCategory(ctx, category)
		if err != nil {
			return catalogFail(c, err)
		}
		return ok(c, resp)
	}
	resp, err := GetCatalog(c).ListAll(ctx)
	if err != nil {
		return catalogFail(c, err)
	}
	return ok(c, resp)
}

// @Summary get product detail
// @Tags Products
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} webserver.ErrorBody
// @Router /api/v1/products/{id} [get]
func getProduct(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, found, err := GetCatalog(c).GetByID(c.Request().Context(), id)
	if err != nil {
		return catalogFail(c, err)
	}
	if !found {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", map[string]string{"id": id})
	}
	return ok(c, p)
}

// @Summary list categories
// @Tags Products
// @Success 200 {object} categoriesResponse
// @Router /api/v1/categories [get]
func listCategories(c echo.Context) error {
	categories, err := GetCatalog(c).ListCategories(c.Request().Context())
	if err != nil {
		return catalogFail(c, err)
	}
	return ok(c, categoriesResponse{Categories: categories})
}

// getCatalog products and categories in one response, for the first page load
// @Summary get catalog snapshot
// @Tags Products
// @Success 200 {object} catalog.Snapshot
// @Router /api/v1/catalog [get]
func getCatalog(c echo.Context) error {
	snap, err := GetCatalog(c).Snapshot(c.Request().Context())
	if err != nil {
		return catalogFail(c, err)
	}
	return ok(c, snap)
}

// @Summary export products
// @Tags Products
// @Produce text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/vnd.apache.parquet
// @Param format query string false "csv, xlsx or parquet" default(csv)
// @Param category query string false "Exact category name"
// @Success 200 {file} file
// @Failure 400 {object} webserver.ErrorBody
// @Router /api/v1/export/products [get]
func exportProducts(c echo.Context) error {
	format, err := catalog.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", "Unsupported export format", err.Error())
	}

	ctx := c.Request().Context()
	svc := GetCatalog(c)
	var resp domain.ProductListResponse
	if category := c.QueryParam("category"); category != "" {
		resp, err = svc.ListByCategory(ctx, category)
	} else {
		resp, err = svc.ListAll(ctx)
	}
	if err != nil {
		return catalogFail(c, err)
	}

	var buf bytes.Buffer
	if err := catalog.Export(&buf, format, resp.Products); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export catalog", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="catalog.%s"`, format))
	return c.Blob(http.StatusOK, catalog.ExportContentType(format), buf.Bytes())
}
