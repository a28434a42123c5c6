// Package catalogapi exposes the product catalog over HTTP.
package catalogapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	_ "github.com/talkincode/arcatalog/docs"
	"github.com/talkincode/arcatalog/internal/app"
	"github.com/talkincode/arcatalog/internal/catalog"
	"github.com/talkincode/arcatalog/internal/domain"
	"github.com/talkincode/arcatalog/internal/webserver"
	"go.uber.org/zap"
)

const appContextKey = "appCtx"

// Init registers every catalog route on srv.
func Init(srv *webserver.Server, appCtx app.AppContext) {
	srv.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appCtx)
			return next(c)
		}
	})
	registerHealthRoutes(srv)
	registerProductRoutes(srv)
	registerARRoutes(srv)
	registerSystemRoutes(srv)
}

// GetAppContext returns the application context bound by Init.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

func GetCatalog(c echo.Context) *catalog.Service {
	return GetAppContext(c).Catalog()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, webserver.ErrorBody{Code: code, Message: message, Details: details})
}

// catalogFail maps catalog error kinds to responses.
func catalogFail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid catalog query", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return fail(c, http.StatusGatewayTimeout, "CATALOG_TIMEOUT", "Catalog request timed out", nil)
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, context.Canceled):
		zap.L().Warn("catalog unavailable", zap.Error(err))
		return fail(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog is unavailable", nil)
	default:
		zap.L().Error("catalog request failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

func registerHealthRoutes(srv *webserver.Server) {
	srv.GET("/healthz", healthz)
	srv.GET("/swagger/*", echoSwagger.WrapHandler)
}

// @Summary liveness check
// @Tags System
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func healthz(c echo.Context) error {
	return ok(c, map[string]string{"status": "ok"})
}
