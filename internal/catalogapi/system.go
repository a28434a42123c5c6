package catalogapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/talkincode/arcatalog/internal/catalog"
	"github.com/talkincode/arcatalog/internal/webserver"
	"github.com/talkincode/arcatalog/pkg/metrics"
)

var catalogOperations = []string{
	catalog.OpListAll,
	catalog.OpGetByID,
	catalog.OpListByCategory,
	catalog.OpListCategories,
}

type catalogMetricsResponse struct {
	Window     string                     `json:"window"`
	Operations map[string]metrics.Summary `json:"operations"`
}

func registerSystemRoutes(srv *webserver.Server) {
	srv.ApiGET("/assets/report", getAssetsReport)
	srv.ApiGET("/metrics/catalog", getCatalogMetrics)
	srv.ApiGET("/system/info", getSystemInfo)
}

// getAssetsReport returns the last verification report; ?refresh=true
// runs a verification first.
//
// @Summary get asset verification report
// @Tags System
// @Param refresh query bool false "Run a verification first"
// @Success 200 {object} assets.Report
// @Failure 404 {object} webserver.ErrorBody
// @Router /api/v1/assets/report [get]
func getAssetsReport(c echo.Context) error {
	appCtx := GetAppContext(c)
	if cast.ToBool(c.QueryParam("refresh")) {
		report, err := appCtx.VerifyAssets(c.Request().Context())
		if err != nil {
			return fail(c, http.StatusInternalServerError, "VERIFY_ERROR", "Asset verification failed", err.Error())
		}
		return ok(c, report)
	}
	report, found := appCtx.Assets().LastReport()
	if !found {
		return fail(c, http.StatusNotFound, "REPORT_NOT_READY", "No asset verification has finished yet", nil)
	}
	return ok(c, report)
}

// @Summary catalog operation latency summary
// @Tags System
// @Param window query string false "Go duration, default 1h"
// @Success 200 {object} catalogMetricsResponse
// @Failure 400 {object} webserver.ErrorBody
// @Failure 503 {object} webserver.ErrorBody
// @Router /api/v1/metrics/catalog [get]
func getCatalogMetrics(c echo.Context) error {
	window := time.Hour
	if w := c.QueryParam("window"); w != "" {
		d, err := time.ParseDuration(w)
		if err != nil || d <= 0 {
			return fail(c, http.StatusBadRequest, "INVALID_WINDOW", "Invalid metrics window", w)
		}
		window = d
	}

	operations := make(map[string]metrics.Summary, len(catalogOperations))
	for _, op := range catalogOperations {
		summary, err := metrics.SummarizeOperation(op, window)
		if errors.Is(err, metrics.ErrNotInitialized) {
			return fail(c, http.StatusServiceUnavailable, "METRICS_UNAVAILABLE", "Metrics storage is not initialized", nil)
		}
		if err != nil {
			return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metrics", err.Error())
		}
		operations[op] = summary
	}
	return ok(c, catalogMetricsResponse{Window: window.String(), Operations: operations})
}

// @Summary host and process resource usage
// @Tags System
// @Success 200 {object} app.SystemInfo
// @Router /api/v1/system/info [get]
func getSystemInfo(c echo.Context) error {
	return ok(c, GetAppContext(c).SystemInfo())
}
