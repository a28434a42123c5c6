package catalogapi

import (
	"github.com/labstack/echo/v4"
	"github.com/talkincode/arcatalog/internal/domain"
	"github.com/talkincode/arcatalog/internal/webserver"
)

// ARConfig runtime settings for the WebXR front-end
type ARConfig struct {
	BaseURL    string                 `json:"baseUrl"`
	ModelsPath string                 `json:"modelsPath"`
	Session    domain.ARSessionConfig `json:"session"`
}

func registerARRoutes(srv *webserver.Server) {
	srv.ApiGET("/ar/config", getARConfig)
}

// @Summary get AR runtime config
// @Tags AR
// @Success 200 {object} ARConfig
// @Router /api/v1/ar/config [get]
func getARConfig(c echo.Context) error {
	web := GetAppContext(c).Config().Web
	return ok(c, ARConfig{
		BaseURL:    web.BaseURL,
		ModelsPath: web.ModelsPath,
		Session:    domain.DefaultARSessionConfig(),
	})
}
