package webserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/config"
	"github.com/talkincode/arcatalog/pkg/common"
	"go.uber.org/zap"
)

const APIPrefix = "/api/v1"

// ErrorBody error envelope returned by every failing endpoint
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Server struct {
	root *echo.Echo
	api  *echo.Group
	cfg  config.WebConfig
}

func NewServer(cfg config.WebConfig, debug bool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = debug
	e.JSONSerializer = JSONSerializer{}
	e.HTTPErrorHandler = httpErrorHandler
	if debug {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.WARN)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: common.UUID,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				zap.L().Warn("http request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zap.L().Info("http request", fields...)
			return nil
		},
	}))
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}

	if cfg.ModelsPath != "" && cfg.ModelsDir != "" {
		e.Static(cfg.ModelsPath, cfg.ModelsDir)
	}

	return &Server{root: e, api: e.Group(APIPrefix), cfg: cfg}
}

// Echo returns the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.root
}

// Use adds middleware to every route.
func (s *Server) Use(m ...echo.MiddlewareFunc) {
	s.root.Use(m...)
}

// GET registers a route outside the api group.
func (s *Server) GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.root.GET(path, h, m...)
}

// ApiGET registers a route under /api/v1.
func (s *Server) ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.api.GET(path, h, m...)
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Addr()
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting web server", zap.String("addr", addr), zap.String("base_url", s.cfg.BaseURL))
		if err := s.root.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "web server")
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	zap.L().Info("shutting down web server")
	return s.root.Shutdown(shutdownCtx)
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	body := ErrorBody{Code: "INTERNAL_ERROR", Message: "Internal server error"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		body.Code = strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
		if msg, ok := he.Message.(string); ok {
			body.Message = msg
		} else {
			body.Message = http.StatusText(status)
		}
	} else {
		zap.L().Error("unhandled http error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		zap.L().Error("write error response", zap.Error(err))
	}
}
