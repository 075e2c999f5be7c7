package bootstrap

import (
	"net/http"

	"search-orchestrator/config"
	"search-orchestrator/logger"
	appmiddleware "search-orchestrator/middleware"
	"search-orchestrator/rest"
	appOtel "search-orchestrator/utils/otel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

const healthPath = "/health"

// newHTTPServer creates the echo API server wrapped in an http.Server.
func newHTTPServer(deps *Dependencies, reg *prometheus.Registry, otelCfg appOtel.Config) *http.Server {
	e := newEcho(deps, reg, otelCfg)

	return &http.Server{
		Addr:              deps.Config.HTTP.Addr,
		Handler:           e,
		ReadHeaderTimeout: deps.Config.HTTP.ReadHeaderTimeout,
	}
}

func newEcho(deps *Dependencies, reg *prometheus.Registry, otelCfg appOtel.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = appmiddleware.CustomHTTPErrorHandler(logger.Logger)

	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName, otelecho.WithSkipper(func(c echo.Context) bool {
			return c.Path() == healthPath || c.Path() == "/metrics"
		})))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	e.Use(appmiddleware.RequestIDMiddleware())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(config.RequestBodyLimit))
	e.Use(appmiddleware.LoggingMiddleware(logger.Logger, healthPath))
	e.Use(appmiddleware.PrometheusMiddleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handler := rest.NewHandler(
		deps.SearchItems,
		deps.GetFacets,
		deps.ImportFromWeb,
		deps.Documents,
		deps.SearchEngine,
	)
	adminAuth := appmiddleware.NewAdminAuthMiddleware(logger.Logger, deps.Config.Auth)
	rest.RegisterRoutes(e, handler, adminAuth.RequireAdmin())

	return e
}
