// Package app contains the application setup for the product catalog service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcatalog/internal/config"
	"github.com/abgdnv/productcatalog/internal/platform/auth"
	"github.com/abgdnv/productcatalog/internal/platform/pipeline"
	"github.com/abgdnv/productcatalog/internal/platform/server"
	"github.com/abgdnv/productcatalog/internal/platform/telemetry"
	"github.com/abgdnv/productcatalog/internal/platform/web"
	"github.com/abgdnv/productcatalog/internal/product/handler"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/abgdnv/productcatalog/internal/product/store"
	"github.com/abgdnv/productcatalog/internal/product/validation"
	"github.com/prometheus/client_golang/prometheus"
)

// ServiceName identifies the service in traces.
const ServiceName = "product-catalog"

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	Metrics        *web.Metrics
	APIKey         string
	Debug          bool
}

// SetupDependencies builds the seeded store and everything that depends on it.
// Metrics are nil when disabled in the configuration.
func SetupDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	if cfg.UsesDefaultAPIKey() {
		logger.Warn("Using the default API key, set PRODUCT_SVC_AUTH_APIKEY before running in production")
	}

	var metrics *web.Metrics
	if cfg.Metrics.Enabled {
		metrics = web.NewMetrics(prometheus.NewRegistry())
	}

	return &Dependencies{
		ProductService: service.NewService(store.NewInMemoryStore(store.SampleProducts()...)),
		Logger:         logger,
		Metrics:        metrics,
		APIKey:         cfg.Auth.APIKey,
		Debug:          cfg.IsDevelopment(),
	}
}

// SetupHttpHandler initializes the routes for the product catalog application.
// Every request runs inside a server span.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	pApi := handler.NewAPI(deps.ProductService, deps.Logger)

	mux := server.NewChiRouter(deps.Logger, deps.Metrics)
	mux.Use(telemetry.RouteSpanName)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	handler.RegisterRoutes(mux, pipeline.New(deps.Logger, deps.Debug), pApi, handler.Stages{
		Auth:     auth.Stage(deps.APIKey),
		Validate: validation.New().Stage(),
	})
	return telemetry.Middleware(ServiceName)(mux)
}

// SetupHttpServer creates and configures an HTTP server for the product catalog application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, SetupHttpHandler(deps))
}
