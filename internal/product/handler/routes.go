package handler

import (
	"net/http"

	"github.com/abgdnv/productcatalog/internal/platform/pipeline"
	"github.com/go-chi/chi/v5"
)

// Stages holds the pipeline stages that guard mutating routes.
type Stages struct {
	Auth     pipeline.Stage
	Validate pipeline.Stage
}

// RegisterRoutes registers the product routes on mux.
// Reads are public. Create and update are authenticated and validated, delete is authenticated.
// Unknown routes and methods are answered by the pipeline's NotFound handler.
func RegisterRoutes(mux *chi.Mux, p *pipeline.Pipeline, pApi ProductAPI, stages Stages) {
	// set before Route so the sub-router inherits them
	notFound := p.NotFound()
	mux.NotFound(notFound.ServeHTTP)
	mux.MethodNotAllowed(notFound.ServeHTTP)

	mux.Method(http.MethodGet, "/", p.Handle(pApi.Root))
	mux.Get("/healthz", pApi.HealthCheck)

	mux.Route("/api/products", func(r chi.Router) {
		r.Method(http.MethodGet, "/", p.Handle(pApi.FindAll))
		r.Method(http.MethodPost, "/", p.Handle(pApi.Create, stages.Auth, stages.Validate))
		r.Method(http.MethodGet, "/search", p.Handle(pApi.Search))
		r.Method(http.MethodGet, "/stats", p.Handle(pApi.Stats))
		r.Method(http.MethodGet, "/{id}", p.Handle(pApi.FindByID))
		r.Method(http.MethodPut, "/{id}", p.Handle(pApi.Update, stages.Auth, stages.Validate))
		r.Method(http.MethodDelete, "/{id}", p.Handle(pApi.DeleteByID, stages.Auth))
	})
}
