// Package handler provides HTTP handlers for product-related operations.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abgdnv/productcatalog/internal/platform/apperror"
	"github.com/abgdnv/productcatalog/internal/platform/pipeline"
	"github.com/abgdnv/productcatalog/internal/platform/web"
	producterrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/abgdnv/productcatalog/internal/product/validation"
	"github.com/go-chi/chi/v5"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// ProductAPI defines HTTP handlers for product-related endpoints.
// Handlers return a result or an error; the pipeline writes the response.
type ProductAPI interface {
	Root(r *http.Request) (*pipeline.Result, error)
	FindAll(r *http.Request) (*pipeline.Result, error)
	FindByID(r *http.Request) (*pipeline.Result, error)
	Create(r *http.Request) (*pipeline.Result, error)
	Update(r *http.Request) (*pipeline.Result, error)
	DeleteByID(r *http.Request) (*pipeline.Result, error)
	Search(r *http.Request) (*pipeline.Result, error)
	Stats(r *http.Request) (*pipeline.Result, error)

	HealthCheck(w http.ResponseWriter, r *http.Request)
}

type api struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewAPI creates a new instance of ProductAPI with the provided service.
func NewAPI(service service.ProductService, logger *slog.Logger) ProductAPI {
	return &api{
		service: service,
		logger:  logger.With("component", "api"),
	}
}

// Descriptor is returned by the root endpoint.
type Descriptor struct {
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Root describes the service.
func (a *api) Root(_ *http.Request) (*pipeline.Result, error) {
	return pipeline.OK(web.Envelope{
		Success: true,
		Message: "Hello World",
		Data: Descriptor{
			Version: Version,
			Endpoints: map[string]string{
				"products": "/api/products",
				"search":   "/api/products/search",
				"stats":    "/api/products/stats",
			},
		},
	}), nil
}

// FindAll returns one page of products, optionally filtered by category.
func (a *api) FindAll(r *http.Request) (*pipeline.Result, error) {
	query := r.URL.Query()
	listQuery := service.ListQuery{
		Category: query.Get("category"),
		Page:     queryInt(query.Get("page"), service.DefaultPage),
		Limit:    queryInt(query.Get("limit"), service.DefaultLimit),
	}
	a.logger.DebugContext(r.Context(), "Received request to find all products",
		"category", listQuery.Category, "page", listQuery.Page, "limit", listQuery.Limit)

	page, err := a.service.FindAll(r.Context(), listQuery)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return pipeline.OK(web.Envelope{
		Success:    true,
		Data:       page.Items,
		Pagination: page.Pagination,
	}), nil
}

// FindByID retrieves a product by its ID.
func (a *api) FindByID(r *http.Request) (*pipeline.Result, error) {
	id, err := parseID(r)
	if err != nil {
		return nil, err
	}

	found, err := a.service.FindByID(r.Context(), id)
	if err != nil {
		return nil, toAppError(err, id)
	}
	return pipeline.OK(web.Envelope{Success: true, Data: found}), nil
}

// Create handles the creation of a new product.
func (a *api) Create(r *http.Request) (*pipeline.Result, error) {
	input, err := inputFrom(r)
	if err != nil {
		return nil, err
	}

	created, err := a.service.Create(r.Context(), input)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	a.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	return pipeline.Created(web.Envelope{
		Success: true,
		Message: "Product created successfully",
		Data:    created,
	}), nil
}

// Update replaces an existing product's fields.
func (a *api) Update(r *http.Request) (*pipeline.Result, error) {
	id, err := parseID(r)
	if err != nil {
		return nil, err
	}
	input, err := inputFrom(r)
	if err != nil {
		return nil, err
	}

	updated, err := a.service.Update(r.Context(), id, input)
	if err != nil {
		return nil, toAppError(err, id)
	}
	a.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	return pipeline.OK(web.Envelope{
		Success: true,
		Message: "Product updated successfully",
		Data:    updated,
	}), nil
}

// DeleteByID deletes a product by its ID and returns the deleted record.
func (a *api) DeleteByID(r *http.Request) (*pipeline.Result, error) {
	id, err := parseID(r)
	if err != nil {
		return nil, err
	}

	deleted, err := a.service.DeleteByID(r.Context(), id)
	if err != nil {
		return nil, toAppError(err, id)
	}
	a.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	return pipeline.OK(web.Envelope{
		Success: true,
		Message: "Product deleted successfully",
		Data:    deleted,
	}), nil
}

// Search finds products by name.
func (a *api) Search(r *http.Request) (*pipeline.Result, error) {
	q := r.URL.Query().Get("q")

	matches, err := a.service.Search(r.Context(), q)
	if err != nil {
		if errors.Is(err, producterrors.ErrSearchQueryRequired) {
			return nil, apperror.Validation(`Search query parameter "q" is required`)
		}
		return nil, apperror.Internal(err)
	}
	count := len(matches)
	return pipeline.OK(web.Envelope{
		Success: true,
		Query:   q,
		Count:   &count,
		Data:    matches,
	}), nil
}

// Stats returns aggregate catalog statistics.
func (a *api) Stats(r *http.Request) (*pipeline.Result, error) {
	return pipeline.OK(web.Envelope{Success: true, Data: a.service.Stats(r.Context())}), nil
}

// HealthCheck is a simple health check endpoint.
func (a *api) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// parseID reads the product ID from the path. An ID that is not an integer
// cannot match any product and is reported as not found.
func parseID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NotFound("Product with ID %s not found", raw)
	}
	return id, nil
}

// queryInt parses an integer query parameter, falling back to def when it is missing or not a number.
func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// inputFrom converts the payload left in the context by the validation stage.
func inputFrom(r *http.Request) (service.ProductInput, error) {
	payload, ok := validation.PayloadFrom(r.Context())
	if !ok || payload.Name == nil || payload.Price == nil || payload.Category == nil {
		return service.ProductInput{}, apperror.Internal(fmt.Errorf("validated payload missing from request context"))
	}
	return service.ProductInput{
		Name:        *payload.Name,
		Description: payload.Description,
		Price:       *payload.Price,
		Category:    *payload.Category,
		InStock:     payload.InStock,
	}, nil
}

// toAppError maps service errors for the product with the given ID.
func toAppError(err error, id int) error {
	if errors.Is(err, producterrors.ErrProductNotFound) {
		return apperror.NotFound("Product with ID %d not found", id)
	}
	return apperror.Internal(err)
}
