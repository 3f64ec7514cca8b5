// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit caps the page size a client can request.
	MaxLimit = 100
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int) (*ProductDto, error)

	// FindAll returns one page of products, optionally filtered by category.
	FindAll(ctx context.Context, query ListQuery) (*Page, error)

	// Create adds a new product to the catalog.
	Create(ctx context.Context, input ProductInput) (*ProductDto, error)

	// Update replaces the fields of an existing product that are present in input.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int, input ProductInput) (*ProductDto, error)

	// DeleteByID removes a product by its ID and returns it.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int) (*ProductDto, error)

	// Search returns the products whose name contains q, ignoring case.
	// Returns ErrSearchQueryRequired if q is empty.
	Search(ctx context.Context, q string) ([]ProductDto, error)

	// Stats aggregates the whole catalog.
	Stats(ctx context.Context) Stats
}

// service implements ProductService and provides methods to manage products.
type service struct {
	store store.ProductStore
}

// NewService creates a new instance of ProductService with the provided store.
func NewService(s store.ProductStore) ProductService {
	return &service{
		store: s,
	}
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// ProductInput carries the fields of a create or update request.
// Description and InStock are nil when the client omitted them.
type ProductInput struct {
	Name        string
	Description *string
	Price       float64
	Category    string
	InStock     *bool
}

// ListQuery selects a page of products.
type ListQuery struct {
	Category string
	Page     int
	Limit    int
}

// Pagination describes the page returned by FindAll.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of products.
type Page struct {
	Items      []ProductDto
	Pagination Pagination
}

// Stats summarizes the catalog. Prices are rounded to 2 decimals.
type Stats struct {
	TotalProducts     int            `json:"totalProducts"`
	InStockCount      int            `json:"inStockCount"`
	OutOfStockCount   int            `json:"outOfStockCount"`
	CategoryBreakdown map[string]int `json:"categoryBreakdown"`
	AveragePrice      float64        `json:"averagePrice"`
	TotalValue        float64        `json:"totalValue"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *service) FindByID(ctx context.Context, id int) (*ProductDto, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

// FindAll filters the catalog by category and returns the requested page.
// Page and limit below 1 are raised to 1, and limit is capped at MaxLimit.
func (s *service) FindAll(ctx context.Context, query ListQuery) (*Page, error) {
	page := max(query.Page, 1)
	limit := min(max(query.Limit, 1), MaxLimit)

	products := s.store.FindAll(ctx)
	filtered := make([]ProductDto, 0, len(products))
	for i := range products {
		if query.Category != "" && !strings.EqualFold(products[i].Category, query.Category) {
			continue
		}
		filtered = append(filtered, *toDto(&products[i]))
	}

	total := len(filtered)
	// page-1 is compared before multiplying so a huge page cannot overflow
	start := total
	if page-1 < total/limit+1 {
		start = min((page-1)*limit, total)
	}
	end := min(start+limit, total)

	return &Page{
		Items: filtered[start:end],
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// Create trims the input, applies defaults and stores a new product.
func (s *service) Create(ctx context.Context, input ProductInput) (*ProductDto, error) {
	product := store.Product{
		Name:     strings.TrimSpace(input.Name),
		Price:    input.Price,
		Category: strings.TrimSpace(input.Category),
		InStock:  true,
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	created := s.store.Create(ctx, product)
	return toDto(&created), nil
}

// Update overwrites name, price and category, and description and inStock when present.
func (s *service) Update(ctx context.Context, id int, input ProductInput) (*ProductDto, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	price := input.Price
	patch := store.Patch{
		Name:     &name,
		Price:    &price,
		Category: &category,
		InStock:  input.InStock,
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		patch.Description = &description
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
func (s *service) DeleteByID(ctx context.Context, id int) (*ProductDto, error) {
	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	return toDto(deleted), nil
}

// Search matches q against product names.
func (s *service) Search(ctx context.Context, q string) ([]ProductDto, error) {
	if q == "" {
		return nil, perrors.ErrSearchQueryRequired
	}
	needle := strings.ToLower(q)

	matches := make([]ProductDto, 0)
	for _, p := range s.store.FindAll(ctx) {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, *toDto(&p))
		}
	}
	return matches, nil
}

// Stats computes counts and price totals over the whole catalog.
func (s *service) Stats(ctx context.Context) Stats {
	products := s.store.FindAll(ctx)
	stats := Stats{
		TotalProducts:     len(products),
		CategoryBreakdown: make(map[string]int),
	}

	var sum float64
	for _, p := range products {
		if p.InStock {
			stats.InStockCount++
		} else {
			stats.OutOfStockCount++
		}
		stats.CategoryBreakdown[p.Category]++
		sum += p.Price
	}
	if len(products) > 0 {
		stats.AveragePrice = round2(sum / float64(len(products)))
		stats.TotalValue = round2(sum)
	}
	return stats
}

// round2 rounds x to 2 decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		InStock:     product.InStock,
	}
}
