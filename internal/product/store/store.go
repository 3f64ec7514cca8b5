// Package store provides an interface for product storage operations.
package store

import "context"

// ProductStore is an interface for product storage operations.
// Implementations must serialize mutations and hand out copies, so a reader never
// observes a partially applied change.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int) (*Product, error)

	// FindAll returns a snapshot of all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) []Product

	// Create assigns a fresh ID to the product, appends it and returns the stored record.
	Create(ctx context.Context, product Product) Product

	// Update applies the non-nil fields of the patch to an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int, patch Patch) (*Product, error)

	// DeleteByID removes a product by its ID and returns the removed record.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int) (*Product, error)
}

// Product represents a product entity in the store.
type Product struct {
	ID          int
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     bool
}

// Patch holds the fields of an update. Nil fields keep their current value.
type Patch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// apply returns a copy of p with the patch fields set.
func (patch Patch) apply(p Product) Product {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
	return p
}
