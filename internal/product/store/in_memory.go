package store

import (
	"context"
	"slices"
	"sync"

	"github.com/abgdnv/productcatalog/internal/product/errors"
)

// inMemory implements ProductStore using an ordered in-memory slice.
// A single RWMutex guards both the slice and the ID counter.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
	nextID   int
}

// NewInMemoryStore creates a new instance of ProductStore holding the given products.
// The ID counter starts after the highest seeded ID.
func NewInMemoryStore(seed ...Product) ProductStore {
	s := &inMemory{
		products: make([]Product, 0, len(seed)),
		nextID:   1,
	}
	for _, p := range seed {
		s.products = append(s.products, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

// SampleProducts returns the catalog the service starts with.
func SampleProducts() []Product {
	return []Product{
		{ID: 1, Name: "Laptop", Description: "High-performance laptop for professionals", Price: 1299.99, Category: "Electronics", InStock: true},
		{ID: 2, Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Price: 29.99, Category: "Electronics", InStock: true},
		{ID: 3, Name: "Office Chair", Description: "Comfortable ergonomic office chair", Price: 349.99, Category: "Furniture", InStock: false},
		{ID: 4, Name: "Desk Lamp", Description: "LED desk lamp with adjustable brightness", Price: 45.99, Category: "Furniture", InStock: true},
		{ID: 5, Name: "Mechanical Keyboard", Description: "RGB mechanical gaming keyboard", Price: 149.99, Category: "Electronics", InStock: true},
	}
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id int) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	p := s.products[i]
	return &p, nil
}

// FindAll retrieves all products.
func (s *inMemory) FindAll(_ context.Context) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.products)
}

// Create creates a new product and returns it.
func (s *inMemory) Create(_ context.Context, product Product) Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.nextID
	s.nextID++
	s.products = append(s.products, product)

	return product
}

// Update applies a partial update to a product.
func (s *inMemory) Update(_ context.Context, id int, patch Patch) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	updated := patch.apply(s.products[i])
	s.products[i] = updated
	return &updated, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id int) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	removed := s.products[i]
	s.products = slices.Delete(s.products, i, i+1)
	return &removed, nil
}

// indexOf must be called with the lock held.
func (s *inMemory) indexOf(id int) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}
