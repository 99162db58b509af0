package store

import (
	"context"
	"sync"
	"time"

	"github.com/abgdnv/productsvc/internal/product/errors"
	"github.com/google/uuid"
)

// inMemory implements ProductStore using an insertion-ordered slice.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
	now      func() time.Time
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make([]Product, 0),
		now:      time.Now,
	}
}

// FindAll retrieves all products in insertion order.
func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, len(s.products))
	copy(list, s.products)
	return list, nil
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	t := s.products[i]
	return &t, nil
}

// Create creates a new product and returns it.
func (s *inMemory) Create(_ context.Context, name string, price float64, stock int32, isActive bool) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	product := Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.products = append(s.products, product)

	return &product, nil
}

// Update overwrites the mutable fields of a product in place.
func (s *inMemory) Update(_ context.Context, id string, name string, price float64, stock int32, isActive bool) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	p := &s.products[i]
	p.Name = name
	p.Price = price
	p.Stock = stock
	p.IsActive = isActive
	p.UpdatedAt = s.now().UTC()

	updated := *p
	return &updated, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	deleted := s.products[i]
	s.products = append(s.products[:i], s.products[i+1:]...)
	return &deleted, nil
}

// indexOf returns the position of the product with the given ID, or -1. Callers hold the lock.
func (s *inMemory) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
