// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Both implementations report unknown ids with ErrProductNotFound.
type ProductStore interface {
	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*Product, error)

	// Create adds a new product with a freshly generated ID.
	// Returns error if the product cannot be created.
	Create(ctx context.Context, name string, price float64, stock int32, isActive bool) (*Product, error)

	// Update overwrites every mutable field of an existing product. The ID is preserved.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, name string, price float64, stock int32, isActive bool) (*Product, error)

	// DeleteByID removes a product by its ID and returns the removed record.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) (*Product, error)
}

// Product represents a product entity in the store.
type Product struct {
	ID        string
	Name      string
	Price     float64
	Stock     int32
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
