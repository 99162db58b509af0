// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	perrors "github.com/abgdnv/productsvc/internal/product/errors"
	"github.com/abgdnv/productsvc/internal/product/store"
	"github.com/go-playground/validator/v10"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*ProductDto, error)

	// Create validates the input and adds a new product to the system.
	// Returns *ValidationError if the input breaks the schema.
	Create(ctx context.Context, input ProductInput) (*ProductDto, error)

	// Update validates the input and overwrites every mutable field of an existing product.
	// Returns *ValidationError if the input breaks the schema,
	// ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, input ProductInput) (*ProductDto, error)

	// DeleteByID removes a product by its ID and returns the removed product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) (*ProductDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	validate   *validator.Validate
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
		validate:   newValidator(),
	}
}

// ProductInput is the client-submitted payload for both create and update.
// Pointer fields make presence mandatory, so that a missing stock or is_active is rejected rather than zeroed.
type ProductInput struct {
	Name     string   `json:"name"      validate:"required"`
	Price    *float64 `json:"price"     validate:"required,min=1"`
	Stock    *int32   `json:"stock"     validate:"required,min=0"`
	IsActive *bool    `json:"is_active" validate:"required"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int32     `json:"stock"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindAll retrieves a list of all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id string) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	return toDto(product), nil
}

// Create validates the input, creates a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, input ProductInput) (*ProductDto, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	p, err := s.repository.Create(ctx, input.Name, *input.Price, *input.Stock, *input.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return toDto(p), nil
}

// Update validates the input and replaces the product's fields. The ID is preserved.
func (s *Service) Update(ctx context.Context, id string, input ProductInput) (*ProductDto, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	updated, err := s.repository.Update(ctx, id, input.Name, *input.Price, *input.Stock, *input.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}

	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID and returns the deleted product.
func (s *Service) DeleteByID(ctx context.Context, id string) (*ProductDto, error) {
	deleted, err := s.repository.DeleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}

	return toDto(deleted), nil
}

// validateInput checks input against the product schema.
// Field errors are reported under their JSON names.
func (s *Service) validateInput(input ProductInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate product: %w", err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		// fieldErr.Tag() returns "required", "min", etc.
		fields[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
	}
	return &perrors.ValidationError{Fields: fields}
}

// newValidator returns a validator that names fields after their json tags.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		IsActive:  product.IsActive,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
