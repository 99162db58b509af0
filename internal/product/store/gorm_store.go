package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	perrors "github.com/abgdnv/productsvc/internal/product/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productModel is the gorm mapping of the products table.
type productModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Price     float64   `gorm:"type:double precision;not null"`
	Stock     int32     `gorm:"not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for productModel
func (productModel) TableName() string {
	return "products"
}

// BeforeCreate generates the UUID primary key.
func (m *productModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// GormStore implements ProductStore on top of a relational table accessed through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new instance of ProductStore backed by gorm.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FindAll retrieves all products ordered by creation time.
func (g *GormStore) FindAll(ctx context.Context) ([]Product, error) {
	var models []productModel
	if err := g.db.WithContext(ctx).Order("created_at").Order("id").Find(&models).Error; err != nil {
		return nil, translate(err, "find all products")
	}
	products := make([]Product, len(models))
	for i := range models {
		products[i] = toProduct(&models[i])
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (g *GormStore) FindByID(ctx context.Context, id string) (*Product, error) {
	if !isUUID(id) {
		return nil, perrors.ErrProductNotFound
	}
	var m productModel
	if err := g.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find product by ID")
	}
	p := toProduct(&m)
	return &p, nil
}

// Create inserts a new product row. The ID is assigned by the BeforeCreate hook.
func (g *GormStore) Create(ctx context.Context, name string, price float64, stock int32, isActive bool) (*Product, error) {
	m := productModel{
		Name:     name,
		Price:    price,
		Stock:    stock,
		IsActive: isActive,
	}
	if err := g.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, translate(err, "create product")
	}
	p := toProduct(&m)
	return &p, nil
}

// Update overwrites the mutable columns of a product within a single transaction.
// Returns ErrProductNotFound if no product exists with the given ID.
func (g *GormStore) Update(ctx context.Context, id string, name string, price float64, stock int32, isActive bool) (*Product, error) {
	if !isUUID(id) {
		return nil, perrors.ErrProductNotFound
	}
	var m productModel
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		m.Name = name
		m.Price = price
		m.Stock = stock
		m.IsActive = isActive
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, translate(err, "update product")
	}
	p := toProduct(&m)
	return &p, nil
}

// DeleteByID removes a product and returns the deleted row.
// Returns ErrProductNotFound if no product exists with the given ID.
func (g *GormStore) DeleteByID(ctx context.Context, id string) (*Product, error) {
	if !isUUID(id) {
		return nil, perrors.ErrProductNotFound
	}
	var m productModel
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		return nil, translate(err, "delete product")
	}
	p := toProduct(&m)
	return &p, nil
}

// translate maps gorm errors onto the product error kinds.
func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return perrors.ErrProductNotFound
	}
	return fmt.Errorf("%w: failed to %s: %w", perrors.ErrPersistence, op, err)
}

func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}

func toProduct(m *productModel) Product {
	return Product{
		ID:        m.ID,
		Name:      m.Name,
		Price:     m.Price,
		Stock:     m.Stock,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
