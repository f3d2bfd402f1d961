package repositories

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"shop/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It backs the server when no database DSN is configured and serves as the
// substitute store in tests.
type MockProductRepository struct {
	products map[string]models.Product
	order    []string // insertion order, so GetAll is deterministic
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products in insertion order, optionally filtering out
// soft-deleted records.
func (r *MockProductRepository) GetAll(excludeDeleted bool) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		p := r.products[id]
		if excludeDeleted && p.Deleted {
			continue
		}
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID, soft-deleted or not.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product, assigning a UUID when none is set.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, ok := r.products[product.ID]; !ok {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// UpdateFields rewrites only the named fields of an existing product.
func (r *MockProductRepository) UpdateFields(id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	for column, value := range fields {
		switch column {
		case "title":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value for column %s: expected string, got %T", column, value)
			}
			product.Title = s
		case "like":
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value for column %s: expected bool, got %T", column, value)
			}
			product.Like = b
		case "updated_at":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value for column %s: expected string, got %T", column, value)
			}
			product.UpdatedAt = s
		case "deleted":
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value for column %s: expected bool, got %T", column, value)
			}
			product.Deleted = b
		}
	}
	r.products[id] = product
	return nil
}
