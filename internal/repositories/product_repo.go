package repositories

import (
	"errors"

	"shop/internal/models"
)

// ErrProductNotFound is returned when the referenced product ID has no record.
// Handlers map it to a 404 via errors.Is.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
// It covers the four store primitives the service needs: get-all with an
// optional deleted filter, get-by-id, insert with a store-assigned ID, and
// partial-field update-by-id.
type ProductRepository interface {
	GetAll(excludeDeleted bool) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	UpdateFields(id string, fields map[string]any) error
}
