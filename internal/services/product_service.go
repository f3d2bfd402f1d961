package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"shop/internal/models"
	"shop/internal/repositories"
)

// EventPublisher publishes product lifecycle events. Satisfied by
// *rabbitmq.Client; nil disables publication.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductService handles business logic related to products: timestamping,
// the soft-delete convention, and list ordering.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. events may be nil, in which
// case no lifecycle events are published.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// ListProducts retrieves products sorted by creation time, most recent first.
// Soft-deleted records are excluded unless includeDeleted is set. An empty
// store yields an empty slice, never an error.
func (s *ProductService) ListProducts(includeDeleted bool) ([]models.Product, error) {
	products, err := s.repo.GetAll(!includeDeleted)
	if err != nil {
		return nil, err
	}

	// CreatedAt strings are fixed-width ISO-8601 UTC, so lexicographic
	// comparison is chronological. Stable sort keeps store order on ties.
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt > products[j].CreatedAt
	})
	return products, nil
}

// GetProductByID retrieves a single product by its ID. Soft-deleted records
// remain retrievable here.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct persists a new product with both timestamps set to now and
// the deleted flag off. The store assigns the ID.
func (s *ProductService) CreateProduct(title string, like bool) (*models.Product, error) {
	now := models.Now()
	product := &models.Product{
		Title:     title,
		Like:      like,
		CreatedAt: now,
		UpdatedAt: now,
		Deleted:   false,
	}

	if err := s.repo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publishEvent("product.created", product)
	return product, nil
}

// UpdateProduct rewrites the mutable fields of an existing product. ID and
// CreatedAt are carried forward unchanged; UpdatedAt is refreshed together
// with the changed fields. Returns repositories.ErrProductNotFound when the
// ID has no record.
func (s *ProductService) UpdateProduct(id, title string, like bool) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	updatedAt := models.Now()
	err = s.repo.UpdateFields(id, map[string]any{
		"title":      title,
		"like":       like,
		"updated_at": updatedAt,
	})
	if err != nil {
		return nil, err
	}

	product.Title = title
	product.Like = like
	product.UpdatedAt = updatedAt
	return product, nil
}

// DeleteProduct soft-deletes a product: the record stays in the store with
// its deleted flag set, and listing filters it out. Deleting an already
// deleted product succeeds again. Returns repositories.ErrProductNotFound
// when the ID has no record.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	err = s.repo.UpdateFields(id, map[string]any{
		"deleted": true,
	})
	if err != nil {
		return err
	}

	s.publishEvent("product.deleted", product)
	return nil
}

// publishEvent sends a best-effort lifecycle event. Publish failures are
// logged and never fail the request.
func (s *ProductService) publishEvent(routingKey string, product *models.Product) {
	if s.events == nil {
		return
	}

	body, err := json.Marshal(map[string]any{
		"id":    product.ID,
		"title": product.Title,
		"event": routingKey,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for product %s: %v", routingKey, product.ID, err)
		return
	}
	if err := s.events.Publish(routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", routingKey, product.ID, err)
	}
}
