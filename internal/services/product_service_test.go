package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shop/internal/models"
	"shop/internal/repositories"
	"shop/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(excludeDeleted bool) ([]models.Product, error) {
	args := m.Called(excludeDeleted)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateFields(id string, fields map[string]any) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	mockEvents.On("Publish", "product.created", mock.Anything).Return(nil).Once()

	product, err := service.CreateProduct("Racket", true)

	assert.NoError(t, err)
	assert.Equal(t, "Racket", product.Title)
	assert.True(t, product.Like)
	assert.False(t, product.Deleted)
	assert.NotEmpty(t, product.CreatedAt)
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_CreateProduct_StoreError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(fmt.Errorf("database error")).Once()

	product, err := service.CreateProduct("Racket", false)

	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("GetByID", "nonexistent-id").Return(nil, repositories.ErrProductNotFound).Once()

	product, err := service.UpdateProduct("nonexistent-id", "Racket", true)

	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, product)
	// No write must happen for an unknown ID.
	mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("GetByID", "nonexistent-id").Return(nil, repositories.ErrProductNotFound).Once()

	err := service.DeleteProduct("nonexistent-id")

	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProducts_Empty(t *testing.T) {
	service := services.NewProductService(repositories.NewMockProductRepository(), nil)

	products, err := service.ListProducts(false)

	assert.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductService_ListProducts_SortsByCreatedAtDescending(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	older := models.Product{ID: "old", Title: "Old", CreatedAt: "2024-01-01T00:00:00.000Z", UpdatedAt: "2024-01-01T00:00:00.000Z"}
	newer := models.Product{ID: "new", Title: "New", CreatedAt: "2024-06-01T00:00:00.000Z", UpdatedAt: "2024-06-01T00:00:00.000Z"}
	assert.NoError(t, repo.Create(&older))
	assert.NoError(t, repo.Create(&newer))

	products, err := service.ListProducts(false)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "new", products[0].ID)
	assert.Equal(t, "old", products[1].ID)
}

func TestProductService_ListProducts_TiesKeepStoreOrder(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	// Two records sharing a createdAt tie, one newer record on top.
	tieFirst := models.Product{ID: "tie-1", Title: "Tie First", CreatedAt: "2024-03-01T00:00:00.000Z"}
	tieSecond := models.Product{ID: "tie-2", Title: "Tie Second", CreatedAt: "2024-03-01T00:00:00.000Z"}
	newest := models.Product{ID: "top", Title: "Top", CreatedAt: "2024-06-01T00:00:00.000Z"}
	assert.NoError(t, repo.Create(&tieFirst))
	assert.NoError(t, repo.Create(&tieSecond))
	assert.NoError(t, repo.Create(&newest))

	products, err := service.ListProducts(false)

	assert.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, "top", products[0].ID)
	// Equal timestamps keep the store's order.
	assert.Equal(t, "tie-1", products[1].ID)
	assert.Equal(t, "tie-2", products[2].ID)
}

func TestProductService_ListProducts_FiltersDeleted(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	active := models.Product{ID: "a", Title: "Active", CreatedAt: "2024-01-02T00:00:00.000Z"}
	deleted := models.Product{ID: "b", Title: "Gone", CreatedAt: "2024-01-01T00:00:00.000Z", Deleted: true}
	assert.NoError(t, repo.Create(&active))
	assert.NoError(t, repo.Create(&deleted))

	products, err := service.ListProducts(false)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "a", products[0].ID)

	products, err = service.ListProducts(true)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductService_UpdateProduct_PreservesIdentityFields(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	original := models.Product{
		ID:        "abc123",
		Title:     "Racket",
		Like:      true,
		CreatedAt: "2024-01-01T00:00:00.000Z",
		UpdatedAt: "2024-01-01T00:00:00.000Z",
	}
	assert.NoError(t, repo.Create(&original))

	updated, err := service.UpdateProduct("abc123", "Racket Pro", false)

	assert.NoError(t, err)
	assert.Equal(t, "abc123", updated.ID)
	assert.Equal(t, "Racket Pro", updated.Title)
	assert.False(t, updated.Like)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, updated.CreatedAt)

	// The stored record matches what was returned.
	stored, err := repo.GetByID("abc123")
	assert.NoError(t, err)
	assert.Equal(t, updated.Title, stored.Title)
	assert.Equal(t, updated.UpdatedAt, stored.UpdatedAt)
	assert.False(t, stored.Deleted)
}

func TestProductService_DeleteProduct_IsIdempotent(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	product := models.Product{ID: "abc123", Title: "Racket", CreatedAt: "2024-01-01T00:00:00.000Z", UpdatedAt: "2024-01-01T00:00:00.000Z"}
	assert.NoError(t, repo.Create(&product))

	assert.NoError(t, service.DeleteProduct("abc123"))
	// A second delete of the same record is not an error.
	assert.NoError(t, service.DeleteProduct("abc123"))

	// The record stays retrievable by ID with only the flag flipped.
	stored, err := repo.GetByID("abc123")
	assert.NoError(t, err)
	assert.True(t, stored.Deleted)
	assert.Equal(t, "Racket", stored.Title)
	assert.Equal(t, product.UpdatedAt, stored.UpdatedAt)

	products, err := service.ListProducts(false)
	assert.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductService_DeleteProduct_PublishesEvent(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(repo, mockEvents)

	product := models.Product{ID: "abc123", Title: "Racket", CreatedAt: "2024-01-01T00:00:00.000Z"}
	assert.NoError(t, repo.Create(&product))

	mockEvents.On("Publish", "product.deleted", mock.Anything).Return(nil).Once()

	assert.NoError(t, service.DeleteProduct("abc123"))
	mockEvents.AssertExpectations(t)
}

func TestProductService_DeleteProduct_PublishFailureDoesNotFail(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(repo, mockEvents)

	product := models.Product{ID: "abc123", Title: "Racket", CreatedAt: "2024-01-01T00:00:00.000Z"}
	assert.NoError(t, repo.Create(&product))

	mockEvents.On("Publish", "product.deleted", mock.Anything).Return(fmt.Errorf("broker down")).Once()

	// Event publication is best-effort; the delete itself still succeeds.
	assert.NoError(t, service.DeleteProduct("abc123"))

	stored, err := repo.GetByID("abc123")
	assert.NoError(t, err)
	assert.True(t, stored.Deleted)
	mockEvents.AssertExpectations(t)
}
