package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"productapi/internal/models"
	"productapi/internal/repositories"
)

// EventPublisher delivers product events to a message broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, messageType string, payload any) error
}

// ProductInput carries the client-controlled fields of a product.
type ProductInput struct {
	Name         string
	Price        decimal.Decimal
	Availability bool
}

// ProductService handles product operations on top of a ProductRepository.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	log       zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in which
// case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores a new, available product.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:         input.Name,
		Price:        input.Price,
		Availability: true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, models.NewProductEvent(models.EventProductCreated, product.ID, product))
	return product, nil
}

// UpdateProduct overwrites name, price and availability of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Availability = input.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, models.NewProductEvent(models.EventProductUpdated, product.ID, product))
	return product, nil
}

// ToggleAvailability flips the availability flag of an existing product.
func (s *ProductService) ToggleAvailability(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Availability = !product.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, models.NewProductEvent(models.EventProductAvailabilityToggled, product.ID, product))
	return product, nil
}

// DeleteProduct removes an existing product.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, models.NewProductEvent(models.EventProductDeleted, id, nil))
	return nil
}

// publish never fails the caller: the mutation is already committed.
func (s *ProductService) publish(ctx context.Context, event models.ProductEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(ctx, event.Type, event); err != nil {
		s.log.Warn().
			Err(fmt.Errorf("publish %s for product %d: %w", event.Type, event.ProductID, err)).
			Msg("product event not delivered")
	}
}
