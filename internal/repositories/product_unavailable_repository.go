package repositories

import (
	"context"
	"fmt"

	"productapi/internal/models"
)

// UnavailableProductRepository stands in for the database when it could not be
// reached at startup. Every call fails with ErrDatabaseUnavailable.
type UnavailableProductRepository struct {
	cause error
}

// NewUnavailableProductRepository keeps cause so it shows up in request logs.
func NewUnavailableProductRepository(cause error) *UnavailableProductRepository {
	return &UnavailableProductRepository{cause: cause}
}

func (r *UnavailableProductRepository) err() error {
	return fmt.Errorf("%w: %v", ErrDatabaseUnavailable, r.cause)
}

func (r *UnavailableProductRepository) GetAll(context.Context) ([]models.Product, error) {
	return nil, r.err()
}

func (r *UnavailableProductRepository) GetByID(context.Context, uint) (*models.Product, error) {
	return nil, r.err()
}

func (r *UnavailableProductRepository) Create(context.Context, *models.Product) error {
	return r.err()
}

func (r *UnavailableProductRepository) Update(context.Context, *models.Product) error {
	return r.err()
}

func (r *UnavailableProductRepository) Delete(context.Context, uint) error {
	return r.err()
}
