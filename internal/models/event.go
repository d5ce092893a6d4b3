package models

import (
	"time"

	"github.com/google/uuid"
)

// Product lifecycle event types.
const (
	EventProductCreated             = "product.created"
	EventProductUpdated             = "product.updated"
	EventProductAvailabilityToggled = "product.availability_toggled"
	EventProductDeleted             = "product.deleted"
)

// ProductEvent is published after a product mutation has been persisted.
type ProductEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ProductID  uint      `json:"productId"`
	OccurredAt time.Time `json:"occurredAt"`
	Product    *Product  `json:"product,omitempty"`
}

// NewProductEvent stamps a new event for product. A nil product is allowed for deletions
// where only the id is kept.
func NewProductEvent(eventType string, productID uint, product *Product) ProductEvent {
	return ProductEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
		Product:    product,
	}
}
