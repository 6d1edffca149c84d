package repositories

import (
	"context"

	"shop/internal/models"
)

// OrderFilter narrows an order listing. Empty fields match everything.
type OrderFilter struct {
	UserID string
	Status models.OrderStatus
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// CreateWithItems inserts the order row followed by its items. Callers
	// run it inside WithinTx so both land or neither does.
	CreateWithItems(ctx context.Context, order *models.Order) error
	SetStripeSessionID(ctx context.Context, orderID, sessionID string) error
	// Delete removes an order and its items.
	Delete(ctx context.Context, orderID string) error
	// LockByStripeSessionID selects the order FOR UPDATE. Only meaningful
	// inside a transaction.
	LockByStripeSessionID(ctx context.Context, sessionID string) (*models.Order, error)
	LockByID(ctx context.Context, orderID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error
	// GetByID returns the order with its items.
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter, p Pagination) ([]models.Order, int64, error)
}
