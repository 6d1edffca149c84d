package repositories

import (
	"context"
	"time"

	"shop/internal/models"
)

// SaleItemFilter narrows a sale item listing.
type SaleItemFilter struct {
	ProductID string
}

// SaleItemRepository defines the interface for sale window data access.
type SaleItemRepository interface {
	Create(ctx context.Context, sale *models.SaleItem) error
	GetByID(ctx context.Context, id string) (*models.SaleItem, error)
	List(ctx context.Context, filter SaleItemFilter, p Pagination) ([]models.SaleItem, int64, error)
	Update(ctx context.Context, sale *models.SaleItem) error
	Delete(ctx context.Context, id string) error
	// ActiveForProduct returns the most recently created sale whose window
	// contains at, or nil when there is none.
	ActiveForProduct(ctx context.Context, productID string, at time.Time) (*models.SaleItem, error)
}
