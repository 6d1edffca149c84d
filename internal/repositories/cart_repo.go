package repositories

import (
	"context"

	"shop/internal/models"
)

// CartRepository defines the interface for cart item data access.
type CartRepository interface {
	// ListByUser returns the user's items with their products, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	// Upsert inserts the item or, when the user already has the product,
	// adds the quantity to the existing row and refreshes added_at.
	Upsert(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Delete(ctx context.Context, userID, itemID string) error
	ClearByUser(ctx context.Context, userID string) (int64, error)
}
