package repositories

import (
	"context"
	"fmt"
	"time"

	"shop/internal/apperrors"
	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// ListByUser returns the user's cart items with products preloaded.
func (r *GORMCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, dbError(err, "failed to list cart for user %s", userID)
	}
	return items, nil
}

// Upsert relies on the (user_id, product_id) unique index so concurrent adds
// of the same product never race on a read-then-write.
func (r *GORMCartRepository) Upsert(ctx context.Context, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			"added_at": gorm.Expr("excluded.added_at"),
		}),
	}).Create(item).Error
	if err != nil {
		return dbError(err, "failed to add product %s to cart of user %s", item.ProductID, item.UserID)
	}
	return nil
}

// UpdateQuantity sets the quantity of one of the user's items.
func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity)
	if res.Error != nil {
		return dbError(res.Error, "failed to update cart item %s", itemID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes one of the user's items.
func (r *GORMCartRepository) Delete(ctx context.Context, userID, itemID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return dbError(res.Error, "failed to remove cart item %s", itemID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, apperrors.ErrNotFound)
	}
	return nil
}

// ClearByUser removes every item of the user and reports how many went.
func (r *GORMCartRepository) ClearByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, dbError(res.Error, "failed to clear cart of user %s", userID)
	}
	return res.RowsAffected, nil
}
