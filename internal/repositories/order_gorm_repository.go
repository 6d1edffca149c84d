package repositories

import (
	"context"
	"fmt"

	"shop/internal/apperrors"
	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// CreateWithItems inserts the order and then each of its items.
func (r *GORMOrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return dbError(err, "failed to create order for user %s", order.UserID)
	}
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = order.ID
	}
	if len(order.Items) > 0 {
		if err := db.Create(&order.Items).Error; err != nil {
			return dbError(err, "failed to create items of order %s", order.ID)
		}
	}
	return nil
}

// SetStripeSessionID attaches the payment session to the order.
func (r *GORMOrderRepository) SetStripeSessionID(ctx context.Context, orderID, sessionID string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).
		Update("stripe_session_id", sessionID)
	if res.Error != nil {
		return dbError(res.Error, "failed to attach session %s to order %s", sessionID, orderID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", orderID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes the order items and then the order row.
func (r *GORMOrderRepository) Delete(ctx context.Context, orderID string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return dbError(err, "failed to delete items of order %s", orderID)
	}
	res := db.Where("id = ?", orderID).Delete(&models.Order{})
	if res.Error != nil {
		return dbError(res.Error, "failed to delete order %s", orderID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", orderID, apperrors.ErrNotFound)
	}
	return nil
}

// LockByStripeSessionID selects the order matching the session FOR UPDATE.
func (r *GORMOrderRepository) LockByStripeSessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("stripe_session_id = ?", sessionID).
		Take(&order).Error
	if err != nil {
		return nil, dbError(err, "order for session %s", sessionID)
	}
	return &order, nil
}

// LockByID selects the order FOR UPDATE.
func (r *GORMOrderRepository) LockByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		Take(&order).Error
	if err != nil {
		return nil, dbError(err, "order %s", orderID)
	}
	return &order, nil
}

// UpdateStatus sets the status of an order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("status", status)
	if res.Error != nil {
		return dbError(res.Error, "failed to set status of order %s to %s", orderID, status)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s not found for status update: %w", orderID, apperrors.ErrNotFound)
	}
	return nil
}

// GetByID returns the order with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").Take(&order, "id = ?", orderID).Error; err != nil {
		return nil, dbError(err, "order with ID %s", orderID)
	}
	return &order, nil
}

// List retrieves one page of orders, newest first.
func (r *GORMOrderRepository) List(ctx context.Context, filter OrderFilter, p Pagination) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "failed to count orders")
	}
	var orders []models.Order
	if err := q.Scopes(paginate(p)).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, dbError(err, "failed to list orders")
	}
	return orders, total, nil
}
