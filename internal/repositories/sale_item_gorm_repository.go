package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop/internal/apperrors"
	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSaleItemRepository is a GORM implementation of SaleItemRepository.
type GORMSaleItemRepository struct {
	db *gorm.DB
}

// NewGORMSaleItemRepository creates a new instance of GORMSaleItemRepository.
func NewGORMSaleItemRepository(db *gorm.DB) *GORMSaleItemRepository {
	return &GORMSaleItemRepository{db: db}
}

// Create inserts a sale window.
func (r *GORMSaleItemRepository) Create(ctx context.Context, sale *models.SaleItem) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return dbError(err, "failed to create sale item for product %s", sale.ProductID)
	}
	return nil
}

// GetByID retrieves a sale window by its ID.
func (r *GORMSaleItemRepository) GetByID(ctx context.Context, id string) (*models.SaleItem, error) {
	var sale models.SaleItem
	if err := r.db.WithContext(ctx).Take(&sale, "id = ?", id).Error; err != nil {
		return nil, dbError(err, "sale item with ID %s", id)
	}
	return &sale, nil
}

// List retrieves one page of sale windows, newest first.
func (r *GORMSaleItemRepository) List(ctx context.Context, filter SaleItemFilter, p Pagination) ([]models.SaleItem, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.SaleItem{})
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "failed to count sale items")
	}
	var sales []models.SaleItem
	if err := q.Scopes(paginate(p)).Order("created_at DESC").Find(&sales).Error; err != nil {
		return nil, 0, dbError(err, "failed to list sale items")
	}
	return sales, total, nil
}

// Update overwrites the mutable fields of a sale window.
func (r *GORMSaleItemRepository) Update(ctx context.Context, sale *models.SaleItem) error {
	res := r.db.WithContext(ctx).Model(&models.SaleItem{}).Where("id = ?", sale.ID).
		Select("product_id", "discount_percent", "start_date", "end_date").
		Updates(sale)
	if res.Error != nil {
		return dbError(res.Error, "failed to update sale item %s", sale.ID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sale item with ID %s not found for update: %w", sale.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes a sale window.
func (r *GORMSaleItemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.SaleItem{}, "id = ?", id)
	if res.Error != nil {
		return dbError(res.Error, "failed to delete sale item %s", id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sale item with ID %s not found for deletion: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ActiveForProduct returns the newest sale window covering at.
func (r *GORMSaleItemRepository) ActiveForProduct(ctx context.Context, productID string, at time.Time) (*models.SaleItem, error) {
	var sale models.SaleItem
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND start_date <= ? AND end_date >= ?", productID, at, at).
		Order("created_at DESC").
		Take(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err, "failed to resolve active sale for product %s", productID)
	}
	return &sale, nil
}
