package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null"`
	Description string          `json:"description" gorm:"type:varchar(500)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SaleItem is a time-bounded discount on a product. Several windows may exist
// for one product; the newest one covering the evaluation time applies.
type SaleItem struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID       string          `json:"product_id" gorm:"type:varchar(36);not null;index:idx_sale_items_product_window"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:decimal(5,2);not null"`
	StartDate       time.Time       `json:"start_date" gorm:"not null;index:idx_sale_items_product_window"`
	EndDate         time.Time       `json:"end_date" gorm:"not null;index:idx_sale_items_product_window"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Price is the effective price of a product at a point in time.
type Price struct {
	ProductID       string           `json:"product_id"`
	BasePrice       decimal.Decimal  `json:"base_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	FinalPrice      decimal.Decimal  `json:"final_price"`
}
