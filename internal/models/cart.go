package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line in a user's cart.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_user_product"`
	Product   *Product  `json:"-" gorm:"foreignKey:ProductID"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	AddedAt   time.Time `json:"added_at" gorm:"not null"`
}

// CartLine is a cart item priced at snapshot time.
type CartLine struct {
	CartItemID      string           `json:"cart_item_id"`
	ProductID       string           `json:"product_id"`
	Name            string           `json:"name"`
	Quantity        int              `json:"quantity"`
	BasePrice       decimal.Decimal  `json:"base_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	FinalPrice      decimal.Decimal  `json:"final_price"`
	LineTotal       decimal.Decimal  `json:"line_total"`
	AddedAt         time.Time        `json:"added_at"`
}

// CartSnapshot is a point-in-time priced view of a cart. It is what the user
// sees and what checkout turns into an order.
type CartSnapshot struct {
	UserID        string          `json:"user_id"`
	Items         []CartLine      `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}
