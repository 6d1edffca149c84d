package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shop/internal/apperrors"
	"shop/internal/models"
	"shop/internal/repositories"

	"github.com/shopspring/decimal"
)

// AddItemInput is the payload of CartService.Add.
type AddItemInput struct {
	ProductID string
	Quantity  int
}

// ClearResult reports how many items Clear removed along with the now empty
// cart.
type ClearResult struct {
	Removed int64                `json:"removed"`
	Cart    *models.CartSnapshot `json:"cart"`
}

// CartService owns the cart mutations and the priced cart view.
type CartService struct {
	store repositories.Store
	now   func() time.Time
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store) *CartService {
	return &CartService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot prices the user's cart as of now.
func (s *CartService) Snapshot(ctx context.Context, userID string) (*models.CartSnapshot, error) {
	return buildSnapshot(ctx, s.store.Repos(), userID, s.now())
}

// Add puts quantity units of a product in the cart, accumulating onto an
// existing line for the same product. A zero quantity counts as one.
func (s *CartService) Add(ctx context.Context, userID string, in AddItemInput) (*models.CartSnapshot, error) {
	if in.Quantity < 0 {
		return nil, fmt.Errorf("add %d of product %s: %w", in.Quantity, in.ProductID, apperrors.ErrInvalidQuantity)
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	repos := s.store.Repos()
	if _, err := repos.Products.GetByID(ctx, in.ProductID); err != nil {
		return nil, err
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		AddedAt:   s.now(),
	}
	if err := repos.Carts.Upsert(ctx, item); err != nil {
		return nil, err
	}
	return s.Snapshot(ctx, userID)
}

// Update sets the quantity of one cart line. Zero removes the line.
func (s *CartService) Update(ctx context.Context, userID, cartItemID string, quantity int) (*models.CartSnapshot, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("update cart item %s to %d: %w", cartItemID, quantity, apperrors.ErrInvalidQuantity)
	}

	repos := s.store.Repos()
	var err error
	if quantity == 0 {
		err = repos.Carts.Delete(ctx, userID, cartItemID)
	} else {
		err = repos.Carts.UpdateQuantity(ctx, userID, cartItemID, quantity)
	}
	if err != nil {
		return nil, err
	}
	return s.Snapshot(ctx, userID)
}

// Remove deletes one cart line.
func (s *CartService) Remove(ctx context.Context, userID, cartItemID string) (*models.CartSnapshot, error) {
	if err := s.store.Repos().Carts.Delete(ctx, userID, cartItemID); err != nil {
		return nil, err
	}
	return s.Snapshot(ctx, userID)
}

// Clear empties the cart. Clearing an empty cart is not an error.
func (s *CartService) Clear(ctx context.Context, userID string) (*ClearResult, error) {
	removed, err := s.store.Repos().Carts.ClearByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ClearResult{Removed: removed, Cart: snap}, nil
}

// buildSnapshot prices every line with the same instant so a sale boundary
// cannot split one cart. Lines whose product has gone are skipped.
func buildSnapshot(ctx context.Context, repos repositories.Repositories, userID string, now time.Time) (*models.CartSnapshot, error) {
	items, err := repos.Carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := &models.CartSnapshot{
		UserID:     userID,
		Items:      make([]models.CartLine, 0, len(items)),
		TotalPrice: decimal.Zero,
	}
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			slog.WarnContext(ctx, "skipping cart item without product",
				"user_id", userID, "cart_item_id", item.ID, "product_id", item.ProductID)
			continue
		}
		price, err := resolvePrice(ctx, repos.Sales, item.Product, now)
		if err != nil {
			return nil, err
		}
		lineTotal := price.FinalPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		snap.Items = append(snap.Items, models.CartLine{
			CartItemID:      item.ID,
			ProductID:       item.ProductID,
			Name:            item.Product.Name,
			Quantity:        item.Quantity,
			BasePrice:       price.BasePrice,
			DiscountPercent: price.DiscountPercent,
			FinalPrice:      price.FinalPrice,
			LineTotal:       lineTotal.Round(2),
			AddedAt:         item.AddedAt,
		})
		snap.TotalQuantity += item.Quantity
		total = total.Add(lineTotal)
	}
	snap.TotalPrice = total.Round(2)
	return snap, nil
}
