package services

import (
	"context"
	"fmt"
	"time"

	"shop/internal/models"
	"shop/internal/repositories"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricingService resolves the effective price of a product at a point in time.
type PricingService struct {
	store repositories.Store
	now   func() time.Time
}

// NewPricingService creates a new PricingService.
func NewPricingService(store repositories.Store) *PricingService {
	return &PricingService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Resolve returns the price of productID at the given instant. A zero at
// means now.
func (s *PricingService) Resolve(ctx context.Context, productID string, at time.Time) (*models.Price, error) {
	if at.IsZero() {
		at = s.now()
	}
	repos := s.store.Repos()
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return resolvePrice(ctx, repos.Sales, product, at.UTC())
}

func resolvePrice(ctx context.Context, sales repositories.SaleItemRepository, product *models.Product, at time.Time) (*models.Price, error) {
	sale, err := sales.ActiveForProduct(ctx, product.ID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sale for product %s: %w", product.ID, err)
	}
	return applySale(product, sale), nil
}

// applySale computes round2(base * (100 - d) / 100). A nil sale leaves the
// base price untouched.
func applySale(product *models.Product, sale *models.SaleItem) *models.Price {
	base := product.Price.Round(2)
	price := &models.Price{
		ProductID:  product.ID,
		BasePrice:  base,
		FinalPrice: base,
	}
	if sale == nil {
		return price
	}
	d := sale.DiscountPercent
	price.DiscountPercent = &d
	price.FinalPrice = base.Mul(hundred.Sub(d)).Div(hundred).Round(2)
	return price
}
