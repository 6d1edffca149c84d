package services

import (
	"context"
	"fmt"
	"time"

	"shop/internal/apperrors"
	"shop/internal/models"
	"shop/internal/repositories"

	"github.com/shopspring/decimal"
)

// SaleItemInput carries the editable fields of a sale window.
type SaleItemInput struct {
	ProductID       string
	DiscountPercent decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
}

// SaleItemService manages time-bounded discounts.
type SaleItemService struct {
	store repositories.Store
}

// NewSaleItemService creates a new SaleItemService.
func NewSaleItemService(store repositories.Store) *SaleItemService {
	return &SaleItemService{store: store}
}

// Create adds a sale window for an existing product. Earlier windows are
// kept; the newest one wins where they overlap.
func (s *SaleItemService) Create(ctx context.Context, in SaleItemInput) (*models.SaleItem, error) {
	if err := validateSale(in); err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	if _, err := repos.Products.GetByID(ctx, in.ProductID); err != nil {
		return nil, err
	}

	sale := &models.SaleItem{
		ProductID:       in.ProductID,
		DiscountPercent: in.DiscountPercent.Round(2),
		StartDate:       in.StartDate.UTC(),
		EndDate:         in.EndDate.UTC(),
	}
	if err := repos.Sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Get returns one sale window.
func (s *SaleItemService) Get(ctx context.Context, id string) (*models.SaleItem, error) {
	return s.store.Repos().Sales.GetByID(ctx, id)
}

// List returns one page of sale windows, optionally for a single product.
func (s *SaleItemService) List(ctx context.Context, filter repositories.SaleItemFilter, p repositories.Pagination) (repositories.Page[models.SaleItem], error) {
	sales, total, err := s.store.Repos().Sales.List(ctx, filter, p)
	if err != nil {
		return repositories.Page[models.SaleItem]{}, err
	}
	return repositories.NewPage(p, total, sales), nil
}

// Update replaces the discount and window of a sale. The product cannot
// change.
func (s *SaleItemService) Update(ctx context.Context, id string, in SaleItemInput) (*models.SaleItem, error) {
	repos := s.store.Repos()
	sale, err := repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ProductID = sale.ProductID
	if err := validateSale(in); err != nil {
		return nil, err
	}

	sale.DiscountPercent = in.DiscountPercent.Round(2)
	sale.StartDate = in.StartDate.UTC()
	sale.EndDate = in.EndDate.UTC()
	if err := repos.Sales.Update(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Delete removes a sale window.
func (s *SaleItemService) Delete(ctx context.Context, id string) error {
	return s.store.Repos().Sales.Delete(ctx, id)
}

func validateSale(in SaleItemInput) error {
	if in.ProductID == "" {
		return fmt.Errorf("product_id is required: %w", apperrors.ErrValidation)
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred) {
		return fmt.Errorf("discount_percent %s must be between 0 and 100: %w", in.DiscountPercent, apperrors.ErrValidation)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("start_date and end_date are required: %w", apperrors.ErrValidation)
	}
	if !in.EndDate.After(in.StartDate) {
		return fmt.Errorf("end_date must be after start_date: %w", apperrors.ErrValidation)
	}
	return nil
}
