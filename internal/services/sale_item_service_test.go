package services_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/apperrors"
	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleItemService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	sales := services.NewSaleItemService(f.store)
	ctx := context.Background()
	p := seedProduct(t, f.store, "Mug", "10.00")
	start := time.Now().UTC()
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name string
		in   services.SaleItemInput
		err  error
	}{
		{"valid", services.SaleItemInput{ProductID: p.ID, DiscountPercent: dec("15"), StartDate: start, EndDate: end}, nil},
		{"zero discount", services.SaleItemInput{ProductID: p.ID, DiscountPercent: dec("0"), StartDate: start, EndDate: end}, nil},
		{"full discount", services.SaleItemInput{ProductID: p.ID, DiscountPercent: dec("100"), StartDate: start, EndDate: end}, nil},
		{"negative discount", services.SaleItemInput{ProductID: p.ID, DiscountPercent: dec("-1"), StartDate: start, EndDate: end}, apperrors.ErrValidation},
		{"discount above 100", services.SaleItemInput{ProductID: p.ID, DiscountPercent: dec("100.5"), StartDate: start, EndDate: end}, apperrors.ErrValidation},
		{"end before start", services.SaleItemInput{ProductID: p.ID, DiscountPercent: dec("10"), StartDate: end, EndDate: start}, apperrors.ErrValidation},
		{"empty window", services.SaleItemInput{ProductID: p.ID, DiscountPercent: dec("10"), StartDate: start, EndDate: start}, apperrors.ErrValidation},
		{"missing dates", services.SaleItemInput{ProductID: p.ID, DiscountPercent: dec("10")}, apperrors.ErrValidation},
		{"unknown product", services.SaleItemInput{ProductID: "missing", DiscountPercent: dec("10"), StartDate: start, EndDate: end}, apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale, err := sales.Create(ctx, tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, sale.ID)
		})
	}
}

func TestSaleItemService_CRUD(t *testing.T) {
	f := newFixture(t)
	sales := services.NewSaleItemService(f.store)
	pricing := services.NewPricingService(f.store)
	ctx := context.Background()
	p := seedProduct(t, f.store, "Mug", "10.00")
	other := seedProduct(t, f.store, "Cup", "4.00")
	now := time.Now().UTC()

	sale, err := sales.Create(ctx, services.SaleItemInput{
		ProductID: p.ID, DiscountPercent: dec("10"), StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = sales.Create(ctx, services.SaleItemInput{
		ProductID: other.ID, DiscountPercent: dec("5"), StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
	})
	require.NoError(t, err)

	page, err := sales.List(ctx, repositories.SaleItemFilter{ProductID: p.ID}, repositories.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, sale.ID, page.Data[0].ID)

	updated, err := sales.Update(ctx, sale.ID, services.SaleItemInput{
		DiscountPercent: dec("50"), StartDate: now.Add(-time.Hour), EndDate: now.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ProductID)

	price, err := pricing.Resolve(ctx, p.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "5.00", price.FinalPrice.StringFixed(2))

	require.NoError(t, sales.Delete(ctx, sale.ID))
	_, err = sales.Get(ctx, sale.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, sales.Delete(ctx, sale.ID), apperrors.ErrNotFound)

	price, err = pricing.Resolve(ctx, p.ID, time.Time{})
	require.NoError(t, err)
	assert.Nil(t, price.DiscountPercent)
}
