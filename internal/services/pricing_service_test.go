package services_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/apperrors"
	"shop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingService_Resolve(t *testing.T) {
	f := newFixture(t)
	pricing := services.NewPricingService(f.store)
	ctx := context.Background()

	t.Run("no sale keeps base price", func(t *testing.T) {
		p := seedProduct(t, f.store, "Plain", "19.99")

		price, err := pricing.Resolve(ctx, p.ID, time.Time{})
		require.NoError(t, err)
		assert.True(t, price.BasePrice.Equal(dec("19.99")))
		assert.True(t, price.FinalPrice.Equal(dec("19.99")))
		assert.Nil(t, price.DiscountPercent)
	})

	t.Run("active sale discounts", func(t *testing.T) {
		p := seedProduct(t, f.store, "Discounted", "50.00")
		seedActiveSale(t, f.store, p.ID, "20")

		price, err := pricing.Resolve(ctx, p.ID, time.Time{})
		require.NoError(t, err)
		require.NotNil(t, price.DiscountPercent)
		assert.True(t, price.DiscountPercent.Equal(dec("20")))
		assert.True(t, price.FinalPrice.Equal(dec("40.00")), price.FinalPrice.String())
	})

	t.Run("rounds to cents", func(t *testing.T) {
		p := seedProduct(t, f.store, "Odd", "9.99")
		seedActiveSale(t, f.store, p.ID, "33")

		price, err := pricing.Resolve(ctx, p.ID, time.Time{})
		require.NoError(t, err)
		// 9.99 * 0.67 = 6.6933
		assert.Equal(t, "6.69", price.FinalPrice.StringFixed(2))
	})

	t.Run("window bounds are respected", func(t *testing.T) {
		p := seedProduct(t, f.store, "Seasonal", "100.00")
		start := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
		seedSale(t, f.store, p.ID, "50", start, end)

		before, err := pricing.Resolve(ctx, p.ID, start.Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, before.FinalPrice.Equal(dec("100")))

		during, err := pricing.Resolve(ctx, p.ID, start.Add(24*time.Hour))
		require.NoError(t, err)
		assert.True(t, during.FinalPrice.Equal(dec("50")))

		after, err := pricing.Resolve(ctx, p.ID, end.Add(time.Minute))
		require.NoError(t, err)
		assert.Nil(t, after.DiscountPercent)
	})

	t.Run("newest overlapping sale wins", func(t *testing.T) {
		p := seedProduct(t, f.store, "Overlap", "10.00")
		seedActiveSale(t, f.store, p.ID, "10")
		time.Sleep(10 * time.Millisecond)
		seedActiveSale(t, f.store, p.ID, "30")

		price, err := pricing.Resolve(ctx, p.ID, time.Time{})
		require.NoError(t, err)
		assert.True(t, price.FinalPrice.Equal(dec("7.00")), price.FinalPrice.String())
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := pricing.Resolve(ctx, "missing", time.Time{})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
