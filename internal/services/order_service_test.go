package services_test

import (
	"context"
	"testing"

	"shop/internal/apperrors"
	"shop/internal/models"
	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService(t *testing.T) {
	f := newFixture(t)
	orders := services.NewOrderService(f.store.Repos().Orders)
	ctx := context.Background()

	alice, a1 := pendingOrder(t, f, "alice", "cs_a1")
	_, b1 := pendingOrder(t, f, "bob", "cs_b1")
	require.NoError(t, f.store.Repos().Orders.UpdateStatus(ctx, b1.ID, models.OrderStatusPaid))

	t.Run("user listing only shows own orders", func(t *testing.T) {
		page, err := orders.ListUserOrders(ctx, alice.ID, services.OrderQuery{})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, a1.ID, page.Data[0].ID)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Limit)
	})

	t.Run("admin listing filters by status", func(t *testing.T) {
		page, err := orders.ListAllOrders(ctx, services.OrderQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.TotalItems)

		page, err = orders.ListAllOrders(ctx, services.OrderQuery{Status: models.OrderStatusPaid})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, b1.ID, page.Data[0].ID)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := orders.ListAllOrders(ctx, services.OrderQuery{Status: "shipped"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := orders.ListAllOrders(ctx, services.OrderQuery{Pagination: repositories.Pagination{Page: 2, Limit: 1}})
		require.NoError(t, err)
		assert.Len(t, page.Data, 1)
		assert.Equal(t, int64(2), page.TotalItems)
		assert.Equal(t, 2, page.Page)
	})

	t.Run("details for owner and admin", func(t *testing.T) {
		order, err := orders.GetOrderDetails(ctx, a1.ID, alice.ID, models.RoleCustomer)
		require.NoError(t, err)
		assert.Len(t, order.Items, 1)

		_, err = orders.GetOrderDetails(ctx, a1.ID, "someone-else", models.RoleAdmin)
		assert.NoError(t, err)

		_, err = orders.GetOrderDetails(ctx, a1.ID, "someone-else", models.RoleCustomer)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		_, err = orders.GetOrderDetails(ctx, "missing", alice.ID, models.RoleCustomer)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
