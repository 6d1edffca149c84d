package cache

import (
	"context"
	"testing"
	"time"

	"shop/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*ProductCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewProductCache(client, time.Minute), mr
}

func TestProductCache_SetThenGet(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	product := &models.Product{ID: "p1", Name: "Mug", Price: decimal.RequireFromString("12.50"), Stock: 3}
	require.NoError(t, c.Set(ctx, product))
	assert.True(t, mr.Exists("product:p1"))

	got, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 3, got.Stock)
}

func TestProductCache_Miss(t *testing.T) {
	c, _ := setupTestRedis(t)

	got, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
}

func TestProductCache_InvalidJSON(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("product:p1", "{not json"))

	_, err := c.Get(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestProductCache_TTL(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, c.Set(context.Background(), &models.Product{ID: "p1"}))

	ttl := mr.TTL("product:p1")
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.LessOrEqual(t, ttl, 2*time.Minute)

	mr.FastForward(3 * time.Minute)
	_, err := c.Get(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestProductCache_Delete(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, &models.Product{ID: "p1"}))

	require.NoError(t, c.Delete(ctx, "p1"))
	assert.False(t, mr.Exists("product:p1"))
	require.NoError(t, c.Delete(ctx, "p1"))
}
