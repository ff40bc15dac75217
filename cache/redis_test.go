package cache

import (
	"context"
	"testing"
	"time"

	"storefront-cart/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client, time.Minute), mr
}

func sampleCart(userID uuid.UUID) *models.Cart {
	return &models.Cart{
		ID:      uuid.New(),
		UserID:  userID,
		Version: 3,
		Items: []models.CartItem{
			{ID: uuid.New(), VariantID: uuid.New(), ProductType: models.ProductTypeIPhone, ProductName: "iPhone", Price: decimal.NewFromInt(1000), Quantity: 2},
			{ID: uuid.New(), VariantID: uuid.New(), ProductType: models.ProductTypeAirPods, ProductName: "AirPods", Price: decimal.NewFromInt(500), Quantity: 1},
		},
	}
}

func TestSetThenGet(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()
	cart := sampleCart(userID)

	require.NoError(t, c.Set(ctx, userID, cart))

	got, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, int64(3), got.Version)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].Price.Equal(decimal.NewFromInt(1000)))
	assert.True(t, got.Total().Equal(decimal.NewFromInt(2500)))
}

func TestGetCacheMiss(t *testing.T) {
	c, _ := setupTestRedis(t)

	got, err := c.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
}

func TestGetInvalidJSON(t *testing.T) {
	c, mr := setupTestRedis(t)
	userID := uuid.New()
	mr.HSet(cacheKey(userID), "version", "1", "data", "{not json")

	_, err := c.Get(context.Background(), userID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSetAppliesTTLWithJitter(t *testing.T) {
	c, mr := setupTestRedis(t)
	userID := uuid.New()

	require.NoError(t, c.Set(context.Background(), userID, sampleCart(userID)))

	ttl := mr.TTL(cacheKey(userID))
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, time.Minute+maxTTLJitter)
}

func TestSetKeepsNewerSnapshot(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	newer := sampleCart(userID)
	newer.Version = 5
	require.NoError(t, c.Set(ctx, userID, newer))

	older := sampleCart(userID)
	older.Version = 4
	older.Items = older.Items[:1]
	require.NoError(t, c.Set(ctx, userID, older))

	got, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Version)
	assert.Len(t, got.Items, 2)

	same := sampleCart(userID)
	same.Version = 5
	same.Items = nil
	require.NoError(t, c.Set(ctx, userID, same))
	got, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, got.Items, "an equal version replaces the snapshot")

	require.NoError(t, c.Set(ctx, userID, &models.Cart{UserID: userID, Version: 6}))
	got, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.Version)
}

func TestDelete(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, c.Set(ctx, userID, sampleCart(userID)))
	require.NoError(t, c.Delete(ctx, userID))
	assert.False(t, mr.Exists(cacheKey(userID)))

	// Deleting a missing key is not an error.
	assert.NoError(t, c.Delete(ctx, userID))
}

func TestRedisUnavailable(t *testing.T) {
	c, mr := setupTestRedis(t)
	mr.Close()

	_, err := c.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
