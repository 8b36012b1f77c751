package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameer7300/Oraagh/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	// Create an in-memory Redis server
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func sampleCart() *domain.Cart {
	return &domain.Cart{
		ID:     1,
		UserID: 7,
		Items: []domain.CartItem{
			{
				ID:        10,
				ProductID: 100,
				Quantity:  2,
				Product: &domain.Product{
					ID:    100,
					Name:  "Walnut Chess Board",
					Price: decimal.NewFromInt(900),
				},
			},
		},
		UpdatedAt: time.Now().Truncate(time.Second),
	}
}

func TestRedisCache_SetGet(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()
	cart := sampleCart()

	require.NoError(t, cache.Set(ctx, 7, cart))

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Walnut Chess Board", got.Items[0].Product.Name)
	assert.True(t, got.Items[0].Product.Price.Equal(decimal.NewFromInt(900)))
}

func TestRedisCache_GetMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background(), 7)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 7, sampleCart()))
	require.NoError(t, cache.Delete(ctx, 7))

	_, err := cache.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_DeleteMissingKeyIsNoOp(t *testing.T) {
	cache, _ := setupTestRedis(t)
	assert.NoError(t, cache.Delete(context.Background(), 999))
}

func TestRedisCache_TTLWithinJitterWindow(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, cache.Set(context.Background(), 7, sampleCart()))

	ttl := mr.TTL("cart:7")
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 20*time.Minute)
}

func TestRedisCache_ExpiredEntryIsMiss(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 7, sampleCart()))
	mr.FastForward(21 * time.Minute)

	_, err := cache.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
