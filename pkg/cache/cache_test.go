package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	T string  `json:"t"`
	V float64 `json:"v"`
}

func TestMemoryCacheTypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	in := []point{{"a", 1.5}, {"b", 2.25}}
	require.NoError(t, mc.Set(ctx, "k", in, time.Minute))

	var out []point
	require.NoError(t, mc.Get(ctx, "k", &out))
	assert.Equal(t, in, out)

	require.NoError(t, mc.Delete(ctx, "k"))
	assert.True(t, errors.Is(mc.Get(ctx, "k", &out), ErrCacheMiss))
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", 1, 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var v int
	assert.ErrorIs(t, mc.Get(ctx, "k", &v), ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	time.Sleep(time.Millisecond)

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)

	// overwriting an existing key never evicts
	require.NoError(t, mc.Set(ctx, "c", 4, 0))
	assert.Equal(t, 2, mc.Len())
}

type countingService struct {
	*MemoryCache
	gets int
}

func (c *countingService) Get(ctx context.Context, key string, dest interface{}) error {
	c.gets++
	return c.MemoryCache.Get(ctx, key, dest)
}

func TestLayeredCacheBackfillsL1(t *testing.T) {
	ctx := context.Background()
	remote := &countingService{MemoryCache: NewMemoryCache()}
	require.NoError(t, remote.Set(ctx, "k", point{"x", 3}, time.Minute))

	lc := NewLayeredCache(remote, WithLayeredMemoryTTL(time.Minute))
	defer lc.Close()

	var p point
	require.NoError(t, lc.Get(ctx, "k", &p))
	require.NoError(t, lc.Get(ctx, "k", &p))
	assert.Equal(t, point{"x", 3}, p)
	assert.Equal(t, 1, remote.gets)

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &p), ErrCacheMiss)
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "candles:EUR/USD:5min:100", GenerateKeyWithParams("candles", "EUR/USD", "5min", 100))
	assert.Equal(t, "fx:k", GenerateKey("fx", "k"))
}

func TestRedisOptions(t *testing.T) {
	cfg := defaultRedisConfig()
	for _, opt := range []RedisOption{
		WithRedisAddr("redis.internal", 6380),
		WithRedisAuth("secret", 2),
		WithRedisPoolSize(0),
		WithRedisPrefix("fx"),
	} {
		opt(cfg)
	}

	assert.Equal(t, "redis.internal:6380", cfg.Addr)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, "fx", cfg.Prefix)
}
