package cache

import (
	"context"
	"testing"
	"time"

	"golang-stock-proxy/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Code string  `json:"code"`
	PE   float64 `json:"pe"`
}

func TestTieredCache_LocalOnly(t *testing.T) {
	c := NewTieredCache(time.Minute, time.Minute, nil, logger.NewNop())
	ctx := context.Background()

	var got quote
	hit, err := c.GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetJSON(ctx, "q", quote{Code: "000001", PE: 4.5}, time.Minute))

	hit, err = c.GetJSON(ctx, "q", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, quote{Code: "000001", PE: 4.5}, got)
}

func TestTieredCache_Expiry(t *testing.T) {
	c := NewTieredCache(time.Minute, time.Minute, nil, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "q", quote{Code: "600000"}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got quote
	hit, err := c.GetJSON(ctx, "q", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func newRemoteCache(t *testing.T) (*TieredCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTieredCache(time.Minute, time.Minute, client, logger.NewNop()), mr
}

func TestTieredCache_Remote(t *testing.T) {
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		c, _ := newRemoteCache(t)

		var got quote
		hit, err := c.GetJSON(ctx, "missing", &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("hit fills local tier with remaining ttl", func(t *testing.T) {
		c, mr := newRemoteCache(t)
		require.NoError(t, mr.Set("q", `{"code":"600519","pe":22.1}`))
		mr.SetTTL("q", 30*time.Second)

		var got quote
		hit, err := c.GetJSON(ctx, "q", &got)
		require.NoError(t, err)
		require.True(t, hit)
		assert.Equal(t, quote{Code: "600519", PE: 22.1}, got)

		_, expiresAt, ok := c.local.GetWithExpiration("q")
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(30*time.Second), expiresAt, 2*time.Second)

		mr.Del("q")
		got = quote{}
		hit, err = c.GetJSON(ctx, "q", &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, "600519", got.Code)
	})

	t.Run("set writes both tiers", func(t *testing.T) {
		c, mr := newRemoteCache(t)

		require.NoError(t, c.SetJSON(ctx, "q", quote{Code: "000001", PE: 4.5}, time.Minute))

		raw, err := mr.Get("q")
		require.NoError(t, err)
		assert.JSONEq(t, `{"code":"000001","pe":4.5}`, raw)
		assert.Equal(t, time.Minute, mr.TTL("q"))
		_, ok := c.local.Get("q")
		assert.True(t, ok)
	})

	t.Run("redis write failure still fills local tier", func(t *testing.T) {
		c, mr := newRemoteCache(t)
		mr.SetError("ERR disk full")

		err := c.SetJSON(ctx, "q", quote{Code: "000002", PE: 9.9}, time.Minute)
		require.Error(t, err)

		var got quote
		hit, err := c.GetJSON(ctx, "q", &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, quote{Code: "000002", PE: 9.9}, got)
	})

	t.Run("redis read failure", func(t *testing.T) {
		c, mr := newRemoteCache(t)
		mr.SetError("ERR server unavailable")

		var got quote
		hit, err := c.GetJSON(ctx, "q", &got)
		assert.Error(t, err)
		assert.False(t, hit)
	})
}
