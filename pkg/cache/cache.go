package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang-stock-proxy/pkg/logger"
	"golang-stock-proxy/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values under string keys.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// TieredCache keeps an in-process copy of every value and, when a Redis
// client is configured, shares it with other instances.
type TieredCache struct {
	local  *gocache.Cache
	remote *redis.Client
	log    *logger.Logger
}

// NewTieredCache creates a cache. remote may be nil.
func NewTieredCache(defaultTTL, cleanupInterval time.Duration, remote *redis.Client, log *logger.Logger) *TieredCache {
	return &TieredCache{
		local:  gocache.New(defaultTTL, cleanupInterval),
		remote: remote,
		log:    log,
	}
}

// GetJSON decodes the cached value for key into dest. The boolean reports a hit.
func (c *TieredCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if raw, ok := c.local.Get(key); ok {
		if err := json.Unmarshal(raw.([]byte), dest); err != nil {
			metrics.CacheOperations.WithLabelValues("get", "error").Inc()
			return false, err
		}
		metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
		return true, nil
	}

	if c.remote == nil {
		metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
		return false, nil
	}

	raw, err := c.remote.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
		return false, nil
	}
	if err != nil {
		metrics.CacheOperations.WithLabelValues("get", "error").Inc()
		c.log.WarnContext(ctx, "Failed to read from redis cache", logger.StringField("key", key), logger.ErrorField(err))
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.CacheOperations.WithLabelValues("get", "error").Inc()
		return false, err
	}

	// warm the local tier with whatever TTL redis still has
	if ttl, err := c.remote.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		c.local.Set(key, raw, ttl)
	}
	metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
	return true, nil
}

// SetJSON stores value under key in both tiers. A Redis failure is logged and
// returned, the local tier is still populated.
func (c *TieredCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.local.Set(key, raw, ttl)
	metrics.CacheOperations.WithLabelValues("set", "ok").Inc()

	if c.remote == nil {
		return nil
	}
	if err := c.remote.Set(ctx, key, raw, ttl).Err(); err != nil {
		metrics.CacheOperations.WithLabelValues("set", "error").Inc()
		c.log.WarnContext(ctx, "Failed to write to redis cache", logger.StringField("key", key), logger.ErrorField(err))
		return err
	}
	return nil
}
