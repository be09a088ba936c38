// Package cache provides the provider-layer response cache: redis when
// configured, an in-process TTL cache otherwise.
package cache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Cache stores serialized provider responses under prefixed keys. Both
// backends are best-effort: a cache failure is never a request failure.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an already-connected redis client.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warnf("Redis cache get failed for %s: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warnf("Redis cache set failed for %s: %v", key, err)
	}
}

type memoryCache struct {
	store *cache.Cache
}

// NewMemoryCache returns an in-process cache for running without redis.
func NewMemoryCache() Cache {
	return &memoryCache{
		store: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	val, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := val.([]byte)
	return data, ok
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}
