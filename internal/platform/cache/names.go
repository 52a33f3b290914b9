package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// NameCache is a read-through cache for display names keyed by record id.
// It holds denormalized display data only and is never consulted for
// authorization decisions.
type NameCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

// NewNameCache constructs a NameCache with the given key prefix and TTL.
func NewNameCache(client *redis.Client, prefix string, ttl time.Duration) *NameCache {
	return &NameCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached name for id, loading it through load on a miss.
// Concurrent misses for the same id are collapsed into a single load.
// Cache failures degrade to a direct load.
func (c *NameCache) Get(ctx context.Context, id int64, load func(context.Context, int64) (string, error)) (string, error) {
	if c == nil || c.client == nil {
		return load(ctx, id)
	}
	key := fmt.Sprintf("%s:%d", c.prefix, id)
	if val, err := c.client.Get(ctx, key).Result(); err == nil {
		return val, nil
	}
	val, err, _ := c.group.Do(key, func() (any, error) {
		name, err := load(ctx, id)
		if err != nil {
			return "", err
		}
		if err := c.client.Set(ctx, key, name, c.ttl).Err(); err != nil {
			// Serve the loaded value even when the write-back fails.
			return name, nil
		}
		return name, nil
	})
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

// Invalidate drops the cached name for id.
func (c *NameCache) Invalidate(ctx context.Context, id int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, fmt.Sprintf("%s:%d", c.prefix, id)).Err()
}
