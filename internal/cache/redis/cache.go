// Package redis implements the fast refresh token cache on top of Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

// DefaultKeyPrefix namespaces refresh token entries.
const DefaultKeyPrefix = "refresh:"

var _ model.TokenCache = (*Cache)(nil)

// Cache maps refresh token fingerprints to their owning subject.
type Cache struct {
	client redis.UniversalClient
	prefix string
}

// NewCache creates a Cache backed by client.
func NewCache(client redis.UniversalClient, prefix string) *Cache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Cache{client: client, prefix: prefix}
}

// NewClient parses a redis:// URL and returns a client. Connectivity is not
// checked; an unreachable server only degrades the fast path.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Set stores subjectID under key for ttl. Non-positive ttl is a no-op since
// the entry would already be stale.
func (c *Cache) Set(ctx context.Context, key string, subjectID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.key(key), subjectID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Get returns the subject stored under key or model.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	subjectID, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", model.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cache entry: %w", err)
	}
	return subjectID, nil
}

// Delete removes keys; missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
