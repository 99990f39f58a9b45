package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/matchday/terrace/pkg/config"
	"github.com/matchday/terrace/pkg/logging"
)

// Cache wraps Redis client
type Cache struct {
	client *redis.Client
}

// New creates a new Redis cache client. Returns (nil, nil) when redis
// is disabled; all methods are nil-safe.
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &Cache{client: client}, nil
}

// namespaceKey prefixes a key with the service namespace
func (c *Cache) namespaceKey(key string) string {
	return "terrace:" + key
}

// HashKey builds a stable cache key from parts
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Get retrieves a value from cache
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrCacheDisabled
	}
	return c.client.Get(ctx, c.namespaceKey(key)).Result()
}

// Set sets a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Set(ctx, c.namespaceKey(key), value, ttl).Err()
}

// Delete removes a key from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Del(ctx, c.namespaceKey(key)).Err()
}

// CountWindow returns the number of entries recorded for key within the
// trailing window ending at now. Expired entries are pruned and the
// cardinality read in one MULTI/EXEC, so the count is a consistent view.
func (c *Cache) CountWindow(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error) {
	if c == nil || c.client == nil {
		return 0, ErrCacheDisabled
	}
	k := c.namespaceKey(key)
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := c.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "0", cutoff)
	card := pipe.ZCard(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return card.Val(), nil
}

// RecordWindow appends one entry for key at the given instant and
// refreshes the key's expiry to the window length.
func (c *Cache) RecordWindow(ctx context.Context, key string, window time.Duration, at time.Time) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	k := c.namespaceKey(key)
	member := strconv.FormatInt(at.UnixNano(), 10) + ":" + HashKey(key, at.String())[:8]

	pipe := c.client.TxPipeline()
	pipe.ZAdd(ctx, k, &redis.Z{Score: float64(at.UnixNano()), Member: member})
	pipe.Expire(ctx, k, window)
	_, err := pipe.Exec(ctx)
	return err
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}

var (
	// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
	ErrCacheDisabled = fmt.Errorf("cache is disabled")
)
