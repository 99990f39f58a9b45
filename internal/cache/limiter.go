package cache

import (
	"context"
	"time"

	"github.com/matchday/terrace/internal/ratelimit"
)

// Limiter implements ratelimit.Limiter on Redis sorted sets. Preferred
// over the Postgres limiter when redis is enabled: window reads stay
// off the primary store.
type Limiter struct {
	cache  *Cache
	window time.Duration
}

// NewLimiter creates a redis-backed limiter over the given window.
func NewLimiter(cache *Cache, window time.Duration) *Limiter {
	return &Limiter{cache: cache, window: window}
}

// Count returns the actions recorded for key within the trailing window
func (l *Limiter) Count(ctx context.Context, key ratelimit.Key, now time.Time) (int64, error) {
	return l.cache.CountWindow(ctx, limiterKey(key), l.window, now)
}

// Record appends one action for key
func (l *Limiter) Record(ctx context.Context, key ratelimit.Key, at time.Time) error {
	return l.cache.RecordWindow(ctx, limiterKey(key), l.window, at)
}

func limiterKey(key ratelimit.Key) string {
	return "ratelimit:" + key.String()
}
