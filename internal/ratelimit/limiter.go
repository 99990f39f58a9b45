// Package ratelimit defines the sliding-window action limiter consumed
// by the comment admission gate. Backends live with their stores: the
// Postgres limiter in internal/db, the Redis limiter in internal/cache.
package ratelimit

import (
	"context"
	"time"
)

// ActionComment is the action type counted for comment submissions.
const ActionComment = "comment"

// Key identifies one rate-limited identity: the (user, address) pair
// plus the action type.
type Key struct {
	UserID  string
	Address string
	Action  string
}

// String renders the key for use as a cache key or lock name.
func (k Key) String() string {
	return k.UserID + "|" + k.Address + "|" + k.Action
}

// Limiter counts and records actions over a trailing window. The window
// length is fixed at construction so Count and Record always agree.
//
// Recording is a separate call because admission records an action only
// after the downstream insert succeeds; see the gate for the policy.
type Limiter interface {
	// Count returns the number of actions recorded for key within the
	// trailing window ending at now.
	Count(ctx context.Context, key Key, now time.Time) (int64, error)

	// Record appends one action for key at the given instant.
	Record(ctx context.Context, key Key, at time.Time) error
}
