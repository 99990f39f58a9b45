package comments

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/matchday/terrace/internal/ratelimit"
	"github.com/matchday/terrace/pkg/logging"
)

// GateConfig holds the admission thresholds.
type GateConfig struct {
	RateLimitMax     int64
	MinAccountAge    time.Duration
	MaxContentLength int
}

// Gate decides whether a comment submission may proceed at all. Checks
// run in a fixed order and the first failure wins; a failed check has
// no side effects.
type Gate struct {
	limiter ratelimit.Limiter
	cfg     GateConfig
	now     func() time.Time
	logger  *zap.Logger
}

// NewGate creates an admission gate
func NewGate(limiter ratelimit.Limiter, cfg GateConfig) *Gate {
	return &Gate{
		limiter: limiter,
		cfg:     cfg,
		now:     time.Now,
		logger:  logging.GetLogger().With(zap.String("component", "admission-gate")),
	}
}

// Check evaluates, in order: authentication, the rate-limit window, the
// account age floor, and content presence/length. It returns nil when
// the submission may proceed.
//
// The rate-limit action is NOT recorded here. Callers record it via
// RecordAction only after the downstream insert succeeds, so attempts
// rejected for other reasons never count against the window.
func (g *Gate) Check(ctx context.Context, actor *Identity, address, content string) error {
	if actor == nil || actor.ID == "" {
		return NewError(KindUnauthenticated, "sign in to comment")
	}

	key := g.limiterKey(actor, address)
	count, err := g.limiter.Count(ctx, key, g.now())
	if err != nil {
		return WrapError(KindStoreUnavailable, "rate limit check failed", err)
	}
	if count >= g.cfg.RateLimitMax {
		g.logger.Warn("submission rate limited",
			zap.String("user_id", actor.ID),
			zap.String("address", address),
			zap.Int64("count", count))
		return NewError(KindRateLimited, "too many comments, slow down and try again later")
	}

	if age := g.now().Sub(actor.AccountCreatedAt); age < g.cfg.MinAccountAge {
		return NewError(KindAccountTooNew,
			fmt.Sprintf("account must be at least %s old to comment", g.cfg.MinAccountAge))
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return NewError(KindInvalidContent, "comment is empty")
	}
	// The limit is characters, not bytes: multibyte content must not be
	// rejected early.
	if utf8.RuneCountInString(trimmed) > g.cfg.MaxContentLength {
		return NewError(KindInvalidContent,
			fmt.Sprintf("comment exceeds %d characters", g.cfg.MaxContentLength))
	}

	return nil
}

// RecordAction records one admitted action against the submitter's
// window. Called after the comment row is persisted.
func (g *Gate) RecordAction(ctx context.Context, actor *Identity, address string) error {
	return g.limiter.Record(ctx, g.limiterKey(actor, address), g.now())
}

func (g *Gate) limiterKey(actor *Identity, address string) ratelimit.Key {
	return ratelimit.Key{
		UserID:  actor.ID,
		Address: address,
		Action:  ratelimit.ActionComment,
	}
}
