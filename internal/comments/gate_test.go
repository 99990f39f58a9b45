package comments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matchday/terrace/internal/ratelimit"
)

// fakeLimiter keeps recorded action timestamps in memory and counts
// those inside the trailing window.
type fakeLimiter struct {
	window   time.Duration
	recorded map[string][]time.Time
	countErr error
}

func newFakeLimiter(window time.Duration) *fakeLimiter {
	return &fakeLimiter{window: window, recorded: map[string][]time.Time{}}
}

func (l *fakeLimiter) Count(_ context.Context, key ratelimit.Key, now time.Time) (int64, error) {
	if l.countErr != nil {
		return 0, l.countErr
	}
	var n int64
	for _, at := range l.recorded[key.String()] {
		if at.After(now.Add(-l.window)) {
			n++
		}
	}
	return n, nil
}

func (l *fakeLimiter) Record(_ context.Context, key ratelimit.Key, at time.Time) error {
	l.recorded[key.String()] = append(l.recorded[key.String()], at)
	return nil
}

var gateEpoch = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func testGate(limiter ratelimit.Limiter) *Gate {
	g := NewGate(limiter, GateConfig{
		RateLimitMax:     5,
		MinAccountAge:    24 * time.Hour,
		MaxContentLength: 2000,
	})
	g.now = func() time.Time { return gateEpoch }
	return g
}

func oldAccount() *Identity {
	return &Identity{
		ID:               "user-1",
		Name:             "supporter",
		AccountCreatedAt: gateEpoch.Add(-48 * time.Hour),
	}
}

func TestGateChecksInOrder(t *testing.T) {
	limiter := newFakeLimiter(10 * time.Minute)
	gate := testGate(limiter)
	ctx := context.Background()

	tests := []struct {
		name     string
		actor    *Identity
		content  string
		wantKind Kind
	}{
		{"nil actor", nil, "hello", KindUnauthenticated},
		{"empty actor id", &Identity{}, "hello", KindUnauthenticated},
		{"new account", &Identity{ID: "u", AccountCreatedAt: gateEpoch.Add(-time.Hour)}, "hello", KindAccountTooNew},
		{"empty content", oldAccount(), "   \n\t ", KindInvalidContent},
		{"oversize content", oldAccount(), strings.Repeat("x", 2001), KindInvalidContent},
		{"multibyte at limit", oldAccount(), strings.Repeat("ü", 2000), KindUnknown},
		{"multibyte over limit", oldAccount(), strings.Repeat("ü", 2001), KindInvalidContent},
		{"ok", oldAccount(), "hello", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Check(ctx, tt.actor, "10.0.0.1", tt.content)
			if tt.wantKind == KindUnknown {
				if err != nil {
					t.Fatalf("Check() = %v, want nil", err)
				}
				return
			}
			if KindOf(err) != tt.wantKind {
				t.Errorf("Check() kind = %v, want %v", KindOf(err), tt.wantKind)
			}
		})
	}
}

func TestGateRateLimitBoundary(t *testing.T) {
	limiter := newFakeLimiter(10 * time.Minute)
	gate := testGate(limiter)
	ctx := context.Background()
	actor := oldAccount()

	// Submissions 1 through 5 pass the window check; each is recorded
	// after the simulated insert succeeds.
	for i := 0; i < 5; i++ {
		if err := gate.Check(ctx, actor, "10.0.0.1", "hello"); err != nil {
			t.Fatalf("submission %d: Check() = %v, want nil", i+1, err)
		}
		if err := gate.RecordAction(ctx, actor, "10.0.0.1"); err != nil {
			t.Fatalf("submission %d: RecordAction() = %v", i+1, err)
		}
	}

	// The 6th inside the window is refused.
	err := gate.Check(ctx, actor, "10.0.0.1", "hello")
	if KindOf(err) != KindRateLimited {
		t.Fatalf("6th submission kind = %v, want rate_limited", KindOf(err))
	}

	// After the window fully elapses it succeeds again.
	gate.now = func() time.Time { return gateEpoch.Add(10*time.Minute + time.Second) }
	if err := gate.Check(ctx, actor, "10.0.0.1", "hello"); err != nil {
		t.Fatalf("post-window Check() = %v, want nil", err)
	}
}

func TestGateRateLimitKeyedByUserAndAddress(t *testing.T) {
	limiter := newFakeLimiter(10 * time.Minute)
	gate := testGate(limiter)
	ctx := context.Background()
	actor := oldAccount()

	for i := 0; i < 5; i++ {
		if err := gate.RecordAction(ctx, actor, "10.0.0.1"); err != nil {
			t.Fatal(err)
		}
	}
	if err := gate.Check(ctx, actor, "10.0.0.1", "hello"); KindOf(err) != KindRateLimited {
		t.Fatalf("same address kind = %v, want rate_limited", KindOf(err))
	}

	other := &Identity{ID: "user-2", AccountCreatedAt: actor.AccountCreatedAt}
	if err := gate.Check(ctx, other, "10.0.0.1", "hello"); err != nil {
		t.Errorf("different user Check() = %v, want nil", err)
	}
	if err := gate.Check(ctx, actor, "10.0.0.2", "hello"); err != nil {
		t.Errorf("different address Check() = %v, want nil", err)
	}
}

func TestGateAccountAgeBoundary(t *testing.T) {
	limiter := newFakeLimiter(10 * time.Minute)
	gate := testGate(limiter)
	ctx := context.Background()

	tooNew := &Identity{ID: "u1", AccountCreatedAt: gateEpoch.Add(-23*time.Hour - 59*time.Minute)}
	if err := gate.Check(ctx, tooNew, "10.0.0.1", "hello"); KindOf(err) != KindAccountTooNew {
		t.Errorf("23h59m account kind = %v, want account_too_new", KindOf(err))
	}

	oldEnough := &Identity{ID: "u2", AccountCreatedAt: gateEpoch.Add(-24*time.Hour - time.Minute)}
	if err := gate.Check(ctx, oldEnough, "10.0.0.1", "hello"); err != nil {
		t.Errorf("24h01m account Check() = %v, want nil", err)
	}
}

func TestGateFailedCheckRecordsNothing(t *testing.T) {
	limiter := newFakeLimiter(10 * time.Minute)
	gate := testGate(limiter)
	ctx := context.Background()

	// A rejected submission must not count against the window.
	actor := oldAccount()
	if err := gate.Check(ctx, actor, "10.0.0.1", ""); KindOf(err) != KindInvalidContent {
		t.Fatalf("unexpected kind %v", KindOf(err))
	}
	if n, _ := limiter.Count(ctx, ratelimit.Key{UserID: actor.ID, Address: "10.0.0.1", Action: ratelimit.ActionComment}, gateEpoch); n != 0 {
		t.Errorf("recorded %d actions after failed check, want 0", n)
	}
}

func TestGateLimiterFailureIsStoreUnavailable(t *testing.T) {
	limiter := newFakeLimiter(10 * time.Minute)
	limiter.countErr = context.DeadlineExceeded
	gate := testGate(limiter)

	err := gate.Check(context.Background(), oldAccount(), "10.0.0.1", "hello")
	if KindOf(err) != KindStoreUnavailable {
		t.Errorf("kind = %v, want store_unavailable", KindOf(err))
	}
}
