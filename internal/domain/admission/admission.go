// Package admission gates submissions before any durable write: a fixed-window
// per-identity rate limit and a honeypot bot filter.
package admission

import (
	"context"
	"math"
	"strings"
	"time"
)

// Default rate-limit window: one accepted submission per source per day.
const defaultWindow = 24 * time.Hour

// Limiter enforces one accepted submission per identity per fixed window.
//
// The slot is reserved at check time, before the rest of the pipeline runs, so
// a submission that later fails validation still counts against its source's
// window (reserve-then-validate). Two requests for the same identity racing
// within the same instant may both pass; that is accepted best-effort
// behavior, not a guarantee the limiter makes.
type Limiter struct {
	store  Store
	window time.Duration
	now    func() time.Time
}

// NewLimiter creates a limiter with an in-memory store and a 24h window
// unless configured otherwise.
func NewLimiter(opts ...Option) *Limiter {
	l := &Limiter{
		store:  NewMemoryStore(),
		window: defaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check reports whether identity may submit now. On acceptance the current
// time is recorded as the identity's last accepted submission. On rejection
// retryAfter holds the remaining wait, rounded up to whole seconds.
func (l *Limiter) Check(ctx context.Context, identity string) (allowed bool, retryAfter time.Duration) {
	now := l.now().UTC()
	if last, ok := l.store.LastAccepted(ctx, identity); ok {
		elapsed := now.Sub(last)
		if elapsed < l.window {
			remaining := l.window - elapsed
			return false, time.Duration(math.Ceil(remaining.Seconds())) * time.Second
		}
	}
	l.store.Reserve(ctx, identity, now)
	return true, 0
}

// Honeypot reports whether a decoy form field was filled in. Human users
// never see the field; any non-empty value marks the request as automated.
func Honeypot(value string) bool {
	return strings.TrimSpace(value) != ""
}
