package admission

import "time"

// Option applies a configuration option to the Limiter.
type Option func(*Limiter)

// WithWindow sets the fixed rate-limit window. Non-positive values are
// ignored and the default is kept.
func WithWindow(w time.Duration) Option {
	return func(l *Limiter) {
		if w > 0 {
			l.window = w
		}
	}
}

// WithStore replaces the in-memory last-accepted store.
func WithStore(s Store) Option {
	return func(l *Limiter) {
		if s != nil {
			l.store = s
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}
