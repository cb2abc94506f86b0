package admission

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel kinds for admission errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrBotRejected = errors.New("bot submission rejected")
)

// RateLimitedError carries the remaining wait for a rejected source. It
// matches ErrRateLimited under errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded; retry after %ds", int(e.RetryAfter.Seconds()))
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
