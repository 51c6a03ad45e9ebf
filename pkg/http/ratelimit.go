package http

import (
	"context"
	"sync"
	"time"
)

// SimpleRateLimiter enforces a minimum delay between consecutive requests
type SimpleRateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	minDelay time.Duration
}

// NewSimpleRateLimiter creates a new simple rate limiter with minimum delay between calls.
// A zero delay never blocks.
func NewSimpleRateLimiter(minDelay time.Duration) *SimpleRateLimiter {
	return &SimpleRateLimiter{
		minDelay: minDelay,
	}
}

// Wait blocks until it's safe to make another request or ctx is done
func (rl *SimpleRateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.minDelay > 0 && !rl.lastCall.IsZero() {
		if wait := rl.minDelay - time.Since(rl.lastCall); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	rl.lastCall = time.Now()
	return nil
}
