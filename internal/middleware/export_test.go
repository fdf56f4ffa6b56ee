package middleware

import "time"

// SetClock replaces the limiter's time source.
func (rl *RateLimiter) SetClock(now func() time.Time) { rl.now = now }

// Sweep evicts idle buckets as of now.
func (rl *RateLimiter) Sweep(now time.Time) { rl.sweep(now) }

// Len returns the number of tracked buckets.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return len(rl.buckets)
}
