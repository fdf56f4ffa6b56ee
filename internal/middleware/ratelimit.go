// Package middleware provides HTTP middleware for the graph console.
package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphconsole/internal/metrics"
)

// maxBuckets bounds the number of tracked keys.
const maxBuckets = 100_000

// Limit is a token bucket refill rate and capacity.
type Limit struct {
	PerSecond float64
	Burst     int
}

// KeyFunc names the bucket a request is charged to.
type KeyFunc func(c *gin.Context) string

// ClientIPKey charges requests to the client address. c.ClientIP() ignores
// forwarding headers because the router trusts no proxies.
func ClientIPKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// SessionKey charges requests to the console session the client presented.
// Requests that were just issued a session fall back to the client address,
// so discarding the session id does not buy a fresh bucket.
func SessionKey(c *gin.Context) string {
	if c.GetBool(SessionPresentedKey) {
		if id := c.GetString(SessionIDKey); id != "" {
			return "session:" + id
		}
	}

	return ClientIPKey(c)
}

// RateLimiter is a keyed token bucket limiter.
type RateLimiter struct {
	scope string
	limit Limit
	key   KeyFunc
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter creates a RateLimiter for the named scope. Idle buckets are
// evicted in the background until ctx is cancelled.
func NewRateLimiter(ctx context.Context, scope string, limit Limit, key KeyFunc) *RateLimiter {
	rl := &RateLimiter{
		scope:   scope,
		limit:   limit,
		key:     key,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
	go rl.startCleanup(ctx)

	return rl
}

// idleAfter is how long a bucket takes to refill completely. An evicted
// bucket is indistinguishable from a new one after that.
func (rl *RateLimiter) idleAfter() time.Duration {
	if rl.limit.PerSecond <= 0 {
		return 10 * time.Minute
	}

	return time.Duration(float64(rl.limit.Burst) / rl.limit.PerSecond * float64(time.Second))
}

func (rl *RateLimiter) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(rl.now())
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) {
	idle := rl.idleAfter()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for k, b := range rl.buckets {
		if now.Sub(b.seen) > idle {
			delete(rl.buckets, k)
		}
	}
}

// take spends one token from key's bucket. When the bucket is empty it
// reports how long until the next token.
func (rl *RateLimiter) take(key string) (ok bool, wait time.Duration, full bool) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[key]
	if !exists {
		if len(rl.buckets) >= maxBuckets {
			return false, 0, true
		}

		b = &bucket{tokens: float64(rl.limit.Burst), seen: now}
		rl.buckets[key] = b
	}

	b.tokens = math.Min(float64(rl.limit.Burst), b.tokens+now.Sub(b.seen).Seconds()*rl.limit.PerSecond)
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--

		return true, 0, false
	}

	if rl.limit.PerSecond <= 0 {
		return false, time.Minute, false
	}

	return false, time.Duration((1 - b.tokens) / rl.limit.PerSecond * float64(time.Second)), false
}

// Handler returns Gin middleware enforcing the limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait, full := rl.take(rl.key(c))
		if ok {
			c.Next()

			return
		}

		metrics.RateLimitedTotal.WithLabelValues(rl.scope).Inc()

		if full {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many clients")

			return
		}

		c.Header("Retry-After", strconv.Itoa(max(1, int(math.Ceil(wait.Seconds())))))
		respondError(c, http.StatusTooManyRequests, "rate_limited", rl.scope+" rate limit exceeded")
	}
}
