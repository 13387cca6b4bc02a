package rate_limiter

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter is a sliding window limiter keyed by client address. Uploads
// rewrite a whole month of snapshots, so they are throttled per caller.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// prune drops timestamps outside the window and forgets idle keys.
func (rl *RateLimiter) prune(now time.Time) {
	windowStart := now.Add(-rl.window)
	for key, times := range rl.requests {
		valid := times[:0]
		for _, t := range times {
			if t.After(windowStart) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

// IsAllowed records a request for key and reports whether it fits the limit.
// A non-positive limit disables throttling.
func (rl *RateLimiter) IsAllowed(key string) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)
	if len(rl.requests[key]) >= rl.limit {
		return false
	}
	rl.requests[key] = append(rl.requests[key], now)
	return true
}

func (rl *RateLimiter) GetRemainingRequests(key string) int {
	if rl.limit <= 0 {
		return -1
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.prune(rl.now())
	return rl.limit - len(rl.requests[key])
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.IsAllowed(ip) {
			logger.Warn("Rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", c.FullPath()))
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, try again later",
			})
			return
		}
		if remaining := rl.GetRemainingRequests(ip); remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}
		c.Next()
	}
}
