package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elevatecrm/backend/internal/infrastructure/cache"
)

// RateLimiter is a fixed-window, in-memory limiter. Each key gets a
// bucket of tokens that refills when its window elapses. State is
// per-process; use RedisRateLimit when limits must hold across
// instances.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	tokens  int
	resetAt time.Time
}

// NewRateLimiter builds a limiter allowing limit requests per window
// and starts its background cleanup.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go rl.evictStale()
	return rl
}

// evictStale drops buckets idle for two full windows so the map does
// not grow with one entry per client IP forever.
func (rl *RateLimiter) evictStale() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-2 * rl.window)
		rl.mu.Lock()
		for key, b := range rl.buckets {
			if b.resetAt.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// take consumes one token for key and reports whether the request is
// allowed, along with the tokens left in the current window.
func (rl *RateLimiter) take(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.resetAt) >= rl.window {
		rl.buckets[key] = &bucket{tokens: rl.limit - 1, resetAt: now}
		return true, rl.limit - 1
	}
	if b.tokens > 0 {
		b.tokens--
		return true, b.tokens
	}
	return false, 0
}

// Allow reports whether a request for key fits within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	ok, _ := rl.take(key)
	return ok
}

// Remaining returns the tokens left for key without consuming one.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok || time.Since(b.resetAt) >= rl.window {
		return rl.limit
	}
	return b.tokens
}

// clientKey buckets requests by tenant and client IP so one tenant
// cannot exhaust another's quota from behind the same proxy.
func clientKey(c *gin.Context) string {
	key := c.ClientIP()
	if tenantID := GetTenantID(c); tenantID != "" {
		return tenantID + ":" + key
	}
	if tenantID := c.GetHeader(TenantHeaderKey); tenantID != "" {
		return tenantID + ":" + key
	}
	return key
}

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "RATE_LIMIT_EXCEEDED",
			"message": "Too many requests. Please try again later.",
		},
	})
}

// RateLimit enforces limiter per tenant and client IP.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, clientKey)
}

// RateLimitByKey enforces limiter with a caller-supplied key, for
// endpoints that limit by user or by route instead of by address.
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, remaining := limiter.take(keyFunc(c))
		if !ok {
			tooManyRequests(c)
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}

// RedisRateLimit enforces a fixed-window limit shared across server
// instances. On counter errors it fails open so a Redis outage does
// not take the API down with it.
func RedisRateLimit(counter *cache.Counter, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := counter.Increment(c.Request.Context(), clientKey(c), window)
		if err == nil && count > limit {
			tooManyRequests(c)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		if err == nil {
			remaining := limit - count
			if remaining < 0 {
				remaining = 0
			}
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}
		c.Next()
	}
}
