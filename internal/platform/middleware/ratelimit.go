package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig tunes the per-IP token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 100, BurstSize: 200}
}

type tokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

func (b *tokenBucket) take(now time.Time) bool {
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RateLimit rejects clients exceeding the configured request rate, keyed by
// remote IP. Buckets for idle clients are dropped after an hour.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*tokenBucket)
		lastSweep = time.Now()
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			ip := c.RealIP()

			mu.Lock()
			if now.Sub(lastSweep) > time.Hour {
				for k, b := range buckets {
					if now.Sub(b.lastRefill) > time.Hour {
						delete(buckets, k)
					}
				}
				lastSweep = now
			}
			b, ok := buckets[ip]
			if !ok {
				b = &tokenBucket{
					tokens:     float64(cfg.BurstSize),
					maxTokens:  float64(cfg.BurstSize),
					refillRate: cfg.RequestsPerSecond,
					lastRefill: now,
				}
				buckets[ip] = b
			}
			allowed := b.take(now)
			mu.Unlock()

			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
