package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; it is reset when exceeded.
const maxTrackedClients = 10000

// limiterCache keeps one token bucket per key, with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.RLock()
	size := len(lc.limiters)
	lc.mu.RUnlock()
	if size <= maxSize {
		return false
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// SignInLimiter throttles credential submissions per client IP.
type SignInLimiter struct {
	cache *limiterCache[string]
}

// NewSignInLimiter allows rps attempts per second per IP with the given burst.
func NewSignInLimiter(rps float64, burst int) *SignInLimiter {
	if burst < 1 {
		burst = 1
	}
	return &SignInLimiter{cache: newLimiterCache[string](rps, burst)}
}

// Middleware rejects over-limit requests with a redirect back to redirectPath
// carrying an error message.
func (l *SignInLimiter) Middleware(redirectPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.cache.clearIfExceeds(maxTrackedClients) {
			slog.Info("sign-in limiter reset", "category", "security")
		}

		ip := c.ClientIP()
		if !l.cache.get(ip).Allow() {
			slog.Warn("sign-in rate limit exceeded", "category", "security", "ip", ip, "path", c.Request.URL.Path)
			location := redirectPath + "?error=" + url.QueryEscape("Too many attempts. Please wait a moment and try again.")
			c.Redirect(http.StatusSeeOther, location)
			c.Abort()
			return
		}
		c.Next()
	}
}
