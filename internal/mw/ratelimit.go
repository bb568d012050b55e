package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// callerRateLimiter stores a rate limiter per caller key. Authenticated
// requests are keyed by user ID so shared NAT addresses do not starve each
// other; anonymous requests fall back to the client IP.
type callerRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       *sync.RWMutex
	r        rate.Limit
	b        int
}

func newCallerRateLimiter(r rate.Limit, b int) *callerRateLimiter {
	return &callerRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		mu:       &sync.RWMutex{},
		r:        r,
		b:        b,
	}
}

func (l *callerRateLimiter) add(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter := rate.NewLimiter(l.r, l.b)
	l.limiters[key] = limiter
	return limiter
}

func (l *callerRateLimiter) get(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if !exists {
		return l.add(key)
	}
	return limiter
}

// RateLimiter is a middleware for per-caller rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := newCallerRateLimiter(r, b)
	return func(c *gin.Context) {
		key := c.GetString(ContextUserKey)
		if key == "" {
			key = c.ClientIP()
		}
		if !limiter.get(key).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
