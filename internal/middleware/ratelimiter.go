package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Limiter decides whether a request may proceed.
type Limiter interface {
	Allow() bool
}

type limiterAdapter struct {
	limiter *rate.Limiter
}

// NewTokenBucketLimiter returns a Limiter refilling ratePerSecond tokens up to burst.
// Non-positive values disable limiting and yield nil.
func NewTokenBucketLimiter(ratePerSecond float64, burst int) Limiter {
	if ratePerSecond <= 0 || burst <= 0 {
		return nil
	}

	return &limiterAdapter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (l *limiterAdapter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

// RateLimit rejects requests with 429 while the limiter denies them.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.Allow() {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		c.String(http.StatusTooManyRequests, "rate limit exceeded, please retry shortly")
		c.Abort()
	}
}
