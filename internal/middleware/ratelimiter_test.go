package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

type staticLimiter struct {
	allow bool
}

func (s *staticLimiter) Allow() bool {
	return s.allow
}

func TestRateLimitBlocksWhenLimiterDenies(t *testing.T) {
	engine := gin.New()
	engine.Use(RateLimit(&staticLimiter{allow: false}))
	engine.GET("/", func(*gin.Context) {
		t.Fatalf("handler should not execute when rate limited")
	})

	rec := perform(engine, http.MethodGet, "/", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestRateLimitPassesWhenLimiterAllows(t *testing.T) {
	var called bool
	engine := gin.New()
	engine.Use(RateLimit(&staticLimiter{allow: true}))
	engine.GET("/", func(c *gin.Context) {
		called = true
		c.Status(http.StatusNoContent)
	})

	perform(engine, http.MethodGet, "/", nil)
	if !called {
		t.Fatalf("expected handler to execute when limiter allows")
	}
}

func TestNewTokenBucketLimiter(t *testing.T) {
	if limiter := NewTokenBucketLimiter(0, 0); limiter != nil {
		t.Fatalf("expected nil limiter for zero configuration")
	}
	if limiter := NewTokenBucketLimiter(5, 0); limiter != nil {
		t.Fatalf("expected nil limiter for zero burst")
	}

	limiter := NewTokenBucketLimiter(1, 1)
	if limiter == nil {
		t.Fatalf("expected limiter instance")
	}
	if !limiter.Allow() {
		t.Fatalf("expected first request to be allowed")
	}
	if limiter.Allow() {
		t.Fatalf("expected second immediate request to be denied")
	}
}
