// Package middleware provides the gin handler chain shared by every route:
// request IDs, panic recovery, access logging, rate limiting, security
// headers and request metrics.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// Option configures the behaviour of Stack.
type Option func(*stackConfig)

// WithLogging controls whether access logs are emitted.
func WithLogging(enabled bool) Option {
	return func(cfg *stackConfig) {
		cfg.enableLogging = enabled
	}
}

// WithRateLimit configures a token bucket limiter; zero values disable limiting.
func WithRateLimit(ratePerSecond float64, burst int) Option {
	return func(cfg *stackConfig) {
		cfg.limiter = NewTokenBucketLimiter(ratePerSecond, burst)
	}
}

// WithRateLimiter overrides the request rate limiter (primarily for tests).
func WithRateLimiter(limiter Limiter) Option {
	return func(cfg *stackConfig) {
		cfg.limiter = limiter
	}
}

// WithSecureHeaders controls whether HTTPS is enforced alongside the security headers.
func WithSecureHeaders(sslRedirect bool) Option {
	return func(cfg *stackConfig) {
		cfg.sslRedirect = sslRedirect
	}
}

// WithMetrics appends a request instrumentation handler to the chain.
func WithMetrics(handler gin.HandlerFunc) Option {
	return func(cfg *stackConfig) {
		cfg.metrics = handler
	}
}

type stackConfig struct {
	enableLogging bool
	limiter       Limiter
	sslRedirect   bool
	metrics       gin.HandlerFunc
}

// Stack returns the middleware chain in execution order.
func Stack(logger *zap.Logger, opts ...Option) []gin.HandlerFunc {
	cfg := stackConfig{
		enableLogging: true,
		limiter:       NewTokenBucketLimiter(25, 50),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	chain := []gin.HandlerFunc{RequestID()}
	if cfg.metrics != nil {
		chain = append(chain, cfg.metrics)
	}
	if cfg.enableLogging {
		chain = append(chain, AccessLog(logger))
	}
	chain = append(chain,
		Recovery(logger),
		RateLimit(cfg.limiter),
		SecureHeaders(cfg.sslRedirect),
	)
	return chain
}

// RequestID echoes the caller's X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// RequestIDFrom returns the request ID assigned by RequestID, if any.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog writes one structured entry per completed request.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request completed", fields...)
	}
}

// Recovery converts a panic in a later handler into a 500 response.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.Any("error", rec),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", RequestIDFrom(c)),
				)
				if !c.Writer.Written() {
					c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// SecureHeaders sets browser hardening headers; sslRedirect additionally
// enforces HTTPS and HSTS.
func SecureHeaders(sslRedirect bool) gin.HandlerFunc {
	cfg := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if sslRedirect {
		cfg.SSLRedirect = true
		cfg.STSSeconds = 31536000
		cfg.STSIncludeSubdomains = true
	}
	return secure.New(cfg)
}
