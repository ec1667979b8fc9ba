// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"salescrm_backend/platform/config"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// HeaderAPIKey carries the shared API key.
	HeaderAPIKey = "X-API-KEY"
	// HeaderRequestID carries the request correlation id.
	HeaderRequestID = "X-Request-ID"

	MsgAPIKeyNotConfigured = "API key not configured"
	MsgInvalidAPIKey       = "Invalid or missing API key"
	MsgRateLimited         = "rate limit exceeded"
)

// RequestID assigns a correlation id to each request, reusing the caller's
// X-Request-ID when present, and stores a request-scoped logger on the context.
func RequestID(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		if log != nil {
			c.Set(ContextLoggerKey, log.WithRequestID(requestID))
		}
		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		log.WithContext(c.Request.Context()).
			HTTPRequest(c.Request.Method, path, c.Writer.Status(), float64(latency.Microseconds())/1000, c.ClientIP())
	}
}

// Metrics records request counts and latency. The route label is the matched
// gin pattern so ids do not explode the label space.
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// Recovery turns a panic into the standard JSON 500 body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			log.WithContext(c.Request.Context()).HTTPError(
				c.Request.Method, c.Request.URL.Path, http.StatusInternalServerError,
				fmt.Errorf("panic: %v", recovered), c.ClientIP(),
			)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: MsgInternal})
	})
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// IPRateLimiter manages per-IP rate limiters.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

// NewIPRateLimiter creates a new IP-based rate limiter. A non-positive rate
// disables limiting.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if limiter, ok := i.limiters.Load(ip); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter)
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if i.rate <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !i.getLimiter(ip).Allow() {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: MsgRateLimited})
			return
		}

		c.Next()
	}
}

// APIKeyAuth guards the /api group. Health routes pass through, requests from
// an allow-listed Origin pass through, everything else must present the
// configured key in X-API-KEY.
func APIKeyAuth(auth config.AuthConfig, allowedOrigins []string, log *logger.Logger) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/health") {
			c.Next()
			return
		}

		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := origins[origin]; ok {
				c.Next()
				return
			}
		}

		expected := auth.GetAPIKey()
		if expected == "" {
			if log != nil {
				log.AuthFailure(c.Request.URL.Path, c.ClientIP(), "server key missing")
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: MsgAPIKeyNotConfigured})
			return
		}

		provided := c.GetHeader(HeaderAPIKey)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			if log != nil {
				log.AuthFailure(c.Request.URL.Path, c.ClientIP(), "key mismatch")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: MsgInvalidAPIKey})
			return
		}

		c.Next()
	}
}
