package web

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
)

// CorsMiddleware handles CORS headers for cross-origin requests
func CorsMiddleware(c rweb.Context) error {
	c.Response().SetHeader("Access-Control-Allow-Origin", "*")
	c.Response().SetHeader("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Response().SetHeader("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

	// Handle preflight OPTIONS requests
	if c.Request().Method() == "OPTIONS" {
		c.SetStatus(http.StatusOK)
		return nil
	}

	return c.Next()
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware(c rweb.Context) error {
	c.Response().SetHeader("X-Content-Type-Options", "nosniff")
	c.Response().SetHeader("X-Frame-Options", "DENY")
	c.Response().SetHeader("Referrer-Policy", "strict-origin-when-cross-origin")

	// The form only loads its own script and stylesheet
	csp := []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self'",
		"img-src 'self' data:",
		"connect-src 'self'",
		"form-action 'self'",
	}
	c.Response().SetHeader("Content-Security-Policy", strings.Join(csp, "; "))

	return c.Next()
}

// rateLimiter counts requests per client over a one-minute window.
type rateLimiter struct {
	mu       sync.Mutex
	limit    int
	visitors map[string]*visitor
}

type visitor struct {
	lastSeen time.Time
	count    int
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	return &rateLimiter{limit: requestsPerMinute, visitors: make(map[string]*visitor)}
}

// allow records a request from client at now and reports whether it is
// within the limit.
func (rl *rateLimiter) allow(client string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Clean up old entries
	for addr, v := range rl.visitors {
		if now.Sub(v.lastSeen) > time.Minute {
			delete(rl.visitors, addr)
		}
	}

	v, exists := rl.visitors[client]
	if !exists {
		rl.visitors[client] = &visitor{lastSeen: now, count: 1}
		return true
	}
	if now.Sub(v.lastSeen) >= time.Minute {
		v.lastSeen = now
		v.count = 1
		return true
	}
	v.count++
	return v.count <= rl.limit
}

// rateLimited reports whether a request is subject to the limiter. Only
// submissions are counted; pages, assets, live validation and the sandbox
// are not.
func rateLimited(method, path string) bool {
	if method != http.MethodPost {
		return false
	}
	return path == "/signup" || path == "/api/v1/signup"
}

// clientKey identifies the client from the proxy headers. Requests without
// them are not attributed to a shared bucket.
func clientKey(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		if i := strings.IndexByte(forwardedFor, ','); i >= 0 {
			forwardedFor = forwardedFor[:i]
		}
		return strings.TrimSpace(forwardedFor)
	}
	return strings.TrimSpace(realIP)
}

// RateLimitMiddleware limits signup submissions per client. It relies on
// X-Forwarded-For or X-Real-IP, so it belongs behind a reverse proxy.
func RateLimitMiddleware(requestsPerMinute int) rweb.Handler {
	rl := newRateLimiter(requestsPerMinute)

	return func(c rweb.Context) error {
		if !rateLimited(c.Request().Method(), c.Request().Path()) {
			return c.Next()
		}

		client := clientKey(c.Request().Header("X-Forwarded-For"), c.Request().Header("X-Real-IP"))
		if client == "" {
			return c.Next()
		}

		if !rl.allow(client, time.Now()) {
			logger.Info("Rate limit exceeded", "ip", client)
			c.SetStatus(http.StatusTooManyRequests)
			return nil
		}
		return c.Next()
	}
}

// LoggingMiddleware provides detailed request logging
func LoggingMiddleware(c rweb.Context) error {
	start := time.Now()

	logger.Debug("Request started",
		"method", c.Request().Method(),
		"path", c.Request().Path(),
	)

	err := c.Next()

	logger.Debug("Request completed",
		"method", c.Request().Method(),
		"path", c.Request().Path(),
		"duration", time.Since(start),
		"error", err,
	)

	return err
}
