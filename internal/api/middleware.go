package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultRequestBodyLimitBytes matches the default upload cap.
	DefaultRequestBodyLimitBytes int64 = 8 << 20 // 8 MiB

	// DefaultRateLimitRequests is the default upload budget per client IP and window.
	DefaultRateLimitRequests = 30

	// DefaultRateLimitWindow is the default throttle window.
	DefaultRateLimitWindow = time.Minute
)

const (
	securityHeaderNoSniff  = "nosniff"
	securityHeaderNoFrame  = "SAMEORIGIN"
	securityHeaderReferrer = "no-referrer"
	// The upload page posts to itself and carries its own <style> block.
	// Generated reports are served under the same policy and load main_logo.png.
	securityHeaderCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; " +
		"script-src 'none'; object-src 'none'; frame-ancestors 'self'; base-uri 'none'; form-action 'self'"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed runs first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type ipWindow struct {
	start time.Time
	count int
}

type ipRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]ipWindow
}

func newIPRateLimiter(limit int, window time.Duration, now func() time.Time) *ipRateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimitRequests
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	if now == nil {
		now = time.Now
	}

	return &ipRateLimiter{
		limit:   limit,
		window:  window,
		now:     now,
		windows: make(map[string]ipWindow),
	}
}

func (l *ipRateLimiter) allow(clientIP string) bool {
	now := l.now()
	if clientIP == "" {
		clientIP = "unknown"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop stale windows to keep memory bounded.
	for ip, w := range l.windows {
		if now.Sub(w.start) >= 2*l.window {
			delete(l.windows, ip)
		}
	}

	w := l.windows[clientIP]
	if w.start.IsZero() || now.Sub(w.start) >= l.window {
		l.windows[clientIP] = ipWindow{start: now, count: 1}
		return true
	}
	if w.count >= l.limit {
		return false
	}

	w.count++
	l.windows[clientIP] = w
	return true
}

// SecurityHeaders sets baseline browser hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", securityHeaderNoSniff)
		h.Set("X-Frame-Options", securityHeaderNoFrame)
		h.Set("Referrer-Policy", securityHeaderReferrer)
		h.Set("Content-Security-Policy", securityHeaderCSP)
		next.ServeHTTP(w, r)
	})
}

// BodySizeLimit caps request body size before handler processing.
func BodySizeLimit(limitBytes int64) Middleware {
	if limitBytes <= 0 {
		limitBytes = DefaultRequestBodyLimitBytes
	}

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limitBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitPerIP throttles state-changing requests by client IP.
// GET and HEAD pass through so downloads and the form stay reachable.
func RateLimitPerIP(limit int, window time.Duration) Middleware {
	return rateLimitPerIPWithClock(limit, window, time.Now)
}

func rateLimitPerIPWithClock(limit int, window time.Duration, now func() time.Time) Middleware {
	limiter := newIPRateLimiter(limit, window, now)

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || limiter.allow(ClientIP(r)) {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := int(limiter.window.Seconds())
			if retryAfter <= 0 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, or the remote host.
func ClientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	remoteAddr := strings.TrimSpace(r.RemoteAddr)
	if remoteAddr == "" {
		return "unknown"
	}

	host, _, err := net.SplitHostPort(remoteAddr)
	if err == nil && host != "" {
		return host
	}

	return remoteAddr
}
