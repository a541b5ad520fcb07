package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	bytesSent  int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesSent += n
	return n, err
}

// LoggingMiddleware logs one line per request. Forwarding headers are used for
// client_ip only when trustProxy is set.
func LoggingMiddleware(logger *logrus.Logger, trustProxy bool) func(http.Handler) http.Handler {
	logEntry := logger.WithField("component", "http_middleware")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				logEntry.WithFields(logrus.Fields{
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     lrw.statusCode,
					"duration":   time.Since(start),
					"client_ip":  getClientIP(r, trustProxy),
					"bytes":      lrw.bytesSent,
					"user_agent": r.UserAgent(),
				}).Info("Request processed")
			}()

			next.ServeHTTP(lrw, r)
		})
	}
}

// RateLimiter limits requests per client IP with a token bucket refilled at
// limit per window. Unless trustProxy is set the client IP is the connection's
// remote address, so a caller cannot pick its own bucket with X-Forwarded-For.
type RateLimiter struct {
	limit      int
	window     time.Duration
	trustProxy bool

	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

func NewRateLimiter(limit int, window time.Duration, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		limit:      limit,
		window:     window,
		trustProxy: trustProxy,
		clients:    make(map[string]*clientLimiter),
		now:        time.Now,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(getClientIP(r, rl.trustProxy)) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	c, exists := rl.clients[clientIP]
	if !exists {
		c = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.limit)/rl.window.Seconds()), rl.limit),
		}
		rl.clients[clientIP] = c
	}
	c.lastSeen = rl.now()
	rl.mu.Unlock()

	return c.limiter.Allow()
}

// Cleanup drops clients idle for more than three minutes, once a minute, until
// ctx is done.
func (rl *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evictIdle(3 * time.Minute)
		}
	}
}

func (rl *RateLimiter) evictIdle(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > maxIdle {
			delete(rl.clients, ip)
		}
	}
}

// getClientIP reads X-Forwarded-For, then X-Real-IP, only when trustProxy is
// set; those headers are client-controlled unless a proxy rewrites them.
func getClientIP(r *http.Request, trustProxy bool) string {
	var ip string
	if trustProxy {
		ip = r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip = r.Header.Get("X-Real-IP")
		}
	}
	if ip == "" {
		var err error
		ip, _, err = net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
	}
	if strings.Contains(ip, ",") {
		parts := strings.Split(ip, ",")
		ip = strings.TrimSpace(parts[0])
	}
	return ip
}
