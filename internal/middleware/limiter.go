package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Auth / payment (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

const (
	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per identity and tier.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// getVisitor retrieves or creates the limiter for key.
func (l *Limiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		l.visitors[key] = &visitor{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// cleanup removes visitors idle for longer than maxAge.
func (l *Limiter) cleanup(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > maxAge {
			delete(l.visitors, key)
		}
	}
}

// Run evicts idle visitors until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup(visitorTTL)
		}
	}
}

// Middleware rejects requests over their bucket with 429.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, burst, tier := resolveRateTier(c.Request)

		// Same identity gets separate quotas per tier, e.g. "ip:1.2.3.4:strict".
		key := fmt.Sprintf("%s:%s", clientIdentity(c), tier)

		if !l.getVisitor(key, limit, burst).Allow() {
			abort(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}

		c.Next()
	}
}

// clientIdentity keys a request by device header or client IP. The limiter
// runs ahead of Protect, so no user identity is available yet.
func clientIdentity(c *gin.Context) string {
	if deviceID := c.GetHeader("X-Device-ID"); deviceID != "" {
		return "device:" + deviceID
	}
	return "ip:" + c.ClientIP()
}

// resolveRateTier puts auth and payment endpoints on the strict tier.
func resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	path := r.URL.Path
	if strings.HasPrefix(path, "/api/auth/") ||
		path == "/api/orders/razorpay" ||
		(strings.HasPrefix(path, "/api/orders/") && strings.HasSuffix(path, "/pay")) {
		return limitStrict, burstStrict, "strict"
	}

	return limitGeneral, burstGeneral, "general"
}
