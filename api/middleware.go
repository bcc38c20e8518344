package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Domenick1991/airlines/internal/logger"
)

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.F("method", c.Request.Method),
			logger.F("path", c.Request.URL.Path),
			logger.F("status", c.Writer.Status()),
			logger.F("latency_ms", time.Since(start).Milliseconds()),
			logger.F("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// limiterIdle is how long a client may stay quiet before its bucket is
// dropped. A returning client starts with a full bucket.
const limiterIdle = 10 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// ClientLimiter hands out one token bucket per client address.
type ClientLimiter struct {
	limiters  map[string]*clientEntry
	mu        sync.RWMutex
	rps       float64
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &ClientLimiter{
		limiters:  make(map[string]*clientEntry),
		rps:       rps,
		burst:     burst,
		idle:      limiterIdle,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *ClientLimiter) GetLimiter(client string) *rate.Limiter {
	now := l.now()

	l.mu.RLock()
	entry, exists := l.limiters[client]
	l.mu.RUnlock()

	if exists {
		entry.lastSeen.Store(now.UnixNano())
		return entry.limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, exists = l.limiters[client]; exists {
		entry.lastSeen.Store(now.UnixNano())
		return entry.limiter
	}

	if now.Sub(l.lastSweep) >= l.idle {
		l.evictIdle(now)
	}

	entry = &clientEntry{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
	entry.lastSeen.Store(now.UnixNano())
	l.limiters[client] = entry
	return entry.limiter
}

// evictIdle runs under the write lock.
func (l *ClientLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-l.idle).UnixNano()
	for client, entry := range l.limiters {
		if entry.lastSeen.Load() < cutoff {
			delete(l.limiters, client)
		}
	}
	l.lastSweep = now
}

func (l *ClientLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.limiters)
}

func RateLimit(l *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "too many requests",
				"code":      "rate_limited",
				"retryable": true,
			})
			return
		}
		c.Next()
	}
}
