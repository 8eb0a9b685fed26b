// Package ratelimit throttles expensive routes per caller.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	infrajwt "github.com/jonesrussell/postcraft/infrastructure/jwt"
	"github.com/jonesrussell/postcraft/infrastructure/logger"
)

const (
	defaultRPM       = 10
	defaultIdleAfter = 10 * time.Minute
)

type Config struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" yaml:"enabled"`
	// RequestsPerMinute is the sustained rate per caller.
	RequestsPerMinute int `env:"RATE_LIMIT_RPM" yaml:"requests_per_minute"`
	Burst             int `env:"RATE_LIMIT_BURST" yaml:"burst"`
	// IdleAfter drops a caller's bucket once unused this long.
	IdleAfter time.Duration `yaml:"idle_after"`
}

func (c *Config) SetDefaults() {
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = defaultRPM
	}
	if c.Burst <= 0 {
		c.Burst = c.RequestsPerMinute
	}
	if c.IdleAfter <= 0 {
		c.IdleAfter = defaultIdleAfter
	}
}

type entry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// Limiter keeps one token bucket per caller. Callers are keyed by JWT
// subject, or by client IP on unauthenticated routes.
type Limiter struct {
	cfg  Config
	mu   sync.Mutex
	keys map[string]*entry
	now  func() time.Time
}

func New(cfg Config) *Limiter {
	cfg.SetDefaults()
	return &Limiter{cfg: cfg, keys: make(map[string]*entry), now: time.Now}
}

// Allow takes a token for key.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.keys[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.cfg.RequestsPerMinute)), l.cfg.Burst)}
		l.keys[key] = e
	}
	e.seen = now
	return e.limiter.AllowN(now, 1)
}

// Sweep drops idle buckets and returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cfg.IdleAfter)
	removed := 0
	for k, e := range l.keys {
		if e.seen.Before(cutoff) {
			delete(l.keys, k)
			removed++
		}
	}
	return removed
}

// Run sweeps idle buckets until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.IdleAfter)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Len is the number of tracked callers.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

// Middleware answers 429 once the caller's bucket is empty.
func (l *Limiter) Middleware() gin.HandlerFunc {
	retryAfter := strconv.Itoa(int((time.Minute / time.Duration(l.cfg.RequestsPerMinute)).Seconds()) + 1)
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if claims, ok := infrajwt.GetClaims(c); ok {
			key = "user:" + claims.UserID()
		}
		if !l.Allow(key) {
			logger.FromContext(c.Request.Context()).Debug("Rate limited", logger.String("key", key))
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
