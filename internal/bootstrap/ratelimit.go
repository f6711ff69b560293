package bootstrap

import (
	"sync"
	"time"

	"github.com/eleven-am/jump-backend/internal/shared"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration
}

func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 0.5,
		Burst:             5,
		CleanupInterval:   5 * time.Minute,
	}
}

// UploadLimiter keeps one token bucket per client IP. Buckets are dropped on
// every cleanup tick.
type UploadLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	config   RateLimiterConfig
	stop     chan struct{}
	once     sync.Once
}

func NewUploadLimiter(cfg RateLimiterConfig) *UploadLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimiterConfig().CleanupInterval
	}
	l := &UploadLimiter{
		limiters: make(map[string]*rate.Limiter),
		config:   cfg,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *UploadLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)
	l.limiters[key] = limiter
	return limiter
}

func (l *UploadLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			clear(l.limiters)
			l.mu.Unlock()
		}
	}
}

func (l *UploadLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *UploadLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l.config.RequestsPerSecond <= 0 {
				return next(c)
			}
			if !l.getLimiter(c.RealIP()).Allow() {
				return shared.TooManyRequests("rate_limit_exceeded", "too many uploads, try again later")
			}
			return next(c)
		}
	}
}
