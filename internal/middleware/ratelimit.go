package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/tutor-scheduler/internal/config"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
)

type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	cfg      config.RateLimitConfig
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, _ := l.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}

// RateLimit limits requests per client IP. A non-positive RPS disables it.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	l := &rateLimiter{cfg: cfg}

	return func(c *gin.Context) {
		if cfg.RPS <= 0 {
			c.Next()
			return
		}

		if !l.getLimiter(c.ClientIP()).Allow() {
			httperr.Abort(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down")
			return
		}
		c.Next()
	}
}
