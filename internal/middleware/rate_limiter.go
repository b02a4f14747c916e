package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"mercadito/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipWindow counts requests from one IP inside a fixed window.
type ipWindow struct {
	count     int
	windowEnd time.Time
}

// RateLimiter is a per-IP fixed-window limiter. Each instance has its own
// table, so the checkout limit and the global limit do not share counters.
type RateLimiter struct {
	name   string
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*ipWindow
}

func NewRateLimiter(name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*ipWindow),
	}
}

// allow records one request from ip and reports whether it is within the limit.
func (rl *RateLimiter) allow(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &ipWindow{windowEnd: now.Add(rl.window)}
		rl.entries[ip] = e
	}
	e.count++
	return e.count <= rl.limit, e.windowEnd
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := rl.allow(c.ClientIP())
		if !ok {
			secs := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// Purge drops expired windows. StartPurge runs it periodically until stop is closed.
func (rl *RateLimiter) Purge() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	purged := 0
	for ip, e := range rl.entries {
		if now.After(e.windowEnd) {
			delete(rl.entries, ip)
			purged++
		}
	}
	return purged
}

func (rl *RateLimiter) StartPurge(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if n := rl.Purge(); n > 0 {
					log.Debug().Str("limiter", rl.name).Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}
	}()
}
