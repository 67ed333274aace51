package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/theyool/booking-service/internal/api/handlers"
)

type RateLimiterConfig struct {
	Rate      rate.Limit
	Burst     int
	ClientTTL time.Duration // idle limiters are dropped after this
}

// RateLimiter token bucket per client IP
type RateLimiter struct {
	config   RateLimiterConfig
	limiters *cache.Cache
	mu       sync.Mutex
	logger   Logger
}

func NewRateLimiter(config RateLimiterConfig, logger Logger) *RateLimiter {
	return &RateLimiter{
		config:   config,
		limiters: cache.New(config.ClientTTL, 2*config.ClientTTL),
		logger:   logger,
	}
}

func (rl *RateLimiter) limiterFor(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limiters.Get(client); ok {
		// touch to extend the idle window
		rl.limiters.SetDefault(client, v)
		return v.(*rate.Limiter)
	}

	l := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	rl.limiters.SetDefault(client, l)
	return l
}

// RateLimit rejects with 429 once a client exhausts its bucket
func (rl *RateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r)
		if !rl.limiterFor(client).Allow() {
			rl.logger.Warn("%s %s - rate limit exceeded for %s", r.Method, r.URL.Path, client)
			w.Header().Set("Retry-After", "60")
			handlers.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
