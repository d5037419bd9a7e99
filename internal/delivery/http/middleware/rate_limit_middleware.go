package middleware

import (
	"net/http"
	"sync"
	"time"

	"go-therapy-platform/pkg/metrics"
	"go-therapy-platform/pkg/response"

	"github.com/gorilla/mux"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int

	// TrustedProxies lists peers (IPs or CIDRs) whose X-Forwarded-For is
	// honoured. Everyone else is keyed on the socket address.
	TrustedProxies []string
}

// RateLimiter keeps one token bucket per client IP. Idle buckets expire
// from the cache so the map does not grow without bound.
type RateLimiter struct {
	config   RateLimiterConfig
	proxies  *TrustedProxies
	limiters *gocache.Cache
	mu       sync.Mutex
	metrics  *metrics.Metrics
}

func NewRateLimiter(config RateLimiterConfig, m *metrics.Metrics) *RateLimiter {
	return &RateLimiter{
		config:   config,
		proxies:  NewTrustedProxies(config.TrustedProxies),
		limiters: gocache.New(10*time.Minute, 5*time.Minute),
		metrics:  m,
	}
}

func (rl *RateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiterFor(rl.proxies.ClientIP(r)).Allow() {
			if rl.metrics != nil {
				rl.metrics.RateLimited.WithLabelValues(routeTemplate(r)).Inc()
			}
			response.TooManyRequests(w, "Request was throttled")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cached, ok := rl.limiters.Get(key); ok {
		limiter := cached.(*rate.Limiter)
		rl.limiters.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	rl.limiters.SetDefault(key, limiter)
	return limiter
}

// routeTemplate returns the matched mux path template, keeping metric
// labels bounded.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
