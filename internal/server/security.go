package server

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SecurityConfig bounds the work a single request may trigger.
type SecurityConfig struct {
	// MaxSize is the largest input length a request may ask for.
	MaxSize int
	// MaxSizes is the largest number of sizes per request.
	MaxSizes int
	// MaxRepetitions is the largest batch a request may ask for.
	MaxRepetitions int
	// AllowedOrigin, when set, is returned in Access-Control-Allow-Origin.
	AllowedOrigin string
}

// DefaultSecurityConfig returns limits suited to a shared server: the
// quadratic reference at 1<<16 points already takes seconds.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxSize:        1 << 16,
		MaxSizes:       16,
		MaxRepetitions: 1000,
	}
}

// RateLimiterConfig configures the per-client token buckets.
type RateLimiterConfig struct {
	// RequestsPerMinute is the sustained request rate per client.
	RequestsPerMinute int
	// Burst is the number of requests a client may send at once.
	Burst int
}

// DefaultRateLimiterConfig returns the default per-client limits.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{RequestsPerMinute: 60, Burst: 10}
}

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	mu       sync.Mutex
	cfg      RateLimiterConfig
	limiters map[string]*rate.Limiter
}

// NewRateLimiter creates a rate limiter. A non-positive burst defaults to 1.
//
// Parameters:
//   - cfg: The limiter configuration.
//
// Returns:
//   - *RateLimiter: The rate limiter.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &RateLimiter{cfg: cfg, limiters: make(map[string]*rate.Limiter)}
}

// Allow reports whether client may issue one more request now.
func (rl *RateLimiter) Allow(client string) bool {
	if rl.cfg.RequestsPerMinute <= 0 {
		return true
	}
	rl.mu.Lock()
	l, ok := rl.limiters[client]
	if !ok {
		l = rate.NewLimiter(rate.Limit(float64(rl.cfg.RequestsPerMinute)/60), rl.cfg.Burst)
		rl.limiters[client] = l
	}
	rl.mu.Unlock()
	return l.Allow()
}

// RetryAfterSeconds is the time for one token to refill, rounded up.
func (rl *RateLimiter) RetryAfterSeconds() int {
	if rl.cfg.RequestsPerMinute <= 0 {
		return 0
	}
	perToken := time.Minute / time.Duration(rl.cfg.RequestsPerMinute)
	return int(math.Ceil(perToken.Seconds()))
}
