package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitalos/website/internal/http/response"
	"github.com/vitalos/website/pkg/logger"
)

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests         int                            // Max requests per window
	Window           time.Duration                  // Time window duration
	TrustedProxyHops int                            // Proxies whose X-Forwarded-For entries are trusted
	KeyFunc          func(r *http.Request) []string // Function to generate rate limit keys
}

// Counter increments key within a window and returns the new count.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter is a fixed-window limiter. It fails open when the counter errors.
type RateLimiter struct {
	counter Counter
	config  RateLimitConfig
}

func NewRateLimiter(counter Counter, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKeyFunc(config.TrustedProxyHops)
	}
	return &RateLimiter{counter: counter, config: config}
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, key := range rl.config.KeyFunc(r) {
				if !rl.allow(r.Context(), key) {
					response.RateLimit(w, "Too many requests. Try again later.")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Hash the key for privacy
	hashedKey := fmt.Sprintf("ratelimit:%x", sha256.Sum256([]byte(key)))

	count, err := rl.counter.Incr(ctx, hashedKey, rl.config.Window)
	if err != nil {
		logger.WarnContext(ctx, "Rate limit check failed", "error", err)
		return true
	}
	return count <= int64(rl.config.Requests)
}

// RedisCounter keeps counters in Redis with the window as TTL.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(url string) (*RedisCounter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return NewRedisCounterFromClient(redis.NewClient(opts)), nil
}

func NewRedisCounterFromClient(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr bumps key and reads its TTL in one transaction. A key without a TTL,
// new or left behind by a failed EXPIRE, gets the window as TTL, so no
// counter outlives its window for long.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}

	n := incr.Val()
	// TTL answers -1 for a key that exists without an expiry.
	if ttl.Val() < 0 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *RedisCounter) Close() error {
	return c.client.Close()
}

// ClientIPKeyFunc limits by client IP, see ClientIP for trustedHops.
func ClientIPKeyFunc(trustedHops int) func(r *http.Request) []string {
	return func(r *http.Request) []string {
		if ip := ClientIP(r, trustedHops); ip != "" {
			return []string{"ip:" + ip}
		}
		return nil
	}
}

// ClientIP extracts the client IP from the request. With trustedHops == 0 the
// forwarding headers are ignored and the peer address is used. Otherwise the
// address is read from X-Forwarded-For, trustedHops entries from the right,
// since entries further left are whatever the client chose to send.
func ClientIP(r *http.Request, trustedHops int) string {
	if trustedHops > 0 {
		var hops []string
		for _, v := range r.Header.Values("X-Forwarded-For") {
			for _, hop := range strings.Split(v, ",") {
				if hop = strings.TrimSpace(hop); hop != "" {
					hops = append(hops, hop)
				}
			}
		}
		if len(hops) > 0 {
			idx := len(hops) - trustedHops
			if idx < 0 {
				idx = 0
			}
			return hops[idx]
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
