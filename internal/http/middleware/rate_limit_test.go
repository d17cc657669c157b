package middleware

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int64)
	}
	m.counts[key]++
	return m.counts[key], nil
}

func limitedHandler(counter Counter, requests int) http.Handler {
	rl := NewRateLimiter(counter, RateLimitConfig{Requests: requests, Window: time.Minute})
	return rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(h http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/investor-verify", nil)
	req.RemoteAddr = ip + ":4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	h := limitedHandler(&memCounter{}, 2)

	for i := 0; i < 2; i++ {
		if code := doRequest(h, "198.51.100.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
	if code := doRequest(h, "198.51.100.1"); code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", code)
	}
	if code := doRequest(h, "198.51.100.2"); code != http.StatusOK {
		t.Fatalf("other ip: status = %d, want 200", code)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	h := limitedHandler(&memCounter{err: errors.New("redis down")}, 1)

	for i := 0; i < 3; i++ {
		if code := doRequest(h, "198.51.100.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		hops   int
		header map[string]string
		remote string
		want   string
	}{
		{"no hops ignores forwarded", 0, map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.2:1", "10.0.0.2"},
		{"no hops ignores real ip", 0, map[string]string{"X-Real-IP": "203.0.113.6"}, "10.0.0.2:1", "10.0.0.2"},
		{"one hop takes proxy appended entry", 1, map[string]string{"X-Forwarded-For": "6.6.6.6, 203.0.113.5"}, "10.0.0.2:1", "203.0.113.5"},
		{"two hops", 2, map[string]string{"X-Forwarded-For": "6.6.6.6, 203.0.113.5, 10.0.0.9"}, "10.0.0.2:1", "203.0.113.5"},
		{"fewer entries than hops", 3, map[string]string{"X-Forwarded-For": "203.0.113.5"}, "10.0.0.2:1", "203.0.113.5"},
		{"real ip behind proxy", 1, map[string]string{"X-Real-IP": " 203.0.113.6 "}, "10.0.0.2:1", "203.0.113.6"},
		{"remote addr", 1, nil, "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", 0, nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req, tt.hops); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiter_SpoofedForwardedForDoesNotEvade(t *testing.T) {
	rl := NewRateLimiter(&memCounter{}, RateLimitConfig{Requests: 1, Window: time.Minute, TrustedProxyHops: 1})
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 2)
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.2:1"
		req.Header.Set("X-Forwarded-For", spoofed+", 203.0.113.5")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("statuses = %v, want [200 429]", codes)
	}
}

// ---------- Redis ----------

func newRedisCounter(t *testing.T) (*RedisCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCounterFromClient(client), mr
}

func TestRedisCounter_SetsWindowTTL(t *testing.T) {
	counter, mr := newRedisCounter(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := counter.Incr(ctx, "k", time.Minute)
		if err != nil {
			t.Fatalf("Incr: %v", err)
		}
		if n != want {
			t.Fatalf("Incr = %d, want %d", n, want)
		}
	}
	if ttl := mr.TTL("k"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("TTL = %v, want within (0, 1m]", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	n, err := counter.Incr(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if n != 1 {
		t.Fatalf("Incr after window = %d, want 1", n)
	}
}

func TestRedisCounter_RecoversKeyWithoutTTL(t *testing.T) {
	counter, mr := newRedisCounter(t)
	rl := NewRateLimiter(counter, RateLimitConfig{Requests: 2, Window: time.Minute})
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// A counter left over the limit with no expiry, as after a failed EXPIRE.
	key := fmt.Sprintf("ratelimit:%x", sha256.Sum256([]byte("ip:198.51.100.1")))
	if err := mr.Set(key, "5"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if code := doRequest(h, "198.51.100.1"); code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", code)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("TTL = %v, want the window to be re-armed", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if code := doRequest(h, "198.51.100.1"); code != http.StatusOK {
		t.Fatalf("status after window = %d, want 200", code)
	}
}

func TestRedisCounter_FailsOpenWhenDown(t *testing.T) {
	counter, mr := newRedisCounter(t)
	mr.Close()

	h := limitedHandler(counter, 1)
	for i := 0; i < 3; i++ {
		if code := doRequest(h, "198.51.100.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
}
