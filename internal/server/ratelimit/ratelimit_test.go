package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/hiring-funnel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestTokenBucket_Take(t *testing.T) {
	start := time.Now()
	bucket := newTokenBucket(10, 1.0, start)

	for i := 0; i < 10; i++ {
		allowed, remaining, _ := bucket.take(start)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 9-i, remaining)
	}

	allowed, remaining, reset := bucket.take(start)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, start.Add(10*time.Second), reset)
}

func TestTokenBucket_Refill(t *testing.T) {
	start := time.Now()
	bucket := newTokenBucket(10, 1.0, start)
	for i := 0; i < 10; i++ {
		bucket.take(start)
	}

	allowed, _, _ := bucket.take(start.Add(1100 * time.Millisecond))
	assert.True(t, allowed)
	allowed, _, _ = bucket.take(start.Add(1200 * time.Millisecond))
	assert.False(t, allowed)

	// Refill never exceeds capacity
	_, remaining, reset := bucket.take(start.Add(time.Hour))
	assert.Equal(t, 9, remaining)
	assert.True(t, reset.After(start.Add(time.Hour)))
}

func TestLimiter_Allow(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/calibration/entry", http.MethodGet)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/calibration/entry", http.MethodGet)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 6.0, info.RetryAfter.Seconds(), 0.001)

	clock.Advance(7 * time.Second)
	allowed, _ = l.Allow("127.0.0.1", "/calibration/entry", http.MethodGet)
	assert.True(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("10.0.0.1", "/x", http.MethodGet)
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/x", http.MethodGet)
	assert.False(t, allowed)
	allowed, _ = l.Allow("10.0.0.2", "/x", http.MethodGet)
	assert.True(t, allowed)
	assert.Equal(t, 2, l.BucketCount())
}

func TestLimiter_WhitelistBlacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("127.0.0.1", "/analyze", http.MethodPost)
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}

	allowed, _ := l.Allow("192.168.1.1", "/health", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/analyze", http.MethodPost)
		assert.True(t, allowed)
	}
	assert.Equal(t, 0, l.BucketCount())
}

func TestLimiter_AnalyzeTier(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: AnalyzeEndpointConfigs(60, time.Minute, 2),
	})

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("127.0.0.1", "/analyze", http.MethodPost)
		require.True(t, allowed)
		assert.Equal(t, 60, info.Limit)
	}
	allowed, _ := l.Allow("127.0.0.1", "/analyze", http.MethodPost)
	assert.False(t, allowed, "burst of 2 exhausted")

	allowed, info := l.Allow("127.0.0.1", "/analyze/stream", http.MethodPost)
	assert.True(t, allowed, "stream endpoint has its own bucket")
	assert.Equal(t, 60, info.Limit)

	for i := 0; i < 20; i++ {
		allowed, _ = l.Allow("127.0.0.1", "/health", http.MethodGet)
		require.True(t, allowed)
		allowed, _ = l.Allow("127.0.0.1", "/metrics", http.MethodGet)
		require.True(t, allowed)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})

	l.Allow("a", "/x", http.MethodGet)
	clock.Advance(2 * time.Hour)
	l.Allow("b", "/x", http.MethodGet)

	l.cleanupBuckets()
	assert.Equal(t, 1, l.BucketCount())
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("127.0.0.1", "/x", http.MethodGet); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, allowedCount)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Minute})
	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/analyze", Method: http.MethodPost, Limit: 60, Window: time.Minute},
		{Path: "/calibration/", Method: http.MethodGet, Limit: 30, Window: time.Minute},
	}

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{"/health", http.MethodGet, 0, false},
		{"/metrics", http.MethodGet, 0, false},
		{"/analyze", http.MethodPost, 60, false},
		{"/analyze", http.MethodGet, 0, true},
		{"/calibration/entry", http.MethodGet, 30, false},
		{"/unknown", http.MethodGet, 0, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig().RateLimit
	cfg.Whitelist = []string{" 10.0.0.1 ", ""}
	cfg.Blacklist = []string{"10.0.0.9"}

	got := FromConfig(cfg)
	assert.True(t, got.Enabled)
	assert.Equal(t, cfg.DefaultLimit, got.DefaultLimit)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, got.Whitelist)
	assert.True(t, got.Blacklist["10.0.0.9"])
	require.Len(t, got.EndpointConfigs, 2)
	assert.Equal(t, cfg.AnalyzeBurst, got.EndpointConfigs[0].Burst)

	cfg.Enabled = false
	assert.False(t, FromConfig(cfg).Enabled)
}
