package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
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
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_AnalyzeBurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig(1, 2))

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("10.0.0.1", "/analyze", "POST")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if info.Limit != 2 {
			t.Errorf("expected limit 2, got %d", info.Limit)
		}
	}

	allowed, info := l.Allow("10.0.0.1", "/analyze", "POST")
	if allowed {
		t.Fatal("third request should be denied")
	}
	if info.RetryAfter <= 0 || info.RetryAfter > time.Second {
		t.Errorf("expected retry-after within 1s, got %v", info.RetryAfter)
	}
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, DefaultConfig(1, 1))

	if ok, _ := l.Allow("c", "/analyze", "POST"); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := l.Allow("c", "/analyze", "POST"); ok {
		t.Fatal("second request should be denied")
	}

	clock.Advance(time.Second)
	if ok, _ := l.Allow("c", "/analyze", "POST"); !ok {
		t.Fatal("request after refill should be allowed")
	}
}

func TestLimiter_DeniedRequestDoesNotConsume(t *testing.T) {
	l, clock := newTestLimiter(t, DefaultConfig(1, 1))

	l.Allow("c", "/analyze", "POST")
	for i := 0; i < 5; i++ {
		l.Allow("c", "/analyze", "POST")
	}

	clock.Advance(time.Second)
	if ok, _ := l.Allow("c", "/analyze", "POST"); !ok {
		t.Fatal("denied requests must not push the next token further out")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig(0.5, 3))

	_, info := l.Allow("c", "/analyze", "POST")
	if info.Remaining != 2 {
		t.Errorf("expected 2 remaining, got %d", info.Remaining)
	}
	_, info = l.Allow("c", "/analyze", "POST")
	if info.Remaining != 1 {
		t.Errorf("expected 1 remaining, got %d", info.Remaining)
	}
	if !info.ResetTime.After(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Error("reset time should be in the future")
	}
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig(1, 1))

	if ok, _ := l.Allow("a", "/analyze", "POST"); !ok {
		t.Fatal("client a should be allowed")
	}
	if ok, _ := l.Allow("b", "/analyze", "POST"); !ok {
		t.Fatal("client b has its own bucket")
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig(1, 1))

	for i := 0; i < 100; i++ {
		if ok, _ := l.Allow("c", "/health", "GET"); !ok {
			t.Fatalf("health check %d should never be limited", i)
		}
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig(0, 0))

	for i := 0; i < 50; i++ {
		if ok, _ := l.Allow("c", "/analyze", "POST"); !ok {
			t.Fatal("disabled limiter should allow everything")
		}
	}
}

func TestLimiter_Allowlist(t *testing.T) {
	cfg := DefaultConfig(1, 1)
	cfg.Allowlist["127.0.0.1"] = true
	l, _ := newTestLimiter(t, cfg)

	for i := 0; i < 10; i++ {
		if ok, _ := l.Allow("127.0.0.1", "/analyze", "POST"); !ok {
			t.Fatal("allowlisted client should not be limited")
		}
	}
}

func TestLimiter_SweepDropsIdleBuckets(t *testing.T) {
	cfg := DefaultConfig(1, 1)
	cfg.IdleTTL = time.Minute
	l, clock := newTestLimiter(t, cfg)

	l.Allow("old", "/analyze", "POST")
	clock.Advance(2 * time.Minute)
	l.Allow("new", "/analyze", "POST")

	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.buckets) != 1 {
		t.Fatalf("expected 1 bucket after sweep, got %d", len(l.buckets))
	}
	if _, ok := l.buckets["new POST /analyze"]; !ok {
		t.Error("recent bucket should survive the sweep")
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig(1, 10))

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/analyze", "POST"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Errorf("expected exactly the burst of 10 to pass, got %d", allowed)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(DefaultConfig(1, 1))
	l.Stop()
	l.Stop()
}

func TestMatchRule(t *testing.T) {
	rules := []Rule{
		{Method: "POST", Path: "/analyze", Rate: 1},
		{Method: "GET", Path: "/reports/", Rate: 2},
		{Method: "GET", Path: "/reports/special/", Rate: 3},
	}

	tests := []struct {
		path, method string
		want         float64
	}{
		{"/analyze", "POST", 1},
		{"/analyze", "GET", 0},
		{"/reports/abc", "GET", 2},
		{"/reports/special/x", "GET", 3},
		{"/other", "GET", 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchRule(tt.path, tt.method, rules)
			if tt.want == 0 {
				if got != nil {
					t.Errorf("expected no match, got %+v", got)
				}
				return
			}
			if got == nil || got.Rate != tt.want {
				t.Errorf("expected rate %v, got %+v", tt.want, got)
			}
		})
	}
}
