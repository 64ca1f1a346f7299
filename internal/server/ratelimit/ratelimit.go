// Package ratelimit throttles expensive requests per client using token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one bucket per client, method and path.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter and starts its idle-bucket sweeper.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig(0, 0)
	}
	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.sweepLoop(config.CleanupInterval)
	}
	return l
}

// Allow consumes a token for the client if one is available.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Allowlist[clientID] {
		return true, Info{Allowed: true}
	}

	rule := MatchRule(path, method, l.config.Rules)
	if rule == nil {
		rule = &l.config.Default
	}
	if rule.Rate <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucketFor(clientID+" "+method+" "+path, rule, now)

	info := Info{Limit: b.lim.Burst()}
	res := b.lim.ReserveN(now, 1)
	if delay := res.DelayFrom(now); !res.OK() || delay > 0 {
		res.CancelAt(now)
		info.RetryAfter = delay
		info.ResetTime = now.Add(delay)
		return false, info
	}

	tokens := b.lim.TokensAt(now)
	info.Allowed = true
	info.Remaining = int(math.Max(0, math.Floor(tokens)))
	missing := float64(b.lim.Burst()) - tokens
	info.ResetTime = now.Add(time.Duration(missing / rule.Rate * float64(time.Second)))
	return true, info
}

func (l *Limiter) bucketFor(key string, rule *Rule, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := rule.Burst
		if burst <= 0 {
			burst = 1
		}
		b = &bucket{lim: rate.NewLimiter(rate.Limit(rule.Rate), burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

func (l *Limiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets idle for longer than IdleTTL.
func (l *Limiter) sweep() {
	ttl := l.config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the sweeper. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
