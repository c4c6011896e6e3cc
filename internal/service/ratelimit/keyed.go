package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// KeyedLimiter keeps one token bucket per key, e.g. per client address.
// Buckets idle for longer than the idle window are dropped.
type KeyedLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
	m         map[string]*entry
}

// KeyedOption configures KeyedLimiter.
type KeyedOption func(*KeyedLimiter)

// WithIdleTimeout sets how long an unused bucket is kept.
func WithIdleTimeout(d time.Duration) KeyedOption {
	return func(k *KeyedLimiter) {
		if d > 0 {
			k.idle = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) KeyedOption {
	return func(k *KeyedLimiter) { k.now = now }
}

// NewKeyed allows perSecond requests per key with the given burst.
func NewKeyed(perSecond float64, burst int, opts ...KeyedOption) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	k := &KeyedLimiter{
		limit: rate.Limit(perSecond),
		burst: burst,
		idle:  10 * time.Minute,
		now:   time.Now,
		m:     make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(k)
	}
	k.lastSweep = k.now()
	return k
}

// Allow reports whether one request for key may proceed now.
func (k *KeyedLimiter) Allow(key string) bool {
	now := k.now()

	k.mu.Lock()
	if now.Sub(k.lastSweep) >= k.idle {
		for stale, e := range k.m {
			if now.Sub(e.seen) >= k.idle {
				delete(k.m, stale)
			}
		}
		k.lastSweep = now
	}
	e, ok := k.m[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.m[key] = e
	}
	e.seen = now
	k.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.m)
}
