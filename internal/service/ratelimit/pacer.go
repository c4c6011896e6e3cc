package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer gates the start of successive batches against an upstream provider.
type Pacer interface {
	Wait(ctx context.Context) error
}

// PacerFactory hands every batch job its own Pacer so concurrent jobs never
// throttle each other.
type PacerFactory func() Pacer

// TokenBucket pauses a full interval on every Wait, however long the caller
// worked since the previous one. It belongs to a single batch job.
type TokenBucket struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewTokenBucket builds a pacer. A non-positive interval disables pacing.
func NewTokenBucket(interval time.Duration) *TokenBucket {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &TokenBucket{limiter: rate.NewLimiter(limit, 1), now: time.Now}
}

// TokenBuckets returns a factory of fresh buckets with the given interval.
func TokenBuckets(interval time.Duration) PacerFactory {
	return func() Pacer { return NewTokenBucket(interval) }
}

func (t *TokenBucket) Wait(ctx context.Context) error {
	if t.limiter.Limit() == rate.Inf {
		return ctx.Err()
	}
	t.drain(t.now())
	return t.limiter.Wait(ctx)
}

// drain empties the bucket so the next token is one interval away. A zero
// burst clamps the refilled tokens to zero on the following update.
func (t *TokenBucket) drain(now time.Time) {
	t.limiter.SetBurstAt(now, 0)
	t.limiter.SetBurstAt(now, 1)
}

// Noop never delays.
type Noop struct{}

func (Noop) Wait(ctx context.Context) error { return ctx.Err() }

var (
	_ Pacer = (*TokenBucket)(nil)
	_ Pacer = Noop{}
)
