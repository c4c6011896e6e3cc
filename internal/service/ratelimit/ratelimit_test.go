package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	require.NoError(t, Noop{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Noop{}.Wait(ctx), context.Canceled)
}

func TestTokenBucket_Disabled(t *testing.T) {
	tb := NewTokenBucket(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, tb.Wait(context.Background()))
	}
}

func TestTokenBucket_CanceledContext(t *testing.T) {
	tb := NewTokenBucket(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, tb.Wait(ctx))
}

func TestTokenBucket_ExceedsDeadline(t *testing.T) {
	tb := NewTokenBucket(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	// the next token is an hour away, so Wait fails fast instead of sleeping
	assert.Error(t, tb.Wait(ctx))
}

func TestTokenBucket_PausesFullIntervalEveryWait(t *testing.T) {
	const interval = 30 * time.Millisecond
	tb := NewTokenBucket(interval)

	// a fresh bucket and a caller that worked longer than the interval both
	// still pause a full interval
	for _, work := range []time.Duration{0, 2 * interval, interval / 3} {
		time.Sleep(work)
		start := time.Now()
		require.NoError(t, tb.Wait(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), interval-2*time.Millisecond)
	}
}

func TestTokenBucketsAreIndependent(t *testing.T) {
	newPacer := TokenBuckets(time.Hour)
	a, b := newPacer(), newPacer()
	assert.NotSame(t, a, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, a.Wait(ctx))
	assert.Error(t, b.Wait(ctx))
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestKeyedLimiter_PerKeyBuckets(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	k := NewKeyed(1, 2, WithClock(clock.now))

	assert.True(t, k.Allow("a"))
	assert.True(t, k.Allow("a"))
	assert.False(t, k.Allow("a"))
	assert.True(t, k.Allow("b"))

	clock.advance(time.Second)
	assert.True(t, k.Allow("a"))
	assert.False(t, k.Allow("a"))
	assert.Equal(t, 2, k.Len())
}

func TestKeyedLimiter_EvictsIdle(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	k := NewKeyed(1, 1, WithClock(clock.now), WithIdleTimeout(time.Minute))

	k.Allow("a")
	k.Allow("b")
	assert.Equal(t, 2, k.Len())

	clock.advance(2 * time.Minute)
	assert.True(t, k.Allow("c"))
	assert.Equal(t, 1, k.Len())
}
