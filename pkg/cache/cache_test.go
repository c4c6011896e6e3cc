package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type quote struct {
	Symbol string  `json:"symbol"`
	Close  float64 `json:"close"`
}

func TestMemoryRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	mc := NewMemoryCache(WithMemoryClock(clk.now))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "q:AAPL", quote{"AAPL", 190.5}, time.Minute))

	var got quote
	require.NoError(t, mc.Get(ctx, "q:AAPL", &got))
	assert.Equal(t, quote{"AAPL", 190.5}, got)

	clk.advance(time.Minute)
	assert.ErrorIs(t, mc.Get(ctx, "q:AAPL", &got), ErrCacheMiss)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Unix(0, 0)}
	mc := NewMemoryCache(WithMemoryMaxSize(2), WithMemoryClock(clk.now))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	clk.advance(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	clk.advance(time.Second)

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v))
	clk.advance(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &v))
	assert.NoError(t, mc.Get(ctx, "c", &v))
}

func TestMemoryTryLock(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Unix(0, 0)}
	mc := NewMemoryCache(WithMemoryClock(clk.now))
	defer mc.Close()

	ok, err := mc.TryLock(ctx, "scan:default", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = mc.TryLock(ctx, "scan:default", time.Minute)
	assert.False(t, ok)

	require.NoError(t, mc.Unlock(ctx, "scan:default"))
	ok, _ = mc.TryLock(ctx, "scan:default", time.Minute)
	assert.True(t, ok)

	clk.advance(2 * time.Minute)
	ok, _ = mc.TryLock(ctx, "scan:default", time.Minute)
	assert.True(t, ok, "expired lock is reclaimable")
}

func TestLayeredPromotesRemoteHits(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote)
	defer lc.Close()

	require.NoError(t, remote.Set(ctx, "k", quote{"MSFT", 410}, time.Hour))

	var got quote
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, "MSFT", got.Symbol)
	assert.Equal(t, 1, lc.memCache.Len())

	require.NoError(t, remote.Delete(ctx, "k"))
	require.NoError(t, lc.Get(ctx, "k", &got), "served from L1")

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "price:AAPL:365", Key("price", " aapl", 365))
	assert.Equal(t, "metrics:AAPL", Key("metrics", "AAPL"))
	assert.Equal(t, "screener:1000000000:0:_:US", Key("screener", 1e9, 0.0, "", "us"))
	assert.Equal(t, "ttl:1m0s", Key("ttl", time.Minute))
}
