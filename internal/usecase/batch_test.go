package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"FinScore/internal/service/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectKeepsInputOrder(t *testing.T) {
	pacer := &countingPacer{}
	items := []int{1, 2, 3, 4, 5, 6, 7}

	out, err := collect(context.Background(), NewBatcher(5, pacer.factory()), items, func(_ context.Context, v int) (int, bool) {
		return v * 10, v%3 != 0
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 40, 50, 70}, out)
	assert.Equal(t, int32(1), pacer.waits.Load())
}

func TestCollectSingleGroupNeverWaits(t *testing.T) {
	pacer := &countingPacer{}
	_, err := collect(context.Background(), NewBatcher(5, pacer.factory()), []int{1, 2, 3, 4, 5}, func(_ context.Context, v int) (int, bool) {
		return v, true
	})
	require.NoError(t, err)
	assert.Zero(t, pacer.waits.Load())
}

func TestNewBatcherDefaults(t *testing.T) {
	b := NewBatcher(0, nil)
	assert.Equal(t, 1, b.Size())
	out, err := collect(context.Background(), b, []string{"a", "b"}, func(_ context.Context, s string) (string, bool) {
		return s, true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)
}

// groupStarts runs 11 items in groups of 5 and returns when each item began,
// relative to the call.
func groupStarts(t *testing.T, b *Batcher, work time.Duration) []time.Duration {
	t.Helper()
	var mu sync.Mutex
	var starts []time.Duration
	begin := time.Now()

	items := make([]int, 11)
	_, err := collect(context.Background(), b, items, func(_ context.Context, v int) (int, bool) {
		mu.Lock()
		starts = append(starts, time.Since(begin))
		mu.Unlock()
		time.Sleep(work)
		return v, true
	})
	require.NoError(t, err)
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	return starts
}

func TestCollectPausesBetweenGroups(t *testing.T) {
	const interval = 40 * time.Millisecond
	const slack = 5 * time.Millisecond
	b := NewBatcher(5, ratelimit.TokenBuckets(interval))

	// groups that outlast the interval still get a full pause afterwards
	for _, work := range []time.Duration{10 * time.Millisecond, 60 * time.Millisecond} {
		starts := groupStarts(t, b, work)
		require.Len(t, starts, 11)
		assert.GreaterOrEqual(t, starts[5]-starts[4], work+interval-slack, "group 2 after %s work", work)
		assert.GreaterOrEqual(t, starts[10]-starts[9], work+interval-slack, "group 3 after %s work", work)
	}
}

func TestCollectPacersAreIndependentPerCall(t *testing.T) {
	const interval = 80 * time.Millisecond
	b := NewBatcher(5, ratelimit.TokenBuckets(interval))
	items := make([]int, 6)

	var wg sync.WaitGroup
	begin := time.Now()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := collect(context.Background(), b, items, func(_ context.Context, v int) (int, bool) {
				return v, true
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// sharing one bucket would serialise the four pauses
	assert.Less(t, time.Since(begin), 3*interval)
}
