package usecase

import (
	"context"
	"sync"

	"FinScore/internal/service/ratelimit"
)

// Batcher runs per-symbol work in fixed-size concurrent groups. Groups run one
// after another and a pacer owned by the call is consulted before every group
// but the first.
type Batcher struct {
	size     int
	newPacer ratelimit.PacerFactory
}

func NewBatcher(size int, newPacer ratelimit.PacerFactory) *Batcher {
	if size < 1 {
		size = 1
	}
	if newPacer == nil {
		newPacer = func() ratelimit.Pacer { return ratelimit.Noop{} }
	}
	return &Batcher{size: size, newPacer: newPacer}
}

func (b *Batcher) Size() int { return b.size }

// collect applies fn to every item and keeps the results fn accepted, in input
// order. It only fails when the pacer gives up, typically on cancellation.
func collect[T, R any](ctx context.Context, b *Batcher, items []T, fn func(context.Context, T) (R, bool)) ([]R, error) {
	type slot struct {
		val R
		ok  bool
	}
	slots := make([]slot, len(items))
	pacer := b.newPacer()

	for start := 0; start < len(items); start += b.size {
		if start > 0 {
			if err := pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		end := min(start+b.size, len(items))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, ok := fn(ctx, items[i])
				slots[i] = slot{val: v, ok: ok}
			}(i)
		}
		wg.Wait()
	}

	out := make([]R, 0, len(items))
	for _, s := range slots {
		if s.ok {
			out = append(out, s.val)
		}
	}
	return out, nil
}
