package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	"FinScore/internal/service/ratelimit"
)

var errUpstream = errors.New("upstream down")

// fakePrices serves a rising series per symbol. Symbols listed in short get
// fewer bars than a scan accepts, symbols in failing return errUpstream and
// symbols in empty return neither a series nor an error.
type fakePrices struct {
	bars    int
	short   map[string]bool
	failing map[string]bool
	empty   map[string]bool

	inflight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (f *fakePrices) GetPriceHistory(_ context.Context, symbol string, _ int) (*models.PriceSeries, error) {
	f.calls.Add(1)
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	if f.failing[symbol] {
		return nil, fmt.Errorf("%s: %w", symbol, errUpstream)
	}
	if f.empty[symbol] {
		return nil, nil
	}
	count := f.bars
	if f.short[symbol] {
		count = 30
	}
	return risingSeries(symbol, count), nil
}

func risingSeries(symbol string, n int) *models.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars}
}

// countingPacer counts waits and never blocks.
type countingPacer struct {
	waits atomic.Int32
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits.Add(1)
	return ctx.Err()
}

func (p *countingPacer) factory() ratelimit.PacerFactory {
	return func() ratelimit.Pacer { return p }
}

type universeMap map[string]models.Universe

func (u universeMap) Universe(id string) (models.Universe, bool) {
	v, ok := u[id]
	return v, ok
}

func (u universeMap) Universes() []models.Universe {
	out := make([]models.Universe, 0, len(u))
	for _, v := range u {
		out = append(out, v)
	}
	return out
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []*models.ScanResponse
	err error
}

func (p *recordingPublisher) PublishScan(_ context.Context, res *models.ScanResponse) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, res)
	return p.err
}

type fakeCandidates struct {
	list   []models.Candidate
	err    error
	filter models.CandidateFilter
}

func (f *fakeCandidates) ScreenCandidates(_ context.Context, filter models.CandidateFilter) ([]models.Candidate, error) {
	f.filter = filter
	return f.list, f.err
}

type fakeFundamentals map[string]*models.FundamentalMetrics

func (f fakeFundamentals) GetFundamentalMetrics(_ context.Context, symbol string) (*models.FundamentalMetrics, error) {
	m, ok := f[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, domrepo.ErrNoData)
	}
	return m, nil
}

type fakeLocker struct {
	mu     sync.Mutex
	held   map[string]bool
	locked []string
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.locked = append(l.locked, key)
	return true, nil
}

func (l *fakeLocker) Unlock(context.Context, string) error { return nil }

func ptr(v float64) *float64 { return &v }
