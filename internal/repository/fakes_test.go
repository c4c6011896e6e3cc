package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
)

type fakePrices struct {
	mu     sync.Mutex
	calls  int
	series map[string]*models.PriceSeries
	err    error
}

func (f *fakePrices) GetPriceHistory(_ context.Context, symbol string, _ int) (*models.PriceSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.series[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, domrepo.ErrNoData)
	}
	return s, nil
}

type fakeArchive struct {
	fakePrices
	saved   []*models.PriceSeries
	saveErr error
}

func (f *fakeArchive) SaveBars(_ context.Context, s *models.PriceSeries) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return f.saveErr
}

type fakeFundamentals struct {
	calls int
}

func (f *fakeFundamentals) GetFundamentalMetrics(_ context.Context, symbol string) (*models.FundamentalMetrics, error) {
	f.calls++
	pe := 12.0
	return &models.FundamentalMetrics{Symbol: symbol, PERatio: &pe}, nil
}

type fakeCandidates struct {
	calls int
}

func (f *fakeCandidates) ScreenCandidates(_ context.Context, _ models.CandidateFilter) ([]models.Candidate, error) {
	f.calls++
	return []models.Candidate{{Symbol: "AAPL"}, {Symbol: "MSFT"}}, nil
}

type fakePublisher struct {
	topic string
	key   []byte
	value interface{}
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	f.topic, f.key, f.value = topic, key, value
	return f.err
}

type scanSink struct {
	got []*models.ScanResponse
	err error
}

func (s *scanSink) PublishScan(_ context.Context, res *models.ScanResponse) error {
	s.got = append(s.got, res)
	return s.err
}

func dailySeries(symbol string, n int, last time.Time) *models.PriceSeries {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		bars[i] = models.PriceBar{
			Date:   last.AddDate(0, 0, i-n+1),
			Open:   100,
			High:   100,
			Low:    100,
			Close:  100 + float64(i),
			Volume: 1000,
		}
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars}
}

var errBoom = errors.New("boom")
