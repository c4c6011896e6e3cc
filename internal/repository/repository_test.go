package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	"FinScore/pkg/cache"
	"FinScore/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

func newArchived(archive *fakeArchive, upstream *fakePrices) *ArchivedPriceProvider {
	p := NewArchivedPriceProvider(archive, upstream, 96*time.Hour, nil, nil)
	p.now = func() time.Time { return today.Add(20 * time.Hour) }
	return p
}

func TestArchivedServesFreshCompleteArchive(t *testing.T) {
	archive := &fakeArchive{fakePrices: fakePrices{series: map[string]*models.PriceSeries{
		"AAPL": dailySeries("AAPL", 60, today),
	}}}
	upstream := &fakePrices{}

	s, err := newArchived(archive, upstream).GetPriceHistory(context.Background(), "AAPL", 60)
	require.NoError(t, err)
	assert.Len(t, s.Bars, 60)
	assert.Zero(t, upstream.calls)
}

func TestArchivedRefetchesShortOrStaleArchive(t *testing.T) {
	tests := []struct {
		name string
		arch *models.PriceSeries
	}{
		{"short", dailySeries("AAPL", 30, today)},
		{"stale", dailySeries("AAPL", 60, today.AddDate(0, 0, -10))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := &fakeArchive{fakePrices: fakePrices{series: map[string]*models.PriceSeries{"AAPL": tt.arch}}}
			fresh := dailySeries("AAPL", 60, today)
			upstream := &fakePrices{series: map[string]*models.PriceSeries{"AAPL": fresh}}

			s, err := newArchived(archive, upstream).GetPriceHistory(context.Background(), "AAPL", 60)
			require.NoError(t, err)
			assert.Same(t, fresh, s)
			assert.Equal(t, 1, upstream.calls)
			require.Len(t, archive.saved, 1)
			assert.Same(t, fresh, archive.saved[0])
		})
	}
}

func TestArchivedFallsBackWhenUpstreamFails(t *testing.T) {
	stale := dailySeries("AAPL", 60, today.AddDate(0, 0, -10))
	archive := &fakeArchive{fakePrices: fakePrices{series: map[string]*models.PriceSeries{"AAPL": stale}}}
	upstream := &fakePrices{err: errBoom}

	s, err := newArchived(archive, upstream).GetPriceHistory(context.Background(), "AAPL", 60)
	require.NoError(t, err)
	assert.Same(t, stale, s)

	_, err = newArchived(&fakeArchive{}, upstream).GetPriceHistory(context.Background(), "MSFT", 60)
	assert.ErrorIs(t, err, errBoom)
}

func TestArchivedIgnoresWriteFailures(t *testing.T) {
	archive := &fakeArchive{saveErr: errBoom}
	fresh := dailySeries("AAPL", 60, today)
	upstream := &fakePrices{series: map[string]*models.PriceSeries{"AAPL": fresh}}

	s, err := newArchived(archive, upstream).GetPriceHistory(context.Background(), "AAPL", 60)
	require.NoError(t, err)
	assert.Same(t, fresh, s)
}

func TestCachedProviderCachesEachKind(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	defer mc.Close()

	prices := &fakePrices{series: map[string]*models.PriceSeries{"AAPL": dailySeries("AAPL", 5, today)}}
	funds := &fakeFundamentals{}
	cands := &fakeCandidates{}
	p := NewCachedProvider(prices, funds, cands, mc, CacheTTL{Price: time.Minute, Metrics: time.Minute, Candidates: time.Minute}, nil, nil)

	for i := 0; i < 2; i++ {
		s, err := p.GetPriceHistory(ctx, "AAPL", 5)
		require.NoError(t, err)
		assert.Len(t, s.Bars, 5)
		assert.True(t, s.Bars[0].Date.Equal(today.AddDate(0, 0, -4)))

		m, err := p.GetFundamentalMetrics(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, 12.0, *m.PERatio)

		c, err := p.ScreenCandidates(ctx, models.CandidateFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, c, 2)
	}
	assert.Equal(t, 1, prices.calls)
	assert.Equal(t, 1, funds.calls)
	assert.Equal(t, 1, cands.calls)
}

func TestCachedProviderDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	defer mc.Close()

	prices := &fakePrices{series: map[string]*models.PriceSeries{}}
	p := NewCachedProvider(prices, nil, nil, mc, CacheTTL{Price: time.Minute}, nil, nil)

	for i := 0; i < 2; i++ {
		_, err := p.GetPriceHistory(ctx, "NOPE", 5)
		assert.True(t, errors.Is(err, domrepo.ErrNoData))
	}
	assert.Equal(t, 2, prices.calls)
}

func TestCachedProviderPassesThroughNilSeries(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	defer mc.Close()

	prices := &fakePrices{series: map[string]*models.PriceSeries{"VOID": nil}}
	p := NewCachedProvider(prices, nil, nil, mc, CacheTTL{Price: time.Minute}, nil, nil)

	for i := 0; i < 2; i++ {
		s, err := p.GetPriceHistory(ctx, "VOID", 5)
		require.NoError(t, err)
		assert.Nil(t, s)
	}
	assert.Equal(t, 2, prices.calls)

	var cached models.PriceSeries
	assert.ErrorIs(t, mc.Get(ctx, cache.Key("price", "VOID", 5), &cached), cache.ErrCacheMiss)
}

func TestArchivedToleratesNilArchiveSeries(t *testing.T) {
	archive := &fakeArchive{fakePrices: fakePrices{series: map[string]*models.PriceSeries{"AAPL": nil}}}
	upstream := &fakePrices{err: errBoom}

	_, err := newArchived(archive, upstream).GetPriceHistory(context.Background(), "AAPL", 60)
	assert.ErrorIs(t, err, errBoom)
}

func TestKafkaScanPublisher(t *testing.T) {
	fp := &fakePublisher{}
	res := &models.ScanResponse{ScanID: "scan-1"}
	require.NoError(t, NewKafkaScanPublisher(fp, "results").PublishScan(context.Background(), res))
	assert.Equal(t, "results", fp.topic)
	assert.Equal(t, []byte("scan-1"), fp.key)
	assert.Same(t, res, fp.value)

	fp.err = errBoom
	assert.ErrorIs(t, NewKafkaScanPublisher(fp, "results").PublishScan(context.Background(), res), errBoom)
}

func TestMultiScanPublisherTriesEverySink(t *testing.T) {
	a, b := &scanSink{err: errBoom}, &scanSink{}
	err := MultiScanPublisher{a, nil, b}.PublishScan(context.Background(), &models.ScanResponse{ScanID: "x"})
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}

func TestConfigUniverseStore(t *testing.T) {
	s := NewConfigUniverseStore(map[string]config.UniverseConfig{
		"tech":    {Name: "Tech", Symbols: []string{" aapl", "MSFT", ""}},
		"default": {Symbols: []string{"SPY"}},
	})

	u, ok := s.Universe("tech")
	require.True(t, ok)
	assert.Equal(t, []string{"AAPL", "MSFT"}, u.Symbols)

	all := s.Universes()
	require.Len(t, all, 2)
	assert.Equal(t, "default", all[0].ID)
	assert.Equal(t, "default", all[0].Name)

	_, ok = s.Universe("missing")
	assert.False(t, ok)
}
