package repository

import (
	"context"
	"errors"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	"FinScore/pkg/cache"
	applogger "FinScore/pkg/logger"
)

var (
	_ domrepo.PriceHistoryProvider = (*CachedProvider)(nil)
	_ domrepo.FundamentalsProvider = (*CachedProvider)(nil)
	_ domrepo.CandidateSource      = (*CachedProvider)(nil)
)

// CacheTTL sets how long each response kind stays cached.
type CacheTTL struct {
	Price      time.Duration
	Metrics    time.Duration
	Candidates time.Duration
}

// CachedProvider puts a cache in front of the data collaborator.
type CachedProvider struct {
	prices     domrepo.PriceHistoryProvider
	metrics    domrepo.FundamentalsProvider
	candidates domrepo.CandidateSource
	cache      cache.Service
	ttl        CacheTTL
	l          *applogger.Logger
	rec        domrepo.Metrics
}

func NewCachedProvider(
	prices domrepo.PriceHistoryProvider,
	metrics domrepo.FundamentalsProvider,
	candidates domrepo.CandidateSource,
	c cache.Service,
	ttl CacheTTL,
	l *applogger.Logger,
	rec domrepo.Metrics,
) *CachedProvider {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedProvider{
		prices:     prices,
		metrics:    metrics,
		candidates: candidates,
		cache:      c,
		ttl:        ttl,
		l:          l,
		rec:        rec,
	}
}

func (p *CachedProvider) GetPriceHistory(ctx context.Context, symbol string, lookbackDays int) (*models.PriceSeries, error) {
	key := cache.Key("price", symbol, lookbackDays)
	var s models.PriceSeries
	if p.lookup(ctx, "price", key, &s) {
		return &s, nil
	}
	out, err := p.prices.GetPriceHistory(ctx, symbol, lookbackDays)
	if err != nil || out == nil {
		return out, err
	}
	p.store(ctx, key, out, p.ttl.Price)
	return out, nil
}

func (p *CachedProvider) GetFundamentalMetrics(ctx context.Context, symbol string) (*models.FundamentalMetrics, error) {
	key := cache.Key("metrics", symbol)
	var m models.FundamentalMetrics
	if p.lookup(ctx, "metrics", key, &m) {
		return &m, nil
	}
	out, err := p.metrics.GetFundamentalMetrics(ctx, symbol)
	if err != nil || out == nil {
		return out, err
	}
	p.store(ctx, key, out, p.ttl.Metrics)
	return out, nil
}

func (p *CachedProvider) ScreenCandidates(ctx context.Context, f models.CandidateFilter) ([]models.Candidate, error) {
	key := cache.Key("screener", f.MarketCapMin, f.MarketCapMax, f.Sector, f.Country, f.Exchange, f.Limit)
	var out []models.Candidate
	if p.lookup(ctx, "candidates", key, &out) {
		return out, nil
	}
	out, err := p.candidates.ScreenCandidates(ctx, f)
	if err != nil {
		return nil, err
	}
	p.store(ctx, key, out, p.ttl.Candidates)
	return out, nil
}

func (p *CachedProvider) lookup(ctx context.Context, kind, key string, dest interface{}) bool {
	err := p.cache.Get(ctx, key, dest)
	hit := err == nil
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		p.l.Warn("cache get failed", applogger.String("key", key), applogger.Error(err))
	}
	if p.rec != nil {
		p.rec.RecordCache(kind, hit)
	}
	return hit
}

func (p *CachedProvider) store(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := p.cache.Set(ctx, key, v, ttl); err != nil {
		p.l.Warn("cache set failed", applogger.String("key", key), applogger.Error(err))
	}
}
