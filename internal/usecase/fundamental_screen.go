package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	domsvc "FinScore/internal/domain/service"
	applogger "FinScore/pkg/logger"
)

const (
	SortByTotal     = "total"
	SortByQuality   = "quality"
	SortByValuation = "valuation"

	defaultScreenLimit = 20
)

// FundamentalScreener ranks screener candidates by their fundamental scores.
type FundamentalScreener struct {
	candidates    domrepo.CandidateSource
	fundamentals  domrepo.FundamentalsProvider
	scorer        domsvc.FundamentalScorer
	batcher       *Batcher
	candidatePool int
	metrics       domrepo.Metrics
	l             *applogger.Logger
}

func NewFundamentalScreener(
	candidates domrepo.CandidateSource,
	fundamentals domrepo.FundamentalsProvider,
	scorer domsvc.FundamentalScorer,
	batcher *Batcher,
	candidatePool int,
	l *applogger.Logger,
	m domrepo.Metrics,
) *FundamentalScreener {
	if l == nil {
		l = applogger.Nop()
	}
	return &FundamentalScreener{
		candidates:    candidates,
		fundamentals:  fundamentals,
		scorer:        scorer,
		batcher:       batcher,
		candidatePool: candidatePool,
		metrics:       m,
		l:             l.With(applogger.String("component", "fundamental_screen")),
	}
}

// ScoreFundamentals scores the candidate pool, sorts by the requested key and
// returns at most req.Limit ranked results.
func (s *FundamentalScreener) ScoreFundamentals(ctx context.Context, req models.ScreenRequest) (*models.ScreenResponse, error) {
	if req.SortBy == "" {
		req.SortBy = SortByTotal
	}
	key, err := sortKey(req.SortBy)
	if err != nil {
		return nil, err
	}
	if req.Limit == 0 {
		req.Limit = defaultScreenLimit
	}
	if req.Limit < 0 || req.MarketCapMin < 0 || req.MarketCapMax < 0 {
		return nil, fmt.Errorf("%w: negative limit or market cap", ErrInvalidRequest)
	}
	if req.MarketCapMax > 0 && req.MarketCapMax < req.MarketCapMin {
		return nil, fmt.Errorf("%w: marketCapMax %.0f below marketCapMin %.0f", ErrInvalidRequest, req.MarketCapMax, req.MarketCapMin)
	}

	start := time.Now()
	pool, err := s.candidates.ScreenCandidates(ctx, models.CandidateFilter{
		MarketCapMin: req.MarketCapMin,
		MarketCapMax: req.MarketCapMax,
		Sector:       req.Sector,
		Country:      req.Country,
		Exchange:     req.Exchange,
		Limit:        max(req.Limit, s.candidatePool),
	})
	if err != nil {
		return nil, fmt.Errorf("screen candidates: %w", err)
	}
	pool = dedupeCandidates(pool)

	results, err := collect(ctx, s.batcher, pool, s.scoreCandidate)
	if err != nil {
		return nil, fmt.Errorf("screen: %w", err)
	}

	RankResults(results, key)
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordScan("fundamentals", len(pool), elapsed.Seconds())
	}
	s.l.Info("fundamental screen done",
		applogger.Int("candidates", len(pool)),
		applogger.Int("stocks", len(results)),
		applogger.String("sort_by", req.SortBy),
		applogger.Duration("duration_ms", elapsed),
	)
	return &models.ScreenResponse{Stocks: results, Total: len(results), Filters: req}, nil
}

func (s *FundamentalScreener) scoreCandidate(ctx context.Context, c models.Candidate) (models.ScreenerResult, bool) {
	m, err := s.fundamentals.GetFundamentalMetrics(ctx, c.Symbol)
	if err != nil || m == nil {
		s.l.Debug("candidate dropped", applogger.String("symbol", c.Symbol), applogger.Error(err))
		if s.metrics != nil {
			s.metrics.RecordDropped("fundamentals", "fetch")
		}
		return models.ScreenerResult{}, false
	}
	metrics := *m
	metrics.Symbol = c.Symbol

	r := s.scorer.Score(metrics)
	r.CompanyName = c.CompanyName
	r.Sector = c.Sector
	r.Exchange = c.Exchange
	r.MarketCap = c.MarketCap
	r.Price = c.Price
	return r, true
}

func sortKey(name string) (func(models.ScreenerResult) int, error) {
	switch name {
	case SortByTotal:
		return func(r models.ScreenerResult) int { return r.TotalScore }, nil
	case SortByQuality:
		return func(r models.ScreenerResult) int { return r.QualityScore }, nil
	case SortByValuation:
		return func(r models.ScreenerResult) int { return r.ValuationScore }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, name)
}

// RankResults sorts by key descending, breaks ties by symbol and assigns
// 1-based ranks by position.
func RankResults(results []models.ScreenerResult, key func(models.ScreenerResult) int) {
	sort.SliceStable(results, func(i, j int) bool {
		ki, kj := key(results[i]), key(results[j])
		if ki != kj {
			return ki > kj
		}
		return results[i].Symbol < results[j].Symbol
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

func dedupeCandidates(in []models.Candidate) []models.Candidate {
	seen := make(map[string]struct{}, len(in))
	out := make([]models.Candidate, 0, len(in))
	for _, c := range in {
		if c.Symbol == "" {
			continue
		}
		if _, ok := seen[c.Symbol]; ok {
			continue
		}
		seen[c.Symbol] = struct{}{}
		out = append(out, c)
	}
	return out
}
