package repository

import (
	"context"
	"errors"

	"FinScore/internal/domain/models"
)

// ErrNoData is returned by providers when a symbol has nothing to serve.
var ErrNoData = errors.New("no data for symbol")

// PriceHistoryProvider returns the daily history of a symbol, oldest bar first.
type PriceHistoryProvider interface {
	GetPriceHistory(ctx context.Context, symbol string, lookbackDays int) (*models.PriceSeries, error)
}

// FundamentalsProvider returns trailing fundamental ratios of a symbol.
type FundamentalsProvider interface {
	GetFundamentalMetrics(ctx context.Context, symbol string) (*models.FundamentalMetrics, error)
}

// CandidateSource lists companies matching coarse screener filters.
type CandidateSource interface {
	ScreenCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.Candidate, error)
}

// BarStore archives daily bars.
type BarStore interface {
	PriceHistoryProvider
	SaveBars(ctx context.Context, series *models.PriceSeries) error
}

// UniverseStore resolves named symbol lists.
type UniverseStore interface {
	Universe(id string) (models.Universe, bool)
	Universes() []models.Universe
}

// ScanPublisher delivers finished scans to downstream consumers.
type ScanPublisher interface {
	PublishScan(ctx context.Context, res *models.ScanResponse) error
}

type Metrics interface {
	RecordScan(kind string, symbols int, seconds float64)
	RecordDropped(kind, reason string)
	RecordSignal(signal string)
	RecordFetch(source string, seconds float64, err error)
	RecordCache(kind string, hit bool)
	RecordError(kind string)
}
