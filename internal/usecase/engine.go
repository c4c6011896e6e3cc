package usecase

import (
	"context"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
)

// Engine bundles the operations exposed to the transports.
type Engine struct {
	Scanner    *MomentumScanner
	Screener   *FundamentalScreener
	Indicators *IndicatorService
	Universes  domrepo.UniverseStore
}

func NewEngine(scanner *MomentumScanner, screener *FundamentalScreener, ind *IndicatorService, universes domrepo.UniverseStore) *Engine {
	return &Engine{Scanner: scanner, Screener: screener, Indicators: ind, Universes: universes}
}

func (e *Engine) ScanMomentum(ctx context.Context, req models.ScanRequest) (*models.ScanResponse, error) {
	return e.Scanner.ScanMomentum(ctx, req)
}

func (e *Engine) ScoreFundamentals(ctx context.Context, req models.ScreenRequest) (*models.ScreenResponse, error) {
	return e.Screener.ScoreFundamentals(ctx, req)
}

func (e *Engine) ComputeIndicators(ctx context.Context, req models.IndicatorsRequest) (*models.IndicatorsResult, error) {
	return e.Indicators.ComputeIndicators(ctx, req)
}

func (e *Engine) ListUniverses() []models.Universe {
	return e.Universes.Universes()
}
