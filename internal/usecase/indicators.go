package usecase

import (
	"context"
	"fmt"
	"strings"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	"FinScore/internal/services/indicators"
	applogger "FinScore/pkg/logger"
)

// IndicatorService evaluates the indicator snapshot of one series.
type IndicatorService struct {
	prices       domrepo.PriceHistoryProvider
	lookbackDays int
	l            *applogger.Logger
}

func NewIndicatorService(prices domrepo.PriceHistoryProvider, lookbackDays int, l *applogger.Logger) *IndicatorService {
	if l == nil {
		l = applogger.Nop()
	}
	return &IndicatorService{prices: prices, lookbackDays: lookbackDays, l: l}
}

// ComputeIndicators uses the inline series when one is given, otherwise it
// fetches the symbol's history.
func (s *IndicatorService) ComputeIndicators(ctx context.Context, req models.IndicatorsRequest) (*models.IndicatorsResult, error) {
	series := req.Series
	if series == nil {
		symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
		if symbol == "" {
			return nil, fmt.Errorf("%w: symbol or series required", ErrInvalidRequest)
		}
		lookback := req.LookbackDays
		if lookback <= 0 {
			lookback = s.lookbackDays
		}
		var err error
		series, err = s.prices.GetPriceHistory(ctx, symbol, lookback)
		if err != nil {
			return nil, fmt.Errorf("price history %s: %w", symbol, err)
		}
		if series == nil {
			return nil, fmt.Errorf("price history %s: %w", symbol, indicators.ErrMalformedSeries)
		}
		if series.Symbol == "" {
			series.Symbol = symbol
		}
	}

	if err := indicators.ValidateSeries(series, 1); err != nil {
		return nil, err
	}
	last, _ := series.Last()

	s.l.Debug("indicators computed",
		applogger.String("symbol", series.Symbol),
		applogger.Int("bars", len(series.Bars)),
	)
	return &models.IndicatorsResult{
		Symbol:     series.Symbol,
		Bars:       len(series.Bars),
		Price:      last.Close,
		Indicators: indicators.Compute(series),
	}, nil
}
