package service

import "FinScore/internal/domain/models"

// MomentumScorer turns a price history into a momentum signal.
type MomentumScorer interface {
	Score(series *models.PriceSeries, strategy string) (models.MomentumSignal, error)
}

// FundamentalScorer turns fundamental ratios into quality and valuation scores.
type FundamentalScorer interface {
	Score(m models.FundamentalMetrics) models.ScreenerResult
}
