package momentum

import (
	"math"

	"FinScore/internal/services/indicators"
)

// StopLossPct is the fixed stop distance below entry.
const StopLossPct = 0.08

// TradePlan holds exits derived from the entry price and strength.
type TradePlan struct {
	TargetPrice   float64
	StopLoss      float64
	PotentialGain int
	RiskReward    float64
}

// TargetPct scales the profit target with conviction.
func TargetPct(strength int) float64 {
	switch {
	case strength >= 70:
		return 0.20
	case strength >= 60:
		return 0.15
	default:
		return 0.10
	}
}

// PlanTrade derives target, stop and reward ratio for an entry at price.
func PlanTrade(price float64, strength int) TradePlan {
	target := TargetPct(strength)
	return TradePlan{
		TargetPrice:   indicators.Round(price*(1+target), 2),
		StopLoss:      indicators.Round(price*(1-StopLossPct), 2),
		PotentialGain: int(math.Round(target * 100)),
		RiskReward:    indicators.Round(target/StopLossPct, 1),
	}
}
