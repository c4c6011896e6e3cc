package momentum

import "FinScore/internal/domain/models"

const (
	StrategyScan    = "scan"
	StrategyClassic = "classic"
)

// Strategy holds the trend and volume rules that differ between scoring
// variants. The RSI and MACD rows are shared.
type Strategy struct {
	Name string
	// TrendConfirmed decides the strong tier once price is above the 50-day average.
	TrendConfirmed func(ind models.IndicatorSet) bool
	// VolumeThreshold is the volume ratio that must be exceeded on a rising histogram.
	VolumeThreshold float64
}

// ScanStrategy compares the 50-day average against a slightly discounted 20-day average.
var ScanStrategy = Strategy{
	Name: StrategyScan,
	TrendConfirmed: func(ind models.IndicatorSet) bool {
		return ind.SMA50 > ind.SMA20*0.98
	},
	VolumeThreshold: 1.5,
}

// ClassicStrategy requires the 50-day average above the 200-day average and a
// heavier volume surge. Without 200 bars SMA200 is 0 and the trend is never
// confirmed.
var ClassicStrategy = Strategy{
	Name: StrategyClassic,
	TrendConfirmed: func(ind models.IndicatorSet) bool {
		return ind.SMA200 > 0 && ind.SMA50 > ind.SMA200
	},
	VolumeThreshold: 2.0,
}

func builtinStrategies() map[string]Strategy {
	return map[string]Strategy{
		StrategyScan:    ScanStrategy,
		StrategyClassic: ClassicStrategy,
	}
}
