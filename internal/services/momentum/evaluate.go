package momentum

import (
	"fmt"
	"math"

	"FinScore/internal/domain/models"
)

const baseScore = 50.0

// Evaluation is the outcome of the additive scoring rules.
type Evaluation struct {
	Strength int
	Bullish  []string
	Bearish  []string
}

// Evaluate applies the RSI, MACD, trend and volume rows to the indicators.
// Each row reads the indicators directly, never the partial score.
func Evaluate(price float64, ind models.IndicatorSet, st Strategy) Evaluation {
	score := baseScore
	ev := Evaluation{Bullish: []string{}, Bearish: []string{}}

	switch {
	case ind.RSI < 30:
		score += 15
		ev.Bullish = append(ev.Bullish, "RSI oversold")
	case ind.RSI < 40:
		score += 10
		ev.Bullish = append(ev.Bullish, "RSI near oversold")
	case ind.RSI > 70:
		score -= 15
		ev.Bearish = append(ev.Bearish, "RSI overbought")
	case ind.RSI > 60:
		score -= 5
		ev.Bearish = append(ev.Bearish, "RSI elevated")
	}

	switch {
	case ind.Histogram > 0 && ind.MACD > ind.MACDSignal:
		score += 15
		ev.Bullish = append(ev.Bullish, "MACD bullish")
	case ind.Histogram > 0:
		score += 8
		ev.Bullish = append(ev.Bullish, "MACD histogram positive")
	case ind.Histogram < 0 && ind.MACD < ind.MACDSignal:
		score -= 15
		ev.Bearish = append(ev.Bearish, "MACD bearish")
	case ind.Histogram < 0:
		score -= 8
		ev.Bearish = append(ev.Bearish, "MACD histogram negative")
	}

	switch {
	case price > ind.SMA50 && st.TrendConfirmed(ind):
		score += 10
		ev.Bullish = append(ev.Bullish, "Strong uptrend")
	case price > ind.SMA50:
		score += 5
		ev.Bullish = append(ev.Bullish, "Above 50-MA")
	case price < ind.SMA50:
		score -= 10
		ev.Bearish = append(ev.Bearish, "Below 50-MA")
	}

	if ind.VolumeRatio > st.VolumeThreshold && ind.Histogram > 0 {
		score += 10
		ev.Bullish = append(ev.Bullish, fmt.Sprintf("Volume %.1fx", ind.VolumeRatio))
	}

	ev.Strength = clampStrength(score)
	return ev
}

func clampStrength(score float64) int {
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// Classify maps a strength score onto a signal category.
func Classify(strength int) models.SignalType {
	switch {
	case strength >= 75:
		return models.SignalStrongBuy
	case strength >= 60:
		return models.SignalBuy
	case strength <= 25:
		return models.SignalStrongSell
	case strength <= 40:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}
