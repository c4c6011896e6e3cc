package momentum

import (
	"math"
	"testing"
	"time"

	"FinScore/internal/domain/models"
	"FinScore/internal/services/indicators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func growthSeries(n int, rate float64) *models.PriceSeries {
	s := &models.PriceSeries{Symbol: "GROW"}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := 100 * math.Pow(1+rate, float64(i))
		s.Bars = append(s.Bars, models.PriceBar{Date: start.AddDate(0, 0, i), Close: c, Volume: 1000})
	}
	return s
}

func TestNewComposer(t *testing.T) {
	c, err := NewComposer("")
	require.NoError(t, err)
	assert.Equal(t, StrategyScan, c.DefaultStrategy())

	c, err = NewComposer(StrategyClassic)
	require.NoError(t, err)
	assert.Equal(t, StrategyClassic, c.DefaultStrategy())

	_, err = NewComposer("bogus")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestComposer_Score(t *testing.T) {
	c, err := NewComposer(StrategyScan)
	require.NoError(t, err)

	series := growthSeries(80, 0.01)
	sig, err := c.Score(series, "")
	require.NoError(t, err)

	last := series.Bars[len(series.Bars)-1].Close
	assert.Equal(t, "GROW", sig.Symbol)
	assert.Equal(t, "GROW", sig.Name)
	assert.Equal(t, last, sig.Price)
	assert.Equal(t, last, sig.EntryPrice)
	assert.InDelta(t, 1.0, sig.ChangePercent, 0.005)

	// overbought RSI, rising MACD, price above a 50-day average that trails the 20-day
	assert.Equal(t, 55, sig.Strength)
	assert.Equal(t, models.SignalHold, sig.Signal)
	assert.Equal(t, []string{"MACD bullish", "Above 50-MA"}, sig.BullishSignals)
	assert.Equal(t, []string{"RSI overbought"}, sig.BearishSignals)

	plan := PlanTrade(last, sig.Strength)
	assert.Equal(t, plan.TargetPrice, sig.TargetPrice)
	assert.Equal(t, plan.StopLoss, sig.StopLoss)
	assert.Equal(t, 10, sig.PotentialGain)
	assert.Equal(t, 1.3, sig.RiskReward)
}

func TestComposer_ScoreErrors(t *testing.T) {
	c, err := NewComposer("")
	require.NoError(t, err)

	_, err = c.Score(growthSeries(60, 0.01), "nope")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = c.Score(&models.PriceSeries{Symbol: "EMPTY"}, "")
	assert.ErrorIs(t, err, indicators.ErrInsufficientData)
}

func TestComposer_StrengthAlwaysClassified(t *testing.T) {
	c, err := NewComposer("")
	require.NoError(t, err)
	for _, rate := range []float64{-0.02, -0.005, 0.003, 0.02} {
		for _, name := range []string{StrategyScan, StrategyClassic} {
			sig, err := c.Score(growthSeries(220, rate), name)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, sig.Strength, 0)
			assert.LessOrEqual(t, sig.Strength, 100)
			assert.Equal(t, Classify(sig.Strength), sig.Signal)
		}
	}
}
