package momentum

import (
	"errors"
	"fmt"

	"FinScore/internal/domain/models"
	"FinScore/internal/domain/service"
	"FinScore/internal/services/indicators"
)

var ErrUnknownStrategy = errors.New("unknown momentum strategy")

// Composer scores price histories into momentum signals.
type Composer struct {
	strategies map[string]Strategy
	fallback   string
}

// NewComposer returns a composer whose empty strategy name resolves to defaultStrategy.
func NewComposer(defaultStrategy string) (*Composer, error) {
	c := &Composer{strategies: builtinStrategies(), fallback: StrategyScan}
	if defaultStrategy != "" {
		if _, ok := c.strategies[defaultStrategy]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, defaultStrategy)
		}
		c.fallback = defaultStrategy
	}
	return c, nil
}

// Strategy resolves a strategy by name.
func (c *Composer) Strategy(name string) (Strategy, error) {
	if name == "" {
		name = c.fallback
	}
	st, ok := c.strategies[name]
	if !ok {
		return Strategy{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return st, nil
}

// DefaultStrategy is the name used when a request does not pick one.
func (c *Composer) DefaultStrategy() string { return c.fallback }

// Score computes the indicators of series and composes the signal. The series
// must hold at least one bar.
func (c *Composer) Score(series *models.PriceSeries, strategy string) (models.MomentumSignal, error) {
	st, err := c.Strategy(strategy)
	if err != nil {
		return models.MomentumSignal{}, err
	}
	last, ok := series.Last()
	if !ok {
		return models.MomentumSignal{}, indicators.ErrInsufficientData
	}

	ind := indicators.Compute(series)
	ev := Evaluate(last.Close, ind, st)
	plan := PlanTrade(last.Close, ev.Strength)
	change, changePct := indicators.PriceChange(series.Closes())

	return models.MomentumSignal{
		Symbol:         series.Symbol,
		Name:           series.DisplayName(),
		Price:          last.Close,
		Change:         change,
		ChangePercent:  changePct,
		Signal:         Classify(ev.Strength),
		Strength:       ev.Strength,
		EntryPrice:     last.Close,
		TargetPrice:    plan.TargetPrice,
		StopLoss:       plan.StopLoss,
		PotentialGain:  plan.PotentialGain,
		RiskReward:     plan.RiskReward,
		BullishSignals: ev.Bullish,
		BearishSignals: ev.Bearish,
	}, nil
}

var _ service.MomentumScorer = (*Composer)(nil)
