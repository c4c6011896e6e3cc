package momentum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanTrade(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		strength int
		want     TradePlan
	}{
		{"strong", 100, 80, TradePlan{TargetPrice: 120, StopLoss: 92, PotentialGain: 20, RiskReward: 2.5}},
		{"boundary 70", 100, 70, TradePlan{TargetPrice: 120, StopLoss: 92, PotentialGain: 20, RiskReward: 2.5}},
		{"buy", 100, 65, TradePlan{TargetPrice: 115, StopLoss: 92, PotentialGain: 15, RiskReward: 1.9}},
		{"hold", 57.33, 50, TradePlan{TargetPrice: 63.06, StopLoss: 52.74, PotentialGain: 10, RiskReward: 1.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanTrade(tt.price, tt.strength))
		})
	}
}

func TestTargetPct(t *testing.T) {
	assert.Equal(t, 0.20, TargetPct(70))
	assert.Equal(t, 0.15, TargetPct(69))
	assert.Equal(t, 0.15, TargetPct(60))
	assert.Equal(t, 0.10, TargetPct(59))
}
