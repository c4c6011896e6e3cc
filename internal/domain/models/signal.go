package models

import "time"

// SignalType is the trading recommendation derived from a strength score.
type SignalType string

const (
	SignalStrongBuy  SignalType = "STRONG_BUY"
	SignalBuy        SignalType = "BUY"
	SignalHold       SignalType = "HOLD"
	SignalSell       SignalType = "SELL"
	SignalStrongSell SignalType = "STRONG_SELL"
)

// IsActionable reports whether the signal is a buy recommendation.
func (s SignalType) IsActionable() bool {
	return s == SignalStrongBuy || s == SignalBuy
}

// MomentumSignal is the per-symbol output of a momentum scan.
type MomentumSignal struct {
	Symbol         string     `json:"symbol"`
	Name           string     `json:"name"`
	Price          float64    `json:"price"`
	Change         float64    `json:"change"`
	ChangePercent  float64    `json:"changePercent"`
	Signal         SignalType `json:"signal"`
	Strength       int        `json:"strength"`
	EntryPrice     float64    `json:"entryPrice"`
	TargetPrice    float64    `json:"targetPrice"`
	StopLoss       float64    `json:"stopLoss"`
	PotentialGain  int        `json:"potentialGain"`
	RiskReward     float64    `json:"riskReward"`
	BullishSignals []string   `json:"bullishSignals"`
	BearishSignals []string   `json:"bearishSignals"`
}

// ScanSummary counts signals per category. Sell includes STRONG_SELL.
type ScanSummary struct {
	Total     int `json:"total"`
	StrongBuy int `json:"strongBuy"`
	Buy       int `json:"buy"`
	Hold      int `json:"hold"`
	Sell      int `json:"sell"`
}

// ScanResponse is the result of one momentum scan.
type ScanResponse struct {
	ScanID    string           `json:"scanId"`
	Universe  string           `json:"universe,omitempty"`
	Strategy  string           `json:"strategy"`
	Signals   []MomentumSignal `json:"signals"`
	Summary   ScanSummary      `json:"summary"`
	Timestamp time.Time        `json:"timestamp"`
}
