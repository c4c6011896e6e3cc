package models

// MACDResult holds the MACD line, its signal line and their difference.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// IndicatorSet is a snapshot of every indicator evaluated at the latest bar.
type IndicatorSet struct {
	RSI         float64 `json:"rsi"`
	MACD        float64 `json:"macd"`
	MACDSignal  float64 `json:"macdSignal"`
	Histogram   float64 `json:"histogram"`
	SMA20       float64 `json:"sma20"`
	SMA50       float64 `json:"sma50"`
	SMA200      float64 `json:"sma200"`
	EMA12       float64 `json:"ema12"`
	EMA26       float64 `json:"ema26"`
	VolumeRatio float64 `json:"volumeRatio"`
}

// IndicatorsResult is returned by the indicators endpoint.
type IndicatorsResult struct {
	Symbol     string       `json:"symbol"`
	Bars       int          `json:"bars"`
	Price      float64      `json:"price"`
	Indicators IndicatorSet `json:"indicators"`
}
