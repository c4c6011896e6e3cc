package indicators

import "FinScore/internal/domain/models"

// Compute evaluates the full indicator set against the latest bar.
func Compute(series *models.PriceSeries) models.IndicatorSet {
	closes := series.Closes()
	macd := MACD(closes)
	return models.IndicatorSet{
		RSI:         RSI(closes, DefaultRSIPeriod),
		MACD:        macd.MACD,
		MACDSignal:  macd.Signal,
		Histogram:   macd.Histogram,
		SMA20:       SMA(closes, 20),
		SMA50:       SMA(closes, 50),
		SMA200:      SMA(closes, 200),
		EMA12:       EMA(closes, 12),
		EMA26:       EMA(closes, 26),
		VolumeRatio: VolumeRatio(series.Volumes(), DefaultVolumePeriod),
	}
}
