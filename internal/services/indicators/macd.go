package indicators

import "FinScore/internal/domain/models"

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// MACD returns EMA12-EMA26 of the closes with a 9-period signal line. The
// signal is the EMA of the MACD value recomputed for every prefix of at least
// 26 closes. Fewer than 26 closes yield a zero result.
func MACD(closes []float64) models.MACDResult {
	if len(closes) < macdSlow {
		return models.MACDResult{}
	}

	line := EMA(closes, macdFast) - EMA(closes, macdSlow)

	series := make([]float64, 0, len(closes)-macdSlow+1)
	for n := macdSlow; n <= len(closes); n++ {
		prefix := closes[:n]
		series = append(series, EMA(prefix, macdFast)-EMA(prefix, macdSlow))
	}

	signal := line
	if len(series) >= macdSignal {
		signal = EMA(series, macdSignal)
	}

	return models.MACDResult{
		MACD:      line,
		Signal:    signal,
		Histogram: line - signal,
	}
}
