package indicators

// SMA returns the mean of the last period values, or 0 when there are fewer
// than period values.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMA seeds with the mean of the first period values and smooths every later
// value in order. Returns 0 when there are fewer than period values.
func EMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	ema := 0.0
	for _, v := range values[:period] {
		ema += v
	}
	ema /= float64(period)

	k := 2.0 / float64(period+1)
	for _, v := range values[period:] {
		ema = (v-ema)*k + ema
	}
	return ema
}
