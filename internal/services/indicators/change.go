package indicators

import (
	"math"

	"github.com/shopspring/decimal"
)

// PriceChange returns the absolute and percent move between the last two
// closes, rounded to cents and hundredths of a percent. A zero previous close
// reports a 0 percent move.
func PriceChange(closes []float64) (change, changePercent float64) {
	if len(closes) < 2 {
		return 0, 0
	}
	prev := closes[len(closes)-2]
	diff := closes[len(closes)-1] - prev
	change = Round(diff, 2)
	if prev == 0 {
		return change, 0
	}
	return change, Round(diff/prev*100, 2)
}

// Round rounds v to places decimals, half away from zero.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
