package indicators

import (
	"time"

	"FinScore/internal/domain/models"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func seriesOf(closes ...float64) *models.PriceSeries {
	s := &models.PriceSeries{Symbol: "TEST"}
	for i, c := range closes {
		s.Bars = append(s.Bars, models.PriceBar{
			Date:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		})
	}
	return s
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
