package indicators

import (
	"errors"
	"fmt"
	"math"

	"FinScore/internal/domain/models"
)

var (
	ErrInsufficientData = errors.New("insufficient price history")
	ErrMalformedSeries  = errors.New("malformed price history")
)

// ValidateSeries checks that bars are usable and that at least minBars exist.
func ValidateSeries(series *models.PriceSeries, minBars int) error {
	if series == nil {
		return ErrMalformedSeries
	}
	for i, b := range series.Bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
			return fmt.Errorf("%w: bar %d close %v", ErrMalformedSeries, i, b.Close)
		}
		if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) || b.Volume < 0 {
			return fmt.Errorf("%w: bar %d volume %v", ErrMalformedSeries, i, b.Volume)
		}
		if i > 0 && !b.Date.After(series.Bars[i-1].Date) {
			return fmt.Errorf("%w: bar %d out of order", ErrMalformedSeries, i)
		}
	}
	if len(series.Bars) < minBars {
		return fmt.Errorf("%w: %d bars, need %d", ErrInsufficientData, len(series.Bars), minBars)
	}
	return nil
}
