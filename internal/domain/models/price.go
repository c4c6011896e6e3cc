package models

import (
	"encoding/json"
	"fmt"
	"time"

	"FinScore/pkg/util"
)

// PriceBar is one daily OHLCV observation.
type PriceBar struct {
	Date   time.Time `json:"date" validate:"required"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close" validate:"gt=0"`
	Volume float64   `json:"volume" validate:"gte=0"`
}

// UnmarshalJSON accepts the date as a plain calendar date, RFC3339 or unix seconds.
func (b *PriceBar) UnmarshalJSON(data []byte) error {
	type plain PriceBar
	aux := struct {
		*plain
		Date json.RawMessage `json:"date"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Date) == 0 || string(aux.Date) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(aux.Date, &raw); err != nil {
		var ts int64
		if err := json.Unmarshal(aux.Date, &ts); err != nil {
			return fmt.Errorf("bar date: %w", err)
		}
		b.Date = time.Unix(ts, 0).UTC()
		return nil
	}
	t, ok := util.ParseTime(raw)
	if !ok {
		return fmt.Errorf("bar date %q: unrecognised format", raw)
	}
	b.Date = t
	return nil
}

// PriceSeries is the chronologically ordered daily history of one symbol.
type PriceSeries struct {
	Symbol string     `json:"symbol" validate:"required"`
	Name   string     `json:"name,omitempty"`
	Bars   []PriceBar `json:"bars" validate:"required,min=1,dive"`
}

// Closes returns the close prices oldest first.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the traded volumes oldest first.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Last returns the most recent bar.
func (s *PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// DisplayName falls back to the symbol when the provider has no name.
func (s *PriceSeries) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Symbol
}
