package models

// Requests accepted by the HTTP, Kafka and CLI surfaces.

type ScanRequest struct {
	Universe string   `query:"universe" json:"universe"`
	Symbols  []string `json:"symbols" validate:"omitempty,max=500,dive,required,max=15"`
	Strategy string   `query:"strategy" json:"strategy" validate:"omitempty,oneof=scan classic"`
}

type ScreenRequest struct {
	MarketCapMin float64 `query:"marketCapMin" json:"marketCapMin" default:"1000000000" validate:"gte=0"`
	MarketCapMax float64 `query:"marketCapMax" json:"marketCapMax,omitempty" validate:"gte=0"`
	Sector       string  `query:"sector" json:"sector,omitempty"`
	Country      string  `query:"country" json:"country,omitempty"`
	Exchange     string  `query:"exchange" json:"exchange,omitempty"`
	Limit        int     `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
	SortBy       string  `query:"sortBy" json:"sortBy" default:"total" validate:"oneof=total quality valuation"`
}

type IndicatorsRequest struct {
	Symbol       string       `query:"symbol" json:"symbol" validate:"required_without=Series"`
	LookbackDays int          `query:"lookbackDays" json:"lookbackDays" default:"365" validate:"gte=26,lte=2000"`
	Series       *PriceSeries `json:"series,omitempty"`
}
