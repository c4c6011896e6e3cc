package models

// FundamentalMetrics carries trailing ratios for a company. Any ratio may be
// missing. Percent ratios (ROIC, ROE, yields) are in percent units.
type FundamentalMetrics struct {
	Symbol                    string   `json:"symbol"`
	PERatio                   *float64 `json:"peRatio"`
	PBRatio                   *float64 `json:"pbRatio"`
	ROIC                      *float64 `json:"roic"`
	ROE                       *float64 `json:"roe"`
	DebtToEquity              *float64 `json:"debtToEquity"`
	CurrentRatio              *float64 `json:"currentRatio"`
	DividendYield             *float64 `json:"dividendYield"`
	FreeCashFlowYield         *float64 `json:"freeCashFlowYield"`
	EnterpriseValueOverEBITDA *float64 `json:"enterpriseValueOverEBITDA"`
	PriceToSalesRatio         *float64 `json:"priceToSalesRatio"`
}

// Candidate is a company returned by the provider-side screener.
type Candidate struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Sector      string  `json:"sector,omitempty"`
	Industry    string  `json:"industry,omitempty"`
	Exchange    string  `json:"exchange,omitempty"`
	Country     string  `json:"country,omitempty"`
	MarketCap   float64 `json:"marketCap"`
	Price       float64 `json:"price"`
}

// CandidateFilter narrows the provider-side screener.
type CandidateFilter struct {
	MarketCapMin float64
	MarketCapMax float64
	Sector       string
	Country      string
	Exchange     string
	Limit        int
}

// ScreenerResult is a scored and ranked company.
type ScreenerResult struct {
	FundamentalMetrics
	CompanyName    string  `json:"companyName,omitempty"`
	Sector         string  `json:"sector,omitempty"`
	Exchange       string  `json:"exchange,omitempty"`
	MarketCap      float64 `json:"marketCap,omitempty"`
	Price          float64 `json:"price,omitempty"`
	QualityScore   int     `json:"qualityScore"`
	ValuationScore int     `json:"valuationScore"`
	TotalScore     int     `json:"totalScore"`
	Rank           int     `json:"rank"`
}

// ScreenResponse is the result of one fundamental screen.
type ScreenResponse struct {
	Stocks  []ScreenerResult `json:"stocks"`
	Total   int              `json:"total"`
	Filters ScreenRequest    `json:"filters"`
}
