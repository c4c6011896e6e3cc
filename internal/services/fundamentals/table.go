package fundamentals

import "FinScore/internal/domain/models"

// Cmp selects how a bucket threshold is compared.
type Cmp int

const (
	Greater Cmp = iota
	Less
)

// Bucket awards Points when the metric passes Threshold.
type Bucket struct {
	Cmp       Cmp
	Threshold float64
	Points    float64
}

func (b Bucket) match(v float64) bool {
	if b.Cmp == Greater {
		return v > b.Threshold
	}
	return v < b.Threshold
}

// Factor is one metric with its ordered buckets. The first matching bucket
// wins; Else applies when none match.
type Factor struct {
	Name    string
	Metric  func(m *models.FundamentalMetrics) *float64
	Buckets []Bucket
	Else    float64
}

// Table is a scoring configuration. Every factor tops out at 25 points or less,
// so a mean contribution multiplied by 4 lands on 0-100.
type Table struct {
	Name    string
	Factors []Factor
}

func above(pairs ...float64) []Bucket { return buckets(Greater, pairs) }
func below(pairs ...float64) []Bucket { return buckets(Less, pairs) }

func buckets(cmp Cmp, pairs []float64) []Bucket {
	out := make([]Bucket, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Bucket{Cmp: cmp, Threshold: pairs[i], Points: pairs[i+1]})
	}
	return out
}

// QualityTable scores profitability and balance-sheet strength.
var QualityTable = Table{
	Name: "quality",
	Factors: []Factor{
		{
			Name:    "roic",
			Metric:  func(m *models.FundamentalMetrics) *float64 { return m.ROIC },
			Buckets: above(20, 25, 15, 20, 10, 15, 5, 10),
			Else:    5,
		},
		{
			Name:    "roe",
			Metric:  func(m *models.FundamentalMetrics) *float64 { return m.ROE },
			Buckets: above(20, 20, 15, 15, 10, 10),
			Else:    5,
		},
		{
			Name:    "debtToEquity",
			Metric:  func(m *models.FundamentalMetrics) *float64 { return m.DebtToEquity },
			Buckets: below(0.3, 20, 0.5, 15, 1, 10, 2, 5),
			Else:    0,
		},
		{
			Name:    "currentRatio",
			Metric:  func(m *models.FundamentalMetrics) *float64 { return m.CurrentRatio },
			Buckets: above(2, 15, 1.5, 12, 1, 8),
			Else:    3,
		},
	},
}

// ValuationTable scores how cheaply the company trades.
var ValuationTable = Table{
	Name: "valuation",
	Factors: []Factor{
		{
			Name:    "peRatio",
			Metric:  func(m *models.FundamentalMetrics) *float64 { return m.PERatio },
			Buckets: below(10, 25, 15, 20, 20, 15, 30, 10),
			Else:    5,
		},
		{
			Name:    "pbRatio",
			Metric:  func(m *models.FundamentalMetrics) *float64 { return m.PBRatio },
			Buckets: below(1, 25, 2, 20, 3, 15, 5, 10),
			Else:    5,
		},
		{
			Name:    "evToEbitda",
			Metric:  func(m *models.FundamentalMetrics) *float64 { return m.EnterpriseValueOverEBITDA },
			Buckets: below(8, 25, 12, 20, 15, 15, 20, 10),
			Else:    5,
		},
	},
}
