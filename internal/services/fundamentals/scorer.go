package fundamentals

import (
	"math"

	"FinScore/internal/domain/models"
	"FinScore/internal/domain/service"
)

// Score averages the contributions of the present factors and scales the mean
// by 4. A table with no present factor scores 0.
func Score(t Table, m *models.FundamentalMetrics) int {
	sum, present := 0.0, 0
	for _, f := range t.Factors {
		v := f.Metric(m)
		if v == nil || math.IsNaN(*v) {
			continue
		}
		sum += f.points(*v)
		present++
	}
	if present == 0 {
		return 0
	}
	score := math.Round(sum / float64(present) * 4)
	return int(math.Max(0, math.Min(100, score)))
}

func (f Factor) points(v float64) float64 {
	for _, b := range f.Buckets {
		if b.match(v) {
			return b.Points
		}
	}
	return f.Else
}

// Scorer combines a quality and a valuation table.
type Scorer struct {
	Quality   Table
	Valuation Table
}

// NewScorer returns a scorer with the default tables.
func NewScorer() *Scorer {
	return &Scorer{Quality: QualityTable, Valuation: ValuationTable}
}

// Score fills quality, valuation and total scores. Rank is left to the caller.
func (s *Scorer) Score(m models.FundamentalMetrics) models.ScreenerResult {
	q := Score(s.Quality, &m)
	v := Score(s.Valuation, &m)
	return models.ScreenerResult{
		FundamentalMetrics: m,
		QualityScore:       q,
		ValuationScore:     v,
		TotalScore:         int(math.Round(float64(q+v) / 2)),
	}
}

var _ service.FundamentalScorer = (*Scorer)(nil)
