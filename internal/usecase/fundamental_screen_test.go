package usecase

import (
	"context"
	"testing"

	"FinScore/internal/domain/models"
	"FinScore/internal/services/fundamentals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreener(c *fakeCandidates, f fakeFundamentals) *FundamentalScreener {
	return NewFundamentalScreener(c, f, fundamentals.NewScorer(), NewBatcher(5, (&countingPacer{}).factory()), 50, nil, nil)
}

func screenFixture() (*fakeCandidates, fakeFundamentals) {
	c := &fakeCandidates{list: []models.Candidate{
		{Symbol: "VAL", CompanyName: "Value Co", MarketCap: 5e9},
		{Symbol: "QUAL", CompanyName: "Quality Co", Sector: "Technology"},
		{Symbol: "GONE"},
		{Symbol: "BOTH"},
		{Symbol: "VAL"},
	}}
	f := fakeFundamentals{
		"VAL":  {PERatio: ptr(8)},
		"QUAL": {ROIC: ptr(25)},
		"BOTH": {PERatio: ptr(8), ROIC: ptr(25)},
	}
	return c, f
}

func symbolsOf(rs []models.ScreenerResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Symbol
	}
	return out
}

func TestScreenRanksByTotal(t *testing.T) {
	c, f := screenFixture()
	res, err := newScreener(c, f).ScoreFundamentals(context.Background(), models.ScreenRequest{MarketCapMin: 1e9, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, []string{"BOTH", "QUAL", "VAL"}, symbolsOf(res.Stocks))
	assert.Equal(t, 3, res.Total)
	for i, r := range res.Stocks {
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, 100, res.Stocks[0].TotalScore)
	assert.Equal(t, 50, res.Stocks[1].TotalScore)
	assert.Equal(t, "Quality Co", res.Stocks[1].CompanyName)
	assert.Equal(t, "Technology", res.Stocks[1].Sector)
	assert.Equal(t, SortByTotal, res.Filters.SortBy)
	assert.Equal(t, 50, c.filter.Limit)
	assert.Equal(t, 1e9, c.filter.MarketCapMin)
}

func TestScreenSortKeysAndLimit(t *testing.T) {
	c, f := screenFixture()
	s := newScreener(c, f)

	res, err := s.ScoreFundamentals(context.Background(), models.ScreenRequest{Limit: 2, SortBy: SortByValuation})
	require.NoError(t, err)
	assert.Equal(t, []string{"BOTH", "VAL"}, symbolsOf(res.Stocks))
	assert.Equal(t, 2, res.Total)

	res, err = s.ScoreFundamentals(context.Background(), models.ScreenRequest{Limit: 1, SortBy: SortByQuality})
	require.NoError(t, err)
	assert.Equal(t, []string{"BOTH"}, symbolsOf(res.Stocks))
}

func TestScreenLargeLimitWidensPool(t *testing.T) {
	c, f := screenFixture()
	_, err := newScreener(c, f).ScoreFundamentals(context.Background(), models.ScreenRequest{Limit: 80})
	require.NoError(t, err)
	assert.Equal(t, 80, c.filter.Limit)
}

func TestScreenRequestErrors(t *testing.T) {
	c, f := screenFixture()
	s := newScreener(c, f)

	_, err := s.ScoreFundamentals(context.Background(), models.ScreenRequest{SortBy: "momentum"})
	assert.ErrorIs(t, err, ErrInvalidSortKey)

	_, err = s.ScoreFundamentals(context.Background(), models.ScreenRequest{MarketCapMin: 10e9, MarketCapMax: 1e9})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.True(t, IsRequestError(err))
}

func TestScreenCandidateFailureIsFatal(t *testing.T) {
	_, err := newScreener(&fakeCandidates{err: errUpstream}, nil).ScoreFundamentals(context.Background(), models.ScreenRequest{})
	assert.ErrorIs(t, err, errUpstream)
	assert.False(t, IsRequestError(err))
}
