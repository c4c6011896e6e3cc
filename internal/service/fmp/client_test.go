package fmp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	xhttp "FinScore/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "k3y", xhttp.NewClient(xhttp.WithRetry(2, time.Millisecond)))
}

func TestGetPriceHistoryReversesBars(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/historical-price-full/AAPL", r.URL.Path)
		assert.Equal(t, "120", r.URL.Query().Get("timeseries"))
		assert.Equal(t, "k3y", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(`{"symbol":"AAPL","historical":[
			{"date":"2024-01-04","open":3,"high":3,"low":3,"close":3,"volume":300},
			{"date":"2024-01-03","open":2,"high":2,"low":2,"close":2,"volume":200},
			{"date":"2024-01-02","open":1,"high":1,"low":1,"close":1,"volume":100}]}`))
	})

	s, err := c.GetPriceHistory(context.Background(), "AAPL", 120)
	require.NoError(t, err)
	require.Len(t, s.Bars, 3)
	assert.Equal(t, []float64{1, 2, 3}, s.Closes())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), s.Bars[0].Date)
}

func TestGetPriceHistoryEmptyIsNoData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := c.GetPriceHistory(context.Background(), "ZZZZ", 120)
	assert.True(t, errors.Is(err, domrepo.ErrNoData))
}

func TestErrorMessagePayloadFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error Message":"Limit Reach"}`))
	})
	_, err := c.GetFundamentalMetrics(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Contains(t, err.Error(), "Limit Reach")
}

func TestGetFundamentalMetricsConvertsPercent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/key-metrics-ttm/MSFT", r.URL.Path)
		_, _ = w.Write([]byte(`[{"peRatioTTM":32.5,"roicTTM":0.25,"roeTTM":0.35,"debtToEquityTTM":0.4,"dividendYieldTTM":0.0075}]`))
	})

	m, err := c.GetFundamentalMetrics(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", m.Symbol)
	assert.InDelta(t, 32.5, *m.PERatio, 1e-9)
	assert.InDelta(t, 25, *m.ROIC, 1e-9)
	assert.InDelta(t, 35, *m.ROE, 1e-9)
	assert.InDelta(t, 0.4, *m.DebtToEquity, 1e-9)
	assert.InDelta(t, 0.75, *m.DividendYield, 1e-9)
	assert.Nil(t, m.PBRatio)
	assert.Nil(t, m.CurrentRatio)
}

func TestScreenCandidatesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1000000000", q.Get("marketCapMoreThan"))
		assert.Empty(t, q.Get("marketCapLowerThan"))
		assert.Equal(t, "Technology", q.Get("sector"))
		assert.Equal(t, "50", q.Get("limit"))
		_, _ = w.Write([]byte(`[
			{"symbol":"AAPL","companyName":"Apple Inc.","marketCap":3e12,"sector":"Technology","exchangeShortName":"NASDAQ","price":190},
			{"symbol":"","companyName":"ghost"}]`))
	})

	cands, err := c.ScreenCandidates(context.Background(), models.CandidateFilter{
		MarketCapMin: 1e9, Sector: "Technology", Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "NASDAQ", cands[0].Exchange)
	assert.Equal(t, 190.0, cands[0].Price)
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	_, err := c.GetFundamentalMetrics(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, domrepo.ErrNoData))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
