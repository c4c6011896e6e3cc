package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	"FinScore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	scanReq   models.ScanRequest
	screenReq models.ScreenRequest
	indReq    models.IndicatorsRequest
	err       error
}

func (f *fakeEngine) ScanMomentum(_ context.Context, req models.ScanRequest) (*models.ScanResponse, error) {
	f.scanReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScanResponse{ScanID: "s1", Universe: req.Universe, Signals: []models.MomentumSignal{{Symbol: "AAPL", Signal: models.SignalBuy}}}, nil
}

func (f *fakeEngine) ScoreFundamentals(_ context.Context, req models.ScreenRequest) (*models.ScreenResponse, error) {
	f.screenReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScreenResponse{Filters: req}, nil
}

func (f *fakeEngine) ComputeIndicators(_ context.Context, req models.IndicatorsRequest) (*models.IndicatorsResult, error) {
	f.indReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.IndicatorsResult{Symbol: req.Symbol, Indicators: models.IndicatorSet{RSI: 50}}, nil
}

func (f *fakeEngine) ListUniverses() []models.Universe {
	return []models.Universe{{ID: "default", Name: "Default", Symbols: []string{"AAPL"}}}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, engine Engine, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	NewScoringHandler(nil, engine, nil).RegisterRoutes(e)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestScanEndpoint(t *testing.T) {
	f := &fakeEngine{}
	rec, env := do(t, f, http.MethodPost, "/api/momentum/scan", `{"universe":"default","strategy":"classic"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default", f.scanReq.Universe)
	assert.Equal(t, "classic", f.scanReq.Strategy)

	var res models.ScanResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "s1", res.ScanID)

	_, _ = do(t, f, http.MethodGet, "/api/momentum/scan?symbols=AAPL,MSFT", "")
	assert.Equal(t, []string{"AAPL", "MSFT"}, f.scanReq.Symbols)
}

func TestScanEndpointValidation(t *testing.T) {
	rec, _ := do(t, &fakeEngine{}, http.MethodPost, "/api/momentum/scan", `{"strategy":"turbo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreenEndpointAppliesDefaults(t *testing.T) {
	f := &fakeEngine{}
	rec, _ := do(t, f, http.MethodGet, "/api/fundamentals/screen?sector=Technology", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1e9, f.screenReq.MarketCapMin)
	assert.Equal(t, 20, f.screenReq.Limit)
	assert.Equal(t, "total", f.screenReq.SortBy)
	assert.Equal(t, "Technology", f.screenReq.Sector)

	rec, _ = do(t, f, http.MethodGet, "/api/fundamentals/screen?sortBy=momentum", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: %q", usecase.ErrUnknownUniverse, "x"), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", domrepo.ErrNoData), http.StatusNotFound},
		{fmt.Errorf("upstream exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec, env := do(t, &fakeEngine{err: tt.err}, http.MethodPost, "/api/indicators", `{"symbol":"AAPL"}`)
		assert.Equal(t, tt.code, rec.Code, tt.err.Error())
		assert.Equal(t, tt.code, env.Status)
	}
}

func TestIndicatorsEndpoint(t *testing.T) {
	f := &fakeEngine{}
	rec, _ := do(t, f, http.MethodGet, "/api/indicators?symbol=AAPL", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", f.indReq.Symbol)
	assert.Equal(t, 365, f.indReq.LookbackDays)

	rec, _ = do(t, f, http.MethodPost, "/api/indicators", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUniversesEndpoint(t *testing.T) {
	rec, env := do(t, &fakeEngine{}, http.MethodGet, "/api/universes", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Rows  []models.Universe `json:"rows"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, "default", list.Rows[0].ID)
}
