package fmp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	xhttp "FinScore/pkg/http"
	applogger "FinScore/pkg/logger"
	"FinScore/pkg/util"
)

var (
	_ domrepo.PriceHistoryProvider = (*Client)(nil)
	_ domrepo.FundamentalsProvider = (*Client)(nil)
	_ domrepo.CandidateSource      = (*Client)(nil)
)

// ErrUpstream marks an error payload returned with a success status.
var ErrUpstream = errors.New("fmp: upstream error")

// Option configures Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client talks to a Financial Modeling Prep style REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
	log     *applogger.Logger
	metrics domrepo.Metrics
}

// New creates a provider client. httpClient carries timeout and retry policy.
func New(baseURL, apiKey string, httpClient *xhttp.Client, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		log:     applogger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type historicalBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type historicalResponse struct {
	Symbol     string          `json:"symbol"`
	Historical []historicalBar `json:"historical"`
}

// GetPriceHistory returns up to lookbackDays daily bars, oldest first.
func (c *Client) GetPriceHistory(ctx context.Context, symbol string, lookbackDays int) (*models.PriceSeries, error) {
	var resp historicalResponse
	q := url.Values{}
	q.Set("timeseries", strconv.Itoa(lookbackDays))
	if err := c.get(ctx, "history", "/historical-price-full/"+url.PathEscape(symbol), q, &resp); err != nil {
		return nil, fmt.Errorf("price history %s: %w", symbol, err)
	}
	if len(resp.Historical) == 0 {
		return nil, fmt.Errorf("price history %s: %w", symbol, domrepo.ErrNoData)
	}

	// Provider returns newest first
	bars := make([]models.PriceBar, len(resp.Historical))
	for i, h := range resp.Historical {
		d, ok := util.ParseTime(h.Date)
		if !ok {
			return nil, fmt.Errorf("price history %s: bad date %q", symbol, h.Date)
		}
		bars[len(bars)-1-i] = models.PriceBar{
			Date:   d,
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: h.Volume,
		}
	}

	return &models.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

type keyMetricsTTM struct {
	PERatio                   *float64 `json:"peRatioTTM"`
	PBRatio                   *float64 `json:"pbRatioTTM"`
	ROIC                      *float64 `json:"roicTTM"`
	ROE                       *float64 `json:"roeTTM"`
	DebtToEquity              *float64 `json:"debtToEquityTTM"`
	CurrentRatio              *float64 `json:"currentRatioTTM"`
	DividendYield             *float64 `json:"dividendYieldTTM"`
	FreeCashFlowYield         *float64 `json:"freeCashFlowYieldTTM"`
	EnterpriseValueOverEBITDA *float64 `json:"enterpriseValueOverEBITDATTM"`
	PriceToSalesRatio         *float64 `json:"priceToSalesRatioTTM"`
}

// GetFundamentalMetrics returns trailing ratios. Fractional returns and yields
// are converted to percent.
func (c *Client) GetFundamentalMetrics(ctx context.Context, symbol string) (*models.FundamentalMetrics, error) {
	var resp []keyMetricsTTM
	if err := c.get(ctx, "metrics", "/key-metrics-ttm/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return nil, fmt.Errorf("key metrics %s: %w", symbol, err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("key metrics %s: %w", symbol, domrepo.ErrNoData)
	}
	k := resp[0]
	return &models.FundamentalMetrics{
		Symbol:                    symbol,
		PERatio:                   k.PERatio,
		PBRatio:                   k.PBRatio,
		ROIC:                      percent(k.ROIC),
		ROE:                       percent(k.ROE),
		DebtToEquity:              k.DebtToEquity,
		CurrentRatio:              k.CurrentRatio,
		DividendYield:             percent(k.DividendYield),
		FreeCashFlowYield:         percent(k.FreeCashFlowYield),
		EnterpriseValueOverEBITDA: k.EnterpriseValueOverEBITDA,
		PriceToSalesRatio:         k.PriceToSalesRatio,
	}, nil
}

type screenerRow struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	MarketCap   float64 `json:"marketCap"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
	Exchange    string  `json:"exchangeShortName"`
	Country     string  `json:"country"`
	Price       float64 `json:"price"`
}

// ScreenCandidates runs the provider-side screener.
func (c *Client) ScreenCandidates(ctx context.Context, f models.CandidateFilter) ([]models.Candidate, error) {
	q := url.Values{}
	if f.MarketCapMin > 0 {
		q.Set("marketCapMoreThan", strconv.FormatFloat(f.MarketCapMin, 'f', 0, 64))
	}
	if f.MarketCapMax > 0 {
		q.Set("marketCapLowerThan", strconv.FormatFloat(f.MarketCapMax, 'f', 0, 64))
	}
	if f.Sector != "" {
		q.Set("sector", f.Sector)
	}
	if f.Country != "" {
		q.Set("country", f.Country)
	}
	if f.Exchange != "" {
		q.Set("exchange", f.Exchange)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	q.Set("isActivelyTrading", "true")

	var rows []screenerRow
	if err := c.get(ctx, "screener", "/stock-screener", q, &rows); err != nil {
		return nil, fmt.Errorf("stock screener: %w", err)
	}

	out := make([]models.Candidate, 0, len(rows))
	for _, r := range rows {
		if r.Symbol == "" {
			continue
		}
		out = append(out, models.Candidate{
			Symbol:      r.Symbol,
			CompanyName: r.CompanyName,
			Sector:      r.Sector,
			Industry:    r.Industry,
			Exchange:    r.Exchange,
			Country:     r.Country,
			MarketCap:   r.MarketCap,
			Price:       r.Price,
		})
	}
	return out, nil
}

type errorPayload struct {
	Message string `json:"Error Message"`
}

func (c *Client) get(ctx context.Context, kind, path string, q url.Values, dest interface{}) error {
	if q == nil {
		q = url.Values{}
	}
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}

	start := time.Now()
	var body []byte
	err := c.http.SendAndParseWithRetry(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: q,
		Headers:     map[string]string{"Accept": "application/json"},
	}, &body)
	if err == nil {
		err = decode(body, dest)
	}
	if c.metrics != nil {
		c.metrics.RecordFetch("fmp."+kind, time.Since(start).Seconds(), err)
	}
	if err != nil {
		c.log.Debug("fmp request failed",
			applogger.String("path", path),
			applogger.Duration("duration_ms", time.Since(start)),
			applogger.Error(err),
		)
	}
	return err
}

func decode(body []byte, dest interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var ep errorPayload
		if json.Unmarshal(trimmed, &ep) == nil && ep.Message != "" {
			return fmt.Errorf("%w: %s", ErrUpstream, ep.Message)
		}
	}
	if err := json.Unmarshal(trimmed, dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

func percent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := *v * 100
	return &p
}
