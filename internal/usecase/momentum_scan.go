package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	"FinScore/internal/services/indicators"
	"FinScore/internal/services/momentum"
	applogger "FinScore/pkg/logger"

	"github.com/google/uuid"
)

// ScanOption configures MomentumScanner.
type ScanOption func(*MomentumScanner)

// WithScanPublisher delivers every finished scan to p. Delivery failures are
// logged and do not fail the scan.
func WithScanPublisher(p domrepo.ScanPublisher) ScanOption {
	return func(s *MomentumScanner) { s.publisher = p }
}

// WithScanClock overrides the timestamp source.
func WithScanClock(now func() time.Time) ScanOption {
	return func(s *MomentumScanner) { s.now = now }
}

// WithScanIDs overrides the scan id generator.
func WithScanIDs(next func() string) ScanOption {
	return func(s *MomentumScanner) { s.newID = next }
}

// ScanSettings are the tunables of a momentum scan.
type ScanSettings struct {
	LookbackDays    int
	MinBars         int
	DefaultUniverse string
}

// MomentumScanner scores a list of symbols and orders the signals.
type MomentumScanner struct {
	prices    domrepo.PriceHistoryProvider
	universes domrepo.UniverseStore
	composer  *momentum.Composer
	batcher   *Batcher
	settings  ScanSettings
	publisher domrepo.ScanPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
	now       func() time.Time
	newID     func() string
}

func NewMomentumScanner(
	prices domrepo.PriceHistoryProvider,
	universes domrepo.UniverseStore,
	composer *momentum.Composer,
	batcher *Batcher,
	settings ScanSettings,
	l *applogger.Logger,
	m domrepo.Metrics,
	opts ...ScanOption,
) *MomentumScanner {
	if l == nil {
		l = applogger.Nop()
	}
	if settings.MinBars < 1 {
		settings.MinBars = 50
	}
	if settings.LookbackDays < settings.MinBars {
		settings.LookbackDays = 365
	}
	s := &MomentumScanner{
		prices:    prices,
		universes: universes,
		composer:  composer,
		batcher:   batcher,
		settings:  settings,
		metrics:   m,
		l:         l.With(applogger.String("component", "momentum_scan")),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type scanTarget struct {
	symbol string
	name   string
}

// ScanMomentum resolves the request's symbols, scores each one and returns
// the ordered signals. Symbols that cannot be scored are dropped.
func (s *MomentumScanner) ScanMomentum(ctx context.Context, req models.ScanRequest) (*models.ScanResponse, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = s.composer.DefaultStrategy()
	}
	if _, err := s.composer.Strategy(strategy); err != nil {
		return nil, err
	}

	universe, targets, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scanID := s.newID()
	log := s.l.With(applogger.String("scan_id", scanID), applogger.String("universe", universe))

	signals, err := collect(ctx, s.batcher, targets, func(ctx context.Context, t scanTarget) (models.MomentumSignal, bool) {
		return s.scoreSymbol(ctx, log, t, strategy)
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", scanID, err)
	}

	SortSignals(signals)
	res := &models.ScanResponse{
		ScanID:    scanID,
		Universe:  universe,
		Strategy:  strategy,
		Signals:   signals,
		Summary:   Summarize(signals),
		Timestamp: s.now().UTC(),
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordScan("momentum", len(targets), elapsed.Seconds())
	}
	log.Info("momentum scan done",
		applogger.String("strategy", strategy),
		applogger.Int("symbols", len(targets)),
		applogger.Int("signals", len(signals)),
		applogger.Duration("duration_ms", elapsed),
	)

	if s.publisher != nil {
		if perr := s.publisher.PublishScan(ctx, res); perr != nil {
			log.Warn("publish scan failed", applogger.Error(perr))
			if s.metrics != nil {
				s.metrics.RecordError("scan_publish")
			}
		}
	}
	return res, nil
}

// resolve turns a request into the universe label and the symbols to scan.
// An explicit symbol list wins over a universe id.
func (s *MomentumScanner) resolve(req models.ScanRequest) (string, []scanTarget, error) {
	if len(req.Symbols) > 0 {
		targets := make([]scanTarget, 0, len(req.Symbols))
		for _, sym := range NormalizeSymbols(req.Symbols) {
			targets = append(targets, scanTarget{symbol: sym})
		}
		if len(targets) == 0 {
			return "", nil, ErrNoSymbols
		}
		return "custom", targets, nil
	}

	id := req.Universe
	if id == "" {
		id = s.settings.DefaultUniverse
	}
	u, ok := s.universes.Universe(id)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownUniverse, id)
	}
	syms := NormalizeSymbols(u.Symbols)
	if len(syms) == 0 {
		return "", nil, fmt.Errorf("%w: universe %q is empty", ErrNoSymbols, id)
	}
	targets := make([]scanTarget, 0, len(syms))
	for _, sym := range syms {
		targets = append(targets, scanTarget{symbol: sym, name: u.Names[sym]})
	}
	return u.ID, targets, nil
}

func (s *MomentumScanner) scoreSymbol(ctx context.Context, log *applogger.Logger, t scanTarget, strategy string) (models.MomentumSignal, bool) {
	fetchStart := time.Now()
	series, err := s.prices.GetPriceHistory(ctx, t.symbol, s.settings.LookbackDays)
	if err != nil {
		s.drop(log, t.symbol, "fetch", err)
		return models.MomentumSignal{}, false
	}
	// a nil series is rejected here as malformed
	if err := indicators.ValidateSeries(series, s.settings.MinBars); err != nil {
		reason := "malformed"
		if errors.Is(err, indicators.ErrInsufficientData) {
			reason = "insufficient"
		}
		s.drop(log, t.symbol, reason, err)
		return models.MomentumSignal{}, false
	}
	log.Debug("price history fetched",
		applogger.String("symbol", t.symbol),
		applogger.Int("bars", len(series.Bars)),
		applogger.Duration("duration_ms", time.Since(fetchStart)),
	)
	if series.Symbol == "" {
		series.Symbol = t.symbol
	}
	if series.Name == "" {
		series.Name = t.name
	}

	sig, err := s.composer.Score(series, strategy)
	if err != nil {
		s.drop(log, t.symbol, "score", err)
		return models.MomentumSignal{}, false
	}
	if s.metrics != nil {
		s.metrics.RecordSignal(string(sig.Signal))
	}
	return sig, true
}

func (s *MomentumScanner) drop(log *applogger.Logger, symbol, reason string, err error) {
	log.Debug("symbol dropped",
		applogger.String("symbol", symbol),
		applogger.String("reason", reason),
		applogger.Error(err),
	)
	if s.metrics != nil {
		s.metrics.RecordDropped("momentum", reason)
	}
}

// SortSignals puts STRONG_BUY and BUY first, then orders each group by
// strength descending and symbol ascending.
func SortSignals(signals []models.MomentumSignal) {
	sort.SliceStable(signals, func(i, j int) bool {
		a, b := signals[i], signals[j]
		if ai, bi := a.Signal.IsActionable(), b.Signal.IsActionable(); ai != bi {
			return ai
		}
		if a.Strength != b.Strength {
			return a.Strength > b.Strength
		}
		return a.Symbol < b.Symbol
	})
}

// Summarize counts signals per category. Total is the number of scored signals.
func Summarize(signals []models.MomentumSignal) models.ScanSummary {
	sum := models.ScanSummary{Total: len(signals)}
	for _, s := range signals {
		switch s.Signal {
		case models.SignalStrongBuy:
			sum.StrongBuy++
		case models.SignalBuy:
			sum.Buy++
		case models.SignalHold:
			sum.Hold++
		case models.SignalSell, models.SignalStrongSell:
			sum.Sell++
		}
	}
	return sum
}

// NormalizeSymbols trims, upper-cases and de-duplicates symbols, keeping the
// first occurrence order.
func NormalizeSymbols(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, sym := range in {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
