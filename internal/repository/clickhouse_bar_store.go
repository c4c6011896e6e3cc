package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	pkgch "FinScore/pkg/clickhouse"
	applogger "FinScore/pkg/logger"
	"FinScore/pkg/util"
)

var _ domrepo.BarStore = (*CHBarStore)(nil)

// CHBarStore archives daily bars in ClickHouse.
type CHBarStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
	now   func() time.Time
}

func NewCHBarStore(ch *pkgch.Client, l *applogger.Logger) *CHBarStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHBarStore{
		db:    ch.DB(),
		table: ch.Database() + "." + pkgch.DailyBarsTable,
		l:     l,
		now:   time.Now,
	}
}

// GetPriceHistory returns the latest lookbackDays archived bars, oldest first.
func (s *CHBarStore) GetPriceHistory(ctx context.Context, symbol string, lookbackDays int) (*models.PriceSeries, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT date, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY date DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, lookbackDays)
	if err != nil {
		s.l.Error("clickhouse daily_bars query error",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	bars := make([]models.PriceBar, 0, lookbackDays)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Date = util.StartOfDay(b.Date)
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("get bars %s: %w", symbol, domrepo.ErrNoData)
	}
	reverseBars(bars)

	s.l.Debug("clickhouse daily_bars ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(bars)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return &models.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// SaveBars upserts the series. Rows for an existing (symbol, date) are
// replaced on merge by the newer fetched_at.
func (s *CHBarStore) SaveBars(ctx context.Context, series *models.PriceSeries) error {
	if series == nil || len(series.Bars) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (symbol, date, open, high, low, close, volume, fetched_at)", s.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	fetchedAt := s.now().UTC()
	for _, b := range series.Bars {
		if _, err := stmt.ExecContext(ctx,
			series.Symbol, util.StartOfDay(b.Date), b.Open, b.High, b.Low, b.Close, b.Volume, fetchedAt,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append bar: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.l.Debug("clickhouse daily_bars saved",
		applogger.String("symbol", series.Symbol),
		applogger.Int("rows", len(series.Bars)),
	)
	return nil
}

func reverseBars(bars []models.PriceBar) {
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
}
