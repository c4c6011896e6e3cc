package repository

import (
	"context"
	"errors"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	applogger "FinScore/pkg/logger"
)

var _ domrepo.PriceHistoryProvider = (*ArchivedPriceProvider)(nil)

// ArchivedPriceProvider serves history from a bar archive when it is complete
// and fresh, and otherwise fetches upstream and writes the result back.
type ArchivedPriceProvider struct {
	archive      domrepo.BarStore
	upstream     domrepo.PriceHistoryProvider
	maxStaleness time.Duration
	now          func() time.Time
	l            *applogger.Logger
	metrics      domrepo.Metrics
}

func NewArchivedPriceProvider(archive domrepo.BarStore, upstream domrepo.PriceHistoryProvider, maxStaleness time.Duration, l *applogger.Logger, m domrepo.Metrics) *ArchivedPriceProvider {
	if l == nil {
		l = applogger.Nop()
	}
	return &ArchivedPriceProvider{
		archive:      archive,
		upstream:     upstream,
		maxStaleness: maxStaleness,
		now:          time.Now,
		l:            l,
		metrics:      m,
	}
}

func (p *ArchivedPriceProvider) GetPriceHistory(ctx context.Context, symbol string, lookbackDays int) (*models.PriceSeries, error) {
	archived, aerr := p.archive.GetPriceHistory(ctx, symbol, lookbackDays)
	if aerr != nil && !errors.Is(aerr, domrepo.ErrNoData) {
		p.l.Warn("bar archive read failed", applogger.String("symbol", symbol), applogger.Error(aerr))
	}
	if aerr == nil && p.usable(archived, lookbackDays) {
		p.record(true)
		return archived, nil
	}
	p.record(false)

	fresh, err := p.upstream.GetPriceHistory(ctx, symbol, lookbackDays)
	if err != nil {
		if aerr == nil && archived != nil && len(archived.Bars) > 0 {
			p.l.Warn("upstream failed, serving archived bars",
				applogger.String("symbol", symbol),
				applogger.Int("bars", len(archived.Bars)),
				applogger.Error(err),
			)
			return archived, nil
		}
		return nil, err
	}

	if serr := p.archive.SaveBars(ctx, fresh); serr != nil {
		p.l.Warn("bar archive write failed", applogger.String("symbol", symbol), applogger.Error(serr))
		if p.metrics != nil {
			p.metrics.RecordError("archive_write")
		}
	}
	return fresh, nil
}

func (p *ArchivedPriceProvider) usable(s *models.PriceSeries, lookbackDays int) bool {
	if s == nil || len(s.Bars) < lookbackDays {
		return false
	}
	last, _ := s.Last()
	return p.now().Sub(last.Date) <= p.maxStaleness
}

func (p *ArchivedPriceProvider) record(hit bool) {
	if p.metrics != nil {
		p.metrics.RecordCache("archive", hit)
	}
}
