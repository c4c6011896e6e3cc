package repository

import (
	"context"
	"errors"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
)

// MultiScanPublisher fans a scan out to every sink. All sinks are attempted;
// the joined error reports those that failed.
type MultiScanPublisher []domrepo.ScanPublisher

func (m MultiScanPublisher) PublishScan(ctx context.Context, res *models.ScanResponse) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.PublishScan(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
