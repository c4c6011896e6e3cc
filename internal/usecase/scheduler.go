package usecase

import (
	"context"
	"fmt"
	"time"

	"FinScore/internal/domain/models"
	applogger "FinScore/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Locker guards a scheduled run so only one instance executes it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// ScanScheduler runs momentum scans over configured universes on a cron spec.
type ScanScheduler struct {
	cron      *cron.Cron
	scanner   *MomentumScanner
	universes []string
	strategy  string
	lock      Locker
	lockTTL   time.Duration
	timeout   time.Duration
	l         *applogger.Logger
}

func NewScanScheduler(scanner *MomentumScanner, universes []string, strategy string, lock Locker, l *applogger.Logger) *ScanScheduler {
	if l == nil {
		l = applogger.Nop()
	}
	return &ScanScheduler{
		cron:      cron.New(),
		scanner:   scanner,
		universes: universes,
		strategy:  strategy,
		lock:      lock,
		lockTTL:   10 * time.Minute,
		timeout:   5 * time.Minute,
		l:         l.With(applogger.String("component", "scheduler")),
	}
}

// Register adds the scan job under spec (standard 5-field cron syntax).
func (s *ScanScheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("register scan job %q: %w", spec, err)
	}
	return nil
}

func (s *ScanScheduler) Start() {
	s.cron.Start()
	s.l.Info("scheduler started", applogger.Strings("universes", s.universes))
}

// Stop waits for running jobs up to ctx's deadline.
func (s *ScanScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.l.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce scans every universe in turn. It returns the number of scans that
// completed.
func (s *ScanScheduler) RunOnce(ctx context.Context) int {
	done := 0
	for _, id := range s.universes {
		if s.runUniverse(ctx, id) {
			done++
		}
	}
	return done
}

func (s *ScanScheduler) runUniverse(ctx context.Context, id string) bool {
	key := "scheduler:scan:" + id
	if s.lock != nil {
		ok, err := s.lock.TryLock(ctx, key, s.lockTTL)
		if err != nil {
			s.l.Warn("scheduler lock failed", applogger.String("universe", id), applogger.Error(err))
			return false
		}
		if !ok {
			s.l.Debug("scheduled scan held elsewhere", applogger.String("universe", id))
			return false
		}
		defer func() {
			if err := s.lock.Unlock(context.Background(), key); err != nil {
				s.l.Warn("scheduler unlock failed", applogger.String("universe", id), applogger.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.scanner.ScanMomentum(ctx, models.ScanRequest{Universe: id, Strategy: s.strategy})
	if err != nil {
		s.l.Error("scheduled scan failed", applogger.String("universe", id), applogger.Error(err))
		return false
	}
	s.l.Info("scheduled scan done",
		applogger.String("universe", id),
		applogger.String("scan_id", res.ScanID),
		applogger.Int("strong_buy", res.Summary.StrongBuy),
		applogger.Int("buy", res.Summary.Buy),
	)
	return true
}
