package usecase

import (
	"context"
	"time"

	"MarketPulse/pkg/logger"
)

// SignalScheduler triggers signal generation cycles on a fixed period.
type SignalScheduler struct {
	svc      *MarketService
	interval time.Duration
	log      *logger.Logger
}

func NewSignalScheduler(svc *MarketService, interval time.Duration, log *logger.Logger) *SignalScheduler {
	return &SignalScheduler{svc: svc, interval: interval, log: log}
}

// Run blocks until ctx ends, firing one generation cycle per interval.
func (s *SignalScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("signal scheduler started", logger.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("signal scheduler stopped")
			return
		case now := <-ticker.C:
			start := time.Now()
			s.svc.GenerateSignals(ctx, now.UTC())
			s.log.Debug("generation cycle complete", logger.Duration("took", time.Since(start)))
		}
	}
}
