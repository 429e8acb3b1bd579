package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically promotes confirmed reservations whose slot has
// ended to completed.
type Sweeper struct {
	service  ReservationService
	interval time.Duration
	log      *zap.Logger
}

func NewSweeper(service ReservationService, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		log:      log.With(zap.String("worker", "completion_sweeper")),
	}
}

// Run blocks until ctx is cancelled. Intended to run in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Completion sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Completion sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.service.CompleteElapsed(ctx); err != nil {
				s.log.Error("Completion sweep failed", zap.Error(err))
			}
		}
	}
}
