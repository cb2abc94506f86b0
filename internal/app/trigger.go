package service

import (
	"context"

	"github.com/okian/watchkeep/pkg/logger"
)

// notifyRecompute schedules an aggregate rebuild. Signals coalesce: while a
// rebuild is pending, further notifications are no-ops, since every rebuild
// reads the full history anyway.
func (s *Service) notifyRecompute() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// recomputeLoop serves recompute triggers for the lifetime of the service.
// Failures are logged and never propagate to the upload path; the raw
// submission is already durable by the time a trigger fires.
func (s *Service) recomputeLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-s.trigger:
			if snap, err := s.Recompute(ctx); err != nil {
				s.logger.Error(ctx, "aggregate recompute failed", logger.Error(err))
			} else {
				s.logger.Info(ctx, "aggregate snapshot published",
					logger.Int("totalSubmissions", snap.TotalSubmissions),
				)
			}
		}
	}
}
