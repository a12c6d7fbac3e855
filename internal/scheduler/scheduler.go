// Package scheduler runs the payment batch on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/porchfin/lendcore/internal/service/paymentservice"
	"go.uber.org/zap"
)

// Processor is the batch entry point the scheduler drives.
type Processor interface {
	ProcessDuePayments(ctx context.Context) (*paymentservice.ProcessResult, error)
}

type Scheduler struct {
	processor Processor
	interval  time.Duration
}

func New(processor Processor, interval time.Duration) *Scheduler {
	return &Scheduler{
		processor: processor,
		interval:  interval,
	}
}

// Start runs the batch loop until the context is cancelled. One run fires
// immediately on startup so a restarted service never waits a full interval
// to catch up on due payments.
func (s *Scheduler) Start(ctx context.Context) {
	zap.L().Info("payment scheduler started", zap.Duration("interval", s.interval))

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("payment scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	_, err := s.processor.ProcessDuePayments(ctx)
	if errors.Is(err, paymentservice.ErrProcessorBusy) {
		zap.L().Info("payment batch skipped, another runner holds the lock")
		return
	}
	if err != nil {
		zap.L().Error("payment batch failed", zap.Error(err))
	}
}
