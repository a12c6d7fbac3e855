package paymentservice

import (
	"time"

	"github.com/porchfin/lendcore/internal/config"
	"github.com/porchfin/lendcore/internal/domain"
	"go.uber.org/zap"
)

// RetryPolicy classifies transfer failure codes and schedules durable
// retries. Scheduling writes a persisted next-attempt date instead of
// arming a timer, so retries survive restarts and are picked up by the next
// batch run.
type RetryPolicy struct {
	maxAttempts int
	intervals   []time.Duration
	retryable   map[string]bool
}

func NewRetryPolicy(cfg *config.Config) *RetryPolicy {
	retryable := make(map[string]bool, len(cfg.RetryableReturnCodes))
	for _, code := range cfg.RetryableReturnCodes {
		retryable[code] = true
	}

	intervals := make([]time.Duration, 0, len(cfg.RetryIntervalsDays))
	for _, days := range cfg.RetryIntervalsDays {
		intervals = append(intervals, time.Duration(days)*24*time.Hour)
	}
	if len(intervals) == 0 {
		intervals = []time.Duration{3 * 24 * time.Hour}
	}

	return &RetryPolicy{
		maxAttempts: cfg.RetryMaxAttempts,
		intervals:   intervals,
		retryable:   retryable,
	}
}

// IsRetryable reports whether a provider failure code is transient.
// Unknown codes are terminal: money never moves again on an unclassified
// failure without a human looking at it.
func (p *RetryPolicy) IsRetryable(failureCode string) bool {
	return p.retryable[failureCode]
}

// ScheduleRetry moves a failed payment back to scheduled with a future
// attempt date. Returns false once the attempt budget is exhausted or the
// failure code is terminal; the caller must then flag the payment for
// manual action.
func (p *RetryPolicy) ScheduleRetry(payment *domain.Payment) bool {
	if !p.IsRetryable(payment.FailureCode) {
		return false
	}
	if payment.RetryCount >= p.maxAttempts {
		zap.L().Info("payment retry budget exhausted",
			zap.String("paymentID", payment.ID),
			zap.Int("retryCount", payment.RetryCount))
		return false
	}

	interval := p.intervals[len(p.intervals)-1]
	if payment.RetryCount < len(p.intervals) {
		interval = p.intervals[payment.RetryCount]
	}

	next := time.Now().Add(interval)
	payment.RetryCount++
	payment.NextRetryDate = &next
	payment.Status = domain.PaymentStatusScheduled

	zap.L().Info("payment retry scheduled",
		zap.String("paymentID", payment.ID),
		zap.Int("attempt", payment.RetryCount),
		zap.Time("nextRetryDate", next))
	return true
}
