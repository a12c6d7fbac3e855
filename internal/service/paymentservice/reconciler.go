package paymentservice

import (
	"context"
	"time"

	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/plaid"
	"go.uber.org/zap"
)

const (
	webhookResultApplied  = "applied"
	webhookResultNoop     = "noop"
	webhookResultUnknown  = "unknown_transfer"
	webhookResultReplayed = "replayed"
	webhookResultError    = "error"
)

// TransferEvent is one transfer status change reported by the provider.
type TransferEvent struct {
	EventID        string
	TransferID     string
	TransferStatus string
	Timestamp      time.Time
	FailureReason  *plaid.FailureReason
}

// HandleTransferEvent applies one webhook event to the matching payment.
/// Events are replay-safe: duplicates, unknown transfers and out-of-order
// status changes all resolve to a logged no-op, never an error the provider
// would retry forever.
func (s *Service) HandleTransferEvent(ctx context.Context, event TransferEvent) error {
	if s.dedup != nil && event.EventID != "" {
		seen, err := s.dedup.SeenEvent(ctx, event.EventID)
		if err != nil {
			zap.L().Warn("webhook dedup unavailable", zap.Error(err))
		} else if seen {
			s.metrics.IncWebhookEvent(webhookResultReplayed)
			return nil
		}
	}

	payment, err := s.paymentRepo.FindByTransferID(ctx, event.TransferID)
	if err != nil {
		s.metrics.IncWebhookEvent(webhookResultError)
		return err
	}
	if payment == nil {
		zap.L().Warn("webhook for unknown transfer",
			zap.String("eventID", event.EventID),
			zap.String("transferID", event.TransferID))
		s.metrics.IncWebhookEvent(webhookResultUnknown)
		return nil
	}

	changed, err := s.applyTransferStatus(ctx, payment, event.TransferStatus, event.FailureReason)
	if err != nil {
		s.metrics.IncWebhookEvent(webhookResultError)
		return err
	}
	if changed {
		s.metrics.IncWebhookEvent(webhookResultApplied)
	} else {
		s.metrics.IncWebhookEvent(webhookResultNoop)
	}
	return nil
}

// mapProviderStatus translates a provider transfer status into the local
// payment status it implies. Unknown statuses map to "" and are ignored.
func mapProviderStatus(transferStatus string) string {
	switch transferStatus {
	case plaid.TransferStatusPending, plaid.TransferStatusPosted:
		return domain.PaymentStatusProcessing
	case plaid.TransferStatusSettled:
		return domain.PaymentStatusCompleted
	case plaid.TransferStatusCancelled:
		return domain.PaymentStatusCancelled
	case plaid.TransferStatusFailed, plaid.TransferStatusReturned:
		return domain.PaymentStatusFailed
	default:
		return ""
	}
}

// applyTransferStatus moves a payment to the status a provider report
// implies, if the state machine allows it. Reports that change nothing
// return (false, nil).
func (s *Service) applyTransferStatus(ctx context.Context, payment *domain.Payment, transferStatus string, failure *plaid.FailureReason) (bool, error) {
	target := mapProviderStatus(transferStatus)
	if target == "" {
		zap.L().Warn("unrecognized transfer status",
			zap.String("paymentID", payment.ID),
			zap.String("transferStatus", transferStatus))
		return false, nil
	}
	if payment.Status == target || domain.IsTerminalPaymentStatus(payment.Status) {
		return false, nil
	}
	if !domain.CanTransitionPayment(payment.Status, target) {
		zap.L().Warn("transfer status out of order",
			zap.String("paymentID", payment.ID),
			zap.String("from", payment.Status),
			zap.String("to", target))
		return false, nil
	}

	switch target {
	case domain.PaymentStatusCompleted:
		return true, s.settlePayment(ctx, payment)
	case domain.PaymentStatusFailed:
		return true, s.failPayment(ctx, payment, failure)
	default:
		payment.Status = target
		return true, s.paymentRepo.Update(ctx, payment)
	}
}

// settlePayment records a settled installment and refreshes the loan: first
// settlement moves funded to repaying, the last terminal installment closes
// the loan out.
func (s *Service) settlePayment(ctx context.Context, payment *domain.Payment) error {
	now := time.Now()
	payment.Status = domain.PaymentStatusCompleted
	payment.CompletedAt = &now
	payment.RequiresAction = false
	payment.FailureReason = ""
	payment.FailureCode = ""
	payment.NextRetryDate = nil
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return err
	}

	zap.L().Info("payment settled",
		zap.String("paymentID", payment.ID),
		zap.String("loanID", payment.LoanID),
		zap.Int("paymentNumber", payment.PaymentNumber))
	return s.refreshLoanStanding(ctx, payment.LoanID)
}

// failPayment records a failed transfer, then either schedules a durable
// retry or flags the payment for manual action, and re-ages the loan.
func (s *Service) failPayment(ctx context.Context, payment *domain.Payment, failure *plaid.FailureReason) error {
	payment.Status = domain.PaymentStatusFailed
	if failure != nil {
		payment.FailureCode = failure.ACHReturnCode
		payment.FailureReason = failure.Description
	}
	if !s.retryPolicy.ScheduleRetry(payment) {
		payment.RequiresAction = true
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return err
	}

	zap.L().Info("payment failed",
		zap.String("paymentID", payment.ID),
		zap.String("loanID", payment.LoanID),
		zap.String("failureCode", payment.FailureCode),
		zap.Bool("retryScheduled", payment.Status == domain.PaymentStatusScheduled))
	return s.refreshLoanStanding(ctx, payment.LoanID)
}
