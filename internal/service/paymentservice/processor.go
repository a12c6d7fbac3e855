package paymentservice

import (
	"context"
	"fmt"
	"time"

	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/plaid"
	"go.uber.org/zap"
)

// processLockKey is the advisory-lock key shared by every batch runner.
const processLockKey int64 = 0x4C454E44

const (
	outcomeInitiated      = "initiated"
	outcomeFailed         = "failed"
	outcomeSkipped        = "skipped"
	outcomeRetryScheduled = "retry_scheduled"
)

type SyncResult struct {
	Checked  int      `json:"checked"`
	Updated  int      `json:"updated"`
	Released int      `json:"released"`
	Errors   []string `json:"errors,omitempty"`
}

type ProcessResult struct {
	Processed      int        `json:"processed"`
	Successful     int        `json:"successful"`
	Failed         int        `json:"failed"`
	Skipped        int        `json:"skipped"`
	RetryScheduled int        `json:"retryScheduled"`
	MarkedOverdue  int        `json:"markedOverdue"`
	Errors         []string   `json:"errors,omitempty"`
	Sync           SyncResult `json:"sync"`
}

// ProcessDuePayments is the scheduled batch: reconcile in-flight transfers
// against the provider first, then initiate transfers for due and retry-due
// payments one at a time, then age unpaid installments. One payment's
// breakdown never aborts the batch.
func (s *Service) ProcessDuePayments(ctx context.Context) (*ProcessResult, error) {
	if s.locker != nil {
		lock, err := s.locker.TryAdvisoryLock(ctx, processLockKey)
		if err != nil {
			return nil, err
		}
		if lock == nil {
			return nil, ErrProcessorBusy
		}
		defer lock.Release(ctx)
	}

	started := time.Now()
	res := &ProcessResult{}

	// Reconcile before initiating anything: stale local state is how double
	// submissions happen.
	res.Sync = s.syncInFlightTransfers(ctx)

	due, err := s.paymentRepo.FindDue(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	for i := range due {
		payment := due[i]
		outcome := s.processOne(ctx, &payment)
		res.Processed++
		s.metrics.IncPayment(outcome)
		switch outcome {
		case outcomeInitiated:
			res.Successful++
		case outcomeRetryScheduled:
			res.RetryScheduled++
		case outcomeSkipped:
			res.Skipped++
		default:
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("payment %s: %s", payment.ID, payment.FailureReason))
		}
	}

	overdue, err := s.MarkOverdue(ctx)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("overdue sweep: %v", err))
	}
	res.MarkedOverdue = overdue

	s.metrics.ObserveBatchDuration(time.Since(started))
	zap.L().Info("payment batch finished",
		zap.Int("processed", res.Processed),
		zap.Int("successful", res.Successful),
		zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped),
		zap.Int("retryScheduled", res.RetryScheduled),
		zap.Int("markedOverdue", res.MarkedOverdue),
		zap.Duration("took", time.Since(started)))
	return res, nil
}

// processOne initiates a single installment debit. Panics are contained at
// this boundary so the rest of the batch keeps going.
func (s *Service) processOne(ctx context.Context, payment *domain.Payment) (outcome string) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("payment processing panicked",
				zap.String("paymentID", payment.ID),
				zap.Any("panic", rec))
			payment.FailureReason = fmt.Sprintf("internal error: %v", rec)
			outcome = outcomeFailed
		}
	}()

	// Re-read before touching anything: a webhook or a payoff landing after
	// the work set was selected may already have moved this payment on.
	current, err := s.paymentRepo.FindByID(ctx, payment.ID)
	if err != nil {
		payment.FailureReason = err.Error()
		return outcomeFailed
	}
	if current == nil || current.Status != domain.PaymentStatusScheduled {
		zap.L().Info("payment no longer scheduled, skipping",
			zap.String("paymentID", payment.ID))
		return outcomeSkipped
	}
	*payment = *current

	ach, err := s.resolveACHNumbers(ctx, payment.LoanID)
	if err != nil {
		payment.FailureReason = err.Error()
		return outcomeFailed
	}
	if ach == nil {
		// Terminal precondition failure: nothing to debit until the borrower
		// relinks a bank account.
		payment.Status = domain.PaymentStatusFailed
		payment.FailureReason = "No bank account linked"
		payment.RequiresAction = true
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			zap.L().Error("can't persist missing-credentials failure", zap.Error(err))
		}
		return outcomeFailed
	}

	// Claim before calling out: a webhook or reconciliation pass arriving
	// mid-call sees pending, not scheduled, and will not re-initiate.
	payment.Status = domain.PaymentStatusPending
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		payment.FailureReason = err.Error()
		return outcomeFailed
	}

	transfer, err := s.transfers.InitiateTransfer(ctx, plaid.TransferRequest{
		AccountNumber:  ach.Account,
		RoutingNumber:  ach.Routing,
		Amount:         payment.Amount,
		Description:    fmt.Sprintf("Loan payment %d", payment.PaymentNumber),
		IdempotencyKey: payment.ID,
	})
	if err != nil {
		s.metrics.IncProviderError()
		zap.L().Error("transfer initiation failed",
			zap.String("paymentID", payment.ID),
			zap.Error(err))

		payment.FailureReason = err.Error()
		payment.FailureCode = "processing_error"
		if s.retryPolicy.ScheduleRetry(payment) {
			if err := s.paymentRepo.Update(ctx, payment); err != nil {
				zap.L().Error("can't persist retry schedule", zap.Error(err))
				return outcomeFailed
			}
			return outcomeRetryScheduled
		}

		payment.Status = domain.PaymentStatusFailed
		payment.RequiresAction = true
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			zap.L().Error("can't persist initiation failure", zap.Error(err))
		}
		return outcomeFailed
	}

	payment.PlaidTransferID = transfer.ID
	if mapped := mapProviderStatus(transfer.Status); mapped == domain.PaymentStatusProcessing {
		payment.Status = domain.PaymentStatusProcessing
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		zap.L().Error("can't record transfer id", zap.Error(err))
		return outcomeFailed
	}

	zap.L().Info("transfer initiated",
		zap.String("paymentID", payment.ID),
		zap.String("transferID", transfer.ID),
		zap.String("amount", payment.Amount.String()))
	return outcomeInitiated
}

// resolveACHNumbers walks payment -> loan -> application -> bank link.
// (nil, nil) means the borrower has no usable settlement credentials.
func (s *Service) resolveACHNumbers(ctx context.Context, loanID string) (*domain.ACHNumbers, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, fmt.Errorf("loan %s not found", loanID)
	}
	app, err := s.appRepo.FindByID(ctx, loan.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.BankLink == nil || app.BankLink.ACHNumbers == nil {
		return nil, nil
	}
	return app.BankLink.ACHNumbers, nil
}

// syncInFlightTransfers refreshes local state for every transfer the
// provider is still moving money for, after re-queueing any payment a crash
// left claimed without a transfer id.
func (s *Service) syncInFlightTransfers(ctx context.Context) SyncResult {
	var res SyncResult

	released, err := s.paymentRepo.ReleaseStuckPending(ctx)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
	} else if released > 0 {
		zap.L().Warn("re-queued payments stranded in pending", zap.Int("count", released))
		res.Released = released
	}

	inFlight, err := s.paymentRepo.FindInFlight(ctx)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	for i := range inFlight {
		payment := inFlight[i]
		res.Checked++

		transfer, err := s.transfers.GetTransfer(ctx, payment.PlaidTransferID)
		if err != nil {
			s.metrics.IncProviderError()
			res.Errors = append(res.Errors, fmt.Sprintf("transfer %s: %v", payment.PlaidTransferID, err))
			continue
		}
		if transfer == nil {
			zap.L().Warn("in-flight transfer unknown to provider",
				zap.String("paymentID", payment.ID),
				zap.String("transferID", payment.PlaidTransferID))
			continue
		}

		changed, err := s.applyTransferStatus(ctx, &payment, transfer.Status, transfer.FailureReason)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("payment %s: %v", payment.ID, err))
			continue
		}
		if changed {
			res.Updated++
		}
	}
	return res
}
