package paymentservice

import (
	"context"
	"time"

	"github.com/porchfin/lendcore/internal/domain"
	"go.uber.org/zap"
)

// defaultThresholdDays is how long a loan can carry an unresolved payment
// before it is escalated to defaulted.
const defaultThresholdDays = 60

// MarkOverdue ages scheduled payments whose due date has passed, then
// recomputes standing for every loan left with unresolved installments.
// The cutoff is the start of today: a payment is overdue only once its due
// date is fully behind us.
func (s *Service) MarkOverdue(ctx context.Context) (int, error) {
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	count, err := s.paymentRepo.MarkOverdue(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		zap.L().Info("payments marked overdue", zap.Int("count", count))
	}

	loanIDs, err := s.paymentRepo.FindLoanIDsWithUnresolved(ctx)
	if err != nil {
		return count, err
	}
	for _, loanID := range loanIDs {
		if err := s.refreshLoanStanding(ctx, loanID); err != nil {
			zap.L().Error("can't refresh loan standing",
				zap.String("loanID", loanID),
				zap.Error(err))
		}
	}
	return count, nil
}

// refreshLoanStanding recomputes a loan's repayment state from its full
// payment schedule: days overdue from the oldest unresolved installment,
// repaying on first settlement, paid_off when every installment is terminal,
// defaulted past the overdue threshold.
func (s *Service) refreshLoanStanding(ctx context.Context, loanID string) error {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan == nil || !domain.IsActiveLoanStatus(loan.Status) {
		return nil
	}

	payments, err := s.paymentRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return err
	}
	if len(payments) == 0 {
		return nil
	}

	var (
		allTerminal  = true
		anyCompleted bool
		oldestUnres  *time.Time
	)
	for i := range payments {
		p := &payments[i]
		if !domain.IsTerminalPaymentStatus(p.Status) {
			allTerminal = false
		}
		switch p.Status {
		case domain.PaymentStatusCompleted:
			anyCompleted = true
		case domain.PaymentStatusOverdue, domain.PaymentStatusFailed:
			if oldestUnres == nil || p.DueDate.Before(*oldestUnres) {
				due := p.DueDate
				oldestUnres = &due
			}
		}
	}

	status := loan.Status
	daysOverdue := 0
	if oldestUnres != nil {
		daysOverdue = int(time.Since(*oldestUnres).Hours() / 24)
		if daysOverdue < 0 {
			daysOverdue = 0
		}
	}

	switch {
	case allTerminal:
		status = domain.LoanStatusPaidOff
		daysOverdue = 0
	case daysOverdue >= defaultThresholdDays:
		status = domain.LoanStatusDefaulted
	case anyCompleted && loan.Status == domain.LoanStatusFunded:
		status = domain.LoanStatusRepaying
	}

	if status == loan.Status && daysOverdue == loan.DaysOverdue {
		return nil
	}

	loan.DaysOverdue = daysOverdue
	if status == domain.LoanStatusDefaulted && loan.Status != domain.LoanStatusDefaulted {
		now := time.Now()
		loan.DefaultedAt = &now
		s.metrics.IncLoanDefaulted()
		zap.L().Warn("loan defaulted",
			zap.String("loanID", loan.ID),
			zap.Int("daysOverdue", daysOverdue))
	}
	loan.Status = status

	return s.loanRepo.Update(ctx, loan)
}
