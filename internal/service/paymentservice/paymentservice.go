package paymentservice

import (
	"context"
	"errors"
	"time"

	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/observability"
	"github.com/porchfin/lendcore/internal/pg"
	"github.com/porchfin/lendcore/internal/plaid"
)

type PaymentRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindDue(ctx context.Context, asOf time.Time) ([]domain.Payment, error)
	FindInFlight(ctx context.Context) ([]domain.Payment, error)
	ReleaseStuckPending(ctx context.Context) (int, error)
	FindByTransferID(ctx context.Context, transferID string) (*domain.Payment, error)
	FindByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	MarkOverdue(ctx context.Context, cutoff time.Time) (int, error)
	FindLoanIDsWithUnresolved(ctx context.Context) ([]string, error)
	QueueStats(ctx context.Context, now time.Time) (*domain.PaymentQueueStats, error)
}

type LoanRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
}

type ApplicationRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Application, error)
}

type TransferClient interface {
	InitiateTransfer(ctx context.Context, req plaid.TransferRequest) (*plaid.Transfer, error)
	GetTransfer(ctx context.Context, transferID string) (*plaid.Transfer, error)
}

// EventDeduper short-circuits webhook replays before any repository work.
// Deduplication is best effort: the status-compare rule in the reconciler is
// the real idempotency guarantee.
type EventDeduper interface {
	SeenEvent(ctx context.Context, eventID string) (bool, error)
}

// Locker guards against overlapping batch runs.
type Locker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (*pg.AdvisoryLock, error)
}

var ErrProcessorBusy = errors.New("payment batch already running")

type Service struct {
	paymentRepo PaymentRepo
	loanRepo    LoanRepo
	appRepo     ApplicationRepo
	transfers   TransferClient
	retryPolicy *RetryPolicy
	metrics     *observability.Metrics

	dedup  EventDeduper
	locker Locker
}

func New(paymentRepo PaymentRepo, loanRepo LoanRepo, appRepo ApplicationRepo, transfers TransferClient, retryPolicy *RetryPolicy, metrics *observability.Metrics) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		loanRepo:    loanRepo,
		appRepo:     appRepo,
		transfers:   transfers,
		retryPolicy: retryPolicy,
		metrics:     metrics,
	}
}

// SetEventDeduper attaches the optional fast-path webhook dedup cache.
func (s *Service) SetEventDeduper(d EventDeduper) {
	s.dedup = d
}

// SetLocker attaches the optional single-runner guard for the batch job.
func (s *Service) SetLocker(l Locker) {
	s.locker = l
}

// QueueStats reports the servicing queue depth for monitoring.
func (s *Service) QueueStats(ctx context.Context) (*domain.PaymentQueueStats, error) {
	return s.paymentRepo.QueueStats(ctx, time.Now())
}
