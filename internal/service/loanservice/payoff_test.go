package loanservice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/service/underwriting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

// payoffFixture is a 24-month loan six installments in: the schedule is the
// real amortized one, with payments 1-6 settled.
func payoffFixture() (*domain.Loan, []domain.Payment) {
	loan := &domain.Loan{
		ID:           "loan-1",
		FundedAmount: decimal.NewFromInt(5000),
		APR:          decimal.RequireFromString("9.99"),
		TermMonths:   24,
		FundingDate:  time.Now().AddDate(0, -6, -10),
		Status:       domain.LoanStatusRepaying,
	}
	monthly := underwriting.MonthlyPayment(loan.FundedAmount, loan.APR, loan.TermMonths)
	payments := BuildSchedule(loan, monthly)
	for i := 0; i < 6; i++ {
		completedAt := payments[i].DueDate
		payments[i].Status = domain.PaymentStatusCompleted
		payments[i].CompletedAt = &completedAt
	}
	return loan, payments
}

func TestPayoffQuote_Breakdown(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	loan, payments := payoffFixture()
	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").Return(loan, nil)
	m.payments.EXPECT().FindByLoanID(gomock.Any(), "loan-1").Return(payments, nil)

	quote, err := svc.PayoffQuote(ctx, "loan-1")
	require.NoError(t, err)
	require.NotNil(t, quote)

	assert.NotEmpty(t, quote.QuoteID)
	assert.Equal(t, "loan-1", quote.LoanID)
	assert.Equal(t, 6, quote.Breakdown.PaymentsCompleted)
	assert.Equal(t, 18, quote.Breakdown.PaymentsRemaining)
	assert.True(t, quote.Breakdown.OriginalPrincipal.Equal(loan.FundedAmount))

	wantPrincipalPaid := decimal.Zero
	for i := 0; i < 6; i++ {
		wantPrincipalPaid = wantPrincipalPaid.Add(payments[i].Principal)
	}
	assert.True(t, quote.Breakdown.PrincipalPaid.Equal(wantPrincipalPaid))

	assert.True(t, quote.RemainingPrincipal.IsPositive())
	assert.True(t, quote.RemainingPrincipal.LessThan(loan.FundedAmount))
	assert.True(t, quote.AccruedInterest.IsPositive(),
		"ten days since the last settlement must accrue interest")
	assert.True(t, quote.Fees.IsZero())
	assert.True(t, quote.TotalPayoff.Equal(
		quote.RemainingPrincipal.Add(quote.AccruedInterest).Add(quote.Fees)))
	assert.Equal(t, quote.GeneratedAt.Add(QuoteValidity), quote.ValidUntil)
}

func TestPayoffQuote_CancelledInstallmentsAreNeitherOwedNorPaid(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	loan, payments := payoffFixture()
	payments[23].Status = domain.PaymentStatusCancelled

	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").Return(loan, nil)
	m.payments.EXPECT().FindByLoanID(gomock.Any(), "loan-1").Return(payments, nil)

	quote, err := svc.PayoffQuote(ctx, "loan-1")
	require.NoError(t, err)
	assert.Equal(t, 6, quote.Breakdown.PaymentsCompleted)
	assert.Equal(t, 17, quote.Breakdown.PaymentsRemaining)
}

func TestPayoffQuote_UnknownLoan(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	m.loans.EXPECT().FindByID(gomock.Any(), "loan-missing").Return(nil, nil)

	quote, err := svc.PayoffQuote(ctx, "loan-missing")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestPayoffQuote_SecondCallServedFromCache(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	svc.SetQuoteCache(newMemoryCache())

	loan, payments := payoffFixture()
	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").Return(loan, nil).Times(1)
	m.payments.EXPECT().FindByLoanID(gomock.Any(), "loan-1").Return(payments, nil).Times(1)

	first, err := svc.PayoffQuote(ctx, "loan-1")
	require.NoError(t, err)

	second, err := svc.PayoffQuote(ctx, "loan-1")
	require.NoError(t, err)
	assert.Equal(t, first.QuoteID, second.QuoteID)
	assert.True(t, first.TotalPayoff.Equal(second.TotalPayoff))
}

func TestExecutePayoff(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	loan := &domain.Loan{ID: "loan-1", Status: domain.LoanStatusRepaying, DaysOverdue: 4}
	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").Return(loan, nil)
	m.payments.EXPECT().CancelOutstanding(gomock.Any(), "loan-1").Return(18, nil)
	m.loans.EXPECT().Update(gomock.Any(), loan).Return(nil)

	cancelled, err := svc.ExecutePayoff(ctx, "loan-1")
	require.NoError(t, err)
	assert.Equal(t, 18, cancelled)
	assert.Equal(t, domain.LoanStatusPaidOff, loan.Status)
	assert.Equal(t, 0, loan.DaysOverdue)
}

func TestExecutePayoff_InactiveLoan(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").
		Return(&domain.Loan{ID: "loan-1", Status: domain.LoanStatusPaidOff}, nil)

	_, err := svc.ExecutePayoff(ctx, "loan-1")
	require.ErrorIs(t, err, ErrLoanNotActive)
}

func TestExecutePayoff_UnknownLoan(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	m.loans.EXPECT().FindByID(gomock.Any(), "loan-missing").Return(nil, nil)

	_, err := svc.ExecutePayoff(ctx, "loan-missing")
	require.ErrorIs(t, err, ErrLoanNotFound)
}
