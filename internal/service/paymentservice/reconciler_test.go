package paymentservice

import (
	"context"
	"testing"
	"time"

	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/observability"
	"github.com/porchfin/lendcore/internal/plaid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceMocks struct {
	payments  *MockPaymentRepo
	loans     *MockLoanRepo
	apps      *MockApplicationRepo
	transfers *MockTransferClient
}

func newTestService(t *testing.T) (*Service, *serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &serviceMocks{
		payments:  NewMockPaymentRepo(ctrl),
		loans:     NewMockLoanRepo(ctrl),
		apps:      NewMockApplicationRepo(ctrl),
		transfers: NewMockTransferClient(ctrl),
	}
	svc := New(m.payments, m.loans, m.apps, m.transfers,
		NewRetryPolicy(testRetryConfig()), observability.NewMetrics())
	return svc, m
}

func TestHandleTransferEvent_SettledMovesLoanToRepaying(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	payment := &domain.Payment{
		ID:              "pmt-1",
		LoanID:          "loan-1",
		PaymentNumber:   1,
		Status:          domain.PaymentStatusProcessing,
		PlaidTransferID: "tr-1",
	}
	loan := &domain.Loan{ID: "loan-1", Status: domain.LoanStatusFunded}

	m.payments.EXPECT().FindByTransferID(gomock.Any(), "tr-1").Return(payment, nil)
	m.payments.EXPECT().Update(gomock.Any(), payment).Return(nil)
	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").Return(loan, nil)
	m.payments.EXPECT().FindByLoanID(gomock.Any(), "loan-1").Return([]domain.Payment{
		{ID: "pmt-1", Status: domain.PaymentStatusCompleted},
		{ID: "pmt-2", Status: domain.PaymentStatusScheduled},
	}, nil)
	m.loans.EXPECT().Update(gomock.Any(), loan).Return(nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		EventID:        "evt-1",
		TransferID:     "tr-1",
		TransferStatus: plaid.TransferStatusSettled,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, payment.CompletedAt)
	assert.Equal(t, domain.LoanStatusRepaying, loan.Status)
	assert.Equal(t, 0, loan.DaysOverdue)
}

func TestHandleTransferEvent_LastSettlementClosesLoan(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	payment := &domain.Payment{
		ID:              "pmt-24",
		LoanID:          "loan-1",
		PaymentNumber:   24,
		Status:          domain.PaymentStatusProcessing,
		PlaidTransferID: "tr-24",
	}
	loan := &domain.Loan{ID: "loan-1", Status: domain.LoanStatusRepaying}

	m.payments.EXPECT().FindByTransferID(gomock.Any(), "tr-24").Return(payment, nil)
	m.payments.EXPECT().Update(gomock.Any(), payment).Return(nil)
	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").Return(loan, nil)
	m.payments.EXPECT().FindByLoanID(gomock.Any(), "loan-1").Return([]domain.Payment{
		{ID: "pmt-23", Status: domain.PaymentStatusCompleted},
		{ID: "pmt-24", Status: domain.PaymentStatusCompleted},
	}, nil)
	m.loans.EXPECT().Update(gomock.Any(), loan).Return(nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		TransferID:     "tr-24",
		TransferStatus: plaid.TransferStatusSettled,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPaidOff, loan.Status)
}

func TestHandleTransferEvent_ReplayIsNoop(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	completedAt := time.Now().Add(-time.Hour)
	payment := &domain.Payment{
		ID:              "pmt-1",
		LoanID:          "loan-1",
		Status:          domain.PaymentStatusCompleted,
		CompletedAt:     &completedAt,
		PlaidTransferID: "tr-1",
	}

	m.payments.EXPECT().FindByTransferID(gomock.Any(), "tr-1").Return(payment, nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		TransferID:     "tr-1",
		TransferStatus: plaid.TransferStatusSettled,
	})
	require.NoError(t, err)
	assert.Equal(t, completedAt, *payment.CompletedAt, "replay must not touch the payment")
}

func TestHandleTransferEvent_TerminalStatusNeverRegresses(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	payment := &domain.Payment{
		ID:              "pmt-1",
		Status:          domain.PaymentStatusCompleted,
		PlaidTransferID: "tr-1",
	}

	m.payments.EXPECT().FindByTransferID(gomock.Any(), "tr-1").Return(payment, nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		TransferID:     "tr-1",
		TransferStatus: plaid.TransferStatusReturned,
		FailureReason:  &plaid.FailureReason{ACHReturnCode: "R01"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
}

func TestHandleTransferEvent_OutOfOrderStatusIgnored(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	// A settled report for a payment still scheduled means events arrived
	// before the initiation write landed. Drop it; sync will catch up.
	payment := &domain.Payment{
		ID:              "pmt-1",
		Status:          domain.PaymentStatusScheduled,
		PlaidTransferID: "tr-1",
	}
	m.payments.EXPECT().FindByTransferID(gomock.Any(), "tr-1").Return(payment, nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		TransferID:     "tr-1",
		TransferStatus: plaid.TransferStatusSettled,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusScheduled, payment.Status)
}

func TestHandleTransferEvent_UnknownTransfer(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	m.payments.EXPECT().FindByTransferID(gomock.Any(), "tr-missing").Return(nil, nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		TransferID:     "tr-missing",
		TransferStatus: plaid.TransferStatusSettled,
	})
	require.NoError(t, err, "unknown transfers must not make the provider retry")
}

func TestHandleTransferEvent_DedupShortCircuits(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	dedup := NewMockEventDeduper(ctrl)
	svc.SetEventDeduper(dedup)

	dedup.EXPECT().SeenEvent(gomock.Any(), "evt-1").Return(true, nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		EventID:        "evt-1",
		TransferID:     "tr-1",
		TransferStatus: plaid.TransferStatusSettled,
	})
	require.NoError(t, err)
	// No repository expectations: a replayed event must not touch storage.
}

func TestHandleTransferEvent_ReturnedRetryableSchedulesRetry(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	payment := &domain.Payment{
		ID:              "pmt-1",
		LoanID:          "loan-1",
		Status:          domain.PaymentStatusProcessing,
		PlaidTransferID: "tr-1",
	}
	loan := &domain.Loan{ID: "loan-1", Status: domain.LoanStatusRepaying}

	m.payments.EXPECT().FindByTransferID(gomock.Any(), "tr-1").Return(payment, nil)
	m.payments.EXPECT().Update(gomock.Any(), payment).Return(nil)
	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").Return(loan, nil)
	m.payments.EXPECT().FindByLoanID(gomock.Any(), "loan-1").Return([]domain.Payment{
		{ID: "pmt-1", Status: domain.PaymentStatusScheduled},
	}, nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		TransferID:     "tr-1",
		TransferStatus: plaid.TransferStatusReturned,
		FailureReason:  &plaid.FailureReason{ACHReturnCode: "R01", Description: "Insufficient funds"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusScheduled, payment.Status)
	assert.Equal(t, 1, payment.RetryCount)
	require.NotNil(t, payment.NextRetryDate)
	assert.Equal(t, "R01", payment.FailureCode)
	assert.False(t, payment.RequiresAction)
}

func TestHandleTransferEvent_TerminalReturnCodeFlagsAction(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	dueDate := time.Now().AddDate(0, 0, -10)
	payment := &domain.Payment{
		ID:              "pmt-1",
		LoanID:          "loan-1",
		Status:          domain.PaymentStatusProcessing,
		DueDate:         dueDate,
		PlaidTransferID: "tr-1",
	}
	loan := &domain.Loan{ID: "loan-1", Status: domain.LoanStatusRepaying}

	m.payments.EXPECT().FindByTransferID(gomock.Any(), "tr-1").Return(payment, nil)
	m.payments.EXPECT().Update(gomock.Any(), payment).Return(nil)
	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").Return(loan, nil)
	m.payments.EXPECT().FindByLoanID(gomock.Any(), "loan-1").Return([]domain.Payment{
		{ID: "pmt-1", Status: domain.PaymentStatusFailed, DueDate: dueDate},
	}, nil)
	m.loans.EXPECT().Update(gomock.Any(), loan).Return(nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		TransferID:     "tr-1",
		TransferStatus: plaid.TransferStatusReturned,
		FailureReason:  &plaid.FailureReason{ACHReturnCode: "R02", Description: "Account closed"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	assert.True(t, payment.RequiresAction)
	assert.Equal(t, 10, loan.DaysOverdue)
	assert.Equal(t, domain.LoanStatusRepaying, loan.Status)
}

func TestHandleTransferEvent_DefaultsLoanPastThreshold(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	dueDate := time.Now().AddDate(0, 0, -61)
	payment := &domain.Payment{
		ID:              "pmt-1",
		LoanID:          "loan-1",
		Status:          domain.PaymentStatusProcessing,
		DueDate:         dueDate,
		PlaidTransferID: "tr-1",
	}
	loan := &domain.Loan{ID: "loan-1", Status: domain.LoanStatusRepaying}

	m.payments.EXPECT().FindByTransferID(gomock.Any(), "tr-1").Return(payment, nil)
	m.payments.EXPECT().Update(gomock.Any(), payment).Return(nil)
	m.loans.EXPECT().FindByID(gomock.Any(), "loan-1").Return(loan, nil)
	m.payments.EXPECT().FindByLoanID(gomock.Any(), "loan-1").Return([]domain.Payment{
		{ID: "pmt-1", Status: domain.PaymentStatusFailed, DueDate: dueDate},
	}, nil)
	m.loans.EXPECT().Update(gomock.Any(), loan).Return(nil)

	err := svc.HandleTransferEvent(ctx, TransferEvent{
		TransferID:     "tr-1",
		TransferStatus: plaid.TransferStatusReturned,
		FailureReason:  &plaid.FailureReason{ACHReturnCode: "R02", Description: "Account closed"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusDefaulted, loan.Status)
	require.NotNil(t, loan.DefaultedAt)
	assert.GreaterOrEqual(t, loan.DaysOverdue, defaultThresholdDays)
}
