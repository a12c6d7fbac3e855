package loanrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/pg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)

	return repo, mockDB, mockTxManager
}

func loanColumnNames() []string {
	return []string{
		"id", "application_id", "offer_id", "customer_id", "funded_amount", "apr",
		"term_months", "funding_date", "status", "days_overdue", "defaulted_at",
		"created_at", "updated_at",
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		loanID    string
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name:   "Existing loan",
			loanID: "loan-1",
			mockSetup: func() {
				rows := pgxmock.NewRows(loanColumnNames()).AddRow(
					"loan-1", "app-1", "offer-1", "cust-1", decimal.NewFromInt(5000),
					decimal.RequireFromString("9.99"), 24, now, "repaying", 0, nil, now, now,
				)
				mock.ExpectQuery(regexp.QuoteMeta(`FROM loans`)).
					WithArgs("loan-1").
					WillReturnRows(rows)
			},
			found: true,
		},
		{
			name:   "Missing loan returns nil",
			loanID: "loan-missing",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM loans`)).
					WithArgs("loan-missing").
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:   "Database error",
			loanID: "loan-1",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM loans`)).
					WithArgs("loan-1").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			loan, err := repo.FindByID(context.Background(), tt.loanID)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.found {
				require.NotNil(t, loan)
				assert.Equal(t, "loan-1", loan.ID)
				assert.Equal(t, domain.LoanStatusRepaying, loan.Status)
				assert.Equal(t, 24, loan.TermMonths)
			} else {
				assert.Nil(t, loan)
			}
		})
	}
}

func TestRepository_Save(t *testing.T) {
	repo, mock, txManager := NewMock(t)

	now := time.Now()
	loan := &domain.Loan{
		ID:            "loan-1",
		ApplicationID: "app-1",
		OfferID:       "offer-1",
		CustomerID:    "cust-1",
		FundedAmount:  decimal.NewFromInt(5000),
		APR:           decimal.RequireFromString("9.99"),
		TermMonths:    24,
		FundingDate:   now,
		Status:        domain.LoanStatusFunded,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		})
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO loans`)).
		WithArgs(loan.ID, loan.ApplicationID, loan.OfferID, loan.CustomerID, loan.FundedAmount,
			loan.APR, loan.TermMonths, loan.FundingDate, loan.Status, loan.DaysOverdue,
			loan.CreatedAt, loan.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Save(context.Background(), loan)
	assert.NoError(t, err)
}

func TestRepository_Update(t *testing.T) {
	repo, mock, txManager := NewMock(t)

	defaultedAt := time.Now()
	loan := &domain.Loan{
		ID:          "loan-1",
		Status:      domain.LoanStatusDefaulted,
		DaysOverdue: 61,
		DefaultedAt: &defaultedAt,
	}

	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		})
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE loans`)).
		WithArgs(loan.Status, loan.DaysOverdue, loan.DefaultedAt, loan.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), loan)
	assert.NoError(t, err)
}
