package loanrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) Save(ctx context.Context, loan *domain.Loan) error {
	query := `
        INSERT INTO loans (id, application_id, offer_id, customer_id, funded_amount, apr, term_months, funding_date, status, days_overdue, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			loan.ID, loan.ApplicationID, loan.OfferID, loan.CustomerID, loan.FundedAmount, loan.APR,
			loan.TermMonths, loan.FundingDate, loan.Status, loan.DaysOverdue, loan.CreatedAt, loan.UpdatedAt)
		if err != nil {
			zap.L().Error("can't save loan", zap.Error(err))
			return err
		}
		return nil
	})
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	query := `
        SELECT id, application_id, offer_id, customer_id, funded_amount, apr, term_months, funding_date, status, days_overdue, defaulted_at, created_at, updated_at
        FROM loans
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)

	var loan domain.Loan
	err := row.Scan(&loan.ID, &loan.ApplicationID, &loan.OfferID, &loan.CustomerID, &loan.FundedAmount,
		&loan.APR, &loan.TermMonths, &loan.FundingDate, &loan.Status, &loan.DaysOverdue,
		&loan.DefaultedAt, &loan.CreatedAt, &loan.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find loan", zap.Error(err))
		return nil, err
	}
	return &loan, nil
}

func (r *Repository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
        UPDATE loans
        SET status = $1, days_overdue = $2, defaulted_at = $3, updated_at = now()
        WHERE id = $4
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query, loan.Status, loan.DaysOverdue, loan.DefaultedAt, loan.ID)
		if err != nil {
			zap.L().Error("can't update loan", zap.Error(err))
			return err
		}
		return nil
	})
}
