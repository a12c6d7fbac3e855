package applicationrepo

import (
	"context"
	"encoding/json"
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

func (r *Repository) Save(ctx context.Context, app *domain.Application) error {
	query := `
        INSERT INTO applications (id, job_id, customer_id, status, requested_amount, bank_link, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	bankLink, err := marshalBankLink(app.BankLink)
	if err != nil {
		return err
	}
	err = r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			app.ID, app.JobID, app.CustomerID, app.Status, app.RequestedAmount, bankLink, app.CreatedAt, app.UpdatedAt)
		if err != nil {
			zap.L().Error("can't save application", zap.Error(err))
			return err
		}
		return nil
	})
	return err
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `
        SELECT id, job_id, customer_id, status, requested_amount, bank_link, created_at, updated_at
        FROM applications
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)

	var app domain.Application
	var bankLink []byte
	err := row.Scan(&app.ID, &app.JobID, &app.CustomerID, &app.Status, &app.RequestedAmount, &bankLink, &app.CreatedAt, &app.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find application", zap.Error(err))
		return nil, err
	}
	if len(bankLink) > 0 {
		app.BankLink = &domain.BankLink{}
		if err := json.Unmarshal(bankLink, app.BankLink); err != nil {
			zap.L().Error("can't decode bank link payload", zap.Error(err))
			return nil, err
		}
	}
	return &app, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
        UPDATE applications
        SET status = $1, updated_at = now()
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		zap.L().Error("can't update application status", zap.Error(err))
	}
	return err
}

func marshalBankLink(link *domain.BankLink) ([]byte, error) {
	if link == nil {
		return nil, nil
	}
	data, err := json.Marshal(link)
	if err != nil {
		zap.L().Error("can't encode bank link payload", zap.Error(err))
		return nil, err
	}
	return data, nil
}
