package paymentrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/pg"
	"go.uber.org/zap"
)

const paymentColumns = `id, loan_id, payment_number, amount, principal, interest, due_date, status, completed_at, failure_reason, failure_code, requires_action, retry_count, next_retry_date, plaid_transfer_id, created_at, updated_at`

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

// SaveBatch inserts the full installment schedule created at funding time.
func (r *Repository) SaveBatch(ctx context.Context, payments []domain.Payment) error {
	query := `
        INSERT INTO payments (` + paymentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		for _, p := range payments {
			_, err := r.db.Exec(ctx, query,
				p.ID, p.LoanID, p.PaymentNumber, p.Amount, p.Principal, p.Interest, p.DueDate, p.Status,
				p.CompletedAt, p.FailureReason, p.FailureCode, p.RequiresAction, p.RetryCount,
				p.NextRetryDate, p.PlaidTransferID, p.CreatedAt, p.UpdatedAt)
			if err != nil {
				zap.L().Error("can't save payment", zap.Error(err))
				return err
			}
		}
		return nil
	})
}

func (r *Repository) Update(ctx context.Context, p *domain.Payment) error {
	query := `
        UPDATE payments
        SET status = $1, completed_at = $2, failure_reason = $3, failure_code = $4, requires_action = $5,
            retry_count = $6, next_retry_date = $7, plaid_transfer_id = $8, updated_at = now()
        WHERE id = $9
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			p.Status, p.CompletedAt, p.FailureReason, p.FailureCode, p.RequiresAction,
			p.RetryCount, p.NextRetryDate, p.PlaidTransferID, p.ID)
		if err != nil {
			zap.L().Error("can't update payment", zap.Error(err))
			return err
		}
		return nil
	})
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE id = $1
    `
	return r.findOne(ctx, query, id)
}

func (r *Repository) FindByTransferID(ctx context.Context, transferID string) (*domain.Payment, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE plaid_transfer_id = $1
    `
	return r.findOne(ctx, query, transferID)
}

func (r *Repository) FindByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE loan_id = $1
        ORDER BY payment_number ASC
    `
	return r.findMany(ctx, query, loanID)
}

// FindDue selects the batch-job work set: scheduled payments that are due or
// retry-due, on loans that are still actively repaying. Oldest obligations
// first. Once a payment carries a retry schedule its original due date stops
// mattering: only next_retry_date gates re-selection, so the configured
// spacing actually holds.
func (r *Repository) FindDue(ctx context.Context, asOf time.Time) ([]domain.Payment, error) {
	query := `
        SELECT p.` + joinColumns() + `
        FROM payments p
        JOIN loans l ON l.id = p.loan_id
        WHERE p.status = 'scheduled'
          AND ((p.retry_count = 0 AND p.due_date <= $1) OR (p.retry_count > 0 AND p.next_retry_date <= $1))
          AND l.status IN ('funded', 'repaying')
        ORDER BY p.due_date ASC, p.payment_number ASC
    `
	return r.findMany(ctx, query, asOf)
}

// FindInFlight returns payments this system believes the provider is still
// moving money for.
func (r *Repository) FindInFlight(ctx context.Context) ([]domain.Payment, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE status IN ('pending', 'processing')
          AND plaid_transfer_id <> ''
        ORDER BY due_date ASC, payment_number ASC
    `
	return r.findMany(ctx, query)
}

// MarkOverdue ages scheduled payments past the cutoff into overdue, active
// loans only, and reports how many rows changed. Payments waiting out a
// retry interval keep their remaining retry budget instead of aging out.
func (r *Repository) MarkOverdue(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
        UPDATE payments p
        SET status = 'overdue', updated_at = now()
        FROM loans l
        WHERE l.id = p.loan_id
          AND p.status = 'scheduled'
          AND p.due_date < $1
          AND (p.retry_count = 0 OR p.next_retry_date < $1)
          AND l.status IN ('funded', 'repaying')
    `
	var count int
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, cutoff)
		if err != nil {
			zap.L().Error("can't mark payments overdue", zap.Error(err))
			return err
		}
		count = int(tag.RowsAffected())
		return nil
	})
	return count, err
}

// ReleaseStuckPending returns claimed-but-never-initiated payments to the
// work queue. A crash between the pending claim and recording the transfer
// id strands rows in pending with no transfer to reconcile against; transfer
// initiation is idempotent on payment id, so re-queueing them is safe.
func (r *Repository) ReleaseStuckPending(ctx context.Context) (int, error) {
	query := `
        UPDATE payments
        SET status = 'scheduled', updated_at = now()
        WHERE status = 'pending'
          AND plaid_transfer_id = ''
    `
	var count int
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query)
		if err != nil {
			zap.L().Error("can't release stuck pending payments", zap.Error(err))
			return err
		}
		count = int(tag.RowsAffected())
		return nil
	})
	return count, err
}

// FindLoanIDsWithUnresolved lists active loans carrying at least one overdue
// or failed payment. The daily standing sweep walks this set.
func (r *Repository) FindLoanIDsWithUnresolved(ctx context.Context) ([]string, error) {
	query := `
        SELECT DISTINCT p.loan_id
        FROM payments p
        JOIN loans l ON l.id = p.loan_id
        WHERE p.status IN ('overdue', 'failed')
          AND l.status IN ('funded', 'repaying')
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't query loans with unresolved payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CancelOutstanding terminates every non-settled installment of a loan.
// Used by early payoff.
func (r *Repository) CancelOutstanding(ctx context.Context, loanID string) (int, error) {
	query := `
        UPDATE payments
        SET status = 'cancelled', updated_at = now()
        WHERE loan_id = $1
          AND status NOT IN ('completed', 'cancelled')
    `
	var count int
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, loanID)
		if err != nil {
			zap.L().Error("can't cancel outstanding payments", zap.Error(err))
			return err
		}
		count = int(tag.RowsAffected())
		return nil
	})
	return count, err
}

func (r *Repository) QueueStats(ctx context.Context, now time.Time) (*domain.PaymentQueueStats, error) {
	query := `
        SELECT
            COUNT(*) FILTER (WHERE status = 'scheduled' AND due_date::date <= $1::date),
            COUNT(*) FILTER (WHERE status IN ('pending', 'processing')),
            COUNT(*) FILTER (WHERE status = 'overdue'),
            COUNT(*) FILTER (WHERE status = 'failed' AND requires_action),
            COUNT(*) FILTER (WHERE status = 'completed' AND completed_at::date = $1::date)
        FROM payments
    `
	row := r.db.QueryRow(ctx, query, now)

	var stats domain.PaymentQueueStats
	err := row.Scan(&stats.DueToday, &stats.Processing, &stats.Overdue, &stats.RequiresAction, &stats.CompletedToday)
	if err != nil {
		zap.L().Error("can't count payment queue", zap.Error(err))
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, query, args...)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payment", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) findMany(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't query payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			zap.L().Error("can't scan payment row", zap.Error(err))
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.LoanID, &p.PaymentNumber, &p.Amount, &p.Principal, &p.Interest,
		&p.DueDate, &p.Status, &p.CompletedAt, &p.FailureReason, &p.FailureCode, &p.RequiresAction,
		&p.RetryCount, &p.NextRetryDate, &p.PlaidTransferID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func joinColumns() string {
	return `id, p.loan_id, p.payment_number, p.amount, p.principal, p.interest, p.due_date, p.status, p.completed_at, p.failure_reason, p.failure_code, p.requires_action, p.retry_count, p.next_retry_date, p.plaid_transfer_id, p.created_at, p.updated_at`
}
