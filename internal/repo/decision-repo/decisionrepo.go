package decisionrepo

import (
	"context"
	"errors"
	"time"

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

// SaveWithOffers persists a decision and its generated offers atomically.
// A unique index on application_id enforces the one-active-decision rule.
func (r *Repository) SaveWithOffers(ctx context.Context, decision *domain.Decision, offers []domain.Offer) error {
	decisionQuery := `
        INSERT INTO decisions (id, application_id, status, score, max_loan_amount, reason, risk_factors, positive_factors, data_used, evaluator_version, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	offerQuery := `
        INSERT INTO offers (id, decision_id, term_months, apr, monthly_payment, down_payment, origination_fee, total_amount, selected, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, decisionQuery,
			decision.ID, decision.ApplicationID, decision.Status, decision.Score, decision.MaxLoanAmount,
			decision.Reason, decision.RiskFactors, decision.PositiveFactors, decision.DataUsed,
			decision.EvaluatorVersion, decision.CreatedAt)
		if err != nil {
			zap.L().Error("can't save decision", zap.Error(err))
			return err
		}
		for _, offer := range offers {
			_, err := r.db.Exec(ctx, offerQuery,
				offer.ID, offer.DecisionID, offer.TermMonths, offer.APR, offer.MonthlyPayment,
				offer.DownPayment, offer.OriginationFee, offer.TotalAmount, offer.Selected, offer.CreatedAt)
			if err != nil {
				zap.L().Error("can't save offer", zap.Error(err))
				return err
			}
		}
		return nil
	})
}

func (r *Repository) FindByApplicationID(ctx context.Context, applicationID string) (*domain.Decision, error) {
	query := `
        SELECT id, application_id, status, score, max_loan_amount, reason, risk_factors, positive_factors, data_used, evaluator_version, created_at
        FROM decisions
        WHERE application_id = $1
    `
	row := r.db.QueryRow(ctx, query, applicationID)

	var d domain.Decision
	err := row.Scan(&d.ID, &d.ApplicationID, &d.Status, &d.Score, &d.MaxLoanAmount, &d.Reason,
		&d.RiskFactors, &d.PositiveFactors, &d.DataUsed, &d.EvaluatorVersion, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find decision", zap.Error(err))
		return nil, err
	}
	return &d, nil
}

func (r *Repository) FindOfferByID(ctx context.Context, offerID string) (*domain.Offer, error) {
	query := `
        SELECT id, decision_id, term_months, apr, monthly_payment, down_payment, origination_fee, total_amount, selected, selected_at, created_at
        FROM offers
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, offerID)

	var o domain.Offer
	err := row.Scan(&o.ID, &o.DecisionID, &o.TermMonths, &o.APR, &o.MonthlyPayment, &o.DownPayment,
		&o.OriginationFee, &o.TotalAmount, &o.Selected, &o.SelectedAt, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find offer", zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *Repository) FindDecisionByID(ctx context.Context, decisionID string) (*domain.Decision, error) {
	query := `
        SELECT id, application_id, status, score, max_loan_amount, reason, risk_factors, positive_factors, data_used, evaluator_version, created_at
        FROM decisions
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, decisionID)

	var d domain.Decision
	err := row.Scan(&d.ID, &d.ApplicationID, &d.Status, &d.Score, &d.MaxLoanAmount, &d.Reason,
		&d.RiskFactors, &d.PositiveFactors, &d.DataUsed, &d.EvaluatorVersion, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find decision", zap.Error(err))
		return nil, err
	}
	return &d, nil
}

// SelectOffer flips the selected flag once. The partial unique index on
// (decision_id) WHERE selected rejects a second selection.
func (r *Repository) SelectOffer(ctx context.Context, offerID string, selectedAt time.Time) error {
	query := `
        UPDATE offers
        SET selected = TRUE, selected_at = $1
        WHERE id = $2 AND NOT selected
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, selectedAt, offerID)
		if err != nil {
			zap.L().Error("can't select offer", zap.Error(err))
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrOfferAlreadySelected
		}
		return nil
	})
}

var ErrOfferAlreadySelected = errors.New("offer already selected")
