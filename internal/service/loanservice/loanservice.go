package loanservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/service/underwriting"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ApplicationRepo interface {
	Save(ctx context.Context, app *domain.Application) error
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type DecisionRepo interface {
	SaveWithOffers(ctx context.Context, decision *domain.Decision, offers []domain.Offer) error
	FindByApplicationID(ctx context.Context, applicationID string) (*domain.Decision, error)
	FindDecisionByID(ctx context.Context, decisionID string) (*domain.Decision, error)
	FindOfferByID(ctx context.Context, offerID string) (*domain.Offer, error)
	SelectOffer(ctx context.Context, offerID string, selectedAt time.Time) error
}

type LoanRepo interface {
	Save(ctx context.Context, loan *domain.Loan) error
	FindByID(ctx context.Context, id string) (*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
}

type PaymentRepo interface {
	SaveBatch(ctx context.Context, payments []domain.Payment) error
	FindByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error)
	CancelOutstanding(ctx context.Context, loanID string) (int, error)
}

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrDecisionExists      = errors.New("application already has a decision")
	ErrOfferNotFound       = errors.New("offer not found")
	ErrLoanNotActive       = errors.New("loan is not active")
)

type Service struct {
	appRepo      ApplicationRepo
	decisionRepo DecisionRepo
	loanRepo     LoanRepo
	paymentRepo  PaymentRepo
	quoteCache   Cache
}

func New(appRepo ApplicationRepo, decisionRepo DecisionRepo, loanRepo LoanRepo, paymentRepo PaymentRepo) *Service {
	return &Service{
		appRepo:      appRepo,
		decisionRepo: decisionRepo,
		loanRepo:     loanRepo,
		paymentRepo:  paymentRepo,
	}
}

type SubmitRequest struct {
	JobID           string
	CustomerID      string
	RequestedAmount decimal.Decimal
	BankLink        *domain.BankLink
	Customer        underwriting.CustomerInfo
}

// SubmitApplication records the financing request, runs the decisioning
// engine and persists the decision with its generated offers. A scoring
// breakdown never surfaces as an error to the applicant: it degrades to a
// pending manual-review decision with no offers.
func (s *Service) SubmitApplication(ctx context.Context, req SubmitRequest) (*domain.Decision, []domain.Offer, error) {
	now := time.Now()
	app := &domain.Application{
		ID:              uuid.NewString(),
		JobID:           req.JobID,
		CustomerID:      req.CustomerID,
		Status:          domain.ApplicationStatusSubmitted,
		RequestedAmount: req.RequestedAmount,
		BankLink:        req.BankLink,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.appRepo.Save(ctx, app); err != nil {
		return nil, nil, err
	}

	decision, offers := s.evaluate(app, req.Customer)
	for i := range offers {
		offers[i].ID = uuid.NewString()
		offers[i].DecisionID = decision.ID
		offers[i].CreatedAt = now
	}

	if err := s.decisionRepo.SaveWithOffers(ctx, decision, offers); err != nil {
		zap.L().Error("can't save decision", zap.Error(err))
		return nil, nil, err
	}

	appStatus := domain.ApplicationStatusDeclined
	switch decision.Status {
	case domain.DecisionStatusApproved:
		appStatus = domain.ApplicationStatusApproved
	case domain.DecisionStatusPending:
		appStatus = domain.ApplicationStatusSubmitted
	}
	if appStatus != domain.ApplicationStatusSubmitted {
		if err := s.appRepo.UpdateStatus(ctx, app.ID, appStatus); err != nil {
			return nil, nil, err
		}
	}

	return decision, offers, nil
}

// evaluate wraps the pure engine so an unexpected panic inside scoring
// becomes a manual-review decision instead of a failed submission.
func (s *Service) evaluate(app *domain.Application, customer underwriting.CustomerInfo) (decision *domain.Decision, offers []domain.Offer) {
	now := time.Now()
	decision = &domain.Decision{
		ID:               uuid.NewString(),
		ApplicationID:    app.ID,
		EvaluatorVersion: underwriting.EvaluatorVersion,
		CreatedAt:        now,
	}

	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("decisioning panicked, routing to manual review", zap.Any("panic", rec), zap.String("applicationID", app.ID))
			decision.Status = domain.DecisionStatusPending
			decision.Score = 0
			decision.Reason = "Automated decisioning unavailable, routed to manual review"
			decision.RiskFactors = []string{"Automated decisioning error"}
			decision.PositiveFactors = []string{}
			decision.DataUsed = []string{}
			decision.MaxLoanAmount = decimal.Zero
			offers = []domain.Offer{}
		}
	}()

	res := underwriting.Decide(app.RequestedAmount, app.BankLink, customer)
	decision.Score = res.Score
	decision.MaxLoanAmount = res.MaxLoanAmount
	decision.Reason = res.Reason
	decision.RiskFactors = res.RiskFactors
	decision.PositiveFactors = res.PositiveFactors
	decision.DataUsed = res.DataUsed
	if res.Approved {
		decision.Status = domain.DecisionStatusApproved
	} else {
		decision.Status = domain.DecisionStatusDeclined
	}

	offers = underwriting.GenerateOffers(app.RequestedAmount, res.Score, res.Approved)
	return decision, offers
}

// SelectOffer funds the loan: marks the offer chosen, creates the Loan and
// the full amortized installment schedule in one pass.
func (s *Service) SelectOffer(ctx context.Context, offerID string) (*domain.Loan, error) {
	offer, err := s.decisionRepo.FindOfferByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrOfferNotFound
	}

	decision, err := s.decisionRepo.FindDecisionByID(ctx, offer.DecisionID)
	if err != nil {
		return nil, err
	}
	if decision == nil {
		return nil, fmt.Errorf("offer %s references missing decision %s", offerID, offer.DecisionID)
	}

	app, err := s.appRepo.FindByID(ctx, decision.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}

	now := time.Now()
	if err := s.decisionRepo.SelectOffer(ctx, offerID, now); err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		OfferID:       offer.ID,
		CustomerID:    app.CustomerID,
		FundedAmount:  app.RequestedAmount.Sub(offer.DownPayment),
		APR:           offer.APR,
		TermMonths:    offer.TermMonths,
		FundingDate:   now,
		Status:        domain.LoanStatusFunded,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	schedule := BuildSchedule(loan, offer.MonthlyPayment)
	if err := s.paymentRepo.SaveBatch(ctx, schedule); err != nil {
		return nil, err
	}

	if err := s.appRepo.UpdateStatus(ctx, app.ID, domain.ApplicationStatusFunded); err != nil {
		return nil, err
	}

	zap.L().Info("loan funded",
		zap.String("loanID", loan.ID),
		zap.String("fundedAmount", loan.FundedAmount.String()),
		zap.Int("termMonths", loan.TermMonths))
	return loan, nil
}

// BuildSchedule splits each installment into principal and interest at
// creation time, so downstream payoff math works from exact per-payment
// figures. The final installment absorbs rounding drift.
func BuildSchedule(loan *domain.Loan, monthlyPayment decimal.Decimal) []domain.Payment {
	r := underwriting.MonthlyRate(loan.APR)
	balance := loan.FundedAmount
	now := time.Now()

	payments := make([]domain.Payment, 0, loan.TermMonths)
	for i := 1; i <= loan.TermMonths; i++ {
		interest := balance.Mul(r).Round(2)
		principal := monthlyPayment.Sub(interest)
		if i == loan.TermMonths {
			principal = balance
		}
		amount := principal.Add(interest)
		balance = balance.Sub(principal)

		payments = append(payments, domain.Payment{
			ID:            uuid.NewString(),
			LoanID:        loan.ID,
			PaymentNumber: i,
			Amount:        amount,
			Principal:     principal,
			Interest:      interest,
			DueDate:       loan.FundingDate.AddDate(0, i, 0),
			Status:        domain.PaymentStatusScheduled,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return payments
}
