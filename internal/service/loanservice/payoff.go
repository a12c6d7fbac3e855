package loanservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/service/underwriting"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteValidity is how long a payoff quote may be honored.
const QuoteValidity = 10 * 24 * time.Hour

var ErrLoanNotFound = errors.New("loan not found")

// Cache is the optional quote cache. Implementations return (nil, nil) on a
// miss; a nil Cache is valid and disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type PayoffQuote struct {
	QuoteID            string          `json:"quote_id"`
	LoanID             string          `json:"loan_id"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
	AccruedInterest    decimal.Decimal `json:"accrued_interest"`
	Fees               decimal.Decimal `json:"fees"`
	TotalPayoff        decimal.Decimal `json:"total_payoff"`
	GeneratedAt        time.Time       `json:"generated_at"`
	ValidUntil         time.Time       `json:"valid_until"`
	Breakdown          PayoffBreakdown `json:"breakdown"`
}

type PayoffBreakdown struct {
	OriginalPrincipal decimal.Decimal `json:"original_principal"`
	PrincipalPaid     decimal.Decimal `json:"principal_paid"`
	InterestPaid      decimal.Decimal `json:"interest_paid"`
	PaymentsCompleted int             `json:"payments_completed"`
	PaymentsRemaining int             `json:"payments_remaining"`
}

// SetQuoteCache attaches an optional cache for payoff quotes.
func (s *Service) SetQuoteCache(c Cache) {
	s.quoteCache = c
}

// PayoffQuote computes the exact amount required to retire the loan today.
// Returns (nil, nil) when the loan does not exist.
func (s *Service) PayoffQuote(ctx context.Context, loanID string) (*PayoffQuote, error) {
	if cached := s.cachedQuote(ctx, loanID); cached != nil {
		return cached, nil
	}

	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, nil
	}

	payments, err := s.paymentRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	quote := buildQuote(loan, payments, time.Now())
	s.storeQuote(ctx, quote)
	return quote, nil
}

func buildQuote(loan *domain.Loan, payments []domain.Payment, now time.Time) *PayoffQuote {
	var (
		completed     int
		remaining     int
		principalPaid = decimal.Zero
		interestPaid  = decimal.Zero
		lastCompleted *time.Time
	)
	for i := range payments {
		p := &payments[i]
		switch p.Status {
		case domain.PaymentStatusCompleted:
			completed++
			principalPaid = principalPaid.Add(p.Principal)
			interestPaid = interestPaid.Add(p.Interest)
			if p.CompletedAt != nil && (lastCompleted == nil || p.CompletedAt.After(*lastCompleted)) {
				lastCompleted = p.CompletedAt
			}
		case domain.PaymentStatusCancelled:
			// neither owed nor paid
		default:
			remaining++
		}
	}

	monthly := underwriting.MonthlyPayment(loan.FundedAmount, loan.APR, loan.TermMonths)
	remainingPrincipal := annuityPresentValue(monthly, loan.APR, remaining)

	anchor := loan.FundingDate
	if lastCompleted != nil {
		anchor = *lastCompleted
	}
	days := int(now.Sub(anchor).Hours() / 24)
	if days < 0 {
		days = 0
	}
	dailyRate := loan.APR.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(365))
	accrued := remainingPrincipal.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))).Round(2)

	fees := decimal.Zero
	return &PayoffQuote{
		QuoteID:            uuid.NewString(),
		LoanID:             loan.ID,
		RemainingPrincipal: remainingPrincipal,
		AccruedInterest:    accrued,
		Fees:               fees,
		TotalPayoff:        remainingPrincipal.Add(accrued).Add(fees),
		GeneratedAt:        now,
		ValidUntil:         now.Add(QuoteValidity),
		Breakdown: PayoffBreakdown{
			OriginalPrincipal: loan.FundedAmount,
			PrincipalPaid:     principalPaid,
			InterestPaid:      interestPaid,
			PaymentsCompleted: completed,
			PaymentsRemaining: remaining,
		},
	}
}

// annuityPresentValue is PV = PMT*(1-(1+r)^-n)/r for the loan's monthly
// rate; a zero rate degenerates to PMT*n.
func annuityPresentValue(monthly, apr decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	count := decimal.NewFromInt(int64(n))
	if apr.IsZero() {
		return monthly.Mul(count).Round(2)
	}

	r := underwriting.MonthlyRate(apr)
	growth := decimal.NewFromInt(1).Add(r).Pow(count)
	discount := decimal.NewFromInt(1).Sub(decimal.NewFromInt(1).Div(growth))
	return monthly.Mul(discount).Div(r).Round(2)
}

// ExecutePayoff settles the loan early: cancels every installment that has
// not completed and marks the loan paid off. Returns the number of cancelled
// installments.
func (s *Service) ExecutePayoff(ctx context.Context, loanID string) (int, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return 0, err
	}
	if loan == nil {
		return 0, ErrLoanNotFound
	}
	if !domain.IsActiveLoanStatus(loan.Status) {
		return 0, ErrLoanNotActive
	}

	cancelled, err := s.paymentRepo.CancelOutstanding(ctx, loanID)
	if err != nil {
		return 0, err
	}

	loan.Status = domain.LoanStatusPaidOff
	loan.DaysOverdue = 0
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return cancelled, err
	}

	zap.L().Info("loan paid off early", zap.String("loanID", loanID), zap.Int("cancelledPayments", cancelled))
	return cancelled, nil
}

func quoteCacheKey(loanID string) string {
	return "payoff-quote:" + loanID
}

func (s *Service) cachedQuote(ctx context.Context, loanID string) *PayoffQuote {
	if s.quoteCache == nil {
		return nil
	}
	data, err := s.quoteCache.Get(ctx, quoteCacheKey(loanID))
	if err != nil {
		zap.L().Warn("quote cache read failed", zap.Error(err))
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var quote PayoffQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil
	}
	if time.Now().After(quote.ValidUntil) {
		return nil
	}
	return &quote
}

func (s *Service) storeQuote(ctx context.Context, quote *PayoffQuote) {
	if s.quoteCache == nil {
		return
	}
	data, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := s.quoteCache.Set(ctx, quoteCacheKey(quote.LoanID), data, QuoteValidity); err != nil {
		zap.L().Warn("quote cache write failed", zap.Error(err))
	}
}
