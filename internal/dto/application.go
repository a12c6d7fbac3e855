package dto

import (
	"time"

	"github.com/porchfin/lendcore/internal/domain"
	"github.com/shopspring/decimal"
)

type CustomerDTO struct {
	FirstName string `json:"first_name" example:"Dana"`
	LastName  string `json:"last_name" example:"Reyes"`
	Email     string `json:"email" example:"dana@example.com"`
}

type SubmitApplicationRequestDTO struct {
	JobID           string           `json:"job_id" example:"job-8842"`
	CustomerID      string           `json:"customer_id" example:"cust-1207"`
	RequestedAmount decimal.Decimal  `json:"requested_amount" example:"5000"`
	Customer        CustomerDTO      `json:"customer"`
	BankLink        *domain.BankLink `json:"bank_link,omitempty"`
}

type OfferDTO struct {
	OfferID        string          `json:"offer_id"`
	TermMonths     int             `json:"term_months" example:"24"`
	APR            decimal.Decimal `json:"apr" example:"9.99"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment" example:"230.70"`
	DownPayment    decimal.Decimal `json:"down_payment" example:"0"`
	OriginationFee decimal.Decimal `json:"origination_fee" example:"50"`
	TotalAmount    decimal.Decimal `json:"total_amount" example:"5586.80"`
}

type DecisionResponseDTO struct {
	ApplicationID    string          `json:"application_id"`
	DecisionID       string          `json:"decision_id"`
	Status           string          `json:"status" example:"approved"`
	Score            int             `json:"score" example:"725"`
	MaxLoanAmount    decimal.Decimal `json:"max_loan_amount" example:"5000"`
	Reason           string          `json:"reason"`
	RiskFactors      []string        `json:"risk_factors"`
	PositiveFactors  []string        `json:"positive_factors"`
	EvaluatorVersion string          `json:"evaluator_version" example:"v2"`
	Offers           []OfferDTO      `json:"offers"`
}

type LoanResponseDTO struct {
	LoanID        string          `json:"loan_id"`
	ApplicationID string          `json:"application_id"`
	FundedAmount  decimal.Decimal `json:"funded_amount" example:"5000"`
	APR           decimal.Decimal `json:"apr" example:"9.99"`
	TermMonths    int             `json:"term_months" example:"24"`
	FundingDate   time.Time       `json:"funding_date"`
	Status        string          `json:"status" example:"funded"`
}
