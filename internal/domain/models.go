package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Application struct {
	ID              string          `db:"id"`
	JobID           string          `db:"job_id"`
	CustomerID      string          `db:"customer_id"`
	Status          string          `db:"status"`
	RequestedAmount decimal.Decimal `db:"requested_amount"`
	BankLink        *BankLink       `db:"bank_link"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// BankLink is the linked-bank-account payload attached to an application.
// Every field beyond ManualEntry is optional: a thin file is a valid input
// to decisioning, not an error.
type BankLink struct {
	ManualEntry bool          `json:"manual_entry"`
	Institution string        `json:"institution,omitempty"`
	Balance     *BankBalance  `json:"balance,omitempty"`
	AllAccounts []BankAccount `json:"all_accounts,omitempty"`
	ACHNumbers  *ACHNumbers   `json:"ach_numbers,omitempty"`
}

type BankBalance struct {
	Current   decimal.Decimal  `json:"current"`
	Available *decimal.Decimal `json:"available,omitempty"`
}

type BankAccount struct {
	Name    string          `json:"name"`
	Mask    string          `json:"mask"`
	Current decimal.Decimal `json:"current"`
}

type ACHNumbers struct {
	Account string `json:"account"`
	Routing string `json:"routing"`
}

type Decision struct {
	ID               string          `db:"id"`
	ApplicationID    string          `db:"application_id"`
	Status           string          `db:"status"`
	Score            int             `db:"score"`
	MaxLoanAmount    decimal.Decimal `db:"max_loan_amount"`
	Reason           string          `db:"reason"`
	RiskFactors      []string        `db:"risk_factors"`
	PositiveFactors  []string        `db:"positive_factors"`
	DataUsed         []string        `db:"data_used"`
	EvaluatorVersion string          `db:"evaluator_version"`
	CreatedAt        time.Time       `db:"created_at"`
}

type Offer struct {
	ID             string          `db:"id"`
	DecisionID     string          `db:"decision_id"`
	TermMonths     int             `db:"term_months"`
	APR            decimal.Decimal `db:"apr"`
	MonthlyPayment decimal.Decimal `db:"monthly_payment"`
	DownPayment    decimal.Decimal `db:"down_payment"`
	OriginationFee decimal.Decimal `db:"origination_fee"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	Selected       bool            `db:"selected"`
	SelectedAt     *time.Time      `db:"selected_at"`
	CreatedAt      time.Time       `db:"created_at"`
}

type Loan struct {
	ID            string          `db:"id"`
	ApplicationID string          `db:"application_id"`
	OfferID       string          `db:"offer_id"`
	CustomerID    string          `db:"customer_id"`
	FundedAmount  decimal.Decimal `db:"funded_amount"`
	APR           decimal.Decimal `db:"apr"`
	TermMonths    int             `db:"term_months"`
	FundingDate   time.Time       `db:"funding_date"`
	Status        string          `db:"status"`
	DaysOverdue   int             `db:"days_overdue"`
	DefaultedAt   *time.Time      `db:"defaulted_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// PaymentQueueStats is the monitoring snapshot behind the queue-depth
// endpoint.
type PaymentQueueStats struct {
	DueToday       int
	Processing     int
	Overdue        int
	RequiresAction int
	CompletedToday int
}

type Payment struct {
	ID              string          `db:"id"`
	LoanID          string          `db:"loan_id"`
	PaymentNumber   int             `db:"payment_number"`
	Amount          decimal.Decimal `db:"amount"`
	Principal       decimal.Decimal `db:"principal"`
	Interest        decimal.Decimal `db:"interest"`
	DueDate         time.Time       `db:"due_date"`
	Status          string          `db:"status"`
	CompletedAt     *time.Time      `db:"completed_at"`
	FailureReason   string          `db:"failure_reason"`
	FailureCode     string          `db:"failure_code"`
	RequiresAction  bool            `db:"requires_action"`
	RetryCount      int             `db:"retry_count"`
	NextRetryDate   *time.Time      `db:"next_retry_date"`
	PlaidTransferID string          `db:"plaid_transfer_id"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}
