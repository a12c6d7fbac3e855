package underwriting

import (
	"fmt"
	"strings"

	"github.com/porchfin/lendcore/internal/domain"
	"github.com/shopspring/decimal"
)

// EvaluatorVersion tags every decision so a score can be replayed against
// the rule set that produced it.
const EvaluatorVersion = "v2"

const (
	baseScore         = 650
	minScore          = 300
	maxScore          = 850
	approvalThreshold = 620

	strongReservesBonus   = 40
	moderateReservesBonus = 20
	lowReservesPenalty    = 30
	largeBalanceBonus     = 15
	achVerifiedBonus      = 10
	majorInstitutionBonus = 10
	multiAccountBonus     = 10
	manualEntryPenalty    = 50
)

var (
	lowBalanceFloor    = decimal.NewFromInt(1000)
	largeBalanceFloor  = decimal.NewFromInt(10000)
	manualEntryCeiling = decimal.NewFromInt(5000)

	strongReservesRatio   = decimal.NewFromFloat(0.5)
	moderateReservesRatio = decimal.NewFromFloat(0.1)
)

var majorInstitutions = []string{
	"chase",
	"bank of america",
	"wells fargo",
	"citi",
	"u.s. bank",
	"us bank",
	"capital one",
	"pnc",
	"td bank",
	"truist",
}

type CustomerInfo struct {
	FirstName string
	LastName  string
	Email     string
}

type Result struct {
	Approved        bool
	Score           int
	MaxLoanAmount   decimal.Decimal
	Reason          string
	RiskFactors     []string
	PositiveFactors []string
	DataUsed        []string
}

// Decide scores a financing request from linked-bank-account signals.
// It is pure: no I/O, deterministic for a given input. A nil or empty bank
// payload is a thin file, not an error.
func Decide(loanAmount decimal.Decimal, bank *domain.BankLink, customer CustomerInfo) Result {
	if bank == nil {
		bank = &domain.BankLink{}
	}

	res := Result{
		Score:           baseScore,
		RiskFactors:     []string{},
		PositiveFactors: []string{},
		DataUsed:        []string{},
	}

	if bank.Balance != nil {
		res.DataUsed = append(res.DataUsed, "balance")
		res.scoreBalance(loanAmount, bank.Balance.Current)
	} else {
		res.RiskFactors = append(res.RiskFactors, "No bank balance data available (thin file)")
	}

	if len(bank.AllAccounts) > 0 {
		res.DataUsed = append(res.DataUsed, "asset_report")
		if len(bank.AllAccounts) > 1 {
			combined := decimal.Zero
			for _, acc := range bank.AllAccounts {
				combined = combined.Add(acc.Current)
			}
			if combined.GreaterThanOrEqual(loanAmount) {
				res.Score += multiAccountBonus
				res.PositiveFactors = append(res.PositiveFactors, "Combined balances across linked accounts cover the loan amount")
			}
		}
	}

	if bank.ACHNumbers != nil {
		res.DataUsed = append(res.DataUsed, "ach_numbers")
		res.Score += achVerifiedBonus
		res.PositiveFactors = append(res.PositiveFactors, "Verified account and routing numbers")
	}

	if isMajorInstitution(bank.Institution) {
		res.Score += majorInstitutionBonus
		res.PositiveFactors = append(res.PositiveFactors, "Account held at a major financial institution")
	}

	if bank.ManualEntry {
		res.Score -= manualEntryPenalty
		res.RiskFactors = append(res.RiskFactors, "Bank account entered manually, not verified")
	}

	if res.Score < minScore {
		res.Score = minScore
	}
	if res.Score > maxScore {
		res.Score = maxScore
	}

	// Unconditional business rule, checked before the score threshold:
	// manually entered bank data caps borrowing at $5,000.
	if bank.ManualEntry && loanAmount.GreaterThan(manualEntryCeiling) {
		res.Approved = false
		res.MaxLoanAmount = decimal.Zero
		res.Reason = fmt.Sprintf("Manually entered bank accounts are limited to $%s in financing", manualEntryCeiling.StringFixed(0))
		return res
	}

	res.Approved = res.Score >= approvalThreshold
	if !res.Approved {
		res.MaxLoanAmount = decimal.Zero
		res.Reason = fmt.Sprintf("Credit score %d is below the approval threshold of %d", res.Score, approvalThreshold)
		return res
	}

	res.MaxLoanAmount = loanAmount
	if bank.ManualEntry && res.MaxLoanAmount.GreaterThan(manualEntryCeiling) {
		res.MaxLoanAmount = manualEntryCeiling
	}
	res.Reason = fmt.Sprintf("Approved with score %d", res.Score)
	return res
}

func (r *Result) scoreBalance(loanAmount, current decimal.Decimal) {
	ratio := decimal.Zero
	if loanAmount.IsPositive() {
		ratio = current.Div(loanAmount)
	}

	switch {
	case ratio.GreaterThanOrEqual(strongReservesRatio):
		r.Score += strongReservesBonus
		r.PositiveFactors = append(r.PositiveFactors, "Strong cash reserves relative to loan amount")
	case ratio.GreaterThanOrEqual(moderateReservesRatio):
		r.Score += moderateReservesBonus
		r.PositiveFactors = append(r.PositiveFactors, "Moderate cash reserves relative to loan amount")
	}

	if current.LessThan(lowBalanceFloor) || ratio.LessThan(moderateReservesRatio) {
		r.Score -= lowReservesPenalty
		r.RiskFactors = append(r.RiskFactors, "Low cash reserves relative to loan amount")
	}

	if current.GreaterThan(largeBalanceFloor) {
		r.Score += largeBalanceBonus
		r.PositiveFactors = append(r.PositiveFactors, "Substantial bank balance")
	}
}

func isMajorInstitution(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, known := range majorInstitutions {
		if strings.Contains(lower, known) {
			return true
		}
	}
	return false
}
