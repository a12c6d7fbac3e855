package underwriting

import (
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/shopspring/decimal"
)

var offerTerms = [3]int{24, 48, 60}

// aprByTier maps a score tier to APRs for the standard terms, ordered as
// offerTerms. Rates are non-increasing in score and non-decreasing in term.
var aprTiers = []struct {
	minScore int
	aprs     [3]float64
}{
	{750, [3]float64{7.99, 8.99, 9.99}},
	{700, [3]float64{9.99, 10.99, 11.99}},
	{650, [3]float64{12.99, 13.99, 14.99}},
	{0, [3]float64{15.99, 16.99, 17.99}},
}

// Origination fee percentage by term: shorter terms carry the higher fee,
// the longest standard term carries none.
var originationFeePct = map[int]float64{
	24: 1.0,
	48: 0.5,
	60: 0.0,
}

const (
	// Below this score the 60-month term requires a down payment.
	downPaymentScoreThreshold = 680
	downPaymentRate           = 0.10
	downPaymentTerm           = 60
)

// GenerateOffers builds the standard amortized offer set for an approved
// decision. Declined decisions get no offers. IDs and decision linkage are
// assigned by the caller at persistence time.
func GenerateOffers(loanAmount decimal.Decimal, score int, approved bool) []domain.Offer {
	if !approved {
		return []domain.Offer{}
	}

	aprs := aprsForScore(score)
	offers := make([]domain.Offer, 0, len(offerTerms))

	for i, term := range offerTerms {
		apr := decimal.NewFromFloat(aprs[i])

		downPayment := decimal.Zero
		if term == downPaymentTerm && score < downPaymentScoreThreshold {
			downPayment = loanAmount.Mul(decimal.NewFromFloat(downPaymentRate)).Round(2)
		}

		principal := loanAmount.Sub(downPayment)
		monthly := MonthlyPayment(principal, apr, term)

		offers = append(offers, domain.Offer{
			TermMonths:     term,
			APR:            apr,
			MonthlyPayment: monthly,
			DownPayment:    downPayment,
			OriginationFee: loanAmount.Mul(decimal.NewFromFloat(originationFeePct[term] / 100)).Round(2),
			TotalAmount:    monthly.Mul(decimal.NewFromInt(int64(term))).Add(downPayment).Round(2),
		})
	}

	return offers
}

func aprsForScore(score int) [3]float64 {
	for _, tier := range aprTiers {
		if score >= tier.minScore {
			return tier.aprs
		}
	}
	return aprTiers[len(aprTiers)-1].aprs
}

// MonthlyPayment computes the standard amortizing-loan payment
// M = P*r*(1+r)^n / ((1+r)^n - 1) for a monthly rate r = apr/100/12.
// A zero rate degenerates to straight-line P/n.
func MonthlyPayment(principal, apr decimal.Decimal, termMonths int) decimal.Decimal {
	n := decimal.NewFromInt(int64(termMonths))
	if apr.IsZero() {
		return principal.Div(n).Round(2)
	}

	r := MonthlyRate(apr)
	growth := decimal.NewFromInt(1).Add(r).Pow(n)
	return principal.Mul(r).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1))).Round(2)
}

// MonthlyRate converts an APR percentage to the monthly decimal rate.
func MonthlyRate(apr decimal.Decimal) decimal.Decimal {
	return apr.Div(decimal.NewFromInt(1200))
}
