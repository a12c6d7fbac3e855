package repo

import (
	"github.com/porchfin/lendcore/internal/pg"
	applicationrepo "github.com/porchfin/lendcore/internal/repo/application-repo"
	decisionrepo "github.com/porchfin/lendcore/internal/repo/decision-repo"
	loanrepo "github.com/porchfin/lendcore/internal/repo/loan-repo"
	paymentrepo "github.com/porchfin/lendcore/internal/repo/payment-repo"
)

// Repositories holds the concrete repositories. The payment and loan repos
// back more than one service, so the aggregator keeps the concrete types and
// each service narrows them through its own interface.
type Repositories struct {
	ApplicationRepo *applicationrepo.Repository
	DecisionRepo    *decisionrepo.Repository
	LoanRepo        *loanrepo.Repository
	PaymentRepo     *paymentrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		ApplicationRepo: applicationrepo.New(conn, txManager),
		DecisionRepo:    decisionrepo.New(conn, txManager),
		LoanRepo:        loanrepo.New(conn, txManager),
		PaymentRepo:     paymentrepo.New(conn, txManager),
	}
}
