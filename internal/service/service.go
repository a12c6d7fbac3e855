package service

import (
	"github.com/porchfin/lendcore/internal/config"
	"github.com/porchfin/lendcore/internal/observability"
	"github.com/porchfin/lendcore/internal/repo"
	loanservice "github.com/porchfin/lendcore/internal/service/loanservice"
	paymentservice "github.com/porchfin/lendcore/internal/service/paymentservice"
)

type Services struct {
	LoanService    *loanservice.Service
	PaymentService *paymentservice.Service
}

func New(cfg *config.Config, repo *repo.Repositories, transfers paymentservice.TransferClient, metrics *observability.Metrics) *Services {
	loanService := loanservice.New(repo.ApplicationRepo, repo.DecisionRepo, repo.LoanRepo, repo.PaymentRepo)
	paymentService := paymentservice.New(
		repo.PaymentRepo,
		repo.LoanRepo,
		repo.ApplicationRepo,
		transfers,
		paymentservice.NewRetryPolicy(cfg),
		metrics,
	)

	return &Services{
		LoanService:    loanService,
		PaymentService: paymentService,
	}
}
