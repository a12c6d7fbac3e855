package payoff

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/dto"
	loanservice "github.com/porchfin/lendcore/internal/service/loanservice"
	"github.com/porchfin/lendcore/pkg/utils"
)

type Service interface {
	PayoffQuote(ctx context.Context, loanID string) (*loanservice.PayoffQuote, error)
	ExecutePayoff(ctx context.Context, loanID string) (int, error)
}

type PayoffHandler struct {
	loanService Service
}

func New(loanService Service) *PayoffHandler {
	return &PayoffHandler{
		loanService: loanService,
	}
}

// GetQuote returns the amount required to retire the loan today.
func (h *PayoffHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loanID")

	quote, err := h.loanService.PayoffQuote(r.Context(), loanID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if quote == nil {
		utils.RespondWithError(w, http.StatusNotFound, "loan not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, quote)
}

// Execute settles the loan early, cancelling all outstanding installments.
func (h *PayoffHandler) Execute(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loanID")

	cancelled, err := h.loanService.ExecutePayoff(r.Context(), loanID)
	if err != nil {
		switch {
		case errors.Is(err, loanservice.ErrLoanNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, loanservice.ErrLoanNotActive):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.ExecutePayoffResponseDTO{
		LoanID:            loanID,
		Status:            domain.LoanStatusPaidOff,
		CancelledPayments: cancelled,
	})
}
