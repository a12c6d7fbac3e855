package applications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/dto"
	decisionrepo "github.com/porchfin/lendcore/internal/repo/decision-repo"
	loanservice "github.com/porchfin/lendcore/internal/service/loanservice"
	"github.com/porchfin/lendcore/internal/service/underwriting"
	"github.com/porchfin/lendcore/pkg/utils"
)

type Service interface {
	SubmitApplication(ctx context.Context, req loanservice.SubmitRequest) (*domain.Decision, []domain.Offer, error)
	SelectOffer(ctx context.Context, offerID string) (*domain.Loan, error)
}

type ApplicationsHandler struct {
	loanService Service
}

func New(loanService Service) *ApplicationsHandler {
	return &ApplicationsHandler{
		loanService: loanService,
	}
}

// SubmitApplication runs decisioning on a financing request and returns the
// decision with its generated offers.
func (h *ApplicationsHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitApplicationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	if !req.RequestedAmount.IsPositive() {
		utils.RespondWithError(w, http.StatusBadRequest, "requested_amount must be positive")
		return
	}

	decision, offers, err := h.loanService.SubmitApplication(r.Context(), loanservice.SubmitRequest{
		JobID:           req.JobID,
		CustomerID:      req.CustomerID,
		RequestedAmount: req.RequestedAmount,
		BankLink:        req.BankLink,
		Customer: underwriting.CustomerInfo{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
		},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	offerDTOs := make([]dto.OfferDTO, len(offers))
	for i, offer := range offers {
		offerDTOs[i] = dto.OfferDTO{
			OfferID:        offer.ID,
			TermMonths:     offer.TermMonths,
			APR:            offer.APR,
			MonthlyPayment: offer.MonthlyPayment,
			DownPayment:    offer.DownPayment,
			OriginationFee: offer.OriginationFee,
			TotalAmount:    offer.TotalAmount,
		}
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.DecisionResponseDTO{
		ApplicationID:    decision.ApplicationID,
		DecisionID:       decision.ID,
		Status:           decision.Status,
		Score:            decision.Score,
		MaxLoanAmount:    decision.MaxLoanAmount,
		Reason:           decision.Reason,
		RiskFactors:      decision.RiskFactors,
		PositiveFactors:  decision.PositiveFactors,
		EvaluatorVersion: decision.EvaluatorVersion,
		Offers:           offerDTOs,
	})
}

// SelectOffer funds the loan behind a chosen offer and creates its
// installment schedule.
func (h *ApplicationsHandler) SelectOffer(w http.ResponseWriter, r *http.Request) {
	offerID := chi.URLParam(r, "offerID")
	if offerID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "offer id is required")
		return
	}

	loan, err := h.loanService.SelectOffer(r.Context(), offerID)
	if err != nil {
		switch {
		case errors.Is(err, loanservice.ErrOfferNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, decisionrepo.ErrOfferAlreadySelected):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, loanservice.ErrApplicationNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.LoanResponseDTO{
		LoanID:        loan.ID,
		ApplicationID: loan.ApplicationID,
		FundedAmount:  loan.FundedAmount,
		APR:           loan.APR,
		TermMonths:    loan.TermMonths,
		FundingDate:   loan.FundingDate,
		Status:        loan.Status,
	})
}
