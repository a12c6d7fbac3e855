package jobs

import (
	"context"
	"errors"
	"net/http"

	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/dto"
	paymentservice "github.com/porchfin/lendcore/internal/service/paymentservice"
	"github.com/porchfin/lendcore/pkg/utils"
)

type Service interface {
	ProcessDuePayments(ctx context.Context) (*paymentservice.ProcessResult, error)
	QueueStats(ctx context.Context) (*domain.PaymentQueueStats, error)
}

type JobsHandler struct {
	paymentService Service
}

func New(paymentService Service) *JobsHandler {
	return &JobsHandler{
		paymentService: paymentService,
	}
}

// ProcessPayments triggers the payment batch on demand. The internal
// scheduler calls the same service method; this endpoint exists for
// operators and external cron.
func (h *JobsHandler) ProcessPayments(w http.ResponseWriter, r *http.Request) {
	result, err := h.paymentService.ProcessDuePayments(r.Context())
	if err != nil {
		if errors.Is(err, paymentservice.ErrProcessorBusy) {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// QueueStats reports the servicing queue depth.
func (h *JobsHandler) QueueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.paymentService.QueueStats(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.QueueStatsResponseDTO{
		DueToday:       stats.DueToday,
		Processing:     stats.Processing,
		Overdue:        stats.Overdue,
		RequiresAction: stats.RequiresAction,
		CompletedToday: stats.CompletedToday,
	})
}
