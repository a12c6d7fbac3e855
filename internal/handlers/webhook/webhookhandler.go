package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/porchfin/lendcore/internal/dto"
	"github.com/porchfin/lendcore/internal/plaid"
	paymentservice "github.com/porchfin/lendcore/internal/service/paymentservice"
	"github.com/porchfin/lendcore/pkg/utils"
	"go.uber.org/zap"
)

// verificationHeader carries the provider's signed JWT for the request body.
const verificationHeader = "Plaid-Verification"

const transferEventsUpdate = "TRANSFER_EVENTS_UPDATE"

type Service interface {
	HandleTransferEvent(ctx context.Context, event paymentservice.TransferEvent) error
}

type WebhookHandler struct {
	paymentService Service
	secret         string
}

func New(paymentService Service, secret string) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		secret:         secret,
	}
}

// HandleTransferWebhook ingests a TRANSFER_EVENTS_UPDATE envelope. Only a
// bad signature earns a non-2xx: internal failures are logged and
// acknowledged, because the periodic sync will converge state and an error
// response just makes the provider redeliver.
func (h *WebhookHandler) HandleTransferWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "can't read request body")
		return
	}

	if err := plaid.VerifyWebhook(h.secret, body, r.Header.Get(verificationHeader)); err != nil {
		zap.L().Warn("webhook verification failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	var req dto.TransferWebhookDTO
	if err := json.Unmarshal(body, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WebhookCode != transferEventsUpdate {
		zap.L().Info("ignoring webhook", zap.String("webhookCode", req.WebhookCode))
		utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "ignored"})
		return
	}

	events := req.TransferEvents
	if len(events) == 0 && req.TransferID != "" {
		events = []dto.TransferEventDTO{{
			TransferID: req.TransferID,
			EventType:  req.TransferStatus,
		}}
	}

	for _, ev := range events {
		event := paymentservice.TransferEvent{
			EventID:        ev.EventID,
			TransferID:     ev.TransferID,
			TransferStatus: ev.EventType,
			Timestamp:      ev.Timestamp,
		}
		if ev.FailureReason != nil {
			event.FailureReason = &plaid.FailureReason{
				ACHReturnCode: ev.FailureReason.ACHReturnCode,
				Description:   ev.FailureReason.Description,
			}
		}
		if err := h.paymentService.HandleTransferEvent(r.Context(), event); err != nil {
			zap.L().Error("can't apply transfer event",
				zap.String("eventID", ev.EventID),
				zap.String("transferID", ev.TransferID),
				zap.Error(err))
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "ok"})
}
