package dto

import "time"

// TransferWebhookDTO is the provider's TRANSFER_EVENTS_UPDATE envelope.
// Sandbox deliveries carry a single transfer_id/transfer_status pair instead
// of the transfer_events batch; both shapes are accepted.
type TransferWebhookDTO struct {
	WebhookType    string             `json:"webhook_type" example:"TRANSFER"`
	WebhookCode    string             `json:"webhook_code" example:"TRANSFER_EVENTS_UPDATE"`
	TransferEvents []TransferEventDTO `json:"transfer_events,omitempty"`
	TransferID     string             `json:"transfer_id,omitempty"`
	TransferStatus string             `json:"transfer_status,omitempty" example:"settled"`
}

type TransferEventDTO struct {
	EventID       string            `json:"event_id"`
	TransferID    string            `json:"transfer_id"`
	EventType     string            `json:"event_type" example:"settled"`
	Timestamp     time.Time         `json:"timestamp"`
	FailureReason *FailureReasonDTO `json:"failure_reason,omitempty"`
}

type FailureReasonDTO struct {
	ACHReturnCode string `json:"ach_return_code" example:"R01"`
	Description   string `json:"description" example:"Insufficient funds"`
}
