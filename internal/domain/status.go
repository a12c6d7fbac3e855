package domain

const (
	ApplicationStatusInitiated = "initiated"
	ApplicationStatusSubmitted = "submitted"
	ApplicationStatusApproved  = "approved"
	ApplicationStatusDeclined  = "declined"
	ApplicationStatusFunded    = "funded"
)

const (
	DecisionStatusPending  = "pending"
	DecisionStatusApproved = "approved"
	DecisionStatusDeclined = "declined"
)

const (
	LoanStatusFunded    = "funded"
	LoanStatusRepaying  = "repaying"
	LoanStatusPaidOff   = "paid_off"
	LoanStatusDefaulted = "defaulted"
)

const (
	PaymentStatusScheduled  = "scheduled"
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusOverdue    = "overdue"
	PaymentStatusCancelled  = "cancelled"
)

// paymentTransitions is the allowed payment state machine.
// completed and cancelled are terminal: nothing maps out of them, so a late
// or duplicated provider event can never regress a settled payment.
// failed->scheduled exists only for retry scheduling.
var paymentTransitions = map[string][]string{
	PaymentStatusScheduled:  {PaymentStatusPending, PaymentStatusOverdue, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusFailed:     {PaymentStatusScheduled, PaymentStatusCancelled},
	PaymentStatusOverdue:    {PaymentStatusPending, PaymentStatusCancelled},
}

// CanTransitionPayment reports whether a payment may move from one status to
// another. Same-status "transitions" are not allowed; callers treat them as
// replays and skip the write entirely.
func CanTransitionPayment(from, to string) bool {
	for _, allowed := range paymentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalPaymentStatus reports whether no further transitions exist.
func IsTerminalPaymentStatus(status string) bool {
	return status == PaymentStatusCompleted || status == PaymentStatusCancelled
}

// IsActiveLoanStatus reports whether a loan still has payments in flight.
func IsActiveLoanStatus(status string) bool {
	return status == LoanStatusFunded || status == LoanStatusRepaying
}
