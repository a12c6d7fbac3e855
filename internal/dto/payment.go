package dto

type QueueStatsResponseDTO struct {
	DueToday       int `json:"due_today" example:"12"`
	Processing     int `json:"processing" example:"3"`
	Overdue        int `json:"overdue" example:"1"`
	RequiresAction int `json:"requires_action" example:"0"`
	CompletedToday int `json:"completed_today" example:"9"`
}

type ExecutePayoffResponseDTO struct {
	LoanID            string `json:"loan_id"`
	Status            string `json:"status" example:"paid_off"`
	CancelledPayments int    `json:"cancelled_payments" example:"18"`
}
