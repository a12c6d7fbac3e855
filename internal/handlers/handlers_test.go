package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/porchfin/lendcore/internal/config"
	"github.com/porchfin/lendcore/internal/observability"
	"github.com/porchfin/lendcore/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	h := New(&service.Services{}, &config.Config{}, observability.NewMetrics())
	assert.NotNil(t, h)
	assert.NotNil(t, h.ApplicationsHandler)
	assert.NotNil(t, h.JobsHandler)
	assert.NotNil(t, h.WebhookHandler)
	assert.NotNil(t, h.PayoffHandler)
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockApplications := NewMockApplicationsHandler(ctrl)
	mockJobs := NewMockJobsHandler(ctrl)
	mockWebhook := NewMockWebhookHandler(ctrl)
	mockPayoff := NewMockPayoffHandler(ctrl)

	mockApplications.EXPECT().SubmitApplication(gomock.Any(), gomock.Any()).AnyTimes()
	mockApplications.EXPECT().SelectOffer(gomock.Any(), gomock.Any()).AnyTimes()
	mockJobs.EXPECT().ProcessPayments(gomock.Any(), gomock.Any()).AnyTimes()
	mockJobs.EXPECT().QueueStats(gomock.Any(), gomock.Any()).AnyTimes()
	mockWebhook.EXPECT().HandleTransferWebhook(gomock.Any(), gomock.Any()).AnyTimes()
	mockPayoff.EXPECT().GetQuote(gomock.Any(), gomock.Any()).AnyTimes()
	mockPayoff.EXPECT().Execute(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		ApplicationsHandler: mockApplications,
		JobsHandler:         mockJobs,
		WebhookHandler:      mockWebhook,
		PayoffHandler:       mockPayoff,
		cfg:                 &config.Config{JobSecret: "job-secret"},
		metrics:             observability.NewMetrics(),
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		name       string
		method     string
		url        string
		authHeader string
		wantStatus int
	}{
		{name: "Health check", method: http.MethodGet, url: "/health", wantStatus: http.StatusOK},
		{name: "Metrics", method: http.MethodGet, url: "/metrics", wantStatus: http.StatusOK},
		{name: "Submit application", method: http.MethodPost, url: "/api/applications", wantStatus: http.StatusOK},
		{name: "Select offer", method: http.MethodPost, url: "/api/offers/offer-1/select", wantStatus: http.StatusOK},
		{name: "Payoff quote", method: http.MethodGet, url: "/api/loans/loan-1/payoff", wantStatus: http.StatusOK},
		{name: "Execute payoff", method: http.MethodPost, url: "/api/loans/loan-1/payoff", wantStatus: http.StatusOK},
		{name: "Plaid webhook", method: http.MethodPost, url: "/api/webhooks/plaid", wantStatus: http.StatusOK},
		{name: "Process payments without secret", method: http.MethodPost, url: "/api/jobs/process-payments", wantStatus: http.StatusUnauthorized},
		{name: "Queue stats without secret", method: http.MethodGet, url: "/api/jobs/queue-stats", wantStatus: http.StatusUnauthorized},
		{name: "Process payments with wrong secret", method: http.MethodPost, url: "/api/jobs/process-payments", authHeader: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "Process payments with secret", method: http.MethodPost, url: "/api/jobs/process-payments", authHeader: "Bearer job-secret", wantStatus: http.StatusOK},
		{name: "Queue stats with secret", method: http.MethodGet, url: "/api/jobs/queue-stats", authHeader: "Bearer job-secret", wantStatus: http.StatusOK},
		{name: "Unknown route", method: http.MethodGet, url: "/api/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
