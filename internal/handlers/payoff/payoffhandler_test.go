package payoff

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/porchfin/lendcore/internal/dto"
	loanservice "github.com/porchfin/lendcore/internal/service/loanservice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*PayoffHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func withLoanID(r *http.Request, loanID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("loanID", loanID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetQuoteHandler(t *testing.T) {
	handler, service := NewMock(t)

	now := time.Now()
	quote := &loanservice.PayoffQuote{
		QuoteID:            "quote-1",
		LoanID:             "loan-1",
		RemainingPrincipal: decimal.RequireFromString("3912.44"),
		AccruedInterest:    decimal.RequireFromString("10.71"),
		Fees:               decimal.Zero,
		TotalPayoff:        decimal.RequireFromString("3923.15"),
		GeneratedAt:        now,
		ValidUntil:         now.Add(loanservice.QuoteValidity),
	}

	tests := []struct {
		name         string
		loanID       string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Quote generated",
			loanID: "loan-1",
			prepareMock: func() {
				service.EXPECT().PayoffQuote(gomock.Any(), "loan-1").Return(quote, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Loan not found",
			loanID: "loan-missing",
			prepareMock: func() {
				service.EXPECT().PayoffQuote(gomock.Any(), "loan-missing").Return(nil, nil)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:   "Internal error",
			loanID: "loan-1",
			prepareMock: func() {
				service.EXPECT().PayoffQuote(gomock.Any(), "loan-1").Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/api/loans/"+tt.loanID+"/payoff", nil)
			r = withLoanID(r, tt.loanID)
			w := httptest.NewRecorder()
			handler.GetQuote(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusOK {
				var body loanservice.PayoffQuote
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "quote-1", body.QuoteID)
				assert.True(t, body.TotalPayoff.Equal(quote.TotalPayoff))
			}
		})
	}
}

func TestExecuteHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		loanID       string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Loan paid off",
			loanID: "loan-1",
			prepareMock: func() {
				service.EXPECT().ExecutePayoff(gomock.Any(), "loan-1").Return(18, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Loan not found",
			loanID: "loan-missing",
			prepareMock: func() {
				service.EXPECT().ExecutePayoff(gomock.Any(), "loan-missing").
					Return(0, loanservice.ErrLoanNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:   "Loan already closed",
			loanID: "loan-1",
			prepareMock: func() {
				service.EXPECT().ExecutePayoff(gomock.Any(), "loan-1").
					Return(0, loanservice.ErrLoanNotActive)
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/api/loans/"+tt.loanID+"/payoff", nil)
			r = withLoanID(r, tt.loanID)
			w := httptest.NewRecorder()
			handler.Execute(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusOK {
				var body dto.ExecutePayoffResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "loan-1", body.LoanID)
				assert.Equal(t, domain.LoanStatusPaidOff, body.Status)
				assert.Equal(t, 18, body.CancelledPayments)
			}
		})
	}
}
