package webhook

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	paymentservice "github.com/porchfin/lendcore/internal/service/paymentservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

const testSecret = "webhook-secret"

func NewMock(t *testing.T) (*WebhookHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service, testSecret)
	return handler, service
}

func signBody(t *testing.T, body []byte) string {
	t.Helper()
	sum := sha256.Sum256(body)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"request_body_sha256": hex.EncodeToString(sum[:]),
		"iat":                 time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestHandleTransferWebhook(t *testing.T) {
	settledBody := []byte(`{
		"webhook_type": "TRANSFER",
		"webhook_code": "TRANSFER_EVENTS_UPDATE",
		"transfer_events": [
			{"event_id": "evt-1", "transfer_id": "tr-1", "event_type": "settled"}
		]
	}`)
	returnedBody := []byte(`{
		"webhook_type": "TRANSFER",
		"webhook_code": "TRANSFER_EVENTS_UPDATE",
		"transfer_events": [
			{"event_id": "evt-2", "transfer_id": "tr-2", "event_type": "returned",
			 "failure_reason": {"ach_return_code": "R01", "description": "Insufficient funds"}}
		]
	}`)
	directBody := []byte(`{
		"webhook_type": "TRANSFER",
		"webhook_code": "TRANSFER_EVENTS_UPDATE",
		"transfer_id": "tr-3",
		"transfer_status": "settled"
	}`)
	otherCodeBody := []byte(`{"webhook_type": "ITEM", "webhook_code": "ERROR"}`)

	tests := []struct {
		name         string
		body         []byte
		signature    func(t *testing.T, body []byte) string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name:         "Missing signature",
			body:         settledBody,
			signature:    func(*testing.T, []byte) string { return "" },
			prepareMock:  func(*MockService) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Wrong signing key",
			body:         settledBody,
			signature:    func(t *testing.T, body []byte) string { return signWith(t, body, "wrong-secret") },
			prepareMock:  func(*MockService) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Tampered body",
			body:         settledBody,
			signature:    func(t *testing.T, _ []byte) string { return signBody(t, []byte(`{}`)) },
			prepareMock:  func(*MockService) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Stale token",
			body:         settledBody,
			signature:    func(t *testing.T, body []byte) string { return signStale(t, body) },
			prepareMock:  func(*MockService) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:      "Settled event applied",
			body:      settledBody,
			signature: signBody,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					HandleTransferEvent(gomock.Any(), paymentservice.TransferEvent{
						EventID:        "evt-1",
						TransferID:     "tr-1",
						TransferStatus: "settled",
					}).
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:      "Returned event carries failure reason",
			body:      returnedBody,
			signature: signBody,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					HandleTransferEvent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, event paymentservice.TransferEvent) error {
						assert.Equal(t, "returned", event.TransferStatus)
						require.NotNil(t, event.FailureReason)
						assert.Equal(t, "R01", event.FailureReason.ACHReturnCode)
						return nil
					})
			},
			expectedCode: http.StatusOK,
		},
		{
			name:      "Direct transfer_id form",
			body:      directBody,
			signature: signBody,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					HandleTransferEvent(gomock.Any(), paymentservice.TransferEvent{
						TransferID:     "tr-3",
						TransferStatus: "settled",
					}).
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:      "Internal error is still acknowledged",
			body:      settledBody,
			signature: signBody,
			prepareMock: func(service *MockService) {
				service.EXPECT().
					HandleTransferEvent(gomock.Any(), gomock.Any()).
					Return(errors.New("error"))
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Unrelated webhook code ignored",
			body:         otherCodeBody,
			signature:    signBody,
			prepareMock:  func(*MockService) {},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodPost, "/api/webhooks/plaid", bytes.NewReader(tt.body))
			if sig := tt.signature(t, tt.body); sig != "" {
				r.Header.Set("Plaid-Verification", sig)
			}
			w := httptest.NewRecorder()
			handler.HandleTransferWebhook(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func signStale(t *testing.T, body []byte) string {
	t.Helper()
	sum := sha256.Sum256(body)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"request_body_sha256": hex.EncodeToString(sum[:]),
		"iat":                 time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func signWith(t *testing.T, body []byte, secret string) string {
	t.Helper()
	sum := sha256.Sum256(body)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"request_body_sha256": hex.EncodeToString(sum[:]),
		"iat":                 time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
