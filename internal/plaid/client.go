// Package plaid is the outbound boundary to the bank-transfer provider:
// transfer initiation, status lookup and webhook signature verification.
package plaid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/porchfin/lendcore/internal/config"
	"github.com/porchfin/lendcore/pkg/clients"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	TransferStatusPending   = "pending"
	TransferStatusPosted    = "posted"
	TransferStatusSettled   = "settled"
	TransferStatusCancelled = "cancelled"
	TransferStatusFailed    = "failed"
	TransferStatusReturned  = "returned"
)

var ErrProviderUnavailable = errors.New("transfer provider unavailable")

type TransferRequest struct {
	AccountNumber  string          `json:"account_number"`
	RoutingNumber  string          `json:"routing_number"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type FailureReason struct {
	ACHReturnCode string `json:"ach_return_code"`
	Description   string `json:"description"`
}

type Transfer struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	FailureReason *FailureReason `json:"failure_reason,omitempty"`
}

type Client struct {
	url     string
	client  clients.HTTPClientI
	breaker *gobreaker.CircuitBreaker
}

func NewClient(cfg *config.Config, httpClient clients.HTTPClientI) *Client {
	return &Client{
		url:    cfg.PlaidAddress,
		client: httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "plaid-transfer",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
		}),
	}
}

// InitiateTransfer submits an ACH debit. Transient transport failures are
// retried in-process with short exponential backoff; business-level failures
// come back in the Transfer payload, not as errors.
func (c *Client) InitiateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	var transfer *Transfer
	err = c.withRetry(ctx, func() error {
		statusCode, respBody, _, err := c.client.Post(c.url+"/transfer/create", headers, body)
		if err != nil {
			return retry.RetryableError(err)
		}
		return decodeTransfer(statusCode, respBody, &transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// GetTransfer fetches the provider's current view of a transfer. A transfer
// unknown to the provider yields (nil, nil).
func (c *Client) GetTransfer(ctx context.Context, transferID string) (*Transfer, error) {
	var transfer *Transfer
	err := c.withRetry(ctx, func() error {
		statusCode, respBody, _, err := c.client.Get(c.url+"/transfer/"+transferID, nil)
		if err != nil {
			return retry.RetryableError(err)
		}
		if statusCode == http.StatusNotFound {
			transfer = nil
			return nil
		}
		return decodeTransfer(statusCode, respBody, &transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

func decodeTransfer(statusCode int, respBody []byte, out **Transfer) error {
	if statusCode >= http.StatusInternalServerError {
		return retry.RetryableError(fmt.Errorf("%w: status %d", ErrProviderUnavailable, statusCode))
	}
	if statusCode != http.StatusOK && statusCode != http.StatusCreated {
		return fmt.Errorf("transfer provider rejected request: status %d body %s", statusCode, respBody)
	}

	var transfer Transfer
	if err := json.Unmarshal(respBody, &transfer); err != nil {
		return fmt.Errorf("can't parse transfer response: %w", err)
	}
	*out = &transfer
	return nil
}

// withRetry wraps a call in the circuit breaker and a bounded exponential
// backoff. Only transport-level failures are marked retryable.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, fn()
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			zap.L().Warn("transfer provider circuit open")
			return retry.RetryableError(err)
		}
		return err
	})
}
