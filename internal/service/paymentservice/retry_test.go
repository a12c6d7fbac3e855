package paymentservice

import (
	"testing"
	"time"

	"github.com/porchfin/lendcore/internal/config"
	"github.com/porchfin/lendcore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetryConfig() *config.Config {
	return &config.Config{
		RetryMaxAttempts:     3,
		RetryIntervalsDays:   []int{3, 5, 7},
		RetryableReturnCodes: []string{"R01", "R09", "processing_error"},
	}
}

func TestRetryPolicy_IsRetryable(t *testing.T) {
	policy := NewRetryPolicy(testRetryConfig())

	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "insufficient funds", code: "R01", want: true},
		{name: "uncollected funds", code: "R09", want: true},
		{name: "internal processing error", code: "processing_error", want: true},
		{name: "account closed", code: "R02", want: false},
		{name: "unknown code is terminal", code: "R99", want: false},
		{name: "empty code is terminal", code: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsRetryable(tt.code))
		})
	}
}

func TestRetryPolicy_ScheduleRetry_Spacing(t *testing.T) {
	policy := NewRetryPolicy(testRetryConfig())

	payment := &domain.Payment{
		ID:          "pmt-1",
		Status:      domain.PaymentStatusFailed,
		FailureCode: "R01",
	}

	wantDays := []int{3, 5, 7}
	for attempt, days := range wantDays {
		payment.Status = domain.PaymentStatusFailed
		ok := policy.ScheduleRetry(payment)
		require.True(t, ok, "attempt %d should be allowed", attempt+1)

		assert.Equal(t, attempt+1, payment.RetryCount)
		assert.Equal(t, domain.PaymentStatusScheduled, payment.Status)
		require.NotNil(t, payment.NextRetryDate)
		assert.WithinDuration(t,
			time.Now().Add(time.Duration(days)*24*time.Hour),
			*payment.NextRetryDate,
			time.Minute)
	}

	payment.Status = domain.PaymentStatusFailed
	assert.False(t, policy.ScheduleRetry(payment), "fourth attempt must be refused")
	assert.Equal(t, 3, payment.RetryCount)
}

func TestRetryPolicy_ScheduleRetry_TerminalCode(t *testing.T) {
	policy := NewRetryPolicy(testRetryConfig())

	payment := &domain.Payment{
		ID:          "pmt-2",
		Status:      domain.PaymentStatusFailed,
		FailureCode: "R02",
	}
	assert.False(t, policy.ScheduleRetry(payment))
	assert.Equal(t, 0, payment.RetryCount)
	assert.Nil(t, payment.NextRetryDate)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
}

func TestRetryPolicy_ScheduleRetry_ClampsToLastInterval(t *testing.T) {
	cfg := testRetryConfig()
	cfg.RetryMaxAttempts = 5
	policy := NewRetryPolicy(cfg)

	payment := &domain.Payment{
		ID:          "pmt-3",
		FailureCode: "R09",
		RetryCount:  4,
	}
	require.True(t, policy.ScheduleRetry(payment))
	require.NotNil(t, payment.NextRetryDate)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), *payment.NextRetryDate, time.Minute)
}
