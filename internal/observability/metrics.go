package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the lending engine.
type Metrics struct {
	// Registry owns these metrics; the /metrics endpoint serves it.
	Registry *prometheus.Registry

	paymentsTotal  *prometheus.CounterVec
	webhookEvents  *prometheus.CounterVec
	providerErrors prometheus.Counter
	loansDefaulted prometheus.Counter
	batchDuration  prometheus.Histogram
}

// NewMetrics creates a dedicated registry and registers all application
// metrics in it. A private registry avoids "duplicate collector" panics when
// NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		paymentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lendcore_payments_total",
				Help: "Payment initiation attempts by outcome.",
			},
			[]string{"outcome"},
		),
		webhookEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lendcore_webhook_events_total",
				Help: "Transfer webhook events by result.",
			},
			[]string{"result"},
		),
		providerErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "lendcore_provider_errors_total",
				Help: "Total errors from the transfer provider.",
			},
		),
		loansDefaulted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "lendcore_loans_defaulted_total",
				Help: "Loans escalated to defaulted.",
			},
		),
		batchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lendcore_payment_batch_duration_seconds",
				Help:    "Duration of the scheduled payment batch.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) IncPayment(outcome string) {
	m.paymentsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncWebhookEvent(result string) {
	m.webhookEvents.WithLabelValues(result).Inc()
}

func (m *Metrics) IncProviderError() {
	m.providerErrors.Inc()
}

func (m *Metrics) IncLoanDefaulted() {
	m.loansDefaulted.Inc()
}

func (m *Metrics) ObserveBatchDuration(d time.Duration) {
	m.batchDuration.Observe(d.Seconds())
}
