package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/porchfin/lendcore/internal/config"
	applicationshandlers "github.com/porchfin/lendcore/internal/handlers/applications"
	jobshandlers "github.com/porchfin/lendcore/internal/handlers/jobs"
	payoffhandlers "github.com/porchfin/lendcore/internal/handlers/payoff"
	webhookhandlers "github.com/porchfin/lendcore/internal/handlers/webhook"
	"github.com/porchfin/lendcore/internal/observability"
	"github.com/porchfin/lendcore/internal/service"
	"github.com/porchfin/lendcore/pkg/auth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ApplicationsHandler interface {
	SubmitApplication(w http.ResponseWriter, r *http.Request)
	SelectOffer(w http.ResponseWriter, r *http.Request)
}

type JobsHandler interface {
	ProcessPayments(w http.ResponseWriter, r *http.Request)
	QueueStats(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	HandleTransferWebhook(w http.ResponseWriter, r *http.Request)
}

type PayoffHandler interface {
	GetQuote(w http.ResponseWriter, r *http.Request)
	Execute(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	ApplicationsHandler ApplicationsHandler
	JobsHandler         JobsHandler
	WebhookHandler      WebhookHandler
	PayoffHandler       PayoffHandler

	cfg     *config.Config
	metrics *observability.Metrics
}

func New(s *service.Services, cfg *config.Config, metrics *observability.Metrics) *Handlers {
	return &Handlers{
		ApplicationsHandler: applicationshandlers.New(s.LoanService),
		JobsHandler:         jobshandlers.New(s.PaymentService),
		WebhookHandler:      webhookhandlers.New(s.PaymentService, cfg.PlaidWebhookSecret),
		PayoffHandler:       payoffhandlers.New(s.LoanService),
		cfg:                 cfg,
		metrics:             metrics,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/applications", h.ApplicationsHandler.SubmitApplication)
		r.Post("/offers/{offerID}/select", h.ApplicationsHandler.SelectOffer)

		r.Route("/loans/{loanID}/payoff", func(r chi.Router) {
			r.Get("/", h.PayoffHandler.GetQuote)
			r.Post("/", h.PayoffHandler.Execute)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Use(auth.SecretMiddleware(h.cfg.JobSecret))
			r.Post("/process-payments", h.JobsHandler.ProcessPayments)
			r.Get("/queue-stats", h.JobsHandler.QueueStats)
		})

		r.Post("/webhooks/plaid", h.WebhookHandler.HandleTransferWebhook)
	})

	return r
}
