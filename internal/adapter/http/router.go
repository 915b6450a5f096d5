package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadforge/backend/internal/adapter/http/handler"
	"github.com/leadforge/backend/internal/adapter/http/middleware"
	"github.com/leadforge/backend/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	LedgerHandler    *handler.LedgerHandler
	ImportHandler    *handler.ImportHandler
	DealHandler      *handler.DealHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts and their ledger views
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.LedgerHandler.GetBalance)
			r.Get("/{id}/transactions", cfg.LedgerHandler.ListTransactions)
			r.Get("/{id}/verify", cfg.LedgerHandler.Verify)
		})

		// Credit ledger mutations
		r.Route("/credits", func(r chi.Router) {
			r.Post("/add", cfg.LedgerHandler.AddCredits)
			r.Post("/deduct", cfg.LedgerHandler.DeductCredits)
		})

		r.Get("/transactions", cfg.LedgerHandler.ListAllTransactions)

		// Bulk lead imports
		r.Route("/imports", func(r chi.Router) {
			r.Post("/", cfg.ImportHandler.Run)
			r.Get("/", cfg.ImportHandler.List)
			r.Get("/{id}", cfg.ImportHandler.Get)
		})

		// Deals
		r.Route("/deals", func(r chi.Router) {
			r.Post("/", cfg.DealHandler.Create)
			r.Get("/", cfg.DealHandler.List)
			r.Get("/{id}", cfg.DealHandler.Get)
			r.Patch("/{id}/stage", cfg.DealHandler.MoveStage)
		})
	})

	return r
}
