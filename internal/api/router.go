package api

import (
	_ "loan-ledger/docs"
	"loan-ledger/internal/api/handler"
	mw "loan-ledger/internal/api/middleware"
	"loan-ledger/internal/config"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Dependencies are the collaborators the HTTP layer needs. Idempotency is optional;
// RateLimiter is created from config when nil.
type Dependencies struct {
	Ledger      loan.LedgerService
	Customers   customer.CustomerService
	Idempotency *mw.Idempotency
	RateLimiter *mw.RateLimiterMiddleware
}

func SetupRouter(deps Dependencies, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	if deps.RateLimiter == nil {
		deps.RateLimiter = mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger)
	}

	setupMiddleware(router, deps.RateLimiter, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupAuthRoutes(router, cfg, logger)
	setupAPIRoutes(router, deps, cfg, logger)
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, rateLimiter *mw.RateLimiterMiddleware, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(rateLimiter.Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupAPIRoutes(router *chi.Mux, deps Dependencies, cfg *config.Config, logger *slog.Logger) {
	loanHandler := handler.NewLoanHandler(deps.Ledger, logger)
	txHandler := handler.NewTransactionHandler(deps.Ledger, logger)
	customerHandler := handler.NewCustomerHandler(deps.Customers, logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/loan-config", loanHandler.GetLoanConfig)
		r.Post("/calculate-loan", loanHandler.CalculateLoan)
		r.Post("/loan-eligibility", loanHandler.AssessEligibility)

		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
			if deps.Idempotency != nil {
				r.Use(deps.Idempotency.Middleware)
			}

			r.Route("/loans", func(r chi.Router) {
				r.Get("/", loanHandler.ListLoans)
				r.Post("/", loanHandler.CreateLoan)
				r.Get("/active", loanHandler.ListActiveLoans)
				r.Route("/{loanID}", func(r chi.Router) {
					r.Get("/", loanHandler.GetLoan)
					r.Patch("/status", loanHandler.UpdateLoanStatus)
					r.Get("/schedule", loanHandler.GetSchedule)
					r.Get("/statement", loanHandler.GetStatement)
					r.Post("/payments", loanHandler.MakePayment)
				})
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", txHandler.ListTransactions)
				r.Get("/{transactionID}", txHandler.GetTransaction)
			})

			r.Route("/account", func(r chi.Router) {
				r.Get("/balance", txHandler.GetBalance)
				r.Post("/debits", txHandler.CreateDebit)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerHandler.ListCustomers)
				r.Get("/{email}", customerHandler.GetCustomer)
			})
		})
	})
}
