package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/prestaledger/lending-service/internal/interface/http/handler"
	"github.com/prestaledger/lending-service/internal/interface/http/middleware"
)

func NewRouter(handlers *handler.Handlers, adminToken string, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// Routes
	r.Get("/health", handlers.Loan.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Borrower-facing routes, entered through the PIN login.
		r.Post("/clients/login", handlers.Client.Login)
		r.Get("/clients/{client_id}/summary", handlers.Loan.GetAccountSummary)
		r.Get("/loans/{loan_id}/schedule", handlers.Loan.GetSchedule)

		// Back-office routes behind the shared admin token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(adminToken, logger))

			r.Post("/clients", handlers.Client.CreateClient)
			r.Get("/clients", handlers.Client.SearchClients)
			r.Get("/clients/{client_id}", handlers.Client.GetClient)
			r.Put("/clients/{client_id}", handlers.Client.UpdateClient)
			r.Delete("/clients/{client_id}", handlers.Client.DeleteClient)
			r.Get("/clients/{client_id}/loans", handlers.Loan.GetClientLoans)

			r.Post("/loans", handlers.Loan.CreateLoan)
			r.Get("/loans/{loan_id}", handlers.Loan.GetLoan)
			r.Delete("/loans/{loan_id}", handlers.Loan.DeleteLoan)
			r.Get("/loans/{loan_id}/movements", handlers.Loan.GetMovements)
			r.Post("/loans/{loan_id}/payments", handlers.Loan.RecordPayment)
			r.Post("/loans/{loan_id}/late-charges", handlers.Loan.ApplyLateCharge)
			r.Post("/loans/{loan_id}/refinance", handlers.Loan.Refinance)

			r.Get("/reports/portfolio", handlers.Report.GetPortfolioSummary)
			r.Get("/reports/balances", handlers.Report.GetClientBalances)
			r.Get("/reports/portfolio/export", handlers.Report.ExportPortfolioCSV)
			r.Post("/fund/withdrawals", handlers.Report.WithdrawFund)
		})
	})

	return r
}
