package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/payrollhq/payroll-backend-go/internal/handler/http/middleware"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	payPeriodHandler PayPeriodHandler,
	payrollHandler PayrollHandler,
	leaveHandler LeaveHandler,
	overtimeHandler OvertimeHandler,
	ledgerHandler LedgerHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/pay-periods", func(r chi.Router) {
				r.Get("/", payPeriodHandler.List)
				r.Post("/", payPeriodHandler.Create)
				r.Get("/{id}", payPeriodHandler.Get)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/settings", func(r chi.Router) {
					r.Get("/", payrollHandler.GetSettings)
					r.Put("/", payrollHandler.UpdateSettings)
				})

				r.Route("/runs", func(r chi.Router) {
					r.Get("/", payrollHandler.ListRuns)
					r.Post("/", payrollHandler.CreateRun)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", payrollHandler.GetRun)
						r.Post("/validate", payrollHandler.RunValidation)
						r.Post("/calculate", payrollHandler.RunCalculation)
						r.Post("/review", payrollHandler.CompleteReview)
						r.Post("/generate", payrollHandler.GeneratePayslips)
						r.Post("/close", payrollHandler.CloseRun)

						r.Get("/payslips", payrollHandler.ListPayslips)
						r.Post("/payslips/{payslipID}/adjustments", payrollHandler.AddAdjustment)
					})
				})

				r.Get("/components", payrollHandler.ListComponents)
				r.Get("/payslips/{id}", payrollHandler.GetPayslip)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Get("/", leaveHandler.List)
				r.Post("/", leaveHandler.Submit)
				r.Post("/{id}/supervisor-approve", leaveHandler.SupervisorApprove)
				r.Post("/{id}/approve", leaveHandler.Approve)
				r.Post("/{id}/reject", leaveHandler.Reject)
				r.Post("/{id}/cancel", leaveHandler.Cancel)
			})

			r.Route("/overtime-requests", func(r chi.Router) {
				r.Get("/", overtimeHandler.List)
				r.Post("/", overtimeHandler.Submit)
				r.Post("/{id}/supervisor-approve", overtimeHandler.SupervisorApprove)
				r.Post("/{id}/approve", overtimeHandler.Approve)
				r.Post("/{id}/reject", overtimeHandler.Reject)
				r.Post("/{id}/cancel", overtimeHandler.Cancel)
			})

			r.Route("/leave-balances", func(r chi.Router) {
				r.Get("/my", ledgerHandler.GetMyBalances)
				r.Get("/{employeeID}", ledgerHandler.GetBalances)
				r.Get("/{employeeID}/transactions", ledgerHandler.GetTransactions)
			})
		})
	})
	return r
}
