package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-dashboard/internal/access"
	"github.com/frahmantamala/employee-dashboard/internal/auth"
	"github.com/frahmantamala/employee-dashboard/internal/clock"
	"github.com/frahmantamala/employee-dashboard/internal/leave"
	"github.com/frahmantamala/employee-dashboard/internal/payroll"
	"github.com/frahmantamala/employee-dashboard/internal/transport"
	"github.com/frahmantamala/employee-dashboard/internal/transport/middleware"
	"github.com/frahmantamala/employee-dashboard/internal/transport/swagger"
	"github.com/frahmantamala/employee-dashboard/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

// Handlers groups everything the router mounts. Nil handlers are skipped so
// partial wiring in tests stays possible.
type Handlers struct {
	Auth          *auth.Handler
	Notifier      *auth.SessionNotifier
	Access        *access.Handler
	Authorization *access.Authorization
	User          *user.Handler
	Clock         *clock.Handler
	Leave         *leave.Handler
	Payroll       *payroll.Handler
	OpenAPI       *swagger.Document
}

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(transport.NewBaseHandler(logger), db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if h.OpenAPI != nil {
		router.Get("/openapi.yml", h.OpenAPI.ServeHTTP)
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)
		r.Get("/ping", healthHandler.Ping)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/signup", h.Auth.Signup)
			ar.Post("/signin", h.Auth.Signin)
			ar.Post("/refresh", h.Auth.Refresh)

			ar.Group(func(sr chi.Router) {
				sr.Use(h.Auth.RequireSession)
				sr.Post("/logout", h.Auth.Logout)
				if h.Notifier != nil {
					sr.Get("/session/stream", h.Notifier.Stream)
				}
			})
		})

		// View access answers Pending rather than 401 for anonymous callers.
		if h.Access != nil {
			r.With(h.Auth.OptionalSession).Get("/views/{view}/access", h.Access.ViewAccess)
		}

		if h.Authorization == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.RequireSession)
			pr.Use(middleware.SessionContext)

			pr.Group(func(er chi.Router) {
				er.Use(h.Authorization.RequireAny())

				if h.User != nil {
					er.Get("/users/me", h.User.GetCurrentUser)
					er.Patch("/users/me", h.User.UpdateCurrentUser)
				}
				if h.Clock != nil {
					er.Post("/clock/in", h.Clock.ClockIn)
					er.Post("/clock/out", h.Clock.ClockOut)
					er.Get("/clock/me", h.Clock.GetMySummary)
				}
				if h.Leave != nil {
					er.Post("/leaves", h.Leave.CreateRequest)
					er.Get("/leaves/me", h.Leave.GetMyRequests)
				}
				if h.Payroll != nil {
					er.Get("/payrolls/me", h.Payroll.GetMyPayrolls)
					er.Get("/payrolls/{id}/payslip", h.Payroll.DownloadPayslip)
					er.Post("/paycheck/calculate", h.Payroll.CalculatePaycheck)
				}
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(h.Authorization.RequireAdmin())

				if h.User != nil {
					ar.Get("/users", h.User.ListUsers)
				}
				if h.Clock != nil {
					ar.Get("/clock/entries", h.Clock.ListEntries)
				}
				if h.Leave != nil {
					ar.Get("/leaves", h.Leave.ListRequests)
					ar.Patch("/leaves/{id}/approve", h.Leave.ApproveRequest)
					ar.Patch("/leaves/{id}/decline", h.Leave.DeclineRequest)
				}
				if h.Payroll != nil {
					ar.Post("/payrolls", h.Payroll.CreatePayroll)
					ar.Get("/payrolls", h.Payroll.ListPayrolls)
				}
			})
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		transport.NewBaseHandler(logger).WriteError(w, http.StatusNotFound, "route not found")
	})
}
