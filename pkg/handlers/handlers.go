// Package handlers assembles the HTTP API.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/handlers/auth"
	"github.com/chris/retailer-services/pkg/handlers/payments"
	"github.com/chris/retailer-services/pkg/handlers/submissions"
	"github.com/chris/retailer-services/pkg/handlers/users"
	"github.com/chris/retailer-services/pkg/handlers/wallets"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/ratelimit"
	"github.com/chris/retailer-services/pkg/respond"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/oapi-codegen/runtime"
)

// ApiHandler bundles the handlers and the cross-cutting dependencies the
// router needs.
type ApiHandler struct {
	Auth        *auth.AuthHandler
	Wallets     *wallets.WalletsHandler
	Submissions *submissions.SubmissionsHandler
	Payments    *payments.PaymentsHandler
	Users       *users.UsersHandler

	Tokens middleware.TokenVerifier
	// AuthLimiter throttles the sign-in routes. Nil disables throttling.
	AuthLimiter ratelimit.Limiter
}

// RouterConfig holds the HTTP-level settings of the router.
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter mounts every route under /api/v1.
func NewRouter(cfg RouterConfig, h *ApiHandler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))
	r.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authenticate := middleware.Authenticate(h.Tokens)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if h.AuthLimiter != nil {
				r.Use(middleware.RateLimit(h.AuthLimiter))
			}
			r.Post("/otp/send", h.Auth.SendOtp)
			r.Post("/otp/resend", h.Auth.ResendOtp)
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/login/verify", h.Auth.VerifyLogin)
			r.Post("/admin/login", h.Auth.AdminLogin)
			r.Post("/admin/login/verify", h.Auth.AdminVerifyLogin)
			r.Post("/logout", h.Auth.Logout)
			r.With(authenticate).Get("/me", h.Auth.Me)
		})

		r.Post("/payments/webhook", h.Payments.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleRetailer))

			r.Get("/wallet", h.Wallets.GetWallet)
			r.Get("/wallet/transactions", h.Wallets.ListTransactions)
			r.Post("/wallet/topup-orders", h.Wallets.CreateTopUpOrder)
			r.Post("/wallet/topup-orders/verify", h.Payments.VerifyPayment)

			r.Post("/submissions", h.Submissions.CreateSubmission)
			r.Get("/submissions", h.Submissions.ListSubmissions)
			r.Post("/submissions/verify-payment", h.Payments.VerifyPayment)
			r.Get("/submissions/{id}", withPathParam("id", h.Submissions.GetSubmission))
			r.Post("/submissions/{id}/retry-payment", withPathParam("id", h.Submissions.RetryPayment))
			r.Put("/submissions/{id}/documents", withPathParam("id", h.Submissions.ReUploadDocuments))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/submissions", h.Submissions.AdminListSubmissions)
			r.Get("/submissions/{id}", withPathParam("id", h.Submissions.AdminGetSubmission))
			r.Put("/submissions/{id}/status", withPathParam("id", h.Submissions.UpdateStatus))
			r.Post("/wallets/{userId}/credit", withPathParam("userId", h.Wallets.CreditWallet))

			r.Get("/users/retailers", h.Users.ListRetailers)
			r.Get("/users/admins", h.Users.ListAdmins)
			r.Post("/users/{userId}/verify", withPathParam("userId", h.Users.VerifyRetailer))
			r.Put("/users/{userId}/status", withPathParam("userId", h.Users.UpdateStatus))
		})
	})

	return r
}

// withPathParam binds a required path parameter and passes it to fn.
func withPathParam(name string, fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var value string
		err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			respond.Error(w, r, apperr.Validation(fmt.Sprintf("invalid format for parameter %s", name), err.Error()))
			return
		}
		fn(w, r, value)
	}
}
