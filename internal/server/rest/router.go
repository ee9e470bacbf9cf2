// Package rest exposes the banking API over HTTP using chi.
package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/logging"
	"github.com/dmitrijs2005/gophbank/internal/server/auth"
	"github.com/dmitrijs2005/gophbank/internal/server/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// requestTimeout bounds the handling time of one request.
const requestTimeout = 30 * time.Second

// NewRouter creates the chi router with middleware and routes.
//
// Routes:
//   - POST /auth/register, POST /auth/login, GET /auth/users/lookup - public
//   - GET /profile, PUT /profile/password - bearer token
//   - /transactions and /transactions/{id} - bearer token, caller's own rows
//   - /admin/* - bearer token and stored role Admin
//   - GET /health, GET /metrics - public
func NewRouter(h *Handler, tokens *auth.TokenManager, roles RoleResolver, allowedOrigins []string, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.HTTPMetricsMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/users/lookup", h.LookupByNationalID)
	})

	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(tokens, log))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.Profile)
			r.Put("/password", h.ChangePassword)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Get("/{id}", h.GetTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin(roles, log))

			r.Get("/transactions", h.AdminListTransactions)
			r.Delete("/transactions/{id}", h.AdminDeleteTransaction)
			r.Get("/users", h.AdminListUsers)
		})
	})

	return r
}
