package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/logging"
	"github.com/dmitrijs2005/gophbank/internal/server/auth"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const principalKey ctxKey = "principal"

const (
	detailBadCredentials = "Cannot Validate Credentials"
	detailNotAdmin       = "Not an Administrator"
)

// principalFromContext returns the principal stored by bearerAuth.
func principalFromContext(ctx context.Context) *auth.AuthenticatedPrincipal {
	p, _ := ctx.Value(principalKey).(*auth.AuthenticatedPrincipal)
	return p
}

// extractBearerToken extracts the token from a Bearer Authorization header.
func extractBearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, detail)
}

// bearerAuth validates the bearer token and stores the authenticated
// principal in the request context.
func bearerAuth(tokens *auth.TokenManager, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				unauthorized(w, detailBadCredentials)
				return
			}

			p, err := tokens.ValidateToken(token)
			if err != nil {
				log.Debug(r.Context(), "token rejected",
					"request_id", middleware.GetReqID(r.Context()),
					"reason", err.Error(),
				)
				unauthorized(w, detailBadCredentials)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleResolver reads the current role of a principal.
type RoleResolver interface {
	ResolveRole(ctx context.Context, identifier string) (models.Role, error)
}

// requireAdmin blocks principals whose stored role is not Admin. Must run
// after bearerAuth.
func requireAdmin(roles RoleResolver, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := principalFromContext(r.Context())
			if p == nil {
				unauthorized(w, detailBadCredentials)
				return
			}

			role, err := roles.ResolveRole(r.Context(), p.Identifier)
			switch {
			case errors.Is(err, common.ErrorNotFound):
				unauthorized(w, detailNotAdmin)
				return
			case err != nil:
				writeServiceError(w, r, log, err, "")
				return
			case role != models.RoleAdmin:
				unauthorized(w, detailNotAdmin)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs each completed request. Health probes and metric
// scrapes go to debug.
func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			args := []any{
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"route", chi.RouteContext(r.Context()).RoutePattern(),
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			}
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				log.Debug(r.Context(), "request completed", args...)
			} else {
				log.Info(r.Context(), "request completed", args...)
			}
		})
	}
}
