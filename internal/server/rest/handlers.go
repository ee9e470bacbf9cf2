package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/logging"
	"github.com/dmitrijs2005/gophbank/internal/server/metrics"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/dmitrijs2005/gophbank/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const (
	detailUserNotFound        = "User not found"
	detailTransactionNotFound = "Transaction not found"
	detailBadLogin            = "Incorrect username or password"
	detailIncorrectPassword   = "Incorrect password"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the services the HTTP routes delegate to.
type Handler struct {
	principals   *services.PrincipalService
	transactions *services.TransactionService
	store        Pinger
	logger       logging.Logger
}

func NewHandler(ps *services.PrincipalService, ts *services.TransactionService, store Pinger, l logging.Logger) *Handler {
	return &Handler{principals: ps, transactions: ts, store: store, logger: l}
}

// --- auth ---

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.Registration
	if !decodeJSONBody(w, r, &req) {
		metrics.ObserveRegistration(metrics.ResultInvalid)
		return
	}

	p, err := h.principals.Register(r.Context(), req, models.RoleUser)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			metrics.ObserveRegistration(metrics.ResultInvalid)
		case errors.Is(err, common.ErrorConflict):
			metrics.ObserveRegistration(metrics.ResultConflict)
		default:
			metrics.ObserveRegistration(metrics.ResultError)
		}
		writeServiceError(w, r, h.logger, err, detailUserNotFound)
		return
	}

	metrics.ObserveRegistration(metrics.ResultSuccess)
	h.logger.Info(r.Context(), "principal registered", "identifier", p.Identifier)
	w.WriteHeader(http.StatusCreated)
}

// Login takes form fields username and password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid form body")
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if username == "" || password == "" {
		writeError(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	tok, err := h.principals.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			metrics.ObserveLogin(metrics.ResultFailure)
			unauthorized(w, detailBadLogin)
			return
		}
		metrics.ObserveLogin(metrics.ResultError)
		writeServiceError(w, r, h.logger, err, detailUserNotFound)
		return
	}

	metrics.ObserveLogin(metrics.ResultSuccess)
	writeJSON(w, http.StatusOK, tok)
}

func (h *Handler) LookupByNationalID(w http.ResponseWriter, r *http.Request) {
	p, err := h.principals.LookupByNationalID(r.Context(), r.URL.Query().Get("national_id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, detailUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- profile ---

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	me := principalFromContext(r.Context())

	p, err := h.principals.Profile(r.Context(), me.Identifier)
	if err != nil {
		writeServiceError(w, r, h.logger, err, detailUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type changePasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	me := principalFromContext(r.Context())

	var req changePasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	err := h.principals.ChangePassword(r.Context(), me.Identifier, req.Password, req.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrIncorrectPassword) {
			unauthorized(w, detailIncorrectPassword)
			return
		}
		writeServiceError(w, r, h.logger, err, detailUserNotFound)
		return
	}

	h.logger.Info(r.Context(), "password changed", "identifier", me.Identifier)
	w.WriteHeader(http.StatusNoContent)
}

// --- transactions ---

func transactionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "transaction id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	me := principalFromContext(r.Context())

	list, err := h.transactions.List(r.Context(), me.Identifier)
	if err != nil {
		writeServiceError(w, r, h.logger, err, detailTransactionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	me := principalFromContext(r.Context())

	var req services.TransactionInput
	if !decodeJSONBody(w, r, &req) {
		return
	}

	tx, err := h.transactions.Create(r.Context(), me.Identifier, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, detailTransactionNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	me := principalFromContext(r.Context())
	id, ok := transactionID(w, r)
	if !ok {
		return
	}

	tx, err := h.transactions.Get(r.Context(), me.Identifier, id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, detailTransactionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	me := principalFromContext(r.Context())
	id, ok := transactionID(w, r)
	if !ok {
		return
	}

	var req services.TransactionInput
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.transactions.Update(r.Context(), me.Identifier, id, req); err != nil {
		writeServiceError(w, r, h.logger, err, detailTransactionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	me := principalFromContext(r.Context())
	id, ok := transactionID(w, r)
	if !ok {
		return
	}

	if err := h.transactions.Delete(r.Context(), me.Identifier, id); err != nil {
		writeServiceError(w, r, h.logger, err, detailTransactionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- admin ---

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := h.transactions.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, detailTransactionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) AdminDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := transactionID(w, r)
	if !ok {
		return
	}

	if err := h.transactions.DeleteAny(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, err, detailTransactionNotFound)
		return
	}
	h.logger.Info(r.Context(), "transaction deleted by admin",
		"admin", principalFromContext(r.Context()).Identifier,
		"transaction_id", id,
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.principals.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, detailUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// --- health ---

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn(r.Context(), "health check failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
