package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
)

// errorBody is the shape of every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeServiceError maps a service error onto a status code. notFound is the
// detail used for common.ErrorNotFound. Unexpected errors are logged with the
// request id and answered with a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusUnprocessableEntity, validationDetail(err))
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrorConflict):
		writeError(w, http.StatusConflict, "Username, email or national id already registered")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		log.Error(r.Context(), "request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// validationDetail strips the sentinel prefix so clients only see the field
// messages.
func validationDetail(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, common.ErrorValidation.Error()+": "); i >= 0 {
		return msg[i+len(common.ErrorValidation.Error())+2:]
	}
	return msg
}

// decodeJSONBody decodes a JSON request body into v. On failure it writes a
// 422 and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return false
	}
	return true
}
