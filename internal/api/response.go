package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/erazemk/irielink/internal/apperr"
)

type errorBody struct {
	Code    apperr.Code       `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes err as a JSON error body. Store failures are logged and
// reported without their cause.
func jsonError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	body := errorBody{Code: apperr.CodeOf(err), Message: "internal error"}

	if e := apperr.As(err); e != nil && e.Code() != apperr.CodeStoreFailure {
		body.Message = e.Message()
		body.Details = e.Details()
	} else {
		slog.Error("api request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	jsonResponse(w, status, map[string]errorBody{"error": body})
}
