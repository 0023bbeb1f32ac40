// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/shopping-list-service/internal/docstore"
	"github.com/fairyhunter13/shopping-list-service/internal/lists"
	"github.com/fairyhunter13/shopping-list-service/internal/model"
	"github.com/fairyhunter13/shopping-list-service/internal/obs"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// writeServiceError maps a list service error onto a status code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var uie *lists.UserInputError
	var ve *model.ValidationError
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &uie), errors.As(err, &ve):
		WriteJSONError(w, http.StatusBadRequest, "user_input_error", err.Error())
	default:
		obs.Logger.Error("request_failed",
			"request_id", RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
