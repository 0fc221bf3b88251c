package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError emits the {"message": ...} error shape every endpoint uses.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

var validationErrors = []error{
	core.ErrTitleRequired,
	core.ErrInvalidAmount,
	core.ErrInvalidCategory,
	core.ErrInvalidLimit,
	core.ErrInvalidThreshold,
	core.ErrInvalidTarget,
	core.ErrInvalidDeadline,
	core.ErrInvalidPriority,
	core.ErrNegativeProgress,
	core.ErrInvalidDate,
}

// writeServiceError maps a service error: validation failures surface
// their own message as 400, missing records become 404 with the given
// message, anything else is a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg, serverMsg string) {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			writeError(w, http.StatusBadRequest, v.Error())
			return
		}
	}
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	slog.ErrorContext(r.Context(), "Request failed",
		"method", r.Method,
		"url", r.URL.Path,
		"error", err)
	writeError(w, http.StatusInternalServerError, serverMsg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
