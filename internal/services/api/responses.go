package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/servicehub/servicehub/internal/domain/service"
	"github.com/servicehub/servicehub/internal/repository/postgres"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// mapError translates domain and repository errors to HTTP codes.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, postgres.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, ErrEmptyName),
		errors.Is(err, ErrInvalidURL),
		errors.Is(err, service.ErrUnknownUpdateKind):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
