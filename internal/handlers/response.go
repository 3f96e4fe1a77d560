package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dias221467/Accountability_Tracker/internal/apperror"
)

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors onto HTTP statuses. Expected outcomes like
// an expired delete window come back with their own human-readable reason
// instead of a generic failure.
func respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, apperror.ErrNotRegistered):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperror.ErrWindowExpired), errors.Is(err, apperror.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, apperror.ErrIdentityValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
