package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"shiftly/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondOK(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// respondError maps domain errors to HTTP statuses. Anything unrecognized
// is logged and surfaced as a 500 without leaking the store error.
func respondError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var status int
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrDuplicate):
		status = http.StatusConflict
	default:
		log.Error().Err(err).Msg("internal error")
		respondJSON(w, http.StatusInternalServerError,
			map[string]interface{}{"success": false, "error": "internal error"})
		return
	}
	respondJSON(w, status, map[string]interface{}{"success": false, "error": err.Error()})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ErrValidation
	}
	return nil
}

func urlID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, models.ErrValidation
	}
	return uint(id), nil
}
