// Package handler provides the HTTP API of medtrack. Handlers decode
// requests, call the services, and translate domain errors into
// transport responses.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/repository"
	"github.com/prn-tf/medtrack/internal/service"
)

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// badRequestErrs are validation failures reported verbatim with 400.
var badRequestErrs = []error{
	service.ErrInvalidUsername,
	service.ErrInvalidEmail,
	service.ErrInvalidPassword,
	service.ErrInvalidName,
	service.ErrInvalidDose,
	service.ErrInvalidStock,
	service.ErrInvalidAmount,
	service.ErrInvalidTime,
	service.ErrInvalidWeekday,
}

// notFoundErrs map to 404.
var notFoundErrs = []error{
	domain.ErrUserNotFound,
	domain.ErrMedicineNotFound,
	domain.ErrScheduleNotFound,
	domain.ErrDosageNotFound,
	repository.ErrNotFound,
}

// writeError maps an error to its transport response. Internal detail
// stays in the log; the client sees a stable, generic message.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: target.Error()})
			return
		}
	}
	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrTokenNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: domain.ErrEmailTaken.Error()})
	case errors.Is(err, repository.ErrRetriesExhausted):
		logger.Warn().Err(err).Msg("request lost to write contention")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "temporarily unavailable, retry"})
	default:
		logger.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeBody parses a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
