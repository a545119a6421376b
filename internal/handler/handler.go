package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"coupon-service/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Debug().Str("error", message).Int("status", status).Msg("request rejected")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeServiceError maps a service error to an HTTP response. Domain errors
// keep their fixed message and map to 404 (unknown coupon) or 400; anything
// else is a storage or infrastructure failure and surfaces as a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		if domainErr.Code == model.ErrCodeCouponNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "internal server error"})
}
