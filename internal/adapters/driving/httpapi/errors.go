package httpapi

import (
	"errors"
	"net/http"

	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/logger"
)

// errorResponse is the JSON body for all error statuses.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps a domain error to an HTTP status:
//
//	invalid input                 -> 400
//	entity not found              -> 404
//	state conflict (completed
//	session, question mismatch)   -> 409
//	answer failed review          -> 422
//	LLM missing or generation
//	failure                       -> 502
//	anything else                 -> 500
func writeError(w http.ResponseWriter, err error) {
	if qe, ok := domain.IsQualityError(err); ok {
		writeErrorMessage(w, http.StatusUnprocessableEntity, qe.Reason)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoActiveVersion):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSessionComplete), errors.Is(err, domain.ErrQuestionMismatch):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrLLMUnavailable):
		writeErrorMessage(w, http.StatusBadGateway, err.Error())
	default:
		logger.Warn("internal error: %v", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
