package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rgehrsitz/mortgo/internal/compare"
	"github.com/rgehrsitz/mortgo/internal/domain"
	"github.com/rgehrsitz/mortgo/internal/logger"
)

// ErrorResponse is the body for transport-level failures
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists every rejected input field
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields"`
}

// DomainErrorResponse carries an engine error code
type DomainErrorResponse struct {
	Error DomainErrorBody `json:"error"`
}

// DomainErrorBody is the code and message of a DomainError
type DomainErrorBody struct {
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// respondJSON encodes payload before writing headers so an encoding failure
// still produces a 500
func respondJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.Header().Set(HeaderContentType, ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgInternal + `"}` + "\n"))
		return
	}

	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps an operation error to its HTTP status and body
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var derr *domain.DomainError

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgValidationFailed,
			Fields: verr.Fields,
		})
	case errors.As(err, &derr):
		respondJSON(w, http.StatusUnprocessableEntity, DomainErrorResponse{
			Error: DomainErrorBody{Code: derr.Code, Message: derr.Message},
		})
	case errors.Is(err, compare.ErrInvalidVariant):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondError(w, http.StatusServiceUnavailable, ErrMsgTimeout)
	default:
		logger.FromContext(r.Context()).Error(LogMsgRequestFailed, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgInternal)
	}
}

// decodeJSON reads the body into dst, keeping numbers as json.Number so no
// float conversion happens before validation. It writes the error response
// itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, ErrMsgBodyTooLarge)
			return false
		}
		logger.FromContext(r.Context()).Debug("Failed to decode request body", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return false
	}
	return true
}
