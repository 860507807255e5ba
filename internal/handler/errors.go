package handlers

import (
	"errors"
	"net/http"

	"discussx/internal/logger"
	"discussx/internal/repository"
	"discussx/internal/service"

	"github.com/goccy/go-json"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, ErrorResponse{Success: false, Message: message}, statusCode)
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	writeJSON(w, data, statusCode)
}

// writeJSON encodes before writing the status so an unencodable payload
// still reaches the client as an error envelope.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.Errorf("failed to encode response: %v", err)
		statusCode = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Success: false, Message: "Failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Errorf("failed to write response: %v", err)
	}
}

// statusFor maps the typed service and repository errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		validation    *repository.ValidationError
		reference     *repository.ReferenceError
		authorization *repository.AuthorizationError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &reference):
		return http.StatusUnprocessableEntity
	case errors.As(err, &authorization):
		if authorization.Anonymous {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case errors.Is(err, repository.ErrPostNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, service.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInvalidCredentials),
		errors.Is(err, repository.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		// StoreError and anything unexpected
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("request failed: %v", err)
	}
	WriteError(w, err.Error(), status)
}
