package errors

import "net/http"

// NewValidation wraps a request-level validation failure.
func NewValidation(message string) *Exception {
	return &Exception{
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}
