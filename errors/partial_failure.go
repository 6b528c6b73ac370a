package errors

import "net/http"

var ErrPartialFailure = &Exception{
	Message:    "cascade delete could not complete atomically",
	StatusCode: http.StatusInternalServerError,
}
