package errors

import "net/http"

var ErrInvalidTransition = &Exception{
	Message:    "invalid task status transition",
	StatusCode: http.StatusConflict,
}
