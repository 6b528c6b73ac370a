package errors

import "net/http"

var ErrConflict = &Exception{
	Message:    "record was modified concurrently",
	StatusCode: http.StatusConflict,
}
