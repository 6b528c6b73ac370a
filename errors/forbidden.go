package errors

import "net/http"

var ErrForbidden = &Exception{
	Message:    "access forbidden: user does not have the required role",
	StatusCode: http.StatusForbidden,
}
