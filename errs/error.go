package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
)

// Application error codes. They loosely map onto HTTP status codes at the
// boundary, but services return them without knowing about HTTP.
const (
	ECONFLICT     = "conflict"
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EUNAUTHORIZED = "unauthorized"
)

// Error is an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs an Error with the given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return a generic message, so internal
// details never leak out to a client.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "The operation failed, please try again."
}

// codes maps application error codes onto HTTP status codes. Duplicate and
// absent edges surface as plain 400s, matching what clients already expect.
var codes = map[string]int{
	ECONFLICT:     http.StatusBadRequest,
	EINVALID:      http.StatusBadRequest,
	ENOTFOUND:     http.StatusNotFound,
	EUNAUTHORIZED: http.StatusForbidden,
	EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON error payload written to clients.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReturnError writes an error to the response as a structured JSON payload.
// Internal errors keep their cause in the server log only.
func ReturnError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrorCode(err), ErrorMessage(err)
	if code == EINTERNAL {
		LogError(r, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ErrorStatusCode(code))
	json.NewEncoder(w).Encode(&ErrorResponse{Code: code, Message: message})
}

// logf is the sink LogError writes to. It defaults to the standard logger;
// the server points it at the structured logger at startup, so 5xx causes
// land in the same stream as the request log.
var logf = log.Printf

// SetLogger redirects LogError's output.
func SetLogger(fn func(format string, v ...interface{})) {
	if fn != nil {
		logf = fn
	}
}

// LogError logs an error together with the request it occurred on.
func LogError(r *http.Request, err error) {
	logf("[http] error: %s %s: %s", r.Method, r.URL.Path, err)
}
