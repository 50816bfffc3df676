// Package apperr holds the error kinds services return and their mapping
// to HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrConflict   = errors.New("conflict")   // 400
	ErrAuth       = errors.New("auth")       // 401
	ErrForbidden  = errors.New("forbidden")  // 403
	ErrNotFound   = errors.New("not found")  // 404
)

// Error carries a client-safe message next to its kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newError(ErrValidation, format, args...) }
func Conflict(format string, args ...any) error   { return newError(ErrConflict, format, args...) }
func Auth(format string, args ...any) error       { return newError(ErrAuth, format, args...) }
func Forbidden(format string, args ...any) error  { return newError(ErrForbidden, format, args...) }
func NotFound(format string, args ...any) error   { return newError(ErrNotFound, format, args...) }

// Status returns the HTTP status for err and the message the client may see.
func Status(err error) (int, string) {
	msg := ""
	var ae *Error
	if errors.As(err, &ae) {
		msg = ae.msg
	}

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return http.StatusBadRequest, msg
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized, msg
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, msg
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, msg
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// HTTP logs a failed operation and converts err for echo.
func HTTP(l *slog.Logger, event string, err error) *echo.HTTPError {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", msg)
	}
	return echo.NewHTTPError(status, msg)
}
