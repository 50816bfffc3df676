package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the shape of every JSON body the API writes.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

func Message(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail builds an HTTP error whose body carries field-level details.
func Fail(status int, message string, details any) *echo.HTTPError {
	return echo.NewHTTPError(status, Envelope{Message: message, Errors: details})
}

// ErrorHandler renders any error returned by a handler as a failed envelope.
// Non-HTTP errors become 500 without leaking their text.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := &echo.HTTPError{}
	if !errors.As(err, &he) {
		he = echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	body := Envelope{}
	switch m := he.Message.(type) {
	case Envelope:
		body = m
	case string:
		body.Message = m
	default:
		body.Message = http.StatusText(he.Code)
	}
	body.Success = false

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}
	_ = c.JSON(he.Code, body)
}
