package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	ErrorHandler(err, c)

	var body Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("http error with string message", func(t *testing.T) {
		t.Parallel()
		rec, body := render(t, echo.NewHTTPError(http.StatusNotFound, "Order not found"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, body.Success)
		assert.Equal(t, "Order not found", body.Message)
	})

	t.Run("plain error is hidden", func(t *testing.T) {
		t.Parallel()
		rec, body := render(t, errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", body.Message)
	})

	t.Run("envelope message keeps details", func(t *testing.T) {
		t.Parallel()
		rec, body := render(t, Fail(http.StatusBadRequest, "Validation failed", []FieldError{{Field: "email", Message: "is required"}}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", body.Message)
		assert.NotNil(t, body.Errors)
	})
}

func TestValidator_FieldPaths(t *testing.T) {
	t.Parallel()

	type item struct {
		ProductID string `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity" validate:"gte=1"`
	}
	type request struct {
		Email string `json:"email" validate:"required,email"`
		Items []item `json:"items" validate:"required,min=1,dive"`
	}

	err := NewValidator().Validate(&request{Email: "nope", Items: []item{{Quantity: 0}}})
	require.Error(t, err)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)

	env, ok := he.Message.(Envelope)
	require.True(t, ok)
	fields, ok := env.Errors.([]FieldError)
	require.True(t, ok)

	got := map[string]string{}
	for _, f := range fields {
		got[f.Field] = f.Message
	}
	assert.Equal(t, "must be a valid email", got["email"])
	assert.Equal(t, "is required", got["items[0].productId"])
	assert.Contains(t, got, "items[0].quantity")

	assert.NoError(t, NewValidator().Validate(&request{Email: "a@b.co", Items: []item{{ProductID: "p", Quantity: 1}}}))
}
