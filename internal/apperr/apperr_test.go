package apperr

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "validation", err: Validation("Product not found: %s", "p1"), wantStatus: 400, wantMsg: "Product not found: p1"},
		{name: "conflict", err: Conflict("This transaction ID has already been used"), wantStatus: 400, wantMsg: "This transaction ID has already been used"},
		{name: "auth", err: Auth("Email mismatch"), wantStatus: 401, wantMsg: "Email mismatch"},
		{name: "forbidden", err: Forbidden("Not authorized"), wantStatus: 403, wantMsg: "Not authorized"},
		{name: "not found wrapped", err: fmt.Errorf("load: %w", NotFound("Order not found")), wantStatus: 404, wantMsg: "Order not found"},
		{name: "unknown", err: errors.New("db exploded"), wantStatus: 500, wantMsg: "Internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, msg := Status(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestHTTP(t *testing.T) {
	t.Parallel()

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	he := HTTP(l, "get_order_failed", NotFound("Order not found"))
	assert.Equal(t, http.StatusNotFound, he.Code)
	assert.Equal(t, "Order not found", he.Message)
	assert.ErrorIs(t, NotFound("x"), ErrNotFound)
}
