package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/topup_shop/pkg/identity"
	"github.com/Skotchmaster/topup_shop/pkg/identity/identitytest"
)

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) (*echo.HTTPError, echo.Context, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(c)

	if err == nil {
		return nil, c, called
	}
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	return he, c, called
}

func TestGate_RequireAuth(t *testing.T) {
	t.Parallel()

	p := identitytest.NewProvider(t)
	gate := NewGate(p)
	userTok := identitytest.Token(t, p, "uid-1", "")

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer   ", wantCode: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", wantCode: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + userTok, wantCode: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			he, c, called := serve(t, gate.RequireAuth, tt.header)
			if tt.wantCode == 0 {
				require.Nil(t, he)
				assert.True(t, called)
				assert.Equal(t, "uid-1", UserID(c))
				assert.Equal(t, identity.RoleUser, c.Get(CtxRole))
				require.NotNil(t, Identity(c))
				return
			}
			require.NotNil(t, he)
			assert.Equal(t, tt.wantCode, he.Code)
			assert.False(t, called)
		})
	}
}

func TestGate_RequireAdmin(t *testing.T) {
	t.Parallel()

	p := identitytest.NewProvider(t)
	gate := NewGate(p)

	he, _, called := serve(t, gate.RequireAdmin, "Bearer "+identitytest.Token(t, p, "uid-1", identity.RoleUser))
	require.NotNil(t, he)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, "Access denied. Admin privileges required.", he.Message)
	assert.False(t, called)

	he, c, called := serve(t, gate.RequireAdmin, "Bearer "+identitytest.Token(t, p, "boss", identity.RoleAdmin))
	require.Nil(t, he)
	assert.True(t, called)
	assert.Equal(t, "boss", UserID(c))
}

func TestGate_UnconfiguredProvider(t *testing.T) {
	t.Parallel()

	var p *identity.Provider
	he, _, called := serve(t, NewGate(p).RequireAuth, "Bearer something")
	require.NotNil(t, he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Equal(t, "Invalid authentication token", he.Message)
	assert.False(t, called)
}
