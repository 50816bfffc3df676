package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/topup_shop/internal/account/repo"
	"github.com/Skotchmaster/topup_shop/internal/account/service"
	"github.com/Skotchmaster/topup_shop/internal/testdb"
	"github.com/Skotchmaster/topup_shop/pkg/identity"
	"github.com/Skotchmaster/topup_shop/pkg/identity/identitytest"
	middleware "github.com/Skotchmaster/topup_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/topup_shop/pkg/response"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	e        *echo.Echo
	provider *identity.Provider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := echo.New()
	e.Validator = response.NewValidator()
	e.HTTPErrorHandler = response.ErrorHandler

	p := identitytest.NewProvider(t)
	h := &AccountHTTP{Svc: &service.AccountService{Repo: &repo.GormRepo{DB: testdb.New(t)}}}
	h.Register(e.Group("/api"), middleware.NewGate(p))
	return &testEnv{e: e, provider: p}
}

func (env *testEnv) do(t *testing.T, method, target, token, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var out envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestLoginProvisionsProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := identitytest.Token(t, env.provider, "buyer1", identity.RoleUser)

	code, body := env.do(t, http.MethodGet, "/api/auth/me", tok, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body.Message)

	code, body = env.do(t, http.MethodPost, "/api/auth/login", tok, `{"email":"buyer1@example.com"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", body.Message)

	var data struct {
		User struct {
			Username  string `json:"username"`
			FirstName string `json:"firstName"`
			Role      string `json:"role"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "buyer1", data.User.Username)
	assert.Equal(t, "Test", data.User.FirstName)
	assert.Equal(t, "USER", data.User.Role)
	assert.Equal(t, tok, data.Token)

	code, _ = env.do(t, http.MethodGet, "/api/auth/me", tok, "")
	assert.Equal(t, http.StatusOK, code)

	code, body = env.do(t, http.MethodPost, "/api/auth/login", tok, `{"email":"someone@example.com"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Email mismatch", body.Message)
}

func TestRegisterRoute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := identitytest.Token(t, env.provider, "buyer1", identity.RoleUser)

	code, _ := env.do(t, http.MethodPost, "/api/auth/register", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := env.do(t, http.MethodPost, "/api/auth/register", tok, `{"email":"buyer1@example.com","username":"b"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, body.Success)

	reg := `{"email":"buyer1@example.com","username":"buyer_one","firstName":"Buyer"}`
	code, body = env.do(t, http.MethodPost, "/api/auth/register", tok, reg)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User registered successfully", body.Message)

	code, _ = env.do(t, http.MethodPost, "/api/auth/register", tok, reg)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = env.do(t, http.MethodPatch, "/api/auth/me", tok, `{"phone":"01711111111"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body.Data), `"phone":"01711111111"`)

	code, body = env.do(t, http.MethodPost, "/api/auth/logout", tok, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logout successful", body.Message)
}

func TestAdminUsers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := identitytest.Token(t, env.provider, "buyer1", identity.RoleUser)
	admin := identitytest.Token(t, env.provider, "admin1", identity.RoleAdmin)

	code, _ := env.do(t, http.MethodPost, "/api/auth/login", user, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodGet, "/api/admin/users", user, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, body := env.do(t, http.MethodGet, "/api/admin/users?search=buyer", admin, "")
	require.Equal(t, http.StatusOK, code)

	var list struct {
		Users []struct {
			ID string `json:"id"`
		} `json:"users"`
		Pagination struct {
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &list))
	require.Len(t, list.Users, 1)
	assert.Equal(t, 20, list.Pagination.Limit)

	code, body = env.do(t, http.MethodPatch, "/api/admin/users/"+list.Users[0].ID, admin, `{"role":"ADMIN"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User updated", body.Message)
	assert.Contains(t, string(body.Data), `"role":"ADMIN"`)

	code, _ = env.do(t, http.MethodPatch, "/api/admin/users/"+list.Users[0].ID, admin, `{"role":"ROOT"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = env.do(t, http.MethodPatch, "/api/admin/users/not-a-uuid", admin, `{"role":"USER"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body.Message)
}

func TestGoogleSignInAndMakeAdminRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := identitytest.Token(t, env.provider, "buyer1", identity.RoleUser)
	admin := identitytest.Token(t, env.provider, "admin1", identity.RoleAdmin)

	code, body := env.do(t, http.MethodPost, "/api/auth/google", user, `{"uid":"buyer2","email":"buyer1@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Token mismatch", body.Message)

	signIn := `{"uid":"buyer1","email":"buyer1@example.com","displayName":"Buyer One","photoURL":"https://cdn.example.com/p.png"}`
	code, body = env.do(t, http.MethodPost, "/api/auth/google", user, signIn)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Google authentication successful", body.Message)
	assert.Contains(t, string(body.Data), `"avatar":"https://cdn.example.com/p.png"`)
	assert.Contains(t, string(body.Data), `"token":"`+user+`"`)

	code, _ = env.do(t, http.MethodPost, "/api/auth/make-admin/buyer1", user, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, body = env.do(t, http.MethodPost, "/api/auth/make-admin/nobody", admin, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body.Message)

	code, body = env.do(t, http.MethodPost, "/api/auth/make-admin/buyer1", admin, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User is now an admin", body.Message)
	assert.JSONEq(t, `{"role":"ADMIN"}`, string(body.Data))
}
