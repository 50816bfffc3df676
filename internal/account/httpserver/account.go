package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/topup_shop/internal/account/service"
	"github.com/Skotchmaster/topup_shop/internal/account/transport"
	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	middleware "github.com/Skotchmaster/topup_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/topup_shop/pkg/response"
)

type AccountHTTP struct {
	Svc *service.AccountService
}

func (h *AccountHTTP) Register(api *echo.Group, gate *middleware.Gate) {
	auth := api.Group("/auth", gate.RequireAuth)
	auth.POST("/register", h.SignUp)
	auth.POST("/login", h.Login)
	auth.POST("/google", h.GoogleSignIn)
	auth.POST("/make-admin/:uid", h.MakeAdmin, gate.RequireAdmin)
	auth.GET("/me", h.Me)
	auth.PATCH("/me", h.UpdateMe)
	auth.POST("/logout", h.Logout)

	users := api.Group("/admin/users", gate.RequireAdmin)
	users.GET("", h.ListUsers)
	users.PATCH("/:id", h.SetRole)
}

func (h *AccountHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "validation failed")
		return err
	}

	u, err := h.Svc.Register(ctx, middleware.Identity(c), req)
	if err != nil {
		return apperr.HTTP(l, "register_failed", err)
	}

	l.Info("register_success", "user_id", u.ID)
	return response.Message(c, http.StatusCreated, "User registered successfully", map[string]any{"user": u})
}

func (h *AccountHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.Svc.Login(ctx, middleware.Identity(c), req)
	if err != nil {
		return apperr.HTTP(l, "login_failed", err)
	}

	raw, _ := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	l.Info("login_success", "user_id", u.ID)
	return response.Message(c, http.StatusOK, "Login successful", map[string]any{"user": u, "token": raw})
}

func (h *AccountHTTP) GoogleSignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.google")

	var req transport.GoogleSignInRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("google_sign_in_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.Svc.GoogleSignIn(ctx, middleware.Identity(c), req)
	if err != nil {
		return apperr.HTTP(l, "google_sign_in_failed", err)
	}

	raw, _ := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	l.Info("google_sign_in_success", "user_id", u.ID)
	return response.Message(c, http.StatusOK, "Google authentication successful", map[string]any{"user": u, "token": raw})
}

func (h *AccountHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.me")

	u, err := h.Svc.Me(ctx, middleware.UserID(c))
	if err != nil {
		return apperr.HTTP(l, "get_me_failed", err)
	}
	return response.OK(c, http.StatusOK, map[string]any{"user": u})
}

func (h *AccountHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.update_me")

	var req transport.UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_me_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.Svc.UpdateMe(ctx, middleware.UserID(c), req)
	if err != nil {
		return apperr.HTTP(l, "update_me_failed", err)
	}

	l.Info("update_me_success", "user_id", u.ID)
	return response.Message(c, http.StatusOK, "Profile updated", map[string]any{"user": u})
}

// Logout has nothing to revoke; ID tokens expire on their own and the
// client drops its copy.
func (h *AccountHTTP) Logout(c echo.Context) error {
	logging.FromContext(c.Request().Context()).Info("logout_success", "uid", middleware.UserID(c))
	return response.Message(c, http.StatusOK, "Logout successful", nil)
}
