package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/topup_shop/internal/account/service"
	"github.com/Skotchmaster/topup_shop/internal/account/transport"
	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	"github.com/Skotchmaster/topup_shop/pkg/response"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

func (h *AccountHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.list_users")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), service.AdminPageSize)

	list, err := h.Svc.ListUsers(ctx, page, size, c.QueryParam("search"))
	if err != nil {
		return apperr.HTTP(l, "list_users_failed", err)
	}
	return response.OK(c, http.StatusOK, list)
}

func (h *AccountHTTP) SetRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.set_role")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("set_role_failed", "status", 404, "reason", "user id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	var req transport.SetRoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_role_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.Svc.SetRole(ctx, id, req.Role)
	if err != nil {
		return apperr.HTTP(l, "set_role_failed", err)
	}

	l.Info("set_role_success", "user_id", u.ID, "role", u.Role)
	return response.Message(c, http.StatusOK, "User updated", map[string]any{
		"user": transport.RoleView{ID: u.ID.String(), Email: u.Email, Username: u.Username, Role: u.Role},
	})
}

// MakeAdmin promotes by uid. Like SetRole it changes the stored role only.
func (h *AccountHTTP) MakeAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.make_admin")

	u, err := h.Svc.MakeAdmin(ctx, c.Param("uid"))
	if err != nil {
		return apperr.HTTP(l, "make_admin_failed", err)
	}

	l.Info("make_admin_success", "user_id", u.ID)
	return response.Message(c, http.StatusOK, "User is now an admin", map[string]any{"role": u.Role})
}
