package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/internal/order/service"
	"github.com/Skotchmaster/topup_shop/internal/order/transport"
	"github.com/Skotchmaster/topup_shop/pkg/events"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	"github.com/Skotchmaster/topup_shop/pkg/response"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

func (h *OrderHTTP) emitStatus(c echo.Context, o *models.Order, action string) {
	events.Emit(c.Request().Context(), h.Events, events.TopicOrder, o.ID.String(), map[string]any{
		"type":          "order_status_changed",
		"action":        action,
		"orderId":       o.ID.String(),
		"orderNumber":   o.OrderNumber,
		"status":        string(o.Status),
		"paymentStatus": string(o.PaymentStatus),
	})
}

func (h *OrderHTTP) AdminListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_list_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), service.AdminPageSize)

	list, err := h.Svc.AdminListOrders(ctx, c.QueryParam("status"), c.QueryParam("paymentStatus"), page, size)
	if err != nil {
		return apperr.HTTP(l, "admin_list_orders_failed", err)
	}
	return response.OK(c, http.StatusOK, list)
}

func (h *OrderHTTP) AdminGetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_get_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("admin_get_order_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	o, err := h.Svc.AdminGetOrder(ctx, id)
	if err != nil {
		return apperr.HTTP(l, "admin_get_order_failed", err)
	}
	return response.OK(c, http.StatusOK, map[string]any{"order": o})
}

func (h *OrderHTTP) PatchOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.patch_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch_order_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	var req transport.PatchOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	o, err := h.Svc.PatchOrder(ctx, id, req)
	if err != nil {
		return apperr.HTTP(l, "patch_order_failed", err)
	}

	h.emitStatus(c, o, "patched")
	l.Info("patch_order_success", "order_id", o.ID, "status", o.Status, "payment_status", o.PaymentStatus)
	return response.Message(c, http.StatusOK, "Order updated successfully", map[string]any{"order": o})
}

func (h *OrderHTTP) CompleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.complete_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("complete_order_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	o, err := h.Svc.CompleteOrder(ctx, id)
	if err != nil {
		return apperr.HTTP(l, "complete_order_failed", err)
	}

	h.emitStatus(c, o, "completed")
	l.Info("complete_order_success", "order_id", o.ID)
	return response.Message(c, http.StatusOK, "Order completed", map[string]any{"order": o})
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("cancel_order_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	// empty body: no reason
	var req transport.CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cancel_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	o, err := h.Svc.CancelOrder(ctx, id, req.Reason)
	if err != nil {
		return apperr.HTTP(l, "cancel_order_failed", err)
	}

	h.emitStatus(c, o, "cancelled")
	l.Info("cancel_order_success", "order_id", o.ID)
	return response.Message(c, http.StatusOK, "Order cancelled", map[string]any{"order": o})
}
