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
	middleware "github.com/Skotchmaster/topup_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/topup_shop/pkg/response"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

type OrderHTTP struct {
	Svc    *service.OrderService
	Events events.Publisher
}

func (h *OrderHTTP) Register(api *echo.Group, gate *middleware.Gate) {
	orders := api.Group("/orders")
	orders.POST("/guest", h.CreateGuestOrder)
	orders.GET("/number/:orderNumber", h.GetByNumber)
	orders.GET("", h.ListOrders, gate.RequireAuth)
	orders.POST("", h.CreateOrder, gate.RequireAuth)
	orders.GET("/:id", h.GetOrder, gate.RequireAuth)

	admin := api.Group("/admin/orders", gate.RequireAdmin)
	admin.GET("", h.AdminListOrders)
	admin.GET("/:id", h.AdminGetOrder)
	admin.PATCH("/:id", h.PatchOrder)
	admin.POST("/:id/complete", h.CompleteOrder)
	admin.POST("/:id/cancel", h.CancelOrder)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	return h.create(c, middleware.UserID(c), "order.create_order")
}

func (h *OrderHTTP) CreateGuestOrder(c echo.Context) error {
	return h.create(c, models.GuestUserID, "order.create_guest_order")
}

func (h *OrderHTTP) create(c echo.Context, userID, handler string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "validation failed")
		return err
	}

	o, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		return apperr.HTTP(l, "create_order_failed", err)
	}

	events.Emit(ctx, h.Events, events.TopicOrder, o.ID.String(), map[string]any{
		"type":          "order_created",
		"orderId":       o.ID.String(),
		"orderNumber":   o.OrderNumber,
		"userId":        o.UserID,
		"totalAmount":   o.TotalAmount.String(),
		"paymentMethod": string(o.PaymentMethod),
		"items":         len(o.Items),
	})

	l.Info("create_order_success", "order_id", o.ID, "order_number", o.OrderNumber)
	return response.Message(c, http.StatusCreated, "Order created successfully", map[string]any{"order": o})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), service.DefaultPageSize)

	list, err := h.Svc.ListOrders(ctx, middleware.UserID(c), c.QueryParam("status"), page, size)
	if err != nil {
		return apperr.HTTP(l, "list_orders_failed", err)
	}
	return response.OK(c, http.StatusOK, list)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	o, err := h.Svc.GetOrder(ctx, id, middleware.UserID(c))
	if err != nil {
		return apperr.HTTP(l, "get_order_failed", err)
	}
	return response.OK(c, http.StatusOK, map[string]any{"order": o})
}

func (h *OrderHTTP) GetByNumber(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_by_number")

	o, err := h.Svc.GetByNumber(ctx, c.Param("orderNumber"))
	if err != nil {
		return apperr.HTTP(l, "get_order_by_number_failed", err)
	}
	return response.OK(c, http.StatusOK, map[string]any{"order": o})
}
