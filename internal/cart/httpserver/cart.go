package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/cart/service"
	"github.com/Skotchmaster/topup_shop/internal/cart/transport"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	middleware "github.com/Skotchmaster/topup_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/topup_shop/pkg/response"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) Register(api *echo.Group, gate *middleware.Gate) {
	cart := api.Group("/cart", gate.RequireAuth)
	cart.GET("", h.GetCart)
	cart.POST("", h.AddItem)
	cart.PUT("/:itemId", h.UpdateItem)
	cart.DELETE("/:itemId", h.RemoveItem)
	cart.DELETE("", h.ClearCart)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	view, err := h.Svc.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		return apperr.HTTP(l, "get_cart_failed", err)
	}
	return response.OK(c, http.StatusOK, map[string]any{"cart": view})
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("add_item_failed", "status", 400, "reason", "validation failed")
		return err
	}

	cartID, err := h.Svc.AddItem(ctx, middleware.UserID(c), req)
	if err != nil {
		return apperr.HTTP(l, "add_item_failed", err)
	}

	l.Info("add_item_success", "cart_id", cartID)
	return response.Message(c, http.StatusOK, "Item added to cart", map[string]any{"cartId": cartID})
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		l.Warn("update_item_failed", "status", 404, "reason", "item id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Cart item not found")
	}

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Svc.UpdateItem(ctx, middleware.UserID(c), itemID, req); err != nil {
		return apperr.HTTP(l, "update_item_failed", err)
	}

	l.Info("update_item_success", "item_id", itemID, "quantity", *req.Quantity)
	return response.Message(c, http.StatusOK, "Cart updated", nil)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		l.Warn("remove_item_failed", "status", 404, "reason", "item id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Cart item not found")
	}

	if err := h.Svc.RemoveItem(ctx, middleware.UserID(c), itemID); err != nil {
		return apperr.HTTP(l, "remove_item_failed", err)
	}

	l.Info("remove_item_success", "item_id", itemID)
	return response.Message(c, http.StatusOK, "Item removed from cart", nil)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	if err := h.Svc.ClearCart(ctx, middleware.UserID(c)); err != nil {
		return apperr.HTTP(l, "clear_cart_failed", err)
	}

	l.Info("clear_cart_success")
	return response.Message(c, http.StatusOK, "Cart cleared", nil)
}
