package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/catalog/transport"
	"github.com/Skotchmaster/topup_shop/pkg/events"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	"github.com/Skotchmaster/topup_shop/pkg/response"
)

func (h *CatalogHTTP) GetDenomination(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_denomination")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("get_denomination_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Denomination not found")
	}

	d, err := h.Svc.GetDenomination(ctx, id)
	if err != nil {
		return apperr.HTTP(l, "get_denomination_failed", err)
	}
	return response.OK(c, http.StatusOK, d)
}

func (h *CatalogHTTP) AddDenomination(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.add_denomination")

	productID, err := paramID(c, "id")
	if err != nil {
		l.Warn("add_denomination_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	var req transport.DenominationInput
	if err := c.Bind(&req); err != nil {
		l.Warn("add_denomination_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d, err := h.Svc.AddDenomination(ctx, productID, req)
	if err != nil {
		return apperr.HTTP(l, "add_denomination_failed", err)
	}

	events.Emit(ctx, h.Events, events.TopicCatalog, productID.String(), map[string]any{
		"type":           "denomination_created",
		"productId":      productID.String(),
		"denominationId": d.ID.String(),
		"amount":         d.Amount,
		"price":          d.Price.String(),
	})

	l.Info("add_denomination_success", "denomination_id", d.ID)
	return response.Message(c, http.StatusCreated, "Denomination created successfully", d)
}

func (h *CatalogHTTP) UpdateDenomination(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_denomination")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("update_denomination_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Denomination not found")
	}

	var req transport.UpdateDenominationRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_denomination_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d, err := h.Svc.UpdateDenomination(ctx, id, req)
	if err != nil {
		return apperr.HTTP(l, "update_denomination_failed", err)
	}

	l.Info("update_denomination_success", "denomination_id", d.ID)
	return response.Message(c, http.StatusOK, "Denomination updated successfully", d)
}

func (h *CatalogHTTP) DeleteDenomination(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_denomination")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("delete_denomination_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Denomination not found")
	}

	if err := h.Svc.DeleteDenomination(ctx, id); err != nil {
		return apperr.HTTP(l, "delete_denomination_failed", err)
	}

	l.Info("delete_denomination_success", "denomination_id", id)
	return response.Message(c, http.StatusOK, "Denomination deleted successfully", nil)
}
