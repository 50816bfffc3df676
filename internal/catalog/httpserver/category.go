package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/catalog/transport"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	"github.com/Skotchmaster/topup_shop/pkg/response"
)

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return apperr.HTTP(l, "list_categories_failed", err)
	}
	return response.OK(c, http.StatusOK, items)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_category")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("get_category_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	cat, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return apperr.HTTP(l, "get_category_failed", err)
	}
	return response.OK(c, http.StatusOK, cat)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return apperr.HTTP(l, "create_category_failed", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return response.Message(c, http.StatusCreated, "Category created successfully", cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_category")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("update_category_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	var req transport.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_category_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cat, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return apperr.HTTP(l, "update_category_failed", err)
	}

	l.Info("update_category_success", "category_id", cat.ID)
	return response.Message(c, http.StatusOK, "Category updated successfully", cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_category")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("delete_category_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return apperr.HTTP(l, "delete_category_failed", err)
	}

	l.Info("delete_category_success", "category_id", id)
	return response.Message(c, http.StatusOK, "Category deleted successfully", nil)
}
