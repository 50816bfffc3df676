package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/catalog/service"
	"github.com/Skotchmaster/topup_shop/internal/catalog/transport"
	"github.com/Skotchmaster/topup_shop/pkg/events"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	"github.com/Skotchmaster/topup_shop/pkg/response"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

type CatalogHTTP struct {
	Svc    *service.CatalogService
	Events events.Publisher
}

func paramID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_products")

	list, err := h.Svc.ListProducts(ctx, transport.ListProductsQuery{
		CategoryID: c.QueryParam("categoryId"),
		Search:     c.QueryParam("search"),
		Featured:   c.QueryParam("featured") == "true",
		Page:       util.ParseIntDefault(c.QueryParam("page"), 1),
		Limit:      util.ParseIntDefault(c.QueryParam("limit"), service.DefaultPageSize),
	})
	if err != nil {
		return apperr.HTTP(l, "list_products_failed", err)
	}

	l.Info("list_products_success", "total", list.Pagination.Total)
	return response.OK(c, http.StatusOK, list)
}

func (h *CatalogHTTP) FeaturedProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.featured_products")

	items, err := h.Svc.FeaturedProducts(ctx)
	if err != nil {
		return apperr.HTTP(l, "featured_products_failed", err)
	}
	return response.OK(c, http.StatusOK, items)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), service.DefaultPageSize)

	list, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return apperr.HTTP(l, "search_products_failed", err)
	}

	l.Info("search_products_success", "total", list.Pagination.Total)
	return response.OK(c, http.StatusOK, list)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("get_product_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return apperr.HTTP(l, "get_product_failed", err)
	}
	return response.OK(c, http.StatusOK, p)
}

func (h *CatalogHTTP) ProductsByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products_by_category")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), service.DefaultPageSize)

	res, err := h.Svc.ProductsByCategorySlug(ctx, c.Param("slug"), page, size)
	if err != nil {
		return apperr.HTTP(l, "products_by_category_failed", err)
	}
	return response.OK(c, http.StatusOK, res)
}

func (h *CatalogHTTP) AdminListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.admin_list_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), service.AdminPageSize)

	list, err := h.Svc.AdminListProducts(ctx, page, size)
	if err != nil {
		return apperr.HTTP(l, "admin_list_products_failed", err)
	}
	return response.OK(c, http.StatusOK, list)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "validation failed")
		return err
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return apperr.HTTP(l, "create_product_failed", err)
	}

	events.Emit(ctx, h.Events, events.TopicCatalog, p.ID.String(), map[string]any{
		"type":          "product_created",
		"productId":     p.ID.String(),
		"name":          p.Name,
		"denominations": len(p.Denominations),
	})

	l.Info("create_product_success", "product_id", p.ID)
	return response.Message(c, http.StatusCreated, "Product created successfully", p)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_product")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("update_product_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "validation failed")
		return err
	}

	p, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		return apperr.HTTP(l, "update_product_failed", err)
	}

	events.Emit(ctx, h.Events, events.TopicCatalog, p.ID.String(), map[string]any{
		"type":      "product_updated",
		"productId": p.ID.String(),
		"name":      p.Name,
		"isActive":  p.IsActive,
	})

	l.Info("update_product_success", "product_id", p.ID)
	return response.Message(c, http.StatusOK, "Product updated successfully", p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	id, err := paramID(c, "id")
	if err != nil {
		l.Warn("delete_product_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return apperr.HTTP(l, "delete_product_failed", err)
	}

	events.Emit(ctx, h.Events, events.TopicCatalog, id.String(), map[string]any{
		"type":      "product_deleted",
		"productId": id.String(),
	})

	l.Info("delete_product_success", "product_id", id)
	return response.Message(c, http.StatusOK, "Product deleted successfully", nil)
}
