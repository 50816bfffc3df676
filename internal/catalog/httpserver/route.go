package httpserver

import (
	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/topup_shop/pkg/middleware/auth"
)

func (h *CatalogHTTP) Register(api *echo.Group, gate *middleware.Gate) {
	categories := api.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/:id", h.GetCategory)
	categories.POST("", h.CreateCategory, gate.RequireAdmin)
	categories.PUT("/:id", h.UpdateCategory, gate.RequireAdmin)
	categories.DELETE("/:id", h.DeleteCategory, gate.RequireAdmin)

	products := api.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/featured", h.FeaturedProducts)
	products.GET("/search", h.SearchProducts)
	products.GET("/category/:slug", h.ProductsByCategory)
	products.GET("/:id", h.GetProduct)
	products.POST("", h.CreateProduct, gate.RequireAdmin)
	products.PUT("/:id", h.UpdateProduct, gate.RequireAdmin)
	products.DELETE("/:id", h.DeleteProduct, gate.RequireAdmin)
	products.POST("/:id/denominations", h.AddDenomination, gate.RequireAdmin)

	denominations := api.Group("/denominations")
	denominations.GET("/:id", h.GetDenomination)
	denominations.PUT("/:id", h.UpdateDenomination, gate.RequireAdmin)
	denominations.DELETE("/:id", h.DeleteDenomination, gate.RequireAdmin)

	api.GET("/admin/products", h.AdminListProducts, gate.RequireAdmin)
}
