package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	accounthttp "github.com/Skotchmaster/topup_shop/internal/account/httpserver"
	carthttp "github.com/Skotchmaster/topup_shop/internal/cart/httpserver"
	cataloghttp "github.com/Skotchmaster/topup_shop/internal/catalog/httpserver"
	orderhttp "github.com/Skotchmaster/topup_shop/internal/order/httpserver"
	paymenthttp "github.com/Skotchmaster/topup_shop/internal/payment/httpserver"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	middleware "github.com/Skotchmaster/topup_shop/pkg/middleware/auth"
)

type Deps struct {
	DB      *gorm.DB
	Gate    *middleware.Gate
	Account *accounthttp.AccountHTTP
	Catalog *cataloghttp.CatalogHTTP
	Cart    *carthttp.CartHTTP
	Order   *orderhttp.OrderHTTP
	Payment *paymenthttp.PaymentHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	api := e.Group("/api")
	d.Account.Register(api, d.Gate)
	d.Catalog.Register(api, d.Gate)
	d.Cart.Register(api, d.Gate)
	d.Order.Register(api, d.Gate)
	d.Payment.Register(api, d.Gate)
}

func (d *Deps) ready(c echo.Context) error {
	ctx := c.Request().Context()

	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logging.FromContext(ctx).Error("readiness_failed", "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
