package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/internal/payment/service"
	"github.com/Skotchmaster/topup_shop/internal/payment/transport"
	"github.com/Skotchmaster/topup_shop/pkg/events"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	middleware "github.com/Skotchmaster/topup_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/topup_shop/pkg/response"
)

type PaymentHTTP struct {
	Svc    *service.PaymentService
	Events events.Publisher
}

func (h *PaymentHTTP) Register(api *echo.Group, gate *middleware.Gate) {
	payments := api.Group("/payments", gate.RequireAuth)
	payments.POST("/manual", h.SubmitManual)
	payments.POST("/card", h.SubmitCard)
	payments.GET("/order/:orderId", h.OrderPaymentStatus)
}

func (h *PaymentHTTP) emit(c echo.Context, p *models.Payment) {
	events.Emit(c.Request().Context(), h.Events, events.TopicPayment, p.OrderID.String(), map[string]any{
		"type":          "payment_submitted",
		"paymentId":     p.ID.String(),
		"orderId":       p.OrderID.String(),
		"paymentMethod": string(p.PaymentMethod),
		"transactionId": p.TransactionID,
		"amount":        p.Amount.String(),
	})
}

func (h *PaymentHTTP) SubmitManual(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.submit_manual")

	var req transport.ManualPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_payment_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("submit_payment_failed", "status", 400, "reason", "validation failed")
		return err
	}

	p, err := h.Svc.SubmitManual(ctx, middleware.UserID(c), req)
	if err != nil {
		return apperr.HTTP(l, "submit_payment_failed", err)
	}

	h.emit(c, p)
	l.Info("submit_payment_success", "order_id", p.OrderID, "payment_id", p.ID)
	return response.Message(c, http.StatusCreated, "Payment submitted successfully. It will be reviewed shortly.", map[string]any{
		"payment": map[string]any{
			"id":            p.ID,
			"orderId":       p.OrderID,
			"amount":        p.Amount,
			"status":        p.Status,
			"transactionId": p.TransactionID,
			"createdAt":     p.CreatedAt,
		},
	})
}

func (h *PaymentHTTP) SubmitCard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.submit_card")

	var req transport.CardPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("card_payment_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.Svc.SubmitCard(ctx, middleware.UserID(c), req)
	if err != nil {
		return apperr.HTTP(l, "card_payment_failed", err)
	}

	h.emit(c, p)
	l.Info("card_payment_success", "order_id", p.OrderID)
	return response.Message(c, http.StatusOK, "Card payment initiated", map[string]any{
		"orderId": p.OrderID,
		"amount":  p.Amount,
		"status":  "processing",
	})
}

func (h *PaymentHTTP) OrderPaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.order_payment_status")

	id, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		l.Warn("payment_status_failed", "status", 404, "reason", "order id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	view, err := h.Svc.OrderPaymentStatus(ctx, id)
	if err != nil {
		return apperr.HTTP(l, "payment_status_failed", err)
	}
	return response.OK(c, http.StatusOK, view)
}
