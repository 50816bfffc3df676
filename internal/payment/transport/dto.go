package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/topup_shop/internal/models"
)

type ManualPaymentRequest struct {
	OrderID       string          `json:"orderId"       validate:"required"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=BKASH NAGAD"`
	SenderNumber  string          `json:"senderNumber"  validate:"required"`
	TransactionID string          `json:"transactionId" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	SenderName    string          `json:"senderName"`
}

type CardPaymentRequest struct {
	OrderID       string `json:"orderId"       validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,eq=CARD"`
}

type OrderSummary struct {
	ID            uuid.UUID            `json:"id"`
	OrderNumber   string               `json:"orderNumber"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
}

type PaymentStatusView struct {
	Order   OrderSummary    `json:"order"`
	Payment *models.Payment `json:"payment"`
}
