package transport

import (
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

type ItemInput struct {
	ProductID      string `json:"productId"      validate:"required"`
	DenominationID string `json:"denominationId" validate:"required"`
	Quantity       int    `json:"quantity"       validate:"omitempty,gte=1"`
	GameUID        string `json:"gameUid"`
	Server         string `json:"server"`
	PlayerID       string `json:"playerId"`
}

type CreateOrderRequest struct {
	Items         []ItemInput        `json:"items"         validate:"required,min=1,dive"`
	BillingInfo   models.BillingInfo `json:"billingInfo"`
	PaymentMethod string             `json:"paymentMethod" validate:"required,oneof=CARD BKASH NAGAD"`
	Notes         string             `json:"notes"`
}

type PatchOrderRequest struct {
	Status        *string `json:"status"        validate:"omitempty,oneof=PENDING PROCESSING COMPLETED CANCELLED FAILED"`
	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=PENDING PROCESSING COMPLETED FAILED REFUNDED"`
	Notes         *string `json:"notes"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type OrderList struct {
	Orders     []models.Order  `json:"orders"`
	Pagination util.Pagination `json:"pagination"`
}
