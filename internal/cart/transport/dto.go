package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID      string `json:"productId"      validate:"required,uuid"`
	DenominationID string `json:"denominationId" validate:"required,uuid"`
	Quantity       int    `json:"quantity"       validate:"gte=0"`
	GameUID        string `json:"gameUid"`
	Server         string `json:"server"`
	PlayerID       string `json:"playerId"`
}

type UpdateItemRequest struct {
	Quantity *int    `json:"quantity" validate:"required,gte=0"`
	GameUID  *string `json:"gameUid"`
	Server   *string `json:"server"`
	PlayerID *string `json:"playerId"`
}

type ProductRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Image string    `json:"image"`
}

type DenominationRef struct {
	ID       uuid.UUID       `json:"id"`
	Amount   int             `json:"amount"`
	Price    decimal.Decimal `json:"price"`
	Discount int             `json:"discount"`
}

type LineView struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"productId"`
	DenominationID uuid.UUID       `json:"denominationId"`
	Product        ProductRef      `json:"product"`
	Denomination   DenominationRef `json:"denomination"`
	Quantity       int             `json:"quantity"`
	GameUID        string          `json:"gameUid"`
	Server         string          `json:"server,omitempty"`
	PlayerID       string          `json:"playerId,omitempty"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
}

// CartView is the cart priced against the live catalog.
type CartView struct {
	ID         *uuid.UUID      `json:"id,omitempty"`
	Items      []LineView      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}
