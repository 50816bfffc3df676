package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GuestUserID owns orders placed without an identity.
const GuestUserID = "GUEST"

type PaymentMethod string

const (
	MethodCard  PaymentMethod = "CARD"
	MethodBkash PaymentMethod = "BKASH"
	MethodNagad PaymentMethod = "NAGAD"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodBkash, MethodNagad:
		return true
	}
	return false
}

// Manual reports whether payments are attested by a transfer id.
func (m PaymentMethod) Manual() bool {
	return m == MethodBkash || m == MethodNagad
}

type BillingInfo struct {
	FullName string `gorm:"not null" json:"fullName" validate:"required"`
	Email    string `gorm:"not null" json:"email"    validate:"required,email"`
	Phone    string `gorm:"not null" json:"phone"    validate:"required"`
}

type Order struct {
	Base
	OrderNumber   string          `gorm:"uniqueIndex;not null"           json:"orderNumber"`
	UserID        string          `gorm:"index;not null"                 json:"userId"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID"             json:"items"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"    json:"totalAmount"`
	Status        OrderStatus     `gorm:"type:varchar(16);not null;index" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(16);not null;index" json:"paymentStatus"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(16);not null"      json:"paymentMethod"`
	BillingInfo   BillingInfo     `gorm:"embedded;embeddedPrefix:billing_" json:"billingInfo"`
	Notes         string          `gorm:"not null;default:''"            json:"notes"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a frozen copy of the catalog at checkout time.
type OrderItem struct {
	Base
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index"    json:"-"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null"          json:"productId"`
	DenominationID     uuid.UUID       `gorm:"type:uuid;not null"          json:"denominationId"`
	ProductName        string          `gorm:"not null"                    json:"productName"`
	DenominationAmount int             `gorm:"not null"                    json:"denominationAmount"`
	Quantity           int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	GameUID            string          `gorm:"not null;default:''"         json:"gameUid"`
	Server             string          `gorm:"not null;default:''"         json:"server,omitempty"`
	PlayerID           string          `gorm:"not null;default:''"         json:"playerId,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
