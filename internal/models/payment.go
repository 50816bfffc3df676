package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payment struct {
	Base
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"       json:"orderId"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"    json:"amount"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(16);not null"      json:"paymentMethod"`
	TransactionID string          `gorm:"uniqueIndex;not null"           json:"transactionId"`
	SenderNumber  string          `gorm:"not null;default:''"            json:"senderNumber"`
	SenderName    string          `gorm:"not null;default:''"            json:"senderName,omitempty"`
	Status        PaymentStatus   `gorm:"type:varchar(16);not null"      json:"status"`
	Notes         string          `gorm:"not null;default:''"            json:"notes,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
