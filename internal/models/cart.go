package models

import "github.com/google/uuid"

type Cart struct {
	Base
	UserID string     `gorm:"uniqueIndex;not null" json:"userId"`
	Items  []CartItem `gorm:"foreignKey:CartID"    json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	Base
	CartID         uuid.UUID `gorm:"type:uuid;not null;index"        json:"-"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null"              json:"productId"`
	DenominationID uuid.UUID `gorm:"type:uuid;not null"              json:"denominationId"`
	Quantity       int       `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	GameUID        string    `gorm:"not null;default:''"             json:"gameUid"`
	Server         string    `gorm:"not null;default:''"             json:"server,omitempty"`
	PlayerID       string    `gorm:"not null;default:''"             json:"playerId,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// SameLine reports whether two items describe one cart line.
func (c CartItem) SameLine(productID, denominationID uuid.UUID, gameUID string) bool {
	return c.ProductID == productID && c.DenominationID == denominationID && c.GameUID == gameUID
}
