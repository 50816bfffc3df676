package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Category struct {
	Base
	Name        string `gorm:"not null"             json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"not null;default:''"  json:"description"`
	Image       string `gorm:"not null;default:''"  json:"image"`
	IsActive    bool   `gorm:"not null;index"       json:"isActive"`
	SortOrder   int    `gorm:"not null;default:0"   json:"sortOrder"`
}

func (Category) TableName() string {
	return "categories"
}

type Product struct {
	Base
	Name             string                      `gorm:"not null"             json:"name"`
	Slug             string                      `gorm:"uniqueIndex;not null" json:"slug"`
	Description      string                      `gorm:"not null;default:''"  json:"description"`
	ShortDescription string                      `gorm:"not null;default:''"  json:"shortDescription"`
	Image            string                      `gorm:"not null;default:''"  json:"image"`
	Images           datatypes.JSONSlice[string] `json:"images"`
	CategoryID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"categoryId"`
	IsActive         bool                        `gorm:"not null;index"       json:"isActive"`
	IsFeatured       bool                        `gorm:"not null;default:false" json:"isFeatured"`
	SortOrder        int                         `gorm:"not null;default:0"   json:"sortOrder"`
}

func (Product) TableName() string {
	return "products"
}

type Denomination struct {
	Base
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Amount    int             `gorm:"not null"                 json:"amount"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Discount  int             `gorm:"not null;default:0;check:discount >= 0 AND discount <= 100" json:"discount"`
	IsActive  bool            `gorm:"not null;index"           json:"isActive"`
}

func (Denomination) TableName() string {
	return "denominations"
}
