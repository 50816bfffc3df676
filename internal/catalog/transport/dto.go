package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

type CategorySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Image string    `json:"image"`
}

type DenominationView struct {
	ID       uuid.UUID       `json:"id"`
	Amount   int             `json:"amount"`
	Price    decimal.Decimal `json:"price"`
	Discount int             `json:"discount"`
}

type ProductView struct {
	models.Product
	Category      *CategorySummary   `json:"category,omitempty"`
	Denominations []DenominationView `json:"denominations"`
}

type ProductList struct {
	Products   []ProductView   `json:"products"`
	Pagination util.Pagination `json:"pagination"`
}

type CategoryProducts struct {
	Category   models.Category `json:"category"`
	Products   []ProductView   `json:"products"`
	Pagination util.Pagination `json:"pagination"`
}

type ListProductsQuery struct {
	CategoryID string
	Search     string
	Featured   bool
	Page       int
	Limit      int
}

type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SortOrder   int    `json:"sortOrder"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

type DenominationInput struct {
	Amount   int             `json:"amount"   validate:"required,gte=1"`
	Price    decimal.Decimal `json:"price"`
	Discount int             `json:"discount" validate:"gte=0,lte=100"`
}

type CreateProductRequest struct {
	Name             string              `json:"name"             validate:"required"`
	Description      string              `json:"description"`
	ShortDescription string              `json:"shortDescription"`
	Image            string              `json:"image"`
	Images           []string            `json:"images"`
	CategoryID       string              `json:"categoryId"       validate:"required,uuid"`
	IsFeatured       bool                `json:"isFeatured"`
	SortOrder        int                 `json:"sortOrder"`
	Denominations    []DenominationInput `json:"denominations"    validate:"dive"`
}

type UpdateProductRequest struct {
	Name             *string  `json:"name"       validate:"omitempty,min=1"`
	Description      *string  `json:"description"`
	ShortDescription *string  `json:"shortDescription"`
	Image            *string  `json:"image"`
	Images           []string `json:"images"`
	CategoryID       *string  `json:"categoryId" validate:"omitempty,uuid"`
	IsFeatured       *bool    `json:"isFeatured"`
	SortOrder        *int     `json:"sortOrder"`
	IsActive         *bool    `json:"isActive"`
}

type UpdateDenominationRequest struct {
	Amount   *int             `json:"amount"   validate:"omitempty,gte=1"`
	Price    *decimal.Decimal `json:"price"`
	Discount *int             `json:"discount" validate:"omitempty,gte=0,lte=100"`
	IsActive *bool            `json:"isActive"`
}
