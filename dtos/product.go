package dtos

import (
	"storefront-cart/models"

	"github.com/shopspring/decimal"
)

type CreateVariantRequest struct {
	Color        string          `json:"color"`
	Storage      string          `json:"storage"`
	Connectivity string          `json:"connectivity"`
	CPUGPU       string          `json:"cpuGpu"`
	RAM          string          `json:"ram"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock" binding:"min=0"`
	Image        string          `json:"image"`
	IsActive     *bool           `json:"isActive"`
}

// CreateProductRequest creates a product together with its purchasable variants.
type CreateProductRequest struct {
	Name     string                 `json:"name" binding:"required,max=200"`
	Model    string                 `json:"model" binding:"max=100"`
	Type     models.ProductType     `json:"productType" binding:"required"`
	Image    string                 `json:"image"`
	IsActive *bool                  `json:"isActive"`
	Variants []CreateVariantRequest `json:"variants" binding:"required,min=1,dive"`
}

// UpdateVariantRequest patches the commercial fields of a variant; nil fields are left alone.
type UpdateVariantRequest struct {
	Price    *decimal.Decimal `json:"price"`
	Stock    *int             `json:"stock" binding:"omitempty,min=0"`
	IsActive *bool            `json:"isActive"`
}
