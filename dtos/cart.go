package dtos

import (
	"storefront-cart/models"

	"github.com/google/uuid"
)

// AddItemRequest is the body of POST /api/cart. Quantity is optional and defaults to 1; an
// explicit zero or negative value is rejected by the service.
type AddItemRequest struct {
	VariantID   uuid.UUID          `json:"variantId" binding:"required"`
	ProductType models.ProductType `json:"productType" binding:"required"`
	Quantity    *int               `json:"quantity"`
}

// UpdateItemRequest is the body of PUT /api/cart. Quantity is the new absolute value.
type UpdateItemRequest struct {
	VariantID   uuid.UUID          `json:"variantId" binding:"required"`
	ProductType models.ProductType `json:"productType" binding:"required"`
	Quantity    *int               `json:"quantity" binding:"required"`
}

// CartResponse is the envelope every cart route answers with.
type CartResponse struct {
	Data    *models.Cart `json:"data"`
	Message string       `json:"message,omitempty"`
}

type ValidationResponse struct {
	Data *models.ValidationReport `json:"data"`
}

// ErrorResponse carries the error kind and a human readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
