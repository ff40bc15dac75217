package handlers

import (
	"context"
	"errors"
	"net/http"

	"storefront-cart/dtos"
	"storefront-cart/logger"
	"storefront-cart/middleware"
	"storefront-cart/models"
	"storefront-cart/services"
	"storefront-cart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService is the part of services.CartService the cart routes need.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, in services.AddItemInput) (*models.Cart, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, in services.UpdateItemInput) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ValidateCart(ctx context.Context, userID uuid.UUID) (*models.ValidationReport, error)
}

type CartHandler struct {
	Service CartService
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cart, err := h.Service.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, dtos.CartResponse{Data: cart})
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dtos.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.Service.AddItem(c.Request.Context(), userID, services.AddItemInput{
		VariantID:   req.VariantID,
		ProductType: req.ProductType,
		Quantity:    quantity,
	})
	if err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, dtos.CartResponse{Data: cart, Message: "Item added to cart"})
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dtos.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cart, err := h.Service.UpdateItem(c.Request.Context(), userID, services.UpdateItemInput{
		VariantID:   req.VariantID,
		ProductType: req.ProductType,
		Quantity:    *req.Quantity,
	})
	if err != nil {
		respondError(c, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, dtos.CartResponse{Data: cart})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_argument", Message: "Invalid item ID"})
		return
	}

	cart, err := h.Service.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		respondError(c, err, "Failed to remove item from cart")
		return
	}

	c.JSON(http.StatusOK, dtos.CartResponse{Data: cart})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cart, err := h.Service.ClearCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, dtos.CartResponse{Data: cart})
}

func (h *CartHandler) ValidateCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.Service.ValidateCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to validate cart")
		return
	}

	c.JSON(http.StatusOK, dtos.ValidationResponse{Data: report})
}

// currentUser reads the caller set by AuthMiddleware. It writes a 401 when there is none.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	userID, ok := v.(uuid.UUID)
	if !exists || !ok || userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, dtos.ErrorResponse{Error: "unauthorized", Message: "Unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dtos.ErrorResponse{
		Error:   "invalid_argument",
		Message: utils.SanitizeValidationError(err),
	})
}

// respondError maps service errors onto HTTP statuses. Anything unclassified is logged and
// answered with fallback so internals never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_argument", Message: services.Message(err, fallback)})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, dtos.ErrorResponse{Error: "not_found", Message: services.Message(err, fallback)})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, dtos.ErrorResponse{Error: "conflict", Message: services.Message(err, fallback)})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, dtos.ErrorResponse{Error: "timeout", Message: "Request timed out"})
	default:
		logger.FromGin(c).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Error: "internal", Message: fallback})
	}
}
