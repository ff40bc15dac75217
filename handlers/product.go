package handlers

import (
	"errors"
	"net/http"

	"storefront-cart/dtos"
	"storefront-cart/logger"
	"storefront-cart/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductHandler serves the catalog that cart lines are resolved against.
type ProductHandler struct {
	DB *gorm.DB
}

func activeVariants(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("created_at ASC")
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	var products []models.Product
	query := h.DB.WithContext(c.Request.Context()).
		Preload("Variants", activeVariants).
		Where("is_active = ?", true)

	if productType := c.Query("type"); productType != "" {
		if !models.ProductType(productType).Valid() {
			c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_argument", Message: "Unknown product type"})
			return
		}
		query = query.Where("type = ?", productType)
	}

	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		logger.FromGin(c).Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Error: "internal", Message: "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_argument", Message: "Invalid product ID"})
		return
	}

	var product models.Product
	if err := h.DB.WithContext(c.Request.Context()).
		Preload("Variants", activeVariants).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, dtos.ErrorResponse{Error: "not_found", Message: "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dtos.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_argument", Message: "Unknown product type"})
		return
	}

	product := models.Product{
		Name:     req.Name,
		Model:    req.Model,
		Type:     req.Type,
		Image:    req.Image,
		IsActive: boolOr(req.IsActive, true),
	}
	for _, v := range req.Variants {
		if !v.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_argument", Message: "price must be greater than 0"})
			return
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			Color:        v.Color,
			Storage:      v.Storage,
			Connectivity: v.Connectivity,
			CPUGPU:       v.CPUGPU,
			RAM:          v.RAM,
			Name:         v.Name,
			Price:        v.Price,
			Stock:        v.Stock,
			Image:        v.Image,
			IsActive:     boolOr(v.IsActive, true),
		})
	}

	if err := h.DB.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		logger.FromGin(c).Error("create product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Error: "internal", Message: "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": product})
}

// UpdateVariant changes price, stock or availability. Carts keep the price they were filled
// at; drift shows up in cart validation.
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_argument", Message: "Invalid variant ID"})
		return
	}

	var req dtos.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_argument", Message: "price must be greater than 0"})
			return
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "invalid_argument", Message: "Nothing to update"})
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var variant models.ProductVariant
	if err := db.Where("id = ?", id).First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, dtos.ErrorResponse{Error: "not_found", Message: "Variant not found"})
			return
		}
		logger.FromGin(c).Error("load variant failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Error: "internal", Message: "Failed to update variant"})
		return
	}

	if err := db.Model(&variant).Updates(updates).Error; err != nil {
		logger.FromGin(c).Error("update variant failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Error: "internal", Message: "Failed to update variant"})
		return
	}

	db.First(&variant, "id = ?", id)
	c.JSON(http.StatusOK, gin.H{"data": variant})
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
