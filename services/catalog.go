package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-cart/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VariantCatalog resolves product variants. Returned variants carry their Product; a variant
// whose product was deleted is reported as missing.
type VariantCatalog interface {
	FindVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error)
	FindVariants(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]models.ProductVariant, error)
}

type GormCatalog struct {
	DB *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{DB: db}
}

func (c *GormCatalog) FindVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := c.DB.WithContext(ctx).Preload("Product").Where("id = ?", variantID).First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && variant.Product == nil) {
		return nil, notFound("product variant %s not found", variantID)
	}
	if err != nil {
		return nil, fmt.Errorf("load variant: %w", err)
	}
	return &variant, nil
}

func (c *GormCatalog) FindVariants(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]models.ProductVariant, error) {
	found := make(map[uuid.UUID]models.ProductVariant, len(variantIDs))
	if len(variantIDs) == 0 {
		return found, nil
	}

	var variants []models.ProductVariant
	if err := c.DB.WithContext(ctx).Preload("Product").Where("id IN ?", variantIDs).Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	for _, v := range variants {
		if v.Product != nil {
			found[v.ID] = v
		}
	}
	return found, nil
}
