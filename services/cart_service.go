package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-cart/cache"
	"storefront-cart/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// MaxLineQuantity caps the units held by a single cart line.
	MaxLineQuantity = 99

	sharedReadTimeout = 10 * time.Second
)

type AddItemInput struct {
	VariantID   uuid.UUID
	ProductType models.ProductType
	Quantity    int
}

type UpdateItemInput struct {
	VariantID   uuid.UUID
	ProductType models.ProductType
	Quantity    int
}

// CartService owns every user's cart. Each mutation is a single transaction that locks the
// cart row, so concurrent requests from one user cannot lose each other's updates.
type CartService struct {
	db      *gorm.DB
	catalog VariantCatalog
	cache   cache.CartCache
	log     *zap.Logger
	sfg     singleflight.Group
	now     func() time.Time
}

// NewCartService wires the service. cartCache may be nil to run without a snapshot cache.
func NewCartService(db *gorm.DB, catalog VariantCatalog, cartCache cache.CartCache, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{
		db:      db,
		catalog: catalog,
		cache:   cartCache,
		log:     log.Named("cart"),
		now:     time.Now,
	}
}

// GetCart returns the caller's cart, creating an empty one on first access. Concurrent reads
// for one user share a single load; a caller that gives up stops waiting without failing the
// others.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	ch := s.sfg.DoChan(userID.String(), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()
		return s.readCart(loadCtx, userID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// singleflight hands the same pointer to every waiter.
		return res.Val.(*models.Cart).Clone(), nil
	}
}

func (s *CartService) readCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if s.cache != nil {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cart cache read failed", zap.Stringer("user_id", userID), zap.Error(err))
		}
	}

	var cart *models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = s.loadCart(tx, userID, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.storeSnapshot(ctx, userID, cart)
	return cart, nil
}

// AddItem adds quantity units of a variant. A line already holding the same variant and product
// type is incremented instead of duplicated.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, in AddItemInput) (*models.Cart, error) {
	if err := validateLineKey(in.VariantID, in.ProductType); err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, invalidArgument("quantity must be a positive integer")
	}
	if in.Quantity > MaxLineQuantity {
		return nil, invalidArgument("quantity cannot exceed %d", MaxLineQuantity)
	}

	variant, err := s.catalog.FindVariant(ctx, in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant.Product.Type != in.ProductType {
		return nil, notFound("product variant %s not found for type %s", in.VariantID, in.ProductType)
	}
	if !variant.IsActive || !variant.Product.IsActive {
		return nil, invalidArgument("%s is no longer available", variant.Product.Name)
	}
	if variant.Stock <= 0 {
		return nil, invalidArgument("%s is out of stock", variant.Product.Name)
	}

	return s.mutate(ctx, userID, func(tx *gorm.DB, cart *models.Cart) error {
		if line := findLine(cart, in.VariantID, in.ProductType); line != nil {
			if line.Quantity > MaxLineQuantity-in.Quantity {
				return invalidArgument("%s already has %d in the cart; a line holds at most %d",
					line.ProductName, line.Quantity, MaxLineQuantity)
			}
			return tx.Model(&models.CartItem{}).
				Where("id = ?", line.ID).
				Update("quantity", line.Quantity+in.Quantity).Error
		}
		item := snapshotLine(cart.ID, variant, in.Quantity)
		return tx.Create(&item).Error
	})
}

// UpdateItem sets the quantity of an existing line. Quantities below one are rejected; lines
// are removed explicitly through RemoveItem.
func (s *CartService) UpdateItem(ctx context.Context, userID uuid.UUID, in UpdateItemInput) (*models.Cart, error) {
	if err := validateLineKey(in.VariantID, in.ProductType); err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, invalidArgument("quantity must be at least 1; remove the item instead")
	}
	if in.Quantity > MaxLineQuantity {
		return nil, invalidArgument("quantity cannot exceed %d", MaxLineQuantity)
	}

	return s.mutate(ctx, userID, func(tx *gorm.DB, cart *models.Cart) error {
		line := findLine(cart, in.VariantID, in.ProductType)
		if line == nil {
			return notFound("cart item not found")
		}
		return tx.Model(&models.CartItem{}).
			Where("id = ?", line.ID).
			Update("quantity", in.Quantity).Error
	})
}

// RemoveItem deletes one line by its line id. An id that is not in the cart is NotFound and
// leaves the cart untouched.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	if itemID == uuid.Nil {
		return nil, invalidArgument("itemId is required")
	}

	return s.mutate(ctx, userID, func(tx *gorm.DB, cart *models.Cart) error {
		for _, item := range cart.Items {
			if item.ID == itemID {
				return tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{}).Error
			}
		}
		return notFound("cart item %s not found", itemID)
	})
}

// ClearCart empties the cart. It succeeds on an already empty cart.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(tx *gorm.DB, cart *models.Cart) error {
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
}

// ValidateCart checks every line against the live catalog without changing the cart.
func (s *CartService) ValidateCart(ctx context.Context, userID uuid.UUID) (*models.ValidationReport, error) {
	var cart *models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = s.loadCart(tx, userID, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.VariantID)
	}
	variants, err := s.catalog.FindVariants(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := &models.ValidationReport{Issues: []models.ValidationIssue{}, CheckedAt: s.now().UTC()}
	for _, item := range cart.Items {
		report.Issues = append(report.Issues, checkLine(item, variants)...)
	}
	report.Valid = len(report.Issues) == 0
	return report, nil
}

func checkLine(item models.CartItem, variants map[uuid.UUID]models.ProductVariant) []models.ValidationIssue {
	issue := func(reason models.IssueReason) models.ValidationIssue {
		return models.ValidationIssue{
			ItemID:      item.ID,
			VariantID:   item.VariantID,
			ProductType: item.ProductType,
			ProductName: item.ProductName,
			Reason:      reason,
			Quantity:    item.Quantity,
			CartPrice:   item.Price,
		}
	}

	variant, ok := variants[item.VariantID]
	if !ok || variant.Product.Type != item.ProductType {
		return []models.ValidationIssue{issue(models.IssueVariantMissing)}
	}

	var issues []models.ValidationIssue
	switch {
	case !variant.IsActive || !variant.Product.IsActive:
		issues = append(issues, issue(models.IssueUnavailable))
	case variant.Stock <= 0:
		is := issue(models.IssueOutOfStock)
		is.Available = intPtr(0)
		issues = append(issues, is)
	case variant.Stock < item.Quantity:
		is := issue(models.IssueInsufficientStock)
		is.Available = intPtr(variant.Stock)
		issues = append(issues, is)
	}

	if !variant.Price.Equal(item.Price) {
		is := issue(models.IssuePriceChanged)
		current := variant.Price
		is.CurrentPrice = &current
		issues = append(issues, is)
	}
	return issues
}

// mutate runs fn against the locked cart row, bumps the cart version and returns the committed
// snapshot.
func (s *CartService) mutate(ctx context.Context, userID uuid.UUID, fn func(tx *gorm.DB, cart *models.Cart) error) (*models.Cart, error) {
	var result *models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.loadCart(tx, userID, true)
		if err != nil {
			return err
		}
		if err := fn(tx, cart); err != nil {
			return err
		}

		res := tx.Model(&models.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]interface{}{"version": cart.Version + 1, "updated_at": s.now()})
		if res.Error != nil {
			return fmt.Errorf("bump cart version: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("cart was modified by another request, please retry")
		}

		result, err = s.loadCart(tx, userID, false)
		return err
	})
	if err != nil {
		var cartErr *CartError
		if !errors.As(err, &cartErr) {
			s.log.Error("cart mutation failed", zap.Stringer("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	s.storeSnapshot(ctx, userID, result)
	return result, nil
}

// loadCart reads the user's cart with its lines, creating the cart row on first access.
func (s *CartService) loadCart(tx *gorm.DB, userID uuid.UUID, lock bool) (*models.Cart, error) {
	find := func(cart *models.Cart) error {
		q := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
		if lock {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		return q.Where("user_id = ?", userID).First(cart).Error
	}

	var cart models.Cart
	err := find(&cart)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A concurrent first access may create the row first; DO NOTHING keeps this idempotent.
		fresh := models.Cart{UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		cart = models.Cart{}
		err = find(&cart)
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func (s *CartService) storeSnapshot(ctx context.Context, userID uuid.UUID, cart *models.Cart) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, userID, cart); err != nil {
		s.log.Warn("cart cache write failed, invalidating", zap.Stringer("user_id", userID), zap.Error(err))
		if err := s.cache.Delete(ctx, userID); err != nil {
			s.log.Error("cart cache invalidation failed", zap.Stringer("user_id", userID), zap.Error(err))
		}
	}
}

func validateLineKey(variantID uuid.UUID, productType models.ProductType) error {
	if variantID == uuid.Nil {
		return invalidArgument("variantId is required")
	}
	if productType == "" {
		return invalidArgument("productType is required")
	}
	if !productType.Valid() {
		return invalidArgument("unknown productType %q", productType)
	}
	return nil
}

func findLine(cart *models.Cart, variantID uuid.UUID, productType models.ProductType) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].VariantID == variantID && cart.Items[i].ProductType == productType {
			return &cart.Items[i]
		}
	}
	return nil
}

func snapshotLine(cartID uuid.UUID, variant *models.ProductVariant, quantity int) models.CartItem {
	image := variant.Image
	if image == "" {
		image = variant.Product.Image
	}
	return models.CartItem{
		CartID:              cartID,
		VariantID:           variant.ID,
		ProductType:         variant.Product.Type,
		ProductName:         variant.Product.Name,
		ProductModel:        variant.Product.Model,
		Price:               variant.Price,
		Quantity:            quantity,
		Image:               image,
		VariantColor:        variant.Color,
		VariantStorage:      variant.Storage,
		VariantConnectivity: variant.Connectivity,
		VariantCPUGPU:       variant.CPUGPU,
		VariantRAM:          variant.RAM,
		VariantName:         variant.Name,
	}
}

func intPtr(v int) *int { return &v }
