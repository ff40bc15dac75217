package view

import (
	"context"

	"storefront-cart/client"
	"storefront-cart/models"
	"storefront-cart/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FallbackVariantLine is shown when a line has no descriptor fields at all.
const FallbackVariantLine = "Standard edition"

// descriptor renders one variant field of a line, or "" when the field is absent.
type descriptor func(models.CartItem) string

var (
	color        descriptor = func(i models.CartItem) string { return i.VariantColor }
	storage      descriptor = func(i models.CartItem) string { return i.VariantStorage }
	connectivity descriptor = func(i models.CartItem) string { return i.VariantConnectivity }
	cpuGPU       descriptor = func(i models.CartItem) string { return i.VariantCPUGPU }
	variantName  descriptor = func(i models.CartItem) string { return i.VariantName }
	ram          descriptor = ramLine
)

func ramLine(i models.CartItem) string {
	if i.VariantRAM == "" {
		return ""
	}
	return i.VariantRAM + " RAM"
}

// genericDescriptors covers AirPods, AppleWatch, Accessory and any type not listed below.
var genericDescriptors = []descriptor{color, variantName}

var variantDescriptors = map[models.ProductType][]descriptor{
	models.ProductTypeIPhone: {color, storage, connectivity},
	models.ProductTypeIPad:   {color, storage, connectivity},
	models.ProductTypeMac:    {color, cpuGPU, ram, storage},
}

// VariantLines lists the human readable variant descriptors of item, one per line.
func VariantLines(item models.CartItem) []string {
	descriptors, ok := variantDescriptors[item.ProductType]
	if !ok {
		descriptors = genericDescriptors
	}

	var lines []string
	for _, d := range descriptors {
		if line := d(item); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []string{FallbackVariantLine}
	}
	return lines
}

// ItemCard is the display model of one cart line plus the intents its controls emit.
type ItemCard struct {
	ID           uuid.UUID
	Name         string
	Model        string
	Lines        []string
	Image        string
	UnitPrice    decimal.Decimal
	LineTotal    decimal.Decimal
	Quantity     int
	CanDecrement bool

	item  models.CartItem
	store *client.Store
}

func NewItemCard(item models.CartItem, origin string, store *client.Store) *ItemCard {
	return &ItemCard{
		ID:           item.ID,
		Name:         item.ProductName,
		Model:        item.ProductModel,
		Lines:        VariantLines(item),
		Image:        utils.ImageURL(origin, item.Image),
		UnitPrice:    item.Price,
		LineTotal:    item.LineTotal(),
		Quantity:     item.Quantity,
		CanDecrement: item.Quantity > 1,
		item:         item,
		store:        store,
	}
}

// ImageFailed swaps in the placeholder after the image could not be loaded.
func (c *ItemCard) ImageFailed() {
	c.Image = utils.ImageFallback()
}

func (c *ItemCard) Increment(ctx context.Context) client.Result {
	return c.setQuantity(ctx, c.item.Quantity+1)
}

// Decrement lowers the quantity by one. It does nothing and reports false when the line is
// already at one; removing the line is a separate intent.
func (c *ItemCard) Decrement(ctx context.Context) (client.Result, bool) {
	if !c.CanDecrement {
		return client.Result{}, false
	}
	return c.setQuantity(ctx, c.item.Quantity-1), true
}

func (c *ItemCard) Remove(ctx context.Context) client.Result {
	return c.store.RemoveFromCart(ctx, c.item.ID)
}

func (c *ItemCard) setQuantity(ctx context.Context, quantity int) client.Result {
	return c.store.UpdateCartItem(ctx, client.UpdateItemInput{
		VariantID:   c.item.VariantID,
		ProductType: c.item.ProductType,
		Quantity:    quantity,
	})
}
