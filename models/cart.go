package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is the single cart owned by one user. Clearing empties Items; the row itself is kept.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`
	Version   int64      `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Total is the sum of price x quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindByVariant returns the first line holding variantID, or nil.
func (c *Cart) FindByVariant(variantID uuid.UUID) *CartItem {
	if c == nil {
		return nil
	}
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			return &c.Items[i]
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hand out snapshots without sharing the Items array.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = make([]CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

// CartItem is one line of a cart. Price and the descriptive fields are snapshotted from the
// catalog when the line is created.
type CartItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CartID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line" json:"-"`
	VariantID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line" json:"variantId"`
	ProductType         ProductType     `gorm:"type:varchar(32);not null;uniqueIndex:idx_cart_line" json:"productType"`
	ProductName         string          `gorm:"not null" json:"productName"`
	ProductModel        string          `json:"productModel,omitempty"`
	Price               decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	Quantity            int             `gorm:"not null;default:1" json:"quantity"`
	Image               string          `json:"image,omitempty"`
	VariantColor        string          `json:"variantColor,omitempty"`
	VariantStorage      string          `json:"variantStorage,omitempty"`
	VariantConnectivity string          `json:"variantConnectivity,omitempty"`
	VariantCPUGPU       string          `gorm:"column:variant_cpu_gpu" json:"variantCpuGpu,omitempty"`
	VariantRAM          string          `gorm:"column:variant_ram" json:"variantRam,omitempty"`
	VariantName         string          `json:"variantName,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
