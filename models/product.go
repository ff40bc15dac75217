package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductType string

const (
	ProductTypeIPhone     ProductType = "iPhone"
	ProductTypeIPad       ProductType = "iPad"
	ProductTypeMac        ProductType = "Mac"
	ProductTypeAirPods    ProductType = "AirPods"
	ProductTypeAppleWatch ProductType = "AppleWatch"
	ProductTypeAccessory  ProductType = "Accessory"
)

// ProductTypes lists every category the catalog accepts.
var ProductTypes = []ProductType{
	ProductTypeIPhone,
	ProductTypeIPad,
	ProductTypeMac,
	ProductTypeAirPods,
	ProductTypeAppleWatch,
	ProductTypeAccessory,
}

func (t ProductType) Valid() bool {
	for _, known := range ProductTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string           `gorm:"not null" json:"name"`
	Model     string           `json:"model,omitempty"`
	Type      ProductType      `gorm:"type:varchar(32);not null;index" json:"productType"`
	Image     string           `json:"image,omitempty"`
	IsActive  bool             `gorm:"not null" json:"isActive"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
	Variants  []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductVariant is one purchasable configuration of a product.
type ProductVariant struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Color        string          `json:"color,omitempty"`
	Storage      string          `json:"storage,omitempty"`
	Connectivity string          `json:"connectivity,omitempty"`
	CPUGPU       string          `gorm:"column:cpu_gpu" json:"cpuGpu,omitempty"`
	RAM          string          `json:"ram,omitempty"`
	Name         string          `json:"name,omitempty"`
	Price        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	Stock        int             `gorm:"default:0" json:"stock"`
	Image        string          `json:"image,omitempty"`
	IsActive     bool            `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
