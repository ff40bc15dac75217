package database

import (
	"storefront-cart/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedCatalog loads a small demo catalog when the products table is empty.
// It returns the number of products created.
func SeedCatalog(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	products := []models.Product{
		{
			Name: "iPhone 16 Pro", Model: "A3293", Type: models.ProductTypeIPhone, IsActive: true,
			Image: "/uploads/iphone-16-pro.png",
			Variants: []models.ProductVariant{
				{Color: "Desert Titanium", Storage: "256GB", Connectivity: "5G", Price: decimal.NewFromInt(1099), Stock: 25, IsActive: true},
				{Color: "Black Titanium", Storage: "512GB", Connectivity: "5G", Price: decimal.NewFromInt(1299), Stock: 10, IsActive: true},
			},
		},
		{
			Name: "iPad Air 13\"", Model: "M2", Type: models.ProductTypeIPad, IsActive: true,
			Variants: []models.ProductVariant{
				{Color: "Blue", Storage: "128GB", Connectivity: "Wi-Fi", Price: decimal.NewFromInt(799), Stock: 12, IsActive: true},
				{Color: "Starlight", Storage: "256GB", Connectivity: "Wi-Fi + Cellular", Price: decimal.NewFromInt(1049), Stock: 4, IsActive: true},
			},
		},
		{
			Name: "MacBook Pro 14\"", Model: "M4 Pro", Type: models.ProductTypeMac, IsActive: true,
			Variants: []models.ProductVariant{
				{Color: "Space Black", CPUGPU: "12-core CPU / 16-core GPU", RAM: "24GB", Storage: "512GB SSD", Price: decimal.NewFromInt(1999), Stock: 6, IsActive: true},
			},
		},
		{
			Name: "AirPods Pro 2", Type: models.ProductTypeAirPods, IsActive: true,
			Variants: []models.ProductVariant{
				{Color: "White", Name: "USB-C", Price: decimal.NewFromInt(249), Stock: 40, IsActive: true},
			},
		},
		{
			Name: "Apple Watch Series 10", Type: models.ProductTypeAppleWatch, IsActive: true,
			Variants: []models.ProductVariant{
				{Color: "Jet Black", Name: "46mm GPS", Price: decimal.NewFromInt(429), Stock: 15, IsActive: true},
			},
		},
		{
			Name: "MagSafe Charger", Type: models.ProductTypeAccessory, IsActive: true,
			Variants: []models.ProductVariant{
				{Name: "1m", Price: decimal.NewFromInt(39), Stock: 100, IsActive: true},
			},
		},
	}

	if err := db.Create(&products).Error; err != nil {
		return 0, err
	}
	return len(products), nil
}
