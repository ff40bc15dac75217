package database

import (
	"fmt"
	"strings"

	"storefront-cart/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Connect opens the database named by dsn. A "sqlite:" prefix selects an SQLite file (or
// ":memory:") for local runs; anything else is treated as a PostgreSQL DSN.
func Connect(dsn string, log gormlogger.Interface) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=storefront port=5432 sslmode=disable"
	}

	cfg := &gorm.Config{}
	if log != nil {
		cfg.Logger = log
	}

	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		db, err := gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer; sharing one connection keeps in-memory databases
		// visible to every goroutine.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	return gorm.Open(postgres.Open(dsn), cfg)
}

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return createSQLiteTables(db)
	}

	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	return db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
	)
}

// createSQLiteTables creates all tables with SQLite-compatible DDL.
// This avoids GORM AutoMigrate which emits PostgreSQL-specific defaults like gen_random_uuid().
func createSQLiteTables(db *gorm.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS "products" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"model" TEXT,
			"type" TEXT NOT NULL,
			"image" TEXT,
			"is_active" INTEGER NOT NULL DEFAULT 1,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_deleted_at ON "products"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_products_type ON "products"("type")`,

		`CREATE TABLE IF NOT EXISTS "product_variants" (
			"id" TEXT PRIMARY KEY,
			"product_id" TEXT NOT NULL,
			"color" TEXT,
			"storage" TEXT,
			"connectivity" TEXT,
			"cpu_gpu" TEXT,
			"ram" TEXT,
			"name" TEXT,
			"price" NUMERIC NOT NULL,
			"stock" INTEGER DEFAULT 0,
			"image" TEXT,
			"is_active" INTEGER NOT NULL DEFAULT 1,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_product_variants_product FOREIGN KEY ("product_id") REFERENCES "products"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_product_variants_deleted_at ON "product_variants"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_product_variants_product_id ON "product_variants"("product_id")`,

		`CREATE TABLE IF NOT EXISTS "carts" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"version" INTEGER NOT NULL DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_id ON "carts"("user_id")`,

		`CREATE TABLE IF NOT EXISTS "cart_items" (
			"id" TEXT PRIMARY KEY,
			"cart_id" TEXT NOT NULL,
			"variant_id" TEXT NOT NULL,
			"product_type" TEXT NOT NULL,
			"product_name" TEXT NOT NULL,
			"product_model" TEXT,
			"price" NUMERIC NOT NULL,
			"quantity" INTEGER NOT NULL DEFAULT 1,
			"image" TEXT,
			"variant_color" TEXT,
			"variant_storage" TEXT,
			"variant_connectivity" TEXT,
			"variant_cpu_gpu" TEXT,
			"variant_ram" TEXT,
			"variant_name" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_cart_items_cart FOREIGN KEY ("cart_id") REFERENCES "carts"("id")
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_line ON "cart_items"("cart_id", "variant_id", "product_type")`,
	}

	for _, ddl := range tables {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("failed to create sqlite schema: %w", err)
		}
	}
	return nil
}
