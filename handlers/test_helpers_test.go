package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"storefront-cart/database"
	"storefront-cart/middleware"
	"storefront-cart/models"
	"storefront-cart/services"
	"storefront-cart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
	utils.UseJSONFieldNames()

	var err error
	testDB, err = database.Connect("sqlite::memory:", gormlogger.Discard)
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	if err := database.Migrate(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	// Delete in correct order to respect foreign keys
	testDB.Exec("DELETE FROM cart_items")
	testDB.Exec("DELETE FROM carts")
	testDB.Exec("DELETE FROM product_variants")
	testDB.Exec("DELETE FROM products")
	return testDB
}

// ==================== Seed Helpers ====================

// seedUserToken returns a fresh user id and a bearer token for it.
func seedUserToken(role string) (uuid.UUID, string) {
	userID := uuid.New()
	token, err := utils.GenerateToken(userID, role, time.Hour)
	if err != nil {
		panic("failed to generate token: " + err.Error())
	}
	return userID, token
}

// seedVariant creates an active product of the given type with a single variant.
func seedVariant(db *gorm.DB, name string, productType models.ProductType, price int64, stock int) models.ProductVariant {
	product := models.Product{
		Name:     name,
		Model:    name + " Model",
		Type:     productType,
		Image:    "/uploads/" + name + ".png",
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		panic("failed to seed product: " + err.Error())
	}

	variant := models.ProductVariant{
		ProductID: product.ID,
		Color:     "Blue",
		Storage:   "256GB",
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		IsActive:  true,
	}
	if err := db.Create(&variant).Error; err != nil {
		panic("failed to seed variant: " + err.Error())
	}
	variant.Product = &product
	return variant
}

// ==================== Router Setup ====================

// setupCartRouter sets up routes for cart handler tests.
func setupCartRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	service := services.NewCartService(db, services.NewGormCatalog(db), nil, nil)
	cartHandler := &CartHandler{Service: service}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/cart", cartHandler.GetCart)
	protected.POST("/cart", cartHandler.AddToCart)
	protected.PUT("/cart", cartHandler.UpdateCartItem)
	protected.DELETE("/cart/items/:itemId", cartHandler.RemoveFromCart)
	protected.DELETE("/cart", cartHandler.ClearCart)
	protected.POST("/cart/validate", cartHandler.ValidateCart)

	return r
}

// setupProductRouter sets up routes for product handler tests.
func setupProductRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	productHandler := &ProductHandler{DB: db}

	api := r.Group("/api")

	// Public routes
	api.GET("/products", productHandler.GetProducts)
	api.GET("/products/:id", productHandler.GetProduct)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/variants/:id", productHandler.UpdateVariant)

	return r
}

// ==================== Request Helpers ====================

// jsonRequest creates an HTTP request with a JSON body.
func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authRequest creates an HTTP request with a JSON body and Authorization header.
func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// ==================== Response Helpers ====================

// parseResponse reads the response body into a map.
func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// cartItems digs the item list out of a {data: Cart} envelope.
func cartItems(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	resp := parseResponse(w)
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object in response, got %s", w.Body.String())
	}
	raw, _ := data["items"].([]interface{})
	items := make([]map[string]interface{}, 0, len(raw))
	for _, it := range raw {
		items = append(items, it.(map[string]interface{}))
	}
	return items
}
