package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-cart/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestGetProductsListAll(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	seedVariant(db, "iPhone 16", models.ProductTypeIPhone, 999, 5)
	seedVariant(db, "MacBook Air", models.ProductTypeMac, 1199, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	result := parseResponse(w)["data"].([]interface{})
	if len(result) != 2 {
		t.Errorf("expected 2 products, got %d", len(result))
	}
	first := result[0].(map[string]interface{})
	if variants, _ := first["variants"].([]interface{}); len(variants) != 1 {
		t.Errorf("expected variants to be preloaded, got %v", first["variants"])
	}
}

func TestGetProductsFilterByType(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	seedVariant(db, "iPhone 16", models.ProductTypeIPhone, 999, 5)
	seedVariant(db, "MacBook Air", models.ProductTypeMac, 1199, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products?type=Mac", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	result := parseResponse(w)["data"].([]interface{})
	if len(result) != 1 {
		t.Fatalf("expected 1 product, got %d", len(result))
	}
	if name := result[0].(map[string]interface{})["name"]; name != "MacBook Air" {
		t.Errorf("expected MacBook Air, got %v", name)
	}
}

func TestGetProductsUnknownType(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products?type=Toaster", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetProductsExcludesInactive(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	seedVariant(db, "iPhone 16", models.ProductTypeIPhone, 999, 5)
	hidden := seedVariant(db, "iPhone 12", models.ProductTypeIPhone, 499, 5)
	db.Model(&models.Product{}).Where("id = ?", hidden.ProductID).Update("is_active", false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products", nil))

	result := parseResponse(w)["data"].([]interface{})
	if len(result) != 1 {
		t.Errorf("expected only the active product, got %d", len(result))
	}
}

func TestGetProductByID(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	variant := seedVariant(db, "iPad mini", models.ProductTypeIPad, 499, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", fmt.Sprintf("/api/products/%s", variant.ProductID), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	data := parseResponse(w)["data"].(map[string]interface{})
	if data["name"] != "iPad mini" {
		t.Errorf("expected name 'iPad mini', got %v", data["name"])
	}
	if data["productType"] != "iPad" {
		t.Errorf("expected productType iPad, got %v", data["productType"])
	}
}

func TestGetProductNotFound(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", fmt.Sprintf("/api/products/%s", uuid.New()), nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateProductSuccess(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	_, token := seedUserToken("admin")

	body := map[string]interface{}{
		"name":        "MacBook Pro 14",
		"model":       "M4",
		"productType": "Mac",
		"variants": []map[string]interface{}{
			{"color": "Silver", "cpuGpu": "10-core CPU / 10-core GPU", "ram": "16GB", "storage": "512GB", "price": "1599.00", "stock": 4},
			{"color": "Space Black", "ram": "24GB", "storage": "1TB", "price": 1999, "stock": 2, "isActive": false},
		},
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/products", body, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var variants []models.ProductVariant
	db.Order("price ASC").Find(&variants)
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
	if !variants[0].Price.Equal(decimal.RequireFromString("1599")) || !variants[0].IsActive {
		t.Errorf("unexpected first variant %+v", variants[0])
	}
	if variants[1].IsActive {
		t.Error("expected explicit isActive=false to be kept")
	}
}

func TestCreateProductValidation(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	_, token := seedUserToken("admin")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"productType": "Mac", "variants": []map[string]interface{}{{"price": 1}}}},
		{"unknown type", map[string]interface{}{"name": "Thing", "productType": "Toaster", "variants": []map[string]interface{}{{"price": 1}}}},
		{"no variants", map[string]interface{}{"name": "Thing", "productType": "Mac", "variants": []map[string]interface{}{}}},
		{"zero price", map[string]interface{}{"name": "Thing", "productType": "Mac", "variants": []map[string]interface{}{{"price": 0}}}},
		{"negative stock", map[string]interface{}{"name": "Thing", "productType": "Mac", "variants": []map[string]interface{}{{"price": 1, "stock": -1}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authRequest("POST", "/api/admin/products", tc.body, token))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	_, token := seedUserToken("customer")
	body := map[string]interface{}{"name": "Thing", "productType": "Mac", "variants": []map[string]interface{}{{"price": 1}}}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/products", body, token))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateVariantSuccess(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	_, token := seedUserToken("admin")
	variant := seedVariant(db, "iPhone 16", models.ProductTypeIPhone, 999, 5)

	body := map[string]interface{}{"price": "899.00", "stock": 0, "isActive": false}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", fmt.Sprintf("/api/admin/variants/%s", variant.ID), body, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.ProductVariant
	db.First(&updated, "id = ?", variant.ID)
	if !updated.Price.Equal(decimal.NewFromInt(899)) {
		t.Errorf("expected price 899, got %s", updated.Price)
	}
	if updated.Stock != 0 || updated.IsActive {
		t.Errorf("expected stock 0 and inactive, got %d/%v", updated.Stock, updated.IsActive)
	}
}

func TestUpdateVariantNotFound(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	_, token := seedUserToken("admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", fmt.Sprintf("/api/admin/variants/%s", uuid.New()), map[string]interface{}{"stock": 3}, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateVariantEmptyBody(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db)

	_, token := seedUserToken("admin")
	variant := seedVariant(db, "iPhone 16", models.ProductTypeIPhone, 999, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", fmt.Sprintf("/api/admin/variants/%s", variant.ID), map[string]interface{}{}, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}
