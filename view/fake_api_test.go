package view

import (
	"context"
	"errors"
	"sync"

	"storefront-cart/client"
	"storefront-cart/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryAPI is an in-process cart resource with the same merge and quantity rules as the
// server, so view tests can drive a real Store.
type memoryAPI struct {
	mu    sync.Mutex
	items []models.CartItem
	fail  error
}

func (m *memoryAPI) snapshot() *models.Cart {
	items := make([]models.CartItem, len(m.items))
	copy(items, m.items)
	return &models.Cart{Items: items}
}

func (m *memoryAPI) GetCart(context.Context) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	return m.snapshot(), nil
}

func (m *memoryAPI) AddItem(_ context.Context, in client.AddItemInput) (*models.Cart, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	for i := range m.items {
		if m.items[i].VariantID == in.VariantID && m.items[i].ProductType == in.ProductType {
			m.items[i].Quantity += qty
			return m.snapshot(), "Item added to cart", nil
		}
	}
	m.items = append(m.items, models.CartItem{
		ID:          uuid.New(),
		VariantID:   in.VariantID,
		ProductType: in.ProductType,
		ProductName: string(in.ProductType),
		Price:       decimal.NewFromInt(100),
		Quantity:    qty,
	})
	return m.snapshot(), "Item added to cart", nil
}

func (m *memoryAPI) UpdateItem(_ context.Context, in client.UpdateItemInput) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in.Quantity < 1 {
		return nil, &client.APIError{Status: 400, Kind: "invalid_argument", Message: "quantity must be at least 1"}
	}
	for i := range m.items {
		if m.items[i].VariantID == in.VariantID && m.items[i].ProductType == in.ProductType {
			m.items[i].Quantity = in.Quantity
			return m.snapshot(), nil
		}
	}
	return nil, &client.APIError{Status: 404, Kind: "not_found", Message: "cart item not found"}
}

func (m *memoryAPI) RemoveItem(_ context.Context, id uuid.UUID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return m.snapshot(), nil
		}
	}
	return nil, &client.APIError{Status: 404, Kind: "not_found", Message: "cart item not found"}
}

func (m *memoryAPI) ClearCart(context.Context) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return m.snapshot(), nil
}

func (m *memoryAPI) ValidateCart(context.Context) (*models.ValidationReport, error) {
	return nil, errors.New("not supported")
}

// seed puts lines straight into the fake server.
func (m *memoryAPI) seed(items ...models.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, items...)
}
