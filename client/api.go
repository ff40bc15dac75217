package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-cart/models"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// AddItemInput is what the storefront sends to add a variant. A zero Quantity lets the server
// apply its default of one.
type AddItemInput struct {
	VariantID   uuid.UUID          `json:"variantId"`
	ProductType models.ProductType `json:"productType"`
	Quantity    int                `json:"quantity,omitempty"`
}

// UpdateItemInput sets the absolute quantity of the line holding the variant.
type UpdateItemInput struct {
	VariantID   uuid.UUID          `json:"variantId"`
	ProductType models.ProductType `json:"productType"`
	Quantity    int                `json:"quantity"`
}

// CartAPI is the cart resource as seen from a client. Every call returns the server's full
// snapshot of the caller's cart.
type CartAPI interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddItem(ctx context.Context, in AddItemInput) (*models.Cart, string, error)
	UpdateItem(ctx context.Context, in UpdateItemInput) (*models.Cart, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
	ValidateCart(ctx context.Context) (*models.ValidationReport, error)
}

// APIError is a non-2xx answer from the cart resource.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cart api: %d %s: %s", e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("cart api: %d %s", e.Status, e.Kind)
}

// HTTPCartAPI talks to the cart routes under <BaseURL>/api.
type HTTPCartAPI struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewHTTPCartAPI builds a client for baseURL that authenticates with token. A non-positive
// timeout falls back to ten seconds.
func NewHTTPCartAPI(baseURL, token string, timeout time.Duration) *HTTPCartAPI {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPCartAPI{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *HTTPCartAPI) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if _, err := a.do(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (a *HTTPCartAPI) AddItem(ctx context.Context, in AddItemInput) (*models.Cart, string, error) {
	var cart models.Cart
	msg, err := a.do(ctx, http.MethodPost, "/api/cart", in, &cart)
	if err != nil {
		return nil, "", err
	}
	return &cart, msg, nil
}

func (a *HTTPCartAPI) UpdateItem(ctx context.Context, in UpdateItemInput) (*models.Cart, error) {
	var cart models.Cart
	if _, err := a.do(ctx, http.MethodPut, "/api/cart", in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (a *HTTPCartAPI) RemoveItem(ctx context.Context, itemID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if _, err := a.do(ctx, http.MethodDelete, "/api/cart/items/"+itemID.String(), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (a *HTTPCartAPI) ClearCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if _, err := a.do(ctx, http.MethodDelete, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (a *HTTPCartAPI) ValidateCart(ctx context.Context) (*models.ValidationReport, error) {
	var report models.ValidationReport
	if _, err := a.do(ctx, http.MethodPost, "/api/cart/validate", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// do sends one request and decodes the data member of the response envelope into out. It
// returns the envelope's message.
func (a *HTTPCartAPI) do(ctx context.Context, method, path string, body, out any) (string, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Kind: http.StatusText(resp.StatusCode)}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			if eb.Error != "" {
				apiErr.Kind = eb.Error
			}
			apiErr.Message = eb.Message
		}
		return "", apiErr
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return "", fmt.Errorf("decode response: missing data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return "", fmt.Errorf("decode response data: %w", err)
	}
	return env.Message, nil
}
