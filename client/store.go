package client

import (
	"context"
	"errors"
	"net"
	"sync"

	"storefront-cart/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgFetchFailed    = "Failed to fetch cart"
	msgAddFailed      = "Failed to add item to cart"
	msgUpdateFailed   = "Failed to update cart item"
	msgRemoveFailed   = "Failed to remove item from cart"
	msgClearFailed    = "Failed to clear cart"
	msgValidateFailed = "Failed to validate cart"
	msgTimedOut       = "Request timed out"
)

// Result is what a store operation reports back to the caller. Failures are never returned as
// errors; the message is also kept on the store until the next operation starts.
type Result struct {
	Success bool
	Message string
}

// Store is the client's single source of truth for the cart. The cart it exposes is the last
// snapshot the server returned; it is replaced wholesale on every applied response and must
// not be modified by callers.
//
// Operations may overlap. Each one is numbered when it starts, and a response that arrives
// after a newer one has already been applied is discarded.
type Store struct {
	api CartAPI

	mu        sync.Mutex
	cart      *models.Cart
	inFlight  int
	lastError string
	issued    uint64
	applied   uint64
	listeners map[int]func(*models.Cart)
	nextSub   int
}

func NewStore(api CartAPI) *Store {
	return &Store{
		api:       api,
		cart:      &models.Cart{Items: []models.CartItem{}},
		listeners: make(map[int]func(*models.Cart)),
	}
}

// Cart returns the current snapshot. A new pointer means a new snapshot.
func (s *Store) Cart() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// IsLoading reports whether any request is outstanding.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Error is the message of the last failed operation, or "".
func (s *Store) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

func (s *Store) Total() decimal.Decimal {
	return s.Cart().Total()
}

func (s *Store) ItemCount() int {
	return s.Cart().ItemCount()
}

// ItemByVariant returns the first line holding variantID.
func (s *Store) ItemByVariant(variantID uuid.UUID) (models.CartItem, bool) {
	item := s.Cart().FindByVariant(variantID)
	if item == nil {
		return models.CartItem{}, false
	}
	return *item, true
}

// Subscribe registers fn to receive every applied snapshot. fn runs on the goroutine that
// completed the request, after the store has been updated. When requests overlap a listener
// can see an older snapshot after a newer one; compare with Cart() to skip superseded ones.
// The returned func unsubscribes.
func (s *Store) Subscribe(fn func(*models.Cart)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) GetCart(ctx context.Context) Result {
	return s.run(ctx, msgFetchFailed, func(ctx context.Context) (*models.Cart, string, error) {
		cart, err := s.api.GetCart(ctx)
		return cart, "", err
	})
}

func (s *Store) AddToCart(ctx context.Context, in AddItemInput) Result {
	return s.run(ctx, msgAddFailed, func(ctx context.Context) (*models.Cart, string, error) {
		return s.api.AddItem(ctx, in)
	})
}

func (s *Store) UpdateCartItem(ctx context.Context, in UpdateItemInput) Result {
	return s.run(ctx, msgUpdateFailed, func(ctx context.Context) (*models.Cart, string, error) {
		cart, err := s.api.UpdateItem(ctx, in)
		return cart, "", err
	})
}

func (s *Store) RemoveFromCart(ctx context.Context, itemID uuid.UUID) Result {
	return s.run(ctx, msgRemoveFailed, func(ctx context.Context) (*models.Cart, string, error) {
		cart, err := s.api.RemoveItem(ctx, itemID)
		return cart, "", err
	})
}

func (s *Store) ClearCart(ctx context.Context) Result {
	return s.run(ctx, msgClearFailed, func(ctx context.Context) (*models.Cart, string, error) {
		cart, err := s.api.ClearCart(ctx)
		return cart, "", err
	})
}

// ValidateCart asks the server to re-check every line. The cart snapshot is not touched; a
// failure is recorded like any other.
func (s *Store) ValidateCart(ctx context.Context) (*models.ValidationReport, Result) {
	s.mu.Lock()
	s.inFlight++
	s.lastError = ""
	s.mu.Unlock()

	report, err := s.api.ValidateCart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if err != nil {
		msg := failureMessage(err, msgValidateFailed)
		s.lastError = msg
		return nil, Result{Message: msg}
	}
	return report, Result{Success: true}
}

func (s *Store) run(ctx context.Context, fallback string, call func(context.Context) (*models.Cart, string, error)) Result {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.inFlight++
	s.lastError = ""
	s.mu.Unlock()

	cart, msg, err := call(ctx)
	if err == nil && cart == nil {
		err = errors.New("empty cart snapshot")
	}

	var result Result
	if err != nil {
		result = Result{Message: failureMessage(err, fallback)}
	} else {
		result = Result{Success: true, Message: msg}
	}

	s.mu.Lock()
	s.inFlight--
	if seq < s.applied {
		s.mu.Unlock()
		return result
	}
	s.applied = seq
	if err != nil {
		s.lastError = result.Message
		s.mu.Unlock()
		return result
	}
	snapshot := cart.Clone()
	s.cart = snapshot
	listeners := make([]func(*models.Cart), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return result
}

// failureMessage prefers the server's own message, then a timeout notice, then fallback.
func failureMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimedOut
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return msgTimedOut
	}
	return fallback
}
