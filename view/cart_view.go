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

// ErrEmptySelection is returned by Checkout when nothing is selected. Its text is shown to the
// user as is.
var ErrEmptySelection = errors.New("select at least one item to check out")

// CheckoutHandoff is passed by value to the checkout step.
type CheckoutHandoff struct {
	ItemIDs  []uuid.UUID
	Subtotal decimal.Decimal
}

// Summary is everything the cart page header and footer render.
type Summary struct {
	ItemCount        int
	LineCount        int
	SelectedCount    int
	AllSelected      bool
	SelectedSubtotal decimal.Decimal
	Total            decimal.Decimal
	Loading          bool
	// Notification is the store's last error. Reading it through Summary clears it.
	Notification string
}

// CartView binds a Store to a selection. Every snapshot the store applies resets the selection
// to all lines.
type CartView struct {
	store  *client.Store
	origin string

	mu          sync.Mutex
	cart        *models.Cart
	selection   *Selection
	unsubscribe func()
}

// NewCartView starts tracking store. origin is the API origin used to resolve relative image
// paths on item cards.
func NewCartView(store *client.Store, origin string) *CartView {
	v := &CartView{
		store:     store,
		origin:    origin,
		selection: NewSelection(),
	}
	v.apply(store.Cart())
	v.unsubscribe = store.Subscribe(v.onSnapshot)
	return v
}

// Close stops following the store.
func (v *CartView) Close() {
	v.unsubscribe()
}

// Load fetches the cart; the resulting snapshot resets the selection.
func (v *CartView) Load(ctx context.Context) client.Result {
	return v.store.GetCart(ctx)
}

func (v *CartView) onSnapshot(cart *models.Cart) {
	v.mu.Lock()
	defer v.mu.Unlock()
	// A newer snapshot has already been applied; its own notification wins.
	if cart != v.store.Cart() {
		return
	}
	v.cart = cart
	v.selection.Reset(cart)
}

func (v *CartView) apply(cart *models.Cart) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cart = cart
	v.selection.Reset(cart)
}

func (v *CartView) Toggle(id uuid.UUID) {
	v.mu.Lock()
	v.selection.Toggle(id)
	v.mu.Unlock()
}

func (v *CartView) ToggleAll() {
	v.mu.Lock()
	v.selection.ToggleAll()
	v.mu.Unlock()
}

func (v *CartView) IsSelected(id uuid.UUID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selection.IsSelected(id)
}

// SelectedIDs returns the selected line ids in cart order.
func (v *CartView) SelectedIDs() []uuid.UUID {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selection.IDs()
}

// SelectedSubtotal sums price x quantity over the selected lines of the current snapshot.
func (v *CartView) SelectedSubtotal() decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectedSubtotal()
}

func (v *CartView) selectedSubtotal() decimal.Decimal {
	subtotal := decimal.Zero
	if v.cart == nil {
		return subtotal
	}
	for _, item := range v.cart.Items {
		if v.selection.IsSelected(item.ID) {
			subtotal = subtotal.Add(item.LineTotal())
		}
	}
	return subtotal
}

// Checkout hands the selected lines to the next step. Nothing is sent to the server.
func (v *CartView) Checkout() (CheckoutHandoff, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := v.selection.IDs()
	if len(ids) == 0 {
		return CheckoutHandoff{}, ErrEmptySelection
	}
	return CheckoutHandoff{ItemIDs: ids, Subtotal: v.selectedSubtotal()}, nil
}

// Items returns a card per line of the current snapshot, in cart order.
func (v *CartView) Items() []*ItemCard {
	v.mu.Lock()
	cart := v.cart
	v.mu.Unlock()

	if cart == nil {
		return nil
	}
	cards := make([]*ItemCard, 0, len(cart.Items))
	for _, item := range cart.Items {
		cards = append(cards, NewItemCard(item, v.origin, v.store))
	}
	return cards
}

func (v *CartView) Summary() Summary {
	v.mu.Lock()
	sum := Summary{
		ItemCount:        v.cart.ItemCount(),
		Total:            v.cart.Total(),
		SelectedCount:    v.selection.Count(),
		AllSelected:      v.selection.AllSelected(),
		SelectedSubtotal: v.selectedSubtotal(),
	}
	if v.cart != nil {
		sum.LineCount = len(v.cart.Items)
	}
	v.mu.Unlock()

	sum.Loading = v.store.IsLoading()
	if msg := v.store.Error(); msg != "" {
		sum.Notification = msg
		v.store.ClearError()
	}
	return sum
}
