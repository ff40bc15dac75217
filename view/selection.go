package view

import (
	"storefront-cart/models"

	"github.com/google/uuid"
)

// Selection is the set of cart lines the user intends to check out. It is not safe for
// concurrent use; CartView guards its own.
type Selection struct {
	order    []uuid.UUID
	selected map[uuid.UUID]struct{}
}

func NewSelection() *Selection {
	return &Selection{selected: make(map[uuid.UUID]struct{})}
}

// Reset selects every line of cart, in cart order.
func (s *Selection) Reset(cart *models.Cart) {
	s.order = s.order[:0]
	s.selected = make(map[uuid.UUID]struct{})
	if cart == nil {
		return
	}
	for _, item := range cart.Items {
		s.order = append(s.order, item.ID)
		s.selected[item.ID] = struct{}{}
	}
}

// Toggle flips one line. Ids that are not in the cart are ignored.
func (s *Selection) Toggle(id uuid.UUID) {
	if !s.known(id) {
		return
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// ToggleAll clears the selection when every line is selected, and selects every line otherwise.
func (s *Selection) ToggleAll() {
	if s.AllSelected() {
		s.selected = make(map[uuid.UUID]struct{})
		return
	}
	for _, id := range s.order {
		s.selected[id] = struct{}{}
	}
}

func (s *Selection) IsSelected(id uuid.UUID) bool {
	_, ok := s.selected[id]
	return ok
}

func (s *Selection) Count() int { return len(s.selected) }

func (s *Selection) AllSelected() bool { return len(s.selected) == len(s.order) }

// IDs returns the selected line ids in cart order.
func (s *Selection) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.selected))
	for _, id := range s.order {
		if _, ok := s.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Selection) known(id uuid.UUID) bool {
	for _, existing := range s.order {
		if existing == id {
			return true
		}
	}
	return false
}
