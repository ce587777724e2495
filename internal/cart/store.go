package cart

import (
	"errors"
	"sync"

	"github.com/ccp-platform/client-gateways/internal/domain"
)

// ErrInvalidQuantity rejects add requests whose quantity is not a positive
// integer. The cart state is untouched when it is returned.
var ErrInvalidQuantity = errors.New("cart: quantity must be a positive integer")

// Store holds the in-session cart lines for one customer session. It keeps
// one line per product (adding an existing product increments its quantity)
// and preserves the order in which products first entered the cart, since the
// order payload lists items in cart-line order.
//
// A store lives as long as its session and is never persisted.
type Store struct {
	mu    sync.Mutex
	lines map[string]*domain.CartLine
	order []string
}

func NewStore() *Store {
	return &Store{
		lines: make(map[string]*domain.CartLine),
	}
}

// AddItem inserts a line for the product or, when one already exists,
// increments its quantity.
func (s *Store) AddItem(p domain.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.lines[p.ID]; ok {
		line.Quantity += quantity
		return nil
	}

	s.lines[p.ID] = &domain.CartLine{Product: p, Quantity: quantity}
	s.order = append(s.order, p.ID)
	return nil
}

// RemoveItem deletes the product's line. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(productID)
}

// SetQuantity overwrites the line's quantity. A quantity of zero or less
// removes the line entirely. Setting a quantity for an absent product is a
// no-op.
func (s *Store) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.remove(productID)
		return
	}

	if line, ok := s.lines[productID]; ok {
		line.Quantity = quantity
	}
}

// Clear empties the cart. Called after a confirmed successful submission or
// an explicit user action.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[string]*domain.CartLine)
	s.order = nil
}

// Total recomputes the sum of price times quantity on every call. Carts are
// small; a cached total would only add staleness risk.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// Lines returns a snapshot of the cart in line-insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartLine, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

// Len reports the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *Store) remove(productID string) {
	if _, ok := s.lines[productID]; !ok {
		return
	}
	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
