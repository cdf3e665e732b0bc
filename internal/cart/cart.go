// Package cart holds the shopping cart state: an ordered list of product
// snapshots with quantities, one entry per product, mirrored to persistent
// storage on every mutation so the cart survives restarts.
//
// Quantity clamping uses the stock captured in the product snapshot at
// add-time, not a live re-check. That staleness is intentional: the server
// re-validates stock at order time and is the authority.
package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/velora-shop/storefront-go/internal/domain/product"
	"github.com/velora-shop/storefront-go/internal/storage"
)

// ErrOutOfStock is returned when a sold-out product is added. A zero-stock
// snapshot can never satisfy the quantity floor of one, so the entry is
// refused outright instead of being stored at zero.
var ErrOutOfStock = errors.New("product is out of stock")

// Entry is one cart line: a product snapshot and how many of it.
// Quantity is always within [1, Product.Stock]; a would-be zero quantity
// removes the entry instead.
type Entry struct {
	Product  product.Product
	Quantity int
}

// Subtotal is price × quantity for this line.
func (e Entry) Subtotal() decimal.Decimal {
	return e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Store is the cart state store.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	items   []Entry
	open    bool // ephemeral UI state, never persisted
}

// New creates a Store and hydrates it once from the cart slot. A corrupt
// slot is dropped and the cart starts empty.
func New(ctx context.Context, s storage.Storage) *Store {
	st := &Store{storage: s}

	raw, ok := s.Get(storage.KeyCart)
	if !ok || raw == "" {
		return st
	}
	items, err := decodeEntries(raw)
	if err != nil {
		zctx.From(ctx).Warn("Discarding corrupt cart slot", zap.Error(err))
		_ = s.Remove(storage.KeyCart)
		return st
	}
	st.items = items
	return st
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.items))
	copy(out, s.items)
	return out
}

// AddItem puts quantity units of p in the cart, merging into the existing
// entry for the same product when there is one. The resulting quantity is
// clamped to the snapshot's stock. Sold-out products are refused with
// ErrOutOfStock. Adding opens the cart.
func (s *Store) AddItem(p product.Product, quantity int) error {
	if !p.InStock() {
		return ErrOutOfStock
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true

	for i := range s.items {
		if s.items[i].Product.ID == p.ID {
			s.items[i].Quantity = s.items[i].Product.ClampQuantity(s.items[i].Quantity + quantity)
			return s.persist()
		}
	}

	s.items = append(s.items, Entry{Product: p, Quantity: p.ClampQuantity(quantity)})
	return s.persist()
}

// RemoveItem deletes the entry for productID. Absent entries are a no-op.
func (s *Store) RemoveItem(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist()
		}
	}
	return nil
}

// UpdateItem sets the quantity for productID, clamped to the snapshot's
// stock. A quantity of zero or less removes the entry.
func (s *Store) UpdateItem(productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = s.items[i].Product.ClampQuantity(quantity)
			return s.persist()
		}
	}
	return nil
}

// Clear empties the cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.persist()
}

// Toggle flips cart visibility.
func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
}

// Open marks the cart visible.
func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

// Close marks the cart hidden.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// IsOpen reports cart visibility.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Subtotal is the sum of price × quantity across all lines.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, e := range s.items {
		total = total.Add(e.Subtotal())
	}
	return total
}

// Count is the total number of units across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.items {
		n += e.Quantity
	}
	return n
}

// persist mirrors the current lines to the cart slot. Caller holds s.mu.
func (s *Store) persist() error {
	return s.storage.Set(storage.KeyCart, encodeEntries(s.items))
}
