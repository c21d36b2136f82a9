package cart

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"centremart/models"

	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNotInCart       = errors.New("product not in cart")
)

// Store is the cart of one browsing session. Every mutation is written
// through to Storage before it returns.
type Store struct {
	mu      sync.Mutex
	entries map[string]models.CartEntry // key: product id hex
	storage Storage
	key     string
	logger  *zap.Logger
}

// NewStore restores the cart saved under key. Unreadable or malformed data
// yields an empty cart.
func NewStore(storage Storage, key string, logger *zap.Logger) *Store {
	s := &Store{
		entries: make(map[string]models.CartEntry),
		storage: storage,
		key:     key,
		logger:  logger,
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	raw, found, err := s.storage.Get(s.key)
	if err != nil {
		s.logger.Warn("Error loading cart", zap.String("key", s.key), zap.Error(err))
		return
	}
	if !found {
		return
	}

	var saved map[string]models.CartEntry
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		s.logger.Warn("Discarding malformed cart", zap.String("key", s.key), zap.Error(err))
		return
	}
	for id, e := range saved {
		if e.Quantity <= 0 || id == "" {
			s.logger.Warn("Discarding malformed cart", zap.String("key", s.key), zap.String("product_id", id))
			return
		}
	}
	if saved != nil {
		s.entries = saved
	}
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return err
	}
	if err := s.storage.Set(s.key, string(data)); err != nil {
		s.logger.Error("Error saving cart", zap.String("key", s.key), zap.Error(err))
		return err
	}
	return nil
}

// AddToCart inserts product or increases its quantity by qty
func (s *Store) AddToCart(product models.Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := product.ID.Hex()
	entry := models.CartEntry{Product: product, Quantity: qty}
	if existing, ok := s.entries[id]; ok {
		entry.Quantity += existing.Quantity
	}
	s.entries[id] = entry
	return s.persist()
}

// UpdateQuantity sets the quantity of an entry; qty <= 0 removes it
func (s *Store) UpdateQuantity(productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[productID]
	if qty <= 0 {
		delete(s.entries, productID)
		return s.persist()
	}
	if !ok {
		return ErrNotInCart
	}
	entry.Quantity = qty
	s.entries[productID] = entry
	return s.persist()
}

// RemoveFromCart deletes an entry whether or not it exists
func (s *Store) RemoveFromCart(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, productID)
	return s.persist()
}

// ClearCart empties the cart
func (s *Store) ClearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]models.CartEntry)
	return s.persist()
}

// TotalPrice is the sum of price times quantity over all entries
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, e := range s.entries {
		total += e.Subtotal()
	}
	return total
}

// TotalItems is the sum of quantities
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, e := range s.entries {
		total += e.Quantity
	}
	return total
}

// Items returns the entries ordered by product name
func (s *Store) Items() []models.CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.CartEntry, 0, len(s.entries))
	for _, e := range s.entries {
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Product.Name == items[j].Product.Name {
			return items[i].Product.ID.Hex() < items[j].Product.ID.Hex()
		}
		return items[i].Product.Name < items[j].Product.Name
	})
	return items
}

// Summary returns the items together with both totals
func (s *Store) Summary() models.CartSummary {
	items := s.Items()
	summary := models.CartSummary{Items: items}
	for _, e := range items {
		summary.TotalItems += e.Quantity
		summary.TotalPrice += e.Subtotal()
	}
	return summary
}
