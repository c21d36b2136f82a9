package cart

import (
	"encoding/json"
	"sort"
	"sync"

	"centremart/models"

	"go.uber.org/zap"
)

// Wishlist is a set of saved products
type Wishlist struct {
	mu       sync.Mutex
	products map[string]models.Product
	storage  Storage
	key      string
	logger   *zap.Logger
}

// NewWishlist restores the wishlist saved under key
func NewWishlist(storage Storage, key string, logger *zap.Logger) *Wishlist {
	w := &Wishlist{products: make(map[string]models.Product), storage: storage, key: key, logger: logger}
	raw, found, err := storage.Get(key)
	if err != nil || !found {
		return w
	}
	var saved map[string]models.Product
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		logger.Warn("Discarding malformed wishlist", zap.String("key", key), zap.Error(err))
		return w
	}
	if saved != nil {
		w.products = saved
	}
	return w
}

// Toggle adds product when absent and removes it when present. It returns
// whether the product is on the wishlist afterwards.
func (w *Wishlist) Toggle(product models.Product) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := product.ID.Hex()
	_, had := w.products[id]
	if had {
		delete(w.products, id)
	} else {
		w.products[id] = product
	}

	data, err := json.Marshal(w.products)
	if err != nil {
		return !had, err
	}
	if err := w.storage.Set(w.key, string(data)); err != nil {
		w.logger.Error("Error saving wishlist", zap.String("key", w.key), zap.Error(err))
		return !had, err
	}
	return !had, nil
}

// Has reports whether the product id is saved
func (w *Wishlist) Has(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.products[productID]
	return ok
}

// Items returns saved products ordered by name
func (w *Wishlist) Items() []models.Product {
	w.mu.Lock()
	defer w.mu.Unlock()

	items := make([]models.Product, 0, len(w.products))
	for _, p := range w.products {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}
