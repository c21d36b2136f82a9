package cart

import (
	"encoding/json"
	"sync"

	"centremart/models"

	"go.uber.org/zap"
)

// MaxRecentlyViewed caps the recently viewed list
const MaxRecentlyViewed = 10

// RecentlyViewed is a most-recent-first list of product snapshots
type RecentlyViewed struct {
	mu       sync.Mutex
	products []models.Product
	storage  Storage
	key      string
	logger   *zap.Logger
}

// NewRecentlyViewed restores the list saved under key
func NewRecentlyViewed(storage Storage, key string, logger *zap.Logger) *RecentlyViewed {
	r := &RecentlyViewed{storage: storage, key: key, logger: logger}
	raw, found, err := storage.Get(key)
	if err != nil || !found {
		return r
	}
	var saved []models.Product
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		logger.Warn("Discarding malformed recently viewed list", zap.String("key", key), zap.Error(err))
		return r
	}
	if len(saved) > MaxRecentlyViewed {
		saved = saved[:MaxRecentlyViewed]
	}
	r.products = saved
	return r
}

// Record moves product to the front of the list
func (r *RecentlyViewed) Record(product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]models.Product, 0, MaxRecentlyViewed)
	list = append(list, product)
	for _, p := range r.products {
		if p.ID == product.ID {
			continue
		}
		if len(list) == MaxRecentlyViewed {
			break
		}
		list = append(list, p)
	}
	r.products = list

	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return r.storage.Set(r.key, string(data))
}

// List returns at most n entries, most recent first; n <= 0 returns all
func (r *RecentlyViewed) List(n int) []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || n > len(r.products) {
		n = len(r.products)
	}
	out := make([]models.Product, n)
	copy(out, r.products[:n])
	return out
}
