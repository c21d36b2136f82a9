package cart

import (
	"sync"
)

// Storage keys. Each is scoped to a browsing session with ScopedKey.
const (
	CartKey           = "centremart_cart"
	RecentlyViewedKey = "centremart_recently_viewed"
	WishlistKey       = "centremart_wishlist"
)

// Storage is local durable key/value storage holding JSON text
type Storage interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// ScopedKey namespaces key for one session
func ScopedKey(key, sessionID string) string {
	if sessionID == "" {
		return key
	}
	return key + ":" + sessionID
}

// MemoryStorage keeps values in a map. It does not survive restarts.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
