// Package session keeps per-visitor state: cart, recently viewed list,
// wishlist and product feed, keyed by the X-Session-ID header value.
package session

import (
	"fmt"
	"regexp"
	"sync"

	"centremart/cart"
	"centremart/feed"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9\-]{8,64}$`)

// Session is the state of one visitor
type Session struct {
	ID       string
	Cart     *cart.Store
	Recent   *cart.RecentlyViewed
	Wishlist *cart.Wishlist
	Feed     *feed.Feed
}

// DefaultCapacity is how many sessions a Registry keeps loaded unless told otherwise
const DefaultCapacity = 10000

// Registry hands out sessions, restoring durable state on first use. At most
// capacity sessions stay loaded; the least recently used one is dropped and
// rebuilt from storage if its visitor comes back.
type Registry struct {
	storage cart.Storage
	pager   feed.Pager
	logger  *zap.Logger

	mu       sync.Mutex
	sessions *lru.Cache[string, *Session]
}

// NewRegistry returns a Registry of DefaultCapacity backed by storage and
// feeding from pager
func NewRegistry(storage cart.Storage, pager feed.Pager, logger *zap.Logger) *Registry {
	r, _ := NewBoundedRegistry(storage, pager, DefaultCapacity, logger)
	return r
}

// NewBoundedRegistry is NewRegistry with an explicit capacity
func NewBoundedRegistry(storage cart.Storage, pager feed.Pager, capacity int, logger *zap.Logger) (*Registry, error) {
	sessions, err := lru.NewWithEvict(capacity, func(id string, _ *Session) {
		logger.Debug("Session unloaded", zap.String("session", id))
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Registry{storage: storage, pager: pager, logger: logger, sessions: sessions}, nil
}

// Get returns the session for id. An empty or malformed id starts a new
// session; callers read the assigned id from Session.ID.
func (r *Registry) Get(id string) *Session {
	if !idPattern.MatchString(id) {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions.Get(id); ok {
		return s
	}
	log := r.logger.With(zap.String("session", id))
	s := &Session{
		ID:       id,
		Cart:     cart.NewStore(r.storage, cart.ScopedKey(cart.CartKey, id), log),
		Recent:   cart.NewRecentlyViewed(r.storage, cart.ScopedKey(cart.RecentlyViewedKey, id), log),
		Wishlist: cart.NewWishlist(r.storage, cart.ScopedKey(cart.WishlistKey, id), log),
		Feed:     feed.New(r.pager, log),
	}
	r.sessions.Add(id, s)
	return s
}

// Len reports how many sessions are loaded
func (r *Registry) Len() int {
	return r.sessions.Len()
}
