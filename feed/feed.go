// Package feed implements the infinite-scroll product feed: name-ordered
// pages fetched with a "start after" cursor, at most one fetch in flight.
package feed

import (
	"context"
	"sync"

	"centremart/models"

	"go.uber.org/zap"
)

// PageSize is the number of products requested per fetch
const PageSize = 12

// Pager reads one page of products ordered by name, starting after the cursor
type Pager interface {
	Page(ctx context.Context, after *Cursor, limit int) ([]models.Product, error)
}

// State is the request-in-flight state of a feed
type State int

const (
	Idle State = iota
	Fetching
)

func (s State) String() string {
	if s == Fetching {
		return "fetching"
	}
	return "idle"
}

// FetchResult describes the outcome of one Fetch call
type FetchResult struct {
	Items   []models.Product `json:"items"`
	HasMore bool             `json:"has_more"`
	// Dropped is set when the call arrived while another fetch was in flight
	Dropped bool `json:"dropped"`
}

// Feed accumulates pages for one browsing session. A Fetch made while
// another is in flight is dropped, not queued.
type Feed struct {
	pager  Pager
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	cursor  *Cursor
	items   []models.Product
	hasMore bool
	search  string
	trigger Trigger
}

// New returns an empty feed reading from pager
func New(pager Pager, logger *zap.Logger) *Feed {
	return &Feed{pager: pager, logger: logger, hasMore: true}
}

// Fetch requests the next page, or the first page when initial is set
func (f *Feed) Fetch(ctx context.Context, initial bool) (FetchResult, error) {
	f.mu.Lock()
	if f.state == Fetching {
		hasMore := f.hasMore
		f.mu.Unlock()
		f.logger.Debug("Dropping feed fetch while another is in flight")
		return FetchResult{HasMore: hasMore, Dropped: true}, nil
	}
	f.state = Fetching
	after := f.cursor
	if initial {
		after = nil
	}
	f.mu.Unlock()

	page, err := f.pager.Page(ctx, after, PageSize)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Idle
	if err != nil {
		f.logger.Error("Error fetching products", zap.Bool("initial", initial), zap.Error(err))
		return FetchResult{HasMore: f.hasMore}, err
	}

	if initial {
		f.items = append([]models.Product(nil), page...)
		f.cursor = nil
	} else {
		f.items = append(f.items, page...)
	}
	if len(page) > 0 {
		c := CursorOf(page[len(page)-1])
		f.cursor = &c
	}
	f.hasMore = len(page) == PageSize
	f.rebindLocked()

	return FetchResult{Items: page, HasMore: f.hasMore}, nil
}

// View returns the rendered product list for search and rebinds the
// visibility trigger to its last item. While a search term is active the
// trigger is unbound and the feed does not advance.
func (f *Feed) View(search string) []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.search = search
	f.rebindLocked()
	return Filter(append([]models.Product(nil), f.items...), search)
}

// Visible is the signal that itemID entered the viewport. When the trigger
// is bound to that item the next page is fetched; fired reports whether a
// fetch was attempted.
func (f *Feed) Visible(ctx context.Context, itemID string) (res FetchResult, fired bool, err error) {
	f.mu.Lock()
	bound := f.trigger.Fires(itemID) && f.state == Idle && f.hasMore
	hasMore := f.hasMore
	f.mu.Unlock()

	if !bound {
		return FetchResult{HasMore: hasMore}, false, nil
	}
	res, err = f.Fetch(ctx, false)
	return res, true, err
}

func (f *Feed) rebindLocked() {
	if f.search != "" || !f.hasMore {
		f.trigger.Unbind()
		return
	}
	rendered := Filter(f.items, f.search)
	if len(rendered) == 0 {
		f.trigger.Unbind()
		return
	}
	f.trigger.Bind(rendered[len(rendered)-1].ID.Hex())
}

// State returns the current request-in-flight state
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// HasMore reports whether the last page was full
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Trigger returns the item id the visibility trigger is bound to
func (f *Feed) Trigger() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trigger.BoundTo()
}
