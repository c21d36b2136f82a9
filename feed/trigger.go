package feed

// Trigger watches a single rendered item. It is rebound whenever the
// rendered list changes and only fires for the item it is bound to.
type Trigger struct {
	itemID string
	bound  bool
}

// Bind attaches the trigger to itemID, replacing any previous binding
func (t *Trigger) Bind(itemID string) {
	t.itemID = itemID
	t.bound = true
}

// Unbind detaches the trigger so it never fires
func (t *Trigger) Unbind() {
	t.itemID = ""
	t.bound = false
}

// Fires reports whether a visibility signal for itemID should advance the feed
func (t *Trigger) Fires(itemID string) bool {
	return t.bound && itemID != "" && t.itemID == itemID
}

// BoundTo returns the watched item id
func (t *Trigger) BoundTo() (string, bool) {
	return t.itemID, t.bound
}
