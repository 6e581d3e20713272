package feed

// Item is one normalized feed entry, ready for rendering.
//
// HTMLBody is taken from the feed as-is unless the parser was built with a
// sanitizer. Feed content is treated as trusted; renderers that inject it
// into an HTML context inherit that trust.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	HTMLBody string `json:"htmlBody"`
}

// CloneItems returns an independent copy of items, preserving nil.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
