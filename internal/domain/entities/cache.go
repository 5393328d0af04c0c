package entities

// CacheEntry is one persisted translation.
type CacheEntry struct {
	Original   string
	Translated string
}

// LoadResult is what a cache store hands back on load. Entries are in
// storage order so later duplicates win.
type LoadResult struct {
	Entries   []CacheEntry
	Malformed int
}
