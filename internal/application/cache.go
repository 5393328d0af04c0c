package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

// TranslationCache is the in-memory view of the durable translation cache.
// Keys are raw source strings, line breaks included.
type TranslationCache struct {
	mu      sync.RWMutex
	entries map[string]string
	store   output.CacheStore
	log     *slog.Logger

	// loadFailed is set while the last Load or Reload failed; Flush refuses
	// to overwrite a store it could not read.
	loadFailed bool
}

func NewTranslationCache(store output.CacheStore, logger *slog.Logger) *TranslationCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationCache{
		entries: make(map[string]string),
		store:   store,
		log:     logger,
	}
}

func (c *TranslationCache) Lookup(original string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[original]
	return v, ok
}

// Store upserts one translation.
func (c *TranslationCache) Store(original, translated string) {
	c.mu.Lock()
	c.entries[original] = translated
	c.mu.Unlock()
}

func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a snapshot sorted by original text.
func (c *TranslationCache) Entries() []entities.CacheEntry {
	c.mu.RLock()
	out := make([]entities.CacheEntry, 0, len(c.entries))
	for k, v := range c.entries {
		out = append(out, entities.CacheEntry{Original: k, Translated: v})
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Original < out[j].Original })
	return out
}

// Load merges the persisted entries into memory, later duplicates winning.
// A store failure leaves the cache as it was and is returned to the caller.
func (c *TranslationCache) Load(ctx context.Context) (entities.LoadResult, error) {
	res, err := c.read(ctx)
	if err != nil {
		return entities.LoadResult{}, err
	}
	c.mu.Lock()
	for _, e := range res.Entries {
		c.entries[e.Original] = e.Translated
	}
	c.mu.Unlock()
	return res, nil
}

// Reload replaces the in-memory entries with the store's content. On error
// the current entries are kept.
func (c *TranslationCache) Reload(ctx context.Context) (entities.LoadResult, error) {
	res, err := c.read(ctx)
	if err != nil {
		return entities.LoadResult{}, err
	}
	fresh := make(map[string]string, len(res.Entries))
	for _, e := range res.Entries {
		fresh[e.Original] = e.Translated
	}
	c.mu.Lock()
	c.entries = fresh
	c.mu.Unlock()
	return res, nil
}

func (c *TranslationCache) read(ctx context.Context) (entities.LoadResult, error) {
	res, err := c.store.Load(ctx)
	c.mu.Lock()
	c.loadFailed = err != nil
	c.mu.Unlock()
	if err != nil {
		return entities.LoadResult{}, fmt.Errorf("load cache: %w", err)
	}
	return res, nil
}

// Flush persists the whole cache. It returns domain.ErrCacheUnread without
// writing while the store is unreadable, so a failed load never truncates it.
func (c *TranslationCache) Flush(ctx context.Context) error {
	c.mu.RLock()
	unread := c.loadFailed
	c.mu.RUnlock()
	if unread {
		c.log.Warn("cache flush skipped, store could not be read", "entries", c.Len())
		return fmt.Errorf("flush cache: %w", domain.ErrCacheUnread)
	}
	entries := c.Entries()
	if err := c.store.Save(ctx, entries); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	c.log.Debug("cache flushed", "entries", len(entries))
	return nil
}
