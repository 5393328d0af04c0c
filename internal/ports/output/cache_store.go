package output

import (
	"context"

	"textoverlay/internal/domain/entities"
)

// CacheStore persists the translation cache.
type CacheStore interface {
	Load(ctx context.Context) (entities.LoadResult, error)
	Save(ctx context.Context, entries []entities.CacheEntry) error
}
