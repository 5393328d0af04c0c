package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

var _ output.CacheStore = (*CacheRepository)(nil)

const upsertTranslation = `
INSERT INTO translations (original, translated)
VALUES ($1, $2)
ON CONFLICT (original) DO UPDATE
SET translated = EXCLUDED.translated,
    updated_at = now()
WHERE translations.translated IS DISTINCT FROM EXCLUDED.translated`

// CacheRepository implements output.CacheStore on PostgreSQL.
type CacheRepository struct {
	pool *pgxpool.Pool
}

// NewCacheRepository creates a CacheRepository.
func NewCacheRepository(pool *pgxpool.Pool) *CacheRepository {
	return &CacheRepository{pool: pool}
}

func (r *CacheRepository) Load(ctx context.Context) (entities.LoadResult, error) {
	rows, err := r.pool.Query(ctx, `SELECT original, translated FROM translations ORDER BY updated_at, original`)
	if err != nil {
		return entities.LoadResult{}, fmt.Errorf("select translations: %w", err)
	}
	defer rows.Close()

	var res entities.LoadResult
	for rows.Next() {
		var e entities.CacheEntry
		if err := rows.Scan(&e.Original, &e.Translated); err != nil {
			res.Malformed++
			continue
		}
		if e.Original == "" || e.Translated == "" {
			res.Malformed++
			continue
		}
		res.Entries = append(res.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("iterate translations: %w", err)
	}
	return res, nil
}

func (r *CacheRepository) Save(ctx context.Context, entries []entities.CacheEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertTranslation, e.Original, e.Translated)
	}
	br := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("upsert translation: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
