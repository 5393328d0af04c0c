// Package sqlite stores the translation cache in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

var _ output.CacheStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	original   TEXT PRIMARY KEY,
	translated TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Store implements output.CacheStore with modernc.org/sqlite.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	logger.Info("sqlite: cache database ready", "path", path)
	return &Store{db: db, log: logger}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context) (entities.LoadResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT original, translated FROM translations ORDER BY updated_at, rowid`)
	if err != nil {
		return entities.LoadResult{}, fmt.Errorf("sqlite: select translations: %w", err)
	}
	defer rows.Close()

	var res entities.LoadResult
	for rows.Next() {
		var original, translated sql.NullString
		if err := rows.Scan(&original, &translated); err != nil {
			res.Malformed++
			continue
		}
		if original.String == "" || translated.String == "" {
			res.Malformed++
			continue
		}
		res.Entries = append(res.Entries, entities.CacheEntry{Original: original.String, Translated: translated.String})
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("sqlite: iterate translations: %w", err)
	}
	return res, nil
}

// Save upserts every entry in one transaction.
func (s *Store) Save(ctx context.Context, entries []entities.CacheEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO translations (original, translated, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(original) DO UPDATE SET
			translated = excluded.translated,
			updated_at = CASE WHEN translations.translated = excluded.translated
				THEN translations.updated_at ELSE excluded.updated_at END`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Original, e.Translated); err != nil {
			return fmt.Errorf("sqlite: upsert %q: %w", e.Original, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}
