// Package cachestore selects the translation cache backend from configuration.
package cachestore

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"textoverlay/internal/config"
	"textoverlay/internal/domain"
	"textoverlay/internal/infrastructure/cachefile"
	"textoverlay/internal/infrastructure/database"
	"textoverlay/internal/infrastructure/sqlite"
	"textoverlay/internal/ports/output"
)

// Open returns the configured store and a function releasing it. When the
// sqlite or postgres backend cannot be opened it logs a warning and falls back
// to the text file at cfg.FallbackPath, so a broken database never stops the
// overlay. Only an unknown backend name is an error.
func Open(ctx context.Context, cfg config.Cache, logger *slog.Logger) (output.CacheStore, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Backend {
	case config.BackendFile, "":
		logger.Info("cache: using file", "path", cfg.Path)
		return cachefile.NewStore(cfg.Path, logger), func() {}, nil

	case config.BackendSQLite:
		st, err := sqlite.Open(ctx, cfg.Path, logger)
		if err != nil {
			return fallback(cfg, err, logger)
		}
		return st, func() {
			if err := st.Close(); err != nil {
				logger.Warn("cache: close sqlite", "error", err)
			}
		}, nil

	case config.BackendPostgres:
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return fallback(cfg, fmt.Errorf("migrate: %w", err), logger)
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return fallback(cfg, fmt.Errorf("connect postgres: %w", err), logger)
		}
		return database.NewCacheRepository(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("cache: %q: %w", cfg.Backend, domain.ErrUnknownBackend)
	}
}

func fallback(cfg config.Cache, cause error, logger *slog.Logger) (output.CacheStore, func(), error) {
	path := cfg.FallbackPath
	if path == "" {
		path = filepath.Join(filepath.Dir(cfg.Path), "translation_cache.txt")
	}
	logger.Warn("⚠️ cache: backend unavailable, falling back to file",
		"backend", cfg.Backend, "error", cause, "path", path)
	return cachefile.NewStore(path, logger), func() {}, nil
}
