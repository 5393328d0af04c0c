package cachestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"textoverlay/internal/config"
	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/infrastructure/cachefile"
	"textoverlay/internal/infrastructure/sqlite"
)

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translation_cache.txt")
	st, closeFn, err := Open(context.Background(), config.Cache{Backend: config.BackendFile, Path: path}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()
	if fs, ok := st.(*cachefile.Store); !ok || fs.Path() != path {
		t.Errorf("got %T, want *cachefile.Store at %s", st, path)
	}
}

func TestOpen_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "translation_cache.db")
	st, closeFn, err := Open(ctx, config.Cache{Backend: config.BackendSQLite, Path: path}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()
	if _, ok := st.(*sqlite.Store); !ok {
		t.Fatalf("got %T, want *sqlite.Store", st)
	}
	if err := st.Save(ctx, []entities.CacheEntry{{Original: "猫", Translated: "고양이"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	res, err := st.Load(ctx)
	if err != nil || len(res.Entries) != 1 {
		t.Errorf("Load = %+v, %v", res, err)
	}
}

func TestOpen_SQLiteFailureFallsBackToFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	fallbackPath := filepath.Join(dir, "translation_cache.txt")
	cfg := config.Cache{
		Backend:      config.BackendSQLite,
		Path:         filepath.Join(blocker, "sub", "translation_cache.db"),
		FallbackPath: fallbackPath,
	}

	st, closeFn, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()
	fs, ok := st.(*cachefile.Store)
	if !ok || fs.Path() != fallbackPath {
		t.Fatalf("got %T, want *cachefile.Store at %s", st, fallbackPath)
	}
	if err := st.Save(context.Background(), []entities.CacheEntry{{Original: "猫", Translated: "고양이"}}); err != nil {
		t.Errorf("Save on fallback: %v", err)
	}
}

func TestOpen_PostgresFailureFallsBackToFile(t *testing.T) {
	cfg := config.Cache{
		Backend:     config.BackendPostgres,
		Path:        filepath.Join(t.TempDir(), "translation_cache.txt"),
		DatabaseURL: "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
	}
	st, closeFn, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()
	if fs, ok := st.(*cachefile.Store); !ok || fs.Path() != cfg.Path {
		t.Errorf("got %T, want *cachefile.Store next to %s", st, cfg.Path)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := Open(context.Background(), config.Cache{Backend: "redis"}, nil)
	if !errors.Is(err, domain.ErrUnknownBackend) {
		t.Errorf("err = %v, want ErrUnknownBackend", err)
	}
}
