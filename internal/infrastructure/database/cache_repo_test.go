package database

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"textoverlay/internal/domain/entities"
)

func TestCacheRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	if err := RunMigrations(dsn, slog.Default()); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	pool, err := NewPool(ctx, dsn, slog.Default())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, `TRUNCATE translations`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	repo := NewCacheRepository(pool)
	if err := repo.Save(ctx, []entities.CacheEntry{
		{Original: "こんにちは", Translated: "안녕하세요"},
		{Original: "猫", Translated: "고양이"},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, []entities.CacheEntry{{Original: "猫", Translated: "냥이"}}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	res, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := map[string]string{}
	for _, e := range res.Entries {
		got[e.Original] = e.Translated
	}
	if got["こんにちは"] != "안녕하세요" || got["猫"] != "냥이" {
		t.Errorf("got %v", got)
	}
}
