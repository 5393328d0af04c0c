package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"textoverlay/internal/domain/entities"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(Path(dir), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_MissingFileWritesDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	cfg, warnings, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if cfg.Engine != entities.EngineGoogle {
		t.Errorf("engine = %q, want google", cfg.Engine)
	}
	if cfg.SourceLang != "ja" || cfg.TargetLang != "ko" {
		t.Errorf("langs = %s -> %s, want ja -> ko", cfg.SourceLang, cfg.TargetLang)
	}
	if _, err := os.Stat(Path(dir)); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	// The generated file must load back to the same defaults.
	again, warnings, err := Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("default file produced warnings: %v", warnings)
	}
	if *again != *cfg {
		t.Errorf("reloaded default differs:\n got %+v\nwant %+v", *again, *cfg)
	}
}

func TestLoad_AllKeys(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, strings.Join([]string{
		"# comment",
		"TRANSLATION_ENGINE=DeepL",
		"SOURCE_LANG=JA",
		"TARGET_LANG=zh-cn",
		"PAPAGO_CLIENT_ID=id",
		"PAPAGO_CLIENT_SECRET=secret",
		"DEEPL_API_KEY=key",
		"CHARACTER_SPACING=3.5",
		"LINE_SPACING=-2",
		"ENABLE_AUTO_SIZING=TRUE",
		"CUSTOM_FONT_PATH=fonts/my_font",
		"CACHE_BACKEND=sqlite",
		"PROVIDER_TIMEOUT=3s",
		"BATCH_SIZE=50",
		"AUTO_TRANSLATE=true",
		"AUTO_INTERVAL=2s",
		"MESSAGE_LOCALE=ko",
		"UNKNOWN_KEY=ignored",
	}, "\n"))

	cfg, warnings, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if cfg.Engine != entities.EngineDeepL {
		t.Errorf("engine = %q, want deepl", cfg.Engine)
	}
	if cfg.SourceLang != "ja" || cfg.TargetLang != "zh-CN" {
		t.Errorf("langs = %s -> %s", cfg.SourceLang, cfg.TargetLang)
	}
	if cfg.Papago.ClientID != "id" || cfg.Papago.ClientSecret != "secret" || cfg.DeepLKey != "key" {
		t.Errorf("credentials not loaded: %+v %q", cfg.Papago, cfg.DeepLKey)
	}
	if cfg.Style.CharacterSpacing != 3.5 || cfg.Style.LineSpacing != -2 || !cfg.Style.AutoSizing {
		t.Errorf("style = %+v", cfg.Style)
	}
	if cfg.Cache.Backend != BackendSQLite || cfg.Cache.Path != filepath.Join(dir, "translation_cache.db") {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.FallbackPath != filepath.Join(dir, "translation_cache.txt") {
		t.Errorf("fallback = %q", cfg.Cache.FallbackPath)
	}
	if cfg.ProviderTimeout != 3*time.Second || cfg.AutoInterval != 2*time.Second {
		t.Errorf("durations = %v %v", cfg.ProviderTimeout, cfg.AutoInterval)
	}
	if cfg.BatchSize != 50 || !cfg.AutoTranslate || cfg.MessageLocale != "ko" {
		t.Errorf("runtime = %d %v %q", cfg.BatchSize, cfg.AutoTranslate, cfg.MessageLocale)
	}
	if got, want := cfg.FontPath(), filepath.Join(filepath.Dir(dir), "fonts/my_font"); got != want {
		t.Errorf("FontPath = %q, want %q", got, want)
	}
}

func TestLoad_InvalidValuesKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, strings.Join([]string{
		"TRANSLATION_ENGINE=bing",
		"CHARACTER_SPACING=wide",
		"BATCH_SIZE=-1",
		"PROVIDER_TIMEOUT=soon",
		"CACHE_BACKEND=redis",
	}, "\n"))

	cfg, warnings, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 5 {
		t.Errorf("got %d warnings, want 5: %v", len(warnings), warnings)
	}
	def := Default(dir)
	if cfg.Engine != entities.EngineGoogle {
		t.Errorf("engine = %q, want google", cfg.Engine)
	}
	if cfg.Style.CharacterSpacing != def.Style.CharacterSpacing {
		t.Errorf("spacing = %v, want default %v", cfg.Style.CharacterSpacing, def.Style.CharacterSpacing)
	}
	if cfg.BatchSize != def.BatchSize || cfg.ProviderTimeout != def.ProviderTimeout {
		t.Errorf("batch/timeout = %d %v", cfg.BatchSize, cfg.ProviderTimeout)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestFromValues_PostgresWithoutURLFallsBackToFile(t *testing.T) {
	dir := t.TempDir()
	cfg, warnings := FromValues(dir, map[string]string{"CACHE_BACKEND": "postgres"})
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("backend = %q, want file", cfg.Cache.Backend)
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(warnings))
	}
}

func TestFontPath_Default(t *testing.T) {
	cfg := Default("/games/x/UserData/Overlay")
	if got := cfg.FontPath(); got != filepath.Join("/games/x/UserData/Overlay", DefaultFontFile) {
		t.Errorf("FontPath = %q", got)
	}
}
