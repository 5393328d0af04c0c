package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"textoverlay/internal/domain/entities"
	"textoverlay/pkg/langcode"
)

// FileName is the configuration file name inside the data directory.
const FileName = "translator_config.txt"

// Cache backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// DefaultFontFile is looked up in the data directory when no custom font is set.
const DefaultFontFile = "notosanscjkjp_bold"

type Papago struct {
	ClientID     string
	ClientSecret string
}

type Style struct {
	CharacterSpacing float64
	LineSpacing      float64
	AutoSizing       bool
	CustomFontPath   string
}

type Cache struct {
	Backend      string
	Path         string
	DatabaseURL  string
	// FallbackPath is the text cache used when the configured backend
	// cannot be opened.
	FallbackPath string
}

type Config struct {
	// Dir is the data directory holding the config, cache and font files.
	Dir string

	Engine     entities.Engine
	SourceLang string
	TargetLang string
	Papago     Papago
	DeepLKey   string

	Style Style
	Cache Cache

	ProviderTimeout time.Duration
	BatchSize       int
	AutoTranslate   bool
	AutoInterval    time.Duration
	MessageLocale   string
	ControlAddr     string
}

// Default returns the configuration used when no file exists.
func Default(dir string) *Config {
	return &Config{
		Dir:        dir,
		Engine:     entities.EngineGoogle,
		SourceLang: "ja",
		TargetLang: "ko",
		Style: Style{
			CharacterSpacing: 2,
		},
		Cache: Cache{
			Backend:      BackendFile,
			Path:         filepath.Join(dir, "translation_cache.txt"),
			FallbackPath: filepath.Join(dir, "translation_cache.txt"),
		},
		ProviderTimeout: 10 * time.Second,
		BatchSize:       150,
		AutoInterval:    500 * time.Millisecond,
		MessageLocale:   "en",
		ControlAddr:     "127.0.0.1:8787",
	}
}

// Path returns the configuration file path for dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads <dir>/translator_config.txt. A missing file is replaced by the
// documented default file and the defaults are returned. Values that do not
// parse keep their default and are reported in warnings.
func Load(dir string) (*Config, []string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("config: create data dir: %w", err)
	}

	path := Path(dir)
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		if werr := WriteDefault(path); werr != nil {
			return Default(dir), []string{fmt.Sprintf("could not write default config %s: %v", path, werr)}, nil
		}
		return Default(dir), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, warnings := FromValues(dir, values)
	return cfg, warnings, nil
}

// FromValues builds a Config from already parsed key/value pairs.
func FromValues(dir string, values map[string]string) (*Config, []string) {
	cfg := Default(dir)
	p := parser{values: values}

	if v, ok := p.str("TRANSLATION_ENGINE"); ok && v != "" {
		engine, known := entities.ParseEngine(v)
		if !known {
			p.warn("TRANSLATION_ENGINE", v, "using google")
		}
		cfg.Engine = engine
	}
	if v, ok := p.str("SOURCE_LANG"); ok && v != "" {
		cfg.SourceLang = langcode.Normalize(v)
	}
	if v, ok := p.str("TARGET_LANG"); ok && v != "" {
		cfg.TargetLang = langcode.Normalize(v)
	}
	cfg.Papago.ClientID, _ = p.str("PAPAGO_CLIENT_ID")
	cfg.Papago.ClientSecret, _ = p.str("PAPAGO_CLIENT_SECRET")
	cfg.DeepLKey, _ = p.str("DEEPL_API_KEY")

	p.parseFloat("CHARACTER_SPACING", &cfg.Style.CharacterSpacing)
	p.parseFloat("LINE_SPACING", &cfg.Style.LineSpacing)
	p.parseBool("ENABLE_AUTO_SIZING", &cfg.Style.AutoSizing)
	cfg.Style.CustomFontPath, _ = p.str("CUSTOM_FONT_PATH")

	if v, ok := p.str("CACHE_BACKEND"); ok && v != "" {
		switch b := strings.ToLower(v); b {
		case BackendFile, BackendSQLite, BackendPostgres:
			cfg.Cache.Backend = b
		default:
			p.warn("CACHE_BACKEND", v, "using file")
		}
	}
	if cfg.Cache.Backend == BackendSQLite {
		cfg.Cache.Path = filepath.Join(dir, "translation_cache.db")
	}
	if v, ok := p.str("CACHE_PATH"); ok && v != "" {
		cfg.Cache.Path = v
		if !filepath.IsAbs(v) {
			cfg.Cache.Path = filepath.Join(dir, v)
		}
	}
	cfg.Cache.DatabaseURL, _ = p.str("DATABASE_URL")

	p.parseDuration("PROVIDER_TIMEOUT", &cfg.ProviderTimeout)
	p.parsePositiveInt("BATCH_SIZE", &cfg.BatchSize)
	p.parseBool("AUTO_TRANSLATE", &cfg.AutoTranslate)
	p.parseDuration("AUTO_INTERVAL", &cfg.AutoInterval)
	if v, ok := p.str("MESSAGE_LOCALE"); ok && v != "" {
		cfg.MessageLocale = langcode.Normalize(v)
	}
	if v, ok := p.str("CONTROL_ADDR"); ok && v != "" {
		cfg.ControlAddr = v
	}

	if err := cfg.validate(); err != nil {
		p.warnings = append(p.warnings, err.Error())
	}
	return cfg, p.warnings
}

// validate applies the cross-field rules; it never makes the config unusable.
func (c *Config) validate() error {
	if c.Cache.Backend == BackendPostgres && strings.TrimSpace(c.Cache.DatabaseURL) == "" {
		c.Cache.Backend = BackendFile
		c.Cache.Path = filepath.Join(c.Dir, "translation_cache.txt")
		return fmt.Errorf("config: CACHE_BACKEND=postgres requires DATABASE_URL, using file")
	}
	if !langcode.Valid(c.SourceLang) || !langcode.Valid(c.TargetLang) {
		return fmt.Errorf("config: unrecognized language pair %s -> %s", c.SourceLang, c.TargetLang)
	}
	return nil
}

// FontPath resolves the font bundle to load: CUSTOM_FONT_PATH relative to
// the parent of the data directory, or the default font in the data directory.
func (c *Config) FontPath() string {
	if c.Style.CustomFontPath != "" {
		if filepath.IsAbs(c.Style.CustomFontPath) {
			return c.Style.CustomFontPath
		}
		return filepath.Join(filepath.Dir(c.Dir), c.Style.CustomFontPath)
	}
	return filepath.Join(c.Dir, DefaultFontFile)
}

type parser struct {
	values   map[string]string
	warnings []string
}

func (p *parser) warn(key, value, action string) {
	p.warnings = append(p.warnings, fmt.Sprintf("config: invalid %s=%q, %s", key, value, action))
}

func (p *parser) str(key string) (string, bool) {
	v, ok := p.values[key]
	return strings.TrimSpace(v), ok
}

func (p *parser) parseFloat(key string, dst *float64) {
	v, ok := p.str(key)
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.warn(key, v, "keeping default")
		return
	}
	*dst = f
}

func (p *parser) parseBool(key string, dst *bool) {
	v, ok := p.str(key)
	if !ok || v == "" {
		return
	}
	*dst = strings.EqualFold(v, "true")
}

func (p *parser) parseDuration(key string, dst *time.Duration) {
	v, ok := p.str(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.warn(key, v, "keeping default")
		return
	}
	*dst = d
}

func (p *parser) parsePositiveInt(key string, dst *int) {
	v, ok := p.str(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		p.warn(key, v, "keeping default")
		return
	}
	*dst = n
}
