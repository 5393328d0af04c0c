// Package browser exposes the text of a live web page as translatable
// nodes. The page is driven through Rod; every node is an element tagged
// with a data-tl-id attribute at discovery time.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

var (
	_ output.Discovery  = (*Host)(nil)
	_ output.FontLoader = (*Host)(nil)
)

// Default selectors. Only leaf elements are kept.
const (
	DefaultRichSelector   = "p, li, h1, h2, h3, h4, h5, h6, td, th, blockquote, figcaption"
	DefaultSimpleSelector = "a, span, button, label, option, dt, dd, summary, title"
)

// Config configures the browser host.
type Config struct {
	// URL is the page to open.
	URL string

	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headful shows the browser window.
	Headful bool

	// Stealth opens the page through go-rod/stealth.
	Stealth bool

	SimpleSelector string
	RichSelector   string

	// OpTimeout bounds every single-node operation. Default: 2s.
	OpTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.SimpleSelector == "" {
		c.SimpleSelector = DefaultSimpleSelector
	}
	if c.RichSelector == "" {
		c.RichSelector = DefaultRichSelector
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Host is one browser tab.
type Host struct {
	cfg     Config
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page

	mu     sync.Mutex
	closed bool
}

// Open launches (or connects to) Chrome and navigates to cfg.URL.
func Open(ctx context.Context, cfg Config) (*Host, error) {
	cfg.defaults()
	log := cfg.Logger
	h := &Host{cfg: cfg}

	wsURL := cfg.RemoteURL
	if wsURL != "" {
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(!cfg.Headful)
		l = l.Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		h.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "headful", cfg.Headful)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		h.cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	h.browser = b

	var (
		page *rod.Page
		err  error
	)
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		h.cleanup()
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	h.page = page

	navCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := page.Context(navCtx).Navigate(cfg.URL); err != nil {
		h.cleanup()
		return nil, fmt.Errorf("browser: navigate %s: %w", cfg.URL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		log.Warn("browser: wait load timeout", "url", cfg.URL, "error", err)
	}
	return h, nil
}

// Close shuts the tab and Chrome down.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.cleanup()
}

func (h *Host) cleanup() error {
	var err error
	if h.page != nil {
		err = h.page.Close()
		h.page = nil
	}
	if h.browser != nil {
		h.browser.Close()
		h.browser = nil
	}
	if h.lnch != nil {
		h.lnch.Cleanup()
		h.lnch = nil
	}
	return err
}

type discovered struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// Discover tags every matching leaf element and returns them in document
// order, rich selector first.
func (h *Host) Discover(ctx context.Context) ([]output.Node, error) {
	res, err := h.page.Context(ctx).Eval(discoverJS, h.cfg.SimpleSelector, h.cfg.RichSelector)
	if err != nil {
		return nil, fmt.Errorf("browser: discover: %w", err)
	}
	var found []discovered
	if err := json.Unmarshal([]byte(res.Value.Str()), &found); err != nil {
		return nil, fmt.Errorf("browser: decode discovery: %w", err)
	}

	nodes := make([]output.Node, 0, len(found))
	for _, d := range found {
		n := &Node{host: h, id: d.ID}
		if d.Kind == string(entities.KindRich) {
			nodes = append(nodes, output.Node{Kind: entities.KindRich, Rich: n})
		} else {
			nodes = append(nodes, output.Node{Kind: entities.KindSimple, Simple: n})
		}
	}
	return nodes, nil
}

// op returns a page bound to the per-operation timeout.
func (h *Host) op() *rod.Page {
	return h.page.Timeout(h.cfg.OpTimeout)
}
