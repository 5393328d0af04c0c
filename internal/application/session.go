package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/input"
	"textoverlay/internal/ports/output"
)

var _ input.TranslationUseCase = (*Session)(nil)

// SessionConfig is the immutable part of a session.
type SessionConfig struct {
	Engine        entities.Engine
	SourceLang    string
	TargetLang    string
	BatchSize     int
	Style         entities.StyleSettings
	FontPath      string
	AutoTranslate bool
	Locale        string
}

// Session owns all process-wide translation state: the cache, the batch
// cursor, the cycle guard and the loaded style. Create one at startup with
// NewSession, call Open, and Close it at shutdown.
type Session struct {
	cfg       SessionConfig
	discovery output.Discovery
	fonts     output.FontLoader
	cache     *TranslationCache
	providers ProviderSet
	msgs      output.T
	log       *slog.Logger

	cursor *BatchCursor
	guard  Guard
	auto   atomic.Bool

	mu     sync.Mutex
	font   *entities.FontRef
	cycles int
	last   *entities.CycleSummary
}

// Deps are the collaborators of a Session. Fonts and Messages may be nil.
type Deps struct {
	Discovery output.Discovery
	Fonts     output.FontLoader
	Cache     *TranslationCache
	Providers ProviderSet
	Messages  output.T
	Logger    *slog.Logger
}

func NewSession(cfg SessionConfig, deps Deps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		cfg:       cfg,
		discovery: deps.Discovery,
		fonts:     deps.Fonts,
		cache:     deps.Cache,
		providers: deps.Providers,
		msgs:      deps.Messages,
		log:       logger,
		cursor:    NewBatchCursor(cfg.BatchSize),
	}
	s.auto.Store(cfg.AutoTranslate)
	return s
}

// Open loads the cache and the font. Neither failure is fatal: a broken
// cache starts empty and is not written back, and a missing font leaves the
// host font in place.
func (s *Session) Open(ctx context.Context) {
	res, err := s.cache.Load(ctx)
	if err != nil {
		s.log.Error("cache unavailable, starting empty", "error", err)
	} else {
		s.log.Info(s.msg(output.MsgCacheLoaded, map[string]any{"Count": s.cache.Len(), "Malformed": res.Malformed}),
			"entries", s.cache.Len(), "malformed", res.Malformed)
	}
	s.loadFont(ctx)
}

func (s *Session) loadFont(ctx context.Context) {
	if s.fonts == nil || s.cfg.FontPath == "" {
		return
	}
	font, err := s.fonts.LoadFont(ctx, s.cfg.FontPath)
	if err != nil {
		s.log.Warn(s.msg(output.MsgFontMissing, map[string]any{"Path": s.cfg.FontPath}),
			"path", s.cfg.FontPath, "error", err)
		return
	}
	s.mu.Lock()
	s.font = font
	s.mu.Unlock()
	s.log.Info(s.msg(output.MsgFontLoaded, map[string]any{"Name": font.Name}), "font", font.Name)
}

// Close persists the cache.
func (s *Session) Close(ctx context.Context) error {
	return s.FlushCache(ctx)
}

// RunCycle runs one translation pass: every simple node and the current
// window of rich nodes. A call made while another cycle is running returns
// immediately with a dropped summary and domain.ErrCycleInProgress.
func (s *Session) RunCycle(ctx context.Context) (summary entities.CycleSummary, err error) {
	if !s.guard.TryEnter() {
		s.log.Debug(s.msg(output.MsgCycleBusy, nil))
		return entities.CycleSummary{StartedAt: time.Now(), Dropped: true}, domain.ErrCycleInProgress
	}
	defer s.guard.Exit()

	summary = entities.CycleSummary{ID: uuid.NewString(), StartedAt: time.Now()}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle %s: panic: %v", summary.ID, r)
			s.log.Error("cycle aborted", "cycle", summary.ID, "panic", r)
		}
		if err != nil {
			summary.Error = err.Error()
		}
		summary.Duration = time.Since(summary.StartedAt)
		s.record(summary)
	}()

	err = s.runCycle(ctx, &summary)
	return summary, err
}

func (s *Session) runCycle(ctx context.Context, summary *entities.CycleSummary) error {
	provider, fellBack := SelectProvider(s.cfg.Engine, s.providers)
	if provider == nil {
		return domain.ErrProviderUnavailable
	}
	summary.Provider = provider.Name()
	summary.FellBack = fellBack
	if fellBack {
		s.log.Warn(s.msg(output.MsgProviderFallback, map[string]any{"Engine": s.cfg.Engine, "Provider": provider.Name()}),
			"engine", s.cfg.Engine, "provider", provider.Name())
	}

	nodes, err := s.discovery.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover nodes: %w", err)
	}
	var simple, rich []output.Node
	for _, n := range nodes {
		if n.Kind == entities.KindRich {
			rich = append(rich, n)
		} else {
			simple = append(simple, n)
		}
	}
	summary.SimpleCount = len(simple)
	summary.RichCount = len(rich)

	for _, n := range simple {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary.Add(s.processNode(ctx, n, provider))
	}

	window, ok := s.cursor.Window(len(rich))
	if ok {
		summary.RichWindow = &window
		for _, n := range rich[window.Start:window.End] {
			if err := ctx.Err(); err != nil {
				return err
			}
			summary.Add(s.processNode(ctx, n, provider))
		}
		s.cursor.Advance()
	}

	if summary.Translated == 0 && summary.Failed == 0 {
		s.log.Debug(s.msg(output.MsgCycleNone, nil), "cycle", summary.ID)
		return nil
	}
	s.log.Info(s.msg(output.MsgCycleComplete, map[string]any{
		"ID":         summary.ID,
		"Translated": summary.Translated,
		"Failed":     summary.Failed,
		"Hits":       summary.CacheHits,
		"Calls":      summary.ProviderCalls,
	}), "cycle", summary.ID, "provider", summary.Provider, "window", summary.RichWindow)
	return nil
}

// processNode resolves one node through cache or provider and writes the
// result back. Nothing it does can fail the cycle.
func (s *Session) processNode(ctx context.Context, n output.Node, provider output.Provider) (out entities.Outcome) {
	node := n.Text()
	out.NodeKind = n.Kind
	defer func() {
		if r := recover(); r != nil {
			out.Kind = entities.OutcomeFailed
			out.Err = fmt.Errorf("node %s: panic: %v", out.NodeID, r)
			s.log.Warn("node failed", "node", out.NodeID, "panic", r)
		}
	}()
	if node == nil {
		return skipped(out, entities.SkipNotLive)
	}
	out.NodeID = node.ID()

	if !isLive(node) {
		return skipped(out, entities.SkipNotLive)
	}
	text, err := node.Text()
	if errors.Is(err, domain.ErrNodeGone) {
		return skipped(out, entities.SkipNotLive)
	}
	if err != nil {
		return failed(out, fmt.Errorf("read node %s: %w", out.NodeID, err))
	}
	if text == "" {
		return skipped(out, entities.SkipEmpty)
	}
	if !domain.NeedsTranslation(text) {
		return skipped(out, entities.SkipOtherScript)
	}
	out.Original = text

	result, hit := s.cache.Lookup(text)
	if hit {
		out.FromCache = true
	} else {
		result = provider.Translate(ctx, text, s.cfg.SourceLang, s.cfg.TargetLang)
		out.Called = true
		if result != "" && result != text {
			s.cache.Store(text, result)
		}
	}
	if result == "" || result == text {
		return skipped(out, entities.SkipUntranslated)
	}

	if !isLive(node) {
		return failed(out, errNodeGone(out.NodeID))
	}
	if err := node.SetText(result); err != nil {
		return failed(out, fmt.Errorf("write node %s: %w", out.NodeID, err))
	}
	out.Kind = entities.OutcomeTranslated
	out.Result = result
	s.log.Info("translated", "node", out.NodeID, "kind", out.NodeKind, "original", text, "result", result)

	if n.Kind == entities.KindRich && n.Rich != nil {
		out.Style = ApplyStyle(n.Rich, s.styleSettings())
	} else {
		out.Style = ApplyLineSpacing(node, s.cfg.Style.LineSpacing)
	}
	if len(out.Style.Failed) > 0 {
		s.log.Debug("style partially applied", "node", out.NodeID, "failed", out.Style.Failed)
	}
	return out
}

func skipped(out entities.Outcome, reason entities.SkipReason) entities.Outcome {
	out.Kind = entities.OutcomeSkipped
	out.Reason = reason
	return out
}

func failed(out entities.Outcome, err error) entities.Outcome {
	out.Kind = entities.OutcomeFailed
	out.Err = err
	return out
}

func (s *Session) styleSettings() entities.StyleSettings {
	st := s.cfg.Style
	s.mu.Lock()
	st.Font = s.font
	s.mu.Unlock()
	return st
}

func (s *Session) record(summary entities.CycleSummary) {
	s.mu.Lock()
	s.cycles++
	s.last = &summary
	s.mu.Unlock()
}

// ReloadCache replaces the in-memory cache with the store's content. A failed
// read keeps the current entries.
func (s *Session) ReloadCache(ctx context.Context) (int, error) {
	if _, err := s.cache.Reload(ctx); err != nil {
		s.log.Error("cache reload failed", "error", err)
		return 0, err
	}
	n := s.cache.Len()
	s.log.Info(s.msg(output.MsgCacheReloaded, map[string]any{"Count": n}), "entries", n)
	return n, nil
}

func (s *Session) FlushCache(ctx context.Context) error {
	if err := s.cache.Flush(ctx); err != nil {
		s.log.Error("cache flush failed", "error", err)
		return err
	}
	s.log.Info(s.msg(output.MsgCacheFlushed, map[string]any{"Count": s.cache.Len()}), "entries", s.cache.Len())
	return nil
}

func (s *Session) Lookup(text string) (string, bool) {
	return s.cache.Lookup(text)
}

// TranslateText translates one string through the cache and the selected
// provider, storing new results like a cycle would.
func (s *Session) TranslateText(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", domain.ErrEmptyText
	}
	if v, ok := s.cache.Lookup(text); ok {
		return v, nil
	}
	provider, _ := SelectProvider(s.cfg.Engine, s.providers)
	if provider == nil {
		return text, domain.ErrProviderUnavailable
	}
	result := provider.Translate(ctx, text, s.cfg.SourceLang, s.cfg.TargetLang)
	if result != "" && result != text {
		s.cache.Store(text, result)
	}
	if result == "" {
		return text, nil
	}
	return result, nil
}

// DumpTexts lists every live node with non-empty text.
func (s *Session) DumpTexts(ctx context.Context) ([]entities.NodeText, error) {
	nodes, err := s.discovery.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover nodes: %w", err)
	}
	out := make([]entities.NodeText, 0, len(nodes))
	for _, n := range nodes {
		if t, ok := readNode(n); ok {
			out = append(out, t)
		}
	}
	s.log.Info(s.msg(output.MsgTextsDumped, map[string]any{"Count": len(out)}), "count", len(out))
	return out, nil
}

func readNode(n output.Node) (t entities.NodeText, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	node := n.Text()
	if node == nil || !node.IsLive() {
		return t, false
	}
	text, err := node.Text()
	if err != nil || text == "" {
		return t, false
	}
	return entities.NodeText{ID: node.ID(), Kind: n.Kind, Text: text}, true
}

func (s *Session) AutoTranslate() bool { return s.auto.Load() }

func (s *Session) SetAutoTranslate(enabled bool) {
	s.auto.Store(enabled)
	state := "OFF"
	if enabled {
		state = "ON"
	}
	s.log.Info(s.msg(output.MsgAutoToggled, map[string]any{"State": state}), "enabled", enabled)
}

// RunAuto runs a cycle every interval while automatic translation is on.
// It returns when ctx is done.
func (s *Session) RunAuto(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.AutoTranslate() {
				continue
			}
			if _, err := s.RunCycle(ctx); err != nil &&
				!errors.Is(err, domain.ErrCycleInProgress) && !errors.Is(err, context.Canceled) {
				s.log.Error("auto cycle failed", "error", err)
			}
		}
	}
}

func (s *Session) Status() entities.Status {
	provider, _ := SelectProvider(s.cfg.Engine, s.providers)
	st := entities.Status{
		Running:       s.guard.Running(),
		AutoTranslate: s.AutoTranslate(),
		Engine:        s.cfg.Engine,
		SourceLang:    s.cfg.SourceLang,
		TargetLang:    s.cfg.TargetLang,
		CacheSize:     s.cache.Len(),
		BatchCursor:   s.cursor.Index(),
		BatchSize:     s.cursor.Size(),
	}
	if provider != nil {
		st.Provider = provider.Name()
	}
	s.mu.Lock()
	st.FontLoaded = s.font != nil
	st.Cycles = s.cycles
	if s.last != nil {
		last := *s.last
		st.LastCycle = &last
	}
	s.mu.Unlock()
	return st
}

func (s *Session) msg(key string, data map[string]any) string {
	if s.msgs == nil {
		return key
	}
	return s.msgs.T(s.cfg.Locale, key, data)
}
