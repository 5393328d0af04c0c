package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

// ---------------------------------------------------------------------------
// Host stubs
// ---------------------------------------------------------------------------

type stubNode struct {
	mu          sync.Mutex
	id          string
	text        string
	live        bool
	onRead      func(*stubNode)
	writes      int
	lineSpacing float64
	lineSets    int
	lineErr     error
}

func newNode(id, text string) *stubNode { return &stubNode{id: id, text: text, live: true} }

func (n *stubNode) ID() string { return n.id }

func (n *stubNode) IsLive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.live
}

func (n *stubNode) Text() (string, error) {
	if n.onRead != nil {
		n.onRead(n)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.live {
		return "", domain.ErrNodeGone
	}
	return n.text, nil
}

func (n *stubNode) SetText(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.live {
		return domain.ErrNodeGone
	}
	n.text = text
	n.writes++
	return nil
}

func (n *stubNode) SetLineSpacing(v float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.live {
		return domain.ErrNodeGone
	}
	if n.lineErr != nil {
		return n.lineErr
	}
	n.lineSpacing = v
	n.lineSets++
	return nil
}

func (n *stubNode) destroy() {
	n.mu.Lock()
	n.live = false
	n.mu.Unlock()
}

func (n *stubNode) current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

type stubRich struct {
	*stubNode
	calls     []string
	failOn    map[string]bool
	panicOn   map[string]bool
	killOn    string
	spacing   float64
	line      float64
	autoMin   float64
	autoMax   float64
	font      *entities.FontRef
	refreshes int
}

func newRich(id, text string) *stubRich {
	return &stubRich{stubNode: newNode(id, text), failOn: map[string]bool{}, panicOn: map[string]bool{}}
}

func (r *stubRich) step(name string) error {
	r.calls = append(r.calls, name)
	if r.panicOn[name] {
		panic("setter exploded")
	}
	if r.killOn == name {
		r.destroy()
	}
	if r.failOn[name] {
		return errors.New(name + " unsupported")
	}
	return nil
}

func (r *stubRich) Style() (entities.NodeStyle, error) {
	return entities.NodeStyle{CharacterSpacing: r.spacing, LineSpacing: r.line}, nil
}

func (r *stubRich) SetCharacterSpacing(v float64) error {
	if err := r.step(StyleCharacterSpacing); err != nil {
		return err
	}
	r.spacing = v
	return nil
}

func (r *stubRich) SetLineSpacing(v float64) error {
	if err := r.step(StyleLineSpacing); err != nil {
		return err
	}
	r.line = v
	return nil
}

func (r *stubRich) SetAutoSizing(enabled bool, min, max float64) error {
	if err := r.step(StyleAutoSizing); err != nil {
		return err
	}
	r.autoMin, r.autoMax = min, max
	return nil
}

func (r *stubRich) SetFont(font *entities.FontRef) error {
	if err := r.step(StyleFont); err != nil {
		return err
	}
	r.font = font
	return nil
}

func (r *stubRich) ForceLayoutRefresh() error {
	if err := r.step(StyleLayoutRefresh); err != nil {
		return err
	}
	r.refreshes++
	return nil
}

type stubHost struct {
	mu    sync.Mutex
	nodes []output.Node
	err   error
}

func (h *stubHost) addSimple(n *stubNode) {
	h.mu.Lock()
	h.nodes = append(h.nodes, output.Node{Kind: entities.KindSimple, Simple: n})
	h.mu.Unlock()
}

func (h *stubHost) addRich(r *stubRich) {
	h.mu.Lock()
	h.nodes = append(h.nodes, output.Node{Kind: entities.KindRich, Rich: r})
	h.mu.Unlock()
}

func (h *stubHost) Discover(ctx context.Context) ([]output.Node, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return nil, h.err
	}
	return append([]output.Node(nil), h.nodes...), nil
}

type stubFonts struct {
	font *entities.FontRef
	err  error
}

func (f stubFonts) LoadFont(ctx context.Context, path string) (*entities.FontRef, error) {
	return f.font, f.err
}

// ---------------------------------------------------------------------------
// Provider and store stubs
// ---------------------------------------------------------------------------

type stubProvider struct {
	mu        sync.Mutex
	name      string
	available bool
	dict      map[string]string
	calls     []string
	block     chan struct{}
	entered   chan struct{}
}

func newProvider(name string, dict map[string]string) *stubProvider {
	return &stubProvider{name: name, available: true, dict: dict}
}

func (p *stubProvider) Name() string    { return p.name }
func (p *stubProvider) Available() bool { return p.available }

func (p *stubProvider) Translate(ctx context.Context, text, source, target string) string {
	p.mu.Lock()
	p.calls = append(p.calls, text)
	block, entered := p.block, p.entered
	p.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if v, ok := p.dict[text]; ok {
		return v
	}
	return text
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type memStore struct {
	mu      sync.Mutex
	entries []entities.CacheEntry
	saved   []entities.CacheEntry
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) (entities.LoadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return entities.LoadResult{}, m.loadErr
	}
	return entities.LoadResult{Entries: append([]entities.CacheEntry(nil), m.entries...)}, nil
}

func (m *memStore) Save(ctx context.Context, entries []entities.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = append([]entities.CacheEntry(nil), entries...)
	m.entries = append([]entities.CacheEntry(nil), entries...)
	return nil
}

// ---------------------------------------------------------------------------
// Session builder
// ---------------------------------------------------------------------------

type fixture struct {
	host    *stubHost
	store   *memStore
	cache   *TranslationCache
	google  *stubProvider
	papago  *stubProvider
	session *Session
}

func newFixture(engine entities.Engine, batch int) *fixture {
	f := &fixture{
		host:   &stubHost{},
		store:  &memStore{},
		google: newProvider("google", map[string]string{"こんにちは": "안녕하세요"}),
		papago: newProvider("papago", map[string]string{"こんにちは": "안녕하십니까"}),
	}
	f.cache = NewTranslationCache(f.store, nil)
	f.session = NewSession(SessionConfig{
		Engine:     engine,
		SourceLang: "ja",
		TargetLang: "ko",
		BatchSize:  batch,
		Style:      entities.StyleSettings{CharacterSpacing: 2, LineSpacing: 1},
	}, Deps{
		Discovery: f.host,
		Cache:     f.cache,
		Providers: ProviderSet{
			Default: f.google,
			ByEngine: map[entities.Engine]output.Provider{
				entities.EngineGoogle: f.google,
				entities.EnginePapago: f.papago,
			},
		},
	})
	return f
}

func jpText(i int) string { return fmt.Sprintf("漢字%d", i) }
