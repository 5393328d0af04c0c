// Package fixture is an in-memory host used by the simulate command and by
// tests. Nodes are declared in YAML and can be destroyed at any time to
// reproduce the races a live host produces.
package fixture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

var (
	_ output.Discovery  = (*Host)(nil)
	_ output.FontLoader = (*Host)(nil)
	_ output.RichNode   = (*Node)(nil)
)

// NodeSpec describes one node in a fixture file.
type NodeSpec struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
	// Live defaults to true.
	Live *bool `yaml:"live,omitempty"`
}

// File is the YAML layout of a fixture host.
type File struct {
	Simple []NodeSpec `yaml:"simple"`
	Rich   []NodeSpec `yaml:"rich"`
}

// Hook runs before a node's text is read. Tests use it to destroy the node
// between discovery and mutation.
type Hook func(n *Node)

// Host holds the fixture nodes in declaration order, simple nodes first.
type Host struct {
	mu    sync.RWMutex
	nodes []*Node
	byID  map[string]*Node
}

func New() *Host {
	return &Host{byID: make(map[string]*Node)}
}

// Parse builds a host from YAML.
func Parse(data []byte) (*Host, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: parse: %w", err)
	}
	h := New()
	for i, s := range f.Simple {
		h.add(entities.KindSimple, s, fmt.Sprintf("simple-%d", i))
	}
	for i, s := range f.Rich {
		h.add(entities.KindRich, s, fmt.Sprintf("rich-%d", i))
	}
	return h, nil
}

// Load reads a fixture file.
func Load(path string) (*Host, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	return Parse(data)
}

// AddSimple adds a live simple node.
func (h *Host) AddSimple(id, text string) *Node {
	return h.add(entities.KindSimple, NodeSpec{ID: id, Text: text}, id)
}

// AddRich adds a live rich node.
func (h *Host) AddRich(id, text string) *Node {
	return h.add(entities.KindRich, NodeSpec{ID: id, Text: text}, id)
}

func (h *Host) add(kind entities.NodeKind, s NodeSpec, fallbackID string) *Node {
	id := s.ID
	if id == "" {
		id = fallbackID
	}
	n := &Node{id: id, kind: kind, text: s.Text, live: s.Live == nil || *s.Live}
	h.mu.Lock()
	h.nodes = append(h.nodes, n)
	h.byID[id] = n
	h.mu.Unlock()
	return n
}

// Node returns the node with id, or nil.
func (h *Host) Node(id string) *Node {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.byID[id]
}

// Destroy marks a node as gone. Later discoveries skip it.
func (h *Host) Destroy(id string) bool {
	n := h.Node(id)
	if n == nil {
		return false
	}
	n.Destroy()
	return true
}

// Discover returns the live nodes, simple nodes first.
func (h *Host) Discover(ctx context.Context) ([]output.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	var simple, rich []output.Node
	for _, n := range h.nodes {
		if !n.IsLive() {
			continue
		}
		if n.kind == entities.KindRich {
			rich = append(rich, output.Node{Kind: entities.KindRich, Rich: n})
		} else {
			simple = append(simple, output.Node{Kind: entities.KindSimple, Simple: n})
		}
	}
	return append(simple, rich...), nil
}

// Snapshot returns the current text of every node, destroyed ones included.
func (h *Host) Snapshot() []entities.NodeText {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]entities.NodeText, 0, len(h.nodes))
	for _, n := range h.nodes {
		n.mu.Lock()
		out = append(out, entities.NodeText{ID: n.id, Kind: n.kind, Text: n.text})
		n.mu.Unlock()
	}
	return out
}

// LoadFont accepts any existing file as a font.
func (h *Host) LoadFont(ctx context.Context, path string) (*entities.FontRef, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("fixture: font %s: %w", path, domain.ErrFontNotFound)
	}
	return &entities.FontRef{Name: filepath.Base(path), Path: path}, nil
}

// Node is a fixture text node. Simple nodes ignore style calls.
type Node struct {
	mu     sync.Mutex
	id     string
	kind   entities.NodeKind
	text   string
	live   bool
	style  entities.NodeStyle
	font   *entities.FontRef
	bounds [2]float64
	onRead Hook
	writes int
}

func (n *Node) ID() string { return n.id }

func (n *Node) IsLive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.live
}

func (n *Node) Destroy() {
	n.mu.Lock()
	n.live = false
	n.mu.Unlock()
}

// OnRead installs a hook run before each Text call.
func (n *Node) OnRead(h Hook) {
	n.mu.Lock()
	n.onRead = h
	n.mu.Unlock()
}

func (n *Node) Text() (string, error) {
	n.mu.Lock()
	hook := n.onRead
	n.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.live {
		return "", domain.ErrNodeGone
	}
	return n.text, nil
}

func (n *Node) SetText(text string) error {
	return n.mutate(func() {
		n.text = text
		n.writes++
	})
}

// Writes counts successful SetText calls.
func (n *Node) Writes() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.writes
}

func (n *Node) Style() (entities.NodeStyle, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.live {
		return entities.NodeStyle{}, domain.ErrNodeGone
	}
	return n.style, nil
}

// AutoSizeBounds returns the bounds of the last SetAutoSizing call.
func (n *Node) AutoSizeBounds() (min, max float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounds[0], n.bounds[1]
}

func (n *Node) Font() *entities.FontRef {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.font
}

func (n *Node) SetCharacterSpacing(v float64) error {
	return n.mutate(func() { n.style.CharacterSpacing = v })
}

func (n *Node) SetLineSpacing(v float64) error {
	return n.mutate(func() { n.style.LineSpacing = v })
}

func (n *Node) SetAutoSizing(enabled bool, min, max float64) error {
	return n.mutate(func() {
		n.style.AutoSizing = enabled
		n.bounds = [2]float64{min, max}
	})
}

func (n *Node) SetFont(font *entities.FontRef) error {
	return n.mutate(func() {
		n.font = font
		if font != nil {
			n.style.Font = font.Name
		}
	})
}

func (n *Node) ForceLayoutRefresh() error { return n.mutate(func() {}) }

func (n *Node) mutate(fn func()) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.live {
		return fmt.Errorf("node %s: %w", n.id, domain.ErrNodeGone)
	}
	fn()
	return nil
}
