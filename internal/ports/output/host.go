package output

import (
	"context"

	"textoverlay/internal/domain/entities"
)

// TextNode is a host-owned text element. The core only borrows it for the
// cycle that discovered it and must check IsLive before every mutation.
type TextNode interface {
	ID() string
	IsLive() bool
	Text() (string, error)
	SetText(text string) error
	// SetLineSpacing is the one style setting every node kind supports.
	SetLineSpacing(v float64) error
}

// RichNode is a TextNode that also exposes character spacing, sizing and
// font capabilities.
type RichNode interface {
	TextNode
	Style() (entities.NodeStyle, error)
	SetCharacterSpacing(v float64) error
	SetAutoSizing(enabled bool, min, max float64) error
	SetFont(font *entities.FontRef) error
	ForceLayoutRefresh() error
}

// Node is the tagged union returned by discovery: exactly one of Simple or
// Rich is set, according to Kind.
type Node struct {
	Kind   entities.NodeKind
	Simple TextNode
	Rich   RichNode
}

// Text returns the node as a plain TextNode whatever its kind.
func (n Node) Text() TextNode {
	if n.Kind == entities.KindRich {
		return n.Rich
	}
	return n.Simple
}

// Discovery enumerates the host's currently live text nodes.
type Discovery interface {
	Discover(ctx context.Context) ([]Node, error)
}

// FontLoader turns a font file into a host font reference.
type FontLoader interface {
	LoadFont(ctx context.Context, path string) (*entities.FontRef, error)
}
