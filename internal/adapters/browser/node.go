package browser

import (
	"encoding/json"
	"fmt"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

var _ output.RichNode = (*Node)(nil)

// Node is an element addressed by its data-tl-id. It holds no DOM handle,
// so a removed element simply stops being found.
type Node struct {
	host *Host
	id   string
}

func (n *Node) ID() string { return n.id }

func (n *Node) IsLive() bool {
	res, err := n.host.op().Eval(isLiveJS, n.id)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}

func (n *Node) Text() (string, error) {
	res, err := n.host.op().Eval(getTextJS, n.id)
	if err != nil {
		return "", fmt.Errorf("browser: read %s: %w", n.id, err)
	}
	if res.Value.Nil() {
		return "", domain.ErrNodeGone
	}
	return res.Value.Str(), nil
}

func (n *Node) SetText(text string) error {
	return n.call(setTextJS, text)
}

func (n *Node) Style() (entities.NodeStyle, error) {
	res, err := n.host.op().Eval(getStyleJS, n.id)
	if err != nil {
		return entities.NodeStyle{}, fmt.Errorf("browser: style %s: %w", n.id, err)
	}
	if res.Value.Nil() {
		return entities.NodeStyle{}, domain.ErrNodeGone
	}
	var st entities.NodeStyle
	if err := json.Unmarshal([]byte(res.Value.Str()), &st); err != nil {
		return entities.NodeStyle{}, fmt.Errorf("browser: decode style %s: %w", n.id, err)
	}
	return st, nil
}

func (n *Node) SetCharacterSpacing(v float64) error {
	return n.call(setLetterSpacingJS, v)
}

func (n *Node) SetLineSpacing(v float64) error {
	return n.call(setLineSpacingJS, v)
}

func (n *Node) SetAutoSizing(enabled bool, min, max float64) error {
	return n.call(setAutoSizeJS, enabled, min, max)
}

func (n *Node) SetFont(font *entities.FontRef) error {
	if font == nil {
		return nil
	}
	family, ok := font.Handle.(string)
	if !ok || family == "" {
		return fmt.Errorf("browser: font %s was not loaded by this host", font.Name)
	}
	return n.call(setFontJS, family)
}

func (n *Node) ForceLayoutRefresh() error {
	return n.call(reflowJS)
}

// call runs a mutation script whose first argument is the node id. Scripts
// return false when the element is gone.
func (n *Node) call(js string, args ...any) error {
	res, err := n.host.op().Eval(js, append([]any{n.id}, args...)...)
	if err != nil {
		return fmt.Errorf("browser: node %s: %w", n.id, err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("node %s: %w", n.id, domain.ErrNodeGone)
	}
	return nil
}
