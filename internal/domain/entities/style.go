package entities

// Auto-size bounds applied to rich nodes when auto sizing is enabled.
const (
	AutoSizeMin = 10.0
	AutoSizeMax = 72.0
)

// FontRef is a host-loaded font. Handle is owned by the host adapter that
// produced it.
type FontRef struct {
	Name   string
	Path   string
	Handle any
}

// StyleSettings is applied to every rich node that receives a translation.
type StyleSettings struct {
	CharacterSpacing float64
	LineSpacing      float64
	AutoSizing       bool
	AutoSizeMin      float64
	AutoSizeMax      float64
	Font             *FontRef
}

// NodeStyle is the style currently carried by a rich node.
type NodeStyle struct {
	CharacterSpacing float64 `json:"character_spacing"`
	LineSpacing      float64 `json:"line_spacing"`
	AutoSizing       bool    `json:"auto_sizing"`
	Font             string  `json:"font,omitempty"`
}
