package entities

// NodeKind tags a discovered node.
type NodeKind string

const (
	KindSimple NodeKind = "simple"
	KindRich   NodeKind = "rich"
)

// NodeText is one line of a text dump.
type NodeText struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
	Text string   `json:"text"`
}

// OutcomeKind is the result class of processing one node.
type OutcomeKind int

const (
	OutcomeSkipped OutcomeKind = iota
	OutcomeTranslated
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeTranslated:
		return "translated"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// SkipReason explains an OutcomeSkipped.
type SkipReason string

const (
	SkipNotLive      SkipReason = "not_live"
	SkipEmpty        SkipReason = "empty"
	SkipOtherScript  SkipReason = "other_script"
	SkipUntranslated SkipReason = "untranslated"
)

// Outcome is the typed result of processing one node in a cycle.
type Outcome struct {
	Kind      OutcomeKind
	Reason    SkipReason
	Err       error
	NodeID    string
	NodeKind  NodeKind
	Original  string
	Result    string
	FromCache bool
	Called    bool
	Style     StyleReport
}

// StyleReport lists which style settings were applied to a rich node.
type StyleReport struct {
	Applied []string `json:"applied,omitempty"`
	Failed  []string `json:"failed,omitempty"`
}
