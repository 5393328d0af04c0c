package entities

import "time"

// Window is the half-open range of rich node indexes handled in one cycle.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of indexes in the window.
func (w Window) Len() int { return w.End - w.Start }

// Record is emitted for every node whose text was replaced.
type Record struct {
	NodeID   string      `json:"node_id"`
	Kind     NodeKind    `json:"kind"`
	Original string      `json:"original"`
	Result   string      `json:"result"`
	Cached   bool        `json:"cached"`
	Style    StyleReport `json:"style"`
}

// CycleSummary aggregates the outcomes of one cycle.
type CycleSummary struct {
	ID            string             `json:"id"`
	StartedAt     time.Time          `json:"started_at"`
	Duration      time.Duration      `json:"duration"`
	Dropped       bool               `json:"dropped"`
	Provider      string             `json:"provider,omitempty"`
	FellBack      bool               `json:"fell_back"`
	SimpleCount   int                `json:"simple_count"`
	RichCount     int                `json:"rich_count"`
	RichWindow    *Window            `json:"rich_window,omitempty"`
	Translated    int                `json:"translated"`
	Failed        int                `json:"failed"`
	Skipped       map[SkipReason]int `json:"skipped"`
	CacheHits     int                `json:"cache_hits"`
	ProviderCalls int                `json:"provider_calls"`
	Records       []Record           `json:"records"`
	Error         string             `json:"error,omitempty"`
}

// Add folds one node outcome into the summary.
func (s *CycleSummary) Add(o Outcome) {
	if o.FromCache {
		s.CacheHits++
	}
	if o.Called {
		s.ProviderCalls++
	}
	switch o.Kind {
	case OutcomeTranslated:
		s.Translated++
		s.Records = append(s.Records, Record{
			NodeID:   o.NodeID,
			Kind:     o.NodeKind,
			Original: o.Original,
			Result:   o.Result,
			Cached:   o.FromCache,
			Style:    o.Style,
		})
	case OutcomeFailed:
		s.Failed++
	default:
		if s.Skipped == nil {
			s.Skipped = make(map[SkipReason]int)
		}
		s.Skipped[o.Reason]++
	}
}

// Status is a point-in-time view of a translation session.
type Status struct {
	Running       bool          `json:"running"`
	AutoTranslate bool          `json:"auto_translate"`
	Engine        Engine        `json:"engine"`
	Provider      string        `json:"provider"`
	SourceLang    string        `json:"source_lang"`
	TargetLang    string        `json:"target_lang"`
	CacheSize     int           `json:"cache_size"`
	BatchCursor   int           `json:"batch_cursor"`
	BatchSize     int           `json:"batch_size"`
	FontLoaded    bool          `json:"font_loaded"`
	Cycles        int           `json:"cycles"`
	LastCycle     *CycleSummary `json:"last_cycle,omitempty"`
}
