package application

import (
	"fmt"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

// Style setting names used in StyleReport.
const (
	StyleFont             = "font"
	StyleCharacterSpacing = "character_spacing"
	StyleLineSpacing      = "line_spacing"
	StyleAutoSizing       = "auto_sizing"
	StyleLayoutRefresh    = "layout_refresh"
)

type styleStep struct {
	name  string
	apply func() error
}

// ApplyStyle applies settings to a rich node that just received a
// translation. Every step is independent: a failing or panicking setter is
// recorded and the next one still runs. Liveness is checked before each
// step and a destroyed node ends the sequence.
func ApplyStyle(node output.RichNode, settings entities.StyleSettings) entities.StyleReport {
	return applySteps(node, richSteps(node, settings))
}

// ApplyLineSpacing is the style pass for simple nodes, which only take line
// spacing.
func ApplyLineSpacing(node output.TextNode, v float64) entities.StyleReport {
	return applySteps(node, []styleStep{
		{StyleLineSpacing, func() error { return node.SetLineSpacing(v) }},
	})
}

func applySteps(node output.TextNode, steps []styleStep) entities.StyleReport {
	var report entities.StyleReport
	for i, step := range steps {
		if !isLive(node) {
			for _, rest := range steps[i:] {
				report.Failed = append(report.Failed, rest.name)
			}
			return report
		}
		if err := runStep(step); err != nil {
			report.Failed = append(report.Failed, step.name)
			continue
		}
		report.Applied = append(report.Applied, step.name)
	}
	return report
}

func richSteps(n output.RichNode, s entities.StyleSettings) []styleStep {
	steps := make([]styleStep, 0, 5)
	if s.Font != nil {
		steps = append(steps, styleStep{StyleFont, func() error {
			return n.SetFont(s.Font)
		}})
	}
	steps = append(steps,
		styleStep{StyleCharacterSpacing, func() error {
			return n.SetCharacterSpacing(s.CharacterSpacing)
		}},
		styleStep{StyleLineSpacing, func() error {
			return n.SetLineSpacing(s.LineSpacing)
		}},
	)
	if s.AutoSizing {
		lo, hi := s.AutoSizeMin, s.AutoSizeMax
		if lo <= 0 || hi <= 0 || lo > hi {
			lo, hi = entities.AutoSizeMin, entities.AutoSizeMax
		}
		steps = append(steps, styleStep{StyleAutoSizing, func() error {
			return n.SetAutoSizing(true, lo, hi)
		}})
	}
	return append(steps, styleStep{StyleLayoutRefresh, n.ForceLayoutRefresh})
}

func runStep(step styleStep) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", step.name, r)
		}
	}()
	return step.apply()
}

// isLive treats a panicking liveness probe as a destroyed node.
func isLive(node output.TextNode) (live bool) {
	defer func() {
		if recover() != nil {
			live = false
		}
	}()
	return node.IsLive()
}

func errNodeGone(id string) error {
	return fmt.Errorf("node %s: %w", id, domain.ErrNodeGone)
}
