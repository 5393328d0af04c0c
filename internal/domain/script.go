package domain

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// sourceScript covers Hiragana (U+3040..U+309F), Katakana (U+30A0..U+30FF)
// and the CJK Unified Ideographs block (U+4E00..U+9FFF).
var sourceScript = rangetable.Merge(
	&unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x3040, Hi: 0x309F, Stride: 1}}},
	&unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x30A0, Hi: 0x30FF, Stride: 1}}},
	&unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1}}},
)

// NeedsTranslation reports whether text contains at least one character of
// the source script. It gates every provider call.
func NeedsTranslation(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if unicode.Is(sourceScript, r) {
			return true
		}
	}
	return false
}
