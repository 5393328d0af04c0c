// Package cachefile stores the translation cache as a newline-delimited
// text file of "original==>translated" lines.
package cachefile

import (
	"fmt"
	"strings"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
)

// Separator is the canonical separator between original and translation.
const Separator = "==>"

const escapedNewline = `\n`

// Escape prepares a field for a single-line record: carriage returns are
// dropped and line breaks become a literal backslash-n. Backslashes are not
// escaped, so the on-disk format stays readable by older cache files; a
// literal backslash-n already present in s reads back as a line break.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", escapedNewline)
}

// Unescape restores the line breaks written by Escape.
func Unescape(s string) string {
	return strings.ReplaceAll(s, escapedNewline, "\n")
}

// FormatLine renders one canonical record without a trailing newline.
func FormatLine(e entities.CacheEntry) string {
	return Escape(e.Original) + Separator + Escape(e.Translated)
}

// Format is the separator convention a line was read with.
type Format int

const (
	FormatCanonical Format = iota
	FormatTab
	FormatEquals
)

func (f Format) String() string {
	switch f {
	case FormatTab:
		return "tab"
	case FormatEquals:
		return "equals"
	default:
		return "canonical"
	}
}

// ParseLine decodes one record. Canonical lines win; otherwise a tab, then a
// bare "=" are accepted as separators written by older versions. The first
// occurrence of the separator splits the line.
func ParseLine(line string) (entities.CacheEntry, Format, error) {
	line = strings.TrimSuffix(line, "\r")

	var (
		original, translated string
		format               Format
	)
	switch {
	case strings.Index(line, Separator) > 0:
		i := strings.Index(line, Separator)
		original, translated = line[:i], line[i+len(Separator):]
		format = FormatCanonical
	case strings.Contains(line, "\t"):
		original, translated, _ = strings.Cut(line, "\t")
		format = FormatTab
	case strings.Index(line, "=") > 0 && !strings.Contains(line, Separator):
		original, translated, _ = strings.Cut(line, "=")
		format = FormatEquals
	default:
		return entities.CacheEntry{}, 0, fmt.Errorf("%w: no separator", domain.ErrMalformedLine)
	}

	if original == "" || translated == "" {
		return entities.CacheEntry{}, format, fmt.Errorf("%w: empty field", domain.ErrMalformedLine)
	}
	return entities.CacheEntry{
		Original:   Unescape(original),
		Translated: Unescape(translated),
	}, format, nil
}
