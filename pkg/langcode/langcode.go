// Package langcode normalizes the language codes found in configuration.
package langcode

import (
	"strings"

	"golang.org/x/text/language"
)

// Normalize returns the canonical BCP 47 form of code ("JA" -> "ja",
// "zh-cn" -> "zh-CN"). Codes the parser rejects are lower-cased and kept.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	return tag.String()
}

// Upper returns code in the upper-case form some providers require
// ("ja" -> "JA", "zh-CN" -> "ZH-CN").
func Upper(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code parses as a language tag.
func Valid(code string) bool {
	_, err := language.Parse(strings.TrimSpace(code))
	return err == nil
}
