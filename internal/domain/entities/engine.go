package entities

import "strings"

// Engine identifies a translation backend.
type Engine string

const (
	EngineGoogle Engine = "google"
	EnginePapago Engine = "papago"
	EngineDeepL  Engine = "deepl"
)

// Engines lists every supported engine; the first one is the default.
var Engines = []Engine{EngineGoogle, EnginePapago, EngineDeepL}

// ParseEngine maps a configuration value to an Engine.
func ParseEngine(s string) (Engine, bool) {
	e := Engine(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Engines {
		if e == known {
			return e, true
		}
	}
	return EngineGoogle, false
}
