package application

import (
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

// ProviderSet holds the configured providers by engine. Default needs no
// credentials and is used whenever the configured engine cannot be called.
type ProviderSet struct {
	Default  output.Provider
	ByEngine map[entities.Engine]output.Provider
}

// SelectProvider picks the provider for engine. fellBack reports that the
// default was chosen because the engine's provider is missing or unavailable.
func SelectProvider(engine entities.Engine, set ProviderSet) (p output.Provider, fellBack bool) {
	if p, ok := set.ByEngine[engine]; ok && p != nil && p.Available() {
		return p, false
	}
	return set.Default, set.Default == nil || set.Default.Name() != string(engine)
}
