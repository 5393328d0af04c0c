package application

import (
	"testing"

	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

func TestSelectProvider(t *testing.T) {
	google := newProvider("google", nil)
	papago := newProvider("papago", nil)
	papago.available = false
	deepl := newProvider("deepl", nil)
	set := ProviderSet{
		Default: google,
		ByEngine: map[entities.Engine]output.Provider{
			entities.EngineGoogle: google,
			entities.EnginePapago: papago,
			entities.EngineDeepL:  deepl,
		},
	}

	tests := []struct {
		engine   entities.Engine
		want     string
		fellBack bool
	}{
		{entities.EngineGoogle, "google", false},
		{entities.EnginePapago, "google", true},
		{entities.EngineDeepL, "deepl", false},
		{entities.Engine("bing"), "google", true},
	}
	for _, tt := range tests {
		p, fb := SelectProvider(tt.engine, set)
		if p.Name() != tt.want || fb != tt.fellBack {
			t.Errorf("%s: got %s/%v, want %s/%v", tt.engine, p.Name(), fb, tt.want, tt.fellBack)
		}
	}
}

func TestSelectProvider_DefaultOnlySet(t *testing.T) {
	google := newProvider("google", nil)
	p, fb := SelectProvider(entities.EngineGoogle, ProviderSet{Default: google})
	if p != google || fb {
		t.Errorf("got %v/%v, want default without fallback", p.Name(), fb)
	}
}
