package input

import (
	"context"

	"textoverlay/internal/domain/entities"
)

// TranslationUseCase is what drivers (timer, control API, CLI) can ask of a
// translation session.
type TranslationUseCase interface {
	RunCycle(ctx context.Context) (entities.CycleSummary, error)
	ReloadCache(ctx context.Context) (int, error)
	FlushCache(ctx context.Context) error
	Lookup(text string) (string, bool)
	TranslateText(ctx context.Context, text string) (string, error)
	DumpTexts(ctx context.Context) ([]entities.NodeText, error)
	AutoTranslate() bool
	SetAutoTranslate(enabled bool)
	Status() entities.Status
}
