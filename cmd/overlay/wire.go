package main

import (
	"context"
	"log/slog"

	"textoverlay/internal/application"
	"textoverlay/internal/config"
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/infrastructure/cachestore"
	"textoverlay/internal/infrastructure/i18n"
	"textoverlay/internal/infrastructure/providers"
	"textoverlay/internal/ports/output"
)

func loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, warnings, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	return cfg, nil
}

func buildProviders(cfg *config.Config, logger *slog.Logger) application.ProviderSet {
	opts := providers.Options{Timeout: cfg.ProviderTimeout, Logger: logger}
	google := providers.NewGoogle(opts)
	return application.ProviderSet{
		Default: google,
		ByEngine: map[entities.Engine]output.Provider{
			entities.EngineGoogle: google,
			entities.EnginePapago: providers.NewPapago(cfg.Papago.ClientID, cfg.Papago.ClientSecret, opts),
			entities.EngineDeepL:  providers.NewDeepL(cfg.DeepLKey, opts),
		},
	}
}

// openSession wires a session for host and opens it. The returned release
// function closes the cache store; call Session.Close before it.
func openSession(ctx context.Context, cfg *config.Config, discovery output.Discovery, fonts output.FontLoader, logger *slog.Logger) (*application.Session, func(), error) {
	store, release, err := cachestore.Open(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, nil, err
	}

	session := application.NewSession(application.SessionConfig{
		Engine:     cfg.Engine,
		SourceLang: cfg.SourceLang,
		TargetLang: cfg.TargetLang,
		BatchSize:  cfg.BatchSize,
		Style: entities.StyleSettings{
			CharacterSpacing: cfg.Style.CharacterSpacing,
			LineSpacing:      cfg.Style.LineSpacing,
			AutoSizing:       cfg.Style.AutoSizing,
			AutoSizeMin:      entities.AutoSizeMin,
			AutoSizeMax:      entities.AutoSizeMax,
		},
		FontPath:      cfg.FontPath(),
		AutoTranslate: cfg.AutoTranslate,
		Locale:        cfg.MessageLocale,
	}, application.Deps{
		Discovery: discovery,
		Fonts:     fonts,
		Cache:     application.NewTranslationCache(store, logger),
		Providers: buildProviders(cfg, logger),
		Messages:  i18n.NewTranslator(cfg.MessageLocale, logger),
		Logger:    logger,
	})
	session.Open(ctx)
	return session, release, nil
}
