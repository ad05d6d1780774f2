// Package app wires config into the services shared by the web and CLI
// entrypoints.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"thumbgenius/internal/brief"
	"thumbgenius/internal/catalog"
	"thumbgenius/internal/config"
	"thumbgenius/internal/gemini"
	"thumbgenius/internal/generator"
	"thumbgenius/internal/history"
	"thumbgenius/internal/httpclient"
)

type App struct {
	Config    config.Config
	Catalog   *catalog.Catalog
	Gemini    *gemini.Client
	Generator *generator.Service
	History   *history.Store
	Drafts    *brief.Store
}

// New builds the service graph. Without an API key Gemini stays nil and the
// generator answers from its fallbacks.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	cat := catalog.Default()
	hist := history.NewStore(history.Options{MaxEntries: cfg.MaxHistory})

	genOpts := generator.Options{
		Catalog:       cat,
		History:       hist,
		Logger:        logger,
		MaxConcurrent: cfg.MaxConcurrent,
		CallTimeout:   cfg.RequestTimeout,
	}

	var gem *gemini.Client
	if cfg.Offline() {
		logger.Warn("GEMINI_API_KEY is not set, running offline with local templates")
	} else {
		httpClient := httpclient.New(httpclient.Options{
			PreferIPv4: cfg.PreferIPv4,
			Timeout:    cfg.HTTPTimeout,
		})

		var err error
		gem, err = gemini.New(ctx, gemini.Options{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			APIVersion: cfg.GeminiAPIVersion,
			HTTPClient: httpClient,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini init: %w", err)
		}
		genOpts.Model = gem
	}

	return &App{
		Config:    cfg,
		Catalog:   cat,
		Gemini:    gem,
		Generator: generator.New(genOpts),
		History:   hist,
		Drafts:    brief.NewStore(cat),
	}, nil
}

// ModelName is empty when offline.
func (a *App) ModelName() string {
	if a.Gemini == nil {
		return ""
	}
	return a.Gemini.Model()
}

// ValidateKey checks the key with one request. It is a no-op when offline.
func (a *App) ValidateKey(ctx context.Context) error {
	if a.Gemini == nil {
		return nil
	}
	return a.Gemini.Validate(ctx)
}
