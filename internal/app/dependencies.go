package app

import (
	"fmt"

	"github.com/quantmind-br/rentwatch-go/internal/config"
	"github.com/quantmind-br/rentwatch-go/internal/domain"
	"github.com/quantmind-br/rentwatch-go/internal/fetcher"
	"github.com/quantmind-br/rentwatch-go/internal/history"
	"github.com/quantmind-br/rentwatch-go/internal/notify"
	"github.com/quantmind-br/rentwatch-go/internal/renderer"
	"github.com/quantmind-br/rentwatch-go/internal/utils"
)

// Dependencies holds the shared resources a run needs. Built once per run,
// closed once the run finishes.
type Dependencies struct {
	Renderer domain.Renderer
	Store    domain.HistoryStore
	Notifier domain.Notifier // nil when notifications are disabled
	Logger   *utils.Logger
}

// NewDependencies wires concrete implementations from validated config.
func NewDependencies(cfg *config.Config, logger *utils.Logger) (*Dependencies, error) {
	rend, err := buildRenderer(cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(cfg)
	if err != nil {
		_ = rend.Close()
		return nil, err
	}

	var notifier domain.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewEmailNotifier(cfg.Notify, logger)
	}

	return &Dependencies{
		Renderer: rend,
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
	}, nil
}

// buildRenderer picks headless Chrome when available, falling back to the
// stealth HTTP client. Pages that hydrate units with JavaScript only work
// with the browser path, so the fallback is logged loudly.
func buildRenderer(cfg *config.Config, logger *utils.Logger) (domain.Renderer, error) {
	useBrowser := !cfg.Rendering.NoBrowser &&
		(renderer.IsAvailable() || cfg.Rendering.BrowserPath != "")

	if useBrowser {
		return renderer.New(renderer.Options{
			Timeout:     cfg.Rendering.Timeout,
			Stealth:     true,
			Headless:    cfg.Rendering.Headless,
			BrowserPath: cfg.Rendering.BrowserPath,
		})
	}

	if !cfg.Rendering.NoBrowser {
		logger.Warn().Msg("No Chrome/Chromium found; fetching without JavaScript rendering")
	}
	return fetcher.NewClient(fetcher.ClientOptions{
		Timeout:   cfg.Rendering.Timeout,
		UserAgent: cfg.Rendering.UserAgent,
	})
}

func buildStore(cfg *config.Config) (domain.HistoryStore, error) {
	switch cfg.History.Backend {
	case "badger":
		return history.NewBadgerStore(history.BadgerOptions{
			Directory: cfg.History.Directory,
		})
	case "file", "":
		return history.NewFileStore(cfg.History.Path), nil
	default:
		return nil, fmt.Errorf("unknown history backend: %q", cfg.History.Backend)
	}
}

// Close releases every held resource. Safe when partially constructed.
func (d *Dependencies) Close() error {
	var firstErr error
	if d.Renderer != nil {
		if err := d.Renderer.Close(); err != nil {
			firstErr = err
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
