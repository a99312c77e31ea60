package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/nucleos/internal/config"
	"github.com/specialistvlad/nucleos/internal/ctxlog"
	"github.com/specialistvlad/nucleos/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	loader   config.Loader
	config   *Config
}

// NewApp is the constructor for the main application. Program output (status
// listings, echo messages) goes to outW and logs go to logW. When no providers
// are given the core module types are registered.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, providers ...registry.Provider) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(providers) == 0 {
		providers = coreProviders(outW)
	}
	for _, p := range providers {
		p.Register(reg)
	}
	logger.Debug("Module types registered.", "types", reg.Types())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		loader:   loader,
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
