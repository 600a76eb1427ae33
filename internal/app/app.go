package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/fndispatch/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a sealed
// registry. When no modules are given the compiled-in catalog is used.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New(registry.WithLogger(logger))
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		if err := mod.Register(reg); err != nil {
			// A registration conflict is a programmer error, so we panic.
			panic(fmt.Errorf("failed to register module %T: %w", mod, err))
		}
	}
	reg.Seal()
	logger.Debug("All Go modules registered.", "count", len(modules), "functions", len(reg.Names()))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
