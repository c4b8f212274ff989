// Package app wires the pipeline together: logger, configuration, asset
// store, executor registry and processor.
package app

import (
	"io"
	"log/slog"

	"github.com/vk/scenepipe/internal/config"
	"github.com/vk/scenepipe/internal/pipeline"
	"github.com/vk/scenepipe/internal/registry"
	"github.com/vk/scenepipe/internal/storage"
	"github.com/vk/scenepipe/modules/cutscene"
	"github.com/vk/scenepipe/modules/flux"
	"github.com/vk/scenepipe/modules/tts"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	cfg       *config.Config
	store     storage.AssetStorage
	registry  *registry.Registry
	processor *pipeline.Processor
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// When no modules are passed, the default backends (flux image generation,
// text-to-speech, cutscene assembly) are registered.
func New(outW io.Writer, cfg *config.Config, store storage.AssetStorage, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = []registry.Module{
			flux.New(cfg.Flux, store),
			tts.New(cfg.TTS, store),
			cutscene.New(store),
		}
	}

	reg := registry.New()
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All executor modules registered.", "count", len(modules), "types", reg.Types())

	processor := pipeline.New(reg, pipeline.WithActionTimeout(cfg.ActionTimeout.Std()))

	return &App{
		outW:      outW,
		logger:    logger,
		cfg:       cfg,
		store:     store,
		registry:  reg,
		processor: processor,
	}
}

// Processor returns the application's action processor.
func (a *App) Processor() *pipeline.Processor {
	return a.processor
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
