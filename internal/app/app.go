// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/biogrid/internal/ctxlog"
	"github.com/specialistvlad/biogrid/internal/hclmodel"
	"github.com/specialistvlad/biogrid/internal/model"
	"github.com/specialistvlad/biogrid/internal/reactions"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader *hclmodel.Loader
}

// NewApp is the constructor for the main application. Results are written
// to outW and logs to logW. A nil registry means the default reaction
// templates.
func NewApp(outW, logW io.Writer, cfg *Config, templates *reactions.Registry) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if templates == nil {
		templates = reactions.Default()
	}
	logger.Debug("Reaction templates registered.", "count", len(templates.Names()))

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: hclmodel.NewLoader(templates),
	}
}

// Load reads the configured model files and returns the selected model.
func (a *App) Load(ctx context.Context) (*model.Container, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("Loading models...", "path", a.config.ModelPath)

	set, err := a.loader.Load(ctx, a.config.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}
	a.logger.Info("Models loaded successfully.", "models", set.Names())

	if a.config.ModelName != "" {
		return set.Get(a.config.ModelName)
	}
	root := set.Default()
	if root == nil {
		return nil, fmt.Errorf("no models declared in %s", a.config.ModelPath)
	}
	return root, nil
}
