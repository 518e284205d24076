// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"errors"
	"fmt"
	"math"
)

// Supported export formats. An empty format means a simulation run.
const (
	ExportNone = ""
	ExportYAML = "yaml"
	ExportHCL  = "hcl"
)

// Assignment sets the value of one model entity for a run.
type Assignment struct {
	Path  string
	Value float64
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPath string // hcl file or directory
	ModelName string // empty selects the last declared model

	Values   []Assignment
	TEnd     float64
	Steps    int
	Substeps int
	Export   string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("ModelPath is a required configuration field and cannot be empty")
	}
	if math.IsNaN(cfg.TEnd) || math.IsInf(cfg.TEnd, 0) || cfg.TEnd < 0 {
		return nil, fmt.Errorf("end time must be a finite non-negative number, got %v", cfg.TEnd)
	}
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("steps must be at least 1, got %d", cfg.Steps)
	}
	if cfg.Substeps < 1 {
		return nil, fmt.Errorf("substeps must be at least 1, got %d", cfg.Substeps)
	}
	switch cfg.Export {
	case ExportNone, ExportYAML, ExportHCL:
	default:
		return nil, fmt.Errorf("unsupported export format %q", cfg.Export)
	}
	return &cfg, nil
}
