// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/specialistvlad/biogrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// assignments collects repeated -set name=value flags.
type assignments []app.Assignment

func (a *assignments) String() string {
	parts := make([]string, len(*a))
	for i, v := range *a {
		parts[i] = v.Path + "=" + strconv.FormatFloat(v.Value, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (a *assignments) Set(s string) error {
	path, raw, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", path, err)
	}
	*a = append(*a, app.Assignment{Path: strings.TrimSpace(path), Value: v})
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	env, err := loadEnvironment()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("biogrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
biogrid - Hierarchical biochemical models, compiled and simulated.

Usage:
  biogrid [options] MODEL_PATH

Arguments:
  MODEL_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
		fmt.Fprint(output, `
Defaults may be set through BIOGRID_MODEL, BIOGRID_T_END, BIOGRID_STEPS,
BIOGRID_SUBSTEPS, BIOGRID_LOG_FORMAT and BIOGRID_LOG_LEVEL.
`)
	}

	var values assignments
	modelFlag := flagSet.String("model", env.Model, "Name of the model to run. Defaults to the last declared model.")
	flagSet.Var(&values, "set", "Override an entity value as name=value. Repeatable.")
	tEndFlag := flagSet.Float64("t-end", env.TEnd, "End time of the simulation.")
	stepsFlag := flagSet.Int("steps", env.Steps, "Number of sample intervals between 0 and the end time.")
	substepsFlag := flagSet.Int("substeps", env.Substeps, "Number of integration steps per sample interval.")
	exportFlag := flagSet.String("export", "", "Print the resolved model instead of simulating. Options: 'yaml', 'hcl'.")
	logFormatFlag := flagSet.String("log-format", env.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", env.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No model path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "expected a single model path"}
	}
	path := flagSet.Arg(0)
	slog.Debug("Model path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ModelPath: path,
		ModelName: *modelFlag,
		Values:    values,
		TEnd:      *tEndFlag,
		Steps:     *stepsFlag,
		Substeps:  *substepsFlag,
		Export:    strings.ToLower(*exportFlag),
		LogFormat: logFormat,
		LogLevel:  logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
