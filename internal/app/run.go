// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/specialistvlad/biogrid/internal/compiler"
	"github.com/specialistvlad/biogrid/internal/ctxlog"
	"github.com/specialistvlad/biogrid/internal/export"
	"github.com/specialistvlad/biogrid/internal/simulator"
)

// Run executes the main application logic based on the configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	root, err := a.Load(ctx)
	if err != nil {
		return err
	}

	switch a.config.Export {
	case ExportYAML:
		a.logger.Debug("Exporting model.", "model", root.Name(), "format", a.config.Export)
		return export.WriteYAML(a.outW, root)
	case ExportHCL:
		a.logger.Debug("Exporting model.", "model", root.Name(), "format", a.config.Export)
		return export.WriteHCL(a.outW, root)
	}

	sim, err := simulator.New(ctx, root, simulator.WithSubsteps(a.config.Substeps))
	if err != nil {
		return err
	}
	a.logger.Info("Model compiled.",
		"model", root.Name(),
		"species", len(sim.Compiler().Species()),
		"parameters", len(sim.Compiler().Parameters()))

	values := make([]compiler.Override, len(a.config.Values))
	for i, v := range a.config.Values {
		values[i] = compiler.Set(v.Path, v.Value)
	}

	times := make([]float64, a.config.Steps+1)
	floats.Span(times, 0, a.config.TEnd)

	a.logger.Info("🚀 Starting simulation...", "t_end", a.config.TEnd, "samples", len(times))
	traj, err := sim.Run(ctx, times, values...)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	a.logger.Info("🏁 Simulation finished.")

	return writeCSV(a.outW, traj)
}

// writeCSV writes a trajectory as a time column followed by one column per
// species.
func writeCSV(w io.Writer, traj *simulator.Trajectory) error {
	cw := csv.NewWriter(w)
	header := append([]string{"time"}, traj.Species...)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i, row := range traj.Rows {
		record[0] = formatFloat(traj.Times[i])
		for j, v := range row {
			record[j+1] = formatFloat(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
