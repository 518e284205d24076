// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package simulator

import (
	"fmt"
	"slices"
)

// Trajectory is the sampled state of a run. Rows follow Times; columns
// follow Species.
type Trajectory struct {
	Times   []float64
	Species []string
	Rows    [][]float64
}

// Len returns the number of samples.
func (t *Trajectory) Len() int { return len(t.Times) }

// Column returns the samples of one species path.
func (t *Trajectory) Column(species string) ([]float64, error) {
	idx := slices.Index(t.Species, species)
	if idx < 0 {
		return nil, fmt.Errorf("trajectory has no species %q", species)
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Last returns the final state, or nil for an empty trajectory.
func (t *Trajectory) Last() []float64 {
	if len(t.Rows) == 0 {
		return nil
	}
	return slices.Clone(t.Rows[len(t.Rows)-1])
}
