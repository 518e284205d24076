// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package simulator

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/biogrid/internal/compiler"
	"github.com/specialistvlad/biogrid/internal/ctxlog"
	"github.com/specialistvlad/biogrid/internal/model"
)

// DefaultSubsteps is the number of RK4 steps taken between two sample times.
const DefaultSubsteps = 100

// ErrNoState is returned by Resume before any run finished.
var ErrNoState = errors.New("simulator has no state to resume from")

// Option configures a Simulator.
type Option func(*Simulator)

// WithDefaults sets values that apply to every run unless the run itself
// overrides them.
func WithDefaults(values ...compiler.Override) Option {
	return func(s *Simulator) {
		s.defaults = append(s.defaults, values...)
	}
}

// WithSubsteps sets the number of RK4 steps between two sample times.
func WithSubsteps(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.substeps = n
		}
	}
}

// Simulator integrates one compiled model. It is not safe for concurrent
// use; the compiled model it wraps is.
type Simulator struct {
	compiler *compiler.Compiler
	rhs      compiler.RHSFunc
	defaults []compiler.Override
	substeps int

	// State of the last run, used by Resume.
	t float64
	y []float64
	p []float64
}

// New compiles root and returns a simulator for it.
func New(ctx context.Context, root *model.Container, opts ...Option) (*Simulator, error) {
	c, err := compiler.New(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to compile model %s: %w", root.Name(), err)
	}
	return NewFromCompiler(c, opts...), nil
}

// NewFromCompiler wraps an existing compiler.
func NewFromCompiler(c *compiler.Compiler, opts ...Option) *Simulator {
	s := &Simulator{
		compiler: c,
		rhs:      c.RHS(),
		substeps: DefaultSubsteps,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compiler returns the compiled model.
func (s *Simulator) Compiler() *compiler.Compiler { return s.compiler }

// Species returns the trajectory column labels.
func (s *Simulator) Species() []string {
	entries := s.compiler.Species()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

// Run integrates from times[0], where the state takes its initial values,
// and samples at every entry of times. times must be non-decreasing.
func (s *Simulator) Run(ctx context.Context, times []float64, values ...compiler.Override) (*Trajectory, error) {
	if len(times) == 0 {
		return nil, errors.New("run needs at least one sample time")
	}
	layered := append(append([]compiler.Override(nil), s.defaults...), values...)
	y, p, err := s.compiler.BuildValueVectors(layered...)
	if err != nil {
		return nil, err
	}
	return s.integrate(ctx, times[0], y, p, times)
}

// Resume continues the last run from its final state and samples at times,
// which must not precede the time the last run ended at.
func (s *Simulator) Resume(ctx context.Context, times []float64) (*Trajectory, error) {
	if s.y == nil {
		return nil, ErrNoState
	}
	if len(times) == 0 {
		return nil, errors.New("resume needs at least one sample time")
	}
	return s.integrate(ctx, s.t, slices.Clone(s.y), s.p, times)
}

func (s *Simulator) integrate(ctx context.Context, t0 float64, y, p, times []float64) (*Trajectory, error) {
	logger := ctxlog.FromContext(ctx)
	if err := checkTimes(t0, times); err != nil {
		return nil, err
	}

	st := newStepper(s.rhs, p, len(y))
	traj := &Trajectory{
		Times:   slices.Clone(times),
		Species: s.Species(),
		Rows:    make([][]float64, 0, len(times)),
	}
	logger.Debug("Integration started.", "from", t0, "to", times[len(times)-1], "samples", len(times))

	t := t0
	for _, next := range times {
		if next > t {
			h := (next - t) / float64(s.substeps)
			for i := 0; i < s.substeps; i++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				st.step(t+float64(i)*h, h, y)
			}
			t = next
		}
		traj.Rows = append(traj.Rows, slices.Clone(y))
	}

	s.t, s.y, s.p = t, y, p
	logger.Debug("Integration finished.", "t", t)
	return traj, nil
}

func checkTimes(t0 float64, times []float64) error {
	prev := t0
	for i, t := range times {
		if t < prev {
			return fmt.Errorf("sample time %v at index %d precedes %v", t, i, prev)
		}
		prev = t
	}
	return nil
}
