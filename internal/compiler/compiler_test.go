// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package compiler

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/biogrid/internal/model"
)

// combustion builds A + O2 -> CO2 at rate k.
func combustion(t *testing.T) *model.Container {
	t.Helper()
	b := model.NewBuilder(model.Compartment, "m")
	a, err := b.AddSpecies("A", model.Literal(100))
	require.NoError(t, err)
	o2, err := b.AddSpecies("O2", model.Literal(100))
	require.NoError(t, err)
	co2, err := b.AddSpecies("CO2", model.Literal(0))
	require.NoError(t, err)
	k, err := b.AddParameter("k", model.Literal(1))
	require.NoError(t, err)
	_, err = b.AddSpecies("unused", model.Literal(5))
	require.NoError(t, err)

	require.NoError(t, b.AddReaction("combustion", model.NewReaction(nil).
		Species("A", model.Ref(a)).
		Species("O2", model.Ref(o2)).
		Species("CO2", model.Ref(co2)).
		Parameter("k", model.Ref(k)).
		Reactant("A", 1).
		Reactant("O2", 1).
		Product("CO2", 1)))

	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func TestCompiler_Combustion(t *testing.T) {
	t.Parallel()

	root := combustion(t)
	c, err := New(context.Background(), root)
	require.NoError(t, err)
	assert.Same(t, root, c.Root())

	wantSpecies := []Entry{
		{Index: 0, Path: "A", Default: 100},
		{Index: 1, Path: "O2", Default: 100},
		{Index: 2, Path: "CO2", Default: 0},
	}
	if diff := cmp.Diff(wantSpecies, c.Species()); diff != "" {
		t.Errorf("species mismatch (-want +got):\n%s", diff)
	}
	wantParams := []Entry{
		{Index: 0, Path: "k", Default: 1},
	}
	if diff := cmp.Diff(wantParams, c.Parameters()); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
	wantValues := map[string]string{
		"combustion.A":   "A",
		"combustion.O2":  "O2",
		"combustion.CO2": "CO2",
		"combustion.k":   "k",
		"A":              "A",
		"O2":             "O2",
		"CO2":            "CO2",
		"k":              "k",
	}
	if diff := cmp.Diff(wantValues, c.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	y, p, err := c.BuildValueVectors()
	require.NoError(t, err)
	assert.Equal(t, []float64{-10000, -10000, 10000}, c.BuildRHS(p)(0, y))

	t.Run("doubling the base parameter doubles the derivative", func(t *testing.T) {
		y, p, err := c.BuildValueVectors(Set("k", 2))
		require.NoError(t, err)
		assert.Equal(t, []float64{2}, p)
		assert.Equal(t, []float64{-20000, -20000, 20000}, c.BuildRHS(p)(0, y))
	})

	t.Run("an alias override addresses the shared parameter", func(t *testing.T) {
		y, p, err := c.BuildValueVectors(SetParameter("combustion.k", 3))
		require.NoError(t, err)
		assert.Equal(t, []float64{3}, p)
		assert.Equal(t, []float64{-30000, -30000, 30000}, c.BuildRHS(p)(0, y))

		idx, factor, ok := c.ParameterIndex("combustion.k")
		require.True(t, ok)
		assert.Equal(t, 0, idx)
		assert.Equal(t, 1.0, factor)
	})

	t.Run("species overrides through aliases reach the slot", func(t *testing.T) {
		y, _, err := c.BuildValueVectors(Set("A", 50), Set("combustion.O2", 7))
		require.NoError(t, err)
		assert.Equal(t, []float64{50, 7, 0}, y)
	})

	t.Run("later overrides win", func(t *testing.T) {
		y, _, err := c.BuildValueVectors(Set("A", 50), Set("A", 60))
		require.NoError(t, err)
		assert.Equal(t, 60.0, y[0])
	})

	t.Run("overrides by reference", func(t *testing.T) {
		k, err := root.Ref("k")
		require.NoError(t, err)
		_, p, err := c.BuildValueVectors(SetRef(k, 4))
		require.NoError(t, err)
		assert.Equal(t, []float64{4}, p)
	})
}

func TestCompiler_OverrideErrors(t *testing.T) {
	t.Parallel()

	c, err := New(context.Background(), combustion(t))
	require.NoError(t, err)

	testCases := []struct {
		name     string
		override Override
		wantErr  any
	}{
		{name: "unknown path", override: Set("nope", 1), wantErr: new(*UnknownOverrideError)},
		{name: "unreached entity", override: Set("unused", 1), wantErr: new(*UnknownOverrideError)},
		{name: "species typed override on a parameter", override: SetSpecies("k", 1), wantErr: new(*model.KindMismatchError)},
		{name: "parameter typed override on a species", override: SetParameter("A", 1), wantErr: new(*model.KindMismatchError)},
		{name: "negative value", override: Set("A", -1), wantErr: new(*model.InvalidValueError)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := c.BuildValueVectors(tc.override)
			require.Error(t, err)
			require.ErrorAs(t, err, tc.wantErr)
		})
	}
}

func TestCompiler_RHSAccumulates(t *testing.T) {
	t.Parallel()

	c, err := New(context.Background(), combustion(t))
	require.NoError(t, err)
	y, p, err := c.BuildValueVectors()
	require.NoError(t, err)

	out := []float64{1, 2, 3}
	c.RHS()(0, y, p, out)
	assert.Equal(t, []float64{1 - 10000, 2 - 10000, 3 + 10000}, out)
}

func TestCompiler_Stoichiometry(t *testing.T) {
	t.Parallel()

	b := model.NewBuilder(model.Compartment, "m")
	a, err := b.AddSpecies("A", model.Literal(3))
	require.NoError(t, err)
	dimer, err := b.AddSpecies("dimer", model.Ref(a.Scale(2)))
	require.NoError(t, err)
	e, err := b.AddSpecies("E", model.Literal(1))
	require.NoError(t, err)
	bb, err := b.AddSpecies("B", model.Literal(0))
	require.NoError(t, err)
	k, err := b.AddParameter("k", model.Literal(1))
	require.NoError(t, err)

	// X follows dimer, so one X consumes two A.
	require.NoError(t, b.AddReaction("r", model.NewReaction(nil).
		Species("X", model.Ref(dimer)).
		Species("E", model.Ref(e)).
		Species("B", model.Ref(bb)).
		Parameter("k", model.Ref(k)).
		Reactant("X", 1).
		Reactant("E", 1).
		Product("B", 1).
		Product("E", 1)))
	root, err := b.Build()
	require.NoError(t, err)

	c, err := New(context.Background(), root)
	require.NoError(t, err)

	idxA, ok := c.SpeciesIndex("A")
	require.True(t, ok)
	idxX, ok := c.SpeciesIndex("r.X")
	require.True(t, ok)
	assert.Equal(t, idxA, idxX)
	idxDimer, ok := c.SpeciesIndex("dimer")
	require.True(t, ok)
	assert.Equal(t, idxA, idxDimer)
	assert.Len(t, c.Species(), 3)

	y, p, err := c.BuildValueVectors()
	require.NoError(t, err)
	dy := c.BuildRHS(p)(0, y)

	// rate = k * A^2 * E = 9; E is a catalyst.
	idxE, _ := c.SpeciesIndex("E")
	idxB, _ := c.SpeciesIndex("B")
	assert.Equal(t, -18.0, dy[idxA])
	assert.Equal(t, 0.0, dy[idxE])
	assert.Equal(t, 9.0, dy[idxB])
}

func TestCompiler_SpeciesFromParameter(t *testing.T) {
	t.Parallel()

	b := model.NewBuilder(model.Compartment, "m")
	k0, err := b.AddParameter("k0", model.Literal(2))
	require.NoError(t, err)
	kd, err := b.AddParameter("kd", model.Ref(k0.Scale(5)))
	require.NoError(t, err)
	s, err := b.AddSpecies("S", model.Ref(k0.Scale(3)))
	require.NoError(t, err)
	require.NoError(t, b.AddReaction("decay", model.NewReaction(nil).
		Species("S", model.Ref(s)).
		Parameter("rate", model.Ref(kd)).
		Reactant("S", 1)))
	root, err := b.Build()
	require.NoError(t, err)

	c, err := New(context.Background(), root)
	require.NoError(t, err)

	wantParams := []Entry{{Index: 0, Path: "k0", Default: 2}}
	if diff := cmp.Diff(wantParams, c.Parameters()); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
	idx, factor, ok := c.ParameterIndex("decay.rate")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 5.0, factor)

	y, p, err := c.BuildValueVectors()
	require.NoError(t, err)
	assert.Equal(t, []float64{6}, y)
	assert.Equal(t, []float64{2}, p)
	assert.Equal(t, []float64{-60}, c.BuildRHS(p)(0, y))

	testCases := []struct {
		name     string
		override Override
		wantY    []float64
		wantP    []float64
	}{
		{name: "base parameter", override: Set("k0", 1), wantY: []float64{3}, wantP: []float64{1}},
		{name: "derived parameter", override: Set("kd", 10), wantY: []float64{6}, wantP: []float64{2}},
		{name: "reaction member", override: SetParameter("decay.rate", 20), wantY: []float64{12}, wantP: []float64{4}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			y, p, err := c.BuildValueVectors(tc.override)
			require.NoError(t, err)
			assert.Equal(t, tc.wantY, y, "species initialized from a parameter follows it")
			assert.Equal(t, tc.wantP, p)
			assert.Equal(t, []float64{-factor * tc.wantP[0] * tc.wantY[0]}, c.BuildRHS(p)(0, y))
		})
	}
}

func TestCompiler_CustomLaw(t *testing.T) {
	t.Parallel()

	law := model.RateFunc{Label: "constant", Fn: func(_ float64, _, parameters []float64) float64 {
		return parameters[0]
	}}
	b := model.NewBuilder(model.Compartment, "m")
	a, err := b.AddSpecies("A", model.Literal(0))
	require.NoError(t, err)
	require.NoError(t, b.AddReaction("source", model.NewReaction(law).
		Species("A", model.Ref(a)).
		Parameter("flux", model.Literal(7)).
		Product("A", 1)))
	root, err := b.Build()
	require.NoError(t, err)

	c, err := New(context.Background(), root)
	require.NoError(t, err)
	y, p, err := c.BuildValueVectors()
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, c.BuildRHS(p)(0, y))
}

func TestCompiler_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(ctx, combustion(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompiler_ReactionsAccumulate(t *testing.T) {
	t.Parallel()

	b := model.NewBuilder(model.Compartment, "m")
	a, err := b.AddSpecies("A", model.Literal(4))
	require.NoError(t, err)
	bb, err := b.AddSpecies("B", model.Literal(0))
	require.NoError(t, err)
	// Both reactions consume A.
	require.NoError(t, b.AddReaction("first", model.NewReaction(nil).
		Species("A", model.Ref(a)).
		Species("B", model.Ref(bb)).
		Parameter("k", model.Literal(1)).
		Reactant("A", 1).
		Product("B", 1)))
	require.NoError(t, b.AddReaction("second", model.NewReaction(nil).
		Species("A", model.Ref(a)).
		Parameter("k", model.Literal(3)).
		Reactant("A", 1)))
	root, err := b.Build()
	require.NoError(t, err)

	c, err := New(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, c.Species(), 2)

	y, p, err := c.BuildValueVectors()
	require.NoError(t, err)
	assert.Equal(t, []float64{-4 - 12, 4}, c.BuildRHS(p)(0, y))
}
