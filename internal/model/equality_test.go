// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer_Equal(t *testing.T) {
	t.Parallel()

	base := flat(t, "Base", map[string]float64{"A": 1, "k": 2}, "A", "k")

	ext, err := Extend(base)
	require.NoError(t, err)
	same, err := ext.Build()
	require.NoError(t, err)
	assert.True(t, base.Equal(same), "an unmodified extension equals its base")
	assert.NotSame(t, base, same)

	renamed := flat(t, "Other", map[string]float64{"A": 1, "k": 2}, "k", "A")
	assert.True(t, base.Equal(renamed), "own name and member order are ignored")

	changed := flat(t, "Base", map[string]float64{"A": 1, "k": 3}, "A", "k")
	assert.False(t, base.Equal(changed))

	fewer := flat(t, "Base", map[string]float64{"A": 1}, "A")
	assert.False(t, base.Equal(fewer))
}

func TestContainer_Equivalent(t *testing.T) {
	t.Parallel()

	a := build(t, "a", func(t *testing.T, b *Builder) {
		_, err := b.AddSpecies("A", Literal(1))
		require.NoError(t, err)
		_, err = b.AddParameter("k", Literal(2))
		require.NoError(t, err)
	})
	b := build(t, "b", func(t *testing.T, b *Builder) {
		_, err := b.AddParameter("rate", Literal(2))
		require.NoError(t, err)
		_, err = b.AddSpecies("X", Literal(1))
		require.NoError(t, err)
	})
	c := build(t, "c", func(t *testing.T, b *Builder) {
		k, err := b.AddParameter("k", Literal(2))
		require.NoError(t, err)
		_, err = b.AddSpecies("A", Ref(k.Scale(0.5)))
		require.NoError(t, err)
	})

	assert.False(t, a.Equal(b))
	eq, err := a.Equivalent(b)
	require.NoError(t, err)
	assert.True(t, eq)

	// A follows k with multiplier 0.5: resolved literal 2, multiplier 0.5.
	eq, err = a.Equivalent(c)
	require.NoError(t, err)
	assert.False(t, eq)
}
