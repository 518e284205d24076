// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flat builds a single-level model from literal species.
func flat(t *testing.T, name string, species map[string]float64, order ...string) *Container {
	t.Helper()
	return build(t, name, func(t *testing.T, b *Builder) {
		for _, n := range order {
			_, err := b.AddSpecies(n, Literal(species[n]))
			require.NoError(t, err)
		}
	})
}

func nested(t *testing.T, name string, x float64) *Container {
	t.Helper()
	return build(t, name, func(t *testing.T, b *Builder) {
		inner, err := b.AddCompartment("inner")
		require.NoError(t, err)
		_, err = inner.AddSpecies("X", Literal(x))
		require.NoError(t, err)
	})
}

func nestedParameter(t *testing.T, name string) *Container {
	t.Helper()
	return build(t, name, func(t *testing.T, b *Builder) {
		inner, err := b.AddCompartment("inner")
		require.NoError(t, err)
		_, err = inner.AddParameter("X", Literal(1))
		require.NoError(t, err)
	})
}

func TestFindCollisions(t *testing.T) {
	t.Parallel()

	m1 := flat(t, "m1", map[string]float64{"A": 1, "B": 1}, "A", "B")
	m2 := flat(t, "m2", map[string]float64{"A": 1, "B": 2}, "A", "B")
	p := build(t, "p", func(t *testing.T, b *Builder) {
		_, err := b.AddParameter("A", Literal(1))
		require.NoError(t, err)
	})

	testCases := []struct {
		name      string
		sources   []*Container
		overrides []string
		expected  Collisions
	}{
		{name: "disjoint", sources: []*Container{flat(t, "x", map[string]float64{"X": 1}, "X"), m1}},
		{name: "equal values unify", sources: []*Container{m1, m1}},
		{name: "value collision", sources: []*Container{m1, m2}, expected: Collisions{Value: []string{"B"}}},
		{name: "override silences value collision", sources: []*Container{m1, m2}, overrides: []string{"B"}},
		{name: "unused override is inert", sources: []*Container{m1, m1}, overrides: []string{"Q"}},
		{name: "type collision ignores overrides", sources: []*Container{m1, p}, overrides: []string{"A"}, expected: Collisions{Type: []string{"A"}}},
		{name: "nested collision", sources: []*Container{nested(t, "n1", 1), nested(t, "n2", 2)}, expected: Collisions{Value: []string{"inner.X"}}},
		{name: "nested override", sources: []*Container{nested(t, "n1", 1), nested(t, "n2", 2)}, overrides: []string{"inner.X"}},
		{name: "overridden container covers nested values", sources: []*Container{nested(t, "n1", 1), nested(t, "n2", 2)}, overrides: []string{"inner"}},
		{name: "overridden container still reports nested kinds", sources: []*Container{nested(t, "n1", 1), nestedParameter(t, "n3")}, overrides: []string{"inner"}, expected: Collisions{Type: []string{"inner.X"}}},
		{name: "three sources at once", sources: []*Container{m1, m1, m2}, expected: Collisions{Value: []string{"B"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FindCollisions(tc.sources, tc.overrides)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("collisions mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tc.expected.Empty(), got.Empty())
		})
	}
}

func TestMergeSources(t *testing.T) {
	t.Parallel()

	m1 := flat(t, "m1", map[string]float64{"A": 1, "B": 1}, "A", "B")
	m2 := flat(t, "m2", map[string]float64{"B": 2, "C": 3}, "B", "C")

	t.Run("non-colliding merge keeps source order", func(t *testing.T) {
		m3 := flat(t, "m3", map[string]float64{"C": 3}, "C")
		merged, err := MergeSources("merged", Compartment, []*Container{m1, m3}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, merged.Names())
		assert.True(t, merged.Sealed())
	})

	t.Run("collision without override fails", func(t *testing.T) {
		_, err := MergeSources("merged", Compartment, []*Container{m1, m2}, nil)
		var collision *ValueCollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, []string{"B"}, collision.Names)
	})

	t.Run("override resolves to the last source", func(t *testing.T) {
		merged, err := MergeSources("merged", Compartment, []*Container{m1, m2}, []string{"B"})
		require.NoError(t, err)
		assert.Equal(t, 2.0, literalAt(t, merged, "B"))
		assert.Equal(t, 1.0, literalAt(t, merged, "A"))
		assert.Equal(t, 3.0, literalAt(t, merged, "C"))
	})

	t.Run("sources are not modified", func(t *testing.T) {
		_, err := MergeSources("merged", Compartment, []*Container{m1, m2}, []string{"B"})
		require.NoError(t, err)
		assert.Equal(t, 1.0, literalAt(t, m1, "B"))
		assert.Equal(t, 2, m1.Len())
	})
}

func TestUpdate_PendingOverrides(t *testing.T) {
	t.Parallel()

	m1 := flat(t, "m1", map[string]float64{"A": 1}, "A")
	m2 := flat(t, "m2", map[string]float64{"A": 2}, "A")

	t.Run("override without a final value fails at build", func(t *testing.T) {
		b := NewBuilder(Compartment, "m")
		require.NoError(t, b.Update([]string{"A"}, m1, m2))
		_, err := b.Build()
		var collision *ValueCollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, []string{"A"}, collision.Names)
	})

	t.Run("replace supplies the final value", func(t *testing.T) {
		b := NewBuilder(Compartment, "m")
		require.NoError(t, b.Update([]string{"A"}, m1, m2))
		_, err := b.ReplaceContent("A", Species, Literal(7))
		require.NoError(t, err)
		c, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, 7.0, literalAt(t, c, "A"))
	})

	t.Run("equal values need no final value", func(t *testing.T) {
		b := NewBuilder(Compartment, "m")
		require.NoError(t, b.Update([]string{"A"}, m1, m1))
		_, err := b.Build()
		require.NoError(t, err)
	})

	t.Run("overridden nested container is opened", func(t *testing.T) {
		n1 := nested(t, "n1", 1)
		n2 := build(t, "n2", func(t *testing.T, b *Builder) {
			inner, err := b.AddCompartment("inner")
			require.NoError(t, err)
			_, err = inner.AddSpecies("X", Literal(1))
			require.NoError(t, err)
			_, err = inner.AddSpecies("Y", Literal(4))
			require.NoError(t, err)
		})

		b := NewBuilder(Compartment, "m")
		require.NoError(t, b.Update([]string{"inner"}, n1, n2))
		_, err := b.Build()
		require.Error(t, err)

		b = NewBuilder(Compartment, "m")
		require.NoError(t, b.Update([]string{"inner"}, n1, n2))
		inner, err := b.Open("inner")
		require.NoError(t, err)
		_, err = inner.ReplaceContent("Y", Species, Literal(5))
		require.NoError(t, err)
		c, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, 5.0, literalAt(t, c, "inner.Y"))
		assert.Equal(t, 1.0, literalAt(t, c, "inner.X"))
	})

	t.Run("differing members of an overridden container stay pending", func(t *testing.T) {
		n1 := nested(t, "n1", 1)
		n2 := nested(t, "n2", 2)

		b := NewBuilder(Compartment, "m")
		require.NoError(t, b.Update([]string{"inner"}, n1, n2))
		inner, err := b.Open("inner")
		require.NoError(t, err)
		_, err = inner.AddSpecies("Y", Literal(5))
		require.NoError(t, err)
		_, err = b.Build()
		var collision *ValueCollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, []string{"inner.X"}, collision.Names)

		b = NewBuilder(Compartment, "m")
		require.NoError(t, b.Update([]string{"inner"}, n1, n2))
		inner, err = b.Open("inner")
		require.NoError(t, err)
		_, err = inner.ReplaceContent("X", Species, Literal(3))
		require.NoError(t, err)
		c, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, 3.0, literalAt(t, c, "inner.X"))
	})

	t.Run("merging sources takes nested values from the last source", func(t *testing.T) {
		merged, err := MergeSources("merged", Compartment, []*Container{nested(t, "n1", 1), nested(t, "n2", 2)}, []string{"inner"})
		require.NoError(t, err)
		assert.Equal(t, 2.0, literalAt(t, merged, "inner.X"))
	})

	t.Run("type collision is always fatal", func(t *testing.T) {
		p := build(t, "p", func(t *testing.T, b *Builder) {
			_, err := b.AddParameter("A", Literal(1))
			require.NoError(t, err)
		})
		b := NewBuilder(Compartment, "m")
		err := b.Update([]string{"A"}, m1, p)
		var collision *TypeCollisionError
		require.ErrorAs(t, err, &collision)
	})
}

func TestUpdate_ReferencesCompareByTarget(t *testing.T) {
	t.Parallel()

	// Both sources define inner.B as following the top-level A. The relative
	// encoding is identical here, and the resolved targets agree as well.
	source := func(name string, a float64) *Container {
		return build(t, name, func(t *testing.T, b *Builder) {
			aref, err := b.AddSpecies("A", Literal(a))
			require.NoError(t, err)
			inner, err := b.AddCompartment("inner")
			require.NoError(t, err)
			_, err = inner.AddSpecies("B", Ref(aref.Scale(2)))
			require.NoError(t, err)
		})
	}

	col := FindCollisions([]*Container{source("s1", 1), source("s2", 1)}, nil)
	assert.True(t, col.Empty())

	// Same target, different stoichiometry.
	other := build(t, "s3", func(t *testing.T, b *Builder) {
		aref, err := b.AddSpecies("A", Literal(1))
		require.NoError(t, err)
		inner, err := b.AddCompartment("inner")
		require.NoError(t, err)
		_, err = inner.AddSpecies("B", Ref(aref))
		require.NoError(t, err)
	})
	col = FindCollisions([]*Container{source("s1", 1), other}, nil)
	assert.Equal(t, []string{"inner.B"}, col.Value)

	merged, err := MergeSources("m", Compartment, []*Container{source("s1", 1), source("s2", 1)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, literalAt(t, merged, "inner.B"))
}

func TestUpdate_FlavorCompatibility(t *testing.T) {
	t.Parallel()

	group := NewBuilder(Group, "g")
	_, err := group.AddSpecies("A", Literal(1))
	require.NoError(t, err)
	g, err := group.Build()
	require.NoError(t, err)

	b := NewBuilder(Compartment, "c")
	require.NoError(t, b.Update(nil, g))

	comp := flat(t, "c", map[string]float64{"A": 1}, "A")
	gb := NewBuilder(Group, "g2")
	var mismatch *KindMismatchError
	require.ErrorAs(t, gb.Update(nil, comp), &mismatch)
}

func TestUpdate_FailureSpendsBuilder(t *testing.T) {
	t.Parallel()

	// A source holding a dangling reference cannot be merged.
	src := newContainer(Compartment, "bad")
	require.NoError(t, src.insert("X", NewLinked(Species, RelativeReference{Path: mustPath("missing"), Kind: Species, Stoichiometry: 1})))

	b := NewBuilder(Compartment, "m")
	_, err := b.AddSpecies("A", Literal(1))
	require.NoError(t, err)
	require.Error(t, b.Update(nil, src))

	_, err = b.AddSpecies("B", Literal(1))
	require.ErrorIs(t, err, ErrBuilderSpent)
	_, err = b.Build()
	require.ErrorIs(t, err, ErrBuilderSpent)
}

func TestUpdate_CollisionLeavesBuilderUsable(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Compartment, "m")
	err := b.Update(nil,
		flat(t, "m1", map[string]float64{"A": 1}, "A"),
		flat(t, "m2", map[string]float64{"A": 2}, "A"))
	var collision *ValueCollisionError
	require.ErrorAs(t, err, &collision)

	_, err = b.AddSpecies("B", Literal(1))
	require.NoError(t, err)
	_, err = b.Build()
	require.NoError(t, err)
}
