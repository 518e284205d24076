// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_ContentValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		act     func(b *Builder) error
		wantErr any
	}{
		{
			name: "duplicate name",
			act: func(b *Builder) error {
				_, err := b.AddSpecies("A", Literal(2))
				return err
			},
			wantErr: new(*NameCollisionError),
		},
		{
			name: "negative literal",
			act: func(b *Builder) error {
				_, err := b.AddSpecies("N", Literal(-1))
				return err
			},
			wantErr: new(*InvalidValueError),
		},
		{
			name: "NaN literal",
			act: func(b *Builder) error {
				_, err := b.AddParameter("n", Literal(math.NaN()))
				return err
			},
			wantErr: new(*InvalidValueError),
		},
		{
			name: "invalid name",
			act: func(b *Builder) error {
				_, err := b.AddSpecies("1A", Literal(1))
				return err
			},
			wantErr: new(*InvalidNameError),
		},
		{
			name: "parameter following a species",
			act: func(b *Builder) error {
				a, err := b.Ref("A")
				if err != nil {
					return err
				}
				_, err = b.AddParameter("p", Ref(a))
				return err
			},
			wantErr: new(*KindMismatchError),
		},
		{
			name: "non-positive stoichiometry",
			act: func(b *Builder) error {
				a, err := b.Ref("A")
				if err != nil {
					return err
				}
				_, err = b.AddSpecies("B", Ref(a.Scale(-2)))
				return err
			},
			wantErr: new(*InvalidValueError),
		},
		{
			name: "replace of a missing name",
			act: func(b *Builder) error {
				_, err := b.ReplaceContent("missing", Species, Literal(1))
				return err
			},
			wantErr: new(*UnknownEntityError),
		},
		{
			name: "replace with another kind",
			act: func(b *Builder) error {
				_, err := b.ReplaceContent("k", Species, Literal(1))
				return err
			},
			wantErr: new(*KindMismatchError),
		},
		{
			name: "replace a content with a container",
			act: func(b *Builder) error {
				return b.Replace("A", newContainer(Group, "A"))
			},
			wantErr: new(*KindMismatchError),
		},
		{
			name: "relative reference to a missing member",
			act: func(b *Builder) error {
				_, err := b.AddSpecies("B", Rel(RelativeReference{Path: mustPath("nope")}))
				return err
			},
			wantErr: new(*UnknownEntityError),
		},
		{
			name: "reference into another tree",
			act: func(b *Builder) error {
				other := NewBuilder(Compartment, "other")
				x, err := other.AddSpecies("X", Literal(1))
				if err != nil {
					return err
				}
				_, err = b.AddSpecies("B", Ref(x))
				return err
			},
			wantErr: new(*ForeignReferenceError),
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b := NewBuilder(Compartment, "m")
			_, err := b.AddSpecies("A", Literal(1))
			require.NoError(t, err)
			_, err = b.AddParameter("k", Literal(1))
			require.NoError(t, err)

			err = tc.act(b)
			require.Error(t, err)
			require.ErrorAs(t, err, tc.wantErr)
		})
	}
}

func TestBuilder_ReplaceRejectsCycles(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Compartment, "m")
	_, err := b.AddSpecies("A", Literal(1))
	require.NoError(t, err)
	bref, err := b.AddSpecies("B", Rel(RelativeReference{Path: mustPath("A")}))
	require.NoError(t, err)

	_, err = b.ReplaceContent("A", Species, Ref(bref))
	var cyclic *CyclicReferenceError
	require.ErrorAs(t, err, &cyclic)

	// The failed replacement is rolled back.
	c, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1.0, literalAt(t, c, "B"))
}

func TestBuilder_ReactionScope(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Compartment, "cell")
	a, err := b.AddSpecies("A", Literal(1))
	require.NoError(t, err)
	inner, err := b.AddCompartment("inner")
	require.NoError(t, err)
	x, err := inner.AddSpecies("X", Literal(1))
	require.NoError(t, err)

	err = inner.AddReaction("far", NewReaction(nil).Species("A", Ref(a)).Reactant("A", 1))
	var scopeErr *ScopeError
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, 2, scopeErr.Up)
	assert.Equal(t, 1, scopeErr.Limit)

	_, exists := inner.Scope().Child("far")
	assert.False(t, exists, "failed reaction must not be inserted")

	require.NoError(t, inner.AddReaction("near", NewReaction(nil).Species("X", Ref(x)).Reactant("X", 1)))
	_, err = b.Build()
	require.NoError(t, err)
}

func TestBuilder_ReactionParticipants(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Compartment, "m")
	a, err := b.AddSpecies("A", Literal(1))
	require.NoError(t, err)
	k, err := b.AddParameter("k", Literal(1))
	require.NoError(t, err)

	err = b.AddReaction("r1", NewReaction(nil).Species("A", Ref(a)).Reactant("B", 1))
	var unknown *UnknownEntityError
	require.ErrorAs(t, err, &unknown)

	err = b.AddReaction("r2", NewReaction(nil).Parameter("k", Ref(k)).Reactant("k", 1))
	var mismatch *KindMismatchError
	require.ErrorAs(t, err, &mismatch)

	err = b.AddReaction("r3", NewReaction(nil).Species("A", Ref(a)).Reactant("A", 0))
	var invalid *InvalidValueError
	require.ErrorAs(t, err, &invalid)

	require.NoError(t, b.AddReaction("decay", NewReaction(nil).
		Species("A", Ref(a)).
		Parameter("k", Ref(k)).
		Reactant("A", 1)))

	c, err := b.Build()
	require.NoError(t, err)
	r, err := c.Sub("decay")
	require.NoError(t, err)
	assert.Equal(t, Reaction, r.Flavor())
	assert.Equal(t, []Participant{{Name: "A", Stoichiometry: 1}}, r.Reactants())
	assert.Empty(t, r.Products())
	assert.Equal(t, "mass_action", r.RateLaw().Name())
}

func TestBuilder_GroupsCannotHoldCompartments(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Compartment, "m")
	g, err := b.AddGroup("g")
	require.NoError(t, err)
	_, err = g.AddGroup("nested")
	require.NoError(t, err)

	_, err = g.AddCompartment("c")
	var mismatch *KindMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestBuilder_Spent(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Compartment, "m")
	inner, err := b.AddCompartment("inner")
	require.NoError(t, err)
	c, err := b.Build()
	require.NoError(t, err)
	assert.True(t, c.Sealed())

	_, err = b.Build()
	require.ErrorIs(t, err, ErrBuilderSpent)
	_, err = b.AddSpecies("A", Literal(1))
	require.ErrorIs(t, err, ErrBuilderSpent)
	_, err = inner.AddSpecies("A", Literal(1))
	require.ErrorIs(t, err, ErrBuilderSpent)

	sub, err := c.Sub("inner")
	require.NoError(t, err)
	assert.True(t, sub.Sealed())
}

func TestBuilder_ExtendLeavesBaseUntouched(t *testing.T) {
	t.Parallel()

	base := build(t, "Base", func(t *testing.T, b *Builder) {
		_, err := b.AddSpecies("A", Literal(1))
		require.NoError(t, err)
		inner, err := b.AddCompartment("inner")
		require.NoError(t, err)
		_, err = inner.AddSpecies("B", Rel(RelativeReference{Path: mustPath("A"), Up: 1}))
		require.NoError(t, err)
	})

	b, err := Extend(base)
	require.NoError(t, err)
	_, err = b.ReplaceContent("A", Species, Literal(5))
	require.NoError(t, err)
	inner, err := b.Open("inner")
	require.NoError(t, err)
	_, err = inner.AddSpecies("C", Literal(2))
	require.NoError(t, err)
	derived, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 5.0, literalAt(t, derived, "inner.B"), "relocated reference follows the new tree")
	assert.Equal(t, 1.0, literalAt(t, base, "inner.B"))
	baseInner, err := base.Sub("inner")
	require.NoError(t, err)
	assert.Equal(t, 1, baseInner.Len())
	assert.False(t, base.Equal(derived))
}

func TestBuilder_AddComposesCopies(t *testing.T) {
	t.Parallel()

	part := build(t, "part", func(t *testing.T, b *Builder) {
		_, err := b.AddSpecies("X", Literal(3))
		require.NoError(t, err)
		_, err = b.AddSpecies("Y", Rel(RelativeReference{Path: mustPath("X")}))
		require.NoError(t, err)
	})

	c := build(t, "whole", func(t *testing.T, b *Builder) {
		require.NoError(t, b.Add("left", part))
		require.NoError(t, b.Add("right", part))
		var collision *NameCollisionError
		require.ErrorAs(t, b.Add("left", part), &collision)
	})

	assert.Equal(t, 3.0, literalAt(t, c, "left.Y"))
	assert.Equal(t, 3.0, literalAt(t, c, "right.Y"))
	left, err := c.Sub("left")
	require.NoError(t, err)
	right, err := c.Sub("right")
	require.NoError(t, err)
	assert.NotSame(t, left, right)
	assert.True(t, left.Equal(right))
	assert.Nil(t, part.Parent())
}
