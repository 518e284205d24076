// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Zero(t, g.Len())
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.HasNode("a"))

	g.AddNode("a") // Test idempotency
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, []string{"a"}, g.order)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		require.NoError(t, g.AddEdge("a", "b")) // b depends on a
		require.NoError(t, g.AddEdge("a", "b")) // duplicate edge is a no-op

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)

		dependents, err := g.Dependents("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		assert.ErrorContains(t, g.AddEdge("dne", "a"), "source node not found")
		assert.ErrorContains(t, g.AddEdge("a", "dne"), "destination node not found")
		assert.ErrorContains(t, g.AddEdge("a", "a"), "self-referential edge")

		_, err := g.Dependencies("dne")
		assert.Error(t, err)
		_, err = g.Dependents("dne")
		assert.Error(t, err)
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.NoError(t, New().DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c")) // Transitive edge
		require.NoError(t, g.AddEdge("c", "d"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))

		err := g.DetectCycles()
		require.Error(t, err)
		assert.ErrorContains(t, err, "cycle detected")

		var cycleErr *CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Equal(t, cycleErr.Path[0], cycleErr.Path[len(cycleErr.Path)-1])
		assert.Len(t, cycleErr.Path, 3)
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))

		g.AddNode("x")
		g.AddNode("y")
		g.AddNode("z")
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y"))

		var cycleErr *CycleError
		require.True(t, errors.As(g.DetectCycles(), &cycleErr))
		assert.Subset(t, cycleErr.Path, []string{"y", "z"})
		assert.NotContains(t, cycleErr.Path, "a")
	})
}

func TestTopologicalSort(t *testing.T) {
	g := New()
	// Inserted out of dependency order on purpose.
	for _, id := range []string{"extended", "base", "mixin", "leaf"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("base", "extended"))
	require.NoError(t, g.AddEdge("mixin", "extended"))
	require.NoError(t, g.AddEdge("extended", "leaf"))

	sorted, err := g.TopologicalSort()
	require.NoError(t, err)

	want := []string{"base", "mixin", "extended", "leaf"}
	if diff := cmp.Diff(want, sorted); diff != "" {
		t.Errorf("TopologicalSort() mismatch (-want +got):\n%s", diff)
	}
}
