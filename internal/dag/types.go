// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dag

import (
	"strings"
	"sync"
)

// Graph is a collection of nodes and their dependencies.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map and order slice.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order records node IDs in insertion order.
	order []string
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs).
type node struct {
	id string
	// deps holds the IDs this node depends on (predecessors), in edge order.
	deps []string
	// dependents holds the IDs depending on this node (successors), in edge order.
	dependents []string
}

// CycleError reports a dependency cycle. Path starts and ends with the same ID.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cycle detected: " + strings.Join(e.Path, " -> ")
}
