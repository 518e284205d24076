// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// build runs fn against a fresh compartment builder and returns the sealed
// result.
func build(t *testing.T, name string, fn func(t *testing.T, b *Builder)) *Container {
	t.Helper()
	b := NewBuilder(Compartment, name)
	fn(t, b)
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

// literalAt resolves the member at the dotted path to its literal value.
func literalAt(t *testing.T, c *Container, path string) float64 {
	t.Helper()
	ref, err := c.LookupRef(mustPath(path))
	require.NoError(t, err)
	content, err := ref.Resolve(true)
	require.NoError(t, err)
	return content.Literal()
}
