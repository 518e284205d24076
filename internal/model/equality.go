// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"slices"
	"strings"
)

// Equal reports structural equality of the members of c and other: the same
// names holding equal values. It is sensitive to member names, but not to the
// containers' own names or instance identity, so an unmodified extension of a
// model is equal to its base while being a distinct instance.
func (c *Container) Equal(other *Container) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.flavor != other.flavor || len(c.names) != len(other.names) {
		return false
	}
	if c.flavor == Reaction {
		if !participantsEqual(c.reactants, other.reactants) ||
			!participantsEqual(c.products, other.products) ||
			lawName(c.law) != lawName(other.law) {
			return false
		}
	}
	for name, n := range c.children {
		m, ok := other.children[name]
		if !ok {
			return false
		}
		switch v := n.(type) {
		case *Content:
			w, ok := m.(*Content)
			if !ok || !v.Equal(w) {
				return false
			}
		case *Container:
			w, ok := m.(*Container)
			if !ok || !v.Equal(w) {
				return false
			}
		}
	}
	return true
}

// Equivalent reports whether c and other hold the same resolved values in the
// same structure, ignoring member names. Two models differing only in how
// their members are called are equivalent but not Equal.
func (c *Container) Equivalent(other *Container) (bool, error) {
	a, err := c.signature()
	if err != nil {
		return false, err
	}
	b, err := other.signature()
	if err != nil {
		return false, err
	}
	return a == b, nil
}

// signature renders a name-free canonical description of c.
func (c *Container) signature() (string, error) {
	parts := make([]string, 0, len(c.names))
	for _, name := range c.names {
		switch v := c.children[name].(type) {
		case *Content:
			ref := Reference{Parent: c, Name: name, Kind: v.kind, Stoichiometry: 1}
			terminal, st, err := ref.Terminal()
			if err != nil {
				return "", err
			}
			end, err := terminal.content()
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s=%g*%g", v.kind, st, end.literal))
		case *Container:
			sub, err := v.signature()
			if err != nil {
				return "", err
			}
			parts = append(parts, sub)
		}
	}
	slices.Sort(parts)

	var sb strings.Builder
	sb.WriteString(c.flavor.String())
	sb.WriteString("{")
	sb.WriteString(strings.Join(parts, ","))
	sb.WriteString("}")
	if c.flavor == Reaction {
		fmt.Fprintf(&sb, "[%s %d->%d]", lawName(c.law), len(c.reactants), len(c.products))
	}
	return sb.String(), nil
}
