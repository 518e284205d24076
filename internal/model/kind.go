// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// Kind is the kind of a leaf Content.
type Kind int

const (
	// Species is a state variable that can participate in reactions.
	Species Kind = iota + 1
	// Parameter is a constant or derived scalar.
	Parameter
)

func (k Kind) String() string {
	switch k {
	case Species:
		return "species"
	case Parameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// CanReference reports whether a content of kind k may take its value from a
// content of kind target. Parameters only follow parameters; species follow
// either kind.
func (k Kind) CanReference(target Kind) bool {
	switch k {
	case Parameter:
		return target == Parameter
	case Species:
		return target == Species || target == Parameter
	default:
		return false
	}
}

// Flavor is the flavor of a Container. Capabilities expand from Reaction to
// Group to Compartment.
type Flavor int

const (
	// Compartment may hold every kind of member, including compartments.
	Compartment Flavor = iota + 1
	// Group holds species, parameters, reactions and groups, but no compartments.
	Group
	// Reaction holds only species and parameters, which describe its
	// participants. Its members may reach one level up and no further.
	Reaction
)

func (f Flavor) String() string {
	switch f {
	case Compartment:
		return "compartment"
	case Group:
		return "group"
	case Reaction:
		return "reaction"
	default:
		return "unknown"
	}
}

// maxUp is the number of levels a member reference may walk up from a
// container of this flavor, or -1 when any ancestor is reachable.
func (f Flavor) maxUp() int {
	if f == Reaction {
		return 1
	}
	return -1
}

// accepts reports whether a container of flavor f may hold child.
func (f Flavor) accepts(child Node) bool {
	sub, isContainer := child.(*Container)
	if !isContainer {
		return true
	}
	switch f {
	case Compartment:
		return true
	case Group:
		return sub.flavor != Compartment
	default:
		return false
	}
}

// kindOf names the kind or flavor of a node, for error messages and
// collision checks.
func kindOf(n Node) string {
	switch v := n.(type) {
	case *Content:
		return v.kind.String()
	case *Container:
		return v.flavor.String()
	default:
		return "unknown"
	}
}
