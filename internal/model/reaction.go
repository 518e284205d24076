// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"gonum.org/v1/gonum/floats"
)

// Participant names a species member of a reaction taking part as reactant
// or product, with its own stoichiometric multiplier. The effective
// stoichiometry also includes the multipliers along the member's reference
// chain.
type Participant struct {
	Name          string
	Stoichiometry float64
}

// RateLaw computes a reaction rate. Reactants arrive already raised to their
// stoichiometric power, in reactant order; parameters arrive in member order.
type RateLaw interface {
	Name() string
	Rate(t float64, reactants, parameters []float64) float64
}

// MassAction is the law of mass action: the product of all parameters and
// all (powered) reactant masses.
type MassAction struct{}

// Name implements RateLaw.
func (MassAction) Name() string { return "mass_action" }

// Rate implements RateLaw.
func (MassAction) Rate(_ float64, reactants, parameters []float64) float64 {
	return floats.Prod(parameters) * floats.Prod(reactants)
}

// RateFunc adapts a plain function into a named RateLaw.
type RateFunc struct {
	Label string
	Fn    func(t float64, reactants, parameters []float64) float64
}

// Name implements RateLaw.
func (f RateFunc) Name() string { return f.Label }

// Rate implements RateLaw.
func (f RateFunc) Rate(t float64, reactants, parameters []float64) float64 {
	return f.Fn(t, reactants, parameters)
}

// ReactionSpec describes a reaction to be added by Builder.AddReaction. Member
// values may be absolute references into the enclosing tree; they are made
// relative once the reaction is placed.
type ReactionSpec struct {
	members   []specMember
	reactants []Participant
	products  []Participant
	law       RateLaw
}

type specMember struct {
	name  string
	kind  Kind
	value Value
}

// NewReaction starts a reaction description. A nil law means MassAction.
func NewReaction(law RateLaw) *ReactionSpec {
	if law == nil {
		law = MassAction{}
	}
	return &ReactionSpec{law: law}
}

// Species declares a species member.
func (s *ReactionSpec) Species(name string, v Value) *ReactionSpec {
	s.members = append(s.members, specMember{name: name, kind: Species, value: v})
	return s
}

// Parameter declares a parameter member. Parameters reach the rate law in
// declaration order.
func (s *ReactionSpec) Parameter(name string, v Value) *ReactionSpec {
	s.members = append(s.members, specMember{name: name, kind: Parameter, value: v})
	return s
}

// Reactant lists a species member as reactant.
func (s *ReactionSpec) Reactant(name string, stoichiometry float64) *ReactionSpec {
	s.reactants = append(s.reactants, Participant{Name: name, Stoichiometry: stoichiometry})
	return s
}

// Product lists a species member as product.
func (s *ReactionSpec) Product(name string, stoichiometry float64) *ReactionSpec {
	s.products = append(s.products, Participant{Name: name, Stoichiometry: stoichiometry})
	return s
}

// HasMember reports whether a member called name was declared.
func (s *ReactionSpec) HasMember(name string) bool {
	for _, m := range s.members {
		if m.name == name {
			return true
		}
	}
	return false
}

func participantsEqual(a, b []Participant) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lawName(l RateLaw) string {
	if l == nil {
		return ""
	}
	return l.Name()
}
