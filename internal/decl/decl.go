// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package decl

import (
	"fmt"

	"github.com/specialistvlad/biogrid/internal/entitypath"
	"github.com/specialistvlad/biogrid/internal/model"
)

// MemberKind tells which kind of entity a Member declares.
type MemberKind int

const (
	SpeciesMember MemberKind = iota + 1
	ParameterMember
	CompartmentMember
	GroupMember
	ReactionMember
)

func (k MemberKind) String() string {
	switch k {
	case SpeciesMember:
		return "species"
	case ParameterMember:
		return "parameter"
	case CompartmentMember:
		return "compartment"
	case GroupMember:
		return "group"
	case ReactionMember:
		return "reaction"
	default:
		return "unknown"
	}
}

// Model declares a container: its bases, merged first, and its own members.
type Model struct {
	Name   string
	Flavor model.Flavor
	Bases  []*model.Container
	// Overrides lists additional dotted names allowed to collide between
	// bases. Members marked Override are added automatically.
	Overrides []string
	Members   []Member
}

// Member declares one named entity of a Model.
type Member struct {
	Name     string
	Kind     MemberKind
	Override bool

	// Value is used by species and parameters.
	Value Expr
	// Body is used by compartments and groups. Its Name and Flavor are
	// ignored.
	Body *Model
	// Reaction is used by reactions.
	Reaction *Reaction
}

// Reaction declares a reaction: its own members, which usually reference
// entities of the enclosing scope, and the participants among them.
type Reaction struct {
	Law       model.RateLaw
	Members   []Member
	Reactants []model.Participant
	Products  []model.Participant
}

// Expr is a declared value: a literal, or a lexical reference to an entity
// by dotted path, optionally multiplied by a stoichiometric scale.
type Expr struct {
	Literal float64
	Path    entitypath.Path
	Scale   float64
	// Skip is the number of innermost scopes the lexical search passes over.
	Skip int
}

// Lit returns a literal expression.
func Lit(v float64) Expr { return Expr{Literal: v} }

// RefTo returns a lexical reference to the entity at the dotted path.
func RefTo(path string) Expr { return Expr{Path: entitypath.MustParse(path)} }

// Times returns e multiplied by f. It is only meaningful for references.
func (e Expr) Times(f float64) Expr {
	e.Scale = e.scale() * f
	return e
}

// Enclosing returns e with its lexical search starting one scope further out.
func (e Expr) Enclosing() Expr {
	e.Skip++
	return e
}

// IsLiteral reports whether e is a literal.
func (e Expr) IsLiteral() bool { return len(e.Path) == 0 }

func (e Expr) scale() float64 {
	if e.Scale == 0 {
		return 1
	}
	return e.Scale
}

func (e Expr) String() string {
	if e.IsLiteral() {
		return fmt.Sprintf("%g", e.Literal)
	}
	if e.Scale != 0 && e.Scale != 1 {
		return fmt.Sprintf("%g*%s", e.Scale, e.Path)
	}
	return e.Path.String()
}

// Species declares a species member.
func Species(name string, v Expr) Member {
	return Member{Name: name, Kind: SpeciesMember, Value: v}
}

// Parameter declares a parameter member.
func Parameter(name string, v Expr) Member {
	return Member{Name: name, Kind: ParameterMember, Value: v}
}

// Compartment declares a nested compartment.
func Compartment(name string, members ...Member) Member {
	return Member{Name: name, Kind: CompartmentMember, Body: &Model{Flavor: model.Compartment, Members: members}}
}

// Group declares a nested group.
func Group(name string, members ...Member) Member {
	return Member{Name: name, Kind: GroupMember, Body: &Model{Flavor: model.Group, Members: members}}
}

// ReactionOf declares a reaction member.
func ReactionOf(name string, r *Reaction) Member {
	return Member{Name: name, Kind: ReactionMember, Reaction: r}
}

// Overriding returns m marked as an explicit override of an inherited member.
func (m Member) Overriding() Member {
	m.Override = true
	return m
}

// overrides collects the dotted names of members marked Override, including
// those of nested bodies.
func (m *Model) overrides() []string {
	out := append([]string(nil), m.Overrides...)
	var walk func(prefix entitypath.Path, members []Member)
	walk = func(prefix entitypath.Path, members []Member) {
		for _, mem := range members {
			path := prefix.Append(mem.Name)
			if mem.Override {
				out = append(out, path.String())
			}
			if mem.Body != nil {
				walk(path, mem.Body.Members)
			}
		}
	}
	walk(nil, m.Members)
	return out
}
