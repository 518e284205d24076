// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"math"
)

// Node is a member of a Container: either a *Content or a *Container.
type Node interface {
	isNode()
}

// Content is an immutable leaf entity. Its identity is the name and position
// under which a Container holds it; the Content itself only carries a kind
// and a value.
type Content struct {
	kind    Kind
	literal float64
	ref     *RelativeReference
}

func (*Content) isNode() {}

// NewLiteral returns a content holding a literal value.
func NewLiteral(kind Kind, v float64) *Content {
	return &Content{kind: kind, literal: v}
}

// NewLinked returns a content whose value follows the referenced content.
func NewLinked(kind Kind, ref RelativeReference) *Content {
	return &Content{kind: kind, ref: &ref}
}

// Kind returns the content kind.
func (c *Content) Kind() Kind { return c.kind }

// IsLiteral reports whether the value is a literal number.
func (c *Content) IsLiteral() bool { return c.ref == nil }

// Literal returns the literal value. It is zero for linked contents.
func (c *Content) Literal() float64 { return c.literal }

// Relative returns the stored reference of a linked content.
func (c *Content) Relative() (RelativeReference, bool) {
	if c.ref == nil {
		return RelativeReference{}, false
	}
	return *c.ref, true
}

// Equal compares kind and stored value. References compare by their
// relative encoding, which is canonical for contents added by a Builder.
func (c *Content) Equal(other *Content) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.kind != other.kind {
		return false
	}
	if c.ref == nil || other.ref == nil {
		return c.ref == nil && other.ref == nil && c.literal == other.literal
	}
	return c.ref.Equal(*other.ref)
}

func (c *Content) String() string {
	if c.ref != nil {
		return fmt.Sprintf("%s(%s)", c.kind, c.ref)
	}
	return fmt.Sprintf("%s(%g)", c.kind, c.literal)
}

func (c *Content) clone() *Content {
	out := *c
	if c.ref != nil {
		ref := *c.ref
		ref.Path = ref.Path.Append()
		out.ref = &ref
	}
	return &out
}

// Value is the input form of a content value handed to a Builder: a literal,
// an absolute Reference, or a RelativeReference. The builder converts
// absolute references to the relative form before storing them.
type Value struct {
	literal float64
	abs     *Reference
	rel     *RelativeReference
}

// Literal returns a literal Value.
func Literal(v float64) Value {
	return Value{literal: v}
}

// Ref returns a Value linked to an absolute reference.
func Ref(r Reference) Value {
	return Value{abs: &r}
}

// Rel returns a Value linked through a relative reference.
func Rel(r RelativeReference) Value {
	return Value{rel: &r}
}

// IsLiteral reports whether v is a literal.
func (v Value) IsLiteral() bool { return v.abs == nil && v.rel == nil }

func (v Value) String() string {
	switch {
	case v.abs != nil:
		return v.abs.String()
	case v.rel != nil:
		return v.rel.String()
	default:
		return fmt.Sprintf("%g", v.literal)
	}
}

// checkLiteral validates a literal value for the named member.
func checkLiteral(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidValueError{Name: name, Value: v, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &InvalidValueError{Name: name, Value: v, Reason: "must not be negative"}
	}
	return nil
}

// checkStoichiometry validates a stoichiometric multiplier.
func checkStoichiometry(name string, st float64) error {
	if math.IsNaN(st) || math.IsInf(st, 0) || st <= 0 {
		return &InvalidValueError{Name: name, Value: st, Reason: "stoichiometry must be a positive real"}
	}
	return nil
}
