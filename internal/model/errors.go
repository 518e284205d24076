// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBuilderSpent is returned by any Builder method called after Build.
var ErrBuilderSpent = errors.New("builder already built; start a new builder to extend the container")

// NameCollisionError reports a duplicate name inserted without override.
type NameCollisionError struct {
	Container string
	Name      string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("name %q already exists in %s", e.Name, e.Container)
}

// KindMismatchError reports an entity whose kind differs from the one
// required: an override of a different kind, a reference to an incompatible
// kind, or a value override landing in the wrong vector.
type KindMismatchError struct {
	Name string
	Want string
	Got  string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("kind mismatch for %q: want %s, got %s", e.Name, e.Want, e.Got)
}

// TypeCollisionError reports names whose kinds disagree across merge sources.
type TypeCollisionError struct {
	Names []string
}

func (e *TypeCollisionError) Error() string {
	return "type collision between merged sources for: " + strings.Join(e.Names, ", ")
}

// ValueCollisionError reports names whose values disagree across merge
// sources without an override, or overrides that never received a value.
type ValueCollisionError struct {
	Names []string
}

func (e *ValueCollisionError) Error() string {
	return "value collision between merged sources for: " + strings.Join(e.Names, ", ")
}

// ScopeError reports a reference that walks further up than permitted.
type ScopeError struct {
	Name   string
	Up     int
	Limit  int
	Reason string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("reference %q walks %d level(s) up, limit is %d: %s", e.Name, e.Up, e.Limit, e.Reason)
}

// ForeignReferenceError reports a reference into an unrelated tree.
type ForeignReferenceError struct {
	Name   string
	Target string
}

func (e *ForeignReferenceError) Error() string {
	return fmt.Sprintf("reference %q targets %s, which shares no ancestor with it", e.Name, e.Target)
}

// CyclicReferenceError reports a chain of values that does not terminate in
// a literal.
type CyclicReferenceError struct {
	Path []string
}

func (e *CyclicReferenceError) Error() string {
	return "cyclic reference: " + strings.Join(e.Path, " -> ")
}

// UnknownEntityError reports a reference or lookup naming nothing.
type UnknownEntityError struct {
	Path string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("no entity at %q", e.Path)
}

// InvalidValueError reports a literal or stoichiometry outside its domain.
type InvalidValueError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v for %q: %s", e.Value, e.Name, e.Reason)
}

// InvalidNameError reports a member name that cannot be addressed by a path.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid member name %q", e.Name)
}
