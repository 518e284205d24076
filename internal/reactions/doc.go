// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package reactions provides a library of reaction templates.
//
// A template is a parameterized group: a set of species and parameter slots
// plus the reactions connecting them. Instantiating a template binds every
// slot to an expression of the enclosing scope and yields a group member
// ready for declarative assembly. Compound templates are built from simpler
// ones in the same way.
package reactions
