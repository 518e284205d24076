// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

/*
Package model defines the hierarchical component model: a tree of named
containers (compartments, groups and reactions) holding species and parameters,
together with the builder that assembles and merges such trees.

# Entities

A Content is an immutable leaf: a Species (state variable) or a Parameter. Its
value is either a non-negative literal or a RelativeReference to another
content's value. A Container is an interior node with an ordered, unique set of
named children and a back-link to its parent.

# References

Two pointer forms exist. A Reference is absolute: it names a member of one
concrete, already placed Container. A RelativeReference is relocatable: it walks
up a number of levels from the point of definition and then down a dotted path.
Only the relative form is ever stored in a tree, so a declaration copied into a
new ancestor chain (inheritance, extension, composition) still resolves as long
as the shape above it is preserved.

	ref, _ := model.Ref("A")              // absolute, transient
	rel, _ := ref.RelativeTo(inner)       // {Up: 1, Path: A}
	back, _ := rel.ResolveFrom(inner)     // same target as ref

# Building

Containers are only created through a Builder. A builder validates names,
references, kinds and scope on every insertion, merges inherited sources with
explicit override handling, and seals the finished tree. A sealed tree is never
mutated; extension always starts a new builder over a structured copy.
*/
package model
