// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package dag is a small, generic directed graph keyed by string IDs. It is
// used wherever the application must prove that a set of declarations is
// acyclic and process them in dependency order: model files whose `extends`
// lists name other models, and value references between entities of a model
// tree.
//
// Node insertion order is remembered, so traversal results and reported
// cycles are deterministic for a given sequence of calls.
package dag
