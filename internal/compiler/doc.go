// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package compiler flattens a built model into indexed numeric vectors and a
// vectorized right-hand-side function for an ODE solver.
//
// Only entities reached from some reaction are compiled. Every reference
// chain is followed once and memoized:
//
//   - a chain of species ends in a state slot, the last species on it;
//     multipliers met on species hops scale the stoichiometry;
//   - every parameter on a chain gets its own entry; an entry that follows
//     another is derived and tracks its referent, scaled by the hop
//     multiplier, unless it is overridden itself.
//
// Indices are assigned in discovery order: reactions in tree order, their
// members in declaration order.
package compiler
