// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package simulator integrates a compiled model over time with a fixed-step
// fourth order Runge-Kutta scheme.
//
// Values are resolved in layers. Values passed to a run win over the
// simulator's own defaults, which win over the defaults stored in the model.
package simulator
