// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

/*
Package entitypath provides a structured representation for the dotted member
paths used to address entities inside a model tree, e.g. `cell.nucleus.A`.

A path is relative to whichever container it is resolved from; the compiler
uses paths relative to the model root as the canonical entity labels, while
relative references store the downward leg of their lookup as a path.

This package centralizes the naming rules and all formatting and parsing logic.
*/
package entitypath
