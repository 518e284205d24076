// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package decl assembles models from data-driven declarations.
//
// A Model lists its bases and its own members in order. Assemble merges the
// bases, then applies the members one by one, resolving every reference by
// lexical lookup: the innermost declaration scope first, then outward. The
// nesting of declarations decides how many levels up the stored relative
// reference walks, so a declaration never computes that number itself.
package decl
