// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package testutil holds shared helpers for integration tests.
package testutil
