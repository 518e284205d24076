// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package compiler

import "fmt"

// UnknownOverrideError reports a value override for an entity that is not
// part of the compiled model.
type UnknownOverrideError struct {
	Path string
}

func (e *UnknownOverrideError) Error() string {
	return fmt.Sprintf("override for %q: not an entity of the compiled model", e.Path)
}
