// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package entitypath

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRegex matches a single member name. Dots are reserved as separators.
var nameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Path is a sequence of member names walked downward from some container.
// The zero value is the empty path, which denotes the container itself.
type Path []string

// ValidName reports whether name can be used as a member name.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// Parse creates a Path from its dotted string representation.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	segments := strings.Split(raw, ".")
	path := make(Path, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("path %q contains empty segment", raw)
		}
		if !ValidName(segment) {
			return nil, fmt.Errorf("invalid path segment %q in %q", segment, raw)
		}
		path = append(path, segment)
	}
	return path, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level declarations.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String serializes the Path into its canonical dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Equal reports whether both paths name the same members in the same order.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Append returns a new Path with names added at the end. The receiver is
// never modified.
func (p Path) Append(names ...string) Path {
	out := make(Path, 0, len(p)+len(names))
	out = append(out, p...)
	return append(out, names...)
}

// Join returns a new Path made of p followed by other.
func (p Path) Join(other Path) Path {
	return p.Append(other...)
}

// Parent returns the path without its last segment. The parent of an empty
// or single-segment path is the empty path.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return append(Path(nil), p[:len(p)-1]...)
}

// Base returns the last segment, or "" for the empty path.
func (p Path) Base() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// HasPrefix reports whether prefix is a leading sub-path of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// TrimPrefix returns p without the leading prefix, and whether the prefix
// was present.
func (p Path) TrimPrefix(prefix Path) (Path, bool) {
	if !p.HasPrefix(prefix) {
		return p, false
	}
	return append(Path(nil), p[len(prefix):]...), true
}
