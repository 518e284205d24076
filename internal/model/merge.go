// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/biogrid/internal/entitypath"
)

// Collisions lists the dotted member paths that disagree across merge
// sources.
type Collisions struct {
	// Type holds names whose kind or flavor differs. These are always fatal.
	Type []string
	// Value holds names of equal kind but different value that are not
	// covered by an override.
	Value []string
}

// Empty reports whether no collision was found.
func (c Collisions) Empty() bool { return len(c.Type) == 0 && len(c.Value) == 0 }

// Err converts the collisions into a TypeCollisionError or
// ValueCollisionError, type collisions taking precedence.
func (c Collisions) Err() error {
	switch {
	case len(c.Type) > 0:
		return &TypeCollisionError{Names: slices.Clone(c.Type)}
	case len(c.Value) > 0:
		return &ValueCollisionError{Names: slices.Clone(c.Value)}
	}
	return nil
}

// FindCollisions compares the members of all sources at once. Names listed in
// overrides (dotted paths from the source roots) are exempt from value
// collisions, and so is everything below an overridden sub-container. Type
// collisions are reported at any depth.
func FindCollisions(sources []*Container, overrides []string) Collisions {
	points := make([]mergePoint, len(sources))
	for i, s := range sources {
		points[i] = mergePoint{top: s, at: s}
	}
	var out Collisions
	findCollisions(nil, points, overrideSet(overrides), false, &out)
	return out
}

// MergeSources merges built containers into a new sealed container. Sources
// are applied in order; an overridden collision resolves to the value of the
// last source naming it.
func MergeSources(name string, flavor Flavor, sources []*Container, overrides []string) (*Container, error) {
	b := NewBuilder(flavor, name)
	if err := b.Update(overrides, sources...); err != nil {
		return nil, err
	}
	clear(b.pending)
	return b.Build()
}

// Update merges the members of sources into the container under
// construction. Collisions are computed across the current contents and all
// sources at once. Overridden names whose values differ take the value of the
// last source and must then be given an explicit value through Replace,
// ReplaceContent, ReplaceReaction or Open before Build. The same holds for
// differing members nested in an overridden sub-container, each under its
// own dotted path.
//
// Collision and flavor errors leave the builder untouched; a failure while
// merging leaves it spent.
func (b *Builder) Update(overrides []string, sources ...*Container) error {
	if err := b.check(); err != nil {
		return err
	}
	if b.c.flavor == Reaction {
		return &KindMismatchError{Name: b.c.Label(), Want: "compartment or group", Got: b.c.flavor.String()}
	}
	for _, s := range sources {
		if s == nil {
			return fmt.Errorf("update %s: nil source", b.c.Label())
		}
		if s.flavor != b.c.flavor && !(b.c.flavor == Compartment && s.flavor == Group) {
			return &KindMismatchError{Name: s.Label(), Want: b.c.flavor.String(), Got: s.flavor.String()}
		}
	}

	set := overrideSet(overrides)
	points := make([]mergePoint, 0, len(sources)+1)
	if b.c.Len() > 0 {
		points = append(points, mergePoint{top: b.c, at: b.c})
	}
	for _, s := range sources {
		points = append(points, mergePoint{top: s, at: s})
	}
	var col Collisions
	findCollisions(nil, points, set, false, &col)
	if err := col.Err(); err != nil {
		return err
	}

	for _, s := range sources {
		dst := mergePoint{top: b.c, at: b.c}
		if err := b.absorb(dst, mergePoint{top: s, at: s}, nil, set, false); err != nil {
			b.root.markSpent()
			return fmt.Errorf("update %s from %s: %w", b.c.Label(), s.Label(), err)
		}
	}
	if err := validate(b.c); err != nil {
		b.root.markSpent()
		return err
	}
	return nil
}

// mergePoint is a container position inside one merge source. top is the
// source root the merge started from; at is the container being compared.
type mergePoint struct {
	top *Container
	at  *Container
}

func (p mergePoint) sub(name string) (mergePoint, bool) {
	sub, ok := p.at.children[name].(*Container)
	if !ok {
		return mergePoint{}, false
	}
	return mergePoint{top: p.top, at: sub}, true
}

func overrideSet(overrides []string) map[string]bool {
	set := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		set[o] = true
	}
	return set
}

// findCollisions compares the members at points. Below an overridden
// container, covered is set and only type collisions are reported.
func findCollisions(prefix entitypath.Path, points []mergePoint, overrides map[string]bool, covered bool, out *Collisions) {
	var order []string
	seen := make(map[string]bool)
	for _, p := range points {
		for _, name := range p.at.names {
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
	}

	for _, name := range order {
		var holders []mergePoint
		for _, p := range points {
			if _, ok := p.at.children[name]; ok {
				holders = append(holders, p)
			}
		}
		if len(holders) < 2 {
			continue
		}
		path := prefix.Append(name)
		key := path.String()
		first := holders[0].at.children[name]

		sameKind := true
		for _, h := range holders[1:] {
			if kindOf(h.at.children[name]) != kindOf(first) {
				sameKind = false
				break
			}
		}
		if !sameKind {
			out.Type = append(out.Type, key)
			continue
		}
		overridden := covered || overrides[key]

		switch v := first.(type) {
		case *Content:
			want := valueKeyOf(holders[0], name, v)
			for _, h := range holders[1:] {
				if valueKeyOf(h, name, h.at.children[name].(*Content)) != want && !overridden {
					out.Value = append(out.Value, key)
					break
				}
			}
		case *Container:
			if v.flavor == Reaction {
				if overridden {
					continue
				}
				for _, h := range holders[1:] {
					if !v.Equal(h.at.children[name].(*Container)) {
						out.Value = append(out.Value, key)
						break
					}
				}
				continue
			}
			subs := make([]mergePoint, 0, len(holders))
			for _, h := range holders {
				sp, _ := h.sub(name)
				subs = append(subs, sp)
			}
			findCollisions(path, subs, overrides, overridden, out)
		}
	}
}

// valueKey identifies a content value for merge comparison. Linked values
// are keyed by their fully resolved target, expressed relative to the
// source root, so that the same entity reached through different relative
// encodings compares equal.
type valueKey struct {
	linked  bool
	literal float64
	up      int
	path    string
	kind    Kind
	st      float64
}

func valueKeyOf(p mergePoint, name string, c *Content) valueKey {
	rel, linked := c.Relative()
	if !linked {
		return valueKey{kind: c.kind, literal: c.literal}
	}
	key := valueKey{linked: true, kind: c.kind, st: rel.stoichiometry()}
	target, err := rel.ResolveFrom(p.at)
	if err == nil {
		if fromTop, err := target.RelativeTo(p.top); err == nil {
			key.up = fromTop.Up
			key.path = fromTop.Path.String()
			return key
		}
	}
	// Unresolvable in this source: compare the stored encoding from the
	// member's own position.
	key.up = -1 - rel.Up
	key.path = p.at.Path().String() + ":" + rel.Path.String() + ":" + name
	return key
}

// absorb copies the members of src into dst. Collisions were checked
// beforehand, so members present on both sides are either equal or covered
// by an override, directly or through an overridden container above them.
func (b *Builder) absorb(dst, src mergePoint, prefix entitypath.Path, overrides map[string]bool, covered bool) error {
	for _, name := range src.at.names {
		n := src.at.children[name]
		path := prefix.Append(name)
		existing, ok := dst.at.children[name]
		if !ok {
			if err := dst.at.insert(name, cloneNode(n)); err != nil {
				return err
			}
			continue
		}
		explicit := overrides[path.String()]
		overridden := covered || explicit

		switch v := n.(type) {
		case *Content:
			if !overridden {
				continue
			}
			if valueKeyOf(dst, name, existing.(*Content)) != valueKeyOf(src, name, v) {
				if err := dst.at.set(name, v.clone()); err != nil {
					return err
				}
				b.markPending(path)
			}
		case *Container:
			ex := existing.(*Container)
			if v.flavor == Reaction {
				if overridden && !ex.Equal(v) {
					if err := dst.at.set(name, v.clone()); err != nil {
						return err
					}
					b.markPending(path)
				}
				continue
			}
			if explicit && !ex.Equal(v) {
				b.markPending(path)
			}
			dsub, _ := dst.sub(name)
			ssub, _ := src.sub(name)
			if err := b.absorb(dsub, ssub, path, overrides, overridden); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) markPending(path entitypath.Path) {
	b.root.pending[b.prefix.Join(path).String()] = struct{}{}
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case *Content:
		return v.clone()
	case *Container:
		return v.clone()
	}
	return n
}
