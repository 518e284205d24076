// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/biogrid/internal/dag"
	"github.com/specialistvlad/biogrid/internal/entitypath"
)

// Builder incrementally and safely constructs a Container. Every insertion is
// validated immediately; Build finalizes and seals the tree, after which the
// builder is spent.
//
// Builders for nested containers share the root builder's state, so pending
// overrides and the spent flag are tracked once per tree.
type Builder struct {
	c      *Container
	root   *Builder
	prefix entitypath.Path
	subs   map[string]*Builder
	spent  bool

	// pending holds overridden names whose sources disagreed and which
	// still need an explicit value. Only used on the root builder.
	pending map[string]struct{}
}

// NewBuilder starts an empty container of the given flavor.
func NewBuilder(flavor Flavor, name string) *Builder {
	b := &Builder{
		c:       newContainer(flavor, name),
		subs:    make(map[string]*Builder),
		pending: make(map[string]struct{}),
	}
	b.root = b
	return b
}

// Extend starts a builder seeded with a structured copy of base. The base
// itself is never modified.
func Extend(base *Container) (*Builder, error) {
	b := NewBuilder(base.flavor, base.name)
	if err := b.Update(nil, base); err != nil {
		return nil, err
	}
	return b, nil
}

// Scope returns the container under construction. It may be used to create
// references to members added so far; it must not be retained after Build.
func (b *Builder) Scope() *Container { return b.c }

// Ref returns a reference to a content member added so far.
func (b *Builder) Ref(name string) (Reference, error) { return b.c.Ref(name) }

func (b *Builder) check() error {
	if b.spent || b.root.spent {
		return ErrBuilderSpent
	}
	return nil
}

func (b *Builder) child(name string, c *Container) *Builder {
	return &Builder{
		c:      c,
		root:   b.root,
		prefix: b.prefix.Append(name),
		subs:   make(map[string]*Builder),
	}
}

// checkName validates a name for insertion (replace=false) or replacement
// (replace=true) of a node of the given kind.
func (b *Builder) checkName(name string, replace bool, n Node) error {
	if !entitypath.ValidName(name) {
		return &InvalidNameError{Name: name}
	}
	existing, exists := b.c.children[name]
	switch {
	case !replace && exists:
		return &NameCollisionError{Container: b.c.Label(), Name: name}
	case replace && !exists:
		return &UnknownEntityError{Path: b.c.memberLabel(name)}
	case replace && kindOf(existing) != kindOf(n):
		return &KindMismatchError{Name: b.c.memberLabel(name), Want: kindOf(existing), Got: kindOf(n)}
	}
	return nil
}

// AddSpecies inserts a new species and returns a reference to it.
func (b *Builder) AddSpecies(name string, v Value) (Reference, error) {
	return b.putContent(name, Species, v, false)
}

// AddParameter inserts a new parameter and returns a reference to it.
func (b *Builder) AddParameter(name string, v Value) (Reference, error) {
	return b.putContent(name, Parameter, v, false)
}

// AddContent inserts a new content of the given kind.
func (b *Builder) AddContent(name string, kind Kind, v Value) (Reference, error) {
	return b.putContent(name, kind, v, false)
}

// ReplaceContent changes the value of an existing content. The kind must
// match the existing entry exactly. This is the only way to change an
// inherited value.
func (b *Builder) ReplaceContent(name string, kind Kind, v Value) (Reference, error) {
	return b.putContent(name, kind, v, true)
}

func (b *Builder) putContent(name string, kind Kind, v Value, replace bool) (Reference, error) {
	if err := b.check(); err != nil {
		return Reference{}, err
	}
	if err := b.checkName(name, replace, &Content{kind: kind}); err != nil {
		return Reference{}, err
	}
	content, err := b.prepare(name, kind, v)
	if err != nil {
		return Reference{}, err
	}

	if !replace {
		if err := b.c.insert(name, content); err != nil {
			return Reference{}, err
		}
		return b.c.Ref(name)
	}

	old := b.c.children[name]
	if err := b.c.set(name, content); err != nil {
		return Reference{}, err
	}
	ref, _ := b.c.Ref(name)
	if _, _, err := ref.Terminal(); err != nil {
		_ = b.c.set(name, old)
		return Reference{}, err
	}
	b.resolvePending(name, false)
	return ref, nil
}

// prepare converts an input value into a stored content, validating the
// literal domain, kind compatibility, reachability and scope.
func (b *Builder) prepare(name string, kind Kind, v Value) (*Content, error) {
	var target Reference
	switch {
	case v.abs != nil:
		target = *v.abs
		if target.Parent == nil {
			return nil, &UnknownEntityError{Path: target.Name}
		}
		c, err := target.content()
		if err != nil {
			return nil, err
		}
		target.Kind = c.kind
	case v.rel != nil:
		ref, err := v.rel.ResolveFrom(b.c)
		if err != nil {
			return nil, err
		}
		target = ref
	default:
		if err := checkLiteral(b.c.memberLabel(name), v.literal); err != nil {
			return nil, err
		}
		return NewLiteral(kind, v.literal), nil
	}

	if err := checkStoichiometry(b.c.memberLabel(name), target.stoichiometry()); err != nil {
		return nil, err
	}
	if !kind.CanReference(target.Kind) {
		return nil, &KindMismatchError{
			Name: b.c.memberLabel(name),
			Want: "reference allowed for a " + kind.String(),
			Got:  target.Kind.String(),
		}
	}
	rel, err := target.RelativeTo(b.c)
	if err != nil {
		var foreign *ForeignReferenceError
		if errors.As(err, &foreign) {
			foreign.Name = b.c.memberLabel(name)
		}
		return nil, err
	}
	if limit := b.c.flavor.maxUp(); limit >= 0 && rel.Up > limit {
		return nil, &ScopeError{
			Name:   b.c.memberLabel(name),
			Up:     rel.Up,
			Limit:  limit,
			Reason: "a reaction may only reference its immediately enclosing scope",
		}
	}
	return NewLinked(kind, rel), nil
}

// AddCompartment inserts an empty compartment and returns an open builder
// for it.
func (b *Builder) AddCompartment(name string) (*Builder, error) {
	return b.addContainer(name, Compartment)
}

// AddGroup inserts an empty group and returns an open builder for it.
func (b *Builder) AddGroup(name string) (*Builder, error) {
	return b.addContainer(name, Group)
}

func (b *Builder) addContainer(name string, flavor Flavor) (*Builder, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	sub := newContainer(flavor, name)
	if err := b.checkName(name, false, sub); err != nil {
		return nil, err
	}
	if err := b.c.insert(name, sub); err != nil {
		return nil, err
	}
	sb := b.child(name, sub)
	b.subs[name] = sb
	return sb, nil
}

// Open returns a builder extending an existing sub-container in place, such
// as one obtained through Update. Opening an overridden container counts as
// supplying its explicit value.
func (b *Builder) Open(name string) (*Builder, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if sb, ok := b.subs[name]; ok {
		if sb.spent {
			return nil, ErrBuilderSpent
		}
		b.resolvePending(name, false)
		return sb, nil
	}
	sub, err := b.c.Sub(name)
	if err != nil {
		return nil, err
	}
	if sub.flavor == Reaction {
		return nil, &KindMismatchError{Name: sub.Label(), Want: "compartment or group", Got: sub.flavor.String()}
	}
	sb := b.child(name, sub)
	b.subs[name] = sb
	b.resolvePending(name, false)
	return sb, nil
}

// AddReaction inserts a new reaction described by spec.
func (b *Builder) AddReaction(name string, spec *ReactionSpec) error {
	return b.putReaction(name, spec, false)
}

// ReplaceReaction replaces an existing reaction with the one described by
// spec.
func (b *Builder) ReplaceReaction(name string, spec *ReactionSpec) error {
	return b.putReaction(name, spec, true)
}

func (b *Builder) putReaction(name string, spec *ReactionSpec, replace bool) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.checkName(name, replace, newContainer(Reaction, name)); err != nil {
		return err
	}
	rc, err := b.newReaction(name, spec)
	if err != nil {
		return err
	}
	if replace {
		err = b.c.set(name, rc)
	} else {
		err = b.c.insert(name, rc)
	}
	if err != nil {
		return err
	}
	if replace {
		delete(b.subs, name)
		b.resolvePending(name, true)
	}
	return nil
}

// newReaction materializes spec as a reaction positioned under the builder's
// container without inserting it, so its member references are computed
// from their final position.
func (b *Builder) newReaction(name string, spec *ReactionSpec) (*Container, error) {
	rc := newContainer(Reaction, name)
	rc.parent = b.c
	defer func() { rc.parent = nil }()

	sub := b.child(name, rc)
	for _, m := range spec.members {
		if _, err := sub.AddContent(m.name, m.kind, m.value); err != nil {
			return nil, fmt.Errorf("reaction %s: %w", rc.Label(), err)
		}
	}
	if err := checkParticipants(rc, spec.reactants, spec.products); err != nil {
		return nil, err
	}
	rc.reactants = slices.Clone(spec.reactants)
	rc.products = slices.Clone(spec.products)
	rc.law = spec.law
	if rc.law == nil {
		rc.law = MassAction{}
	}
	return rc, nil
}

// MatchesContent reports whether the existing content member name holds the
// same value that adding v with the given kind would store.
func (b *Builder) MatchesContent(name string, kind Kind, v Value) (bool, error) {
	if err := b.check(); err != nil {
		return false, err
	}
	existing, ok := b.c.children[name].(*Content)
	if !ok || existing.kind != kind {
		return false, nil
	}
	content, err := b.prepare(name, kind, v)
	if err != nil {
		return false, err
	}
	return existing.Equal(content), nil
}

// MatchesReaction reports whether the existing reaction member name equals
// the reaction spec describes.
func (b *Builder) MatchesReaction(name string, spec *ReactionSpec) (bool, error) {
	if err := b.check(); err != nil {
		return false, err
	}
	existing, ok := b.c.children[name].(*Container)
	if !ok || existing.flavor != Reaction {
		return false, nil
	}
	rc, err := b.newReaction(name, spec)
	if err != nil {
		return false, err
	}
	return existing.Equal(rc), nil
}

func checkParticipants(rc *Container, lists ...[]Participant) error {
	for _, list := range lists {
		for _, p := range list {
			n, ok := rc.children[p.Name]
			if !ok {
				return &UnknownEntityError{Path: rc.memberLabel(p.Name)}
			}
			if c, ok := n.(*Content); !ok || c.kind != Species {
				return &KindMismatchError{Name: rc.memberLabel(p.Name), Want: Species.String(), Got: kindOf(n)}
			}
			if err := checkStoichiometry(rc.memberLabel(p.Name), p.Stoichiometry); err != nil {
				return err
			}
		}
	}
	return nil
}

// Add inserts a node under name. Containers are inserted as structured
// copies, so a built container can be composed into several trees.
func (b *Builder) Add(name string, n Node) error {
	return b.put(name, n, false)
}

// Replace swaps the node stored under name for n, which must be of the same
// kind or flavor.
func (b *Builder) Replace(name string, n Node) error {
	return b.put(name, n, true)
}

func (b *Builder) put(name string, n Node, replace bool) error {
	if err := b.check(); err != nil {
		return err
	}
	switch v := n.(type) {
	case *Content:
		val := Literal(v.literal)
		if rel, ok := v.Relative(); ok {
			val = Rel(rel)
		}
		_, err := b.putContent(name, v.kind, val, replace)
		return err
	case *Container:
		if err := b.checkName(name, replace, v); err != nil {
			return err
		}
		cp := v.clone()
		old := b.c.children[name]
		var err error
		if replace {
			err = b.c.set(name, cp)
		} else {
			err = b.c.insert(name, cp)
		}
		if err != nil {
			return err
		}
		if err := validate(cp); err != nil {
			if replace {
				_ = b.c.set(name, old)
			} else {
				b.c.remove(name)
			}
			return err
		}
		if replace {
			delete(b.subs, name)
			b.resolvePending(name, true)
		}
		return nil
	default:
		return fmt.Errorf("unsupported node type %T", n)
	}
}

// resolvePending marks the override for name as supplied. With subtree
// set, overrides nested below name are cleared as well.
func (b *Builder) resolvePending(name string, subtree bool) {
	key := b.prefix.Append(name).String()
	delete(b.root.pending, key)
	if !subtree {
		return
	}
	for k := range b.root.pending {
		if strings.HasPrefix(k, key+".") {
			delete(b.root.pending, k)
		}
	}
}

// Build finalizes any open sub-builders, validates the whole subtree,
// proves it free of reference cycles and seals it. The builder is spent
// afterwards.
func (b *Builder) Build() (*Container, error) {
	if err := b.check(); err != nil {
		return nil, err
	}

	var unresolved []string
	for k := range b.root.pending {
		if p := entitypath.MustParse(k); p.HasPrefix(b.prefix) {
			unresolved = append(unresolved, k)
		}
	}
	if len(unresolved) > 0 {
		slices.Sort(unresolved)
		return nil, &ValueCollisionError{Names: unresolved}
	}
	if err := validate(b.c); err != nil {
		return nil, err
	}
	if err := checkAcyclic(b.c); err != nil {
		return nil, err
	}

	b.c.seal()
	b.markSpent()
	return b.c, nil
}

func (b *Builder) markSpent() {
	b.spent = true
	for _, sub := range b.subs {
		sub.markSpent()
	}
}

// validate checks every stored reference below c: it must resolve, respect
// kind compatibility and stay within its holder's scope. Reaction
// participants must name species members.
func validate(c *Container) error {
	check := func(holder *Container, name string, n Node) error {
		switch v := n.(type) {
		case *Content:
			rel, linked := v.Relative()
			if !linked {
				return nil
			}
			ref, err := rel.ResolveFrom(holder)
			if err != nil {
				return fmt.Errorf("member %s: %w", holder.memberLabel(name), err)
			}
			if !v.kind.CanReference(ref.Kind) {
				return &KindMismatchError{Name: holder.memberLabel(name), Want: "reference allowed for a " + v.kind.String(), Got: ref.Kind.String()}
			}
			if limit := holder.flavor.maxUp(); limit >= 0 && rel.Up > limit {
				return &ScopeError{Name: holder.memberLabel(name), Up: rel.Up, Limit: limit, Reason: "a reaction may only reference its immediately enclosing scope"}
			}
		case *Container:
			if v.flavor == Reaction {
				return checkParticipants(v, v.reactants, v.products)
			}
		}
		return nil
	}
	return c.Walk(func(_ entitypath.Path, holder *Container, name string, n Node) error {
		return check(holder, name, n)
	})
}

// checkAcyclic builds the dependency graph of value references below c and
// reports any cycle.
func checkAcyclic(c *Container) error {
	g := dag.New()
	err := c.Walk(func(_ entitypath.Path, holder *Container, name string, n Node) error {
		content, ok := n.(*Content)
		if !ok {
			return nil
		}
		id := holder.Path().Append(name).String()
		g.AddNode(id)
		rel, linked := content.Relative()
		if !linked {
			return nil
		}
		target, err := rel.ResolveFrom(holder)
		if err != nil {
			return err
		}
		targetID := target.Path().String()
		if targetID == id {
			return &CyclicReferenceError{Path: []string{id, id}}
		}
		g.AddNode(targetID)
		return g.AddEdge(targetID, id)
	})
	if err != nil {
		return err
	}
	if err := g.DetectCycles(); err != nil {
		var cycle *dag.CycleError
		if errors.As(err, &cycle) {
			return &CyclicReferenceError{Path: cycle.Path}
		}
		return err
	}
	return nil
}
