// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/biogrid/internal/entitypath"
)

// Container is a named interior node of the model tree. It exclusively owns
// its children; the parent link is a non-owning back-reference set once.
//
// Containers are only mutated by a Builder and are sealed by Build. Sealed
// containers are read-only and safe to share between goroutines.
type Container struct {
	name     string
	flavor   Flavor
	parent   *Container
	names    []string
	children map[string]Node

	// Reaction-only fields.
	reactants []Participant
	products  []Participant
	law       RateLaw

	sealed bool
}

func (*Container) isNode() {}

func newContainer(flavor Flavor, name string) *Container {
	return &Container{
		name:     name,
		flavor:   flavor,
		children: make(map[string]Node),
	}
}

// Name returns the container's name. Model roots carry the declaration name.
func (c *Container) Name() string { return c.name }

// Flavor returns the container flavor.
func (c *Container) Flavor() Flavor { return c.flavor }

// Parent returns the enclosing container, or nil for a root.
func (c *Container) Parent() *Container { return c.parent }

// Sealed reports whether the container was finalized by a Builder.
func (c *Container) Sealed() bool { return c.sealed }

// Len returns the number of direct members.
func (c *Container) Len() int { return len(c.names) }

// Names returns the member names in insertion order.
func (c *Container) Names() []string { return slices.Clone(c.names) }

// Child returns the member stored under name.
func (c *Container) Child(name string) (Node, bool) {
	n, ok := c.children[name]
	return n, ok
}

// Root returns the top-most ancestor.
func (c *Container) Root() *Container {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

// Depth returns the number of ancestors above c.
func (c *Container) Depth() int {
	depth := 0
	for p := c.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Path returns the member path of c from its root. The root's path is empty.
func (c *Container) Path() entitypath.Path {
	var rev []string
	for p := c; p.parent != nil; p = p.parent {
		rev = append(rev, p.name)
	}
	slices.Reverse(rev)
	return entitypath.Path(rev)
}

// Label names c for messages: the root name followed by its path.
func (c *Container) Label() string {
	root := c.Root().name
	if root == "" {
		root = "<root>"
	}
	if p := c.Path(); len(p) > 0 {
		return root + "." + p.String()
	}
	return root
}

// Ref returns a Reference to the content member called name. Contents are
// always exposed as references, never as raw values.
func (c *Container) Ref(name string) (Reference, error) {
	n, ok := c.children[name]
	if !ok {
		return Reference{}, &UnknownEntityError{Path: c.memberLabel(name)}
	}
	content, ok := n.(*Content)
	if !ok {
		return Reference{}, &KindMismatchError{Name: c.memberLabel(name), Want: "species or parameter", Got: kindOf(n)}
	}
	return Reference{Parent: c, Name: name, Kind: content.kind, Stoichiometry: 1}, nil
}

// Sub returns the sub-container member called name.
func (c *Container) Sub(name string) (*Container, error) {
	n, ok := c.children[name]
	if !ok {
		return nil, &UnknownEntityError{Path: c.memberLabel(name)}
	}
	sub, ok := n.(*Container)
	if !ok {
		return nil, &KindMismatchError{Name: c.memberLabel(name), Want: "container", Got: kindOf(n)}
	}
	return sub, nil
}

// Lookup walks down path from c and returns the node found there.
func (c *Container) Lookup(path entitypath.Path) (Node, error) {
	if len(path) == 0 {
		return c, nil
	}
	cur := c
	for _, name := range path[:len(path)-1] {
		sub, err := cur.Sub(name)
		if err != nil {
			return nil, err
		}
		cur = sub
	}
	n, ok := cur.children[path.Base()]
	if !ok {
		return nil, &UnknownEntityError{Path: cur.memberLabel(path.Base())}
	}
	return n, nil
}

// LookupRef walks down path from c and returns a Reference to the content
// found there.
func (c *Container) LookupRef(path entitypath.Path) (Reference, error) {
	if len(path) == 0 {
		return Reference{}, &UnknownEntityError{Path: c.Label()}
	}
	holder := c
	if len(path) > 1 {
		n, err := c.Lookup(path.Parent())
		if err != nil {
			return Reference{}, err
		}
		sub, ok := n.(*Container)
		if !ok {
			return Reference{}, &KindMismatchError{Name: path.Parent().String(), Want: "container", Got: kindOf(n)}
		}
		holder = sub
	}
	return holder.Ref(path.Base())
}

// Reactants returns the reactant participants of a reaction.
func (c *Container) Reactants() []Participant { return slices.Clone(c.reactants) }

// Products returns the product participants of a reaction.
func (c *Container) Products() []Participant { return slices.Clone(c.products) }

// RateLaw returns the rate law of a reaction, or nil for other flavors.
func (c *Container) RateLaw() RateLaw { return c.law }

// WalkFunc is called for every member visited by Walk. The path is relative
// to the container Walk was called on.
type WalkFunc func(path entitypath.Path, parent *Container, name string, n Node) error

// Walk visits every member below c depth-first, in insertion order, calling
// fn for a container before its own members.
func (c *Container) Walk(fn WalkFunc) error {
	return c.walk(nil, fn)
}

func (c *Container) walk(prefix entitypath.Path, fn WalkFunc) error {
	for _, name := range c.names {
		n := c.children[name]
		path := prefix.Append(name)
		if err := fn(path, c, name, n); err != nil {
			return err
		}
		if sub, ok := n.(*Container); ok {
			if err := sub.walk(path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// CountContents returns the number of species and parameters below c.
func (c *Container) CountContents() int { return c.countContents() }

// countContents returns the number of contents in the subtree of c. It
// bounds the length of any acyclic reference chain.
func (c *Container) countContents() int {
	count := 0
	_ = c.Walk(func(_ entitypath.Path, _ *Container, _ string, n Node) error {
		if _, ok := n.(*Content); ok {
			count++
		}
		return nil
	})
	return count
}

func (c *Container) memberLabel(name string) string {
	return c.Label() + "." + name
}

// insert adds a new member. Container members are attached to c.
func (c *Container) insert(name string, n Node) error {
	if c.sealed {
		return fmt.Errorf("container %s is sealed", c.Label())
	}
	if _, exists := c.children[name]; exists {
		return &NameCollisionError{Container: c.Label(), Name: name}
	}
	if err := c.attach(name, n); err != nil {
		return err
	}
	c.names = append(c.names, name)
	c.children[name] = n
	return nil
}

// set replaces an existing member in place, keeping its position.
func (c *Container) set(name string, n Node) error {
	if c.sealed {
		return fmt.Errorf("container %s is sealed", c.Label())
	}
	old, exists := c.children[name]
	if !exists {
		return &UnknownEntityError{Path: c.memberLabel(name)}
	}
	if err := c.attach(name, n); err != nil {
		return err
	}
	if sub, ok := old.(*Container); ok && sub != n {
		sub.parent = nil
	}
	c.children[name] = n
	return nil
}

// remove detaches a member. Used to roll back a failed insertion.
func (c *Container) remove(name string) {
	n, ok := c.children[name]
	if !ok {
		return
	}
	if sub, ok := n.(*Container); ok {
		sub.parent = nil
	}
	delete(c.children, name)
	c.names = slices.DeleteFunc(c.names, func(s string) bool { return s == name })
}

func (c *Container) attach(name string, n Node) error {
	if !c.flavor.accepts(n) {
		return &KindMismatchError{Name: c.memberLabel(name), Want: "member allowed in " + c.flavor.String(), Got: kindOf(n)}
	}
	sub, ok := n.(*Container)
	if !ok {
		return nil
	}
	if sub.parent != nil && sub.parent != c {
		return fmt.Errorf("container %s already belongs to %s", sub.name, sub.parent.Label())
	}
	sub.name = name
	sub.parent = c
	return nil
}

// clone returns an unsealed structural copy of c, detached from any parent.
func (c *Container) clone() *Container {
	out := newContainer(c.flavor, c.name)
	out.names = slices.Clone(c.names)
	out.reactants = slices.Clone(c.reactants)
	out.products = slices.Clone(c.products)
	out.law = c.law
	for _, name := range c.names {
		switch v := c.children[name].(type) {
		case *Content:
			out.children[name] = v.clone()
		case *Container:
			sub := v.clone()
			sub.parent = out
			out.children[name] = sub
		}
	}
	return out
}

func (c *Container) seal() {
	c.sealed = true
	for _, n := range c.children {
		if sub, ok := n.(*Container); ok {
			sub.seal()
		}
	}
}

func (c *Container) String() string {
	return fmt.Sprintf("%s(%s)", c.flavor, c.Label())
}
