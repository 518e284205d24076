// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"

	"github.com/specialistvlad/biogrid/internal/entitypath"
)

// Reference is an absolute pointer to a content member of a placed
// Container. It is produced transiently, e.g. by Container.Ref, and is only
// meaningful while that container instance exists in its current tree.
type Reference struct {
	Parent        *Container
	Name          string
	Kind          Kind
	Stoichiometry float64
}

// Scale returns r with its stoichiometry multiplied by f.
func (r Reference) Scale(f float64) Reference {
	r.Stoichiometry = r.stoichiometry() * f
	return r
}

// Path returns the path of the target from its root.
func (r Reference) Path() entitypath.Path {
	return r.Parent.Path().Append(r.Name)
}

// Equal reports whether both references address the same member of the same
// container instance, with the same kind and stoichiometry.
func (r Reference) Equal(other Reference) bool {
	return r.Parent == other.Parent && r.Name == other.Name &&
		r.Kind == other.Kind && r.stoichiometry() == other.stoichiometry()
}

func (r Reference) String() string {
	label := r.Name
	if r.Parent != nil {
		label = r.Parent.memberLabel(r.Name)
	}
	if st := r.stoichiometry(); st != 1 {
		return fmt.Sprintf("%g*%s", st, label)
	}
	return label
}

func (r Reference) stoichiometry() float64 {
	if r.Stoichiometry == 0 {
		return 1
	}
	return r.Stoichiometry
}

// content returns the content the reference points at.
func (r Reference) content() (*Content, error) {
	if r.Parent == nil {
		return nil, &UnknownEntityError{Path: r.Name}
	}
	n, ok := r.Parent.children[r.Name]
	if !ok {
		return nil, &UnknownEntityError{Path: r.Parent.memberLabel(r.Name)}
	}
	c, ok := n.(*Content)
	if !ok {
		return nil, &KindMismatchError{Name: r.Parent.memberLabel(r.Name), Want: r.Kind.String(), Got: kindOf(n)}
	}
	if r.Kind != 0 && c.kind != r.Kind {
		return nil, &KindMismatchError{Name: r.Parent.memberLabel(r.Name), Want: r.Kind.String(), Got: c.kind.String()}
	}
	return c, nil
}

// Next follows one hop of the chain. ok is false when the target holds a
// literal. The returned reference carries the stoichiometry of that hop
// only.
func (r Reference) Next() (Reference, bool, error) {
	return r.next()
}

func (r Reference) next() (Reference, bool, error) {
	c, err := r.content()
	if err != nil {
		return Reference{}, false, err
	}
	rel, linked := c.Relative()
	if !linked {
		return Reference{}, false, nil
	}
	nxt, err := rel.ResolveFrom(r.Parent)
	if err != nil {
		return Reference{}, false, err
	}
	return nxt, true, nil
}

// Terminal follows the chain of values until a literal-bearing content and
// returns a reference to it together with the product of all stoichiometric
// multipliers met along the way, r's own included. Chains longer than the
// number of contents in the tree are reported as a CyclicReferenceError.
func (r Reference) Terminal() (Reference, float64, error) {
	if r.Parent == nil {
		return Reference{}, 0, &UnknownEntityError{Path: r.Name}
	}
	limit := r.Parent.Root().countContents()
	st := r.stoichiometry()
	cur := r
	trail := []string{cur.Path().String()}
	for hops := 0; ; hops++ {
		nxt, linked, err := cur.next()
		if err != nil {
			return Reference{}, 0, err
		}
		if !linked {
			cur.Stoichiometry = 1
			return cur, st, nil
		}
		if hops >= limit {
			return Reference{}, 0, &CyclicReferenceError{Path: trail}
		}
		st *= nxt.stoichiometry()
		cur = nxt
		trail = append(trail, cur.Path().String())
	}
}

// Resolve returns the referenced content. With recursive set, the chain is
// followed to its literal and the returned content carries the target's
// kind with the value the target stands for: the literal scaled by every
// hop multiplier met on parameters. Multipliers between species are
// stoichiometric and leave the value alone.
func (r Reference) Resolve(recursive bool) (*Content, error) {
	c, err := r.content()
	if err != nil || !recursive || c.IsLiteral() {
		return c, err
	}
	terminal, _, err := r.Terminal()
	if err != nil {
		return nil, err
	}
	end, err := terminal.content()
	if err != nil {
		return nil, err
	}

	// Terminal proved the chain finite.
	factor := 1.0
	for cur := r; ; {
		nxt, linked, err := cur.next()
		if err != nil {
			return nil, err
		}
		if !linked {
			break
		}
		if nxt.Kind == Parameter {
			factor *= nxt.stoichiometry()
		}
		cur = nxt
	}
	return NewLiteral(c.kind, factor*end.literal), nil
}

// RelativeTo computes the relative reference that reaches r's target when
// resolved from c, going through the lowest common ancestor of both.
func (r Reference) RelativeTo(c *Container) (RelativeReference, error) {
	if r.Parent == nil || c == nil {
		return RelativeReference{}, &ForeignReferenceError{Name: r.Name, Target: r.String()}
	}
	targetChain := ancestry(r.Parent)
	fromChain := ancestry(c)

	// Walk both chains from the root down while they agree.
	i, j := len(targetChain)-1, len(fromChain)-1
	var common *Container
	for i >= 0 && j >= 0 && targetChain[i] == fromChain[j] {
		common = targetChain[i]
		i--
		j--
	}
	if common == nil {
		return RelativeReference{}, &ForeignReferenceError{Name: r.Name, Target: r.String()}
	}

	path := make(entitypath.Path, 0, i+2)
	for k := i; k >= 0; k-- {
		path = append(path, targetChain[k].name)
	}
	path = append(path, r.Name)

	return RelativeReference{
		Path:          path,
		Up:            j + 1,
		Kind:          r.Kind,
		Stoichiometry: r.stoichiometry(),
	}, nil
}

// ancestry lists c and its ancestors, nearest first.
func ancestry(c *Container) []*Container {
	var chain []*Container
	for ; c != nil; c = c.parent {
		chain = append(chain, c)
	}
	return chain
}

// RelativeReference is a relocatable pointer: walk Up levels from the point
// of definition, then down Path. It is the only form stored in a tree.
type RelativeReference struct {
	Path          entitypath.Path
	Up            int
	Kind          Kind
	Stoichiometry float64
}

// Scale returns r with its stoichiometry multiplied by f.
func (r RelativeReference) Scale(f float64) RelativeReference {
	r.Stoichiometry = r.stoichiometry() * f
	r.Path = r.Path.Append()
	return r
}

// Equal compares the relative encoding.
func (r RelativeReference) Equal(other RelativeReference) bool {
	return r.Up == other.Up && r.Kind == other.Kind &&
		r.stoichiometry() == other.stoichiometry() && r.Path.Equal(other.Path)
}

func (r RelativeReference) String() string {
	s := fmt.Sprintf("^%d.%s", r.Up, r.Path)
	if st := r.stoichiometry(); st != 1 {
		return fmt.Sprintf("%g*%s", st, s)
	}
	return s
}

func (r RelativeReference) stoichiometry() float64 {
	if r.Stoichiometry == 0 {
		return 1
	}
	return r.Stoichiometry
}

// ResolveFrom walks up Up levels from c and back down Path, returning an
// absolute reference to the target.
func (r RelativeReference) ResolveFrom(c *Container) (Reference, error) {
	if len(r.Path) == 0 {
		return Reference{}, &UnknownEntityError{Path: r.String()}
	}
	cur := c
	for level := 0; level < r.Up; level++ {
		if cur.parent == nil {
			return Reference{}, &ScopeError{
				Name:   r.Path.String(),
				Up:     r.Up,
				Limit:  level,
				Reason: "not enough enclosing containers above " + c.Label(),
			}
		}
		cur = cur.parent
	}
	ref, err := cur.LookupRef(r.Path)
	if err != nil {
		return Reference{}, err
	}
	if r.Kind != 0 && ref.Kind != r.Kind {
		return Reference{}, &KindMismatchError{Name: ref.Path().String(), Want: r.Kind.String(), Got: ref.Kind.String()}
	}
	ref.Stoichiometry = r.stoichiometry()
	return ref, nil
}
