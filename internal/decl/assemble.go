// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package decl

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/biogrid/internal/ctxlog"
	"github.com/specialistvlad/biogrid/internal/model"
)

// state is the phase of an assembly.
type state int

const (
	statePreparing state = iota
	stateAdding
	stateBuilt
)

func (s state) String() string {
	switch s {
	case statePreparing:
		return "preparing"
	case stateAdding:
		return "adding"
	case stateBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// assembler carries one declaration through its phases.
type assembler struct {
	ctx    context.Context
	state  state
	scopes []*model.Builder
}

// Assemble builds the container declared by m. Bases are merged first in
// declaration order, then own members are applied in order:
//
//   - a member marked Override replaces the inherited one of the same name;
//   - an unmarked member colliding with an inherited one is unified when
//     equal and reported as a collision otherwise;
//   - a nested container reusing an inherited name must be marked Override
//     and extends the inherited container in place.
func Assemble(ctx context.Context, m *Model) (*model.Container, error) {
	if m == nil {
		return nil, errors.New("nil model declaration")
	}
	flavor := m.Flavor
	if flavor == 0 {
		flavor = model.Compartment
	}
	logger := ctxlog.FromContext(ctx).With("model", m.Name)

	a := &assembler{ctx: ctx}
	b := model.NewBuilder(flavor, m.Name)
	if err := a.body(b, m); err != nil {
		return nil, fmt.Errorf("model %s (%s): %w", m.Name, a.state, err)
	}
	c, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name, err)
	}
	a.state = stateBuilt
	logger.Debug("Model assembled.", "members", c.Len(), "bases", len(m.Bases))
	return c, nil
}

// body runs both phases for a declaration body on b.
func (a *assembler) body(b *model.Builder, m *Model) error {
	a.state = statePreparing
	if len(m.Bases) > 0 {
		if err := b.Update(m.overrides(), m.Bases...); err != nil {
			return err
		}
	}

	a.state = stateAdding
	a.scopes = append(a.scopes, b)
	defer func() { a.scopes = a.scopes[:len(a.scopes)-1] }()

	for _, mem := range m.Members {
		if err := a.ctx.Err(); err != nil {
			return err
		}
		if err := a.member(b, mem); err != nil {
			return fmt.Errorf("%s %s: %w", mem.Kind, mem.Name, err)
		}
	}
	return nil
}

func (a *assembler) member(b *model.Builder, mem Member) error {
	existing, inherited := b.Scope().Child(mem.Name)

	switch mem.Kind {
	case SpeciesMember, ParameterMember:
		kind := model.Species
		if mem.Kind == ParameterMember {
			kind = model.Parameter
		}
		v, err := a.resolve(mem.Value)
		if err != nil {
			return err
		}
		if !inherited {
			_, err = b.AddContent(mem.Name, kind, v)
			return err
		}
		if mem.Override {
			_, err = b.ReplaceContent(mem.Name, kind, v)
			return err
		}
		if _, isContent := existing.(*model.Content); !isContent {
			return a.typeCollision(b, mem.Name)
		}
		if existing.(*model.Content).Kind() != kind {
			return a.typeCollision(b, mem.Name)
		}
		same, err := b.MatchesContent(mem.Name, kind, v)
		if err != nil {
			return err
		}
		if !same {
			return a.valueCollision(b, mem.Name)
		}
		return nil

	case CompartmentMember, GroupMember:
		if mem.Body == nil {
			return errors.New("missing body")
		}
		if !inherited {
			var sub *model.Builder
			var err error
			if mem.Kind == CompartmentMember {
				sub, err = b.AddCompartment(mem.Name)
			} else {
				sub, err = b.AddGroup(mem.Name)
			}
			if err != nil {
				return err
			}
			return a.body(sub, mem.Body)
		}
		sub, ok := existing.(*model.Container)
		if !ok || sub.Flavor().String() != mem.Kind.String() {
			return a.typeCollision(b, mem.Name)
		}
		if !mem.Override {
			// Inherited containers are only extended when marked override.
			return a.valueCollision(b, mem.Name)
		}
		open, err := b.Open(mem.Name)
		if err != nil {
			return err
		}
		return a.body(open, mem.Body)

	case ReactionMember:
		if mem.Reaction == nil {
			return errors.New("missing reaction")
		}
		spec, err := a.reaction(mem.Reaction)
		if err != nil {
			return err
		}
		if !inherited {
			return b.AddReaction(mem.Name, spec)
		}
		if mem.Override {
			return b.ReplaceReaction(mem.Name, spec)
		}
		if sub, ok := existing.(*model.Container); !ok || sub.Flavor() != model.Reaction {
			return a.typeCollision(b, mem.Name)
		}
		same, err := b.MatchesReaction(mem.Name, spec)
		if err != nil {
			return err
		}
		if !same {
			return a.valueCollision(b, mem.Name)
		}
		return nil

	default:
		return fmt.Errorf("unsupported member kind %d", mem.Kind)
	}
}

// reaction resolves a reaction declaration into a model spec. Member values
// are looked up from the scope enclosing the reaction.
func (a *assembler) reaction(r *Reaction) (*model.ReactionSpec, error) {
	spec := model.NewReaction(r.Law)
	for _, mem := range r.Members {
		v, err := a.resolve(mem.Value)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", mem.Name, err)
		}
		switch mem.Kind {
		case SpeciesMember:
			spec.Species(mem.Name, v)
		case ParameterMember:
			spec.Parameter(mem.Name, v)
		default:
			return nil, fmt.Errorf("member %s: a reaction holds only species and parameters, got %s", mem.Name, mem.Kind)
		}
	}
	for _, p := range r.Reactants {
		spec.Reactant(p.Name, p.Stoichiometry)
	}
	for _, p := range r.Products {
		spec.Product(p.Name, p.Stoichiometry)
	}
	return spec, nil
}

// resolve turns a declared expression into a builder value. References are
// looked up lexically, innermost scope first.
func (a *assembler) resolve(e Expr) (model.Value, error) {
	if e.IsLiteral() {
		return model.Literal(e.Literal), nil
	}
	start := len(a.scopes) - 1 - e.Skip
	if start < 0 {
		return model.Value{}, &model.ScopeError{
			Name:   e.Path.String(),
			Up:     e.Skip,
			Limit:  len(a.scopes) - 1,
			Reason: "lexical search starts outside the outermost declaration",
		}
	}
	for i := start; i >= 0; i-- {
		ref, err := a.scopes[i].Scope().LookupRef(e.Path)
		if err == nil {
			return model.Ref(ref.Scale(e.scale())), nil
		}
	}
	return model.Value{}, &model.UnknownEntityError{Path: e.Path.String()}
}

func (a *assembler) typeCollision(b *model.Builder, name string) error {
	return &model.TypeCollisionError{Names: []string{b.Scope().Path().Append(name).String()}}
}

func (a *assembler) valueCollision(b *model.Builder, name string) error {
	return &model.ValueCollisionError{Names: []string{b.Scope().Path().Append(name).String()}}
}
