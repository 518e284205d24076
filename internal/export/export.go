// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package export renders a built model as a resolved, human readable view.
package export

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/specialistvlad/biogrid/internal/model"
)

// Node is the exported view of one model member. Contents carry either a
// literal Value or a Ref to the entity they follow; Resolved is the value
// the content stands for, with parameter multipliers applied.
type Node struct {
	Name          string        `yaml:"name"`
	Kind          string        `yaml:"kind"`
	Value         *float64      `yaml:"value,omitempty"`
	Ref           string        `yaml:"ref,omitempty"`
	Stoichiometry float64       `yaml:"stoichiometry,omitempty"`
	Terminal      string        `yaml:"terminal,omitempty"`
	Resolved      *float64      `yaml:"resolved,omitempty"`
	Law           string        `yaml:"law,omitempty"`
	Reactants     []Participant `yaml:"reactants,omitempty"`
	Products      []Participant `yaml:"products,omitempty"`
	Members       []Node        `yaml:"members,omitempty"`
}

// Participant is an exported reactant or product.
type Participant struct {
	Name          string  `yaml:"name"`
	Stoichiometry float64 `yaml:"stoichiometry"`
}

// View builds the exported view of c. Reference paths are absolute from the
// model root.
func View(c *model.Container) (Node, error) {
	name := c.Name()
	if name == "" {
		name = c.Label()
	}
	return container(name, c)
}

func container(name string, c *model.Container) (Node, error) {
	n := Node{Name: name, Kind: c.Flavor().String()}
	if c.Flavor() == model.Reaction {
		n.Law = c.RateLaw().Name()
		n.Reactants = participants(c.Reactants())
		n.Products = participants(c.Products())
	}
	for _, member := range c.Names() {
		child, _ := c.Child(member)
		var (
			out Node
			err error
		)
		switch v := child.(type) {
		case *model.Container:
			out, err = container(member, v)
		case *model.Content:
			out, err = content(c, member, v)
		}
		if err != nil {
			return Node{}, err
		}
		n.Members = append(n.Members, out)
	}
	return n, nil
}

func content(holder *model.Container, name string, v *model.Content) (Node, error) {
	n := Node{Name: name, Kind: v.Kind().String()}
	if v.IsLiteral() {
		lit := v.Literal()
		n.Value = &lit
		return n, nil
	}

	ref, err := holder.Ref(name)
	if err != nil {
		return Node{}, err
	}
	next, _, err := ref.Next()
	if err != nil {
		return Node{}, fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	n.Ref = next.Path().String()
	n.Stoichiometry = next.Stoichiometry

	terminal, _, err := ref.Terminal()
	if err != nil {
		return Node{}, fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	lit, err := ref.Resolve(true)
	if err != nil {
		return Node{}, err
	}
	resolved := lit.Literal()
	n.Terminal = terminal.Path().String()
	n.Resolved = &resolved
	return n, nil
}

func participants(ps []model.Participant) []Participant {
	if len(ps) == 0 {
		return nil
	}
	out := make([]Participant, len(ps))
	for i, p := range ps {
		out[i] = Participant{Name: p.Name, Stoichiometry: p.Stoichiometry}
	}
	return out
}

// WriteYAML writes the exported view of c to w as YAML.
func WriteYAML(w io.Writer, c *model.Container) error {
	view, err := View(c)
	if err != nil {
		return err
	}
	if err := yaml.NewEncoder(w).Encode(view); err != nil {
		return fmt.Errorf("failed to encode model %s: %w", view.Name, err)
	}
	return nil
}
