// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package reactions

import (
	"fmt"
	"slices"
	"sort"

	"github.com/specialistvlad/biogrid/internal/decl"
)

// Template is a reusable reaction pattern.
type Template struct {
	Name        string
	Description string
	Species     []string
	Parameters  []string

	// body declares the members following the slots. Slot names are
	// visible to it by lexical lookup.
	body func() []decl.Member
}

// Slots returns all slot names, species first.
func (t *Template) Slots() []string {
	return append(slices.Clone(t.Species), t.Parameters...)
}

// BindingError reports missing or unknown template bindings.
type BindingError struct {
	Template string
	Missing  []string
	Unknown  []string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("template %s: missing bindings %v, unknown bindings %v", e.Template, e.Missing, e.Unknown)
}

// Instantiate returns a group member called name declaring the template with
// every slot bound. Binding expressions are resolved from the scope that
// encloses the group.
func (t *Template) Instantiate(name string, bindings map[string]decl.Expr) (decl.Member, error) {
	if err := t.checkBindings(bindings); err != nil {
		return decl.Member{}, err
	}
	members := make([]decl.Member, 0, len(t.Species)+len(t.Parameters))
	for _, s := range t.Species {
		members = append(members, decl.Species(s, bindings[s].Enclosing()))
	}
	for _, p := range t.Parameters {
		members = append(members, decl.Parameter(p, bindings[p].Enclosing()))
	}
	members = append(members, t.body()...)
	return decl.Group(name, members...), nil
}

func (t *Template) checkBindings(bindings map[string]decl.Expr) error {
	slots := t.Slots()
	var missing, unknown []string
	for _, s := range slots {
		if _, ok := bindings[s]; !ok {
			missing = append(missing, s)
		}
	}
	for name := range bindings {
		if !slices.Contains(slots, name) {
			unknown = append(unknown, name)
		}
	}
	if len(missing) == 0 && len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &BindingError{Template: t.Name, Missing: missing, Unknown: unknown}
}

// nested instantiates a built-in template inside another template's body.
// Bindings there are plain slot names of the outer template.
func nested(t *Template, name string, bindings map[string]string) decl.Member {
	exprs := make(map[string]decl.Expr, len(bindings))
	for slot, target := range bindings {
		exprs[slot] = decl.RefTo(target)
	}
	m, err := t.Instantiate(name, exprs)
	if err != nil {
		panic(err)
	}
	return m
}
