// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package export

import (
	"fmt"
	"io"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/biogrid/internal/entitypath"
	"github.com/specialistvlad/biogrid/internal/model"
)

// WriteHCL writes c to w as a single flattened model block in the format the
// hclmodel loader reads. References are written as the lexical paths that
// resolve to the same entities at the point of declaration.
//
// Reactions are written as participants and rates, and the loader names
// their members after the entities they follow. A model loaded from HCL
// without templates therefore reads back equal to itself. Reactions whose
// species members do not all take part, or whose members follow other
// members of the same reaction, cannot be written.
func WriteHCL(w io.Writer, c *model.Container) error {
	name := c.Name()
	if name == "" {
		name = c.Label()
	}
	if c.Flavor() == model.Reaction {
		return fmt.Errorf("failed to export %s: a reaction is not a model", name)
	}

	f := hclwrite.NewEmptyFile()
	blk := f.Body().AppendNewBlock("model", []string{name})
	if c.Flavor() == model.Group {
		blk.Body().SetAttributeValue("flavor", cty.StringVal(model.Group.String()))
	}
	hw := &hclWriter{limits: make(map[*model.Container]int)}
	if err := hw.body(blk.Body(), c); err != nil {
		return fmt.Errorf("failed to export model %s: %w", name, err)
	}
	if _, err := w.Write(hclwrite.Format(f.Bytes())); err != nil {
		return fmt.Errorf("failed to write model %s: %w", name, err)
	}
	return nil
}

// hclWriter tracks the lexical scopes open at the member being written.
// limits holds, for each container still being declared, how many of its
// members are visible so far.
type hclWriter struct {
	scopes []*model.Container
	limits map[*model.Container]int
}

func (hw *hclWriter) body(b *hclwrite.Body, c *model.Container) error {
	hw.scopes = append(hw.scopes, c)
	defer func() {
		hw.scopes = hw.scopes[:len(hw.scopes)-1]
		delete(hw.limits, c)
	}()

	for i, name := range c.Names() {
		hw.limits[c] = i
		child, _ := c.Child(name)
		switch v := child.(type) {
		case *model.Content:
			tokens, err := hw.value(c, name)
			if err != nil {
				return err
			}
			b.AppendNewBlock(v.Kind().String(), []string{name}).Body().SetAttributeRaw("value", tokens)
		case *model.Container:
			if v.Flavor() == model.Reaction {
				if err := hw.reaction(b, name, v); err != nil {
					return err
				}
				continue
			}
			hw.limits[c] = i + 1
			blk := b.AppendNewBlock(v.Flavor().String(), []string{name})
			if err := hw.body(blk.Body(), v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (hw *hclWriter) reaction(b *hclwrite.Body, name string, rc *model.Container) error {
	taking := make(map[string]bool)
	participants := func(ps []model.Participant) ([]hclwrite.Tokens, error) {
		out := make([]hclwrite.Tokens, 0, len(ps))
		for _, p := range ps {
			taking[p.Name] = true
			target, err := hw.target(rc, p.Name)
			if err != nil {
				return nil, err
			}
			path, err := hw.lexicalPath(target)
			if err != nil {
				return nil, err
			}
			out = append(out, scaled(p.Stoichiometry*target.Stoichiometry, path))
		}
		return out, nil
	}
	reactants, err := participants(rc.Reactants())
	if err != nil {
		return err
	}
	products, err := participants(rc.Products())
	if err != nil {
		return err
	}

	var rates []hclwrite.Tokens
	for _, member := range rc.Names() {
		ref, err := rc.Ref(member)
		if err != nil {
			return err
		}
		if ref.Kind == model.Species {
			if !taking[member] {
				return fmt.Errorf("reaction %s: species %s does not take part", rc.Label(), member)
			}
			continue
		}
		tokens, err := hw.value(rc, member)
		if err != nil {
			return err
		}
		rates = append(rates, tokens)
	}

	body := b.AppendNewBlock("reaction", []string{name}).Body()
	if len(reactants) > 0 {
		body.SetAttributeRaw("reactants", hclwrite.TokensForTuple(reactants))
	}
	if len(products) > 0 {
		body.SetAttributeRaw("products", hclwrite.TokensForTuple(products))
	}
	if len(rates) == 1 {
		body.SetAttributeRaw("rate", rates[0])
	} else {
		body.SetAttributeRaw("rate", hclwrite.TokensForTuple(rates))
	}
	if law := rc.RateLaw(); law != nil && law.Name() != (model.MassAction{}).Name() {
		body.SetAttributeValue("law", cty.StringVal(law.Name()))
	}
	return nil
}

// value renders the content member name of holder: a number, or the path of
// the entity it follows times the hop multiplier.
func (hw *hclWriter) value(holder *model.Container, name string) (hclwrite.Tokens, error) {
	ref, err := holder.Ref(name)
	if err != nil {
		return nil, err
	}
	content, err := ref.Resolve(false)
	if err != nil {
		return nil, err
	}
	if content.IsLiteral() {
		return hclwrite.TokensForValue(cty.NumberFloatVal(content.Literal())), nil
	}
	target, err := hw.target(holder, name)
	if err != nil {
		return nil, err
	}
	path, err := hw.lexicalPath(target)
	if err != nil {
		return nil, err
	}
	return scaled(target.Stoichiometry, path), nil
}

// target returns the entity a linked member follows, with the hop
// multiplier as its stoichiometry.
func (hw *hclWriter) target(holder *model.Container, name string) (model.Reference, error) {
	ref, err := holder.Ref(name)
	if err != nil {
		return model.Reference{}, err
	}
	next, linked, err := ref.Next()
	if err != nil {
		return model.Reference{}, fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	if !linked {
		return model.Reference{}, fmt.Errorf("%s holds a literal", ref)
	}
	if holder.Flavor() == model.Reaction && next.Parent == holder {
		return model.Reference{}, fmt.Errorf("%s follows a member of its own reaction", ref)
	}
	return next, nil
}

// lexicalPath finds the shortest dotted path whose lexical lookup from the
// open scopes, innermost first, reaches target.
func (hw *hclWriter) lexicalPath(target model.Reference) (entitypath.Path, error) {
	full := target.Path()
	for j := len(hw.scopes) - 1; j >= 0; j-- {
		candidate, ok := full.TrimPrefix(hw.scopes[j].Path())
		if !ok || len(candidate) == 0 {
			continue
		}
		if found, ok := hw.search(candidate); ok && found.Parent == target.Parent && found.Name == target.Name {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%s is not visible at its point of use", full)
}

// search mirrors the lexical lookup of the loader.
func (hw *hclWriter) search(path entitypath.Path) (model.Reference, bool) {
	for i := len(hw.scopes) - 1; i >= 0; i-- {
		if ref, ok := hw.lookup(hw.scopes[i], path); ok {
			return ref, true
		}
	}
	return model.Reference{}, false
}

// lookup walks path down from c, seeing only the members declared so far.
func (hw *hclWriter) lookup(c *model.Container, path entitypath.Path) (model.Reference, bool) {
	cur := c
	for k, name := range path {
		idx := slices.Index(cur.Names(), name)
		if idx < 0 {
			return model.Reference{}, false
		}
		if limit, open := hw.limits[cur]; open && idx >= limit {
			return model.Reference{}, false
		}
		child, _ := cur.Child(name)
		if k == len(path)-1 {
			if _, ok := child.(*model.Content); !ok {
				return model.Reference{}, false
			}
			return model.Reference{Parent: cur, Name: name}, true
		}
		sub, ok := child.(*model.Container)
		if !ok {
			return model.Reference{}, false
		}
		cur = sub
	}
	return model.Reference{}, false
}

// scaled renders path, prefixed with st when it is not one.
func scaled(st float64, path entitypath.Path) hclwrite.Tokens {
	trav := hcl.Traversal{hcl.TraverseRoot{Name: path[0]}}
	for _, name := range path[1:] {
		trav = append(trav, hcl.TraverseAttr{Name: name})
	}
	ref := hclwrite.TokensForTraversal(trav)
	if st == 1 {
		return ref
	}
	out := hclwrite.TokensForValue(cty.NumberFloatVal(st))
	out = append(out, &hclwrite.Token{Type: hclsyntax.TokenStar, Bytes: []byte("*")})
	return append(out, ref...)
}
