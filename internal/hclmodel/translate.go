// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package hclmodel

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/specialistvlad/biogrid/internal/decl"
	"github.com/specialistvlad/biogrid/internal/entitypath"
	"github.com/specialistvlad/biogrid/internal/model"
	"github.com/specialistvlad/biogrid/internal/reactions"
)

// laws maps the names accepted by a reaction's law attribute.
var laws = map[string]model.RateLaw{
	"mass_action": model.MassAction{},
	"saturating":  reactions.Saturating,
}

// translator turns decoded blocks into declarations. built holds the models
// assembled so far, by name.
type translator struct {
	templates *reactions.Registry
	built     map[string]*model.Container
}

// containerAttrs holds the attributes of a container body.
type containerAttrs struct {
	flavor    string
	extends   []string
	overrides []string
	override  bool
}

func decodeContainerAttrs(content *hcl.BodyContent) (containerAttrs, hcl.Diagnostics) {
	var out containerAttrs
	var diags hcl.Diagnostics
	if attr, ok := content.Attributes["flavor"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &out.flavor)...)
	}
	if attr, ok := content.Attributes["extends"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &out.extends)...)
	}
	if attr, ok := content.Attributes["overrides"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &out.overrides)...)
	}
	if attr, ok := content.Attributes["override"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &out.override)...)
	}
	return out, diags
}

func decodeOverride(attrs hcl.Attributes) (bool, hcl.Diagnostics) {
	attr, ok := attrs["override"]
	if !ok {
		return false, nil
	}
	var override bool
	diags := gohcl.DecodeExpression(attr.Expr, nil, &override)
	return override, diags
}

// dependencies lists the model names a container body extends, including
// those of nested compartments and groups.
func dependencies(body hcl.Body) ([]string, hcl.Diagnostics) {
	content, diags := body.Content(containerSchema)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, d := decodeContainerAttrs(content)
	diags = append(diags, d...)
	deps := attrs.extends
	for _, blk := range content.Blocks {
		if blk.Type != "compartment" && blk.Type != "group" {
			continue
		}
		nested, d := dependencies(blk.Body)
		diags = append(diags, d...)
		deps = append(deps, nested...)
	}
	return deps, diags
}

// model translates a top-level model block.
func (t *translator) model(blk *hcl.Block) (*decl.Model, hcl.Diagnostics) {
	m := &decl.Model{Name: blk.Labels[0], Flavor: model.Compartment}
	attrs, diags := t.container(blk.Body, m)
	if diags.HasErrors() {
		return nil, diags
	}
	switch attrs.flavor {
	case "", "compartment":
	case "group":
		m.Flavor = model.Group
	default:
		return nil, hcl.Diagnostics{errorDiag(blk.DefRange, "Invalid flavor",
			fmt.Sprintf("Model %q has flavor %q; expected \"compartment\" or \"group\".", m.Name, attrs.flavor))}
	}
	return m, diags
}

// container fills m from a container body.
func (t *translator) container(body hcl.Body, m *decl.Model) (containerAttrs, hcl.Diagnostics) {
	content, diags := body.Content(containerSchema)
	if diags.HasErrors() {
		return containerAttrs{}, diags
	}
	attrs, d := decodeContainerAttrs(content)
	diags = append(diags, d...)
	if diags.HasErrors() {
		return attrs, diags
	}

	for _, name := range attrs.extends {
		base, ok := t.built[name]
		if !ok {
			rng := body.MissingItemRange()
			if attr, ok := content.Attributes["extends"]; ok {
				rng = attr.Range
			}
			return attrs, append(diags, errorDiag(rng, "Unknown base model", fmt.Sprintf("No model named %q.", name)))
		}
		m.Bases = append(m.Bases, base)
	}
	m.Overrides = attrs.overrides

	for _, blk := range content.Blocks {
		member, d := t.member(blk)
		diags = append(diags, d...)
		if d.HasErrors() {
			return attrs, diags
		}
		m.Members = append(m.Members, member)
	}
	return attrs, diags
}

func (t *translator) member(blk *hcl.Block) (decl.Member, hcl.Diagnostics) {
	name := blk.Labels[len(blk.Labels)-1]
	if !entitypath.ValidName(name) {
		return decl.Member{}, hcl.Diagnostics{errorDiag(blk.DefRange, "Invalid name",
			fmt.Sprintf("%q is not a valid member name.", name))}
	}

	switch blk.Type {
	case "species", "parameter":
		content, diags := blk.Body.Content(valueSchema)
		if diags.HasErrors() {
			return decl.Member{}, diags
		}
		value, diags := expression(content.Attributes["value"].Expr)
		if diags.HasErrors() {
			return decl.Member{}, diags
		}
		override, diags := decodeOverride(content.Attributes)
		m := decl.Species(name, value)
		if blk.Type == "parameter" {
			m = decl.Parameter(name, value)
		}
		m.Override = override
		return m, diags

	case "compartment", "group":
		flavor := model.Compartment
		m := decl.Compartment(name)
		if blk.Type == "group" {
			flavor = model.Group
			m = decl.Group(name)
		}
		attrs, diags := t.container(blk.Body, m.Body)
		if attrs.flavor != "" {
			diags = append(diags, errorDiag(blk.DefRange, "Unexpected flavor",
				fmt.Sprintf("The flavor of %q is given by its block type (%s).", name, flavor)))
		}
		m.Override = attrs.override
		return m, diags

	case "reaction":
		return t.reaction(name, blk)

	case "use":
		return t.use(blk)
	}
	return decl.Member{}, hcl.Diagnostics{errorDiag(blk.DefRange, "Unsupported block", blk.Type)}
}

// reactionMembers names the members of a reaction after the entities they
// follow, suffixing "_" where names would clash.
type reactionMembers struct {
	r     *decl.Reaction
	used  map[string]bool
	names map[string]string
}

func (rm *reactionMembers) add(kind decl.MemberKind, value decl.Expr, fallback string) string {
	key := kind.String() + ":" + value.String()
	if name, ok := rm.names[key]; ok {
		return name
	}
	name := fallback
	if !value.IsLiteral() {
		name = value.Path.Base()
	}
	for rm.used[name] {
		name += "_"
	}
	rm.used[name] = true
	rm.names[key] = name
	rm.r.Members = append(rm.r.Members, decl.Member{Name: name, Kind: kind, Value: value})
	return name
}

func (t *translator) reaction(name string, blk *hcl.Block) (decl.Member, hcl.Diagnostics) {
	content, diags := blk.Body.Content(reactionSchema)
	if diags.HasErrors() {
		return decl.Member{}, diags
	}
	rm := &reactionMembers{r: &decl.Reaction{}, used: map[string]bool{}, names: map[string]string{}}

	participants := func(attrName string) ([]model.Participant, hcl.Diagnostics) {
		attr, ok := content.Attributes[attrName]
		if !ok {
			return nil, nil
		}
		elems, diags := hcl.ExprList(attr.Expr)
		if diags.HasErrors() {
			return nil, diags
		}
		var out []model.Participant
		for _, el := range elems {
			e, diags := expression(el)
			if diags.HasErrors() {
				return nil, diags
			}
			if e.IsLiteral() {
				return nil, hcl.Diagnostics{errorDiag(el.Range(), "Invalid participant",
					"Reactants and products must reference species.")}
			}
			st := e.Times(1).Scale
			e.Scale = 0
			member := rm.add(decl.SpeciesMember, e, "")
			out = append(out, model.Participant{Name: member, Stoichiometry: st})
		}
		return out, nil
	}

	var d hcl.Diagnostics
	rm.r.Reactants, d = participants("reactants")
	diags = append(diags, d...)
	rm.r.Products, d = participants("products")
	diags = append(diags, d...)
	if diags.HasErrors() {
		return decl.Member{}, diags
	}

	rates, d := listOrSingle(content.Attributes["rate"].Expr)
	diags = append(diags, d...)
	for _, el := range rates {
		e, d := expression(el)
		diags = append(diags, d...)
		if d.HasErrors() {
			return decl.Member{}, diags
		}
		rm.add(decl.ParameterMember, e, "rate")
	}

	if attr, ok := content.Attributes["law"]; ok {
		var lawName string
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &lawName)...)
		law, ok := laws[lawName]
		if !ok {
			return decl.Member{}, append(diags, errorDiag(attr.Range, "Unknown rate law",
				fmt.Sprintf("%q is not a known rate law.", lawName)))
		}
		rm.r.Law = law
	}

	override, d := decodeOverride(content.Attributes)
	diags = append(diags, d...)
	m := decl.ReactionOf(name, rm.r)
	m.Override = override
	return m, diags
}

// use instantiates a reaction template. Attributes other than override bind
// template slots.
func (t *translator) use(blk *hcl.Block) (decl.Member, hcl.Diagnostics) {
	tmplName, name := blk.Labels[0], blk.Labels[1]
	tmpl, err := t.templates.Lookup(tmplName)
	if err != nil {
		return decl.Member{}, hcl.Diagnostics{errorDiag(blk.LabelRanges[0], "Unknown template", err.Error())}
	}
	attrs, diags := blk.Body.JustAttributes()
	if diags.HasErrors() {
		return decl.Member{}, diags
	}

	bindings := make(map[string]decl.Expr, len(attrs))
	for slot, attr := range attrs {
		if slot == "override" {
			continue
		}
		e, d := expression(attr.Expr)
		diags = append(diags, d...)
		if d.HasErrors() {
			return decl.Member{}, diags
		}
		bindings[slot] = e
	}
	override, d := decodeOverride(attrs)
	diags = append(diags, d...)

	m, err := tmpl.Instantiate(name, bindings)
	if err != nil {
		return decl.Member{}, append(diags, errorDiag(blk.DefRange, "Invalid template bindings", err.Error()))
	}
	m.Override = override
	return m, diags
}
