// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package hclmodel

import "github.com/hashicorp/hcl/v2"

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "model", LabelNames: []string{"name"}},
	},
}

// containerSchema describes model, compartment and group bodies.
var containerSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "flavor"},
		{Name: "extends"},
		{Name: "overrides"},
		{Name: "override"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "species", LabelNames: []string{"name"}},
		{Type: "parameter", LabelNames: []string{"name"}},
		{Type: "compartment", LabelNames: []string{"name"}},
		{Type: "group", LabelNames: []string{"name"}},
		{Type: "reaction", LabelNames: []string{"name"}},
		{Type: "use", LabelNames: []string{"template", "name"}},
	},
}

var valueSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "value", Required: true},
		{Name: "override"},
	},
}

var reactionSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "reactants"},
		{Name: "products"},
		{Name: "rate", Required: true},
		{Name: "law"},
		{Name: "override"},
	},
}
