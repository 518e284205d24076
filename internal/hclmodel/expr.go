// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package hclmodel

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/biogrid/internal/decl"
	"github.com/specialistvlad/biogrid/internal/entitypath"
)

func errorDiag(rng hcl.Range, summary, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}
}

// expression converts an HCL expression into a declared value: a number, a
// reference, or a number multiplied by a reference.
func expression(e hcl.Expression) (decl.Expr, hcl.Diagnostics) {
	if bin, ok := e.(*hclsyntax.BinaryOpExpr); ok && bin.Op == hclsyntax.OpMultiply {
		factor, ref := bin.LHS, bin.RHS
		if len(factor.Variables()) > 0 {
			factor, ref = ref, factor
		}
		f, diags := number(factor)
		if diags.HasErrors() {
			return decl.Expr{}, hcl.Diagnostics{errorDiag(e.Range(), "Invalid multiplication",
				"Only a number times a reference is allowed.")}
		}
		target, diags := reference(ref)
		if diags.HasErrors() {
			return decl.Expr{}, diags
		}
		return target.Times(f), nil
	}

	if len(e.Variables()) > 0 {
		return reference(e)
	}
	f, diags := number(e)
	if diags.HasErrors() {
		return decl.Expr{}, diags
	}
	return decl.Lit(f), nil
}

// reference converts a traversal such as `A` or `inner.X` into a lexical
// reference.
func reference(e hcl.Expression) (decl.Expr, hcl.Diagnostics) {
	trav, diags := hcl.AbsTraversalForExpr(e)
	if diags.HasErrors() {
		return decl.Expr{}, hcl.Diagnostics{errorDiag(e.Range(), "Invalid reference",
			"A reference is a name or a dotted path such as inner.X.")}
	}
	path := entitypath.Path{trav.RootName()}
	for _, step := range trav[1:] {
		attr, ok := step.(hcl.TraverseAttr)
		if !ok {
			return decl.Expr{}, hcl.Diagnostics{errorDiag(step.SourceRange(), "Invalid reference",
				"Only attribute access is allowed in a reference path.")}
		}
		path = append(path, attr.Name)
	}
	return decl.Expr{Path: path}, nil
}

// number evaluates a constant expression into a float.
func number(e hcl.Expression) (float64, hcl.Diagnostics) {
	if len(e.Variables()) > 0 {
		return 0, hcl.Diagnostics{errorDiag(e.Range(), "Expected a number", "References are not allowed here.")}
	}
	raw, diags := e.Value(nil)
	if diags.HasErrors() {
		return 0, hcl.Diagnostics{errorDiag(e.Range(), "Expected a number", diags.Error())}
	}
	v, err := convert.Convert(raw, cty.Number)
	if err != nil || v.IsNull() || !v.IsKnown() {
		return 0, hcl.Diagnostics{errorDiag(e.Range(), "Expected a number",
			fmt.Sprintf("Cannot use a %s value as a number.", raw.Type().FriendlyName()))}
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, hcl.Diagnostics{errorDiag(e.Range(), "Expected a number", err.Error())}
	}
	return f, nil
}

// listOrSingle returns the elements of a tuple expression, or e itself.
func listOrSingle(e hcl.Expression) ([]hcl.Expression, hcl.Diagnostics) {
	if _, ok := e.(*hclsyntax.TupleConsExpr); ok {
		return hcl.ExprList(e)
	}
	return []hcl.Expression{e}, nil
}
