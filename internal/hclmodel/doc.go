// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package hclmodel loads model declarations from HCL files.
//
// A file holds any number of model blocks:
//
//	model "Cell" {
//	  extends = ["Base"]
//
//	  species "A" { value = 100 }
//	  parameter "k" {
//	    value    = 2
//	    override = true
//	  }
//	  compartment "nucleus" {
//	    species "B" { value = 0.5 * A }
//	  }
//	  reaction "decay" {
//	    reactants = [A]
//	    products  = []
//	    rate      = k
//	  }
//	  use "equilibration" "eq" {
//	    A            = A
//	    B            = nucleus.B
//	    forward_rate = k
//	    reverse_rate = k
//	  }
//	}
//
// Values are number literals, references by name or dotted path resolved
// lexically from the enclosing block outward, or a number multiplied by a
// reference. Models are assembled in dependency order of their extends
// lists, so a base may be declared in any file.
package hclmodel
