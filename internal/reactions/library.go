// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package reactions

import (
	"github.com/specialistvlad/biogrid/internal/decl"
	"github.com/specialistvlad/biogrid/internal/model"
)

// reactionMember declares the reaction "reaction" whose members follow the
// slots of the same name.
func reactionMember(law model.RateLaw, species, params []string, reactants, products []model.Participant) decl.Member {
	r := &decl.Reaction{Law: law, Reactants: reactants, Products: products}
	for _, s := range species {
		r.Members = append(r.Members, decl.Species(s, decl.RefTo(s)))
	}
	for _, p := range params {
		r.Members = append(r.Members, decl.Parameter(p, decl.RefTo(p)))
	}
	return decl.ReactionOf("reaction", r)
}

func one(name string) model.Participant { return model.Participant{Name: name, Stoichiometry: 1} }

// Creation: ∅ -> A.
var Creation = &Template{
	Name:        "creation",
	Description: "A substance is created from nothing at a constant rate.",
	Species:     []string{"A"},
	Parameters:  []string{"rate"},
	body: func() []decl.Member {
		return []decl.Member{reactionMember(nil, []string{"A"}, []string{"rate"}, nil, []model.Participant{one("A")})}
	},
}

// AutoCreation: A -> 2A.
var AutoCreation = &Template{
	Name:        "auto_creation",
	Description: "A substance is created at a rate proportional to its abundance.",
	Species:     []string{"A"},
	Parameters:  []string{"rate"},
	body: func() []decl.Member {
		return []decl.Member{reactionMember(nil, []string{"A"}, []string{"rate"},
			[]model.Participant{one("A")},
			[]model.Participant{{Name: "A", Stoichiometry: 2}})}
	},
}

// Destruction: A -> ∅.
var Destruction = &Template{
	Name:        "destruction",
	Description: "A substance degrades into nothing.",
	Species:     []string{"A"},
	Parameters:  []string{"rate"},
	body: func() []decl.Member {
		return []decl.Member{reactionMember(nil, []string{"A"}, []string{"rate"}, []model.Participant{one("A")}, nil)}
	},
}

// Conversion: A -> B.
var Conversion = &Template{
	Name:        "conversion",
	Description: "A substance converts into another.",
	Species:     []string{"A", "B"},
	Parameters:  []string{"rate"},
	body: func() []decl.Member {
		return []decl.Member{reactionMember(nil, []string{"A", "B"}, []string{"rate"},
			[]model.Participant{one("A")}, []model.Participant{one("B")})}
	},
}

// Synthesis: A + B -> AB.
var Synthesis = &Template{
	Name:        "synthesis",
	Description: "Two simple substances combine into a more complex one.",
	Species:     []string{"A", "B", "AB"},
	Parameters:  []string{"rate"},
	body: func() []decl.Member {
		return []decl.Member{reactionMember(nil, []string{"A", "B", "AB"}, []string{"rate"},
			[]model.Participant{one("A"), one("B")}, []model.Participant{one("AB")})}
	},
}

// Dissociation: AB -> A + B.
var Dissociation = &Template{
	Name:        "dissociation",
	Description: "A complex substance breaks down into its simpler parts.",
	Species:     []string{"AB", "A", "B"},
	Parameters:  []string{"rate"},
	body: func() []decl.Member {
		return []decl.Member{reactionMember(nil, []string{"AB", "A", "B"}, []string{"rate"},
			[]model.Participant{one("AB")}, []model.Participant{one("A"), one("B")})}
	},
}

// ReversibleSynthesis: A + B <-> AB.
var ReversibleSynthesis = &Template{
	Name:        "reversible_synthesis",
	Description: "A synthesis and the matching dissociation.",
	Species:     []string{"A", "B", "AB"},
	Parameters:  []string{"forward_rate", "reverse_rate"},
	body: func() []decl.Member {
		return []decl.Member{
			nested(Synthesis, "forward_reaction", map[string]string{"A": "A", "B": "B", "AB": "AB", "rate": "forward_rate"}),
			nested(Dissociation, "backward_reaction", map[string]string{"AB": "AB", "A": "A", "B": "B", "rate": "reverse_rate"}),
		}
	},
}

// Equilibration: A <-> B.
var Equilibration = &Template{
	Name:        "equilibration",
	Description: "A forward and a backward conversion.",
	Species:     []string{"A", "B"},
	Parameters:  []string{"forward_rate", "reverse_rate"},
	body: func() []decl.Member {
		return []decl.Member{
			nested(Conversion, "forward_reaction", map[string]string{"A": "A", "B": "B", "rate": "forward_rate"}),
			nested(Conversion, "backward_reaction", map[string]string{"A": "B", "B": "A", "rate": "reverse_rate"}),
		}
	},
}

// CatalyzeConvert: A + B <-> A:B -> P.
var CatalyzeConvert = &Template{
	Name:        "catalyze_convert",
	Description: "Reversible binding followed by conversion of the complex.",
	Species:     []string{"A", "B", "AB", "P"},
	Parameters:  []string{"forward_rate", "reverse_rate", "conversion_rate"},
	body: func() []decl.Member {
		return []decl.Member{
			nested(ReversibleSynthesis, "binding_reaction", map[string]string{
				"A": "A", "B": "B", "AB": "AB", "forward_rate": "forward_rate", "reverse_rate": "reverse_rate",
			}),
			nested(Conversion, "conversion_reaction", map[string]string{"A": "AB", "B": "P", "rate": "conversion_rate"}),
		}
	},
}

// MichaelisMenten: E + S <-> ES -> E + P, with explicit enzyme-substrate
// complex.
var MichaelisMenten = &Template{
	Name:        "michaelis_menten",
	Description: "Enzymatic conversion with explicit enzyme-substrate complex.",
	Species:     []string{"E", "S", "ES", "P"},
	Parameters:  []string{"forward_rate", "reverse_rate", "catalytic_rate"},
	body: func() []decl.Member {
		return []decl.Member{
			nested(ReversibleSynthesis, "binding_reaction", map[string]string{
				"A": "E", "B": "S", "AB": "ES", "forward_rate": "forward_rate", "reverse_rate": "reverse_rate",
			}),
			nested(Dissociation, "dissociation_reaction", map[string]string{"AB": "ES", "A": "E", "B": "P", "rate": "catalytic_rate"}),
		}
	},
}

// Saturating is the hyperbolic rate law vmax*S/(K+S). It expects a single
// reactant and the parameters (vmax, K) in that order.
var Saturating = model.RateFunc{
	Label: "saturating",
	Fn: func(_ float64, reactants, parameters []float64) float64 {
		s := reactants[0]
		vmax, k := parameters[0], parameters[1]
		if k+s == 0 {
			return 0
		}
		return vmax * s / (k + s)
	},
}

// MichaelisMentenEqApprox: S -> P at rate vmax*S/(Kd+S), under the rapid
// equilibrium approximation.
var MichaelisMentenEqApprox = &Template{
	Name:        "michaelis_menten_eq",
	Description: "Enzymatic conversion under the rapid equilibrium approximation.",
	Species:     []string{"S", "P"},
	Parameters:  []string{"maximum_velocity", "dissociation_constant"},
	body: func() []decl.Member {
		return []decl.Member{reactionMember(Saturating, []string{"S", "P"},
			[]string{"maximum_velocity", "dissociation_constant"},
			[]model.Participant{one("S")}, []model.Participant{one("P")})}
	},
}

// MichaelisMentenQSSApprox: S -> P at rate vmax*S/(Km+S), under the
// quasi-steady-state approximation.
var MichaelisMentenQSSApprox = &Template{
	Name:        "michaelis_menten_qss",
	Description: "Enzymatic conversion under the quasi-steady-state approximation.",
	Species:     []string{"S", "P"},
	Parameters:  []string{"maximum_velocity", "michaelis_constant"},
	body: func() []decl.Member {
		return []decl.Member{reactionMember(Saturating, []string{"S", "P"},
			[]string{"maximum_velocity", "michaelis_constant"},
			[]model.Participant{one("S")}, []model.Participant{one("P")})}
	},
}
