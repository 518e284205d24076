// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package compiler

import (
	"fmt"
	"math"

	"github.com/specialistvlad/biogrid/internal/model"
)

// RHSFunc evaluates the time derivative of the state y at time t with
// parameters p, adding each reaction's contribution into out. out must be
// zeroed by the caller when a fresh derivative is wanted.
type RHSFunc func(t float64, y, p, out []float64)

// reaction is the compiled form of one reaction.
type reaction struct {
	label     string
	reactants []int
	exponents []float64
	slots     []int
	deltas    []float64
	params    []int
	factors   []float64
	law       model.RateLaw
}

func (c *Compiler) compileReaction(rc *model.Container) (reaction, error) {
	r := reaction{label: rc.Label(), law: rc.RateLaw()}
	if r.law == nil {
		r.law = model.MassAction{}
	}

	members := make(map[string]alias)
	for _, name := range rc.Names() {
		ref, err := rc.Ref(name)
		if err != nil {
			return reaction{}, err
		}
		switch ref.Kind {
		case model.Species:
			a, err := c.species(ref)
			if err != nil {
				return reaction{}, fmt.Errorf("reaction %s: %w", r.label, err)
			}
			members[name] = a
		case model.Parameter:
			pa, err := c.parameter(ref)
			if err != nil {
				return reaction{}, fmt.Errorf("reaction %s: %w", r.label, err)
			}
			r.params = append(r.params, pa.index)
			r.factors = append(r.factors, pa.factor)
		}
	}

	delta := make(map[int]float64)
	var order []int
	touch := func(slot int, d float64) {
		if _, seen := delta[slot]; !seen {
			order = append(order, slot)
		}
		delta[slot] += d
	}
	for _, p := range rc.Reactants() {
		a := members[p.Name]
		st := p.Stoichiometry * a.st
		touch(a.slot, -st)
		found := false
		for i, ix := range r.reactants {
			if ix == a.slot {
				r.exponents[i] += st
				found = true
				break
			}
		}
		if !found {
			r.reactants = append(r.reactants, a.slot)
			r.exponents = append(r.exponents, st)
		}
	}
	for _, p := range rc.Products() {
		a := members[p.Name]
		touch(a.slot, p.Stoichiometry*a.st)
	}
	for _, slot := range order {
		if d := delta[slot]; d != 0 {
			r.slots = append(r.slots, slot)
			r.deltas = append(r.deltas, d)
		}
	}
	return r, nil
}

// RHS returns the vectorized right-hand side over all reactions. The
// returned function is safe for concurrent use.
func (c *Compiler) RHS() RHSFunc {
	reactions := c.reactions
	return func(t float64, y, p, out []float64) {
		for i := range reactions {
			r := &reactions[i]
			conc := make([]float64, len(r.reactants))
			for j, ix := range r.reactants {
				if e := r.exponents[j]; e == 1 {
					conc[j] = y[ix]
				} else {
					conc[j] = math.Pow(y[ix], e)
				}
			}
			par := make([]float64, len(r.params))
			for j, ix := range r.params {
				par[j] = r.factors[j] * p[ix]
			}
			rate := r.law.Rate(t, conc, par)
			for j, ix := range r.slots {
				out[ix] += r.deltas[j] * rate
			}
		}
	}
}

// BuildRHS binds the parameter vector p and returns a function computing a
// fresh derivative vector.
func (c *Compiler) BuildRHS(p []float64) func(t float64, y []float64) []float64 {
	rhs := c.RHS()
	params := append([]float64(nil), p...)
	n := len(c.slots)
	return func(t float64, y []float64) []float64 {
		out := make([]float64, n)
		rhs(t, y, params, out)
		return out
	}
}
