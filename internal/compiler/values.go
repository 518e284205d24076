// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package compiler

import (
	"math"

	"github.com/specialistvlad/biogrid/internal/model"
)

// Override replaces the default value of one compiled entity.
type Override struct {
	path  string
	kind  model.Kind
	value float64
}

// Set overrides the entity at path, species or parameter.
func Set(path string, v float64) Override {
	return Override{path: path, value: v}
}

// SetSpecies overrides the species at path. It fails with a
// KindMismatchError when path names a parameter.
func SetSpecies(path string, v float64) Override {
	return Override{path: path, kind: model.Species, value: v}
}

// SetParameter overrides the parameter at path. It fails with a
// KindMismatchError when path names a species.
func SetParameter(path string, v float64) Override {
	return Override{path: path, kind: model.Parameter, value: v}
}

// SetRef overrides the entity ref points at, typed by the reference kind.
func SetRef(ref model.Reference, v float64) Override {
	return Override{path: ref.Path().String(), kind: ref.Kind, value: v}
}

// BuildValueVectors returns the initial state y and parameters p with the
// given overrides applied, later overrides winning. Parameters sharing an
// entry are one value: overriding any of them sets the entry so that the
// named parameter takes the given value, and the others follow by their
// multipliers. Species initialized from parameters follow the overridden
// entry unless they are overridden themselves.
func (c *Compiler) BuildValueVectors(overrides ...Override) (y, p []float64, err error) {
	setY := make(map[int]float64)
	setP := make(map[int]float64)
	for _, o := range overrides {
		if math.IsNaN(o.value) || math.IsInf(o.value, 0) || o.value < 0 {
			return nil, nil, &model.InvalidValueError{Name: o.path, Value: o.value, Reason: "must be a finite non-negative number"}
		}
		a, isSpecies := c.aliases[o.path]
		pa, isParam := c.paramAliases[o.path]
		switch {
		case isSpecies && o.kind == model.Parameter:
			return nil, nil, &model.KindMismatchError{Name: o.path, Want: model.Parameter.String(), Got: model.Species.String()}
		case isParam && o.kind == model.Species:
			return nil, nil, &model.KindMismatchError{Name: o.path, Want: model.Species.String(), Got: model.Parameter.String()}
		case isSpecies:
			setY[a.slot] = o.value
		case isParam && pa.factor == 0:
			return nil, nil, &model.InvalidValueError{Name: o.path, Value: o.value, Reason: "follows a zero multiplier"}
		case isParam:
			setP[pa.index] = o.value / pa.factor
		default:
			return nil, nil, &UnknownOverrideError{Path: o.path}
		}
	}

	p = c.parameterValues()
	for i, v := range setP {
		p[i] = v
	}
	y = make([]float64, len(c.slots))
	for i, s := range c.slots {
		if v, ok := setY[i]; ok {
			y[i] = v
			continue
		}
		y[i] = s.initial(p)
	}
	return y, p, nil
}
