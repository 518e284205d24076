// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package simulator

import (
	"gonum.org/v1/gonum/floats"

	"github.com/specialistvlad/biogrid/internal/compiler"
)

// stepper holds the scratch vectors of one integration.
type stepper struct {
	rhs compiler.RHSFunc
	p   []float64

	k1, k2, k3, k4, tmp []float64
}

func newStepper(rhs compiler.RHSFunc, p []float64, n int) *stepper {
	return &stepper{
		rhs: rhs,
		p:   p,
		k1:  make([]float64, n),
		k2:  make([]float64, n),
		k3:  make([]float64, n),
		k4:  make([]float64, n),
		tmp: make([]float64, n),
	}
}

func (s *stepper) eval(t float64, y, out []float64) {
	for i := range out {
		out[i] = 0
	}
	s.rhs(t, y, s.p, out)
}

// step advances y in place from t by h.
func (s *stepper) step(t, h float64, y []float64) {
	s.eval(t, y, s.k1)
	floats.AddScaledTo(s.tmp, y, h/2, s.k1)
	s.eval(t+h/2, s.tmp, s.k2)
	floats.AddScaledTo(s.tmp, y, h/2, s.k2)
	s.eval(t+h/2, s.tmp, s.k3)
	floats.AddScaledTo(s.tmp, y, h, s.k3)
	s.eval(t+h, s.tmp, s.k4)

	floats.Add(s.k2, s.k3)
	floats.Scale(2, s.k2)
	floats.Add(s.k1, s.k4)
	floats.Add(s.k1, s.k2)
	floats.AddScaled(y, h/6, s.k1)
}
