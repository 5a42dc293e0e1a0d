// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"
)

// LinElast holds the isotropic linear-elasticity data shared by the
// solid models. Nsig is the number of strain/stress components: 6 in
// 3D and 3 for the in-plane membrane state of shells
type LinElast struct {
	Ndim int
	Nsig int
	E    float64 // Young's modulus
	Nu   float64 // Poisson's ratio
	G    float64 // shear modulus
	D    [][]float64 // [Nsig][Nsig] elasticity matrix
}

// Init initialises the elasticity data
func (o *LinElast) Init(ndim int, prms fun.Prms) (err error) {
	o.Ndim = ndim
	o.E, o.Nu = -1, -1
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.Nu = p.V
		}
	}
	if o.E < 0 || o.Nu < 0 {
		return chk.Err("E and nu must be provided. E=%g, nu=%g is invalid", o.E, o.Nu)
	}
	o.G = o.E / (2.0 * (1.0 + o.Nu))
	if ndim == 3 {
		o.Nsig = 6
		o.D = la.MatAlloc(6, 6)
		c := o.E / ((1.0 + o.Nu) * (1.0 - 2.0*o.Nu))
		o.D[0][0], o.D[1][1], o.D[2][2] = c*(1.0-o.Nu), c*(1.0-o.Nu), c*(1.0-o.Nu)
		o.D[0][1], o.D[0][2], o.D[1][2] = c*o.Nu, c*o.Nu, c*o.Nu
		o.D[1][0], o.D[2][0], o.D[2][1] = c*o.Nu, c*o.Nu, c*o.Nu
		o.D[3][3], o.D[4][4], o.D[5][5] = o.G, o.G, o.G
		return
	}
	// plane-stress membrane state: (εxx, εyy, γxy)
	o.Nsig = 3
	o.D = la.MatAlloc(3, 3)
	c := o.E / (1.0 - o.Nu*o.Nu)
	o.D[0][0], o.D[1][1] = c, c
	o.D[0][1], o.D[1][0] = c*o.Nu, c*o.Nu
	o.D[2][2] = o.G
	return
}

// Sig computes σ = D·ε
func (o *LinElast) Sig(σ, ε []float64) {
	for i := 0; i < o.Nsig; i++ {
		σ[i] = 0
		for j := 0; j < o.Nsig; j++ {
			σ[i] += o.D[i][j] * ε[j]
		}
	}
}

// StrainEnergy computes ½ εᵀ·D·ε
func (o *LinElast) StrainEnergy(ε []float64) (w float64) {
	for i := 0; i < o.Nsig; i++ {
		s := 0.0
		for j := 0; j < o.Nsig; j++ {
			s += o.D[i][j] * ε[j]
		}
		w += 0.5 * ε[i] * s
	}
	return
}
