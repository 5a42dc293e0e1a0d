// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// VonMises implements the von Mises failure criterion with a
// design-variable relaxed yield stress:
//
//	fval = σvm / (ys · x^q)
//
// where x is the design variable bound to this material (topology
// optimisation penalisation). With no design vector attached the
// plain ratio σvm/ys is returned
type VonMises struct {
	LinElast
	Ys  float64 // yield stress
	Q   float64 // relaxation exponent
	Dv  int     // index of the bound design variable
	Xdv []float64 // borrowed design vector; may be nil

	// scratch
	σ []float64
}

// add model to factory
func init() {
	allocators["vm"] = func() Model { return new(VonMises) }
}

// Init initialises the model
func (o *VonMises) Init(ndim int, prms fun.Prms) (err error) {
	err = o.LinElast.Init(ndim, prms)
	if err != nil {
		return
	}
	o.Ys = -1
	o.Q = 1
	for _, p := range prms {
		switch p.N {
		case "ys":
			o.Ys = p.V
		case "q":
			o.Q = p.V
		case "E", "nu":
		default:
			return chk.Err("vm: parameter named %q is incorrect", p.N)
		}
	}
	if o.Ys <= 0 {
		return chk.Err("ys must be positive. ys=%g is invalid", o.Ys)
	}
	o.σ = make([]float64, o.Nsig)
	return
}

// GetPrms gets (an example of) parameters
func (o VonMises) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "E", V: 200e9},
		&fun.Prm{N: "nu", V: 0.3},
		&fun.Prm{N: "ys", V: 250e6},
		&fun.Prm{N: "q", V: 1},
	}
}

// BindDesignVars attaches the design vector and the variable index
// used by the relaxation
func (o *VonMises) BindDesignVars(x []float64, dv int) {
	o.Xdv = x
	o.Dv = dv
}

// yield returns the effective yield stress at the bound design point
func (o *VonMises) yield() float64 {
	ys := o.Ys
	if o.Xdv != nil {
		ys *= math.Pow(o.Xdv[o.Dv], o.Q)
	}
	return ys
}

// svm computes the von Mises stress from the stress vector
func (o *VonMises) svm(σ []float64) float64 {
	if o.Nsig == 3 {
		return math.Sqrt(σ[0]*σ[0] - σ[0]*σ[1] + σ[1]*σ[1] + 3.0*σ[2]*σ[2])
	}
	return math.Sqrt(σ[0]*σ[0] + σ[1]*σ[1] + σ[2]*σ[2] -
		σ[0]*σ[1] - σ[1]*σ[2] - σ[2]*σ[0] +
		3.0*(σ[3]*σ[3]+σ[4]*σ[4]+σ[5]*σ[5]))
}

// Failure computes the scalar failure value at pt for the strain ε
func (o *VonMises) Failure(pt, ε []float64) (fval float64) {
	o.Sig(o.σ, ε)
	return o.svm(o.σ) / o.yield()
}

// FailureStrainSens computes dfval/dε
func (o *VonMises) FailureStrainSens(pt, ε, dfde []float64) {
	o.Sig(o.σ, ε)
	σ := o.σ
	vm := o.svm(σ)
	ys := o.yield()
	if vm == 0 {
		for i := 0; i < o.Nsig; i++ {
			dfde[i] = 0
		}
		return
	}

	// dσvm/dσ
	dvds := make([]float64, o.Nsig)
	if o.Nsig == 3 {
		dvds[0] = (2.0*σ[0] - σ[1]) / (2.0 * vm)
		dvds[1] = (2.0*σ[1] - σ[0]) / (2.0 * vm)
		dvds[2] = 3.0 * σ[2] / vm
	} else {
		dvds[0] = (2.0*σ[0] - σ[1] - σ[2]) / (2.0 * vm)
		dvds[1] = (2.0*σ[1] - σ[0] - σ[2]) / (2.0 * vm)
		dvds[2] = (2.0*σ[2] - σ[0] - σ[1]) / (2.0 * vm)
		dvds[3] = 3.0 * σ[3] / vm
		dvds[4] = 3.0 * σ[4] / vm
		dvds[5] = 3.0 * σ[5] / vm
	}

	// chain through σ = D ε
	for j := 0; j < o.Nsig; j++ {
		dfde[j] = 0
		for i := 0; i < o.Nsig; i++ {
			dfde[j] += dvds[i] * o.D[i][j]
		}
		dfde[j] /= ys
	}
}

// AddFailureDVSens accumulates α·dfval/dx into dfdx
func (o *VonMises) AddFailureDVSens(pt, ε []float64, α float64, dfdx []float64) {
	if o.Xdv == nil {
		return
	}
	fval := o.Failure(pt, ε)
	x := o.Xdv[o.Dv]
	dfdx[o.Dv] += α * (-o.Q / x) * fval
}
