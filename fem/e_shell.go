// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/peekwez/tmr/msolid"
	"github.com/peekwez/tmr/shp"
)

// ElemShell is a quadrilateral membrane shell embedded in 3D with
// 3 displacement variables per node. The in-plane strain state is
// evaluated in the local (d1,d2) frame
type ElemShell struct {
	Order int
	Knots []float64
	Mdl   msolid.Model
	elast *msolid.LinElast

	// scratch
	nquad int
	N     []float64
	Na    []float64
	Nb    []float64
	xd    [9]float64
	jm    [9]float64
	d1    [3]float64
	d2    [3]float64
}

// NewElemShell creates a membrane shell element of the given order
func NewElemShell(order int, knots []float64, mdl msolid.Model) *ElemShell {
	vm, ok := mdl.(*msolid.VonMises)
	if !ok {
		chk.Panic("shell element requires a model embedding linear elasticity")
	}
	if vm.Nsig != 3 {
		chk.Panic("shell element requires a plane-stress model. Nsig=%d is invalid", vm.Nsig)
	}
	nn := order * order
	return &ElemShell{
		Order: order,
		Knots: knots,
		Mdl:   mdl,
		elast: &vm.LinElast,
		nquad: order + 1,
		N:     make([]float64, nn),
		Na:    make([]float64, nn),
		Nb:    make([]float64, nn),
	}
}

// NumNodes returns the number of nodes
func (o *ElemShell) NumNodes() int {
	return o.Order * o.Order
}

// GetConstitutive returns the constitutive model
func (o *ElemShell) GetConstitutive() msolid.Model {
	return o.Mdl
}

// strainAt computes the membrane strain (ε11, ε22, γ12) in the local
// frame from the nodal displacements at the current basis evaluation
func (o *ElemShell) strainAt(J, uvars []float64, ε []float64) {
	var Ud [6]float64 // du_i/d(ξ,η)
	nn := o.NumNodes()
	for i := 0; i < nn; i++ {
		ux, uy, uz := uvars[3*i], uvars[3*i+1], uvars[3*i+2]
		Ud[0] += o.Na[i] * ux
		Ud[1] += o.Nb[i] * ux
		Ud[2] += o.Na[i] * uy
		Ud[3] += o.Nb[i] * uy
		Ud[4] += o.Na[i] * uz
		Ud[5] += o.Nb[i] * uz
	}
	// global gradient du_i/dx_j (the out-of-plane reference direction
	// carries no variation)
	var Ux [9]float64
	for r := 0; r < 3; r++ {
		Ux[3*r] = Ud[2*r]*J[0] + Ud[2*r+1]*J[1]
		Ux[3*r+1] = Ud[2*r]*J[3] + Ud[2*r+1]*J[4]
		Ux[3*r+2] = Ud[2*r]*J[6] + Ud[2*r+1]*J[7]
	}
	// project onto the local frame
	d1, d2 := o.d1[:], o.d2[:]
	var e11, e22, e12, e21 float64
	for i := 0; i < 3; i++ {
		gi1 := Ux[3*i]*d1[0] + Ux[3*i+1]*d1[1] + Ux[3*i+2]*d1[2]
		gi2 := Ux[3*i]*d2[0] + Ux[3*i+1]*d2[1] + Ux[3*i+2]*d2[2]
		e11 += d1[i] * gi1
		e22 += d2[i] * gi2
		e12 += d1[i] * gi2
		e21 += d2[i] * gi1
	}
	ε[0] = e11
	ε[1] = e22
	ε[2] = e12 + e21
}

// ComputeEnergies integrates the membrane strain energy of uvars over
// the element
func (o *ElemShell) ComputeEnergies(time float64, Xpts, uvars []float64) (Te, Pe float64) {
	pts, wts := shp.GaussPtsWts(o.nquad)
	nn := o.NumNodes()
	ε := make([]float64, 3)
	for jj := 0; jj < o.nquad; jj++ {
		for ii := 0; ii < o.nquad; ii++ {
			pt := []float64{pts[ii], pts[jj]}
			shp.Interp2d(pt, o.Knots, o.N, o.Na, o.Nb)
			detJ, err := shp.JacobianTrans2d(Xpts, o.Na, o.Nb, o.xd[:], o.jm[:], nn)
			if err != nil {
				io.Pfred("shell element: %v\n", err)
				continue
			}
			shp.ShellFrame(o.xd[:], o.d1[:], o.d2[:])
			o.strainAt(o.jm[:], uvars, ε)
			Pe += detJ * wts[ii] * wts[jj] * o.elast.StrainEnergy(ε)
		}
	}
	return
}

// AddLocalizedError accumulates the internal-work part of ψᵀ(f-K·u)
// into errv
func (o *ElemShell) AddLocalizedError(time float64, errv, ψ, Xpts, uvars []float64) {
	pts, wts := shp.GaussPtsWts(o.nquad)
	nn := o.NumNodes()
	ε := make([]float64, 3)
	εψ := make([]float64, 3)
	σ := make([]float64, 3)
	for jj := 0; jj < o.nquad; jj++ {
		for ii := 0; ii < o.nquad; ii++ {
			pt := []float64{pts[ii], pts[jj]}
			shp.Interp2d(pt, o.Knots, o.N, o.Na, o.Nb)
			detJ, err := shp.JacobianTrans2d(Xpts, o.Na, o.Nb, o.xd[:], o.jm[:], nn)
			if err != nil {
				io.Pfred("shell element: %v\n", err)
				continue
			}
			shp.ShellFrame(o.xd[:], o.d1[:], o.d2[:])
			o.strainAt(o.jm[:], uvars, ε)
			o.strainAt(o.jm[:], ψ, εψ)
			o.elast.Sig(σ, ε)
			work := εψ[0]*σ[0] + εψ[1]*σ[1] + εψ[2]*σ[2]
			cf := -detJ * wts[ii] * wts[jj] * work
			for i := 0; i < nn; i++ {
				errv[i] += cf * o.N[i]
			}
		}
	}
}
