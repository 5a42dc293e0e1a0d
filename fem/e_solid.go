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

// ElemSolid is a hexahedral solid element of arbitrary order with
// linear-elastic material and 3 displacement variables per node. It
// implements the energy and localized-error callbacks the estimators
// need
type ElemSolid struct {
	Order int
	Knots []float64
	Mdl   msolid.Model
	elast *msolid.LinElast

	// scratch
	nquad int
	N     []float64
	Na    []float64
	Nb    []float64
	Nc    []float64
	xd    [9]float64
	jm    [9]float64
}

// NewElemSolid creates a solid element of the given order. mdl must
// embed linear elasticity (e.g. "vm")
func NewElemSolid(order int, knots []float64, mdl msolid.Model) *ElemSolid {
	vm, ok := mdl.(*msolid.VonMises)
	if !ok {
		chk.Panic("solid element requires a model embedding linear elasticity")
	}
	nn := order * order * order
	return &ElemSolid{
		Order: order,
		Knots: knots,
		Mdl:   mdl,
		elast: &vm.LinElast,
		nquad: order + 1,
		N:     make([]float64, nn),
		Na:    make([]float64, nn),
		Nb:    make([]float64, nn),
		Nc:    make([]float64, nn),
	}
}

// NumNodes returns the number of nodes
func (o *ElemSolid) NumNodes() int {
	return o.Order * o.Order * o.Order
}

// GetConstitutive returns the constitutive model
func (o *ElemSolid) GetConstitutive() msolid.Model {
	return o.Mdl
}

// strainAt computes the small-strain vector at the current basis
// evaluation from the nodal displacements
func (o *ElemSolid) strainAt(J, uvars []float64, ε []float64) {
	var Ud [9]float64
	nn := o.NumNodes()
	for i := 0; i < nn; i++ {
		ux, uy, uz := uvars[3*i], uvars[3*i+1], uvars[3*i+2]
		Ud[0] += o.Na[i] * ux
		Ud[1] += o.Nb[i] * ux
		Ud[2] += o.Nc[i] * ux
		Ud[3] += o.Na[i] * uy
		Ud[4] += o.Nb[i] * uy
		Ud[5] += o.Nc[i] * uy
		Ud[6] += o.Na[i] * uz
		Ud[7] += o.Nb[i] * uz
		Ud[8] += o.Nc[i] * uz
	}
	var Ux [9]float64
	for r := 0; r < 3; r++ {
		Ux[3*r] = Ud[3*r]*J[0] + Ud[3*r+1]*J[1] + Ud[3*r+2]*J[2]
		Ux[3*r+1] = Ud[3*r]*J[3] + Ud[3*r+1]*J[4] + Ud[3*r+2]*J[5]
		Ux[3*r+2] = Ud[3*r]*J[6] + Ud[3*r+1]*J[7] + Ud[3*r+2]*J[8]
	}
	ε[0] = Ux[0]
	ε[1] = Ux[4]
	ε[2] = Ux[8]
	ε[3] = Ux[5] + Ux[7]
	ε[4] = Ux[2] + Ux[6]
	ε[5] = Ux[1] + Ux[3]
}

// ComputeEnergies integrates the strain energy of uvars over the
// element. The kinetic part is zero for the static analyses considered
// here
func (o *ElemSolid) ComputeEnergies(time float64, Xpts, uvars []float64) (Te, Pe float64) {
	pts, wts := shp.GaussPtsWts(o.nquad)
	nn := o.NumNodes()
	ε := make([]float64, 6)
	for kk := 0; kk < o.nquad; kk++ {
		for jj := 0; jj < o.nquad; jj++ {
			for ii := 0; ii < o.nquad; ii++ {
				pt := []float64{pts[ii], pts[jj], pts[kk]}
				shp.Interp3d(pt, o.Knots, o.N, o.Na, o.Nb, o.Nc)
				detJ, err := shp.JacobianTrans3d(Xpts, o.Na, o.Nb, o.Nc, o.xd[:], o.jm[:], nn)
				if err != nil {
					io.Pfred("solid element: %v\n", err)
					continue
				}
				o.strainAt(o.jm[:], uvars, ε)
				Pe += detJ * wts[ii] * wts[jj] * wts[kk] * o.elast.StrainEnergy(ε)
			}
		}
	}
	return
}

// AddLocalizedError accumulates the internal-work part of ψᵀ(f-K·u)
// into errv, localized by the partition of unity of the element basis
func (o *ElemSolid) AddLocalizedError(time float64, errv, ψ, Xpts, uvars []float64) {
	pts, wts := shp.GaussPtsWts(o.nquad)
	nn := o.NumNodes()
	ε := make([]float64, 6)
	εψ := make([]float64, 6)
	σ := make([]float64, 6)
	for kk := 0; kk < o.nquad; kk++ {
		for jj := 0; jj < o.nquad; jj++ {
			for ii := 0; ii < o.nquad; ii++ {
				pt := []float64{pts[ii], pts[jj], pts[kk]}
				shp.Interp3d(pt, o.Knots, o.N, o.Na, o.Nb, o.Nc)
				detJ, err := shp.JacobianTrans3d(Xpts, o.Na, o.Nb, o.Nc, o.xd[:], o.jm[:], nn)
				if err != nil {
					io.Pfred("solid element: %v\n", err)
					continue
				}
				o.strainAt(o.jm[:], uvars, ε)
				o.strainAt(o.jm[:], ψ, εψ)
				o.elast.Sig(σ, ε)
				work := 0.0
				for i := 0; i < 6; i++ {
					work += εψ[i] * σ[i]
				}
				cf := -detJ * wts[ii] * wts[jj] * wts[kk] * work
				for i := 0; i < nn; i++ {
					errv[i] += cf * o.N[i]
				}
			}
		}
	}
}
