// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/peekwez/tmr/forest"
	"github.com/peekwez/tmr/msolid"
)

// newVm allocates an initialised von Mises model
func newVm(ndim int) *msolid.VonMises {
	vm := msolid.New("vm").(*msolid.VonMises)
	err := vm.Init(ndim, fun.Prms{
		&fun.Prm{N: "E", V: 1.0},
		&fun.Prm{N: "nu", V: 0.0},
		&fun.Prm{N: "ys", V: 1.0},
	})
	if err != nil {
		chk.Panic("cannot initialise vm model:\n%v", err)
	}
	return vm
}

// solidDomain builds a 3D box domain with refined-order solid
// elements attached (the estimators evaluate element callbacks on the
// refined mesh)
func solidDomain(nx, ny, nz int, lx, ly, lz float64, order int) *Domain {
	f := forest.NewBoxForest3d(forest.BoxData{
		Nx: nx, Ny: ny, Nz: nz,
		Lx: lx, Ly: ly, Lz: lz,
		Order: order,
	})
	d := NewDomain(f, f.Elevate(), 3)
	d.Elems = make([]Elem, f.Nelems)
	for e := 0; e < f.Nelems; e++ {
		d.Elems[e] = NewElemSolid(d.ForestRefined.Order, d.ForestRefined.Knots, newVm(3))
	}
	return d
}

func Test_errest01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("errest01. strain-energy estimator vanishes for a linear field")

	d := solidDomain(2, 2, 2, 1, 1, 1, 2)
	f := d.Forest

	u := d.NewVec(3)
	vals := u.GetArray()
	for n, p := range f.X {
		vals[3*n] = 0.1*p.X + 0.02*p.Y
		vals[3*n+1] = -0.03 * p.Y
		vals[3*n+2] = 0.05 * p.Z
	}

	errors := make([]float64, f.Nelems)
	total := StrainEnergyErrorEst3d(d, u, errors)
	chk.Scalar(tst, "total", 1e-14, total, 0)

	sum := 0.0
	for _, e := range errors {
		sum += e
	}
	chk.Scalar(tst, "sum == total", 1e-15, sum, total)
}

func Test_errest02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("errest02. strain-energy estimator senses curvature")

	d := solidDomain(2, 2, 2, 1, 1, 1, 2)
	f := d.Forest

	u := d.NewVec(3)
	vals := u.GetArray()
	for n, p := range f.X {
		vals[3*n] = 0.5 * p.X * p.X
	}

	errors := make([]float64, f.Nelems)
	total := StrainEnergyErrorEst3d(d, u, errors)
	if total < 1e-8 {
		tst.Errorf("estimator missed the quadratic field: total = %g\n", total)
		return
	}
	for e, v := range errors {
		if v < 0 {
			tst.Errorf("indicator %d is negative: %g\n", e, v)
			return
		}
	}
}

func Test_errest03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("errest03. adjoint estimator: traction external work")

	d := solidDomain(1, 1, 1, 1, 1, 1, 2)
	fr := d.ForestRefined

	// traction t=(1,0,0) on the +x face of the single element
	d.Aux = []AuxPair{{
		Num:  0,
		Elem: NewElemTraction(fr.Order, fr.Knots, 1, [3]float64{1, 0, 0}),
	}}

	// zero primal state: the internal work vanishes and only the
	// external work ψ·t remains
	uref := d.NewRefinedVec(3)
	ψ := d.NewRefinedVec(3)
	pv := ψ.GetArray()
	for n := 0; n < fr.Nnodes; n++ {
		pv[3*n] = 1
	}

	errors := make([]float64, fr.Nelems)
	totalErr, corr := AdjointErrorEst3d(d, uref, ψ, errors)
	chk.Scalar(tst, "correction", 1e-10, corr, 1.0)
	chk.Scalar(tst, "total == 1/8 corner sum", 1e-15, totalErr, errors[0])

	// the correction is linear in the adjoint
	for n := 0; n < fr.Nnodes; n++ {
		pv[3*n] = 2
	}
	_, corr2 := AdjointErrorEst3d(d, uref, ψ, errors)
	chk.Scalar(tst, "doubled correction", 1e-10, corr2, 2.0)
}

func Test_errest04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("errest04. adjoint estimator: zero adjoint gives zero error")

	d := solidDomain(2, 1, 1, 2, 1, 1, 2)
	fr := d.ForestRefined

	uref := d.NewRefinedVec(3)
	uv := uref.GetArray()
	for n, p := range fr.X {
		uv[3*n] = 0.25 * p.X * p.X
	}
	ψ := d.NewRefinedVec(3)

	errors := make([]float64, fr.Nelems)
	totalErr, corr := AdjointErrorEst3d(d, uref, ψ, errors)
	chk.Scalar(tst, "total", 1e-14, totalErr, 0)
	chk.Scalar(tst, "correction", 1e-14, corr, 0)
}

func Test_errest06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("errest06. shell strain-energy estimator on a flat mesh")

	f := forest.NewBoxForest2d(forest.BoxData{
		Nx: 2, Ny: 2,
		Lx: 1, Ly: 1,
		Order: 2,
	})
	d := NewDomain(f, f.Elevate(), 3)
	d.Elems = make([]Elem, f.Nelems)
	for e := 0; e < f.Nelems; e++ {
		d.Elems[e] = NewElemShell(d.ForestRefined.Order, d.ForestRefined.Knots, newVm(2))
	}

	// a linear in-plane field reconstructs with a null enrichment
	u := d.NewVec(3)
	vals := u.GetArray()
	for n, p := range f.X {
		vals[3*n] = 0.02*p.X - 0.01*p.Y
		vals[3*n+1] = 0.03 * p.Y
	}

	errors := make([]float64, f.Nelems)
	total := StrainEnergyErrorEst2d(d, u, errors)
	chk.Scalar(tst, "total", 1e-14, total, 0)

	// a quadratic field is sensed
	for n, p := range f.X {
		vals[3*n] = 0.5 * p.X * p.X
		vals[3*n+1] = 0
	}
	total = StrainEnergyErrorEst2d(d, u, errors)
	if total < 1e-10 {
		tst.Errorf("shell estimator missed the quadratic field: total = %g\n", total)
	}
}

func Test_errest05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("errest05. error bins report mean/stddev of log errors")

	errors := []float64{1e-3, 1e-4, 1e-5, 1e-6}
	mean, stddev := PrintErrorBins(errors)
	chk.Scalar(tst, "mean", 1e-10, mean, -10.361632918473207)
	if stddev <= 0 {
		tst.Errorf("stddev must be positive: %g\n", stddev)
	}
}
