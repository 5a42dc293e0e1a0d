// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"

	"github.com/peekwez/tmr/ana"
	"github.com/peekwez/tmr/forest"
	"github.com/peekwez/tmr/msolid"
	"github.com/peekwez/tmr/nvec"
)

// rodSetup builds the two-element rod with a stress hot-spot at the
// far end, design variables bound per element
func rodSetup(x []float64) (*Domain, *nvec.Vec) {
	f := forest.NewBoxForest3d(forest.BoxData{
		Nx: 2, Ny: 1, Nz: 1,
		Lx: 2, Ly: 1, Lz: 1,
		Order: 2,
	})
	d := NewDomain(f, f.Elevate(), 3)
	d.Elems = make([]Elem, f.Nelems)
	for e := 0; e < f.Nelems; e++ {
		vm := msolid.New("vm").(*msolid.VonMises)
		err := vm.Init(3, fun.Prms{
			&fun.Prm{N: "E", V: 1.0},
			&fun.Prm{N: "nu", V: 0.0},
			&fun.Prm{N: "ys", V: 1.0},
			&fun.Prm{N: "q", V: 1.0},
		})
		if err != nil {
			chk.Panic("cannot initialise vm model:\n%v", err)
		}
		vm.BindDesignVars(x, e)
		d.Elems[e] = NewElemSolid(f.Order, f.Knots, vm)
	}

	// ramp displacement: εxx grows linearly toward x=2
	ramp := ana.RampDisp{S: 1, L: 2}
	u := d.NewVec(3)
	vals := u.GetArray()
	for n, p := range f.X {
		vals[3*n] = ramp.Ux(p.X)
	}
	return d, u
}

func Test_stress01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("stress01. KS monotone limit toward the maximum")

	x := []float64{1, 1}
	d, u := rodSetup(x)

	ksvals := make([]float64, 3)
	var ksmax float64
	for i, kw := range []float64{10, 100, 1000} {
		sc := NewStressConstraint(d, kw)
		ksvals[i] = sc.EvalConstraint(u)
		ksmax = sc.MaxFail()
	}

	// the KS envelope tightens monotonically toward the maximum
	// failure value as the weight grows
	d0 := math.Abs(ksvals[0] - ksmax)
	d1 := math.Abs(ksvals[1] - ksmax)
	d2 := math.Abs(ksvals[2] - ksmax)
	io.Pforan("ks = %v, max = %v\n", ksvals, ksmax)
	if !(d0 > d1 && d1 > d2) {
		tst.Errorf("KS values do not approach the maximum monotonically: %v (max=%g)\n", ksvals, ksmax)
		return
	}
	chk.Scalar(tst, "ks(1000)", 0.01, ksvals[2], ksmax)
}

func Test_stress02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("stress02. KS design sensitivity vs central differences")

	x := []float64{0.9, 0.7}
	d, u := rodSetup(x)

	sc := NewStressConstraint(d, 20)
	sc.EvalConstraint(u)

	dfdx := make([]float64, 2)
	dfdu := d.NewVec(3)
	sc.EvalConDeriv(dfdx, dfdu)
	anader := make([]float64, 2)
	copy(anader, dfdx)

	h := 1e-6
	for i := 0; i < 2; i++ {
		tmp := x[i]
		x[i] = tmp + h
		fp := sc.EvalConstraint(u)
		x[i] = tmp - h
		fm := sc.EvalConstraint(u)
		x[i] = tmp
		fd := (fp - fm) / (2.0 * h)
		tol := 1e-4 * (1.0 + math.Abs(fd))
		chk.Scalar(tst, io.Sf("dfdx%d", i), tol, anader[i], fd)
	}
}

func Test_stress03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("stress03. KS state sensitivity vs central differences")

	x := []float64{0.9, 0.7}
	d, u := rodSetup(x)

	sc := NewStressConstraint(d, 20)
	sc.EvalConstraint(u)

	dfdx := make([]float64, 2)
	dfdu := d.NewVec(3)
	sc.EvalConDeriv(dfdx, dfdu)
	anader := make([]float64, len(dfdu.GetArray()))
	copy(anader, dfdu.GetArray())

	// probe a spread of degrees of freedom; this check fails if the
	// dubar/du chain uses the transposed indexing
	h := 1e-6
	uvals := u.GetArray()
	for _, dof := range []int{0, 1, 5, 10, 16, 23, 30, len(uvals) - 1} {
		tmp := uvals[dof]
		uvals[dof] = tmp + h
		fp := sc.EvalConstraint(u)
		uvals[dof] = tmp - h
		fm := sc.EvalConstraint(u)
		uvals[dof] = tmp
		fd := (fp - fm) / (2.0 * h)
		tol := 2e-4 * (1.0 + math.Abs(fd))
		chk.Scalar(tst, io.Sf("dfdu[%d]", dof), tol, anader[dof], fd)
	}
}

func Test_stress04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("stress04. failure samples for the diagnostic writers")

	x := []float64{1, 1}
	d, u := rodSetup(x)

	sc := NewStressConstraint(d, 20)
	pts, fvals, nquad := sc.SampleFailure(u)
	chk.IntAssert(nquad, 3)
	chk.IntAssert(len(fvals), d.Forest.Nelems*nquad*nquad*nquad)
	chk.IntAssert(len(pts), 3*len(fvals))

	// the failure values follow the ramp: larger x means larger f
	maxf, maxx := -1e20, 0.0
	for i, fv := range fvals {
		if fv > maxf {
			maxf, maxx = fv, pts[3*i]
		}
	}
	if maxx < 1.5 {
		tst.Errorf("hot-spot located at x=%g instead of the far end\n", maxx)
	}
}
