// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/peekwez/tmr/ana"
	"github.com/peekwez/tmr/forest"
	"github.com/peekwez/tmr/nvec"
	"github.com/peekwez/tmr/out"
)

// bandForest builds a small octree box inside the transition band of
// the unit sphere (first octant, away from the axes)
func bandForest(n int) *forest.Forest {
	return forest.NewBoxForest3d(forest.BoxData{
		Nx: n, Ny: n, Nz: n,
		X0: 0.45, Y0: 0.4, Z0: 0.35,
		Lx: 0.3, Ly: 0.25, Lz: 0.3,
		Order: 2,
	})
}

func Test_curv01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("curv01. unit sphere: both principal curvatures equal one")

	f := bandForest(2)
	cc := NewCurvatureConstraint(f, 50)

	// at (1,0,0) the field x = (1-r)/2 has g = (-1/2,0,0) and
	// H = diag(0,-1/2,-1/2); both principal curvatures are 1
	g := []float64{-0.5, 0, 0}
	H := []float64{0, 0, 0, -0.5, 0, -0.5}
	r := cc.EvalCurvature(0.5, g, H)
	expected := 1.0 + math.Log(2.0)/50.0
	chk.Scalar(tst, "cost at band", 1e-12, r, expected)
}

func Test_curv02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("curv02. polynomial fit recovers a quadratic exactly")

	f := bandForest(2)
	cc := NewCurvatureConstraint(f, 50)

	// one 0.2-cube centered at (1, 0.1, -0.05)
	x0, y0, z0 := 0.9, 0.0, -0.15
	h := 0.2
	elemXpts := make([]float64, 24)
	elemVals := make([]float64, 8)
	elemDerivs := make([]float64, 24)
	value := func(x, y, z float64) float64 {
		return 1.0 + 2.0*x - y + 3.0*z + x*x + 0.5*x*y - 0.25*z*z
	}
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				m := i + 2*j + 4*k
				x := x0 + h*float64(i)
				y := y0 + h*float64(j)
				z := z0 + h*float64(k)
				elemXpts[3*m] = x
				elemXpts[3*m+1] = y
				elemXpts[3*m+2] = z
				elemVals[m] = value(x, y, z)
				elemDerivs[3*m] = 2.0 + 2.0*x + 0.5*y
				elemDerivs[3*m+1] = -1.0 + 0.5*x
				elemDerivs[3*m+2] = 3.0 - 0.5*z
			}
		}
	}

	g := make([]float64, 3)
	H := make([]float64, 6)
	val := cc.EstimateHessian(elemXpts, elemVals, elemDerivs, g, H)

	cx, cy, cz := x0+h/2, y0+h/2, z0+h/2
	chk.Scalar(tst, "val", 1e-10, val, value(cx, cy, cz))
	chk.Scalar(tst, "gx", 1e-5, g[0], 2.0+2.0*cx+0.5*cy)
	chk.Scalar(tst, "gy", 1e-5, g[1], -1.0+0.5*cx)
	chk.Scalar(tst, "gz", 1e-5, g[2], 3.0-0.5*cz)
	chk.Vector(tst, "H", 1e-9, H, []float64{2, 0.5, 0, 0, 0, -0.5})
}

func Test_curv03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("curv03. curvature reverse chain vs central differences")

	f := bandForest(2)
	cc := NewCurvatureConstraint(f, 30)

	val := 0.45
	g := []float64{0.3, -0.2, 0.15}
	H := []float64{0.4, 0.1, -0.2, 0.3, 0.05, -0.1}

	var dval float64
	dg := make([]float64, 3)
	dH := make([]float64, 6)
	r := cc.EvalCurvDeriv(val, g, H, &dval, dg, dH)
	chk.Scalar(tst, "primal match", 1e-13, r, cc.EvalCurvature(val, g, H))

	h := 1e-7
	fd := (cc.EvalCurvature(val+h, g, H) - cc.EvalCurvature(val-h, g, H)) / (2.0 * h)
	chk.Scalar(tst, "dval", 1e-5*(1.0+math.Abs(fd)), dval, fd)

	for i := 0; i < 3; i++ {
		tmp := g[i]
		g[i] = tmp + h
		fp := cc.EvalCurvature(val, g, H)
		g[i] = tmp - h
		fm := cc.EvalCurvature(val, g, H)
		g[i] = tmp
		fd = (fp - fm) / (2.0 * h)
		chk.Scalar(tst, io.Sf("dg%d", i), 1e-5*(1.0+math.Abs(fd)), dg[i], fd)
	}

	for i := 0; i < 6; i++ {
		tmp := H[i]
		H[i] = tmp + h
		fp := cc.EvalCurvature(val, g, H)
		H[i] = tmp - h
		fm := cc.EvalCurvature(val, g, H)
		H[i] = tmp
		fd = (fp - fm) / (2.0 * h)
		chk.Scalar(tst, io.Sf("dH%d", i), 1e-5*(1.0+math.Abs(fd)), dH[i], fd)
	}
}

func Test_curv04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("curv04. sphere transition band: near-unit curvature")

	f := bandForest(3)
	cc := NewCurvatureConstraint(f, 50)

	field := ana.SphereField{}
	x := nvec.NewVec(f.Nnodes, 1, nil)
	vals := x.GetArray()
	for n, p := range f.X {
		vals[n] = field.Value(p.X, p.Y, p.Z)
	}

	funcVal := cc.EvalConstraint(x)

	// in the band the cost is b·(κmax + log(1+exp(w(κmin-κmax)))/w)
	// with κmax ≈ κmin ≈ 1; the aggregate stays near that level
	if funcVal < 0.5 || funcVal > 1.5 {
		tst.Errorf("aggregate curvature %g is far from the unit-sphere value\n", funcVal)
		return
	}

	// per-element diagnostics feed the Tecplot writer
	cvals, kvals := cc.ElemCurvatures()
	chk.IntAssert(len(cvals), f.Nelems)
	Xflat := make([]float64, 3*f.Nnodes)
	for n, p := range f.X {
		Xflat[3*n] = p.X
		Xflat[3*n+1] = p.Y
		Xflat[3*n+2] = p.Z
	}
	out.WriteCurvatureToTec("/tmp/tmr/out", "curv", Xflat, f.Conn, cvals, kvals)
}

func Test_curv05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("curv05. aggregate design sensitivity vs central differences")

	f := bandForest(2)
	cc := NewCurvatureConstraint(f, 20)

	// a smooth anisotropic implicit field keeps the principal
	// curvatures apart
	x := nvec.NewVec(f.Nnodes, 1, nil)
	vals := x.GetArray()
	for n, p := range f.X {
		r := math.Sqrt(p.X*p.X + 2.0*p.Y*p.Y + 4.0*p.Z*p.Z)
		vals[n] = 0.5 * (1.0 - r)
	}

	cc.EvalConstraint(x)
	dfdx := nvec.NewVec(f.Nnodes, 1, nil)
	cc.EvalConDeriv(dfdx)
	anader := make([]float64, f.Nnodes)
	copy(anader, dfdx.GetArray())

	h := 1e-6
	for _, n := range []int{0, 3, 9, 13, 17, 22, 26} {
		tmp := vals[n]
		vals[n] = tmp + h
		fp := cc.EvalConstraint(x)
		vals[n] = tmp - h
		fm := cc.EvalConstraint(x)
		vals[n] = tmp
		fd := (fp - fm) / (2.0 * h)
		tol := 2e-4 * (1.0 + math.Abs(fd))
		chk.Scalar(tst, io.Sf("dfdx[%d]", n), tol, anader[n], fd)
	}
}
