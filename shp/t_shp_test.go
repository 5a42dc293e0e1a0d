// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_lagrange01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lagrange01. Kronecker delta and partition of unity")

	for p := 2; p <= 4; p++ {
		knots := UniformKnots(p)
		N := make([]float64, p)
		for i := 0; i < p; i++ {
			Lagrange1d(N, nil, knots[i], knots)
			for j := 0; j < p; j++ {
				expected := 0.0
				if i == j {
					expected = 1.0
				}
				chk.Scalar(tst, io.Sf("p%d N%d(k%d)", p, j, i), 1e-14, N[j], expected)
			}
		}

		// partition of unity at interior points
		for _, ξ := range []float64{-0.77, -0.2, 0.13, 0.8} {
			Lagrange1d(N, nil, ξ, knots)
			sum := 0.0
			for j := 0; j < p; j++ {
				sum += N[j]
			}
			chk.Scalar(tst, io.Sf("p%d sum(%g)", p, ξ), 1e-14, sum, 1.0)
		}
	}
}

func Test_lagrange02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lagrange02. derivatives vs central differences")

	h := 1e-6
	for p := 2; p <= 4; p++ {
		knots := UniformKnots(p)
		N := make([]float64, p)
		dN := make([]float64, p)
		Np := make([]float64, p)
		Nm := make([]float64, p)
		for _, ξ := range []float64{-0.5, 0.0, 0.33} {
			Lagrange1d(N, dN, ξ, knots)
			Lagrange1d(Np, nil, ξ+h, knots)
			Lagrange1d(Nm, nil, ξ-h, knots)
			for j := 0; j < p; j++ {
				fd := (Np[j] - Nm[j]) / (2.0 * h)
				chk.Scalar(tst, io.Sf("p%d dN%d(%g)", p, j, ξ), 1e-8, dN[j], fd)
			}
		}
	}
}

func Test_enrich01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("enrich01. 2D enrichment count and edge values")

	for _, p := range []int{2, 3, 4} {
		knots := LobattoKnots(p)
		ne := NumEnrich2d(p)
		chk.IntAssert(ne, 2*p+1)
		N := make([]float64, ne)

		// every function vanishes at the four corners
		for _, ξ := range []float64{-1, 1} {
			for _, η := range []float64{-1, 1} {
				EnrichFuncs2d(p, []float64{ξ, η}, knots, N, nil, nil)
				for i := 0; i < ne; i++ {
					chk.Scalar(tst, io.Sf("p%d N%d(%g,%g)", p, i, ξ, η), 1e-14, N[i], 0)
				}
			}
		}
	}
}

func Test_enrich02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("enrich02. 2D enrichment derivatives vs central differences")

	h := 1e-6
	pt := []float64{0.31, -0.47}
	for _, p := range []int{2, 3, 4} {
		knots := LobattoKnots(p)
		ne := NumEnrich2d(p)
		N := make([]float64, ne)
		Na := make([]float64, ne)
		Nb := make([]float64, ne)
		Np := make([]float64, ne)
		Nm := make([]float64, ne)

		EnrichFuncs2d(p, pt, knots, N, Na, Nb)

		EnrichFuncs2d(p, []float64{pt[0] + h, pt[1]}, knots, Np, nil, nil)
		EnrichFuncs2d(p, []float64{pt[0] - h, pt[1]}, knots, Nm, nil, nil)
		for i := 0; i < ne; i++ {
			fd := (Np[i] - Nm[i]) / (2.0 * h)
			chk.Scalar(tst, io.Sf("p%d Na%d", p, i), 1e-8, Na[i], fd)
		}

		EnrichFuncs2d(p, []float64{pt[0], pt[1] + h}, knots, Np, nil, nil)
		EnrichFuncs2d(p, []float64{pt[0], pt[1] - h}, knots, Nm, nil, nil)
		for i := 0; i < ne; i++ {
			fd := (Np[i] - Nm[i]) / (2.0 * h)
			chk.Scalar(tst, io.Sf("p%d Nb%d", p, i), 1e-8, Nb[i], fd)
		}
	}
}

func Test_enrich03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("enrich03. 3D enrichment derivatives vs central differences")

	h := 1e-6
	pt := []float64{0.21, -0.35, 0.52}
	ptp := make([]float64, 3)
	ptm := make([]float64, 3)
	for _, p := range []int{2, 3} {
		ne := NumEnrich3d(p)
		if p == 2 {
			chk.IntAssert(ne, 9)
		} else {
			chk.IntAssert(ne, 15)
		}
		N := make([]float64, ne)
		Na := make([]float64, ne)
		Nb := make([]float64, ne)
		Nc := make([]float64, ne)
		Np := make([]float64, ne)
		Nm := make([]float64, ne)
		dN := [][]float64{Na, Nb, Nc}

		EnrichFuncs3d(p, pt, N, Na, Nb, Nc)

		for dir := 0; dir < 3; dir++ {
			copy(ptp, pt)
			copy(ptm, pt)
			ptp[dir] += h
			ptm[dir] -= h
			EnrichFuncs3d(p, ptp, Np, nil, nil, nil)
			EnrichFuncs3d(p, ptm, Nm, nil, nil, nil)
			for i := 0; i < ne; i++ {
				fd := (Np[i] - Nm[i]) / (2.0 * h)
				chk.Scalar(tst, io.Sf("p%d dir%d N%d", p, dir, i), 1e-8, dN[dir][i], fd)
			}
		}
	}
}

func Test_jacobian01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("jacobian01. stretched hex8")

	// hex with extents (2,3,4) => Xd = diag(1, 1.5, 2)
	knots := UniformKnots(2)
	Xpts := make([]float64, 3*8)
	for kk := 0; kk < 2; kk++ {
		for jj := 0; jj < 2; jj++ {
			for ii := 0; ii < 2; ii++ {
				m := ii + 2*jj + 4*kk
				Xpts[3*m] = 2.0 * float64(ii)
				Xpts[3*m+1] = 3.0 * float64(jj)
				Xpts[3*m+2] = 4.0 * float64(kk)
			}
		}
	}
	N := make([]float64, 8)
	Na := make([]float64, 8)
	Nb := make([]float64, 8)
	Nc := make([]float64, 8)
	Interp3d([]float64{0.25, -0.3, 0.1}, knots, N, Na, Nb, Nc)

	var Xd, J [9]float64
	detJ, err := JacobianTrans3d(Xpts, Na, Nb, Nc, Xd[:], J[:], 8)
	if err != nil {
		tst.Errorf("JacobianTrans3d failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "detJ", 1e-14, detJ, 3.0)
	chk.Vector(tst, "Xd", 1e-14, Xd[:], []float64{1, 0, 0, 0, 1.5, 0, 0, 0, 2})
	chk.Vector(tst, "J", 1e-14, J[:], []float64{1, 0, 0, 0, 1.0 / 1.5, 0, 0, 0, 0.5})
}

func Test_jacobian02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("jacobian02. shell frame of a tilted quad")

	// unit quad rotated out of plane
	knots := UniformKnots(2)
	Xpts := []float64{
		0, 0, 0,
		1, 0, 1,
		0, 1, 0,
		1, 1, 1,
	}
	N := make([]float64, 4)
	Na := make([]float64, 4)
	Nb := make([]float64, 4)
	Interp2d([]float64{0, 0}, knots, N, Na, Nb)

	var Xd, J [9]float64
	_, err := JacobianTrans2d(Xpts, Na, Nb, Xd[:], J[:], 4)
	if err != nil {
		tst.Errorf("JacobianTrans2d failed: %v\n", err)
		return
	}

	d1 := make([]float64, 3)
	d2 := make([]float64, 3)
	ShellFrame(Xd[:], d1, d2)
	s := 1.0 / math.Sqrt2
	chk.Vector(tst, "d1", 1e-14, d1, []float64{s, 0, s})
	chk.Vector(tst, "d2", 1e-14, d2, []float64{0, 1, 0})
	chk.Scalar(tst, "d1.n", 1e-14, d1[0]*Xd[6]+d1[1]*Xd[7]+d1[2]*Xd[8], 0)
}

func Test_gauss01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gauss01. rule integrates monomials")

	for n := 1; n <= 5; n++ {
		pts, wts := GaussPtsWts(n)
		sum := 0.0
		for i := range wts {
			sum += wts[i]
		}
		chk.Scalar(tst, io.Sf("n%d sum(w)", n), 1e-14, sum, 2.0)

		// exact for x^(2n-2)
		k := 2*n - 2
		val := 0.0
		for i := range pts {
			val += wts[i] * math.Pow(pts[i], float64(k))
		}
		chk.Scalar(tst, io.Sf("n%d int(x^%d)", n, k), 1e-13, val, 2.0/float64(k+1))
	}
}
