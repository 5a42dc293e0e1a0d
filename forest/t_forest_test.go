// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forest

import (
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

func Test_forest01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("forest01. 2x2x2 box forest, order 2")

	f := NewBoxForest3d(BoxData{
		Nx: 2, Ny: 2, Nz: 2,
		Lx: 1, Ly: 1, Lz: 1,
		Order: 2,
		Name:  "cube",
	})

	chk.IntAssert(f.Nelems, 8)
	chk.IntAssert(f.Nnodes, 27)
	chk.IntAssert(f.NumElemNodes(), 8)

	// the center node is shared by all 8 elements
	center := 1 + 3*1 + 9*1
	count := 0
	for e := 0; e < f.Nelems; e++ {
		for _, c := range f.ElemNodes(e) {
			if c == center {
				count++
			}
		}
	}
	chk.IntAssert(count, 8)
	p := f.X[center]
	chk.Vector(tst, "center", 1e-15, []float64{p.X, p.Y, p.Z}, []float64{0.5, 0.5, 0.5})

	// topology
	chk.IntAssert(len(f.ElemsWithName("cube")), 8)
	chk.IntAssert(len(f.ElemsWithName("missing")), 0)
}

func Test_forest02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("forest02. order elevation keeps the partition")

	f := NewBoxForest3d(BoxData{
		Nx: 2, Ny: 1, Nz: 1,
		Lx: 2, Ly: 1, Lz: 1,
		Order: 2,
	})
	r := f.Elevate()

	chk.IntAssert(r.Order, 3)
	chk.IntAssert(r.Nelems, f.Nelems)
	chk.IntAssert(r.NumElemNodes(), 27)

	// corner nodes of each element coincide between the two forests
	Xc := make([]float64, 3*f.NumElemNodes())
	Xr := make([]float64, 3*r.NumElemNodes())
	for e := 0; e < f.Nelems; e++ {
		f.ElemXpts(e, Xc)
		r.ElemXpts(e, Xr)
		// first corner
		chk.Vector(tst, io.Sf("e%d corner0", e), 1e-15, Xr[0:3], Xc[0:3])
		// last corner
		nc := f.NumElemNodes()
		nr := r.NumElemNodes()
		chk.Vector(tst, io.Sf("e%d corner7", e), 1e-15, Xr[3*nr-3:3*nr], Xc[3*nc-3:3*nc])
	}
}

func Test_forest03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("forest03. interpolation reproduces node positions")

	f := NewBoxForest2d(BoxData{
		Nx: 2, Ny: 2,
		Lx: 1, Ly: 1,
		Order: 3, Lobatto: true,
	})

	n := f.NumElemNodes()
	N := make([]float64, n)
	Xpts := make([]float64, 3*n)
	for e := 0; e < f.Nelems; e++ {
		f.ElemXpts(e, Xpts)
		for jj := 0; jj < f.Order; jj++ {
			for ii := 0; ii < f.Order; ii++ {
				pt := []float64{f.Knots[ii], f.Knots[jj]}
				f.EvalInterp(pt, N, nil, nil, nil)
				x, y := 0.0, 0.0
				for m := 0; m < n; m++ {
					x += N[m] * Xpts[3*m]
					y += N[m] * Xpts[3*m+1]
				}
				m := ii + f.Order*jj
				chk.Scalar(tst, io.Sf("e%d x%d", e, m), 1e-14, x, Xpts[3*m])
				chk.Scalar(tst, io.Sf("e%d y%d", e, m), 1e-14, y, Xpts[3*m+1])
			}
		}
	}
}
