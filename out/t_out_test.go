// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/peekwez/tmr/forest"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_out01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out01. vtk grid of a box forest")

	f := forest.NewBoxForest3d(forest.BoxData{
		Nx: 2, Ny: 1, Nz: 1,
		Lx: 2, Ly: 1, Lz: 1,
		Order: 2,
	})

	vals := make([]float64, f.Nnodes)
	for n, p := range f.X {
		vals[n] = p.X
	}
	WriteVtk("/tmp/tmr/out", "box", f, map[string][]float64{"xcoord": vals})

	b, err := io.ReadFile("/tmp/tmr/out/box.vtk")
	if err != nil {
		tst.Errorf("cannot read vtk file: %v\n", err)
		return
	}
	s := string(b)
	for _, want := range []string{
		"# vtk DataFile Version 3.0",
		"DATASET UNSTRUCTURED_GRID",
		"POINTS 12 float",
		"CELLS 2 18",
		"CELL_TYPES 2",
		"SCALARS xcoord float 1",
	} {
		if !strings.Contains(s, want) {
			tst.Errorf("vtk file is missing %q\n", want)
			return
		}
	}
}

func Test_out02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out02. tecplot brick zone of reconstruction samples")

	// one element sampled on a 2x2x2 grid
	nquad := 2
	pts := make([]float64, 3*8)
	fvals := make([]float64, 8)
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				m := i + 2*j + 4*k
				pts[3*m] = float64(i)
				pts[3*m+1] = float64(j)
				pts[3*m+2] = float64(k)
				fvals[m] = 0.5
			}
		}
	}
	WriteReconToTec("/tmp/tmr/out", "recon", pts, fvals, nquad, 2.0)

	b, err := io.ReadFile("/tmp/tmr/out/recon.dat")
	if err != nil {
		tst.Errorf("cannot read tecplot file: %v\n", err)
		return
	}
	s := string(b)
	if !strings.Contains(s, "ZONE ZONETYPE = FEBRICK, N = 8, E = 1") {
		tst.Errorf("tecplot zone header is wrong\n")
		return
	}
	// the failure value is scaled back to a stress
	if !strings.Contains(s, "1.000000e+00") {
		tst.Errorf("scaled stress value not found\n")
	}
}
