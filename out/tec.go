// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// WriteReconToTec writes the reconstructed failure samples of a 3D
// mesh to a Tecplot ASCII file. pts holds 3 coordinates per sample
// and fvals one value per sample, laid out as nquad³ samples per
// element; ys scales the failure value back to a stress. The samples
// of each element are connected into (nquad-1)³ bricks
func WriteReconToTec(dirout, fnkey string, pts, fvals []float64, nquad int, ys float64) {
	npe := nquad * nquad * nquad
	chk.IntAssert(len(fvals)%npe, 0)
	nelems := len(fvals) / npe
	chk.IntAssert(len(pts), 3*len(fvals))

	buf := new(bytes.Buffer)
	io.Ff(buf, "TITLE = \"Reconstruction Solution\"\n")
	io.Ff(buf, "FILETYPE = FULL\n")
	io.Ff(buf, "VARIABLES = X, Y, Z, svm\n")
	numTecElems := (nquad - 1) * (nquad - 1) * (nquad - 1) * nelems
	numTecPts := npe * nelems
	io.Ff(buf, "ZONE ZONETYPE = FEBRICK, N = %d, E = %d, DATAPACKING = POINT\n",
		numTecPts, numTecElems)

	for i := range fvals {
		io.Ff(buf, "%e %e %e %e\n", pts[3*i], pts[3*i+1], pts[3*i+2], fvals[i]*ys)
	}
	io.Ff(buf, "\n")

	for i := 0; i < nelems; i++ {
		off := npe*i + 1
		for kk := 0; kk < nquad-1; kk++ {
			for jj := 0; jj < nquad-1; jj++ {
				for ii := 0; ii < nquad-1; ii++ {
					n0 := off + ii + jj*nquad + kk*nquad*nquad
					n4 := off + ii + jj*nquad + (kk+1)*nquad*nquad
					io.Ff(buf, "%d %d %d %d %d %d %d %d\n",
						n0, n0+1, n0+1+nquad, n0+nquad,
						n4, n4+1, n4+1+nquad, n4+nquad)
				}
			}
		}
	}

	io.WriteFileVD(dirout, fnkey+".dat", buf)
}

// WriteCurvatureToTec writes per-element curvature results of a
// second-order octree forest to a Tecplot ASCII file with
// cell-centered values
func WriteCurvatureToTec(dirout, fnkey string, X []float64, conn []int, vals, kvals []float64) {
	nelems := len(conn) / 8
	chk.IntAssert(len(vals), nelems)
	chk.IntAssert(len(kvals), nelems)
	nnodes := len(X) / 3

	buf := new(bytes.Buffer)
	io.Ff(buf, "TITLE = \"Curvature\"\n")
	io.Ff(buf, "FILETYPE = FULL\n")
	io.Ff(buf, "VARIABLES = X, Y, Z, val, kval\n")
	io.Ff(buf, "ZONE ZONETYPE = FEBRICK, N = %d, E = %d, DATAPACKING = BLOCK,", nnodes, nelems)
	io.Ff(buf, "VARLOCATION=([4,5]=CELLCENTERED)\n")

	for d := 0; d < 3; d++ {
		for i := 0; i < nnodes; i++ {
			io.Ff(buf, "%e\n", X[3*i+d])
		}
	}
	for _, v := range vals {
		io.Ff(buf, "%e\n", v)
	}
	for _, v := range kvals {
		io.Ff(buf, "%e\n", v)
	}

	// brick ordering of the corner stencil
	ordering := []int{0, 1, 3, 2, 4, 5, 7, 6}
	for i := 0; i < nelems; i++ {
		for _, j := range ordering {
			io.Ff(buf, "%d ", conn[8*i+j]+1)
		}
		io.Ff(buf, "\n")
	}

	io.WriteFileVD(dirout, fnkey+".dat", buf)
}
