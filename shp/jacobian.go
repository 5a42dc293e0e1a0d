// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// CrossProduct3d computes w = u × v
func CrossProduct3d(w, u, v []float64) {
	w[0] = u[1]*v[2] - u[2]*v[1]
	w[1] = u[2]*v[0] - u[0]*v[2]
	w[2] = u[0]*v[1] - u[1]*v[0]
}

// Normalize3d scales v to unit length and returns the original norm
func Normalize3d(v []float64) float64 {
	s := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if s > 0 {
		v[0] /= s
		v[1] /= s
		v[2] /= s
	}
	return s
}

// invert3x3 computes J = Xd⁻¹ and returns det(Xd). Both matrices are
// stored row-major in 9 entries
func invert3x3(Xd, J []float64) float64 {
	det := Xd[0]*(Xd[4]*Xd[8]-Xd[5]*Xd[7]) -
		Xd[1]*(Xd[3]*Xd[8]-Xd[5]*Xd[6]) +
		Xd[2]*(Xd[3]*Xd[7]-Xd[4]*Xd[6])
	if det == 0 {
		return det
	}
	d := 1.0 / det
	J[0] = d * (Xd[4]*Xd[8] - Xd[5]*Xd[7])
	J[1] = d * (Xd[2]*Xd[7] - Xd[1]*Xd[8])
	J[2] = d * (Xd[1]*Xd[5] - Xd[2]*Xd[4])
	J[3] = d * (Xd[5]*Xd[6] - Xd[3]*Xd[8])
	J[4] = d * (Xd[0]*Xd[8] - Xd[2]*Xd[6])
	J[5] = d * (Xd[2]*Xd[3] - Xd[0]*Xd[5])
	J[6] = d * (Xd[3]*Xd[7] - Xd[4]*Xd[6])
	J[7] = d * (Xd[1]*Xd[6] - Xd[0]*Xd[7])
	J[8] = d * (Xd[0]*Xd[4] - Xd[1]*Xd[3])
	return det
}

// JacobianTrans3d computes the coordinate-derivative matrix
// Xd[i][j] = dx_j/dR_i (row i holds the derivatives of x, y, z along
// reference axis i; row-major, 9 entries), its inverse J = Xd⁻¹
// and det(Xd) from the node coordinates Xpts (x0,y0,z0, x1,y1,z1, ...)
// and the basis derivatives Na, Nb, Nc of nnodes functions. An error
// is returned when the element is degenerate (det ≤ MINDET)
func JacobianTrans3d(Xpts []float64, Na, Nb, Nc []float64, Xd, J []float64, nnodes int) (detJ float64, err error) {
	for i := 0; i < 9; i++ {
		Xd[i] = 0
	}
	for n := 0; n < nnodes; n++ {
		x, y, z := Xpts[3*n], Xpts[3*n+1], Xpts[3*n+2]
		Xd[0] += x * Na[n]
		Xd[1] += y * Na[n]
		Xd[2] += z * Na[n]
		Xd[3] += x * Nb[n]
		Xd[4] += y * Nb[n]
		Xd[5] += z * Nb[n]
		Xd[6] += x * Nc[n]
		Xd[7] += y * Nc[n]
		Xd[8] += z * Nc[n]
	}
	detJ = invert3x3(Xd, J)
	if detJ <= MINDET {
		err = chk.Err("degenerate element: det(dxdR) = %g is too small", detJ)
	}
	return
}

// JacobianTrans2d computes the transformation for a 2D shell element
// embedded in 3D space. The first two rows of Xd come from the basis
// derivatives Na, Nb; the third row is the unit normal obtained from
// their cross product. The returned determinant is that of the
// completed 3×3 system
func JacobianTrans2d(Xpts []float64, Na, Nb []float64, Xd, J []float64, nnodes int) (detJ float64, err error) {
	for i := 0; i < 9; i++ {
		Xd[i] = 0
	}
	for n := 0; n < nnodes; n++ {
		x, y, z := Xpts[3*n], Xpts[3*n+1], Xpts[3*n+2]
		Xd[0] += x * Na[n]
		Xd[1] += y * Na[n]
		Xd[2] += z * Na[n]
		Xd[3] += x * Nb[n]
		Xd[4] += y * Nb[n]
		Xd[5] += z * Nb[n]
	}
	CrossProduct3d(Xd[6:9], Xd[0:3], Xd[3:6])
	Normalize3d(Xd[6:9])
	detJ = invert3x3(Xd, J)
	if detJ <= MINDET {
		err = chk.Err("degenerate shell element: det(dxdR) = %g is too small", detJ)
	}
	return
}

// ShellFrame extracts the in-plane local frame from the shell Xd
// matrix: d1 is the normalized first coordinate direction and
// d2 = n × d1 with n the unit normal stored in the third row
func ShellFrame(Xd []float64, d1, d2 []float64) {
	d1[0], d1[1], d1[2] = Xd[0], Xd[1], Xd[2]
	Normalize3d(d1)
	CrossProduct3d(d2, Xd[6:9], d1)
}
