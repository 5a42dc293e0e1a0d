// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements interpolation bases, enrichment functions,
// Jacobian transformations and quadrature rules for tensor-product
// quadrilateral and hexahedral elements
package shp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// constants
const (
	MAXORDER = 6      // maximum number of nodes per axis
	MINDET   = 1e-14  // minimum determinant allowed for dxdR
)

// UniformKnots returns p knot positions uniformly spaced in [-1,1]
func UniformKnots(p int) []float64 {
	if p < 2 || p > MAXORDER {
		chk.Panic("order must be in [2,%d]. p=%d is invalid", MAXORDER, p)
	}
	return utl.LinSpace(-1, 1, p)
}

// LobattoKnots returns p Gauss-Lobatto knot positions in [-1,1].
// The end points are always -1 and +1
func LobattoKnots(p int) []float64 {
	switch p {
	case 2:
		return []float64{-1, 1}
	case 3:
		return []float64{-1, 0, 1}
	case 4:
		return []float64{-1, -0.4472135954999579, 0.4472135954999579, 1}
	case 5:
		return []float64{-1, -0.6546536707079771, 0, 0.6546536707079771, 1}
	}
	chk.Panic("Lobatto knots are not available for p=%d", p)
	return nil
}

// KnotWeights returns the trapezoidal-style weights associated with
// the knot positions of an element of order p. They scale the rows of
// the patch least-squares problem
func KnotWeights(p int) []float64 {
	switch p {
	case 2:
		return []float64{1, 1}
	case 3:
		return []float64{0.5, 1, 0.5}
	case 4:
		return []float64{0.5, 1, 1, 0.5}
	}
	chk.Panic("knot weights are not available for p=%d", p)
	return nil
}

// Lagrange1d computes the p Lagrange basis values at ξ for the given
// knots. If dN is non-nil, the analytic first derivatives are stored
// in it as well
func Lagrange1d(N, dN []float64, ξ float64, knots []float64) {
	p := len(knots)
	for i := 0; i < p; i++ {
		num, den := 1.0, 1.0
		for j := 0; j < p; j++ {
			if j != i {
				num *= ξ - knots[j]
				den *= knots[i] - knots[j]
			}
		}
		N[i] = num / den
		if dN != nil {
			s := 0.0
			for k := 0; k < p; k++ {
				if k == i {
					continue
				}
				t := 1.0
				for j := 0; j < p; j++ {
					if j != i && j != k {
						t *= ξ - knots[j]
					}
				}
				s += t
			}
			dN[i] = s / den
		}
	}
}

// scratch for the 1d factors
type lag1d struct {
	n  [MAXORDER]float64
	dn [MAXORDER]float64
}

// Interp2d evaluates the tensor-product Lagrange basis of a 2D element
// at the reference point pt. N must have length p*p; Na and Nb, when
// non-nil, receive the derivatives w.r.t. ξ and η. The emission order
// is ii + p*jj
func Interp2d(pt []float64, knots []float64, N, Na, Nb []float64) {
	p := len(knots)
	var fa, fb lag1d
	derivs := Na != nil
	if derivs {
		Lagrange1d(fa.n[:p], fa.dn[:p], pt[0], knots)
		Lagrange1d(fb.n[:p], fb.dn[:p], pt[1], knots)
	} else {
		Lagrange1d(fa.n[:p], nil, pt[0], knots)
		Lagrange1d(fb.n[:p], nil, pt[1], knots)
	}
	for jj := 0; jj < p; jj++ {
		for ii := 0; ii < p; ii++ {
			m := ii + p*jj
			N[m] = fa.n[ii] * fb.n[jj]
			if derivs {
				Na[m] = fa.dn[ii] * fb.n[jj]
				Nb[m] = fa.n[ii] * fb.dn[jj]
			}
		}
	}
}

// Interp3d evaluates the tensor-product Lagrange basis of a 3D element
// at the reference point pt. N must have length p*p*p; Na, Nb and Nc,
// when non-nil, receive the derivatives w.r.t. ξ, η and ζ. The
// emission order is ii + p*jj + p*p*kk
func Interp3d(pt []float64, knots []float64, N, Na, Nb, Nc []float64) {
	p := len(knots)
	var fa, fb, fc lag1d
	derivs := Na != nil
	if derivs {
		Lagrange1d(fa.n[:p], fa.dn[:p], pt[0], knots)
		Lagrange1d(fb.n[:p], fb.dn[:p], pt[1], knots)
		Lagrange1d(fc.n[:p], fc.dn[:p], pt[2], knots)
	} else {
		Lagrange1d(fa.n[:p], nil, pt[0], knots)
		Lagrange1d(fb.n[:p], nil, pt[1], knots)
		Lagrange1d(fc.n[:p], nil, pt[2], knots)
	}
	for kk := 0; kk < p; kk++ {
		for jj := 0; jj < p; jj++ {
			for ii := 0; ii < p; ii++ {
				m := ii + p*jj + p*p*kk
				N[m] = fa.n[ii] * fb.n[jj] * fc.n[kk]
				if derivs {
					Na[m] = fa.dn[ii] * fb.n[jj] * fc.n[kk]
					Nb[m] = fa.n[ii] * fb.dn[jj] * fc.n[kk]
					Nc[m] = fa.n[ii] * fb.n[jj] * fc.dn[kk]
				}
			}
		}
	}
}
