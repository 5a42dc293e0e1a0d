// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"

	"github.com/peekwez/tmr/forest"
	"github.com/peekwez/tmr/shp"
)

// lsRcond is the rank-revealing tolerance of the least-squares solves:
// singular values below lsRcond times the largest one are treated as
// zero, so a singular patch degrades to the minimum-norm enrichment
const lsRcond = 1e-12

// lsSolve computes the minimum-norm least-squares solution of
// A·x = b with a rank-revealing SVD
func lsSolve(x *mat.Dense, A, b *mat.Dense) bool {
	var svd mat.SVD
	if !svd.Factorize(A, mat.SVDThin) {
		return false
	}
	rank := svd.Rank(lsRcond)
	if rank == 0 {
		return false
	}
	svd.SolveTo(x, b, rank)
	return true
}

// ComputeElemRecon2d solves the patch least-squares problem of one
// shell element: find the enrichment coefficients ubar that best
// reproduce the prescribed nodal derivatives uderiv, given the nodal
// values uvals and the (refined) element node locations Xpts. The
// rows are expressed in the local (d1,d2) frame, two per knot
// position. ubar is filled with nenrich blocks of varsPerNode values
func ComputeElemRecon2d(varsPerNode int, f, fr *forest.Forest, Xpts, uvals, uderiv, ubar []float64) {
	order, knots := f.InterpKnots()
	refOrder, _ := fr.InterpKnots()

	nenrich := shp.NumEnrich2d(order)
	neq := 2 * order * order
	derivPerNode := 3 * varsPerNode
	wvals := shp.KnotWeights(order)

	A := mat.NewDense(neq, nenrich, nil)
	b := mat.NewDense(neq, varsPerNode, nil)

	nn := order * order
	nr := refOrder * refOrder
	N := make([]float64, nr)
	Na := make([]float64, nr)
	Nb := make([]float64, nr)
	Nrf := make([]float64, shp.MAX2DENRICH)
	Nar := make([]float64, shp.MAX2DENRICH)
	Nbr := make([]float64, shp.MAX2DENRICH)
	var Xd, J [9]float64
	d1 := make([]float64, 3)
	d2 := make([]float64, 3)

	c := 0
	for jj := 0; jj < order; jj++ {
		for ii := 0; ii < order; ii++ {
			pt := []float64{knots[ii], knots[jj]}
			w := wvals[ii] * wvals[jj]

			// Jacobian from the refined node locations
			fr.EvalInterp(pt, N, Na, Nb, nil)
			_, err := shp.JacobianTrans2d(Xpts, Na, Nb, Xd[:], J[:], nr)
			if err != nil {
				io.Pfred("element reconstruction: %v\n", err)
				c += 2
				continue
			}
			shp.ShellFrame(Xd[:], d1, d2)

			// prescribed derivatives projected onto the local frame
			ud := uderiv[derivPerNode*(ii+order*jj):]
			for k := 0; k < varsPerNode; k++ {
				d := ud[3*k : 3*k+3]
				b.Set(c, k, w*(d1[0]*d[0]+d1[1]*d[1]+d1[2]*d[2]))
				b.Set(c+1, k, w*(d2[0]*d[0]+d2[1]*d[1]+d2[2]*d[2]))
			}

			// subtract the low-order interpolation's derivative
			f.EvalInterp(pt, N, Na, Nb, nil)
			for k := 0; k < varsPerNode; k++ {
				var Ua, Ub float64
				for i := 0; i < nn; i++ {
					Ua += uvals[varsPerNode*i+k] * Na[i]
					Ub += uvals[varsPerNode*i+k] * Nb[i]
				}
				var d [3]float64
				d[0] = Ua*J[0] + Ub*J[1]
				d[1] = Ua*J[3] + Ub*J[4]
				d[2] = Ua*J[6] + Ub*J[7]
				b.Set(c, k, b.At(c, k)-w*(d1[0]*d[0]+d1[1]*d[1]+d1[2]*d[2]))
				b.Set(c+1, k, b.At(c+1, k)-w*(d2[0]*d[0]+d2[1]*d[1]+d2[2]*d[2]))
			}

			// columns from the enrichment derivatives
			shp.EnrichFuncs2d(order, pt, knots, Nrf, Nar, Nbr)
			for i := 0; i < nenrich; i++ {
				var d [3]float64
				d[0] = Nar[i]*J[0] + Nbr[i]*J[1]
				d[1] = Nar[i]*J[3] + Nbr[i]*J[4]
				d[2] = Nar[i]*J[6] + Nbr[i]*J[7]
				A.Set(c, i, w*(d1[0]*d[0]+d1[1]*d[1]+d1[2]*d[2]))
				A.Set(c+1, i, w*(d2[0]*d[0]+d2[1]*d[1]+d2[2]*d[2]))
			}
			c += 2
		}
	}

	var x mat.Dense
	if !lsSolve(&x, A, b) {
		for i := range ubar[:nenrich*varsPerNode] {
			ubar[i] = 0
		}
		return
	}
	for i := 0; i < nenrich; i++ {
		for j := 0; j < varsPerNode; j++ {
			ubar[varsPerNode*i+j] = x.At(i, j)
		}
	}
}

// ComputeElemRecon3d is the octree-forest variant of the patch
// reconstruction: three global-frame rows per knot position
func ComputeElemRecon3d(varsPerNode int, f, fr *forest.Forest, Xpts, uvals, uderiv, ubar []float64) {
	order, knots := f.InterpKnots()
	refOrder, _ := fr.InterpKnots()

	nenrich := shp.NumEnrich3d(order)
	neq := 3 * order * order * order
	derivPerNode := 3 * varsPerNode
	wvals := shp.KnotWeights(order)

	A := mat.NewDense(neq, nenrich, nil)
	b := mat.NewDense(neq, varsPerNode, nil)

	nn := order * order * order
	nr := refOrder * refOrder * refOrder
	N := make([]float64, nr)
	Na := make([]float64, nr)
	Nb := make([]float64, nr)
	Nc := make([]float64, nr)
	Nrf := make([]float64, shp.MAX3DENRICH)
	Nar := make([]float64, shp.MAX3DENRICH)
	Nbr := make([]float64, shp.MAX3DENRICH)
	Ncr := make([]float64, shp.MAX3DENRICH)
	var Xd, J [9]float64

	c := 0
	for kk := 0; kk < order; kk++ {
		for jj := 0; jj < order; jj++ {
			for ii := 0; ii < order; ii++ {
				pt := []float64{knots[ii], knots[jj], knots[kk]}
				w := wvals[ii] * wvals[jj] * wvals[kk]

				fr.EvalInterp(pt, N, Na, Nb, Nc)
				_, err := shp.JacobianTrans3d(Xpts, Na, Nb, Nc, Xd[:], J[:], nr)
				if err != nil {
					io.Pfred("element reconstruction: %v\n", err)
					c += 3
					continue
				}

				ud := uderiv[derivPerNode*(ii+order*jj+order*order*kk):]
				for k := 0; k < varsPerNode; k++ {
					d := ud[3*k : 3*k+3]
					b.Set(c, k, w*d[0])
					b.Set(c+1, k, w*d[1])
					b.Set(c+2, k, w*d[2])
				}

				f.EvalInterp(pt, N, Na, Nb, Nc)
				for k := 0; k < varsPerNode; k++ {
					var Ua, Ub, Uc float64
					for i := 0; i < nn; i++ {
						Ua += uvals[varsPerNode*i+k] * Na[i]
						Ub += uvals[varsPerNode*i+k] * Nb[i]
						Uc += uvals[varsPerNode*i+k] * Nc[i]
					}
					b.Set(c, k, b.At(c, k)-w*(Ua*J[0]+Ub*J[1]+Uc*J[2]))
					b.Set(c+1, k, b.At(c+1, k)-w*(Ua*J[3]+Ub*J[4]+Uc*J[5]))
					b.Set(c+2, k, b.At(c+2, k)-w*(Ua*J[6]+Ub*J[7]+Uc*J[8]))
				}

				shp.EnrichFuncs3d(order, pt, Nrf, Nar, Nbr, Ncr)
				for i := 0; i < nenrich; i++ {
					var d [3]float64
					d[0] = Nar[i]*J[0] + Nbr[i]*J[1] + Ncr[i]*J[2]
					d[1] = Nar[i]*J[3] + Nbr[i]*J[4] + Ncr[i]*J[5]
					d[2] = Nar[i]*J[6] + Nbr[i]*J[7] + Ncr[i]*J[8]
					A.Set(c, i, w*d[0])
					A.Set(c+1, i, w*d[1])
					A.Set(c+2, i, w*d[2])
				}
				c += 3
			}
		}
	}

	var x mat.Dense
	if !lsSolve(&x, A, b) {
		for i := range ubar[:nenrich*varsPerNode] {
			ubar[i] = 0
		}
		return
	}
	for i := 0; i < nenrich; i++ {
		for j := 0; j < varsPerNode; j++ {
			ubar[varsPerNode*i+j] = x.At(i, j)
		}
	}
}
