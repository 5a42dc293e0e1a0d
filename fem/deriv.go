// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/io"

	"github.com/peekwez/tmr/forest"
	"github.com/peekwez/tmr/nvec"
	"github.com/peekwez/tmr/shp"
)

// elemIds resolves the iteration set: all elements when subset is nil
func elemIds(nelems int, subset []int) (n int, at func(int) int) {
	if subset == nil {
		return nelems, func(i int) int { return i }
	}
	return len(subset), func(i int) int { return subset[i] }
}

// ComputeLocalWeights fills the weight vector with the number of times
// each node is referenced by the elements through a non-dependent
// slot, including inter-process references. subset restricts the
// iteration to the listed element ids (nil means all)
func ComputeLocalWeights(f *forest.Forest, weights *nvec.Vec, subset []int) {
	weights.Zero()
	npe := f.NumElemNodes()
	welem := make([]float64, npe)
	n, at := elemIds(f.Nelems, subset)
	for index := 0; index < n; index++ {
		nodes := f.ElemNodes(at(index))
		for j, c := range nodes {
			welem[j] = 1
			if c < 0 {
				welem[j] = 0
			}
		}
		weights.SetValues(nodes, welem, nvec.Add)
	}
	weights.BeginSetValues(nvec.Add)
	weights.EndSetValues(nvec.Add)
	weights.BeginDistributeValues()
	weights.EndDistributeValues()
}

// ComputeNodeDeriv2d projects the nodal field uvec of a 2D shell
// forest onto weighted nodal spatial derivatives: at each element knot
// position the physical-space gradient of the interpolated field is
// sampled, scaled by the inverse nodal weight and accumulated. The
// result carries 3 derivative values (x,y,z) per variable per node
func ComputeNodeDeriv2d(f *forest.Forest, varsPerNode int, uvec, weights, uderiv *nvec.Vec, subset []int) {
	uderiv.Zero()

	order, knots := f.InterpKnots()
	derivPerNode := 3 * varsPerNode
	npe := order * order

	// element scratch
	Ud := make([]float64, 2*varsPerNode)
	uelem := make([]float64, npe*varsPerNode)
	delem := make([]float64, npe*derivPerNode)
	welem := make([]float64, npe)
	Xpts := make([]float64, 3*npe)
	N := make([]float64, npe)
	Na := make([]float64, npe)
	Nb := make([]float64, npe)
	var Xd, J [9]float64

	n, at := elemIds(f.Nelems, subset)
	for index := 0; index < n; index++ {
		elem := at(index)
		nodes := f.ElemNodes(elem)
		weights.GetValues(nodes, welem)
		uvec.GetValues(nodes, uelem)
		f.ElemXpts(elem, Xpts)

		d := 0
		for jj := 0; jj < order; jj++ {
			for ii := 0; ii < order; ii++ {
				pt := []float64{knots[ii], knots[jj]}
				f.EvalInterp(pt, N, Na, Nb, nil)

				detJ, err := shp.JacobianTrans2d(Xpts, Na, Nb, Xd[:], J[:], npe)
				if err != nil {
					io.Pfred("node derivative: element %d: %v\n", elem, err)
					detJ = 0
				}

				for k := 0; k < 2*varsPerNode; k++ {
					Ud[k] = 0
				}
				for k := 0; k < varsPerNode; k++ {
					for i := 0; i < npe; i++ {
						Ud[2*k] += uelem[varsPerNode*i+k] * Na[i]
						Ud[2*k+1] += uelem[varsPerNode*i+k] * Nb[i]
					}
				}

				m := ii + jj*order
				if nodes[m] >= 0 && detJ > 0 {
					winv := 1.0 / welem[m]
					for k := 0; k < varsPerNode; k++ {
						delem[d] = winv * (Ud[2*k]*J[0] + Ud[2*k+1]*J[1])
						delem[d+1] = winv * (Ud[2*k]*J[3] + Ud[2*k+1]*J[4])
						delem[d+2] = winv * (Ud[2*k]*J[6] + Ud[2*k+1]*J[7])
						d += 3
					}
				} else {
					for k := 0; k < varsPerNode; k++ {
						delem[d], delem[d+1], delem[d+2] = 0, 0, 0
						d += 3
					}
				}
			}
		}

		uderiv.SetValues(nodes, delem, nvec.Add)
	}

	uderiv.BeginSetValues(nvec.Add)
	uderiv.EndSetValues(nvec.Add)
	uderiv.BeginDistributeValues()
	uderiv.EndDistributeValues()
}

// ComputeNodeDeriv3d is the octree-forest variant of the nodal
// derivative projection
func ComputeNodeDeriv3d(f *forest.Forest, varsPerNode int, uvec, weights, uderiv *nvec.Vec, subset []int) {
	uderiv.Zero()

	order, knots := f.InterpKnots()
	derivPerNode := 3 * varsPerNode
	npe := order * order * order

	Ud := make([]float64, 3*varsPerNode)
	uelem := make([]float64, npe*varsPerNode)
	delem := make([]float64, npe*derivPerNode)
	welem := make([]float64, npe)
	Xpts := make([]float64, 3*npe)
	N := make([]float64, npe)
	Na := make([]float64, npe)
	Nb := make([]float64, npe)
	Nc := make([]float64, npe)
	var Xd, J [9]float64

	n, at := elemIds(f.Nelems, subset)
	for index := 0; index < n; index++ {
		elem := at(index)
		nodes := f.ElemNodes(elem)
		weights.GetValues(nodes, welem)
		uvec.GetValues(nodes, uelem)
		f.ElemXpts(elem, Xpts)

		d := 0
		for kk := 0; kk < order; kk++ {
			for jj := 0; jj < order; jj++ {
				for ii := 0; ii < order; ii++ {
					pt := []float64{knots[ii], knots[jj], knots[kk]}
					f.EvalInterp(pt, N, Na, Nb, Nc)

					detJ, err := shp.JacobianTrans3d(Xpts, Na, Nb, Nc, Xd[:], J[:], npe)
					if err != nil {
						io.Pfred("node derivative: element %d: %v\n", elem, err)
						detJ = 0
					}

					for k := 0; k < 3*varsPerNode; k++ {
						Ud[k] = 0
					}
					for k := 0; k < varsPerNode; k++ {
						for i := 0; i < npe; i++ {
							Ud[3*k] += uelem[varsPerNode*i+k] * Na[i]
							Ud[3*k+1] += uelem[varsPerNode*i+k] * Nb[i]
							Ud[3*k+2] += uelem[varsPerNode*i+k] * Nc[i]
						}
					}

					m := ii + jj*order + kk*order*order
					if nodes[m] >= 0 && detJ > 0 {
						winv := 1.0 / welem[m]
						for k := 0; k < varsPerNode; k++ {
							delem[d] = winv * (Ud[3*k]*J[0] + Ud[3*k+1]*J[1] + Ud[3*k+2]*J[2])
							delem[d+1] = winv * (Ud[3*k]*J[3] + Ud[3*k+1]*J[4] + Ud[3*k+2]*J[5])
							delem[d+2] = winv * (Ud[3*k]*J[6] + Ud[3*k+1]*J[7] + Ud[3*k+2]*J[8])
							d += 3
						}
					} else {
						for k := 0; k < varsPerNode; k++ {
							delem[d], delem[d+1], delem[d+2] = 0, 0, 0
							d += 3
						}
					}
				}
			}
		}

		uderiv.SetValues(nodes, delem, nvec.Add)
	}

	uderiv.BeginSetValues(nvec.Add)
	uderiv.EndSetValues(nvec.Add)
	uderiv.BeginDistributeValues()
	uderiv.EndDistributeValues()
}
