// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/peekwez/tmr/forest"
	"github.com/peekwez/tmr/nvec"
	"github.com/peekwez/tmr/shp"
)

// AddRefinedSolution2d reconstructs the shell solution element by
// element onto the refined mesh: the interpolated coarse field plus
// the enrichment (or only the enrichment when computeDifference is
// true) is sampled at the refined knot positions and accumulated with
// add semantics. Dependent slots are zeroed before assembly
func AddRefinedSolution2d(varsPerNode int, f, fr *forest.Forest, uvec, uderiv, urefined *nvec.Vec, computeDifference bool, subset []int) {
	order, knots := f.InterpKnots()
	refOrder, refKnots := fr.InterpKnots()
	numNodes := order * order
	numRefined := refOrder * refOrder
	derivPerNode := 3 * varsPerNode

	nenrich := shp.NumEnrich2d(order)
	uelem := make([]float64, varsPerNode*numNodes)
	delem := make([]float64, derivPerNode*numNodes)
	ubar := make([]float64, varsPerNode*nenrich)
	uref := make([]float64, varsPerNode*numRefined)
	Xpts := make([]float64, 3*numRefined)
	N := make([]float64, numNodes)
	Nr := make([]float64, shp.MAX2DENRICH)

	n, at := elemIds(f.Nelems, subset)
	for index := 0; index < n; index++ {
		elem := at(index)
		nodes := f.ElemNodes(elem)
		refNodes := fr.ElemNodes(elem)
		chk.IntAssert(len(refNodes), numRefined)

		uvec.GetValues(nodes, uelem)
		uderiv.GetValues(nodes, delem)
		fr.ElemXpts(elem, Xpts)

		ComputeElemRecon2d(varsPerNode, f, fr, Xpts, uelem, delem, ubar)

		for i := range uref {
			uref[i] = 0
		}
		for m := 0; m < refOrder; m++ {
			for nn := 0; nn < refOrder; nn++ {
				pt := []float64{refKnots[nn], refKnots[m]}
				u := uref[varsPerNode*(nn+refOrder*m):]

				if !computeDifference {
					f.EvalInterp(pt, N, nil, nil, nil)
					for k := 0; k < numNodes; k++ {
						for i := 0; i < varsPerNode; i++ {
							u[i] += N[k] * uelem[varsPerNode*k+i]
						}
					}
				}

				shp.EnrichFuncs2d(order, pt, knots, Nr, nil, nil)
				for k := 0; k < nenrich; k++ {
					for i := 0; i < varsPerNode; i++ {
						u[i] += Nr[k] * ubar[varsPerNode*k+i]
					}
				}
			}
		}

		// zero the contribution if it goes to a dependent node
		for i, c := range refNodes {
			if c < 0 {
				for j := 0; j < varsPerNode; j++ {
					uref[varsPerNode*i+j] = 0
				}
			}
		}

		urefined.SetValues(refNodes, uref, nvec.Add)
	}
}

// AddRefinedSolution3d is the octree-forest variant of the refined
// field assembly
func AddRefinedSolution3d(varsPerNode int, f, fr *forest.Forest, uvec, uderiv, urefined *nvec.Vec, computeDifference bool, subset []int) {
	order, knots := f.InterpKnots()
	refOrder, refKnots := fr.InterpKnots()
	numNodes := order * order * order
	numRefined := refOrder * refOrder * refOrder
	derivPerNode := 3 * varsPerNode

	nenrich := shp.NumEnrich3d(order)
	uelem := make([]float64, varsPerNode*numNodes)
	delem := make([]float64, derivPerNode*numNodes)
	ubar := make([]float64, varsPerNode*nenrich)
	uref := make([]float64, varsPerNode*numRefined)
	Xpts := make([]float64, 3*numRefined)
	N := make([]float64, numNodes)
	Nr := make([]float64, shp.MAX3DENRICH)

	n, at := elemIds(f.Nelems, subset)
	for index := 0; index < n; index++ {
		elem := at(index)
		nodes := f.ElemNodes(elem)
		refNodes := fr.ElemNodes(elem)
		chk.IntAssert(len(refNodes), numRefined)

		uvec.GetValues(nodes, uelem)
		uderiv.GetValues(nodes, delem)
		fr.ElemXpts(elem, Xpts)

		ComputeElemRecon3d(varsPerNode, f, fr, Xpts, uelem, delem, ubar)

		for i := range uref {
			uref[i] = 0
		}
		for p := 0; p < refOrder; p++ {
			for m := 0; m < refOrder; m++ {
				for nn := 0; nn < refOrder; nn++ {
					pt := []float64{refKnots[nn], refKnots[m], refKnots[p]}
					offset := nn + refOrder*m + refOrder*refOrder*p
					u := uref[varsPerNode*offset:]

					if !computeDifference {
						f.EvalInterp(pt, N, nil, nil, nil)
						for k := 0; k < numNodes; k++ {
							for i := 0; i < varsPerNode; i++ {
								u[i] += N[k] * uelem[varsPerNode*k+i]
							}
						}
					}

					shp.EnrichFuncs3d(order, pt, Nr, nil, nil, nil)
					for k := 0; k < nenrich; k++ {
						for i := 0; i < varsPerNode; i++ {
							u[i] += Nr[k] * ubar[varsPerNode*k+i]
						}
					}
				}
			}
		}

		for i, c := range refNodes {
			if c < 0 {
				for j := 0; j < varsPerNode; j++ {
					uref[varsPerNode*i+j] = 0
				}
			}
		}

		urefined.SetValues(refNodes, uref, nvec.Add)
	}
}

// ComputeInterpSolution interpolates the coarse field directly at the
// refined-mesh knot positions, skipping the enrichment. Every refined
// node receives a consistent value, so insert-nonzero semantics apply
// and no averaging is needed
func ComputeInterpSolution(d *Domain, uvec, urefined *nvec.Vec) {
	f, fr := d.Forest, d.ForestRefined
	varsPerNode := d.VarsPerNode
	order, _ := f.InterpKnots()
	refOrder, refKnots := fr.InterpKnots()

	numNodes := order * order
	numRefined := refOrder * refOrder
	if f.Ndim == 3 {
		numNodes *= order
		numRefined *= refOrder
	}

	urefined.Zero()
	uvec.BeginDistributeValues()
	uvec.EndDistributeValues()

	uelem := make([]float64, varsPerNode*numNodes)
	uinterp := make([]float64, varsPerNode*numRefined)
	N := make([]float64, numNodes)

	for elem := 0; elem < f.Nelems; elem++ {
		nodes := f.ElemNodes(elem)
		refNodes := fr.ElemNodes(elem)
		uvec.GetValues(nodes, uelem)

		for i := range uinterp {
			uinterp[i] = 0
		}
		kmax := refOrder
		if f.Ndim == 2 {
			kmax = 1
		}
		for p := 0; p < kmax; p++ {
			for m := 0; m < refOrder; m++ {
				for nn := 0; nn < refOrder; nn++ {
					var pt []float64
					offset := nn + refOrder*m
					if f.Ndim == 3 {
						pt = []float64{refKnots[nn], refKnots[m], refKnots[p]}
						offset += refOrder * refOrder * p
					} else {
						pt = []float64{refKnots[nn], refKnots[m]}
					}
					f.EvalInterp(pt, N, nil, nil, nil)
					v := uinterp[varsPerNode*offset:]
					for k := 0; k < numNodes; k++ {
						for kk := 0; kk < varsPerNode; kk++ {
							v[kk] += uelem[varsPerNode*k+kk] * N[k]
						}
					}
				}
			}
		}

		urefined.SetValues(refNodes, uinterp, nvec.InsertNonzero)
	}

	urefined.BeginSetValues(nvec.InsertNonzero)
	urefined.EndSetValues(nvec.InsertNonzero)
	urefined.BeginDistributeValues()
	urefined.EndDistributeValues()
}

// ComputeReconSolution computes the reconstructed (enriched) solution
// on the refined mesh. Elements are processed grouped by topological
// name so that the nodal derivative projection never mixes fields
// across named regions. The final pass divides every shared refined
// node by its element count, implementing the patch average at
// element boundaries
func ComputeReconSolution(d *Domain, uvec, urefined *nvec.Vec, computeDifference bool) {
	f, fr := d.Forest, d.ForestRefined
	varsPerNode := d.VarsPerNode

	urefined.Zero()
	uvec.BeginDistributeValues()
	uvec.EndDistributeValues()

	uderiv := d.NewVec(3 * varsPerNode)
	weights := d.NewVec(1)

	groups := [][]int{nil}
	if topo := f.GetTopology(); topo != nil {
		groups = groups[:0]
		for _, name := range topo.Names() {
			groups = append(groups, topo.Elems(name))
		}
	}

	for _, subset := range groups {
		ComputeLocalWeights(f, weights, subset)
		if f.Ndim == 2 {
			ComputeNodeDeriv2d(f, varsPerNode, uvec, weights, uderiv, subset)
			AddRefinedSolution2d(varsPerNode, f, fr, uvec, uderiv, urefined, computeDifference, subset)
		} else {
			ComputeNodeDeriv3d(f, varsPerNode, uvec, weights, uderiv, subset)
			AddRefinedSolution3d(varsPerNode, f, fr, uvec, uderiv, urefined, computeDifference, subset)
		}
	}

	urefined.BeginSetValues(nvec.Add)
	urefined.EndSetValues(nvec.Add)

	// normalize by the refined-mesh weights
	weightsRefined := d.NewRefinedVec(1)
	ComputeLocalWeights(fr, weightsRefined, nil)

	u := urefined.GetArray()
	w := weightsRefined.GetArray()
	for i := 0; i < len(w); i++ {
		if w[i] > 0 {
			winv := 1.0 / w[i]
			for j := 0; j < varsPerNode; j++ {
				u[varsPerNode*i+j] *= winv
			}
		}
	}

	urefined.BeginDistributeValues()
	urefined.EndDistributeValues()
}
