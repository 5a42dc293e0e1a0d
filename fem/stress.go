// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"

	"github.com/peekwez/tmr/nvec"
	"github.com/peekwez/tmr/par"
	"github.com/peekwez/tmr/shp"
)

// StressConstraint aggregates the pointwise failure value of the
// reconstructed stress field into a smooth KS aggregate:
//
//	ks = max(f) + log( ∫ exp(k·(f - max(f))) dV ) / k
//
// Because the exponential term is integrated over the volume, ks lies
// above max(f) only when that integral exceeds one.
//
// The strain at each quadrature point is evaluated from the
// reconstruction (coarse interpolation plus enrichment), so the
// constraint senses stress gradients the nodal field alone cannot
// represent. The sensitivity threads the adjoint back through the
// reconstruction operator itself
type StressConstraint struct {
	dom      *Domain
	ksWeight float64

	// persistent vectors
	uvec      *nvec.Vec
	weights   *nvec.Vec
	uderiv    *nvec.Vec
	dfduderiv *nvec.Vec

	// KS state from the last primal evaluation
	ksMaxFail float64
	ksFailSum float64

	// scratch
	vars     []float64
	varderiv []float64
	welem    []float64
	ubar     []float64
	Xpts     []float64
}

// NewStressConstraint creates the constraint over the domain's coarse
// forest and its order-elevated duplicate. The domain must carry 3
// variables per node and a refined forest of order+1
func NewStressConstraint(d *Domain, ksWeight float64) (o *StressConstraint) {
	if d.ForestRefined == nil {
		chk.Panic("stress constraint requires the order-elevated forest")
	}
	chk.IntAssert(d.VarsPerNode, 3)
	chk.IntAssert(d.ForestRefined.Order, d.Forest.Order+1)

	o = &StressConstraint{
		dom:      d,
		ksWeight: ksWeight,
	}
	o.uvec = d.NewVec(3)
	o.weights = d.NewVec(1)
	ComputeLocalWeights(d.Forest, o.weights, nil)
	o.uderiv = d.NewVec(9)
	o.dfduderiv = d.NewVec(9)

	numNodes := d.Forest.NumElemNodes()
	numRefined := d.ForestRefined.NumElemNodes()
	o.vars = make([]float64, 3*numNodes)
	o.varderiv = make([]float64, 9*numNodes)
	o.welem = make([]float64, numNodes)
	o.ubar = make([]float64, 3*shp.MAX3DENRICH)
	o.Xpts = make([]float64, 3*numRefined)
	return
}

// evalStrain computes the strain at the reference point pt from the
// coarse nodal field and the enrichment coefficients, using the
// refined node locations for the geometry. It returns det(dxdR)
func (o *StressConstraint) evalStrain(pt, vars, ubar, J, e []float64) (detJ float64, err error) {
	f, fr := o.dom.Forest, o.dom.ForestRefined
	order, _ := f.InterpKnots()
	numNodes := order * order * order
	numRefined := fr.NumElemNodes()

	N := make([]float64, numRefined)
	Na := make([]float64, numRefined)
	Nb := make([]float64, numRefined)
	Nc := make([]float64, numRefined)

	// gradient of the coarse interpolation in reference coords
	f.EvalInterp(pt, N, Na, Nb, Nc)
	var Ud [9]float64
	for i := 0; i < numNodes; i++ {
		ux, uy, uz := vars[3*i], vars[3*i+1], vars[3*i+2]
		Ud[0] += Na[i] * ux
		Ud[1] += Nb[i] * ux
		Ud[2] += Nc[i] * ux
		Ud[3] += Na[i] * uy
		Ud[4] += Nb[i] * uy
		Ud[5] += Nc[i] * uy
		Ud[6] += Na[i] * uz
		Ud[7] += Nb[i] * uz
		Ud[8] += Nc[i] * uz
	}

	// geometry from the refined mesh
	fr.EvalInterp(pt, N, Na, Nb, Nc)
	var Xd [9]float64
	detJ, err = shp.JacobianTrans3d(o.Xpts, Na, Nb, Nc, Xd[:], J, numRefined)
	if err != nil {
		return
	}

	// enrichment contribution
	nenrich := shp.NumEnrich3d(order)
	Nr := make([]float64, shp.MAX3DENRICH)
	Nar := make([]float64, shp.MAX3DENRICH)
	Nbr := make([]float64, shp.MAX3DENRICH)
	Ncr := make([]float64, shp.MAX3DENRICH)
	shp.EnrichFuncs3d(order, pt, Nr, Nar, Nbr, Ncr)
	for i := 0; i < nenrich; i++ {
		bx, by, bz := ubar[3*i], ubar[3*i+1], ubar[3*i+2]
		Ud[0] += bx * Nar[i]
		Ud[1] += bx * Nbr[i]
		Ud[2] += bx * Ncr[i]
		Ud[3] += by * Nar[i]
		Ud[4] += by * Nbr[i]
		Ud[5] += by * Ncr[i]
		Ud[6] += bz * Nar[i]
		Ud[7] += bz * Nbr[i]
		Ud[8] += bz * Ncr[i]
	}

	// displacement gradient in physical coords
	var Ux [9]float64
	for r := 0; r < 3; r++ {
		Ux[3*r] = Ud[3*r]*J[0] + Ud[3*r+1]*J[1] + Ud[3*r+2]*J[2]
		Ux[3*r+1] = Ud[3*r]*J[3] + Ud[3*r+1]*J[4] + Ud[3*r+2]*J[5]
		Ux[3*r+2] = Ud[3*r]*J[6] + Ud[3*r+1]*J[7] + Ud[3*r+2]*J[8]
	}

	e[0] = Ux[0]
	e[1] = Ux[4]
	e[2] = Ux[8]
	e[3] = Ux[5] + Ux[7]
	e[4] = Ux[2] + Ux[6]
	e[5] = Ux[1] + Ux[3]
	return
}

// EvalConstraint evaluates the KS functional for the state vector u.
// The quadrature sweep runs twice: the first pass locates the global
// maximum failure value, the second accumulates the exponential sum
func (o *StressConstraint) EvalConstraint(u *nvec.Vec) float64 {
	d := o.dom
	f, fr := d.Forest, d.ForestRefined
	order, _ := f.InterpKnots()

	o.uvec.CopyValues(u)
	o.uvec.BeginDistributeValues()
	o.uvec.EndDistributeValues()

	ComputeNodeDeriv3d(f, 3, o.uvec, o.weights, o.uderiv, nil)

	pts, wts := shp.GaussPtsWts(order + 1)
	nquad := order + 1

	var J [9]float64
	e := make([]float64, 6)

	// phase A: locate the maximum failure value
	o.ksMaxFail = -1e20
	for i := 0; i < f.Nelems; i++ {
		con := d.Elems[i].GetConstitutive()
		nodes := f.ElemNodes(i)
		o.uvec.GetValues(nodes, o.vars)
		o.uderiv.GetValues(nodes, o.varderiv)
		fr.ElemXpts(i, o.Xpts)

		ComputeElemRecon3d(3, f, fr, o.Xpts, o.vars, o.varderiv, o.ubar)

		for kk := 0; kk < nquad; kk++ {
			for jj := 0; jj < nquad; jj++ {
				for ii := 0; ii < nquad; ii++ {
					pt := []float64{pts[ii], pts[jj], pts[kk]}
					_, err := o.evalStrain(pt, o.vars, o.ubar, J[:], e)
					if err != nil {
						io.Pfred("stress constraint: element %d: %v\n", i, err)
						continue
					}
					fval := con.Failure(pt, e)
					if fval > o.ksMaxFail {
						o.ksMaxFail = fval
					}
				}
			}
		}
	}
	o.ksMaxFail = par.MaxScalar(o.ksMaxFail)

	// phase B: accumulate the weighted exponential sum
	o.ksFailSum = 0
	for i := 0; i < f.Nelems; i++ {
		con := d.Elems[i].GetConstitutive()
		nodes := f.ElemNodes(i)
		o.uvec.GetValues(nodes, o.vars)
		o.uderiv.GetValues(nodes, o.varderiv)
		fr.ElemXpts(i, o.Xpts)

		ComputeElemRecon3d(3, f, fr, o.Xpts, o.vars, o.varderiv, o.ubar)

		for kk := 0; kk < nquad; kk++ {
			for jj := 0; jj < nquad; jj++ {
				for ii := 0; ii < nquad; ii++ {
					pt := []float64{pts[ii], pts[jj], pts[kk]}
					detJ, err := o.evalStrain(pt, o.vars, o.ubar, J[:], e)
					if err != nil {
						continue
					}
					detJ *= wts[ii] * wts[jj] * wts[kk]
					fval := con.Failure(pt, e)
					o.ksFailSum += detJ * math.Exp(o.ksWeight*(fval-o.ksMaxFail))
				}
			}
		}
	}
	o.ksFailSum = par.SumScalar(o.ksFailSum)

	ksFuncVal := o.ksMaxFail + math.Log(o.ksFailSum)/o.ksWeight
	if par.Rank() == 0 {
		io.Pf("KS stress value:  %25.10e\n", ksFuncVal)
		io.Pf("Max stress value: %25.10e\n", o.ksMaxFail)
	}
	return ksFuncVal
}

// MaxFail returns the maximum pointwise failure value located by the
// last primal evaluation
func (o *StressConstraint) MaxFail() float64 {
	return o.ksMaxFail
}

// SampleFailure evaluates the reconstructed failure field at the
// (order+1)-point Gauss grid of every element. It returns the sample
// positions (3 per sample), the failure values and the number of grid
// points per direction, for the diagnostic writers
func (o *StressConstraint) SampleFailure(u *nvec.Vec) (pts, fvals []float64, nquad int) {
	d := o.dom
	f, fr := d.Forest, d.ForestRefined
	order, _ := f.InterpKnots()
	numRefined := fr.NumElemNodes()

	o.uvec.CopyValues(u)
	o.uvec.BeginDistributeValues()
	o.uvec.EndDistributeValues()

	ComputeNodeDeriv3d(f, 3, o.uvec, o.weights, o.uderiv, nil)

	gp, _ := shp.GaussPtsWts(order + 1)
	nquad = order + 1

	N := make([]float64, numRefined)
	var J [9]float64
	e := make([]float64, 6)

	for i := 0; i < f.Nelems; i++ {
		con := d.Elems[i].GetConstitutive()
		nodes := f.ElemNodes(i)
		o.uvec.GetValues(nodes, o.vars)
		o.uderiv.GetValues(nodes, o.varderiv)
		fr.ElemXpts(i, o.Xpts)

		ComputeElemRecon3d(3, f, fr, o.Xpts, o.vars, o.varderiv, o.ubar)

		for kk := 0; kk < nquad; kk++ {
			for jj := 0; jj < nquad; jj++ {
				for ii := 0; ii < nquad; ii++ {
					pt := []float64{gp[ii], gp[jj], gp[kk]}
					_, err := o.evalStrain(pt, o.vars, o.ubar, J[:], e)
					if err != nil {
						pts = append(pts, 0, 0, 0)
						fvals = append(fvals, 0)
						continue
					}
					fval := con.Failure(pt, e)

					fr.EvalInterp(pt, N, nil, nil, nil)
					var x, y, z float64
					for k := 0; k < numRefined; k++ {
						x += o.Xpts[3*k] * N[k]
						y += o.Xpts[3*k+1] * N[k]
						z += o.Xpts[3*k+2] * N[k]
					}
					pts = append(pts, x, y, z)
					fvals = append(fvals, fval)
				}
			}
		}
	}
	return
}

// addStrainDeriv back-propagates dfde through the strain expression:
// the coarse shape functions feed dfdu and the enrichment basis feeds
// dfdubar, both scaled by α
func (o *StressConstraint) addStrainDeriv(pt, J []float64, α float64, dfde, dfdu, dfdubar []float64) {
	f := o.dom.Forest
	order, _ := f.InterpKnots()
	numNodes := order * order * order

	N := make([]float64, numNodes)
	Na := make([]float64, numNodes)
	Nb := make([]float64, numNodes)
	Nc := make([]float64, numNodes)
	f.EvalInterp(pt, N, Na, Nb, Nc)

	for i := 0; i < numNodes; i++ {
		Dx := Na[i]*J[0] + Nb[i]*J[1] + Nc[i]*J[2]
		Dy := Na[i]*J[3] + Nb[i]*J[4] + Nc[i]*J[5]
		Dz := Na[i]*J[6] + Nb[i]*J[7] + Nc[i]*J[8]
		dfdu[3*i] += α * (dfde[0]*Dx + dfde[4]*Dz + dfde[5]*Dy)
		dfdu[3*i+1] += α * (dfde[1]*Dy + dfde[3]*Dz + dfde[5]*Dx)
		dfdu[3*i+2] += α * (dfde[2]*Dz + dfde[3]*Dy + dfde[4]*Dx)
	}

	nenrich := shp.NumEnrich3d(order)
	Nr := make([]float64, shp.MAX3DENRICH)
	Nar := make([]float64, shp.MAX3DENRICH)
	Nbr := make([]float64, shp.MAX3DENRICH)
	Ncr := make([]float64, shp.MAX3DENRICH)
	shp.EnrichFuncs3d(order, pt, Nr, Nar, Nbr, Ncr)
	for i := 0; i < nenrich; i++ {
		Dx := Nar[i]*J[0] + Nbr[i]*J[1] + Ncr[i]*J[2]
		Dy := Nar[i]*J[3] + Nbr[i]*J[4] + Ncr[i]*J[5]
		Dz := Nar[i]*J[6] + Nbr[i]*J[7] + Ncr[i]*J[8]
		dfdubar[3*i] += α * (dfde[0]*Dx + dfde[4]*Dz + dfde[5]*Dy)
		dfdubar[3*i+1] += α * (dfde[1]*Dy + dfde[3]*Dz + dfde[5]*Dx)
		dfdubar[3*i+2] += α * (dfde[2]*Dz + dfde[3]*Dy + dfde[4]*Dx)
	}
}

// addEnrichDeriv computes the operator-level sensitivities of the
// patch least squares: dubar/duderiv = (AᵀA)⁻¹Aᵀ and
// dubar/du = (dubar/duderiv)·(db/du)
func (o *StressConstraint) addEnrichDeriv(A, dbdu *mat.Dense) (dubarDuderiv, dubardu *mat.Dense, err error) {
	_, m := A.Dims()

	var ata mat.Dense
	ata.Mul(A.T(), A)

	var atainv mat.Dense
	if err = atainv.Inverse(&ata); err != nil {
		return nil, nil, chk.Err("cannot invert AᵀA (%dx%d):\n%v", m, m, err)
	}

	dubarDuderiv = &mat.Dense{}
	dubarDuderiv.Mul(&atainv, A.T())

	dubardu = &mat.Dense{}
	dubardu.Mul(dubarDuderiv, dbdu)
	return
}

// EvalConDeriv evaluates the derivative of the KS functional with
// respect to the design variables (accumulated into dfdx) and the
// state variables (assembled into dfdu). EvalConstraint must have run
// first so that the KS state is current. The state derivative has two
// reconstruction paths: the explicit dependence through the low-order
// derivative mismatch (db/du) and the implicit one through the
// projected nodal derivatives, closed by the transpose of the
// projection
func (o *StressConstraint) EvalConDeriv(dfdx []float64, dfdu *nvec.Vec) {
	d := o.dom
	f, fr := d.Forest, d.ForestRefined
	order, knots := f.InterpKnots()
	numNodes := order * order * order
	numRefined := fr.NumElemNodes()
	nenrich := shp.NumEnrich3d(order)
	neq := 3 * numNodes
	wvals := shp.KnotWeights(order)

	for i := range dfdx {
		dfdx[i] = 0
	}
	dfdu.Zero()
	o.dfduderiv.Zero()

	pts, wts := shp.GaussPtsWts(order + 1)
	nquad := order + 1

	m := nenrich
	p := numNodes

	dfduElem := make([]float64, 3*p)
	dfdubar := make([]float64, 3*m)
	dfduderivElem := make([]float64, 9*p)
	A := mat.NewDense(neq, m, nil)
	dbdu := mat.NewDense(neq, p, nil)

	N := make([]float64, numRefined)
	Na := make([]float64, numRefined)
	Nb := make([]float64, numRefined)
	Nc := make([]float64, numRefined)
	Nr := make([]float64, shp.MAX3DENRICH)
	Nar := make([]float64, shp.MAX3DENRICH)
	Nbr := make([]float64, shp.MAX3DENRICH)
	Ncr := make([]float64, shp.MAX3DENRICH)
	var Xd, J [9]float64
	e := make([]float64, 6)
	dfde := make([]float64, 6)

	for i := 0; i < f.Nelems; i++ {
		con := d.Elems[i].GetConstitutive()
		nodes := f.ElemNodes(i)
		o.uvec.GetValues(nodes, o.vars)
		o.uderiv.GetValues(nodes, o.varderiv)
		fr.ElemXpts(i, o.Xpts)

		ComputeElemRecon3d(3, f, fr, o.Xpts, o.vars, o.varderiv, o.ubar)

		for j := range dfduElem {
			dfduElem[j] = 0
		}
		for j := range dfdubar {
			dfdubar[j] = 0
		}

		// partial derivatives df/du and df/dubar at the quadrature
		// points
		for kk := 0; kk < nquad; kk++ {
			for jj := 0; jj < nquad; jj++ {
				for ii := 0; ii < nquad; ii++ {
					pt := []float64{pts[ii], pts[jj], pts[kk]}
					detJ, err := o.evalStrain(pt, o.vars, o.ubar, J[:], e)
					if err != nil {
						continue
					}
					detJ *= wts[ii] * wts[jj] * wts[kk]
					fval := con.Failure(pt, e)
					kw := detJ * math.Exp(o.ksWeight*(fval-o.ksMaxFail)) / o.ksFailSum

					con.AddFailureDVSens(pt, e, kw, dfdx)
					con.FailureStrainSens(pt, e, dfde)
					o.addStrainDeriv(pt, J[:], kw, dfde, dfduElem, dfdubar)
				}
			}
		}

		dfdu.SetValues(nodes, dfduElem, nvec.Add)

		// A and db/du at the element knot positions
		A.Zero()
		dbdu.Zero()
		c := 0
		for kk := 0; kk < order; kk++ {
			for jj := 0; jj < order; jj++ {
				for ii := 0; ii < order; ii++ {
					kt := []float64{knots[ii], knots[jj], knots[kk]}
					w := wvals[ii] * wvals[jj] * wvals[kk]

					fr.EvalInterp(kt, N, Na, Nb, Nc)
					_, err := shp.JacobianTrans3d(o.Xpts, Na, Nb, Nc, Xd[:], J[:], numRefined)
					if err != nil {
						io.Pfred("stress constraint: element %d: %v\n", i, err)
						c += 3
						continue
					}

					shp.EnrichFuncs3d(order, kt, Nr, Nar, Nbr, Ncr)
					f.EvalInterp(kt, N, Na, Nb, Nc)

					for aa := 0; aa < numNodes; aa++ {
						dx := Na[aa]*J[0] + Nb[aa]*J[1] + Nc[aa]*J[2]
						dy := Na[aa]*J[3] + Nb[aa]*J[4] + Nc[aa]*J[5]
						dz := Na[aa]*J[6] + Nb[aa]*J[7] + Nc[aa]*J[8]
						dbdu.Set(c, aa, -w*dx)
						dbdu.Set(c+1, aa, -w*dy)
						dbdu.Set(c+2, aa, -w*dz)
					}
					for aa := 0; aa < nenrich; aa++ {
						dx := Nar[aa]*J[0] + Nbr[aa]*J[1] + Ncr[aa]*J[2]
						dy := Nar[aa]*J[3] + Nbr[aa]*J[4] + Ncr[aa]*J[5]
						dz := Nar[aa]*J[6] + Nbr[aa]*J[7] + Ncr[aa]*J[8]
						A.Set(c, aa, w*dx)
						A.Set(c+1, aa, w*dy)
						A.Set(c+2, aa, w*dz)
					}
					c += 3
				}
			}
		}

		dubarDuderiv, dubardu, err := o.addEnrichDeriv(A, dbdu)
		if err != nil {
			io.Pfred("stress constraint: element %d: %v\n", i, err)
			continue
		}

		// chain (df/dubar)·(dubar/du) into the state derivative
		for j := range dfduElem {
			dfduElem[j] = 0
		}
		for ii := 0; ii < m; ii++ {
			for jj := 0; jj < p; jj++ {
				for cc := 0; cc < 3; cc++ {
					dfduElem[3*jj+cc] += dfdubar[3*ii+cc] * dubardu.At(ii, jj)
				}
			}
		}
		dfdu.SetValues(nodes, dfduElem, nvec.Add)

		// chain (df/dubar)·(dubar/duderiv) into the per-node
		// derivative sensitivity
		for j := range dfduderivElem {
			dfduderivElem[j] = 0
		}
		for ii := 0; ii < neq; ii++ {
			for jj := 0; jj < m; jj++ {
				for cc := 0; cc < 3; cc++ {
					dfduderivElem[9*(ii/3)+3*cc+(ii%3)] += dfdubar[3*jj+cc] * dubarDuderiv.At(jj, ii)
				}
			}
		}
		o.dfduderiv.SetValues(nodes, dfduderivElem, nvec.Add)
	}

	o.dfduderiv.BeginSetValues(nvec.Add)
	o.dfduderiv.EndSetValues(nvec.Add)
	o.dfduderiv.BeginDistributeValues()
	o.dfduderiv.EndDistributeValues()

	// apply the transpose of the nodal-derivative projection:
	// (df/duderiv)·(duderiv/du)
	dUd := make([]float64, 9)
	for elem := 0; elem < f.Nelems; elem++ {
		nodes := f.ElemNodes(elem)
		o.weights.GetValues(nodes, o.welem)
		o.dfduderiv.GetValues(nodes, dfduderivElem)
		fr.ElemXpts(elem, o.Xpts)

		for j := range dfduElem {
			dfduElem[j] = 0
		}

		di := 0
		for kk := 0; kk < order; kk++ {
			for jj := 0; jj < order; jj++ {
				for ii := 0; ii < order; ii++ {
					pt := []float64{knots[ii], knots[jj], knots[kk]}

					fr.EvalInterp(pt, N, Na, Nb, Nc)
					_, err := shp.JacobianTrans3d(o.Xpts, Na, Nb, Nc, Xd[:], J[:], numRefined)
					if err != nil {
						io.Pfred("stress constraint: element %d: %v\n", elem, err)
						di += 9
						continue
					}

					f.EvalInterp(pt, N, Na, Nb, Nc)

					mnode := ii + jj*order + kk*order*order
					if nodes[mnode] >= 0 {
						winv := 1.0 / o.welem[mnode]
						for k := 0; k < 3; k++ {
							dv := dfduderivElem[di : di+3]
							dUd[3*k] = winv * (J[0]*dv[0] + J[3]*dv[1] + J[6]*dv[2])
							dUd[3*k+1] = winv * (J[1]*dv[0] + J[4]*dv[1] + J[7]*dv[2])
							dUd[3*k+2] = winv * (J[2]*dv[0] + J[5]*dv[1] + J[8]*dv[2])
							di += 3
						}
						for k := 0; k < 3; k++ {
							for i := 0; i < numNodes; i++ {
								dfduElem[3*i+k] += Na[i]*dUd[3*k] + Nb[i]*dUd[3*k+1] + Nc[i]*dUd[3*k+2]
							}
						}
					} else {
						di += 9
					}
				}
			}
		}

		dfdu.SetValues(nodes, dfduElem, nvec.Add)
	}

	dfdu.BeginSetValues(nvec.Add)
	dfdu.EndSetValues(nvec.Add)

	d.ApplyBcs(dfdu)

	par.AllReduceSum(dfdx, make([]float64, len(dfdx)))
}
