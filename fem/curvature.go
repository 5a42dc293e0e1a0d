// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"

	"github.com/peekwez/tmr/forest"
	"github.com/peekwez/tmr/nvec"
	"github.com/peekwez/tmr/par"
	"github.com/peekwez/tmr/shp"
)

// small positive guard against the zero-discriminant and zero-gradient
// singularities of the curvature expressions
const curvTiny = 1e-30

// CurvatureConstraint aggregates a curvature descriptor of a scalar
// design field living on an octree forest. Per element, a 20-term
// polynomial is least-squares fitted to the corner values and corner
// gradients; the principal curvatures of the implicit level set are
// extracted from the fitted gradient and Hessian at the centroid and
// localized to the material transition band by the indicator
// b(x) = 1 - 16(x-1/2)⁴. The functional is the induced exponential
// aggregate of the per-element cost
type CurvatureConstraint struct {
	f         *forest.Forest
	aggWeight float64

	// GradPerturb nudges the fitted gradient away from zero; the
	// original static constant became configurable
	GradPerturb float64

	// persistent vectors
	weights *nvec.Vec
	xvec    *nvec.Vec
	xderiv  *nvec.Vec
	dfderiv *nvec.Vec

	// aggregate state from the last primal evaluation
	maxCurvature float64
	aggNumer     float64
	aggDenom     float64
}

// NewCurvatureConstraint creates the constraint over a second-order
// octree forest carrying the scalar design field
func NewCurvatureConstraint(f *forest.Forest, aggWeight float64) (o *CurvatureConstraint) {
	if f == nil {
		chk.Panic("forest must not be nil")
	}
	chk.IntAssert(f.Order, 2)
	chk.IntAssert(f.Ndim, 3)

	o = &CurvatureConstraint{
		f:           f,
		aggWeight:   aggWeight,
		GradPerturb: 1e-6,
	}
	dep := depTable(f)
	o.weights = nvec.NewVec(f.Nnodes, 1, dep)
	o.xvec = nvec.NewVec(f.Nnodes, 1, dep)
	o.xderiv = nvec.NewVec(f.Nnodes, 3, dep)
	o.dfderiv = nvec.NewVec(f.Nnodes, 3, dep)
	ComputeLocalWeights(f, o.weights, nil)
	return
}

// EvalPoly evaluates the 20-term tri-quadratic-plus-cross polynomial
// basis and its first derivatives at x (relative to the fit origin)
func EvalPoly(x []float64, N, Nx, Ny, Nz []float64) {
	N[0] = 1.0

	// linear terms
	N[1] = x[0]
	N[2] = x[1]
	N[3] = x[2]

	// quadratic terms
	N[4] = x[2] * x[1]
	N[5] = x[0] * x[2]
	N[6] = x[0] * x[1]
	N[7] = x[0] * x[0]
	N[8] = x[1] * x[1]
	N[9] = x[2] * x[2]

	// cross terms xyz, x²(y + z + yz), y²(x + z + xz), z²(x + y + xy)
	N[10] = x[0] * x[1] * x[2]
	N[11] = x[0] * x[0] * x[1]
	N[12] = x[0] * x[0] * x[2]
	N[13] = x[0] * x[0] * x[1] * x[2]
	N[14] = x[1] * x[1] * x[0]
	N[15] = x[1] * x[1] * x[2]
	N[16] = x[1] * x[1] * x[0] * x[2]
	N[17] = x[2] * x[2] * x[0]
	N[18] = x[2] * x[2] * x[1]
	N[19] = x[2] * x[2] * x[0] * x[1]

	Nx[0] = 0
	Nx[1] = 1
	Nx[2] = 0
	Nx[3] = 0
	Nx[4] = 0
	Nx[5] = x[2]
	Nx[6] = x[1]
	Nx[7] = 2 * x[0]
	Nx[8] = 0
	Nx[9] = 0
	Nx[10] = x[1] * x[2]
	Nx[11] = 2 * x[0] * x[1]
	Nx[12] = 2 * x[0] * x[2]
	Nx[13] = 2 * x[0] * x[1] * x[2]
	Nx[14] = x[1] * x[1]
	Nx[15] = 0
	Nx[16] = x[1] * x[1] * x[2]
	Nx[17] = x[2] * x[2]
	Nx[18] = 0
	Nx[19] = x[2] * x[2] * x[1]

	Ny[0] = 0
	Ny[1] = 0
	Ny[2] = 1
	Ny[3] = 0
	Ny[4] = x[2]
	Ny[5] = 0
	Ny[6] = x[0]
	Ny[7] = 0
	Ny[8] = 2 * x[1]
	Ny[9] = 0
	Ny[10] = x[0] * x[2]
	Ny[11] = x[0] * x[0]
	Ny[12] = 0
	Ny[13] = x[0] * x[0] * x[2]
	Ny[14] = 2 * x[1] * x[0]
	Ny[15] = 2 * x[1] * x[2]
	Ny[16] = 2 * x[1] * x[0] * x[2]
	Ny[17] = 0
	Ny[18] = x[2] * x[2]
	Ny[19] = x[2] * x[2] * x[0]

	Nz[0] = 0
	Nz[1] = 0
	Nz[2] = 0
	Nz[3] = 1
	Nz[4] = x[1]
	Nz[5] = x[0]
	Nz[6] = 0
	Nz[7] = 0
	Nz[8] = 0
	Nz[9] = 2 * x[2]
	Nz[10] = x[0] * x[1]
	Nz[11] = 0
	Nz[12] = x[0] * x[0]
	Nz[13] = x[0] * x[0] * x[1]
	Nz[14] = 0
	Nz[15] = x[1] * x[1]
	Nz[16] = x[1] * x[1] * x[0]
	Nz[17] = 2 * x[2] * x[0]
	Nz[18] = 2 * x[2] * x[1]
	Nz[19] = 2 * x[2] * x[0] * x[1]
}

// polyMatrix assembles the 32x20 fit matrix of one corner stencil:
// one value row and three gradient rows per corner, relative to the
// centroid c
func polyMatrix(elemXpts []float64, c []float64) *mat.Dense {
	P := mat.NewDense(32, 20, nil)
	N := make([]float64, 20)
	Nx := make([]float64, 20)
	Ny := make([]float64, 20)
	Nz := make([]float64, 20)
	x := make([]float64, 3)
	for i := 0; i < 8; i++ {
		x[0] = elemXpts[3*i] - c[0]
		x[1] = elemXpts[3*i+1] - c[1]
		x[2] = elemXpts[3*i+2] - c[2]
		EvalPoly(x, N, Nx, Ny, Nz)
		for j := 0; j < 20; j++ {
			P.Set(4*i, j, N[j])
			P.Set(4*i+1, j, Nx[j])
			P.Set(4*i+2, j, Ny[j])
			P.Set(4*i+3, j, Nz[j])
		}
	}
	return P
}

// EstimateHessian fits the polynomial model to the 8 corner values and
// 24 corner derivatives and extracts the field value, gradient and
// symmetric Hessian (Hxx,Hxy,Hxz,Hyy,Hyz,Hzz) at the element centroid
func (o *CurvatureConstraint) EstimateHessian(elemXpts, elemVals, elemDerivs []float64, g, H []float64) (val float64) {
	c := make([]float64, 3)
	for i := 0; i < 8; i++ {
		c[0] += 0.125 * elemXpts[3*i]
		c[1] += 0.125 * elemXpts[3*i+1]
		c[2] += 0.125 * elemXpts[3*i+2]
	}

	P := polyMatrix(elemXpts, c)
	rhs := mat.NewDense(32, 1, nil)
	for i := 0; i < 8; i++ {
		rhs.Set(4*i, 0, elemVals[i])
		rhs.Set(4*i+1, 0, elemDerivs[3*i])
		rhs.Set(4*i+2, 0, elemDerivs[3*i+1])
		rhs.Set(4*i+3, 0, elemDerivs[3*i+2])
	}

	var coef mat.Dense
	if !lsSolve(&coef, P, rhs) {
		io.Pfred("curvature constraint: singular polynomial fit\n")
		for i := 0; i < 3; i++ {
			g[i] = o.GradPerturb
		}
		for i := 0; i < 6; i++ {
			H[i] = 0
		}
		return 0
	}

	val = coef.At(0, 0)

	// perturb the gradient away from the zero-norm singularity
	for i := 0; i < 3; i++ {
		g[i] = coef.At(1+i, 0)
		if g[i] < 0 {
			g[i] -= o.GradPerturb
		} else {
			g[i] += o.GradPerturb
		}
	}

	// the fitted quadratic coefficients carry half the diagonal
	// second derivatives
	H[0] = 2.0 * coef.At(7, 0)
	H[1] = coef.At(6, 0)
	H[2] = coef.At(5, 0)
	H[3] = 2.0 * coef.At(8, 0)
	H[4] = coef.At(4, 0)
	H[5] = 2.0 * coef.At(9, 0)
	return
}

// curvatures computes the Gaussian and mean curvature and the
// principal pair (k1 ≥ in magnitude of KM+√, k2 of KM-√) from the
// gradient and Hessian of the implicit field
func curvatures(g, H []float64) (KG, KM, sqrtk, k1, k2 float64, Hf [6]float64) {
	gn := g[0]*g[0] + g[1]*g[1] + g[2]*g[2]
	sqrtgn := math.Sqrt(gn)

	// cofactor matrix of H
	Hf[0] = H[3]*H[5] - H[4]*H[4]
	Hf[1] = H[4]*H[2] - H[1]*H[5]
	Hf[2] = H[1]*H[4] - H[3]*H[2]
	Hf[3] = H[0]*H[5] - H[2]*H[2]
	Hf[4] = H[1]*H[2] - H[0]*H[4]
	Hf[5] = H[0]*H[3] - H[1]*H[1]

	Hfact := g[0]*(Hf[0]*g[0]+Hf[1]*g[1]+Hf[2]*g[2]) +
		g[1]*(Hf[1]*g[0]+Hf[3]*g[1]+Hf[4]*g[2]) +
		g[2]*(Hf[2]*g[0]+Hf[4]*g[1]+Hf[5]*g[2])

	Hprod := g[0]*(H[0]*g[0]+H[1]*g[1]+H[2]*g[2]) +
		g[1]*(H[1]*g[0]+H[3]*g[1]+H[4]*g[2]) +
		g[2]*(H[2]*g[0]+H[4]*g[1]+H[5]*g[2])

	if gn != 0 {
		KG = Hfact / (gn * gn)
		KM = 0.5 * (Hprod - gn*(H[0]+H[3]+H[5])) / (gn * sqrtgn)
	}

	// the discriminant may drift slightly negative for umbilic points
	disc := KM*KM - KG
	if disc < 0 {
		disc = 0
	}
	sqrtk = math.Sqrt(disc)
	k1 = math.Abs(KM + sqrtk)
	k2 = math.Abs(KM - sqrtk)
	return
}

// EvalCurvature computes the per-element curvature cost from the
// field value, gradient and Hessian at the centroid
func (o *CurvatureConstraint) EvalCurvature(val float64, g, H []float64) float64 {
	_, _, _, k1, k2, _ := curvatures(g, H)

	kmax, kdiff := k1, k2-k1
	if k2 > k1 {
		kmax, kdiff = k2, k1-k2
	}

	factor := 1.0 - 16.0*(val-0.5)*(val-0.5)*(val-0.5)*(val-0.5)
	return factor * (kmax + math.Log(1.0+math.Exp(o.aggWeight*kdiff))/o.aggWeight)
}

// EvalCurvDeriv computes the curvature cost together with its
// analytic reverse-mode derivatives with respect to the field value,
// the gradient and the Hessian
func (o *CurvatureConstraint) EvalCurvDeriv(val float64, g, H []float64, dval *float64, dg, dH []float64) float64 {
	gn := g[0]*g[0] + g[1]*g[1] + g[2]*g[2]
	sqrtgn := math.Sqrt(gn)

	KG, KM, sqrtk, k1, k2, Hf := curvatures(g, H)

	Hfact := KG * gn * gn
	Hprod := 2.0*KM*gn*sqrtgn + gn*(H[0]+H[3]+H[5])

	kmax, kdiff := k1, k2-k1
	if k2 > k1 {
		kmax, kdiff = k2, k1-k2
	}

	factor := 1.0 - 16.0*(val-0.5)*(val-0.5)*(val-0.5)*(val-0.5)
	expdiff := math.Exp(o.aggWeight * kdiff)
	ksres := kmax + math.Log(1.0+expdiff)/o.aggWeight
	result := factor * ksres

	// reverse sweep
	dfactor := ksres
	dkmax := factor
	dkdiff := factor * expdiff / (1.0 + expdiff)
	var dk1, dk2 float64
	if k1 > k2 {
		dk1 = dkmax - dkdiff
		dk2 = dkdiff
	} else {
		dk2 = dkmax - dkdiff
		dk1 = dkdiff
	}

	var dKM, dsqrtk float64
	if KM+sqrtk > 0 {
		dKM = dk1
		dsqrtk = dk1
	} else {
		dKM = -dk1
		dsqrtk = -dk1
	}
	if KM-sqrtk > 0 {
		dKM += dk2
		dsqrtk -= dk2
	} else {
		dKM -= dk2
		dsqrtk += dk2
	}

	sk := sqrtk
	if sk < curvTiny {
		sk = curvTiny
	}
	dKG := -0.5 * dsqrtk / sk
	dKM += dsqrtk * KM / sk

	dHprod := 0.5 * dKM / (gn * sqrtgn)
	dHfact := dKG / (gn * gn)
	dgn := -0.5 * dKM * ((1.5*Hprod - 0.5*gn*(H[0]+H[3]+H[5])) / (gn * gn * sqrtgn))
	dgn -= 2.0 * dKG * Hfact / (gn * gn * gn)

	dH[0] = -0.5*dKM/sqrtgn + dHprod*g[0]*g[0]
	dH[1] = 2.0 * dHprod * g[0] * g[1]
	dH[2] = 2.0 * dHprod * g[0] * g[2]
	dH[3] = -0.5*dKM/sqrtgn + dHprod*g[1]*g[1]
	dH[4] = 2.0 * dHprod * g[1] * g[2]
	dH[5] = -0.5*dKM/sqrtgn + dHprod*g[2]*g[2]

	dg[0] = 2.0*dgn*g[0] + 2.0*(dHprod*(H[0]*g[0]+H[1]*g[1]+H[2]*g[2])+
		dHfact*(Hf[0]*g[0]+Hf[1]*g[1]+Hf[2]*g[2]))
	dg[1] = 2.0*dgn*g[1] + 2.0*(dHprod*(H[1]*g[0]+H[3]*g[1]+H[4]*g[2])+
		dHfact*(Hf[1]*g[0]+Hf[3]*g[1]+Hf[4]*g[2]))
	dg[2] = 2.0*dgn*g[2] + 2.0*(dHprod*(H[2]*g[0]+H[4]*g[1]+H[5]*g[2])+
		dHfact*(Hf[2]*g[0]+Hf[4]*g[1]+Hf[5]*g[2]))

	var dHf [6]float64
	dHf[0] = dHfact * g[0] * g[0]
	dHf[1] = 2.0 * dHfact * g[0] * g[1]
	dHf[2] = 2.0 * dHfact * g[0] * g[2]
	dHf[3] = dHfact * g[1] * g[1]
	dHf[4] = 2.0 * dHfact * g[1] * g[2]
	dHf[5] = dHfact * g[2] * g[2]

	dH[0] += H[5]*dHf[3] - H[4]*dHf[4] + H[3]*dHf[5]
	dH[1] += -H[5]*dHf[1] + H[4]*dHf[2] + H[2]*dHf[4] - 2.0*H[1]*dHf[5]
	dH[2] += H[4]*dHf[1] - H[3]*dHf[2] - 2.0*H[2]*dHf[3] + H[1]*dHf[4]
	dH[3] += H[5]*dHf[0] - H[2]*dHf[2] + H[0]*dHf[5]
	dH[4] += -2.0*H[4]*dHf[0] + H[2]*dHf[1] + H[1]*dHf[2] - H[0]*dHf[4]
	dH[5] += H[3]*dHf[0] - H[1]*dHf[1] + H[0]*dHf[3]

	*dval = -64.0 * dfactor * (val - 0.5) * (val - 0.5) * (val - 0.5)

	return result
}

// elemCurvature gathers one element's corner data and evaluates the
// curvature cost at its centroid
func (o *CurvatureConstraint) elemCurvature(elem int, elemXpts, elemVals, elemDerivs, g, H []float64) float64 {
	conn := o.f.ElemNodes(elem)
	for j := 0; j < 8; j++ {
		p := o.f.NodePoint(conn[j])
		elemXpts[3*j] = p.X
		elemXpts[3*j+1] = p.Y
		elemXpts[3*j+2] = p.Z
	}
	o.xvec.GetValues(conn, elemVals)
	o.xderiv.GetValues(conn, elemDerivs)

	o.EstimateHessian(elemXpts, elemVals, elemDerivs, g, H)

	// the field value at the centroid is the corner average
	val := 0.0
	for j := 0; j < 8; j++ {
		val += 0.125 * elemVals[j]
	}
	return o.EvalCurvature(val, g, H)
}

// ElemCurvatures returns the centroid field value and the curvature
// cost of every element from the current state, for the diagnostic
// writers. EvalConstraint must have run first
func (o *CurvatureConstraint) ElemCurvatures() (vals, kvals []float64) {
	elemXpts := make([]float64, 24)
	elemVals := make([]float64, 8)
	elemDerivs := make([]float64, 24)
	g := make([]float64, 3)
	H := make([]float64, 6)

	vals = make([]float64, o.f.Nelems)
	kvals = make([]float64, o.f.Nelems)
	for elem := 0; elem < o.f.Nelems; elem++ {
		kvals[elem] = o.elemCurvature(elem, elemXpts, elemVals, elemDerivs, g, H)
		for j := 0; j < 8; j++ {
			vals[elem] += 0.125 * elemVals[j]
		}
	}
	return
}

// EvalConstraint evaluates the induced-exponential curvature
// aggregate for the design vector x
func (o *CurvatureConstraint) EvalConstraint(x *nvec.Vec) float64 {
	o.xvec.CopyValues(x)
	o.xvec.BeginDistributeValues()
	o.xvec.EndDistributeValues()

	ComputeNodeDeriv3d(o.f, 1, o.xvec, o.weights, o.xderiv, nil)

	elemXpts := make([]float64, 24)
	elemVals := make([]float64, 8)
	elemDerivs := make([]float64, 24)
	g := make([]float64, 3)
	H := make([]float64, 6)

	o.maxCurvature = 0
	for elem := 0; elem < o.f.Nelems; elem++ {
		result := o.elemCurvature(elem, elemXpts, elemVals, elemDerivs, g, H)
		if result > o.maxCurvature {
			o.maxCurvature = result
		}
	}
	o.maxCurvature = par.MaxScalar(o.maxCurvature)

	o.aggNumer = 0
	o.aggDenom = 0
	for elem := 0; elem < o.f.Nelems; elem++ {
		result := o.elemCurvature(elem, elemXpts, elemVals, elemDerivs, g, H)
		expres := math.Exp(o.aggWeight * (result - o.maxCurvature))
		o.aggNumer += result * expres
		o.aggDenom += expres
	}
	tmp := []float64{o.aggNumer, o.aggDenom}
	par.AllReduceSum(tmp, []float64{0, 0})
	o.aggNumer, o.aggDenom = tmp[0], tmp[1]

	funcVal := o.aggNumer / o.aggDenom
	if par.Rank() == 0 {
		io.Pf("Induced curvature:  %25.10e\n", funcVal)
		io.Pf("Max curvature:      %25.10e\n", o.maxCurvature)
	}
	return funcVal
}

// EvalConDeriv evaluates the derivative of the aggregate with respect
// to the design field. The chain runs backwards through the
// per-element cost, the polynomial fit (via its pseudo-inverse) and
// the transpose of the nodal-derivative projection. EvalConstraint
// must have run first
func (o *CurvatureConstraint) EvalConDeriv(dfdx *nvec.Vec) {
	f := o.f
	order, knots := f.InterpKnots()
	numNodes := f.NumElemNodes()

	dfdx.Zero()
	o.dfderiv.Zero()

	funcVal := o.aggNumer / o.aggDenom

	elemXpts := make([]float64, 24)
	elemVals := make([]float64, 8)
	elemDerivs := make([]float64, 24)
	g := make([]float64, 3)
	H := make([]float64, 6)
	dg := make([]float64, 3)
	dH := make([]float64, 6)
	dvals := make([]float64, 8)
	dderiv := make([]float64, 24)
	dcoef := make([]float64, 20)
	srhs := make([]float64, 32)
	c := make([]float64, 3)
	eye := mat.NewDense(32, 32, nil)
	for i := 0; i < 32; i++ {
		eye.Set(i, i, 1)
	}

	for elem := 0; elem < f.Nelems; elem++ {
		conn := f.ElemNodes(elem)
		for j := 0; j < 8; j++ {
			p := f.NodePoint(conn[j])
			elemXpts[3*j] = p.X
			elemXpts[3*j+1] = p.Y
			elemXpts[3*j+2] = p.Z
		}
		o.xvec.GetValues(conn, elemVals)
		o.xderiv.GetValues(conn, elemDerivs)

		o.EstimateHessian(elemXpts, elemVals, elemDerivs, g, H)
		cval := 0.0
		for j := 0; j < 8; j++ {
			cval += 0.125 * elemVals[j]
		}

		var dval float64
		result := o.EvalCurvDeriv(cval, g, H, &dval, dg, dH)

		// weight of this element in the aggregate derivative
		expres := math.Exp(o.aggWeight * (result - o.maxCurvature))
		alpha := expres * (1.0 + o.aggWeight*(result-funcVal)) / o.aggDenom

		// back through the polynomial fit: the pseudo-inverse maps
		// right-hand-side perturbations to coefficient perturbations
		c[0], c[1], c[2] = 0, 0, 0
		for j := 0; j < 8; j++ {
			c[0] += 0.125 * elemXpts[3*j]
			c[1] += 0.125 * elemXpts[3*j+1]
			c[2] += 0.125 * elemXpts[3*j+2]
		}
		P := polyMatrix(elemXpts, c)
		var pinv mat.Dense
		if !lsSolve(&pinv, P, eye) {
			io.Pfred("curvature constraint: singular fit in element %d\n", elem)
			continue
		}

		for j := range dcoef {
			dcoef[j] = 0
		}
		dcoef[1], dcoef[2], dcoef[3] = dg[0], dg[1], dg[2]
		dcoef[4] = dH[4]
		dcoef[5] = dH[2]
		dcoef[6] = dH[1]
		dcoef[7] = 2.0 * dH[0]
		dcoef[8] = 2.0 * dH[3]
		dcoef[9] = 2.0 * dH[5]

		for r := 0; r < 32; r++ {
			s := 0.0
			for l := 0; l < 20; l++ {
				s += dcoef[l] * pinv.At(l, r)
			}
			srhs[r] = s
		}

		for j := 0; j < 8; j++ {
			dvals[j] = alpha * (0.125*dval + srhs[4*j])
			dderiv[3*j] = alpha * srhs[4*j+1]
			dderiv[3*j+1] = alpha * srhs[4*j+2]
			dderiv[3*j+2] = alpha * srhs[4*j+3]
		}

		dfdx.SetValues(conn, dvals, nvec.Add)
		o.dfderiv.SetValues(conn, dderiv, nvec.Add)
	}

	o.dfderiv.BeginSetValues(nvec.Add)
	o.dfderiv.EndSetValues(nvec.Add)
	o.dfderiv.BeginDistributeValues()
	o.dfderiv.EndDistributeValues()

	// transpose of the nodal-derivative projection
	welem := make([]float64, numNodes)
	dfderivElem := make([]float64, 3*numNodes)
	dfdxElem := make([]float64, numNodes)
	Xpts := make([]float64, 3*numNodes)
	N := make([]float64, numNodes)
	Na := make([]float64, numNodes)
	Nb := make([]float64, numNodes)
	Nc := make([]float64, numNodes)
	var Xd, J [9]float64

	for elem := 0; elem < f.Nelems; elem++ {
		nodes := f.ElemNodes(elem)
		o.weights.GetValues(nodes, welem)
		o.dfderiv.GetValues(nodes, dfderivElem)
		f.ElemXpts(elem, Xpts)

		for j := range dfdxElem {
			dfdxElem[j] = 0
		}

		di := 0
		for kk := 0; kk < order; kk++ {
			for jj := 0; jj < order; jj++ {
				for ii := 0; ii < order; ii++ {
					pt := []float64{knots[ii], knots[jj], knots[kk]}
					f.EvalInterp(pt, N, Na, Nb, Nc)

					_, err := shp.JacobianTrans3d(Xpts, Na, Nb, Nc, Xd[:], J[:], numNodes)
					if err != nil {
						io.Pfred("curvature constraint: element %d: %v\n", elem, err)
						di += 3
						continue
					}

					mnode := ii + jj*order + kk*order*order
					if nodes[mnode] >= 0 {
						winv := 1.0 / welem[mnode]
						dv := dfderivElem[di : di+3]
						dUd0 := winv * (J[0]*dv[0] + J[3]*dv[1] + J[6]*dv[2])
						dUd1 := winv * (J[1]*dv[0] + J[4]*dv[1] + J[7]*dv[2])
						dUd2 := winv * (J[2]*dv[0] + J[5]*dv[1] + J[8]*dv[2])
						for i := 0; i < numNodes; i++ {
							dfdxElem[i] += Na[i]*dUd0 + Nb[i]*dUd1 + Nc[i]*dUd2
						}
					}
					di += 3
				}
			}
		}

		dfdx.SetValues(nodes, dfdxElem, nvec.Add)
	}

	dfdx.BeginSetValues(nvec.Add)
	dfdx.EndSetValues(nvec.Add)
	dfdx.BeginDistributeValues()
	dfdx.EndDistributeValues()
}
