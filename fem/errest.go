// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/peekwez/tmr/nvec"
	"github.com/peekwez/tmr/par"
	"github.com/peekwez/tmr/shp"
)

// StrainEnergyErrorEst2d estimates the element-wise strain-energy
// error of the shell solution uvec: each element's indicator is the
// absolute potential energy of its reconstruction delta (the
// enrichment part only), evaluated on the refined mesh. The global
// estimate is the sum over all elements and processes
func StrainEnergyErrorEst2d(d *Domain, uvec *nvec.Vec, errors []float64) float64 {
	f, fr := d.Forest, d.ForestRefined
	varsPerNode := d.VarsPerNode
	order, knots := f.InterpKnots()
	refOrder, refKnots := fr.InterpKnots()
	numNodes := order * order
	numRefined := refOrder * refOrder
	nenrich := shp.NumEnrich2d(order)

	uvec.BeginDistributeValues()
	uvec.EndDistributeValues()

	weights := d.NewVec(1)
	ComputeLocalWeights(f, weights, nil)
	uderiv := d.NewVec(3 * varsPerNode)
	ComputeNodeDeriv2d(f, varsPerNode, uvec, weights, uderiv, nil)

	uelem := make([]float64, varsPerNode*numNodes)
	delem := make([]float64, 3*varsPerNode*numNodes)
	ubar := make([]float64, varsPerNode*nenrich)
	varsInterp := make([]float64, varsPerNode*numRefined)
	Xpts := make([]float64, 3*numRefined)
	Nr := make([]float64, shp.MAX2DENRICH)

	total := 0.0
	for i := 0; i < f.Nelems; i++ {
		time := 0.0
		nodes := f.ElemNodes(i)
		uvec.GetValues(nodes, uelem)
		uderiv.GetValues(nodes, delem)
		fr.ElemXpts(i, Xpts)

		ComputeElemRecon2d(varsPerNode, f, fr, Xpts, uelem, delem, ubar)

		for j := range varsInterp {
			varsInterp[j] = 0
		}
		for m := 0; m < refOrder; m++ {
			for n := 0; n < refOrder; n++ {
				pt := []float64{refKnots[n], refKnots[m]}
				shp.EnrichFuncs2d(order, pt, knots, Nr, nil, nil)
				v := varsInterp[varsPerNode*(n+m*refOrder):]
				for k := 0; k < nenrich; k++ {
					for kk := 0; kk < varsPerNode; kk++ {
						v[kk] += ubar[varsPerNode*k+kk] * Nr[k]
					}
				}
			}
		}

		_, Pe := d.Elems[i].ComputeEnergies(time, Xpts, varsInterp)
		errors[i] = math.Abs(Pe)
		total += errors[i]
	}

	return par.SumScalar(total)
}

// StrainEnergyErrorEst3d is the octree-forest variant of the
// strain-energy error estimator
func StrainEnergyErrorEst3d(d *Domain, uvec *nvec.Vec, errors []float64) float64 {
	f, fr := d.Forest, d.ForestRefined
	varsPerNode := d.VarsPerNode
	order, _ := f.InterpKnots()
	refOrder, refKnots := fr.InterpKnots()
	numNodes := order * order * order
	numRefined := refOrder * refOrder * refOrder
	nenrich := shp.NumEnrich3d(order)

	uvec.BeginDistributeValues()
	uvec.EndDistributeValues()

	weights := d.NewVec(1)
	ComputeLocalWeights(f, weights, nil)
	uderiv := d.NewVec(3 * varsPerNode)
	ComputeNodeDeriv3d(f, varsPerNode, uvec, weights, uderiv, nil)

	uelem := make([]float64, varsPerNode*numNodes)
	delem := make([]float64, 3*varsPerNode*numNodes)
	ubar := make([]float64, varsPerNode*nenrich)
	varsInterp := make([]float64, varsPerNode*numRefined)
	Xpts := make([]float64, 3*numRefined)
	Nr := make([]float64, shp.MAX3DENRICH)

	total := 0.0
	for i := 0; i < f.Nelems; i++ {
		time := 0.0
		nodes := f.ElemNodes(i)
		uvec.GetValues(nodes, uelem)
		uderiv.GetValues(nodes, delem)
		fr.ElemXpts(i, Xpts)

		ComputeElemRecon3d(varsPerNode, f, fr, Xpts, uelem, delem, ubar)

		for j := range varsInterp {
			varsInterp[j] = 0
		}
		for p := 0; p < refOrder; p++ {
			for m := 0; m < refOrder; m++ {
				for n := 0; n < refOrder; n++ {
					pt := []float64{refKnots[n], refKnots[m], refKnots[p]}
					shp.EnrichFuncs3d(order, pt, Nr, nil, nil, nil)
					offset := n + m*refOrder + p*refOrder*refOrder
					v := varsInterp[varsPerNode*offset:]
					for k := 0; k < nenrich; k++ {
						for kk := 0; kk < varsPerNode; kk++ {
							v[kk] += ubar[varsPerNode*k+kk] * Nr[k]
						}
					}
				}
			}
		}

		_, Pe := d.Elems[i].ComputeEnergies(time, Xpts, varsInterp)
		errors[i] = math.Abs(Pe)
		total += errors[i]
	}

	return par.SumScalar(total)
}

// AdjointErrorEst2d estimates the functional error of the shell
// problem from the refined primal field and the refined adjoint
// correction ψ. Every element deposits a nodal-distributed error via
// its localized-error callback; the per-element indicator is the
// absolute corner sum scaled by 1/4. It returns the total absolute
// error and the adjoint-based correction
func AdjointErrorEst2d(d *Domain, solutionRefined, adjointRefined *nvec.Vec, errors []float64) (totalErr, adjCorr float64) {
	fr := d.ForestRefined
	varsPerNode := d.VarsPerNode
	refOrder, _ := fr.InterpKnots()
	numRefined := refOrder * refOrder

	varsInterp := make([]float64, varsPerNode*numRefined)
	adjInterp := make([]float64, varsPerNode*numRefined)
	errv := make([]float64, numRefined)
	Xpts := make([]float64, 3*numRefined)

	nodalError := d.NewRefinedVec(1)

	solutionRefined.BeginDistributeValues()
	adjointRefined.BeginDistributeValues()
	solutionRefined.EndDistributeValues()
	adjointRefined.EndDistributeValues()

	totalCorr := 0.0
	auxCount := 0
	for elem := 0; elem < fr.Nelems; elem++ {
		time := 0.0
		refNodes := fr.ElemNodes(elem)
		fr.ElemXpts(elem, Xpts)
		solutionRefined.GetValues(refNodes, varsInterp)
		adjointRefined.GetValues(refNodes, adjInterp)

		for i := range errv {
			errv[i] = 0
		}
		d.Elems[elem].AddLocalizedError(time, errv, adjInterp, Xpts, varsInterp)
		for auxCount < len(d.Aux) && d.Aux[auxCount].Num == elem {
			d.Aux[auxCount].Elem.AddLocalizedError(time, errv, adjInterp, Xpts, varsInterp)
			auxCount++
		}

		for i := 0; i < numRefined; i++ {
			totalCorr += errv[i]
		}
		nodalError.SetValues(refNodes, errv, nvec.Add)
	}

	nodalError.BeginSetValues(nvec.Add)
	nodalError.EndSetValues(nvec.Add)
	nodalError.BeginDistributeValues()
	nodalError.EndDistributeValues()

	totalRemain := 0.0
	for elem := 0; elem < fr.Nelems; elem++ {
		refNodes := fr.ElemNodes(elem)
		nodalError.GetValues(refNodes, errv)
		estimate := 0.0
		for j := 0; j < refOrder; j += refOrder - 1 {
			for i := 0; i < refOrder; i += refOrder - 1 {
				estimate += errv[i+j*refOrder]
			}
		}
		errors[elem] = 0.25 * math.Abs(estimate)
		totalRemain += errors[elem]
	}

	tmp := []float64{totalRemain, totalCorr}
	par.AllReduceSum(tmp, []float64{0, 0})
	return tmp[0], tmp[1]
}

// AdjointErrorEst3d is the octree-forest variant of the adjoint-based
// error estimator: the indicator is the absolute corner sum scaled by
// 1/8
func AdjointErrorEst3d(d *Domain, solutionRefined, adjointRefined *nvec.Vec, errors []float64) (totalErr, adjCorr float64) {
	fr := d.ForestRefined
	varsPerNode := d.VarsPerNode
	refOrder, _ := fr.InterpKnots()
	numRefined := refOrder * refOrder * refOrder

	varsInterp := make([]float64, varsPerNode*numRefined)
	adjInterp := make([]float64, varsPerNode*numRefined)
	errv := make([]float64, numRefined)
	Xpts := make([]float64, 3*numRefined)

	nodalError := d.NewRefinedVec(1)

	solutionRefined.BeginDistributeValues()
	adjointRefined.BeginDistributeValues()
	solutionRefined.EndDistributeValues()
	adjointRefined.EndDistributeValues()

	totalCorr := 0.0
	auxCount := 0
	for elem := 0; elem < fr.Nelems; elem++ {
		time := 0.0
		refNodes := fr.ElemNodes(elem)
		fr.ElemXpts(elem, Xpts)
		solutionRefined.GetValues(refNodes, varsInterp)
		adjointRefined.GetValues(refNodes, adjInterp)

		for i := range errv {
			errv[i] = 0
		}
		d.Elems[elem].AddLocalizedError(time, errv, adjInterp, Xpts, varsInterp)
		for auxCount < len(d.Aux) && d.Aux[auxCount].Num == elem {
			d.Aux[auxCount].Elem.AddLocalizedError(time, errv, adjInterp, Xpts, varsInterp)
			auxCount++
		}

		for i := 0; i < numRefined; i++ {
			totalCorr += errv[i]
		}
		nodalError.SetValues(refNodes, errv, nvec.Add)
	}

	nodalError.BeginSetValues(nvec.Add)
	nodalError.EndSetValues(nvec.Add)
	nodalError.BeginDistributeValues()
	nodalError.EndDistributeValues()

	totalRemain := 0.0
	for elem := 0; elem < fr.Nelems; elem++ {
		refNodes := fr.ElemNodes(elem)
		nodalError.GetValues(refNodes, errv)
		estimate := 0.0
		for k := 0; k < 2; k++ {
			for j := 0; j < 2; j++ {
				for i := 0; i < 2; i++ {
					estimate += errv[(refOrder-1)*i+
						(refOrder-1)*j*refOrder+
						(refOrder-1)*k*refOrder*refOrder]
				}
			}
		}
		errors[elem] = 0.125 * math.Abs(estimate)
		totalRemain += errors[elem]
	}

	tmp := []float64{totalRemain, totalCorr}
	par.AllReduceSum(tmp, []float64{0, 0})
	return tmp[0], tmp[1]
}

// PrintErrorBins prints a log-scale histogram of the element error
// indicators on rank 0 and returns the mean and standard deviation of
// the log errors
func PrintErrorBins(errors []float64) (mean, stddev float64) {
	const nbins = 30
	low, high := -15.0, 0.0

	ntotal := par.SumScalar(float64(len(errors)))

	for _, e := range errors {
		mean += math.Log(e)
	}
	mean = par.SumScalar(mean) / ntotal

	for _, e := range errors {
		d := math.Log(e) - mean
		stddev += d * d
	}
	stddev = math.Sqrt(par.SumScalar(stddev) / (ntotal - 1))

	var bounds [nbins + 1]float64
	for k := 0; k <= nbins; k++ {
		bounds[k] = math.Pow(10.0, low+float64(k)*(high-low)/nbins)
	}

	bins := make([]float64, nbins+2)
	for _, e := range errors {
		switch {
		case e <= bounds[0]:
			bins[0]++
		case e >= bounds[nbins]:
			bins[nbins+1]++
		default:
			for j := 0; j < nbins; j++ {
				if e >= bounds[j] && e < bounds[j+1] {
					bins[j+1]++
				}
			}
		}
	}
	par.AllReduceSum(bins, make([]float64, nbins+2))

	if par.Rank() == 0 {
		total := 0.0
		for _, b := range bins {
			total += b
		}
		io.Pf("%10s  %10s  %12s  %12s\n", "stats", " ", "log(mean)", "log(stddev)")
		io.Pf("%10s  %10s  %12.2e %12.2e\n", " ", " ", mean, stddev)
		io.Pf("%10s  %10s  %12s  %12s\n", "low", "high", "bins", "percentage")
		io.Pf("%10s  %10.2e  %12.0f  %12.2f\n", " ", bounds[0], bins[0], 100.0*bins[0]/total)
		for k := 0; k < nbins; k++ {
			io.Pf("%10.2e  %10.2e  %12.0f  %12.2f\n", bounds[k], bounds[k+1], bins[k+1], 100.0*bins[k+1]/total)
		}
		io.Pf("%10.2e  %10s  %12.0f  %12.2f\n", bounds[nbins], " ", bins[nbins+1], 100.0*bins[nbins+1]/total)
	}
	return
}
