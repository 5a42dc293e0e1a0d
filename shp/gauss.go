// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "github.com/cpmech/gosl/chk"

// Gauss-Legendre abscissae and weights on [-1,1]
var (
	gaussPts = [][]float64{
		{0},
		{-0.5773502691896257, 0.5773502691896257},
		{-0.7745966692414834, 0, 0.7745966692414834},
		{-0.8611363115940526, -0.3399810435848563, 0.3399810435848563, 0.8611363115940526},
		{-0.9061798459386640, -0.5384693101056831, 0, 0.5384693101056831, 0.9061798459386640},
	}
	gaussWts = [][]float64{
		{2},
		{1, 1},
		{0.5555555555555556, 0.8888888888888889, 0.5555555555555556},
		{0.3478548451374538, 0.6521451548625461, 0.6521451548625461, 0.3478548451374538},
		{0.2369268850561891, 0.4786286704993665, 0.5688888888888889, 0.4786286704993665, 0.2369268850561891},
	}
)

// GaussPtsWts returns the n-point Gauss-Legendre rule on [-1,1]
func GaussPtsWts(n int) (pts, wts []float64) {
	if n < 1 || n > 5 {
		chk.Panic("Gauss rule with %d points is not available", n)
	}
	return gaussPts[n-1], gaussWts[n-1]
}
