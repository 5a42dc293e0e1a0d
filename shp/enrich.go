// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "github.com/cpmech/gosl/chk"

// maximum number of enrichment functions
const (
	MAX2DENRICH = 9
	MAX3DENRICH = 15
)

// NumEnrich2d returns the number of enrichment functions for a 2D
// element of the given order
func NumEnrich2d(order int) int {
	switch order {
	case 2:
		return 5
	case 3:
		return 7
	case 4:
		return 9
	}
	chk.Panic("2D enrichment is not available for order=%d", order)
	return 0
}

// NumEnrich3d returns the number of enrichment functions for a 3D
// element of the given order
func NumEnrich3d(order int) int {
	switch order {
	case 2:
		return 9
	case 3:
		return 15
	}
	chk.Panic("3D enrichment is not available for order=%d", order)
	return 0
}

// bubble returns the one-dimensional bubble factor and its derivative
// for the given order. The interior knots k1,k2 are used by the
// order-4 factor only
func bubble(order int, ξ, k1, k2 float64) (c, d float64) {
	switch order {
	case 2:
		c = (1.0 + ξ) * (1.0 - ξ)
		d = -2.0 * ξ
	case 3:
		c = (1.0 + ξ) * ξ * (1.0 - ξ)
		d = 1.0 - 3.0*ξ*ξ
	case 4:
		c = (1.0 + ξ) * (1.0 - ξ) * (ξ - k1) * (ξ - k2)
		d = -2.0*ξ*(ξ-k1)*(ξ-k2) + (1.0+ξ)*(1.0-ξ)*(2.0*ξ-k1-k2)
	default:
		chk.Panic("bubble factor is not available for order=%d", order)
	}
	return
}

// EnrichFuncs2d evaluates the 2D enrichment functions at pt. The
// functions are the ξ-bubble times powers of η, the η-bubble times
// powers of ξ, and the coupling bubble product, in this exact order.
// Na and Nb, when non-nil, receive the analytic derivatives
func EnrichFuncs2d(order int, pt, knots []float64, N, Na, Nb []float64) {
	var k1, k2 float64
	if order == 4 {
		k1, k2 = knots[1], knots[2]
	}
	ca, da := bubble(order, pt[0], k1, k2)
	cb, db := bubble(order, pt[1], k1, k2)

	// powers of the perpendicular coordinate
	var ya, yb [4]float64 // η^i and ξ^i
	ya[0], yb[0] = 1, 1
	for i := 1; i < order; i++ {
		ya[i] = ya[i-1] * pt[1]
		yb[i] = yb[i-1] * pt[0]
	}

	for i := 0; i < order; i++ {
		N[i] = ya[i] * ca
		N[order+i] = yb[i] * cb
	}
	N[2*order] = ca * cb

	if Na == nil {
		return
	}
	for i := 0; i < order; i++ {
		Na[i] = ya[i] * da
		Nb[i] = 0
		if i > 0 {
			Nb[i] = float64(i) * ya[i-1] * ca
		}
		Na[order+i] = 0
		if i > 0 {
			Na[order+i] = float64(i) * yb[i-1] * cb
		}
		Nb[order+i] = yb[i] * db
	}
	Na[2*order] = da * cb
	Nb[2*order] = ca * db
}

// EnrichFuncs3d evaluates the 3D enrichment functions at pt. The
// basis enumerates the ξ-bubble block, the η-bubble block and the
// ζ-bubble block in a fixed order; each block carries the bubble
// itself followed by its products with the perpendicular coordinates
// (and their squares for order 3). Na, Nb and Nc, when non-nil,
// receive the analytic derivatives
func EnrichFuncs3d(order int, pt []float64, N, Na, Nb, Nc []float64) {
	ca, da := bubble(order, pt[0], 0, 0)
	cb, db := bubble(order, pt[1], 0, 0)
	cc, dc := bubble(order, pt[2], 0, 0)

	x, y, z := pt[0], pt[1], pt[2]
	derivs := Na != nil

	if order == 2 {
		N[0] = ca
		N[1] = y * ca
		N[2] = z * ca
		N[3] = cb
		N[4] = x * cb
		N[5] = z * cb
		N[6] = cc
		N[7] = x * cc
		N[8] = y * cc
		if !derivs {
			return
		}
		Na[0] = da
		Na[1] = y * da
		Na[2] = z * da
		Na[3] = 0
		Na[4] = cb
		Na[5] = 0
		Na[6] = 0
		Na[7] = cc
		Na[8] = 0

		Nb[0] = 0
		Nb[1] = ca
		Nb[2] = 0
		Nb[3] = db
		Nb[4] = x * db
		Nb[5] = z * db
		Nb[6] = 0
		Nb[7] = 0
		Nb[8] = cc

		Nc[0] = 0
		Nc[1] = 0
		Nc[2] = ca
		Nc[3] = 0
		Nc[4] = 0
		Nc[5] = cb
		Nc[6] = dc
		Nc[7] = x * dc
		Nc[8] = y * dc
		return
	}

	if order != 3 {
		chk.Panic("3D enrichment is not available for order=%d", order)
	}

	N[0] = ca
	N[1] = y * ca
	N[2] = y * y * ca
	N[3] = z * ca
	N[4] = z * z * ca
	N[5] = cb
	N[6] = x * cb
	N[7] = x * x * cb
	N[8] = z * cb
	N[9] = z * z * cb
	N[10] = cc
	N[11] = x * cc
	N[12] = x * x * cc
	N[13] = y * cc
	N[14] = y * y * cc
	if !derivs {
		return
	}

	Na[0] = da
	Na[1] = y * da
	Na[2] = y * y * da
	Na[3] = z * da
	Na[4] = z * z * da
	Na[5] = 0
	Na[6] = cb
	Na[7] = 2.0 * x * cb
	Na[8] = 0
	Na[9] = 0
	Na[10] = 0
	Na[11] = cc
	Na[12] = 2.0 * x * cc
	Na[13] = 0
	Na[14] = 0

	Nb[0] = 0
	Nb[1] = ca
	Nb[2] = 2.0 * y * ca
	Nb[3] = 0
	Nb[4] = 0
	Nb[5] = db
	Nb[6] = x * db
	Nb[7] = x * x * db
	Nb[8] = z * db
	Nb[9] = z * z * db
	Nb[10] = 0
	Nb[11] = 0
	Nb[12] = 0
	Nb[13] = cc
	Nb[14] = 2.0 * y * cc

	Nc[0] = 0
	Nc[1] = 0
	Nc[2] = 0
	Nc[3] = ca
	Nc[4] = 2.0 * z * ca
	Nc[5] = 0
	Nc[6] = 0
	Nc[7] = 0
	Nc[8] = cb
	Nc[9] = 2.0 * z * cb
	Nc[10] = dc
	Nc[11] = x * dc
	Nc[12] = x * x * dc
	Nc[13] = y * dc
	Nc[14] = y * y * dc
}
