// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/io"

	"github.com/peekwez/tmr/shp"
)

// ElemTraction applies a constant traction vector over one face of a
// hexahedral element. It contributes the external-work part of the
// localized error estimate. Faces are numbered 0..5 as -ξ,+ξ,-η,+η,
// -ζ,+ζ
type ElemTraction struct {
	Order int
	Knots []float64
	Face  int
	Trac  [3]float64
	Mult  float64 // load multiplier

	// scratch
	nquad int
	N     []float64
	Na    []float64
	Nb    []float64
}

// NewElemTraction creates a traction element on the given face
func NewElemTraction(order int, knots []float64, face int, trac [3]float64) *ElemTraction {
	nn := order * order * order
	return &ElemTraction{
		Order: order,
		Knots: knots,
		Face:  face,
		Trac:  trac,
		Mult:  1,
		nquad: order + 1,
		N:     make([]float64, nn),
		Na:    make([]float64, nn),
		Nb:    make([]float64, nn),
	}
}

// facePoint maps the 2-parameter face coordinates (s,t) into the
// 3-parameter reference space of the volume element
func (o *ElemTraction) facePoint(s, t float64) (pt [3]float64) {
	switch o.Face {
	case 0:
		pt = [3]float64{-1, s, t}
	case 1:
		pt = [3]float64{1, s, t}
	case 2:
		pt = [3]float64{s, -1, t}
	case 3:
		pt = [3]float64{s, 1, t}
	case 4:
		pt = [3]float64{s, t, -1}
	default:
		pt = [3]float64{s, t, 1}
	}
	return
}

// AddLocalizedError accumulates the external-work part ψ·t over the
// face into errv
func (o *ElemTraction) AddLocalizedError(time float64, errv, ψ, Xpts, uvars []float64) {
	pts, wts := shp.GaussPtsWts(o.nquad)
	nn := o.Order * o.Order * o.Order
	Nc := make([]float64, nn)
	var xd, jm [9]float64
	for jj := 0; jj < o.nquad; jj++ {
		for ii := 0; ii < o.nquad; ii++ {
			pt := o.facePoint(pts[ii], pts[jj])
			shp.Interp3d(pt[:], o.Knots, o.N, o.Na, o.Nb, Nc)

			// surface Jacobian from the two in-face tangents
			_, err := shp.JacobianTrans3d(Xpts, o.Na, o.Nb, Nc, xd[:], jm[:], nn)
			if err != nil {
				io.Pfred("traction element: %v\n", err)
				continue
			}
			var t1, t2, nvec [3]float64
			switch o.Face / 2 {
			case 0: // ξ faces: tangents along η,ζ
				t1 = [3]float64{xd[3], xd[4], xd[5]}
				t2 = [3]float64{xd[6], xd[7], xd[8]}
			case 1: // η faces: tangents along ξ,ζ
				t1 = [3]float64{xd[0], xd[1], xd[2]}
				t2 = [3]float64{xd[6], xd[7], xd[8]}
			default: // ζ faces: tangents along ξ,η
				t1 = [3]float64{xd[0], xd[1], xd[2]}
				t2 = [3]float64{xd[3], xd[4], xd[5]}
			}
			shp.CrossProduct3d(nvec[:], t1[:], t2[:])
			dS := shp.Normalize3d(nvec[:])

			// ψ at the face point
			var ψx, ψy, ψz float64
			for i := 0; i < nn; i++ {
				ψx += o.N[i] * ψ[3*i]
				ψy += o.N[i] * ψ[3*i+1]
				ψz += o.N[i] * ψ[3*i+2]
			}
			work := o.Mult * (ψx*o.Trac[0] + ψy*o.Trac[1] + ψz*o.Trac[2])
			cf := dS * wts[ii] * wts[jj] * work
			for i := 0; i < nn; i++ {
				errv[i] += cf * o.N[i]
			}
		}
	}
}
