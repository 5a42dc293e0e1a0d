// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana provides closed-form fields with exact gradients used
// by the verification tests and the examples
package ana

import "math"

// PolyField is a scalar polynomial field of the form
// a + b·x + c·y + d·z + e·x² with its exact gradient
type PolyField struct {
	A, B, C, D, E float64
}

// Value returns the field value at (x,y,z)
func (o *PolyField) Value(x, y, z float64) float64 {
	return o.A + o.B*x + o.C*y + o.D*z + o.E*x*x
}

// Grad returns the exact gradient at (x,y,z)
func (o *PolyField) Grad(x, y, z float64) (gx, gy, gz float64) {
	return o.B + 2.0*o.E*x, o.C, o.D
}

// RampDisp is a displacement field of a rod aligned with x whose
// axial strain grows linearly toward the far end, producing a stress
// hot-spot there: ux = s·x²/(2L), so εxx = s·x/L
type RampDisp struct {
	S float64 // peak strain
	L float64 // rod length
}

// Ux returns the axial displacement at x
func (o *RampDisp) Ux(x float64) float64 {
	return o.S * x * x / (2.0 * o.L)
}

// Strain returns the axial strain at x
func (o *RampDisp) Strain(x float64) float64 {
	return o.S * x / o.L
}

// SphereField is the implicit design field x = (1 - r)/2 whose 0.5
// isocontour is the unit sphere; at the transition band both
// principal curvatures of the level set equal one
type SphereField struct{}

// Value returns the field value at (x,y,z)
func (o SphereField) Value(x, y, z float64) float64 {
	return 0.5 * (1.0 - math.Sqrt(x*x+y*y+z*z))
}

// Grad returns the exact gradient at (x,y,z)
func (o SphereField) Grad(x, y, z float64) (gx, gy, gz float64) {
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return 0, 0, 0
	}
	return -0.5 * x / r, -0.5 * y / r, -0.5 * z / r
}
