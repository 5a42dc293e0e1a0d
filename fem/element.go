// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/peekwez/tmr/msolid"

// Elem is the element collaborator of the estimators: it provides the
// energy and the localized-error callbacks for a field given on its
// own nodes. Implementations are pure functions of the passed node
// coordinates and state; they carry no mesh position of their own
type Elem interface {

	// NumNodes returns the number of nodes of the element
	NumNodes() int

	// ComputeEnergies computes the kinetic and potential energies of
	// the state uvars at node locations Xpts
	ComputeEnergies(time float64, Xpts, uvars []float64) (Te, Pe float64)

	// AddLocalizedError accumulates the nodal-distributed estimate of
	// ψᵀ(f-K·u) into errv (one value per node)
	AddLocalizedError(time float64, errv, ψ, Xpts, uvars []float64)

	// GetConstitutive returns the constitutive model (may be nil)
	GetConstitutive() msolid.Model
}

// AuxElem is a boundary/auxiliary element (e.g. a surface traction)
// bound to a volume element; it contributes the external-work part of
// the localized error
type AuxElem interface {
	AddLocalizedError(time float64, errv, ψ, Xpts, uvars []float64)
}
