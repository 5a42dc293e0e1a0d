// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msolid implements constitutive models for the stress
// functionals: linear elasticity and failure criteria with
// design-variable sensitivities
package msolid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines the constitutive surface needed by the KS stress
// functional: a scalar failure value at a point, its gradient with
// respect to the strain, and the scale-accumulate design-variable
// sensitivity
type Model interface {
	Init(ndim int, prms fun.Prms) (err error)
	GetPrms() fun.Prms
	Failure(pt, ε []float64) (fval float64)
	FailureStrainSens(pt, ε, dfde []float64)
	AddFailureDVSens(pt, ε []float64, α float64, dfdx []float64)
}

// allocators holds all available models
var allocators = make(map[string]func() Model)

// New returns a new model of the given name; nil when the name is
// unknown
func New(name string) Model {
	if alloc, ok := allocators[name]; ok {
		return alloc()
	}
	return nil
}

// GetModel allocates and initialises a model, panicking on unknown
// names or bad parameters
func GetModel(name string, ndim int, prms fun.Prms) Model {
	m := New(name)
	if m == nil {
		chk.Panic("cannot find model named %q", name)
	}
	if err := m.Init(ndim, prms); err != nil {
		chk.Panic("cannot initialise model %q:\n%v", name, err)
	}
	return m
}
