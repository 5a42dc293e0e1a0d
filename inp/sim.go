// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Data holds global data for simulations
type Data struct {
	Desc   string `json:"desc"`   // description of simulation
	DirOut string `json:"dirout"` // directory for output; e.g. /tmp/tmr
}

// MeshData describes the uniform Cartesian forest of the analysis
type MeshData struct {
	Ndim    int     `json:"ndim"`    // 2 (shell) or 3
	Nx      int     `json:"nx"`      // elements along x
	Ny      int     `json:"ny"`      // elements along y
	Nz      int     `json:"nz"`      // elements along z (3D only)
	X0      float64 `json:"x0"`      // lower corner
	Y0      float64 `json:"y0"`      //
	Z0      float64 `json:"z0"`      //
	Lx      float64 `json:"lx"`      // extents
	Ly      float64 `json:"ly"`      //
	Lz      float64 `json:"lz"`      //
	Order   int     `json:"order"`   // nodes per axis within an element
	Lobatto bool    `json:"lobatto"` // use Gauss-Lobatto knots
	Name    string  `json:"name"`    // topological name of the region
}

// FuncsData holds the functional parameters
type FuncsData struct {
	KsWeight  float64 `json:"ksweight"`  // KS aggregation weight
	AggWeight float64 `json:"aggweight"` // curvature aggregation weight
	FdStep    float64 `json:"fdstep"`    // finite-difference/perturbation step
}

// MatData holds the material parameters
type MatData struct {
	Model string  `json:"model"` // constitutive model name; e.g. "vm"
	E     float64 `json:"E"`     // Young's modulus
	Nu    float64 `json:"nu"`    // Poisson's ratio
	Ys    float64 `json:"ys"`    // yield stress
	Q     float64 `json:"q"`     // relaxation exponent
}

// Simulation holds all simulation input data
type Simulation struct {
	Data  Data      `json:"data"`
	Mesh  MeshData  `json:"mesh"`
	Funcs FuncsData `json:"functionals"`
	Mat   MatData   `json:"material"`

	// derived
	Key string // simulation key; e.g. simfile without extension
}

// ReadSim reads the simulation input data from a JSON file.
// Returns nil on errors
func ReadSim(simfilepath string) *Simulation {
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		io.PfRed("sim file cannot be read: %v\n", err)
		return nil
	}

	var o Simulation
	o.Funcs.KsWeight = 50
	o.Funcs.AggWeight = 50
	o.Funcs.FdStep = 1e-6
	if err := json.Unmarshal(b, &o); err != nil {
		io.PfRed("sim file is not valid JSON: %v\n", err)
		return nil
	}

	o.Key = io.FnKey(filepath.Base(simfilepath))
	if o.Data.DirOut == "" {
		o.Data.DirOut = "/tmp/tmr"
	}
	if o.Mesh.Order < 2 {
		chk.Panic("mesh order must be at least 2. order=%d is invalid", o.Mesh.Order)
	}
	return &o
}
