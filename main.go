// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/peekwez/tmr/fem"
	"github.com/peekwez/tmr/forest"
	"github.com/peekwez/tmr/inp"
	"github.com/peekwez/tmr/msolid"
	"github.com/peekwez/tmr/out"
	"github.com/peekwez/tmr/par"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if par.Rank() == 0 {
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "data/estimate", ".sim", true)
	verbose := io.ArgToBool(1, true)

	if par.Rank() == 0 && verbose {
		io.PfWhite("\nTMR -- Adaptive Refinement Tools\n\n")
		io.Pf("\n%v\n", io.ArgsTable(
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// simulation data
	sim := inp.ReadSim(fnamepath)
	if sim == nil {
		chk.Panic("cannot read simulation input data")
	}

	// forests
	box := forest.BoxData{
		Nx: sim.Mesh.Nx, Ny: sim.Mesh.Ny, Nz: sim.Mesh.Nz,
		X0: sim.Mesh.X0, Y0: sim.Mesh.Y0, Z0: sim.Mesh.Z0,
		Lx: sim.Mesh.Lx, Ly: sim.Mesh.Ly, Lz: sim.Mesh.Lz,
		Order:   sim.Mesh.Order,
		Lobatto: sim.Mesh.Lobatto,
		Name:    sim.Mesh.Name,
	}
	if sim.Mesh.Ndim != 3 {
		chk.Panic("the driver runs 3D analyses. ndim=%d is invalid", sim.Mesh.Ndim)
	}
	f := forest.NewBoxForest3d(box)
	fr := f.Elevate()

	// domain with solid elements
	dom := fem.NewDomain(f, fr, 3)
	dom.Elems = make([]fem.Elem, f.Nelems)
	prms := fun.Prms{
		&fun.Prm{N: "E", V: sim.Mat.E},
		&fun.Prm{N: "nu", V: sim.Mat.Nu},
		&fun.Prm{N: "ys", V: sim.Mat.Ys},
		&fun.Prm{N: "q", V: sim.Mat.Q},
	}
	for e := 0; e < f.Nelems; e++ {
		mdl := msolid.GetModel(sim.Mat.Model, 3, prms)
		dom.Elems[e] = fem.NewElemSolid(fr.Order, fr.Knots, mdl)
	}

	// state: a smooth displacement field standing in for a solver
	// solution
	u := dom.NewVec(3)
	vals := u.GetArray()
	for n, p := range f.X {
		vals[3*n] = 0.01 * p.X * p.X
		vals[3*n+1] = -0.002 * p.Y * p.X
		vals[3*n+2] = 0.001 * p.Z
	}

	// strain-energy error estimate
	t0 := par.Wtime()
	errors := make([]float64, f.Nelems)
	total := fem.StrainEnergyErrorEst3d(dom, u, errors)
	if par.Rank() == 0 && verbose {
		io.Pf("\nstrain energy error = %g\n", total)
		fem.PrintErrorBins(errors)
	}

	// KS stress functional over the reconstructed field
	ksElems := make([]fem.Elem, f.Nelems)
	for e := 0; e < f.Nelems; e++ {
		mdl := msolid.GetModel(sim.Mat.Model, 3, prms)
		ksElems[e] = fem.NewElemSolid(f.Order, f.Knots, mdl)
	}
	ksDom := fem.NewDomain(f, fr, 3)
	ksDom.Elems = ksElems
	sc := fem.NewStressConstraint(ksDom, sim.Funcs.KsWeight)
	sc.EvalConstraint(u)

	// diagnostics
	pts, fvals, nquad := sc.SampleFailure(u)
	if par.Rank() == 0 {
		out.WriteReconToTec(sim.Data.DirOut, sim.Key+"-recon", pts, fvals, nquad, sim.Mat.Ys)
		out.WriteVtk(sim.Data.DirOut, sim.Key+"-mesh", f, nil)
	}

	if par.Rank() == 0 && verbose {
		io.Pflmag("elapsed time = %v s\n", par.Wtime()-t0)
	}
}
