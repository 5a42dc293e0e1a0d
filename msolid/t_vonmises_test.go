// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_vm01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vm01. uniaxial stress state")

	mdl := GetModel("vm", 3, fun.Prms{
		&fun.Prm{N: "E", V: 1.0},
		&fun.Prm{N: "nu", V: 0.0},
		&fun.Prm{N: "ys", V: 2.0},
	})

	// with nu=0, εxx=1 gives σxx=1 and σvm=1
	ε := []float64{1, 0, 0, 0, 0, 0}
	fval := mdl.Failure(nil, ε)
	chk.Scalar(tst, "fval", 1e-15, fval, 0.5)
}

func Test_vm02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vm02. strain sensitivity vs central differences")

	mdl := GetModel("vm", 3, fun.Prms{
		&fun.Prm{N: "E", V: 100.0},
		&fun.Prm{N: "nu", V: 0.3},
		&fun.Prm{N: "ys", V: 10.0},
	})

	ε := []float64{0.01, -0.003, 0.002, 0.004, -0.001, 0.006}
	dfde := make([]float64, 6)
	mdl.FailureStrainSens(nil, ε, dfde)

	h := 1e-7
	for i := 0; i < 6; i++ {
		tmp := ε[i]
		ε[i] = tmp + h
		fp := mdl.Failure(nil, ε)
		ε[i] = tmp - h
		fm := mdl.Failure(nil, ε)
		ε[i] = tmp
		fd := (fp - fm) / (2.0 * h)
		chk.Scalar(tst, io.Sf("dfde%d", i), 1e-6, dfde[i], fd)
	}
}

func Test_vm03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vm03. design-variable sensitivity vs central differences")

	vm := New("vm").(*VonMises)
	err := vm.Init(3, fun.Prms{
		&fun.Prm{N: "E", V: 100.0},
		&fun.Prm{N: "nu", V: 0.3},
		&fun.Prm{N: "ys", V: 10.0},
		&fun.Prm{N: "q", V: 2.0},
	})
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}

	x := []float64{0.7}
	vm.BindDesignVars(x, 0)

	ε := []float64{0.01, -0.003, 0.002, 0.004, -0.001, 0.006}
	dfdx := make([]float64, 1)
	vm.AddFailureDVSens(nil, ε, 1.0, dfdx)

	h := 1e-7
	x[0] = 0.7 + h
	fp := vm.Failure(nil, ε)
	x[0] = 0.7 - h
	fm := vm.Failure(nil, ε)
	x[0] = 0.7
	fd := (fp - fm) / (2.0 * h)
	chk.Scalar(tst, "dfdx", 1e-6, dfdx[0], fd)
}
