// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nvec

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_nvec01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("nvec01. add and insert semantics")

	v := NewVec(4, 2, nil)
	v.SetValues([]int{0, 2}, []float64{1, 2, 3, 4}, Add)
	v.SetValues([]int{2, 3}, []float64{10, 20, 30, 40}, Add)
	v.BeginSetValues(Add)
	v.EndSetValues(Add)
	v.BeginDistributeValues()
	v.EndDistributeValues()

	out := make([]float64, 8)
	v.GetValues([]int{0, 1, 2, 3}, out)
	chk.Vector(tst, "add", 1e-15, out, []float64{1, 2, 0, 0, 13, 24, 30, 40})

	v.Zero()
	v.SetValues([]int{1}, []float64{5, 6}, InsertNonzero)
	v.SetValues([]int{1}, []float64{5, 6}, InsertNonzero)
	v.BeginSetValues(InsertNonzero)
	v.EndSetValues(InsertNonzero)
	v.GetValues([]int{1}, out[:2])
	chk.Vector(tst, "insert", 1e-15, out[:2], []float64{5, 6})
}

func Test_nvec02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("nvec02. dependent-node masking")

	// node -5 depends on {3, 7} with weights {1/2, 1/2}; the table
	// therefore carries four placeholder dependents so that index
	// -5 resolves to slot 4
	conns := [][]int{{0}, {0}, {0}, {0}, {3, 7}}
	wts := [][]float64{{1}, {1}, {1}, {1}, {0.5, 0.5}}
	dep := NewDepNodes(conns, wts)
	chk.IntAssert(dep.Ndep(), 5)

	v := NewVec(8, 1, dep)
	v.SetValues([]int{3}, []float64{2}, Add)
	v.SetValues([]int{7}, []float64{6}, Add)
	v.BeginSetValues(Add)
	v.EndSetValues(Add)
	v.BeginDistributeValues()
	v.EndDistributeValues()

	// read-back resolves the weighted sum
	out := make([]float64, 1)
	v.GetValues([]int{-5}, out)
	chk.Scalar(tst, "dep read", 1e-15, out[0], 4.0)

	// an insert to the dependent slot never lands in raw storage
	v.SetValues([]int{-5}, []float64{99}, InsertNonzero)
	raw := v.GetArray()
	chk.Scalar(tst, "raw 3", 1e-15, raw[3], 2.0)
	chk.Scalar(tst, "raw 7", 1e-15, raw[7], 6.0)

	// an add routes the weighted share to the contributors
	v.SetValues([]int{-5}, []float64{4}, Add)
	chk.Scalar(tst, "routed 3", 1e-15, raw[3], 4.0)
	chk.Scalar(tst, "routed 7", 1e-15, raw[7], 8.0)
}
