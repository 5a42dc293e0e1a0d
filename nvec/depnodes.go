// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nvec

import "github.com/cpmech/gosl/chk"

// DepNodes holds the dependent-node table: dependent node d is the
// weighted sum of the independent nodes Conn[Ptr[d]:Ptr[d+1]] with
// weights Wts over the same range
type DepNodes struct {
	Ptr  []int
	Conn []int
	Wts  []float64
}

// NewDepNodes builds a table from per-dependent-node contributor
// lists and weights
func NewDepNodes(conns [][]int, wts [][]float64) *DepNodes {
	chk.IntAssert(len(conns), len(wts))
	o := &DepNodes{Ptr: make([]int, len(conns)+1)}
	for d := range conns {
		chk.IntAssert(len(conns[d]), len(wts[d]))
		o.Conn = append(o.Conn, conns[d]...)
		o.Wts = append(o.Wts, wts[d]...)
		o.Ptr[d+1] = len(o.Conn)
	}
	return o
}

// Ndep returns the number of dependent nodes
func (o *DepNodes) Ndep() int {
	if o == nil {
		return 0
	}
	return len(o.Ptr) - 1
}
