// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the higher-order solution reconstruction on
// quadtree/octree forests together with its consumers: strain-energy
// and adjoint-weighted error estimators, the KS stress constraint and
// the curvature constraint
package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/peekwez/tmr/forest"
	"github.com/peekwez/tmr/nvec"
)

// Domain binds the coarse forest, its order-elevated duplicate, the
// element set and the nodal-vector factories. The forests and the
// elements are borrowed: the domain does not own them
type Domain struct {
	Forest        *forest.Forest // coarse mesh
	ForestRefined *forest.Forest // embedded order-elevated mesh
	VarsPerNode   int
	Elems         []Elem    // one element per forest element id
	Aux           []AuxPair // surface tractions, sorted by element id
	BcNodes       []int     // nodes with essential boundary conditions

	dep        *nvec.DepNodes
	depRefined *nvec.DepNodes
}

// AuxPair binds an auxiliary (traction) element to the element id it
// acts upon
type AuxPair struct {
	Num  int
	Elem AuxElem
}

// NewDomain creates a domain over the given forests. refined may be
// nil when no refined-mesh path is needed
func NewDomain(f, refined *forest.Forest, varsPerNode int) (o *Domain) {
	if f == nil {
		chk.Panic("forest must not be nil")
	}
	if varsPerNode < 1 {
		chk.Panic("varsPerNode must be positive. %d is invalid", varsPerNode)
	}
	o = &Domain{
		Forest:        f,
		ForestRefined: refined,
		VarsPerNode:   varsPerNode,
	}
	o.dep = depTable(f)
	if refined != nil {
		o.depRefined = depTable(refined)
	}
	return
}

// depTable converts a forest's dependent-node table into the vector
// form
func depTable(f *forest.Forest) *nvec.DepNodes {
	ptr, conn, wts, ndep := f.DepNodeConn()
	if ndep <= 0 {
		return nil
	}
	return &nvec.DepNodes{Ptr: ptr, Conn: conn, Wts: wts}
}

// NewVec creates a zeroed nodal vector on the coarse forest
func (o *Domain) NewVec(blockSize int) *nvec.Vec {
	return nvec.NewVec(o.Forest.Nnodes, blockSize, o.dep)
}

// NewRefinedVec creates a zeroed nodal vector on the refined forest
func (o *Domain) NewRefinedVec(blockSize int) *nvec.Vec {
	if o.ForestRefined == nil {
		chk.Panic("domain has no refined forest")
	}
	return nvec.NewVec(o.ForestRefined.Nnodes, blockSize, o.depRefined)
}

// ApplyBcs zeroes the blocks of the boundary-condition nodes in v
func (o *Domain) ApplyBcs(v *nvec.Vec) {
	bs := v.BlockSize
	vals := v.GetArray()
	for _, n := range o.BcNodes {
		for k := 0; k < bs; k++ {
			vals[bs*n+k] = 0
		}
	}
}
