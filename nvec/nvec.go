// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package nvec implements the distributed nodal vector used by the
// reconstruction core. A vector maps node indices to fixed-length
// blocks of values; negative indices address dependent (hanging)
// nodes whose values are fixed linear combinations of independent
// nodes. Element-wise writes use add or insert-nonzero semantics and
// become globally consistent after the finalize/distribute pair
package nvec

import (
	"github.com/cpmech/gosl/chk"

	"github.com/peekwez/tmr/par"
)

// SetMode selects the write semantics of SetValues
type SetMode int

const (
	Add           SetMode = iota // accumulate contributions
	InsertNonzero                // insert values; duplicates must agree
)

// Vec is a nodal vector with BlockSize values per node
type Vec struct {
	BlockSize int
	Nnodes    int
	vals      []float64
	dep       *DepNodes
	writers   []float64 // insert multiplicity, allocated on demand
	ws        []float64 // allreduce workspace
}

// NewVec creates a zeroed vector for nnodes independent nodes with
// the given block size. dep may be nil when the mesh has no hanging
// nodes
func NewVec(nnodes, blockSize int, dep *DepNodes) *Vec {
	if nnodes < 1 || blockSize < 1 {
		chk.Panic("invalid vector dimensions: nnodes=%d blockSize=%d", nnodes, blockSize)
	}
	return &Vec{
		BlockSize: blockSize,
		Nnodes:    nnodes,
		vals:      make([]float64, nnodes*blockSize),
		dep:       dep,
	}
}

// Zero resets all entries
func (o *Vec) Zero() {
	for i := range o.vals {
		o.vals[i] = 0
	}
	o.writers = nil
}

// GetArray returns the raw storage of the independent nodes
func (o *Vec) GetArray() []float64 {
	return o.vals
}

// CopyValues copies the raw storage of another vector with the same
// shape
func (o *Vec) CopyValues(other *Vec) {
	chk.IntAssert(len(o.vals), len(other.vals))
	copy(o.vals, other.vals)
}

// GetValues gathers the blocks of the given nodes into out. A
// dependent node resolves to the weighted sum of its independent
// contributors
func (o *Vec) GetValues(nodes []int, out []float64) {
	bs := o.BlockSize
	for j, c := range nodes {
		dst := out[bs*j : bs*(j+1)]
		if c >= 0 {
			copy(dst, o.vals[bs*c:bs*(c+1)])
			continue
		}
		for k := 0; k < bs; k++ {
			dst[k] = 0
		}
		if o.dep == nil {
			continue
		}
		d := -c - 1
		for p := o.dep.Ptr[d]; p < o.dep.Ptr[d+1]; p++ {
			t := o.dep.Conn[p]
			w := o.dep.Wts[p]
			src := o.vals[bs*t : bs*(t+1)]
			for k := 0; k < bs; k++ {
				dst[k] += w * src[k]
			}
		}
	}
}

// SetValues writes the blocks of in at the given nodes. With Add, a
// write to a dependent node is routed through the table: each
// independent contributor receives its weighted share and the raw
// storage of the dependent slot is untouched. With InsertNonzero,
// writes to dependent nodes are dropped
func (o *Vec) SetValues(nodes []int, in []float64, mode SetMode) {
	bs := o.BlockSize
	for j, c := range nodes {
		src := in[bs*j : bs*(j+1)]
		if c < 0 {
			if mode == Add && o.dep != nil {
				d := -c - 1
				for p := o.dep.Ptr[d]; p < o.dep.Ptr[d+1]; p++ {
					t := o.dep.Conn[p]
					w := o.dep.Wts[p]
					dst := o.vals[bs*t : bs*(t+1)]
					for k := 0; k < bs; k++ {
						dst[k] += w * src[k]
					}
				}
			}
			continue
		}
		dst := o.vals[bs*c : bs*(c+1)]
		switch mode {
		case Add:
			for k := 0; k < bs; k++ {
				dst[k] += src[k]
			}
		case InsertNonzero:
			any := false
			for k := 0; k < bs; k++ {
				if src[k] != 0 {
					dst[k] = src[k]
					any = true
				}
			}
			if any && par.On() {
				o.markWriter(c)
			}
		}
	}
}

func (o *Vec) markWriter(c int) {
	if o.writers == nil {
		o.writers = make([]float64, o.Nnodes)
	}
	o.writers[c] = 1
}

// BeginSetValues starts the cross-process reduction of pending writes
func (o *Vec) BeginSetValues(mode SetMode) {
	// communication is carried out in EndSetValues
}

// EndSetValues completes the cross-process reduction: with Add every
// owner holds the sum over contributors; with InsertNonzero processes
// that inserted consistent duplicates agree on the inserted value
func (o *Vec) EndSetValues(mode SetMode) {
	if !par.On() || par.Size() < 2 {
		return
	}
	if o.ws == nil {
		o.ws = make([]float64, len(o.vals))
	}
	par.AllReduceSum(o.vals, o.ws)
	if mode == InsertNonzero {
		if o.writers == nil {
			o.writers = make([]float64, o.Nnodes)
		}
		w := make([]float64, o.Nnodes)
		par.AllReduceSum(o.writers, w)
		bs := o.BlockSize
		for c := 0; c < o.Nnodes; c++ {
			if o.writers[c] > 1 {
				for k := 0; k < bs; k++ {
					o.vals[bs*c+k] /= o.writers[c]
				}
			}
		}
		o.writers = nil
	}
}

// BeginDistributeValues starts pulling up-to-date values for shared
// nodes
func (o *Vec) BeginDistributeValues() {
	// the replicated storage is already consistent after EndSetValues
}

// EndDistributeValues completes the distribution
func (o *Vec) EndDistributeValues() {
}
