// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package forest holds the mesh collaborator of the reconstruction
// core: element-node connectivity of a quadtree/octree forest at a
// given interpolation order, node positions, the dependent-node table
// gluing refinement boundaries, and the topological grouping of
// elements by name
package forest

import (
	"github.com/cpmech/gosl/chk"

	"github.com/peekwez/tmr/shp"
)

// Point holds a 3D position in physical space
type Point struct {
	X, Y, Z float64
}

// Forest holds the mesh data for one interpolation order. Connectivity
// entries are independent node indices (≥ 0) or encoded dependent
// nodes: a value c < 0 refers to dependent node -c-1 in the table
type Forest struct {

	// mesh
	Ndim   int       // 2 (shell) or 3
	Order  int       // nodes per axis within an element
	Knots  []float64 // [Order] interpolation knots in [-1,1]
	Nelems int       // number of elements
	Nnodes int       // number of independent nodes
	Conn   []int     // [Nelems*Order^Ndim] element-node connectivity
	X      []Point   // [Nnodes] independent node positions
	Xdep   []Point   // [ndep] dependent node positions

	// dependent nodes
	DepPtr  []int     // [ndep+1] pointers into DepConn/DepWts
	DepConn []int     // independent contributors per dependent node
	DepWts  []float64 // weights per contributor

	// topology
	Topo *Topology

	// uniform-grid metadata kept for order elevation
	grid *gridData
}

// gridData keeps the constructor inputs of a uniform forest so that
// Elevate can rebuild the same partition at a higher order
type gridData struct {
	nx, ny, nz int
	x0, y0, z0 float64
	lx, ly, lz float64
	lobatto    bool
	name       string
}

// NumElemNodes returns the number of nodes of one element
func (o *Forest) NumElemNodes() int {
	n := o.Order * o.Order
	if o.Ndim == 3 {
		n *= o.Order
	}
	return n
}

// InterpKnots returns the mesh order and the knot vector
func (o *Forest) InterpKnots() (order int, knots []float64) {
	return o.Order, o.Knots
}

// NodeConn returns the full connectivity array and the number of
// elements
func (o *Forest) NodeConn() (conn []int, nelems int) {
	return o.Conn, o.Nelems
}

// Points returns the independent node positions
func (o *Forest) Points() []Point {
	return o.X
}

// DepNodeConn returns the dependent-node table
func (o *Forest) DepNodeConn() (ptr, conn []int, wts []float64, ndep int) {
	return o.DepPtr, o.DepConn, o.DepWts, len(o.DepPtr) - 1
}

// ElemNodes returns the connectivity slice of element e
func (o *Forest) ElemNodes(e int) []int {
	n := o.NumElemNodes()
	return o.Conn[n*e : n*(e+1)]
}

// NodePoint returns the position of a (possibly dependent) node index
func (o *Forest) NodePoint(c int) Point {
	if c < 0 {
		return o.Xdep[-c-1]
	}
	return o.X[c]
}

// ElemXpts fills Xpts (3 entries per node) with the node positions of
// element e, resolving dependent entries through their stored
// positions
func (o *Forest) ElemXpts(e int, Xpts []float64) {
	nodes := o.ElemNodes(e)
	if len(Xpts) < 3*len(nodes) {
		chk.Panic("Xpts buffer is too small: %d < %d", len(Xpts), 3*len(nodes))
	}
	for j, c := range nodes {
		p := o.NodePoint(c)
		Xpts[3*j] = p.X
		Xpts[3*j+1] = p.Y
		Xpts[3*j+2] = p.Z
	}
}

// EvalInterp evaluates the Lagrange basis of this forest's order at
// the reference point pt. N is mandatory; Na, Nb (and Nc in 3D) are
// filled when non-nil
func (o *Forest) EvalInterp(pt []float64, N, Na, Nb, Nc []float64) {
	if o.Ndim == 2 {
		shp.Interp2d(pt, o.Knots, N, Na, Nb)
		return
	}
	shp.Interp3d(pt, o.Knots, N, Na, Nb, Nc)
}

// GetTopology returns the topological grouping (may be nil)
func (o *Forest) GetTopology() *Topology {
	return o.Topo
}

// ElemsWithName returns the element ids in the named group. A missing
// name yields an empty group
func (o *Forest) ElemsWithName(name string) []int {
	if o.Topo == nil {
		return nil
	}
	return o.Topo.Elems(name)
}
