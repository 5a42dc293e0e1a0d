// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forest

import (
	"github.com/cpmech/gosl/chk"

	"github.com/peekwez/tmr/shp"
)

// BoxData holds the input for a uniform Cartesian forest
type BoxData struct {
	Nx, Ny, Nz int     // number of elements per axis (Nz ignored in 2D)
	X0, Y0, Z0 float64 // lower corner
	Lx, Ly, Lz float64 // extents
	Order      int     // nodes per axis within an element
	Lobatto    bool    // use Gauss-Lobatto knots instead of uniform
	Name       string  // topological name of the single group
}

func selectKnots(order int, lobatto bool) []float64 {
	if lobatto {
		return shp.LobattoKnots(order)
	}
	return shp.UniformKnots(order)
}

// NewBoxForest3d builds a uniform hexahedral forest over the box
// [x0,x0+lx]×[y0,y0+ly]×[z0,z0+lz] with nx×ny×nz elements of the
// given order. All elements belong to one named volume
func NewBoxForest3d(d BoxData) *Forest {
	if d.Nx < 1 || d.Ny < 1 || d.Nz < 1 {
		chk.Panic("number of elements must be positive. (%d,%d,%d) is invalid", d.Nx, d.Ny, d.Nz)
	}
	p := d.Order
	knots := selectKnots(p, d.Lobatto)

	// nodes per axis
	NX := d.Nx*(p-1) + 1
	NY := d.Ny*(p-1) + 1
	NZ := d.Nz*(p-1) + 1

	o := &Forest{
		Ndim:   3,
		Order:  p,
		Knots:  knots,
		Nelems: d.Nx * d.Ny * d.Nz,
		Nnodes: NX * NY * NZ,
		DepPtr: []int{0},
		Topo:   NewTopology(),
		grid: &gridData{
			nx: d.Nx, ny: d.Ny, nz: d.Nz,
			x0: d.X0, y0: d.Y0, z0: d.Z0,
			lx: d.Lx, ly: d.Ly, lz: d.Lz,
			lobatto: d.Lobatto, name: d.Name,
		},
	}

	// node positions
	dx := d.Lx / float64(d.Nx)
	dy := d.Ly / float64(d.Ny)
	dz := d.Lz / float64(d.Nz)
	xcoord := axisCoords(d.X0, dx, d.Nx, knots)
	ycoord := axisCoords(d.Y0, dy, d.Ny, knots)
	zcoord := axisCoords(d.Z0, dz, d.Nz, knots)
	o.X = make([]Point, o.Nnodes)
	for k := 0; k < NZ; k++ {
		for j := 0; j < NY; j++ {
			for i := 0; i < NX; i++ {
				o.X[i+NX*j+NX*NY*k] = Point{xcoord[i], ycoord[j], zcoord[k]}
			}
		}
	}

	// connectivity
	npe := p * p * p
	o.Conn = make([]int, o.Nelems*npe)
	for ez := 0; ez < d.Nz; ez++ {
		for ey := 0; ey < d.Ny; ey++ {
			for ex := 0; ex < d.Nx; ex++ {
				e := ex + d.Nx*ey + d.Nx*d.Ny*ez
				c := o.Conn[npe*e : npe*(e+1)]
				for kk := 0; kk < p; kk++ {
					for jj := 0; jj < p; jj++ {
						for ii := 0; ii < p; ii++ {
							gi := ex*(p-1) + ii
							gj := ey*(p-1) + jj
							gk := ez*(p-1) + kk
							c[ii+p*jj+p*p*kk] = gi + NX*gj + NX*NY*gk
						}
					}
				}
				o.Topo.AddElem(d.Name, e)
			}
		}
	}
	return o
}

// NewBoxForest2d builds a uniform quadrilateral forest over the
// rectangle [x0,x0+lx]×[y0,y0+ly] with nx×ny elements of the given
// order, embedded in 3D at z = z0. All elements belong to one named
// face
func NewBoxForest2d(d BoxData) *Forest {
	if d.Nx < 1 || d.Ny < 1 {
		chk.Panic("number of elements must be positive. (%d,%d) is invalid", d.Nx, d.Ny)
	}
	p := d.Order
	knots := selectKnots(p, d.Lobatto)

	NX := d.Nx*(p-1) + 1
	NY := d.Ny*(p-1) + 1

	o := &Forest{
		Ndim:   2,
		Order:  p,
		Knots:  knots,
		Nelems: d.Nx * d.Ny,
		Nnodes: NX * NY,
		DepPtr: []int{0},
		Topo:   NewTopology(),
		grid: &gridData{
			nx: d.Nx, ny: d.Ny,
			x0: d.X0, y0: d.Y0, z0: d.Z0,
			lx: d.Lx, ly: d.Ly,
			lobatto: d.Lobatto, name: d.Name,
		},
	}

	dx := d.Lx / float64(d.Nx)
	dy := d.Ly / float64(d.Ny)
	xcoord := axisCoords(d.X0, dx, d.Nx, knots)
	ycoord := axisCoords(d.Y0, dy, d.Ny, knots)
	o.X = make([]Point, o.Nnodes)
	for j := 0; j < NY; j++ {
		for i := 0; i < NX; i++ {
			o.X[i+NX*j] = Point{xcoord[i], ycoord[j], d.Z0}
		}
	}

	npe := p * p
	o.Conn = make([]int, o.Nelems*npe)
	for ey := 0; ey < d.Ny; ey++ {
		for ex := 0; ex < d.Nx; ex++ {
			e := ex + d.Nx*ey
			c := o.Conn[npe*e : npe*(e+1)]
			for jj := 0; jj < p; jj++ {
				for ii := 0; ii < p; ii++ {
					gi := ex*(p-1) + ii
					gj := ey*(p-1) + jj
					c[ii+p*jj] = gi + NX*gj
				}
			}
			o.Topo.AddElem(d.Name, e)
		}
	}
	return o
}

// axisCoords returns the node coordinates along one axis of a uniform
// grid: ne elements of length h starting at r0, with the per-element
// knots mapped into each element. Shared end knots coincide
func axisCoords(r0, h float64, ne int, knots []float64) []float64 {
	p := len(knots)
	coords := make([]float64, ne*(p-1)+1)
	for e := 0; e < ne; e++ {
		for i := 0; i < p; i++ {
			coords[e*(p-1)+i] = r0 + h*(float64(e)+(1.0+knots[i])/2.0)
		}
	}
	return coords
}

// Elevate rebuilds a uniform forest on the same element partition with
// the order raised by one (the embedded refined mesh). Only forests
// created by the uniform constructors can be elevated
func (o *Forest) Elevate() *Forest {
	if o.grid == nil {
		chk.Panic("cannot elevate a forest without uniform-grid metadata")
	}
	g := o.grid
	d := BoxData{
		Nx: g.nx, Ny: g.ny, Nz: g.nz,
		X0: g.x0, Y0: g.y0, Z0: g.z0,
		Lx: g.lx, Ly: g.ly, Lz: g.lz,
		Order:   o.Order + 1,
		Lobatto: g.lobatto,
		Name:    g.name,
	}
	if o.Ndim == 2 {
		return NewBoxForest2d(d)
	}
	return NewBoxForest3d(d)
}
