// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the diagnostic writers: legacy VTK and
// Tecplot ASCII grids of nodal and reconstructed fields
package out

import (
	"bytes"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/peekwez/tmr/forest"
)

// corner local indices of a tensor-product element in VTK ordering
func vtkCorners(f *forest.Forest) []int {
	p := f.Order
	if f.Ndim == 2 {
		return []int{0, p - 1, p*p - 1, p * (p - 1)}
	}
	b := 0
	t := p * p * (p - 1)
	return []int{
		b, b + p - 1, b + p*p - 1, b + p*(p-1),
		t, t + p - 1, t + p*p - 1, t + p*(p-1),
	}
}

// WriteVtk writes the forest and the given nodal scalar fields as a
// legacy ASCII VTK unstructured grid. Field values are indexed by
// independent node number. A dependent corner slot is written as the
// index of its first independent contributor, so every cell is closed
func WriteVtk(dirout, fnkey string, f *forest.Forest, fields map[string][]float64) {
	buf := new(bytes.Buffer)
	io.Ff(buf, "# vtk DataFile Version 3.0\n")
	io.Ff(buf, "reconstruction diagnostics\n")
	io.Ff(buf, "ASCII\nDATASET UNSTRUCTURED_GRID\n")

	io.Ff(buf, "POINTS %d float\n", f.Nnodes)
	for _, p := range f.X {
		io.Ff(buf, "%g %g %g\n", p.X, p.Y, p.Z)
	}

	corners := vtkCorners(f)
	nc := len(corners)
	io.Ff(buf, "CELLS %d %d\n", f.Nelems, f.Nelems*(nc+1))
	for e := 0; e < f.Nelems; e++ {
		nodes := f.ElemNodes(e)
		io.Ff(buf, "%d", nc)
		for _, lc := range corners {
			c := nodes[lc]
			if c < 0 {
				// a corner is never dependent on a balanced forest;
				// fall back to the first contributor
				ptr, conn, _, _ := f.DepNodeConn()
				c = conn[ptr[-c-1]]
			}
			io.Ff(buf, " %d", c)
		}
		io.Ff(buf, "\n")
	}

	io.Ff(buf, "CELL_TYPES %d\n", f.Nelems)
	vtkType := 12 // hexahedron
	if f.Ndim == 2 {
		vtkType = 9 // quad
	}
	for e := 0; e < f.Nelems; e++ {
		io.Ff(buf, "%d\n", vtkType)
	}

	if len(fields) > 0 {
		io.Ff(buf, "POINT_DATA %d\n", f.Nnodes)
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			vals := fields[name]
			chk.IntAssert(len(vals), f.Nnodes)
			io.Ff(buf, "SCALARS %s float 1\nLOOKUP_TABLE default\n", name)
			for _, v := range vals {
				io.Ff(buf, "%g\n", v)
			}
		}
	}

	io.WriteFileVD(dirout, fnkey+".vtk", buf)
}
