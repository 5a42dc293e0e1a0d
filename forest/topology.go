// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forest

import "sort"

// Topology groups elements of a forest by the name of the geometric
// entity (face in 2D, volume in 3D) that owns them
type Topology struct {
	groups map[string][]int
}

// NewTopology returns an empty topology
func NewTopology() *Topology {
	return &Topology{groups: make(map[string][]int)}
}

// AddElem appends element e to the named group
func (o *Topology) AddElem(name string, e int) {
	o.groups[name] = append(o.groups[name], e)
}

// Names returns the unique group names, sorted for deterministic
// iteration
func (o *Topology) Names() []string {
	names := make([]string, 0, len(o.groups))
	for name := range o.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Elems returns the element ids in the named group; a missing name
// yields an empty group
func (o *Topology) Elems(name string) []int {
	return o.groups[name]
}
