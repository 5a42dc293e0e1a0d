// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package par wraps the message-passing collectives used by the
// reconstruction and the functionals. When MPI is off, every
// collective degrades to its serial meaning so that the same code
// path runs in tests and in SPMD jobs.
package par

import (
	"time"

	"github.com/cpmech/gosl/mpi"
)

// On tells whether the message-passing layer is active
func On() bool { return mpi.IsOn() }

// Rank returns the process id (0 when MPI is off)
func Rank() int {
	if !mpi.IsOn() {
		return 0
	}
	return mpi.Rank()
}

// Size returns the number of processes (1 when MPI is off)
func Size() int {
	if !mpi.IsOn() {
		return 1
	}
	return mpi.Size()
}

// AllReduceSum sums x over all processes, in place. w is a workspace
// with len(w) == len(x)
func AllReduceSum(x, w []float64) {
	if !mpi.IsOn() || mpi.Size() < 2 {
		return
	}
	mpi.AllReduceSum(x, w)
}

// AllReduceMax takes the entry-wise maximum of x over all processes,
// in place. w is a workspace with len(w) == len(x)
func AllReduceMax(x, w []float64) {
	if !mpi.IsOn() || mpi.Size() < 2 {
		return
	}
	mpi.AllReduceMax(x, w)
}

// SumScalar sum-reduces a single value over all processes
func SumScalar(x float64) float64 {
	if !mpi.IsOn() || mpi.Size() < 2 {
		return x
	}
	a, w := []float64{x}, []float64{0}
	mpi.AllReduceSum(a, w)
	return a[0]
}

// MaxScalar max-reduces a single value over all processes
func MaxScalar(x float64) float64 {
	if !mpi.IsOn() || mpi.Size() < 2 {
		return x
	}
	a, w := []float64{x}, []float64{0}
	mpi.AllReduceMax(a, w)
	return a[0]
}

// Wtime returns the wall-clock time in seconds
func Wtime() float64 {
	return float64(time.Now().UnixNano()) * 1e-9
}
