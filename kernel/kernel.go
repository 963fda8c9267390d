// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package kernel holds the small runtime types shared by generated kernel
// wrappers.
//
// A dispatch size is given either as a number of workgroups or as a number
// of threads, which is rounded up to whole workgroups:
//
//	k.DispatchComputeSum(pass, kernel.ThreadCount{X: n, Y: 1, Z: 1}, bindGroup)
package kernel

// DispatchSize is either a WorkgroupCount or a ThreadCount.
type DispatchSize interface {
	// Workgroups converts the size to a workgroup count for the given
	// workgroup size.
	Workgroups(x, y, z uint32) WorkgroupCount
}

// WorkgroupCount is a dispatch size in workgroups.
type WorkgroupCount struct {
	X, Y, Z uint32
}

// Workgroups returns w unchanged.
func (w WorkgroupCount) Workgroups(_, _, _ uint32) WorkgroupCount {
	return w
}

// ThreadCount is a dispatch size in threads.
type ThreadCount struct {
	X, Y, Z uint32
}

// Workgroups returns the smallest workgroup count covering t.
func (t ThreadCount) Workgroups(x, y, z uint32) WorkgroupCount {
	return WorkgroupCount{
		X: DivideAndCeil(t.X, x),
		Y: DivideAndCeil(t.Y, y),
		Z: DivideAndCeil(t.Z, z),
	}
}

// Threads returns a one-dimensional thread count.
func Threads(n uint32) ThreadCount {
	return ThreadCount{X: n, Y: 1, Z: 1}
}

// DivideAndCeil returns x/y rounded up. A zero divisor is treated as 1.
func DivideAndCeil(x, y uint32) uint32 {
	if y == 0 {
		return x
	}
	return x/y + min(x%y, 1)
}
