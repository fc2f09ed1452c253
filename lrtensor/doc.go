// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package lrtensor provides tensors that switch between a dense and a
// low-rank representation behind one handle.
//
// # Overview
//
// A Tensor[T] stores its content in one of three representations:
//   - KindFull: a dense array
//   - KindLowRank2D: a sum of products of two factor vectors
//   - KindLowRank3D: a sum of products of three factor vectors
//
// Low-rank tensors store far fewer coefficients for smooth or separable
// data. Every operation dispatches to the active representation, and the
// kind can be changed at any time with ToFullRank and ToLowRank.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/lrtensor/lrtensor"
//	    "github.com/born-ml/lrtensor/tensor"
//	)
//
//	func main() {
//	    d := tensor.Ones[float64](tensor.Cubic(8, 4))
//
//	    // Compress to relative accuracy 1e-8.
//	    x, err := lrtensor.FromDenseEps(d, 1e-8, lrtensor.KindLowRank2D)
//
//	    // Arithmetic stays in the compressed form.
//	    y := x.Copy().Scale(2)
//	    err = x.AddAssign(y)
//	    err = x.ReduceRank(1e-8)
//
//	    // Back to dense.
//	    err = lrtensor.ToFullRank(x)
//	}
//
// # Aliasing
//
// Share and Assign make two handles refer to the same payload, so updates
// through one are visible through the other. Copy, FromDense and FromView
// are deep. Converting a handle rebinds only that handle.
//
// # Slices
//
// Slice returns a View of a region. Views support AddAssign, AddAssignView
// and Zero; plain assignment is refused with ErrInvalidSliceAssignment.
// Zeroing or adding into a region of a low-rank tensor adds terms, so
// call ReduceRank afterwards. A view becomes stale, failing with
// ErrStaleView, once its tensor is rebound or released.
//
// # Accumulation
//
// UpdateBy appends without recompressing; a single FinalizeAccumulate
// reduces the rank once all updates are in.
//
// # Errors
//
// Operations return *OpError values wrapping one of the Err* categories:
//
//	if _, err := x.SwapDim(0, 1); errors.Is(err, lrtensor.ErrUnsupported) {
//	    // low-rank tensors have no dimension swap
//	}
package lrtensor
