// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides dense arrays for the lrtensor module.
//
// # Overview
//
// Dense arrays are the uncompressed form of every lrtensor tensor. This package provides:
//   - Generic dense arrays (Dense[T]) over float32 and float64
//   - Strided region selection (Slice) with negative indices
//   - Basis-transform kernels applied axis by axis
//
// # Basic Usage
//
//	import "github.com/born-ml/lrtensor/tensor"
//
//	func main() {
//	    x := tensor.Ones[float64](tensor.Cubic(4, 3))
//
//	    // Select the inner 2×2×2 block.
//	    inner, err := x.Slice([]tensor.Slice{
//	        tensor.Range(1, 3), tensor.Range(1, 3), tensor.Range(1, 3),
//	    })
//
//	    // Change basis along axis 0.
//	    y, err := tensor.TransformDir(x, tensor.Eye[float64](4), 0)
//	}
//
// # Slices
//
// A Slice selects [Start, Stop) with step Step along one axis. Negative Start
// or Stop count from the end of the axis, and Stop == End runs to the end:
//
//	tensor.Slice{Start: -2, Stop: tensor.End, Step: 1}  // last two elements
//
// Slicing a Dense array returns a contiguous copy.
//
// # Parallelism
//
// The kernels split their outer loops across goroutines when the work is
// large enough. SetWorkers(1) forces sequential execution.
package tensor
