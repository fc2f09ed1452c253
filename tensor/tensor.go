// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/lrtensor/internal/backend/cpu"
	"github.com/born-ml/lrtensor/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for element types.
// Supported types: float32, float64.
type DType = tensor.DType

// DataType represents the element type of a dense array at runtime.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of an array.
// Example: Shape{2, 3, 4} represents a 3D array with dimensions 2×3×4.
type Shape = tensor.Shape

// Slice selects a strided range [Start, Stop) along one axis.
type Slice = tensor.Slice

// End marks an open upper bound in a Slice.
const End = tensor.End

// Dense is a contiguous row-major array.
type Dense[T DType] = tensor.Dense[T]

// Errors returned by dense operations.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrInvalidSlice  = tensor.ErrInvalidSlice
	ErrEmpty         = tensor.ErrEmpty
)

// Creation functions

// NewDense allocates a zero-filled array, failing on an invalid shape.
func NewDense[T DType](shape Shape) (*Dense[T], error) {
	return tensor.NewDense[T](shape)
}

// Zeros creates an array filled with zeros.
//
// Example:
//
//	x := tensor.Zeros[float64](tensor.Shape{2, 3})
func Zeros[T DType](shape Shape) *Dense[T] {
	return tensor.Zeros[T](shape)
}

// Ones creates an array filled with ones.
func Ones[T DType](shape Shape) *Dense[T] {
	return tensor.Ones[T](shape)
}

// Full creates an array filled with a specific value.
//
// Example:
//
//	x := tensor.Full[float32](tensor.Shape{2, 3}, 3.14)
func Full[T DType](shape Shape, value T) *Dense[T] {
	return tensor.Full[T](shape, value)
}

// Eye creates a 2D identity matrix.
func Eye[T DType](n int) *Dense[T] {
	return tensor.Eye[T](n)
}

// FromSlice creates an array from a Go slice. The data is copied.
//
// Example:
//
//	data := []float64{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Dense[T], error) {
	return tensor.FromSlice[T](data, shape)
}

// Convert copies an array into another element type.
func Convert[U, T DType](d *Dense[T]) *Dense[U] {
	return tensor.Convert[U, T](d)
}

// Geometry helpers

// Cubic returns the shape with extent k along each of ndim axes.
func Cubic(k, ndim int) Shape {
	return tensor.Cubic(k, ndim)
}

// All selects a whole axis.
func All() Slice {
	return tensor.All()
}

// Range selects [start, stop) with unit step.
func Range(start, stop int) Slice {
	return tensor.Range(start, stop)
}

// AllSlices returns ndim whole-axis slices.
func AllSlices(ndim int) []Slice {
	return tensor.AllSlices(ndim)
}

// Kernels

// MatMul computes the matrix product a·b of two 2D arrays.
func MatMul[T DType](a, b *Dense[T]) (*Dense[T], error) {
	return cpu.MatMul(a, b)
}

// Transform applies c to every axis of t:
//
//	result(i, j, ...) = sum(i', j', ...) t(i', j', ...) c(i', i) c(j', j) ...
func Transform[T DType](t, c *Dense[T]) (*Dense[T], error) {
	return cpu.Transform(t, c)
}

// GeneralTransform applies c[i] to axis i. A nil matrix leaves its axis unchanged.
func GeneralTransform[T DType](t *Dense[T], c []*Dense[T]) (*Dense[T], error) {
	return cpu.GeneralTransform(t, c)
}

// TransformDir applies c to a single axis of t.
func TransformDir[T DType](t, c *Dense[T], axis int) (*Dense[T], error) {
	return cpu.TransformDir(t, c, axis)
}

// SetWorkers sets the number of goroutines used by the kernels.
// n == 1 runs sequentially; n <= 0 keeps the current setting.
func SetWorkers(n int) {
	cpu.SetParallel(cpu.Parallel().WithWorkers(n))
}
