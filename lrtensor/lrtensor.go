// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package lrtensor

import (
	"github.com/born-ml/lrtensor/internal/logging"
	"github.com/born-ml/lrtensor/internal/lrtensor"
	"github.com/born-ml/lrtensor/tensor"
	"go.uber.org/zap"
)

// Type aliases for public API

// Tensor is a handle whose content is stored densely or as a low-rank
// separated representation.
//
// Share and Assign alias the payload; Copy is deep. Operations that are
// meaningless for the compressed form (element access, dimension swap,
// slice overwrite) fail with ErrUnsupported or ErrInvalidSliceAssignment.
//
// Example:
//
//	x, err := lrtensor.FromDenseEps(d, 1e-8, lrtensor.KindLowRank2D)
//	y := x.Copy().Scale(2)
//	err = x.AddAssign(y)
type Tensor[T tensor.DType] = lrtensor.Tensor[T]

// View addresses a region of a Tensor. It supports in-place addition and zeroing.
type View[T tensor.DType] = lrtensor.View[T]

// Backend is the storage behind a Tensor.
type Backend[T tensor.DType] = lrtensor.Backend[T]

// Kind identifies the active representation of a Tensor.
type Kind = lrtensor.Kind

// Representation kinds.
const (
	KindNone      Kind = lrtensor.KindNone
	KindFull      Kind = lrtensor.KindFull
	KindLowRank2D Kind = lrtensor.KindLowRank2D
	KindLowRank3D Kind = lrtensor.KindLowRank3D
)

// Args selects and parameterizes a representation at construction.
type Args = lrtensor.Args

// OpError describes a failed Tensor operation.
type OpError = lrtensor.OpError

// DefaultThresh is the accuracy used to finalize low-rank accumulations
// when no threshold was given.
const DefaultThresh = lrtensor.DefaultThresh

// RankNotTracked is the rank reported by dense tensors.
const RankNotTracked = lrtensor.RankNotTracked

// Error categories, matched with errors.Is.
var (
	ErrTypeMismatch           = lrtensor.ErrTypeMismatch
	ErrUnsupported            = lrtensor.ErrUnsupported
	ErrUninitialized          = lrtensor.ErrUninitialized
	ErrInvalidSliceAssignment = lrtensor.ErrInvalidSliceAssignment
	ErrInvalidOperation       = lrtensor.ErrInvalidOperation
	ErrStaleView              = lrtensor.ErrStaleView
)

// NewArgs returns validated construction arguments.
func NewArgs(thresh float64, kind Kind) (Args, error) {
	return lrtensor.NewArgs(thresh, kind)
}

// ParseKind parses a kind name such as "fullrank", "lowrank-2d" or "3d".
func ParseKind(s string) (Kind, error) {
	return lrtensor.ParseKind(s)
}

// Creation functions

// New returns an empty handle of kind None.
func New[T tensor.DType]() *Tensor[T] {
	return lrtensor.New[T]()
}

// NewOfKind returns a handle of kind k without data.
func NewOfKind[T tensor.DType](k Kind) (*Tensor[T], error) {
	return lrtensor.NewOfKind[T](k)
}

// Zeros returns a zero tensor of the given shape and kind.
// Low-rank kinds need a cubic shape and hold rank 0.
//
// Example:
//
//	z, err := lrtensor.Zeros[float64](tensor.Cubic(8, 4), lrtensor.KindLowRank3D)
func Zeros[T tensor.DType](shape tensor.Shape, k Kind) (*Tensor[T], error) {
	return lrtensor.Zeros[T](shape, k)
}

// ZerosArgs is Zeros with explicit construction arguments.
func ZerosArgs[T tensor.DType](shape tensor.Shape, args Args) (*Tensor[T], error) {
	return lrtensor.ZerosArgs[T](shape, args)
}

// FromDense builds a tensor holding a deep copy of d in the representation
// selected by args. Low-rank kinds compress d to relative accuracy args.Thresh.
func FromDense[T tensor.DType](d *tensor.Dense[T], args Args) (*Tensor[T], error) {
	return lrtensor.FromDense(d, args)
}

// FromDenseEps is FromDense with the arguments spelled out.
func FromDenseEps[T tensor.DType](d *tensor.Dense[T], eps float64, k Kind) (*Tensor[T], error) {
	return lrtensor.FromDenseEps(d, eps, k)
}

// FromView returns a deep copy of the region addressed by v.
func FromView[T tensor.DType](v *View[T]) (*Tensor[T], error) {
	return lrtensor.FromView(v)
}

// Copy returns a deep copy of t.
func Copy[T tensor.DType](t *Tensor[T]) *Tensor[T] {
	return lrtensor.Copy(t)
}

// Conversions

// ToFullRank converts t to the dense representation in place.
func ToFullRank[T tensor.DType](t *Tensor[T]) error {
	return lrtensor.ToFullRank(t)
}

// ToLowRank converts t to low-rank kind k at relative accuracy eps.
func ToLowRank[T tensor.DType](t *Tensor[T], eps float64, k Kind) error {
	return lrtensor.ToLowRank(t, eps, k)
}

// Transform applies c to every axis of t and returns a tensor of t's kind.
func Transform[T tensor.DType](t *Tensor[T], c *tensor.Dense[T]) (*Tensor[T], error) {
	return lrtensor.Transform(t, c)
}

// GeneralTransform applies c[i] to axis i of t. A nil matrix leaves its axis unchanged.
func GeneralTransform[T tensor.DType](t *Tensor[T], c []*tensor.Dense[T]) (*Tensor[T], error) {
	return lrtensor.GeneralTransform(t, c)
}

// TransformDir applies c to a single axis of t.
func TransformDir[T tensor.DType](t *Tensor[T], c *tensor.Dense[T], axis int) (*Tensor[T], error) {
	return lrtensor.TransformDir(t, c, axis)
}

// Logging

// SetLogger installs the logger used for conversion and rank-reduction
// events and returns a function restoring the previous one. The default
// logger discards everything.
func SetLogger(l *zap.Logger) (restore func()) {
	return logging.SetLogger(l)
}
