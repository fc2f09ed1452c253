package lrtensor

import (
	"fmt"

	"github.com/born-ml/lrtensor/internal/tensor"
)

// View addresses a region of a tensor. It permits in-place addition and
// zeroing; plain assignment is refused with ErrInvalidSliceAssignment.
//
// A view does not own its tensor. Once the tensor is rebound (Assign,
// ToFullRank, ...) or released, every operation on the view fails with
// ErrStaleView. Views created by WithSlice are closed when the callback returns.
type View[T tensor.DType] struct {
	t      *Tensor[T]
	s      *slot[T]
	slices []tensor.Slice
	closed bool
}

// Slice returns a view of the region selected by s, one slice per axis.
func (t *Tensor[T]) Slice(s ...tensor.Slice) *View[T] {
	return &View[T]{t: t, s: t.current(), slices: append([]tensor.Slice(nil), s...)}
}

// WithSlice calls fn with a view of the region selected by s. The view
// cannot be used after fn returns.
func (t *Tensor[T]) WithSlice(s []tensor.Slice, fn func(v *View[T]) error) error {
	v := t.Slice(s...)
	defer func() { v.closed = true }()
	return fn(v)
}

// AssignView rebinds t to a deep copy of the region addressed by v.
func (t *Tensor[T]) AssignView(v *View[T]) error {
	if t == nil {
		return errNilTensor("assign view")
	}
	src, err := v.source("assign view")
	if err != nil {
		return err
	}
	b, err := src.CloneSlice(v.slices)
	if err != nil {
		return v.fail("assign view", err)
	}
	t.bind(b)
	return nil
}

// Slices returns a copy of the slices selecting the region.
func (v *View[T]) Slices() []tensor.Slice {
	return append([]tensor.Slice(nil), v.slices...)
}

// source returns the backend behind the view after checking its lifetime.
func (v *View[T]) source(op string) (Backend[T], error) {
	cur := v.t.current()
	if !v.closed && v.s == nil && cur == nil {
		return nil, &OpError{Op: op, Kind: KindNone, Err: fmt.Errorf("%w: empty tensor", ErrUninitialized)}
	}
	if v.closed || cur != v.s || v.s == nil || !v.s.live() {
		return nil, &OpError{Op: op, Kind: KindNone, Err: ErrStaleView}
	}
	return v.s.b, nil
}

func (v *View[T]) fail(op string, err error) error {
	return &OpError{Op: op, Kind: v.kind(), Err: err}
}

// AddAssign computes view += other, where other has the region's shape.
func (v *View[T]) AddAssign(other *Tensor[T]) error {
	dst, err := v.source("slice add")
	if err != nil {
		return err
	}
	src := other.backend()
	if src == nil || !src.HasData() {
		return v.fail("slice add", fmt.Errorf("%w: empty operand", ErrUninitialized))
	}
	if dst.Kind() != src.Kind() {
		return v.fail("slice add", mismatch(dst.Kind(), src.Kind()))
	}
	if err := dst.InplaceAdd(src, v.slices, tensor.AllSlices(src.NDim())); err != nil {
		return v.fail("slice add", err)
	}
	return nil
}

// AddAssignView computes view += other view.
func (v *View[T]) AddAssignView(other *View[T]) error {
	dst, err := v.source("slice add")
	if err != nil {
		return err
	}
	src, err := other.source("slice add")
	if err != nil {
		return err
	}
	if dst.Kind() != src.Kind() {
		return v.fail("slice add", mismatch(dst.Kind(), src.Kind()))
	}
	if err := dst.InplaceAdd(src, v.slices, other.slices); err != nil {
		return v.fail("slice add", err)
	}
	return nil
}

// Zero sets the region to zero by subtracting a copy of its content.
// For low-rank tensors this adds terms.
func (v *View[T]) Zero() error {
	dst, err := v.source("slice zero")
	if err != nil {
		return err
	}
	c, err := dst.CloneSlice(v.slices)
	if err != nil {
		return v.fail("slice zero", err)
	}
	c.Scale(-1)
	if err := dst.InplaceAdd(c, v.slices, tensor.AllSlices(c.NDim())); err != nil {
		return v.fail("slice zero", err)
	}
	return nil
}

// SetScalar assigns a scalar to the region. Only zero is accepted.
func (v *View[T]) SetScalar(x T) error {
	if x != 0 {
		return &OpError{Op: "slice assign", Kind: v.kind(), Err: fmt.Errorf("%w: only 0 can be assigned", ErrInvalidSliceAssignment)}
	}
	return v.Zero()
}

// Assign always fails; use AddAssign.
func (v *View[T]) Assign(*Tensor[T]) error {
	return &OpError{Op: "slice assign", Kind: v.kind(), Err: ErrInvalidSliceAssignment}
}

// AssignView always fails; use AddAssignView.
func (v *View[T]) AssignView(*View[T]) error {
	return &OpError{Op: "slice assign", Kind: v.kind(), Err: ErrInvalidSliceAssignment}
}

// Copy returns a new tensor holding a deep copy of the region.
func (v *View[T]) Copy() (*Tensor[T], error) {
	src, err := v.source("slice copy")
	if err != nil {
		return nil, err
	}
	b, err := src.CloneSlice(v.slices)
	if err != nil {
		return nil, v.fail("slice copy", err)
	}
	return wrap(b), nil
}

func (v *View[T]) kind() Kind {
	if v.s == nil || v.s.b == nil {
		return KindNone
	}
	return v.s.b.Kind()
}
