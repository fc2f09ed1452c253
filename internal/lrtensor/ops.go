package lrtensor

import (
	"fmt"

	"github.com/born-ml/lrtensor/internal/tensor"
)

// Scale multiplies t by x in place. Does nothing on an empty handle.
func (t *Tensor[T]) Scale(x T) *Tensor[T] {
	if b := t.backend(); b != nil {
		b.Scale(x)
	}
	return t
}

// Mul returns a scaled deep copy of t.
func (t *Tensor[T]) Mul(x T) *Tensor[T] {
	return t.Copy().Scale(x)
}

// MulScalar is Mul for a scalar of unknown type. Only scalars of the
// element type are supported.
func (t *Tensor[T]) MulScalar(x any) (*Tensor[T], error) {
	v, ok := x.(T)
	if !ok {
		return nil, t.fail("mul", fmt.Errorf("%w: scalar of type %T", ErrUnsupported, x))
	}
	return t.Mul(v), nil
}

// Gaxpy computes t = t*alpha + other*beta in place.
func (t *Tensor[T]) Gaxpy(alpha T, other *Tensor[T], beta T) error {
	a, b, err := t.pair("gaxpy", other)
	if err != nil {
		return err
	}
	if err := a.Gaxpy(alpha, b, beta); err != nil {
		return t.fail("gaxpy", err)
	}
	return nil
}

// GaxpyComplex always fails: complex factors are not supported.
func (t *Tensor[T]) GaxpyComplex(alpha complex128, other *Tensor[T], beta complex128) error {
	return t.fail("gaxpy", fmt.Errorf("%w: complex factors", ErrUnsupported))
}

// AddAssign computes t += other. An empty t takes other's kind and geometry.
func (t *Tensor[T]) AddAssign(other *Tensor[T]) error {
	return t.accumulate("add", other, 1)
}

// SubAssign computes t -= other. An empty t becomes -other.
func (t *Tensor[T]) SubAssign(other *Tensor[T]) error {
	return t.accumulate("subtract", other, -1)
}

// accumulate computes t += fac*other. A handle without a backend is bound
// to a fresh backend of other's kind once the addition has succeeded.
func (t *Tensor[T]) accumulate(op string, other *Tensor[T], fac T) error {
	if t == nil {
		return errNilTensor(op)
	}
	src := other.backend()
	if src == nil || !src.HasData() {
		return t.fail(op, fmt.Errorf("%w: empty operand", ErrUninitialized))
	}
	dst, fresh := t.backend(), false
	if dst == nil {
		dst, fresh = emptyBackend[T](src.Kind(), threshOf(src)), true
	}
	if dst.Kind() != src.Kind() {
		return t.fail(op, mismatch(dst.Kind(), src.Kind()))
	}
	if err := src.AccumulateInto(dst, fac); err != nil {
		return t.fail(op, err)
	}
	if fresh {
		t.bind(dst)
	}
	return nil
}

// AddAssignView computes t += v, where the region of v has t's shape.
func (t *Tensor[T]) AddAssignView(v *View[T]) error {
	src, err := v.source("add view")
	if err != nil {
		return err
	}
	a, err := t.must("add view")
	if err != nil {
		return err
	}
	if !a.HasData() {
		return t.fail("add view", fmt.Errorf("%w: tensor has no data", ErrUninitialized))
	}
	if a.Kind() != src.Kind() {
		return t.fail("add view", mismatch(a.Kind(), src.Kind()))
	}
	if err := a.InplaceAdd(src, tensor.AllSlices(a.NDim()), v.slices); err != nil {
		return t.fail("add view", err)
	}
	return nil
}

// AccumulateInto adds fac*t to target. An empty target takes t's kind and
// geometry. target is left untouched when the call fails.
func (t *Tensor[T]) AccumulateInto(target *Tensor[T], fac T) error {
	if _, err := t.must("accumulate"); err != nil {
		return err
	}
	return target.accumulate("accumulate", t, fac)
}

// AccumulateIntoDense adds fac*t to d, reconstructing low-rank content.
func (t *Tensor[T]) AccumulateIntoDense(d *tensor.Dense[T], fac T) error {
	a, err := t.must("accumulate")
	if err != nil {
		return err
	}
	if err := a.AccumulateIntoDense(d, fac); err != nil {
		return t.fail("accumulate", err)
	}
	return nil
}

// AccumulateIntoComplex always fails: complex factors are not supported.
func (t *Tensor[T]) AccumulateIntoComplex(target *Tensor[T], fac complex128) error {
	return t.fail("accumulate", fmt.Errorf("%w: complex factors", ErrUnsupported))
}

// UpdateBy adds other to t without finalizing. Repeated updates are
// completed by a single FinalizeAccumulate. An empty t adopts other's kind.
func (t *Tensor[T]) UpdateBy(other *Tensor[T]) error {
	if t.backend() == nil {
		return t.accumulate("update", other, 1)
	}
	a, b, err := t.pair("update", other)
	if err != nil {
		return err
	}
	if err := a.UpdateBy(b); err != nil {
		return t.fail("update", err)
	}
	return nil
}

// FinalizeAccumulate completes a series of UpdateBy calls. Low-rank tensors
// are recompressed at their construction threshold.
func (t *Tensor[T]) FinalizeAccumulate() error {
	b, err := t.must("finalize")
	if err != nil {
		return err
	}
	if err := b.FinalizeAccumulate(); err != nil {
		return t.fail("finalize", err)
	}
	return nil
}

// ReduceRank recompresses a low-rank tensor to relative accuracy eps.
// Dense tensors are unchanged.
func (t *Tensor[T]) ReduceRank(eps float64) error {
	b, err := t.must("reduce rank")
	if err != nil {
		return err
	}
	if err := b.ReduceRank(eps); err != nil {
		return t.fail("reduce rank", err)
	}
	return nil
}

// TraceConj returns the inner product <t|other>.
func (t *Tensor[T]) TraceConj(other *Tensor[T]) (T, error) {
	a, b, err := t.pair("trace conj", other)
	if err != nil {
		return 0, err
	}
	v, err := a.TraceConj(b)
	if err != nil {
		return 0, t.fail("trace conj", err)
	}
	return v, nil
}

// NormF returns the Frobenius norm.
func (t *Tensor[T]) NormF() (float64, error) {
	b, err := t.must("normf")
	if err != nil {
		return 0, err
	}
	return b.NormF(), nil
}

// SwapDim returns a tensor with axes i and j exchanged. Dense only.
func (t *Tensor[T]) SwapDim(i, j int) (*Tensor[T], error) {
	return transformed(t, "swapdim", func(b Backend[T]) (Backend[T], error) {
		return b.SwapDim(i, j)
	})
}

// Element returns one element. Dense only.
func (t *Tensor[T]) Element(idx ...int) (T, error) {
	b, err := t.must("element")
	if err != nil {
		return 0, err
	}
	v, err := b.Element(idx...)
	if err != nil {
		return 0, t.fail("element", err)
	}
	return v, nil
}

// FullTensor returns the dense payload without copying. Dense only.
func (t *Tensor[T]) FullTensor() (*tensor.Dense[T], error) {
	b, err := t.must("full tensor")
	if err != nil {
		return nil, err
	}
	d, err := b.FullTensor()
	if err != nil {
		return nil, t.fail("full tensor", err)
	}
	return d, nil
}

// Reconstruct returns a dense copy of the content.
func (t *Tensor[T]) Reconstruct() (*tensor.Dense[T], error) {
	b, err := t.must("reconstruct")
	if err != nil {
		return nil, err
	}
	d, err := b.Reconstruct()
	if err != nil {
		return nil, t.fail("reconstruct", err)
	}
	return d, nil
}

// FullTensorCopy returns a dense copy whatever the representation.
func (t *Tensor[T]) FullTensorCopy() (*tensor.Dense[T], error) {
	return t.Reconstruct()
}
