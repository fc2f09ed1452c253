package lrtensor

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/lrtensor/internal/backend/cpu"
	"github.com/born-ml/lrtensor/internal/tensor"
)

// fullBackend stores every element in a dense array. A nil array means no data.
type fullBackend[T tensor.DType] struct {
	d *tensor.Dense[T]
}

func newFull[T tensor.DType](d *tensor.Dense[T]) *fullBackend[T] {
	return &fullBackend[T]{d: d}
}

func (f *fullBackend[T]) peer(other Backend[T]) (*fullBackend[T], error) {
	o, ok := other.(*fullBackend[T])
	if !ok {
		return nil, mismatch(KindFull, other.Kind())
	}
	return o, nil
}

func (f *fullBackend[T]) data() (*tensor.Dense[T], error) {
	if f.d == nil {
		return nil, fmt.Errorf("%w: full tensor has no data", ErrUninitialized)
	}
	return f.d, nil
}

func (f *fullBackend[T]) Kind() Kind   { return KindFull }
func (f *fullBackend[T]) Name() string { return KindFull.String() }

func (f *fullBackend[T]) Clone() Backend[T] {
	return f.DeepCopy()
}

func (f *fullBackend[T]) CloneSlice(s []tensor.Slice) (Backend[T], error) {
	d, err := f.data()
	if err != nil {
		return nil, err
	}
	sub, err := d.Slice(s)
	if err != nil {
		return nil, classify(err)
	}
	return newFull(sub), nil
}

func (f *fullBackend[T]) DeepCopy() Backend[T] {
	if f.d == nil {
		return &fullBackend[T]{}
	}
	return newFull(f.d.Copy())
}

func (f *fullBackend[T]) HasData() bool { return f.Size() != 0 }

func (f *fullBackend[T]) Size() int {
	if f.d == nil {
		return 0
	}
	return f.d.Size()
}

func (f *fullBackend[T]) Dim(i int) int {
	if f.d == nil || i < 0 || i >= f.d.NDim() {
		return 0
	}
	return f.d.Dim(i)
}

func (f *fullBackend[T]) NDim() int {
	if f.d == nil {
		return -1
	}
	return f.d.NDim()
}

func (f *fullBackend[T]) Shape() tensor.Shape {
	if f.d == nil {
		return nil
	}
	return f.d.Shape().Clone()
}

func (f *fullBackend[T]) Rank() int { return RankNotTracked }

func (f *fullBackend[T]) ReduceRank(float64) error { return nil }

func (f *fullBackend[T]) SwapDim(i, j int) (Backend[T], error) {
	d, err := f.data()
	if err != nil {
		return nil, err
	}
	s, err := d.SwapDim(i, j)
	if err != nil {
		return nil, classify(err)
	}
	return newFull(s), nil
}

func (f *fullBackend[T]) TraceConj(other Backend[T]) (T, error) {
	o, err := f.peer(other)
	if err != nil {
		return 0, err
	}
	a, err := f.data()
	if err != nil {
		return 0, err
	}
	b, err := o.data()
	if err != nil {
		return 0, err
	}
	v, err := a.TraceConj(b)
	return v, classify(err)
}

func (f *fullBackend[T]) NormF() float64 {
	if f.d == nil {
		return 0
	}
	return f.d.NormF()
}

func (f *fullBackend[T]) Scale(a T) {
	if f.d != nil {
		f.d.Scale(a)
	}
}

func (f *fullBackend[T]) Gaxpy(alpha T, other Backend[T], beta T) error {
	o, err := f.peer(other)
	if err != nil {
		return err
	}
	a, err := f.data()
	if err != nil {
		return err
	}
	b, err := o.data()
	if err != nil {
		return err
	}
	return classify(a.Gaxpy(alpha, b, beta))
}

func (f *fullBackend[T]) Transform(c *tensor.Dense[T]) (Backend[T], error) {
	d, err := f.data()
	if err != nil {
		return nil, err
	}
	r, err := cpu.Transform(d, c)
	if err != nil {
		return nil, classify(err)
	}
	return newFull(r), nil
}

func (f *fullBackend[T]) GeneralTransform(c []*tensor.Dense[T]) (Backend[T], error) {
	d, err := f.data()
	if err != nil {
		return nil, err
	}
	r, err := cpu.GeneralTransform(d, c)
	if err != nil {
		return nil, classify(err)
	}
	return newFull(r), nil
}

func (f *fullBackend[T]) TransformDir(c *tensor.Dense[T], axis int) (Backend[T], error) {
	d, err := f.data()
	if err != nil {
		return nil, err
	}
	r, err := cpu.TransformDir(d, c, axis)
	if err != nil {
		return nil, classify(err)
	}
	return newFull(r), nil
}

func (f *fullBackend[T]) AccumulateIntoDense(t *tensor.Dense[T], fac T) error {
	d, err := f.data()
	if err != nil {
		return err
	}
	return classify(t.Gaxpy(1, d, fac))
}

func (f *fullBackend[T]) AccumulateInto(target Backend[T], fac T) error {
	o, err := f.peer(target)
	if err != nil {
		return err
	}
	d, err := f.data()
	if err != nil {
		return err
	}
	if o.d == nil {
		o.d = d.Copy().Scale(fac)
		return nil
	}
	return classify(o.d.Gaxpy(1, d, fac))
}

func (f *fullBackend[T]) InplaceAdd(other Backend[T], lhs, rhs []tensor.Slice) error {
	o, err := f.peer(other)
	if err != nil {
		return err
	}
	a, err := f.data()
	if err != nil {
		return err
	}
	b, err := o.data()
	if err != nil {
		return err
	}
	return classify(a.AddSlice(lhs, b, rhs, 1))
}

func (f *fullBackend[T]) UpdateBy(other Backend[T]) error {
	return other.AccumulateInto(f, 1)
}

func (f *fullBackend[T]) FinalizeAccumulate() error { return nil }

func (f *fullBackend[T]) Element(idx ...int) (T, error) {
	d, err := f.data()
	if err != nil {
		return 0, err
	}
	if len(idx) != d.NDim() {
		return 0, fmt.Errorf("%w: %d indices for %d dimensions", ErrInvalidOperation, len(idx), d.NDim())
	}
	for i, x := range idx {
		if x < 0 || x >= d.Dim(i) {
			return 0, fmt.Errorf("%w: index %d out of range for dimension %d (size %d)", ErrInvalidOperation, x, i, d.Dim(i))
		}
	}
	return d.At(idx...), nil
}

func (f *fullBackend[T]) FullTensor() (*tensor.Dense[T], error) {
	return f.data()
}

func (f *fullBackend[T]) Reconstruct() (*tensor.Dense[T], error) {
	d, err := f.data()
	if err != nil {
		return nil, err
	}
	return d.Copy(), nil
}

func (f *fullBackend[T]) FillRandom(rng *rand.Rand) {
	if f.d != nil {
		f.d.FillRandom(rng)
	}
}
