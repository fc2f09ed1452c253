// Package lrtensor implements a tensor handle backed either by a dense array
// or by a low-rank separated representation.
//
// Handles alias: Share and Assign make two handles refer to one backend, and
// mutation through either is visible through both. Copy, FromDense and
// View.Copy allocate independent storage. Binary operations require both
// operands to have the same Kind; conversions between kinds are explicit
// (ToFullRank, ToLowRank).
//
// Example:
//
//	d := tensor.Ones[float64](tensor.Cubic(4, 4))
//	t, _ := lrtensor.FromDenseEps(d, 1e-10, lrtensor.KindLowRank2D)
//	fmt.Println(t.Rank()) // 1
//	_ = lrtensor.ToFullRank(t)
package lrtensor

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/born-ml/lrtensor/internal/tensor"
)

// slot is a reference-counted holder of one backend shared by aliasing handles.
type slot[T tensor.DType] struct {
	b    Backend[T]
	refs atomic.Int32
}

func newSlot[T tensor.DType](b Backend[T]) *slot[T] {
	s := &slot[T]{b: b}
	s.refs.Store(1)
	return s
}

func (s *slot[T]) addRef() {
	s.refs.Add(1)
}

// release drops one reference and frees the backend at zero.
func (s *slot[T]) release() {
	if s.refs.Add(-1) == 0 {
		s.b = nil
	}
}

func (s *slot[T]) live() bool {
	return s.refs.Load() > 0
}

// Tensor is a handle to a dense or low-rank backend.
//
// The zero value is an empty handle of kind None.
type Tensor[T tensor.DType] struct {
	s *slot[T]
}

// New returns an empty handle.
func New[T tensor.DType]() *Tensor[T] {
	return &Tensor[T]{}
}

func wrap[T tensor.DType](b Backend[T]) *Tensor[T] {
	if b == nil {
		return New[T]()
	}
	return &Tensor[T]{s: newSlot(b)}
}

// NewOfKind returns a handle bound to a backend of kind k without data.
func NewOfKind[T tensor.DType](k Kind) (*Tensor[T], error) {
	if k != KindNone && k != KindFull && !k.IsLowRank() {
		return nil, &OpError{Op: "new", Kind: k, Err: fmt.Errorf("%w: unknown kind", ErrInvalidOperation)}
	}
	return wrap(emptyBackend[T](k, 0)), nil
}

// Zeros returns a zero tensor of the given shape.
// Low-rank kinds need equal extents and start at rank zero.
func Zeros[T tensor.DType](shape tensor.Shape, k Kind) (*Tensor[T], error) {
	thresh := 0.0
	if k.IsLowRank() {
		thresh = DefaultThresh
	}
	return ZerosArgs[T](shape, Args{Thresh: thresh, Kind: k})
}

// ZerosArgs is Zeros with an explicit threshold.
func ZerosArgs[T tensor.DType](shape tensor.Shape, args Args) (*Tensor[T], error) {
	if err := args.Validate(); err != nil {
		return nil, &OpError{Op: "zeros", Kind: args.Kind, Err: err}
	}
	b, err := zerosBackend[T](shape, args)
	if err != nil {
		return nil, &OpError{Op: "zeros", Kind: args.Kind, Err: classify(err)}
	}
	return wrap(b), nil
}

func zerosBackend[T tensor.DType](shape tensor.Shape, args Args) (Backend[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if args.Kind == KindFull {
		return newFull(tensor.Zeros[T](shape)), nil
	}
	if !shape.IsCubic() {
		return nil, fmt.Errorf("%s needs equal extents, got %v", args.Kind, shape)
	}
	sr, err := newSepRep(args.Kind, shape)
	if err != nil {
		return nil, err
	}
	return newLowRank[T](sr, args.Thresh), nil
}

// FromDense builds a tensor from a copy of d. Low-rank kinds factor d to
// relative accuracy args.Thresh.
func FromDense[T tensor.DType](d *tensor.Dense[T], args Args) (*Tensor[T], error) {
	if err := args.Validate(); err != nil {
		return nil, &OpError{Op: "from dense", Kind: args.Kind, Err: err}
	}
	b, err := fromDense(d, args)
	if err != nil {
		return nil, &OpError{Op: "from dense", Kind: args.Kind, Err: err}
	}
	if args.Kind.IsLowRank() {
		logConversion(KindFull, b, d.Size())
	}
	return wrap(b), nil
}

// FromDenseEps is FromDense with the arguments spelled out.
func FromDenseEps[T tensor.DType](d *tensor.Dense[T], eps float64, k Kind) (*Tensor[T], error) {
	return FromDense(d, Args{Thresh: eps, Kind: k})
}

// FromView returns a deep copy of the region addressed by v.
func FromView[T tensor.DType](v *View[T]) (*Tensor[T], error) {
	return v.Copy()
}

func (t *Tensor[T]) backend() Backend[T] {
	if s := t.current(); s != nil {
		return s.b
	}
	return nil
}

// current returns the slot t refers to, nil for a nil or empty handle.
func (t *Tensor[T]) current() *slot[T] {
	if t == nil {
		return nil
	}
	return t.s
}

// bind points the handle at a new backend, releasing the old one.
// Other handles sharing the old backend keep it.
func (t *Tensor[T]) bind(b Backend[T]) {
	if t.s != nil {
		t.s.release()
	}
	t.s = nil
	if b != nil {
		t.s = newSlot(b)
	}
}

// errNilTensor reports an operation that would rebind a nil handle.
func errNilTensor(op string) error {
	return &OpError{Op: op, Kind: KindNone, Err: fmt.Errorf("%w: nil tensor", ErrUninitialized)}
}

func (t *Tensor[T]) fail(op string, err error) error {
	return &OpError{Op: op, Kind: t.Kind(), Err: err}
}

// must returns the backend or ErrUninitialized for an empty handle.
func (t *Tensor[T]) must(op string) (Backend[T], error) {
	b := t.backend()
	if b == nil {
		return nil, t.fail(op, fmt.Errorf("%w: empty tensor", ErrUninitialized))
	}
	return b, nil
}

// pair returns both backends after checking the kinds agree.
func (t *Tensor[T]) pair(op string, other *Tensor[T]) (Backend[T], Backend[T], error) {
	a, err := t.must(op)
	if err != nil {
		return nil, nil, err
	}
	b := other.backend()
	if b == nil {
		return nil, nil, t.fail(op, fmt.Errorf("%w: empty operand", ErrUninitialized))
	}
	if a.Kind() != b.Kind() {
		return nil, nil, t.fail(op, mismatch(a.Kind(), b.Kind()))
	}
	return a, b, nil
}

// Share returns a new handle aliasing the same backend.
func (t *Tensor[T]) Share() *Tensor[T] {
	if t.current() == nil {
		return New[T]()
	}
	t.s.addRef()
	return &Tensor[T]{s: t.s}
}

// Assign makes t alias the backend of src. Views of t become stale.
// A nil src empties t; a nil t is left alone.
func (t *Tensor[T]) Assign(src *Tensor[T]) {
	if t == nil {
		return
	}
	s := src.current()
	if t.s == s {
		return
	}
	if s != nil {
		s.addRef()
	}
	if t.s != nil {
		t.s.release()
	}
	t.s = s
}

// Copy returns a handle to an independent deep copy.
func (t *Tensor[T]) Copy() *Tensor[T] {
	b := t.backend()
	if b == nil {
		return New[T]()
	}
	return wrap(b.DeepCopy())
}

// Copy returns a deep copy of t.
func Copy[T tensor.DType](t *Tensor[T]) *Tensor[T] {
	return t.Copy()
}

// Release drops this handle's reference. The backend is freed when the last
// handle sharing it is released. t becomes empty.
func (t *Tensor[T]) Release() {
	if t != nil && t.s != nil {
		t.s.release()
		t.s = nil
	}
}

// Kind returns the active representation, KindNone for an empty handle.
func (t *Tensor[T]) Kind() Kind {
	if b := t.backend(); b != nil {
		return b.Kind()
	}
	return KindNone
}

// Name returns the representation name.
func (t *Tensor[T]) Name() string {
	return t.Kind().String()
}

// HasData reports whether the backend holds a value.
func (t *Tensor[T]) HasData() bool {
	b := t.backend()
	return b != nil && b.HasData()
}

// Size returns the number of stored coefficients.
func (t *Tensor[T]) Size() int {
	if b := t.backend(); b != nil {
		return b.Size()
	}
	return 0
}

// Rank returns the number of separated terms, RankNotTracked for dense and
// empty handles.
func (t *Tensor[T]) Rank() int {
	if b := t.backend(); b != nil {
		return b.Rank()
	}
	return RankNotTracked
}

// Dim returns the extent of axis i, 0 if there is no such axis.
func (t *Tensor[T]) Dim(i int) int {
	if b := t.backend(); b != nil {
		return b.Dim(i)
	}
	return 0
}

// NDim returns the number of axes, -1 without data.
func (t *Tensor[T]) NDim() int {
	if b := t.backend(); b != nil {
		return b.NDim()
	}
	return -1
}

// Shape returns the logical shape, nil without data.
func (t *Tensor[T]) Shape() tensor.Shape {
	if b := t.backend(); b != nil {
		return b.Shape()
	}
	return nil
}

// FillRandom fills the tensor with random content. Does nothing without data.
func (t *Tensor[T]) FillRandom(rng *rand.Rand) *Tensor[T] {
	if b := t.backend(); b != nil {
		b.FillRandom(rng)
	}
	return t
}

// String returns a short description.
func (t *Tensor[T]) String() string {
	if !t.HasData() {
		return fmt.Sprintf("Tensor(%s, empty)", t.Kind())
	}
	if t.Kind() == KindFull {
		return fmt.Sprintf("Tensor(%s, %v)", t.Kind(), t.Shape())
	}
	return fmt.Sprintf("Tensor(%s, %v, rank=%d)", t.Kind(), t.Shape(), t.Rank())
}
