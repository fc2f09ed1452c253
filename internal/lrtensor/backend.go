package lrtensor

import (
	"math/rand"

	"github.com/born-ml/lrtensor/internal/tensor"
)

// RankNotTracked is the rank reported by representations without a term count.
const RankNotTracked = -1

// Backend is the storage behind a Tensor handle.
//
// Binary operations require the other operand to have the same Kind and fail
// with ErrTypeMismatch otherwise. Operations returning a Backend produce a new
// instance of the receiver's kind.
type Backend[T tensor.DType] interface {
	// Kind returns the representation kind.
	Kind() Kind
	// Name returns a human-readable kind name.
	Name() string

	// Clone returns a copy for reuse by a new handle. Low-rank backends share
	// their factor vectors but keep their own terms; dense backends copy
	// their data.
	Clone() Backend[T]
	// CloneSlice returns a deep copy of a sub-region.
	CloneSlice(s []tensor.Slice) (Backend[T], error)
	// DeepCopy returns an independent copy.
	DeepCopy() Backend[T]

	HasData() bool
	// Size returns the number of stored coefficients.
	Size() int
	Dim(i int) int
	NDim() int
	Shape() tensor.Shape
	// Rank returns the number of separated terms, or RankNotTracked.
	Rank() int

	// ReduceRank recompresses to relative accuracy eps. A no-op for dense data.
	ReduceRank(eps float64) error
	SwapDim(i, j int) (Backend[T], error)
	TraceConj(other Backend[T]) (T, error)
	NormF() float64
	Scale(a T)
	// Gaxpy computes this = this*alpha + other*beta.
	Gaxpy(alpha T, other Backend[T], beta T) error

	Transform(c *tensor.Dense[T]) (Backend[T], error)
	GeneralTransform(c []*tensor.Dense[T]) (Backend[T], error)
	TransformDir(c *tensor.Dense[T], axis int) (Backend[T], error)

	// AccumulateIntoDense adds fac*this to d.
	AccumulateIntoDense(d *tensor.Dense[T], fac T) error
	// AccumulateInto adds fac*this to target. A target without data adopts
	// this backend's geometry.
	AccumulateInto(target Backend[T], fac T) error
	// InplaceAdd computes this(lhs) += other(rhs).
	InplaceAdd(other Backend[T], lhs, rhs []tensor.Slice) error
	// UpdateBy adds other to this; call FinalizeAccumulate when done.
	UpdateBy(other Backend[T]) error
	FinalizeAccumulate() error

	Element(idx ...int) (T, error)
	// FullTensor returns the dense payload without copying.
	FullTensor() (*tensor.Dense[T], error)
	// Reconstruct returns a dense copy of the content.
	Reconstruct() (*tensor.Dense[T], error)
	FillRandom(rng *rand.Rand)
}

// emptyBackend returns a backend of kind k without data, or nil for KindNone.
func emptyBackend[T tensor.DType](k Kind, thresh float64) Backend[T] {
	switch {
	case k == KindFull:
		return &fullBackend[T]{}
	case k.IsLowRank():
		return newLowRankEmpty[T](k, thresh)
	default:
		return nil
	}
}

// threshOf returns the accuracy a backend was built with, 0 for dense data.
func threshOf[T tensor.DType](b Backend[T]) float64 {
	if l, ok := b.(*lowRankBackend[T]); ok {
		return l.thresh
	}
	return 0
}
