package lrtensor

import (
	"fmt"

	"github.com/born-ml/lrtensor/internal/logging"
	"github.com/born-ml/lrtensor/internal/seprep"
	"github.com/born-ml/lrtensor/internal/tensor"
	"go.uber.org/zap"
)

func newSepRep(k Kind, shape tensor.Shape) (*seprep.SepRep, error) {
	return seprep.New(k.Groups(), shape[0], len(shape))
}

func fromDense[T tensor.DType](d *tensor.Dense[T], args Args) (Backend[T], error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil dense array", ErrUninitialized)
	}
	if args.Kind == KindFull {
		return newFull(d.Copy()), nil
	}
	sr, err := seprep.FromDense(d, args.Thresh, args.Kind.Groups())
	if err != nil {
		return nil, classify(err)
	}
	return newLowRank[T](sr, args.Thresh), nil
}

func logConversion[T tensor.DType](from Kind, b Backend[T], denseSize int) {
	fields := []zap.Field{
		zap.Stringer("from", from),
		zap.Stringer("to", b.Kind()),
		zap.Int("rank", b.Rank()),
		zap.Int("size", b.Size()),
	}
	if b.Size() > 0 {
		fields = append(fields, zap.Float64("compression", float64(denseSize)/float64(b.Size())))
	}
	logging.L().Debug("converted tensor", fields...)
}

// ToFullRank rebinds t to a dense backend holding its reconstructed content.
// Dense handles are left alone; handles without data get an empty dense backend.
// Other handles sharing the old backend are not affected.
func ToFullRank[T tensor.DType](t *Tensor[T]) error {
	if t == nil {
		return errNilTensor("to full rank")
	}
	b := t.backend()
	switch {
	case b == nil:
		t.bind(emptyBackend[T](KindFull, 0))
		return nil
	case b.Kind() == KindFull:
		return nil
	case !b.HasData():
		t.bind(emptyBackend[T](KindFull, 0))
		return nil
	}

	d, err := b.Reconstruct()
	if err != nil {
		return t.fail("to full rank", err)
	}
	full := newFull(d)
	logConversion[T](b.Kind(), full, d.Size())
	t.bind(full)
	return nil
}

// ToLowRank rebinds t to a low-rank backend of kind k at relative accuracy eps.
// A handle already of kind k is left alone; a handle of the other low-rank
// kind is reconstructed and refactored; a handle without data gets an empty
// backend of kind k.
func ToLowRank[T tensor.DType](t *Tensor[T], eps float64, k Kind) error {
	args := Args{Thresh: eps, Kind: k}
	if !k.IsLowRank() {
		return t.fail("to low rank", fmt.Errorf("%w: target kind %s is not low-rank", ErrInvalidOperation, k))
	}
	if err := args.Validate(); err != nil {
		return t.fail("to low rank", err)
	}
	if t == nil {
		return errNilTensor("to low rank")
	}

	b := t.backend()
	switch {
	case b != nil && b.Kind() == k:
		return nil
	case b == nil || !b.HasData():
		t.bind(emptyBackend[T](k, eps))
		return nil
	}

	var (
		d   *tensor.Dense[T]
		err error
	)
	if b.Kind() == KindFull {
		d, err = b.FullTensor()
	} else {
		d, err = b.Reconstruct()
	}
	if err != nil {
		return t.fail("to low rank", err)
	}
	nb, err := fromDense(d, args)
	if err != nil {
		return t.fail("to low rank", err)
	}
	logConversion(b.Kind(), nb, d.Size())
	t.bind(nb)
	return nil
}

func transformed[T tensor.DType](t *Tensor[T], op string, fn func(Backend[T]) (Backend[T], error)) (*Tensor[T], error) {
	b, err := t.must(op)
	if err != nil {
		return nil, err
	}
	nb, err := fn(b)
	if err != nil {
		return nil, t.fail(op, err)
	}
	return wrap(nb), nil
}

// Transform applies c along every axis and returns a tensor of the same kind:
//
//	result(i, j, ...) = sum(i', j', ...) t(i', j', ...) c(i', i) c(j', j) ...
func Transform[T tensor.DType](t *Tensor[T], c *tensor.Dense[T]) (*Tensor[T], error) {
	return transformed(t, "transform", func(b Backend[T]) (Backend[T], error) {
		return b.Transform(c)
	})
}

// GeneralTransform applies c[i] along axis i; nil entries leave their axis unchanged.
func GeneralTransform[T tensor.DType](t *Tensor[T], c []*tensor.Dense[T]) (*Tensor[T], error) {
	return transformed(t, "general transform", func(b Backend[T]) (Backend[T], error) {
		return b.GeneralTransform(c)
	})
}

// TransformDir applies c along a single axis.
func TransformDir[T tensor.DType](t *Tensor[T], c *tensor.Dense[T], axis int) (*Tensor[T], error) {
	return transformed(t, "transform dir", func(b Backend[T]) (Backend[T], error) {
		return b.TransformDir(c, axis)
	})
}
