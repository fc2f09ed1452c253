package lrtensor

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/lrtensor/internal/logging"
	"github.com/born-ml/lrtensor/internal/seprep"
	"github.com/born-ml/lrtensor/internal/tensor"
	"go.uber.org/zap"
)

// lowRankBackend stores a separated representation. Factors are held in
// float64 whatever T is; values cross the boundary by conversion.
type lowRankBackend[T tensor.DType] struct {
	sr     *seprep.SepRep
	kind   Kind
	thresh float64 // accuracy used by FinalizeAccumulate
}

func newLowRank[T tensor.DType](sr *seprep.SepRep, thresh float64) *lowRankBackend[T] {
	kind := KindLowRank2D
	if sr.Groups() == 3 {
		kind = KindLowRank3D
	}
	return &lowRankBackend[T]{sr: sr, kind: kind, thresh: thresh}
}

func newLowRankEmpty[T tensor.DType](k Kind, thresh float64) *lowRankBackend[T] {
	return &lowRankBackend[T]{sr: seprep.Empty(k.Groups()), kind: k, thresh: thresh}
}

func (l *lowRankBackend[T]) peer(other Backend[T]) (*lowRankBackend[T], error) {
	o, ok := other.(*lowRankBackend[T])
	if !ok || o.kind != l.kind {
		return nil, mismatch(l.kind, other.Kind())
	}
	return o, nil
}

func (l *lowRankBackend[T]) derived(sr *seprep.SepRep) *lowRankBackend[T] {
	return &lowRankBackend[T]{sr: sr, kind: l.kind, thresh: l.thresh}
}

func (l *lowRankBackend[T]) Kind() Kind   { return l.kind }
func (l *lowRankBackend[T]) Name() string { return l.kind.String() }

// Clone shares the factor vectors but not the term list.
func (l *lowRankBackend[T]) Clone() Backend[T] {
	return l.derived(l.sr.ShallowCopy())
}

func (l *lowRankBackend[T]) CloneSlice(s []tensor.Slice) (Backend[T], error) {
	sub, err := l.sr.Slice(s)
	if err != nil {
		return nil, classify(err)
	}
	return l.derived(sub), nil
}

func (l *lowRankBackend[T]) DeepCopy() Backend[T] {
	return l.derived(l.sr.Copy())
}

func (l *lowRankBackend[T]) HasData() bool { return l.sr.Valid() }

func (l *lowRankBackend[T]) Size() int {
	if !l.sr.Valid() {
		return 0
	}
	return l.sr.NCoeff()
}

func (l *lowRankBackend[T]) Dim(i int) int {
	if !l.sr.Valid() || i < 0 || i >= l.sr.NDim() {
		return 0
	}
	return l.sr.K()
}

func (l *lowRankBackend[T]) NDim() int {
	if !l.sr.Valid() {
		return -1
	}
	return l.sr.NDim()
}

func (l *lowRankBackend[T]) Shape() tensor.Shape { return l.sr.Shape() }

func (l *lowRankBackend[T]) Rank() int { return l.sr.Rank() }

func (l *lowRankBackend[T]) ReduceRank(eps float64) error {
	if !(eps > 0) {
		return fmt.Errorf("%w: accuracy must be positive, got %g", ErrInvalidOperation, eps)
	}
	before := l.sr.Rank()
	if err := l.sr.ReduceRank(eps); err != nil {
		return classify(err)
	}
	logging.L().Debug("reduced rank",
		zap.Stringer("kind", l.kind),
		zap.Float64("eps", eps),
		zap.Int("before", before),
		zap.Int("after", l.sr.Rank()),
	)
	return nil
}

func (l *lowRankBackend[T]) SwapDim(int, int) (Backend[T], error) {
	return nil, unsupported("swapdim", l.kind)
}

func (l *lowRankBackend[T]) TraceConj(other Backend[T]) (T, error) {
	o, err := l.peer(other)
	if err != nil {
		return 0, err
	}
	v, err := seprep.Overlap(l.sr, o.sr)
	if err != nil {
		return 0, classify(err)
	}
	return T(v), nil
}

func (l *lowRankBackend[T]) NormF() float64 { return l.sr.FrobeniusNorm() }

func (l *lowRankBackend[T]) Scale(a T) { l.sr.Scale(float64(a)) }

func (l *lowRankBackend[T]) Gaxpy(alpha T, other Backend[T], beta T) error {
	o, err := l.peer(other)
	if err != nil {
		return err
	}
	if !l.sr.Valid() || !o.sr.Valid() {
		return fmt.Errorf("%w: gaxpy operand has no data", ErrUninitialized)
	}
	all := tensor.AllSlices(l.sr.NDim())
	return classify(l.sr.InplaceAdd(o.sr, all, tensor.AllSlices(o.sr.NDim()), float64(alpha), float64(beta)))
}

func (l *lowRankBackend[T]) Transform(c *tensor.Dense[T]) (Backend[T], error) {
	sr, err := seprep.Transform(l.sr, c)
	if err != nil {
		return nil, classify(err)
	}
	return l.derived(sr), nil
}

func (l *lowRankBackend[T]) GeneralTransform(c []*tensor.Dense[T]) (Backend[T], error) {
	sr, err := seprep.GeneralTransform(l.sr, c)
	if err != nil {
		return nil, classify(err)
	}
	return l.derived(sr), nil
}

func (l *lowRankBackend[T]) TransformDir(c *tensor.Dense[T], axis int) (Backend[T], error) {
	sr, err := seprep.TransformDir(l.sr, c, axis)
	if err != nil {
		return nil, classify(err)
	}
	return l.derived(sr), nil
}

func (l *lowRankBackend[T]) AccumulateIntoDense(d *tensor.Dense[T], fac T) error {
	return classify(seprep.AccumulateIntoDense(l.sr, d, float64(fac)))
}

func (l *lowRankBackend[T]) AccumulateInto(target Backend[T], fac T) error {
	o, err := l.peer(target)
	if err != nil {
		return err
	}
	return classify(l.sr.AccumulateInto(o.sr, float64(fac)))
}

func (l *lowRankBackend[T]) InplaceAdd(other Backend[T], lhs, rhs []tensor.Slice) error {
	o, err := l.peer(other)
	if err != nil {
		return err
	}
	return classify(l.sr.InplaceAdd(o.sr, lhs, rhs, 1, 1))
}

func (l *lowRankBackend[T]) UpdateBy(other Backend[T]) error {
	o, err := l.peer(other)
	if err != nil {
		return err
	}
	return classify(l.sr.UpdateBy(o.sr))
}

// FinalizeAccumulate recompresses the terms appended since the last reduction.
func (l *lowRankBackend[T]) FinalizeAccumulate() error {
	if !l.sr.Valid() {
		return nil
	}
	eps := l.thresh
	if eps <= 0 {
		eps = DefaultThresh
	}
	before := l.sr.Rank()
	if err := l.sr.ReduceRank(eps); err != nil {
		return classify(err)
	}
	logging.L().Debug("finalized accumulation",
		zap.Stringer("kind", l.kind),
		zap.Int("before", before),
		zap.Int("after", l.sr.Rank()),
	)
	return nil
}

func (l *lowRankBackend[T]) Element(...int) (T, error) {
	return 0, unsupported("element access", l.kind)
}

func (l *lowRankBackend[T]) FullTensor() (*tensor.Dense[T], error) {
	return nil, unsupported("dense payload", l.kind)
}

func (l *lowRankBackend[T]) Reconstruct() (*tensor.Dense[T], error) {
	d, err := seprep.Reconstruct[T](l.sr)
	return d, classify(err)
}

// FillRandom keeps the current rank, or uses rank one for an empty expansion.
func (l *lowRankBackend[T]) FillRandom(rng *rand.Rand) {
	l.sr.FillRandom(rng, max(l.sr.Rank(), 1))
}
