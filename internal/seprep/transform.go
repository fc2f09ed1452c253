package seprep

import (
	"fmt"

	"github.com/born-ml/lrtensor/internal/backend/cpu"
	"github.com/born-ml/lrtensor/internal/tensor"
)

// Transform applies c to every axis: result(i,j,...) = sum t(i',j',...) c(i',i) c(j',j) ...
//
// Each group vector is transformed on its own, so the rank is preserved.
func Transform[T tensor.DType](sr *SepRep, c *tensor.Dense[T]) (*SepRep, error) {
	cs := make([]*tensor.Dense[T], sr.ndim)
	for i := range cs {
		cs[i] = c
	}
	return GeneralTransform(sr, cs)
}

// GeneralTransform applies c[i] to axis i. A nil matrix leaves its axis unchanged.
// Every axis of the result must have the same extent.
func GeneralTransform[T tensor.DType](sr *SepRep, c []*tensor.Dense[T]) (*SepRep, error) {
	if !sr.valid {
		return nil, ErrInvalid
	}
	if len(c) != sr.ndim {
		return nil, fmt.Errorf("%w: %d matrices for %d dimensions", ErrIncompatible, len(c), sr.ndim)
	}

	cf := make([]*tensor.Dense[float64], len(c))
	k := -1
	for i, m := range c {
		ext := sr.k
		if m != nil {
			if m.NDim() != 2 || m.Dim(0) != sr.k {
				return nil, fmt.Errorf("%w: axis %d has extent %d, matrix is %v", ErrIncompatible, i, sr.k, m.Shape())
			}
			cf[i] = tensor.Convert[float64](m)
			ext = m.Dim(1)
		}
		if k >= 0 && ext != k {
			return nil, fmt.Errorf("%w: axis %d would have extent %d, axis 0 has %d", ErrNotCubic, i, ext, k)
		}
		k = ext
	}

	out := &SepRep{
		groups: sr.groups,
		k:      k,
		ndim:   sr.ndim,
		split:  append([]int(nil), sr.split...),
		valid:  true,
		terms:  make([]term, len(sr.terms)),
	}
	for r, t := range sr.terms {
		nt := term{w: t.w, v: make([][]float64, sr.groups)}
		for g, vec := range t.v {
			first, count := sr.groupAxes(g)
			v, err := tensor.FromSlice(vec, tensor.Cubic(sr.k, count))
			if err != nil {
				return nil, err
			}
			res, err := cpu.GeneralTransform(v, cf[first:first+count])
			if err != nil {
				return nil, err
			}
			nt.v[g] = res.Data()
		}
		out.terms[r] = nt
	}
	return out, nil
}

// TransformDir applies the square matrix c to a single axis.
func TransformDir[T tensor.DType](sr *SepRep, c *tensor.Dense[T], axis int) (*SepRep, error) {
	if !sr.valid {
		return nil, ErrInvalid
	}
	axis, err := tensor.NormalizeAxis(axis, sr.ndim)
	if err != nil {
		return nil, err
	}
	cs := make([]*tensor.Dense[T], sr.ndim)
	cs[axis] = c
	return GeneralTransform(sr, cs)
}
