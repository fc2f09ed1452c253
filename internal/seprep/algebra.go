package seprep

import (
	"fmt"
	"math"

	"github.com/born-ml/lrtensor/internal/backend/cpu"
	"github.com/born-ml/lrtensor/internal/parallel"
	"github.com/born-ml/lrtensor/internal/tensor"
)

func dot(a, b []float64) float64 {
	var s float64
	for i, x := range a {
		s += x * b[i]
	}
	return s
}

// Overlap returns the inner product <a|b> computed on the factors.
// Cost is rank(a)*rank(b)*sum(group lengths); no dense tensor is formed.
func Overlap(a, b *SepRep) (float64, error) {
	if err := a.sameGeometry(b); err != nil {
		return 0, err
	}
	var sum float64
	for _, ta := range a.terms {
		for _, tb := range b.terms {
			p := ta.w * tb.w
			for g := range ta.v {
				if p == 0 {
					break
				}
				p *= dot(ta.v[g], tb.v[g])
			}
			sum += p
		}
	}
	return sum, nil
}

// FrobeniusNorm returns the Frobenius norm computed on the factors.
func (sr *SepRep) FrobeniusNorm() float64 {
	if !sr.valid {
		return 0
	}
	sq, _ := Overlap(sr, sr)
	return math.Sqrt(math.Max(sq, 0))
}

// groupRegion resolves the slices of group g's axes.
func (sr *SepRep) groupRegion(g int, s []tensor.Slice) []tensor.Slice {
	first, count := sr.groupAxes(g)
	return s[first : first+count]
}

// sliceVector extracts the sub-block of a group vector selected by s.
func (sr *SepRep) sliceVector(g int, vec []float64, s []tensor.Slice) ([]float64, error) {
	_, count := sr.groupAxes(g)
	v, err := tensor.FromSlice(vec, tensor.Cubic(sr.k, count))
	if err != nil {
		return nil, err
	}
	sub, err := v.Slice(s)
	if err != nil {
		return nil, err
	}
	return sub.Data(), nil
}

// embedVector places a group vector of extent kSmall per axis into the
// region s of a zero group vector of extent sr.k per axis.
func (sr *SepRep) embedVector(g int, vec []float64, kSmall int, s []tensor.Slice) ([]float64, error) {
	_, count := sr.groupAxes(g)
	src, err := tensor.FromSlice(vec, tensor.Cubic(kSmall, count))
	if err != nil {
		return nil, err
	}
	dst := tensor.Zeros[float64](tensor.Cubic(sr.k, count))
	if err := dst.AddSlice(s, src, tensor.AllSlices(count), 1); err != nil {
		return nil, err
	}
	return dst.Data(), nil
}

func isWhole(r tensor.Region, k int) bool {
	for i := range r.Count {
		if r.Start[i] != 0 || r.Count[i] != k || r.Step[i] != 1 {
			return false
		}
	}
	return true
}

// Slice returns a deep copy of the sub-tensor selected by s.
// The selection must have the same extent on every axis.
func (sr *SepRep) Slice(s []tensor.Slice) (*SepRep, error) {
	if !sr.valid {
		return nil, ErrInvalid
	}
	r, err := tensor.ResolveRegion(sr.Shape(), s)
	if err != nil {
		return nil, err
	}
	if isWhole(r, sr.k) {
		return sr.Copy(), nil
	}
	shape := r.Shape()
	if !shape.IsCubic() {
		return nil, fmt.Errorf("%w: slice shape %v", ErrNotCubic, shape)
	}

	out := &SepRep{
		groups: sr.groups,
		k:      shape[0],
		ndim:   sr.ndim,
		split:  append([]int(nil), sr.split...),
		valid:  true,
		terms:  make([]term, len(sr.terms)),
	}
	for i, t := range sr.terms {
		nt := term{w: t.w, v: make([][]float64, sr.groups)}
		for g, vec := range t.v {
			if nt.v[g], err = sr.sliceVector(g, vec, sr.groupRegion(g, s)); err != nil {
				return nil, err
			}
		}
		out.terms[i] = nt
	}
	return out, nil
}

// InplaceAdd computes sr = alpha*sr, then sr(lhs) += beta*rhs(rhs).
//
// The addition appends the terms of rhs(rhs), embedded into the lhs region,
// so the rank grows by rank(rhs). rhs may be sr itself.
func (sr *SepRep) InplaceAdd(rhs *SepRep, lhs, rhsSlices []tensor.Slice, alpha, beta float64) error {
	if sr.groups != rhs.groups {
		return fmt.Errorf("%w: %d vs %d groups", ErrIncompatible, sr.groups, rhs.groups)
	}
	if !sr.valid || !rhs.valid {
		return ErrInvalid
	}
	if sr.ndim != rhs.ndim {
		return fmt.Errorf("%w: %d vs %d axes", ErrIncompatible, sr.ndim, rhs.ndim)
	}
	lr, err := tensor.ResolveRegion(sr.Shape(), lhs)
	if err != nil {
		return fmt.Errorf("lhs: %w", err)
	}
	rr, err := tensor.ResolveRegion(rhs.Shape(), rhsSlices)
	if err != nil {
		return fmt.Errorf("rhs: %w", err)
	}
	if !lr.Shape().Equal(rr.Shape()) {
		return fmt.Errorf("%w: region %v += region %v", ErrIncompatible, lr.Shape(), rr.Shape())
	}

	src, err := rhs.Slice(rhsSlices)
	if err != nil {
		return err
	}
	if alpha != 1 {
		sr.Scale(alpha)
	}
	whole := isWhole(lr, sr.k)
	for _, t := range src.terms {
		if t.w == 0 || beta == 0 {
			continue
		}
		nt := term{w: t.w * beta, v: t.v}
		if !whole {
			nt.v = make([][]float64, sr.groups)
			for g, vec := range t.v {
				if nt.v[g], err = sr.embedVector(g, vec, src.k, sr.groupRegion(g, lhs)); err != nil {
					return err
				}
			}
		}
		sr.terms = append(sr.terms, nt)
		sr.reduced = false
	}
	return nil
}

// UpdateBy appends copies of the terms of rhs. An invalid sr takes the
// geometry of rhs. Call ReduceRank once the accumulation is complete.
func (sr *SepRep) UpdateBy(rhs *SepRep) error {
	return sr.addScaled(rhs, 1)
}

// AccumulateInto adds fac*sr to target by appending terms.
func (sr *SepRep) AccumulateInto(target *SepRep, fac float64) error {
	return target.addScaled(sr, fac)
}

func (sr *SepRep) addScaled(rhs *SepRep, fac float64) error {
	if !sr.valid && rhs.valid && sr.groups == rhs.groups {
		sr.adopt(rhs)
	}
	if !rhs.valid && sr.valid && sr.groups == rhs.groups {
		return nil
	}
	if err := sr.sameGeometry(rhs); err != nil {
		return err
	}
	// Copy first: rhs may be sr.
	add := make([]term, 0, len(rhs.terms))
	for _, t := range rhs.terms {
		if t.w == 0 || fac == 0 {
			continue
		}
		c := t.clone()
		c.w *= fac
		add = append(add, c)
	}
	if len(add) > 0 {
		sr.terms = append(sr.terms, add...)
		sr.reduced = false
	}
	return nil
}

// dense expands the representation into a row-major float64 buffer.
// Blocks of the leading group index are independent and filled in parallel.
func (sr *SepRep) dense() []float64 {
	size := 1
	for g := range sr.split {
		size *= sr.groupLen(g)
	}
	out := make([]float64, size)
	if len(sr.terms) == 0 {
		return out
	}

	n0 := sr.groupLen(0)
	block := size / n0
	parallel.For(n0, func(i int) {
		dst := out[i*block : (i+1)*block]
		for _, t := range sr.terms {
			c := t.w * t.v[0][i]
			if c == 0 {
				continue
			}
			switch sr.groups {
			case 2:
				for j, b := range t.v[1] {
					dst[j] += c * b
				}
			default:
				n2 := len(t.v[2])
				for j, b := range t.v[1] {
					cb := c * b
					if cb == 0 {
						continue
					}
					row := dst[j*n2 : (j+1)*n2]
					for l, x := range t.v[2] {
						row[l] += cb * x
					}
				}
			}
		}
	}, cpu.Parallel())
	return out
}

// Reconstruct expands sr into a dense array. Rank zero yields zeros.
func Reconstruct[T tensor.DType](sr *SepRep) (*tensor.Dense[T], error) {
	if !sr.valid {
		return nil, ErrInvalid
	}
	out := tensor.Zeros[T](sr.Shape())
	dst := out.Data()
	for i, v := range sr.dense() {
		dst[i] = T(v)
	}
	return out, nil
}

// AccumulateIntoDense adds fac*sr to d.
func AccumulateIntoDense[T tensor.DType](sr *SepRep, d *tensor.Dense[T], fac float64) error {
	if !sr.valid {
		return ErrInvalid
	}
	if !d.Shape().Equal(sr.Shape()) {
		return fmt.Errorf("%w: accumulate %v into %v", ErrIncompatible, sr.Shape(), d.Shape())
	}
	if len(sr.terms) == 0 || fac == 0 {
		return nil
	}
	dst := d.Data()
	for i, v := range sr.dense() {
		dst[i] += T(fac * v)
	}
	return nil
}
