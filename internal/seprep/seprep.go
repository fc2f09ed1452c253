// Package seprep implements a separated (low-rank) representation of cubic tensors.
//
// A tensor of ndim axes, each of extent k, is split into 2 or 3 contiguous groups
// of axes. It is stored as a weighted sum of terms, each term being the outer
// product of one vector per group:
//
//	T = sum_r w_r * v_r[0] ⊗ v_r[1] (⊗ v_r[2])
//
// Vector v_r[g] has length k^(axes in group g), laid out row-major, so the
// dense tensor in row-major order is exactly the matricization
// (group 0) × (group 1) × ... and no index permutation is ever needed.
//
// The rank is the number of terms. A valid representation of rank zero is the
// zero tensor of its declared shape.
package seprep

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/lrtensor/internal/tensor"
)

// term is one separable contribution w * v[0] ⊗ v[1] ⊗ ...
type term struct {
	w float64
	v [][]float64
}

func (t term) clone() term {
	c := term{w: t.w, v: make([][]float64, len(t.v))}
	for g, vec := range t.v {
		c.v[g] = append([]float64(nil), vec...)
	}
	return c
}

// SepRep is a separated representation.
//
// The zero value is not usable; construct with Empty, New or FromDense.
type SepRep struct {
	groups int
	k      int
	ndim   int
	split  []int // number of axes in each group
	valid  bool
	terms  []term

	// reducedAt is the accuracy of the last reduction while reduced is set.
	// Every change of the terms clears reduced.
	reduced   bool
	reducedAt float64
}

// Empty returns a representation with a grouping but no geometry.
// It reports Valid() == false until data is added.
func Empty(groups int) *SepRep {
	return &SepRep{groups: groups}
}

// New returns a valid zero-rank representation of an ndim-dimensional
// tensor with extent k on every axis.
func New(groups, k, ndim int) (*SepRep, error) {
	split, err := splitAxes(ndim, groups)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: extent %d", ErrNotCubic, k)
	}
	return &SepRep{groups: groups, k: k, ndim: ndim, split: split, valid: true}, nil
}

// splitAxes divides ndim axes into groups contiguous groups, earlier groups
// taking the remainder.
func splitAxes(ndim, groups int) ([]int, error) {
	if groups != 2 && groups != 3 {
		return nil, fmt.Errorf("%w: %d groups", ErrGrouping, groups)
	}
	if ndim < groups {
		return nil, fmt.Errorf("%w: %d axes cannot form %d groups", ErrGrouping, ndim, groups)
	}
	split := make([]int, groups)
	for g := range split {
		split[g] = ndim / groups
		if g < ndim%groups {
			split[g]++
		}
	}
	return split, nil
}

// Groups returns the number of axis groups (2 or 3).
func (sr *SepRep) Groups() int { return sr.groups }

// Valid reports whether the representation has a geometry.
func (sr *SepRep) Valid() bool { return sr.valid }

// K returns the extent of every axis.
func (sr *SepRep) K() int { return sr.k }

// NDim returns the number of axes.
func (sr *SepRep) NDim() int { return sr.ndim }

// Rank returns the number of terms.
func (sr *SepRep) Rank() int { return len(sr.terms) }

// Shape returns the dense shape this representation stands for.
func (sr *SepRep) Shape() tensor.Shape {
	if !sr.valid {
		return nil
	}
	return tensor.Cubic(sr.k, sr.ndim)
}

// NCoeff returns the number of stored coefficients, weights included.
func (sr *SepRep) NCoeff() int {
	per := 1
	for g := range sr.split {
		per += sr.groupLen(g)
	}
	return per * len(sr.terms)
}

// Weights returns a copy of the term weights.
func (sr *SepRep) Weights() []float64 {
	w := make([]float64, len(sr.terms))
	for i, t := range sr.terms {
		w[i] = t.w
	}
	return w
}

func (sr *SepRep) groupLen(g int) int {
	n := 1
	for i := 0; i < sr.split[g]; i++ {
		n *= sr.k
	}
	return n
}

// groupAxes returns the first axis and the number of axes of group g.
func (sr *SepRep) groupAxes(g int) (first, count int) {
	for i := 0; i < g; i++ {
		first += sr.split[i]
	}
	return first, sr.split[g]
}

func (sr *SepRep) sameGeometry(other *SepRep) error {
	if sr.groups != other.groups {
		return fmt.Errorf("%w: %d vs %d groups", ErrIncompatible, sr.groups, other.groups)
	}
	if !sr.valid || !other.valid {
		return ErrInvalid
	}
	if sr.k != other.k || sr.ndim != other.ndim {
		return fmt.Errorf("%w: shape %v vs %v", ErrIncompatible, sr.Shape(), other.Shape())
	}
	return nil
}

// adopt gives an invalid representation the geometry of other.
func (sr *SepRep) adopt(other *SepRep) {
	sr.k, sr.ndim, sr.valid = other.k, other.ndim, true
	sr.split = append([]int(nil), other.split...)
	sr.terms = nil
	sr.reduced = false
}

// markReduced records that the terms are the outcome of a reduction at eps.
func (sr *SepRep) markReduced(eps float64) {
	sr.reduced, sr.reducedAt = true, eps
}

// Copy returns a deep copy.
func (sr *SepRep) Copy() *SepRep {
	c := &SepRep{
		groups: sr.groups,
		k:      sr.k,
		ndim:   sr.ndim,
		split:  append([]int(nil), sr.split...),
		valid:  sr.valid,
		terms:  make([]term, len(sr.terms)),

		reduced:   sr.reduced,
		reducedAt: sr.reducedAt,
	}
	for i, t := range sr.terms {
		c.terms[i] = t.clone()
	}
	return c
}

// ShallowCopy returns a representation with its own term list whose factor
// vectors are shared with sr. No operation writes into a factor vector, so
// changes to either side stay invisible to the other.
func (sr *SepRep) ShallowCopy() *SepRep {
	c := *sr
	c.split = append([]int(nil), sr.split...)
	c.terms = append([]term(nil), sr.terms...)
	return &c
}

// Scale multiplies the tensor by a.
func (sr *SepRep) Scale(a float64) {
	sr.reduced = false
	for i := range sr.terms {
		sr.terms[i].w *= a
	}
}

// FillRandom replaces the content with rank random terms.
// An invalid representation keeps its state.
func (sr *SepRep) FillRandom(rng *rand.Rand, rank int) {
	if !sr.valid {
		return
	}
	sr.reduced = false
	sr.terms = make([]term, rank)
	for r := range sr.terms {
		t := term{w: 1, v: make([][]float64, sr.groups)}
		for g := range t.v {
			vec := make([]float64, sr.groupLen(g))
			for i := range vec {
				vec[i] = rng.Float64() - 0.5
			}
			t.v[g] = vec
		}
		sr.terms[r] = t
	}
}

// String returns a short description.
func (sr *SepRep) String() string {
	if !sr.valid {
		return fmt.Sprintf("SepRep(groups=%d, invalid)", sr.groups)
	}
	return fmt.Sprintf("SepRep(groups=%d, k=%d, ndim=%d, rank=%d)", sr.groups, sr.k, sr.ndim, len(sr.terms))
}
