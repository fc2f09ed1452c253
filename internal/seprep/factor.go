package seprep

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/lrtensor/internal/tensor"
)

// FromDense factors d into groups axis groups so that the Frobenius error
// of the result is at most eps*||d||.
//
// Two groups use one truncated SVD of the (group 0)×(group 1) matricization.
// Three groups split off group 0 by SVD and factor every retained right
// singular vector, reshaped to (group 1)×(group 2), by a second SVD.
func FromDense[T tensor.DType](d *tensor.Dense[T], eps float64, groups int) (*SepRep, error) {
	if eps < 0 {
		return nil, fmt.Errorf("negative accuracy %g", eps)
	}
	shape := d.Shape()
	if !shape.IsCubic() {
		return nil, fmt.Errorf("%w: shape %v", ErrNotCubic, shape)
	}
	sr, err := New(groups, shape[0], len(shape))
	if err != nil {
		return nil, err
	}

	data := make([]float64, d.Size())
	for i, v := range d.Data() {
		data[i] = float64(v)
	}

	norm := d.NormF()
	if norm == 0 {
		sr.markReduced(eps)
		return sr, nil
	}
	tau := sr.truncation(eps, norm)

	switch groups {
	case 2:
		sr.terms, err = factor2(data, sr.groupLen(0), sr.groupLen(1), tau)
	default:
		sr.terms, err = factor3(data, sr.groupLen(0), sr.groupLen(1), sr.groupLen(2), tau)
	}
	if err != nil {
		return nil, err
	}
	sr.markReduced(eps)
	return sr, nil
}

// truncation returns the per-term singular value cutoff for a relative
// accuracy eps on a tensor of the given norm.
//
// Every dropped term contributes an orthogonal error of at most the cutoff,
// and at most maxTerms terms can be dropped, so the total error stays below
// eps*norm.
func (sr *SepRep) truncation(eps, norm float64) float64 {
	var maxTerms int
	switch sr.groups {
	case 2:
		maxTerms = min(sr.groupLen(0), sr.groupLen(1))
	default:
		m1 := min(sr.groupLen(0), sr.groupLen(1)*sr.groupLen(2))
		m2 := min(sr.groupLen(1), sr.groupLen(2))
		maxTerms = m1 * (1 + m2)
	}
	return eps * norm / math.Sqrt(float64(maxTerms))
}

// svdTriplets holds the leading singular triplets of a matrix.
type svdTriplets struct {
	s    []float64
	u, v mat.Dense
	keep int
}

// truncatedSVD factors m and counts the singular values above tau.
func truncatedSVD(m mat.Matrix, tau float64) (*svdTriplets, error) {
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, ErrFactorization
	}
	res := &svdTriplets{s: svd.Values(nil)}
	svd.UTo(&res.u)
	svd.VTo(&res.v)
	for res.keep < len(res.s) && res.s[res.keep] > tau {
		res.keep++
	}
	return res, nil
}

func factor2(data []float64, n1, n2 int, tau float64) ([]term, error) {
	tri, err := truncatedSVD(mat.NewDense(n1, n2, data), tau)
	if err != nil {
		return nil, err
	}
	terms := make([]term, tri.keep)
	for i := range terms {
		terms[i] = term{
			w: tri.s[i],
			v: [][]float64{mat.Col(nil, i, &tri.u), mat.Col(nil, i, &tri.v)},
		}
	}
	return terms, nil
}

func factor3(data []float64, n1, n2, n3 int, tau float64) ([]term, error) {
	outer, err := truncatedSVD(mat.NewDense(n1, n2*n3, data), tau)
	if err != nil {
		return nil, err
	}
	var terms []term
	for i := 0; i < outer.keep; i++ {
		u := mat.Col(nil, i, &outer.u)
		w := mat.Col(nil, i, &outer.v)
		for j := range w {
			w[j] *= outer.s[i]
		}
		inner, err := truncatedSVD(mat.NewDense(n2, n3, w), tau)
		if err != nil {
			return nil, err
		}
		for j := 0; j < inner.keep; j++ {
			terms = append(terms, term{
				w: inner.s[j],
				v: [][]float64{
					append([]float64(nil), u...),
					mat.Col(nil, j, &inner.u),
					mat.Col(nil, j, &inner.v),
				},
			})
		}
	}
	return terms, nil
}

// ReduceRank recompresses the representation to relative accuracy eps.
// The rank never increases, and content that is exactly zero ends at rank zero.
//
// Terms produced by a reduction (or by FromDense) at eps or a tighter
// accuracy are left as they are until the content changes, so reducing
// again at the same eps keeps both rank and content.
func (sr *SepRep) ReduceRank(eps float64) error {
	if !sr.valid {
		return ErrInvalid
	}
	if sr.reduced && eps <= sr.reducedAt {
		return nil
	}

	sr.dropZeroTerms()
	if len(sr.terms) == 0 {
		sr.markReduced(eps)
		return nil
	}
	norm := sr.FrobeniusNorm()
	floor := roundoff * sr.termScale()
	if norm <= floor {
		sr.terms = nil
		sr.markReduced(eps)
		return nil
	}
	tau := max(sr.truncation(eps, norm), floor)

	var (
		terms []term
		err   error
	)
	switch sr.groups {
	case 2:
		terms, err = sr.reduce2(tau)
	default:
		terms, err = factor3(sr.dense(), sr.groupLen(0), sr.groupLen(1), sr.groupLen(2), tau)
	}
	if err != nil {
		return err
	}
	if len(terms) <= len(sr.terms) {
		sr.terms = terms
	}
	sr.markReduced(eps)
	return nil
}

// roundoff is the relative size below which cancelled content is treated as zero.
const roundoff = 1e-13

// termScale bounds the norm by the sum of the norms of the terms.
func (sr *SepRep) termScale() float64 {
	var s float64
	for _, t := range sr.terms {
		p := math.Abs(t.w)
		for _, vec := range t.v {
			p *= math.Sqrt(dot(vec, vec))
		}
		s += p
	}
	return s
}

func (sr *SepRep) dropZeroTerms() {
	kept := sr.terms[:0]
	for _, t := range sr.terms {
		if t.w != 0 {
			kept = append(kept, t)
		}
	}
	sr.terms = kept
}

// reduce2 recompresses a two-group representation without forming the dense
// tensor when the rank is small: with A and B holding the group vectors as
// columns, T = A diag(w) Bᵀ = Qa (Ra diag(w) Rbᵀ) Qbᵀ, and only the r×r core
// needs an SVD.
func (sr *SepRep) reduce2(tau float64) ([]term, error) {
	n1, n2, r := sr.groupLen(0), sr.groupLen(1), len(sr.terms)

	a := mat.NewDense(n1, r, nil)
	b := mat.NewDense(n2, r, nil)
	for j, t := range sr.terms {
		a.SetCol(j, t.v[0])
		col := make([]float64, n2)
		for i, x := range t.v[1] {
			col[i] = x * t.w
		}
		b.SetCol(j, col)
	}

	if r > n1 || r > n2 {
		var m mat.Dense
		m.Mul(a, b.T())
		return factor2(m.RawMatrix().Data, n1, n2, tau)
	}

	var qa, qb mat.QR
	qa.Factorize(a)
	qb.Factorize(b)
	var qaFull, raFull, qbFull, rbFull mat.Dense
	qa.QTo(&qaFull)
	qa.RTo(&raFull)
	qb.QTo(&qbFull)
	qb.RTo(&rbFull)
	qaThin := qaFull.Slice(0, n1, 0, r)
	qbThin := qbFull.Slice(0, n2, 0, r)
	ra := raFull.Slice(0, r, 0, r)
	rb := rbFull.Slice(0, r, 0, r)

	var core mat.Dense
	core.Mul(ra, rb.T())
	tri, err := truncatedSVD(&core, tau)
	if err != nil {
		return nil, err
	}

	var left, right mat.Dense
	left.Mul(qaThin, &tri.u)
	right.Mul(qbThin, &tri.v)
	terms := make([]term, tri.keep)
	for i := range terms {
		terms[i] = term{
			w: tri.s[i],
			v: [][]float64{mat.Col(nil, i, &left), mat.Col(nil, i, &right)},
		}
	}
	return terms, nil
}
