package cpu

import (
	"fmt"

	"github.com/born-ml/lrtensor/internal/parallel"
	"github.com/born-ml/lrtensor/internal/tensor"
)

// TransformDir transforms one axis of t by the matrix c:
//
//	r(i, j, k, ...) = sum(j') t(i, j', k, ...) * c(j', j)   (axis 1)
//
// The extent of t along axis must match the first dimension of c.
// Returns a new, contiguous array.
func TransformDir[T tensor.DType](t, c *tensor.Dense[T], axis int) (*tensor.Dense[T], error) {
	if c.NDim() != 2 {
		return nil, fmt.Errorf("%w: transform matrix must be 2D, got %v", tensor.ErrShapeMismatch, c.Shape())
	}
	axis, err := tensor.NormalizeAxis(axis, t.NDim())
	if err != nil {
		return nil, err
	}
	shape := t.Shape()
	n, m := c.Dim(0), c.Dim(1)
	if shape[axis] != n {
		return nil, fmt.Errorf("%w: axis %d has extent %d, matrix is %dx%d", tensor.ErrShapeMismatch, axis, shape[axis], n, m)
	}

	pre, post := 1, 1
	for i := 0; i < axis; i++ {
		pre *= shape[i]
	}
	for i := axis + 1; i < len(shape); i++ {
		post *= shape[i]
	}

	outShape := shape.Clone()
	outShape[axis] = m
	out := tensor.Zeros[T](outShape)

	src, coef, dst := t.Data(), c.Data(), out.Data()
	parallel.ForGrid(pre, m, func(p, j int) {
		row := dst[(p*m+j)*post : (p*m+j+1)*post]
		for l := 0; l < n; l++ {
			w := coef[l*m+j]
			if w == 0 {
				continue
			}
			in := src[(p*n+l)*post : (p*n+l+1)*post]
			for q := range row {
				row[q] += in[q] * w
			}
		}
	}, Parallel())
	return out, nil
}

// Transform transforms every axis of t by the same matrix c:
//
//	result(i, j, k, ...) <-- sum(i', j', k', ...) t(i', j', k', ...) c(i', i) c(j', j) c(k', k) ...
//
// All extents of t must agree with the first dimension of c.
func Transform[T tensor.DType](t, c *tensor.Dense[T]) (*tensor.Dense[T], error) {
	out := t
	for axis := 0; axis < t.NDim(); axis++ {
		next, err := TransformDir(out, c, axis)
		if err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
		out = next
	}
	if out == t {
		out = t.Copy()
	}
	return out, nil
}

// GeneralTransform transforms axis i of t by c[i]:
//
//	result(i, j, k, ...) <-- sum(i', j', k', ...) t(i', j', k', ...) c[0](i', i) c[1](j', j) c[2](k', k) ...
//
// A nil matrix leaves its axis unchanged.
func GeneralTransform[T tensor.DType](t *tensor.Dense[T], c []*tensor.Dense[T]) (*tensor.Dense[T], error) {
	if len(c) != t.NDim() {
		return nil, fmt.Errorf("%w: %d matrices for %d dimensions", tensor.ErrShapeMismatch, len(c), t.NDim())
	}
	out := t
	for axis, m := range c {
		if m == nil {
			continue
		}
		next, err := TransformDir(out, m, axis)
		if err != nil {
			return nil, fmt.Errorf("general transform: %w", err)
		}
		out = next
	}
	if out == t {
		out = t.Copy()
	}
	return out, nil
}
