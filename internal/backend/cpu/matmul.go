package cpu

import (
	"fmt"

	"github.com/born-ml/lrtensor/internal/parallel"
	"github.com/born-ml/lrtensor/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D arrays: (M, K) @ (K, N) -> (M, N)
func MatMul[T tensor.DType](a, b *tensor.Dense[T]) (*tensor.Dense[T], error) {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		return nil, fmt.Errorf("%w: matmul needs 2D operands, got %dD and %dD", tensor.ErrShapeMismatch, len(aShape), len(bShape))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		return nil, fmt.Errorf("%w: matmul [%d,%d] @ [%d,%d]", tensor.ErrShapeMismatch, m, k, kAlt, n)
	}

	result := tensor.Zeros[T](tensor.Shape{m, n})
	matmul(result.Data(), a.Data(), b.Data(), m, k, n)
	return result, nil
}

// matmul computes C = A @ B with row-major operands.
// Rows of C are independent, so they are spread over the worker pool.
func matmul[T tensor.DType](c, a, b []T, m, k, n int) {
	parallel.For(m, func(i int) {
		row := c[i*n : (i+1)*n]
		for j := range row {
			row[j] = 0
		}
		for kIdx := 0; kIdx < k; kIdx++ {
			aik := a[i*k+kIdx]
			if aik == 0 {
				continue
			}
			bRow := b[kIdx*n : (kIdx+1)*n]
			for j := range row {
				row[j] += aik * bRow[j]
			}
		}
	}, Parallel())
}
