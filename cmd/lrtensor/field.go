package main

import (
	"math"
	"math/rand"

	"github.com/born-ml/lrtensor/internal/backend/cpu"
	"github.com/born-ml/lrtensor/internal/parallel"
	"github.com/born-ml/lrtensor/tensor"
)

// gaussian is one term exp(-alpha*|x-center|^2) of a test field.
type gaussian struct {
	amplitude float64
	alpha     float64
	center    []float64
}

// randomGaussians returns n Gaussians centered in [-0.5, 0.5]^ndim.
func randomGaussians(rng *rand.Rand, n, ndim int) []gaussian {
	gs := make([]gaussian, n)
	for i := range gs {
		c := make([]float64, ndim)
		for j := range c {
			c[j] = rng.Float64() - 0.5
		}
		gs[i] = gaussian{amplitude: 0.5 + rng.Float64(), alpha: 2 + 8*rng.Float64(), center: c}
	}
	return gs
}

// gaussianField samples the sum of gs on a k^ndim grid over [-1, 1]^ndim.
// Every term is a product of one-dimensional factors, so the field has a
// separated rank of at most len(gs).
func gaussianField(k, ndim int, gs []gaussian) *tensor.Dense[float64] {
	d := tensor.Zeros[float64](tensor.Cubic(k, ndim))
	data := d.Data()

	x := make([]float64, k)
	for i := range x {
		if k > 1 {
			x[i] = -1 + 2*float64(i)/float64(k-1)
		}
	}

	// factors[g][axis][i] = exp(-alpha*(x_i - c_axis)^2)
	factors := make([][][]float64, len(gs))
	for g, gauss := range gs {
		factors[g] = make([][]float64, ndim)
		for axis := range factors[g] {
			f := make([]float64, k)
			for i, xi := range x {
				dx := xi - gauss.center[axis]
				f[i] = math.Exp(-gauss.alpha * dx * dx)
			}
			factors[g][axis] = f
		}
	}

	parallel.For(len(data), func(flat int) {
		idx := make([]int, ndim)
		rem := flat
		for axis := ndim - 1; axis >= 0; axis-- {
			idx[axis] = rem % k
			rem /= k
		}
		sum := 0.0
		for g, gauss := range gs {
			p := gauss.amplitude
			for axis, i := range idx {
				p *= factors[g][axis][i]
			}
			sum += p
		}
		data[flat] = sum
	}, cpu.Parallel())
	return d
}
