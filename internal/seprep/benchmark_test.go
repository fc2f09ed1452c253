package seprep

import (
	"math/rand"
	"testing"
)

// lowRankInput returns a k^4 array of rank r in the 2-group matricization.
func lowRankInput(k, r int) [][]float64 {
	rng := rand.New(rand.NewSource(1))
	n := k * k
	us := make([][]float64, r)
	vs := make([][]float64, r)
	for i := range us {
		us[i] = randomVec(rng, n)
		vs[i] = randomVec(rng, n)
	}
	return append(us, vs...)
}

func BenchmarkFromDense2(b *testing.B) {
	vecs := lowRankInput(12, 4)
	d := outer(12, 4, vecs[:4], vecs[4:])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FromDense(d, 1e-8, 2); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFromDense3(b *testing.B) {
	vecs := lowRankInput(8, 4)
	d := outer(8, 4, vecs[:4], vecs[4:])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FromDense(d, 1e-8, 3); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReduceRank2 measures the QR path on a rank-doubled sum.
func BenchmarkReduceRank2(b *testing.B) {
	vecs := lowRankInput(12, 4)
	sr, err := FromDense(outer(12, 4, vecs[:4], vecs[4:]), 1e-8, 2)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		c := sr.Copy()
		if err := c.UpdateBy(sr); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if err := c.ReduceRank(1e-8); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOverlap(b *testing.B) {
	vecs := lowRankInput(12, 8)
	sr, err := FromDense(outer(12, 4, vecs[:8], vecs[8:]), 1e-8, 2)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sr.FrobeniusNorm()
	}
}
