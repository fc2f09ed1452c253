// Package cpu implements the dense kernels used by the full-rank backend:
// matrix multiplication and the basis-transform family.
package cpu

import (
	"sync/atomic"

	"github.com/born-ml/lrtensor/internal/parallel"
)

var parallelConfig atomic.Pointer[parallel.Config]

func init() {
	cfg := parallel.DefaultConfig()
	parallelConfig.Store(&cfg)
}

// SetParallel replaces the loop configuration used by the kernels.
func SetParallel(cfg parallel.Config) {
	parallelConfig.Store(&cfg)
}

// Parallel returns the loop configuration used by the kernels.
func Parallel() parallel.Config {
	return *parallelConfig.Load()
}
