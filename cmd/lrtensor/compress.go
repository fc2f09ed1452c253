package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/born-ml/lrtensor/internal/config"
	"github.com/born-ml/lrtensor/internal/logging"
	"github.com/born-ml/lrtensor/lrtensor"
	"github.com/born-ml/lrtensor/tensor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// fieldFlags describe the generated input of compress and sweep.
type fieldFlags struct {
	kind  string
	k     int
	ndim  int
	terms int
	seed  int64
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.kind, "kind", "", "low-rank kind (lowrank-2d, lowrank-3d)")
	flags.IntVar(&f.k, "k", 0, "grid points per axis")
	flags.IntVar(&f.ndim, "ndim", 0, "number of axes")
	flags.IntVar(&f.terms, "terms", 3, "number of Gaussians in the test field")
	flags.Int64Var(&f.seed, "seed", 1, "random seed for the test field")
}

// apply overrides cfg with the flags set on cmd.
func (f *fieldFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("kind") {
		cfg.Tensor.Kind = f.kind
	}
	if flags.Changed("k") {
		cfg.Grid.K = f.k
	}
	if flags.Changed("ndim") {
		cfg.Grid.NDim = f.ndim
	}
}

func (f *fieldFlags) field(cfg *config.Config) (*tensor.Dense[float64], error) {
	if f.terms < 1 {
		return nil, fmt.Errorf("invalid terms: %d", f.terms)
	}
	rng := rand.New(rand.NewSource(f.seed))
	return gaussianField(cfg.Grid.K, cfg.Grid.NDim, randomGaussians(rng, f.terms, cfg.Grid.NDim)), nil
}

// report summarizes one compression.
type report struct {
	Kind        lrtensor.Kind
	Eps         float64
	Rank        int
	Coeffs      int
	DenseSize   int
	Compression float64
	RelError    float64
	Elapsed     time.Duration
}

// compress converts a deep copy of d to kind k at accuracy eps and measures the result.
func compress(ctx context.Context, d *tensor.Dense[float64], eps float64, k lrtensor.Kind) (report, error) {
	if err := ctx.Err(); err != nil {
		return report{}, err
	}
	start := time.Now()

	x, err := lrtensor.FromDenseEps(d, eps, k)
	if err != nil {
		return report{}, err
	}
	defer x.Release()

	r := report{
		Kind:      k,
		Eps:       eps,
		Rank:      x.Rank(),
		Coeffs:    x.Size(),
		DenseSize: d.Size(),
	}
	if r.Coeffs > 0 {
		r.Compression = float64(r.DenseSize) / float64(r.Coeffs)
	}

	back, err := x.Reconstruct()
	if err != nil {
		return report{}, err
	}
	if err := back.Gaxpy(1, d, -1); err != nil {
		return report{}, err
	}
	if norm := d.NormF(); norm > 0 {
		r.RelError = back.NormF() / norm
	}
	r.Elapsed = time.Since(start)

	logging.L().Info("compressed field",
		zap.Stringer("kind", k),
		zap.Float64("eps", eps),
		zap.Int("rank", r.Rank),
		zap.Float64("rel_error", r.RelError),
		zap.Duration("elapsed", r.Elapsed),
	)
	return r, nil
}

func writeHeader(w io.Writer) {
	fmt.Fprintf(w, "%-11s %10s %6s %8s %12s %12s\n", "kind", "eps", "rank", "coeffs", "compression", "rel_error")
}

func writeReport(w io.Writer, r report) {
	fmt.Fprintf(w, "%-11s %10.3g %6d %8d %12.2f %12.3g\n", r.Kind, r.Eps, r.Rank, r.Coeffs, r.Compression, r.RelError)
}

func newCompressCmd(opts *options) *cobra.Command {
	var (
		ff  fieldFlags
		eps float64
	)
	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Compress a Gaussian test field to a low-rank tensor",
		Long: `Builds a sum of Gaussians on a cubic grid, converts it to a low-rank
kind at relative accuracy --eps, and reports rank, coefficient count,
compression ratio and reconstruction error.

Example:
  lrtensor compress --k 16 --ndim 4 --eps 1e-6 --kind lowrank-3d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			ff.apply(cmd, cfg)
			if cmd.Flags().Changed("eps") {
				cfg.Tensor.Thresh = eps
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			args, err := cfg.Args()
			if err != nil {
				return err
			}
			if !args.Kind.IsLowRank() {
				return fmt.Errorf("compress needs a low-rank kind, got %s", args.Kind)
			}

			d, err := ff.field(cfg)
			if err != nil {
				return err
			}
			r, err := compress(cmd.Context(), d, args.Thresh, args.Kind)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writeHeader(out)
			writeReport(out, r)
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().Float64Var(&eps, "eps", 0, "relative accuracy (default from config)")
	return cmd
}
