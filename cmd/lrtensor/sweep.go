package main

import (
	"fmt"
	"runtime"

	"github.com/born-ml/lrtensor/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newSweepCmd(opts *options) *cobra.Command {
	var (
		ff   fieldFlags
		epss []float64
		jobs int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compress one test field at several accuracies concurrently",
		Long: `Builds one Gaussian test field and compresses it at every accuracy
given with --eps. Results are printed in the order of --eps.

Example:
  lrtensor sweep --eps 1e-2,1e-4,1e-6,1e-8 --kind lowrank-2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			ff.apply(cmd, cfg)
			if len(epss) == 0 {
				return fmt.Errorf("no accuracies given")
			}
			for _, eps := range epss {
				cfg.Tensor.Thresh = eps
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			args, err := cfg.Args()
			if err != nil {
				return err
			}
			if !args.Kind.IsLowRank() {
				return fmt.Errorf("sweep needs a low-rank kind, got %s", args.Kind)
			}

			d, err := ff.field(cfg)
			if err != nil {
				return err
			}

			reports := make([]report, len(epss))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobs, 1))
			for i, eps := range epss {
				g.Go(func() error {
					r, err := compress(ctx, d, eps, args.Kind)
					if err != nil {
						return fmt.Errorf("eps %g: %w", eps, err)
					}
					reports[i] = r
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			logging.L().Debug("sweep finished", zap.Int("runs", len(reports)))

			out := cmd.OutOrStdout()
			writeHeader(out)
			for _, r := range reports {
				writeReport(out, r)
			}
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().Float64SliceVar(&epss, "eps", []float64{1e-2, 1e-4, 1e-6, 1e-8}, "relative accuracies")
	cmd.Flags().IntVar(&jobs, "jobs", runtime.NumCPU(), "concurrent compressions")
	return cmd
}
