// Package main provides the lrtensor CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/born-ml/lrtensor/internal/backend/cpu"
	"github.com/born-ml/lrtensor/internal/config"
	"github.com/born-ml/lrtensor/internal/logging"
	"github.com/spf13/cobra"
)

const version = "v0.1.0-dev"

// options holds the persistent flags and the resolved configuration.
type options struct {
	configPath string
	logLevel   string
	jsonLogs   bool
	workers    int

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var restore func()

	root := &cobra.Command{
		Use:   "lrtensor",
		Short: "lrtensor - dense and low-rank tensors for Go",
		Long: `lrtensor compresses tensors into low-rank separated representations.

It builds separable test fields on cubic grids, converts them to a low-rank
kind at a requested accuracy, and reports rank, storage and error.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			logger, err := logging.New(opts.cfg.LoggerOptions())
			if err != nil {
				return err
			}
			restore = logging.SetLogger(logger)
			cpu.SetParallel(opts.cfg.Kernels())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logging.L().Sync()
			if restore != nil {
				restore()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "lrtensor.yaml", "path to the YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.jsonLogs, "json", false, "write JSON logs")
	flags.IntVar(&opts.workers, "workers", 0, "kernel goroutines (0 uses the configured value)")

	root.AddCommand(newVersionCmd(), newCompressCmd(opts), newSweepCmd(opts))
	return root
}

// load reads the configuration file and applies the persistent flags on top.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("json") {
		cfg.Logging.JSON = o.jsonLogs
	}
	if flags.Changed("workers") {
		cfg.Parallel.Workers = o.workers
	}
	o.cfg = cfg
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lrtensor %s\n", version)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
