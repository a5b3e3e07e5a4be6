package main

import (
	"fmt"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ising/internal/ensemble"
	"ising/internal/logging"
)

func newEnsembleCmd() *cobra.Command {
	var (
		count   int
		workers int
	)
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "Repeat the configured sweep over several seeds in parallel",
		Long: `Run the configured sweep once per seed, starting at the configured seed,
on a pool of workers, and report the spread of the magnetization curve.

Examples:
  ising ensemble --seeds 8
  ising ensemble --config small.yaml --seeds 16 --workers 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctx, err := setup(cmd)
			if err != nil {
				return err
			}
			if cfg.Lattice.File != "" {
				return fmt.Errorf("ensemble builds fresh lattices; lattice.file is not supported")
			}
			if count <= 0 {
				return fmt.Errorf("--seeds must be positive, got %d", count)
			}
			seeds := make([]int64, count)
			for i := range seeds {
				seeds[i] = cfg.Seed + int64(i)
			}
			plan := ensemble.Plan{Model: cfg.Model(), Sweep: cfg.SweepSettings()}

			logger := logging.FromContext(ctx)
			logger.Info("starting ensemble", "seeds", count, "workers", workers)
			start := time.Now()
			members, err := ensemble.Run(ctx, plan, seeds, workers)
			if err != nil {
				return err
			}
			logger.Info("ensemble finished", "elapsed", time.Since(start).Round(time.Millisecond))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "T\t<|M| avg>\t±\t<|M| final>\t±")
			for _, s := range ensemble.Summarize(members) {
				fmt.Fprintf(tw, "%g\t%.4f\t%.4f\t%.4f\t%.4f\n", s.Temperature, s.AvgMean, s.AvgStdDev, s.FinalMean, s.FinalStdDev)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&count, "seeds", 4, "number of seeds to run")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	return cmd
}
