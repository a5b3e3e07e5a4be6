package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ising/internal/config"
	"ising/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signalContext(context.Background())
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ising",
		Short: "Metropolis simulation of the 3D Ising model",
		Long: `ising runs Metropolis Monte Carlo on a periodic 3D lattice of spins.

It sweeps temperatures to trace the magnetization curve, persists results
as CSV and SQLite, serves live progress over HTTP, and can show the lattice
evolving in a window.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: warn, info, debug or trace")

	rootCmd.AddCommand(
		newSweepCmd(),
		newEnsembleCmd(),
		newViewCmd(),
		newParamsCmd(),
		newLatticeCmd(),
		newResultsCmd(),
	)
	return rootCmd
}

// setup loads the configuration named by --config (or the defaults) and
// returns a context carrying the logger it selects.
func setup(cmd *cobra.Command) (*config.Config, context.Context, error) {
	path, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		cfg.ApplyEnv()
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	return cfg, logging.WithLogger(ctx, logger), nil
}
