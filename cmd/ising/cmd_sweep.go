package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ising/internal/config"
	"ising/internal/latticefile"
	"ising/internal/live"
	"ising/internal/logging"
	"ising/internal/metrics"
	"ising/internal/results"
	pcore "ising/pkg/core"
	"ising/pkg/sims/ising"
)

func newSweepCmd() *cobra.Command {
	var (
		size         []int
		temperature  float64
		interaction  float64
		seed         int64
		initName     string
		latticePath  string
		nMax         int
		reps         int
		temperatures []float64
		noGraphs     bool
		outDir       string
		dbPath       string
		listen       string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep temperatures and record the magnetization curve",
		Long: `Run n_max Metropolis steps per repetition at every temperature and
aggregate the mean absolute magnetization per temperature.

Values from --config are overridden by the flags given on the command line.

Examples:
  ising sweep
  ising sweep --size 10,10,10 --temps 1,2,3,4,5,6 --reps 5 --out results
  ising sweep --config sweep.yaml --db runs.db --listen :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctx, err := setup(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("size") {
				if len(size) != 3 {
					return fmt.Errorf("--size takes three extents, got %d", len(size))
				}
				cfg.Lattice.X, cfg.Lattice.Y, cfg.Lattice.Z = size[0], size[1], size[2]
			}
			if flags.Changed("temperature") {
				cfg.Lattice.Temperature = temperature
			}
			if flags.Changed("interaction") {
				cfg.Lattice.Interaction = interaction
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("init") {
				cfg.Lattice.Init = initName
			}
			if flags.Changed("lattice") {
				cfg.Lattice.File = latticePath
			}
			if flags.Changed("n-max") {
				cfg.Sweep.NMax = nMax
			}
			if flags.Changed("reps") {
				cfg.Sweep.SimulationsPerTemperature = reps
			}
			if flags.Changed("temps") {
				cfg.Sweep.Temperatures = temperatures
			}
			if noGraphs {
				cfg.Sweep.GenerateGraphs = false
			}
			if flags.Changed("out") {
				cfg.Output.Dir = outDir
			}
			if flags.Changed("db") {
				cfg.Output.Database = dbPath
			}
			if flags.Changed("listen") {
				cfg.Output.Listen = listen
			}

			res, err := runSweep(ctx, cfg)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), res)
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVar(&size, "size", nil, "lattice extents x,y,z")
	flags.Float64Var(&temperature, "temperature", 0, "starting temperature of the lattice")
	flags.Float64Var(&interaction, "interaction", 0, "coupling constant J")
	flags.Int64Var(&seed, "seed", 0, "random seed")
	flags.StringVar(&initName, "init", "", "initializer: up, down, random or checkerboard")
	flags.StringVar(&latticePath, "lattice", "", "load the starting lattice from a file (.zst for zstd)")
	flags.IntVar(&nMax, "n-max", 0, "Metropolis steps per repetition")
	flags.IntVar(&reps, "reps", 0, "repetitions per temperature")
	flags.Float64SliceVar(&temperatures, "temps", nil, "temperatures to visit, in order")
	flags.BoolVar(&noGraphs, "no-graphs", false, "skip presentation output (CSV, curves, live events)")
	flags.StringVar(&outDir, "out", "", "directory for CSV output (empty disables)")
	flags.StringVar(&dbPath, "db", "", "SQLite database collecting runs")
	flags.StringVar(&listen, "listen", "", "serve /metrics, /curves and /ws on this address while sweeping")

	return cmd
}

// runSweep wires the configured outputs around a Sweeper and runs it.
func runSweep(ctx context.Context, cfg *config.Config) (*ising.SweepResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	rng := pcore.NewRNG(cfg.Seed)
	initializer, err := ising.InitializerByName(cfg.Lattice.Init, rng)
	if err != nil {
		return nil, err
	}
	lattice, err := buildLattice(cfg, initializer)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	sinks := ising.MultiSink{m}
	observers := ising.MultiObserver{m}
	if logger.Enabled(ctx, logging.LevelTrace) {
		observers = append(observers, traceObserver(ctx, logger))
	}

	if cfg.Output.Dir != "" {
		csv, err := results.NewCSVSink(cfg.Output.Dir)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, csv)
	}

	if cfg.Output.Database != "" {
		store, err := results.OpenStore(cfg.Output.Database)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		run, err := store.BeginRun(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("recording run", "id", run.ID(), "db", cfg.Output.Database)
		sinks = append(sinks, run)
	}

	var hub *live.Hub
	if cfg.Output.Listen != "" {
		hub = live.NewHub(logger)
		sinks = append(sinks, hub)
	}

	sweeper := &ising.Sweeper{
		Lattice:  lattice,
		Stepper:  ising.NewStepper(rng.Source()),
		Init:     initializer,
		Sink:     sinks,
		Observer: observers,
	}
	settings := cfg.SweepSettings()

	logger.Info("starting sweep",
		"dims", lattice.Dims().String(),
		"interaction", lattice.Interaction(),
		"temperatures", settings.Temperatures,
		"n_max", settings.NMax,
		"repetitions", settings.SimulationsPerTemperature,
		"seed", cfg.Seed,
	)

	if hub == nil {
		return sweeper.Run(ctx, settings)
	}

	srv := live.NewServer(hub, m.Handler(), logger)
	g, gctx := errgroup.WithContext(ctx)
	srvCtx, stopServer := context.WithCancel(gctx)
	defer stopServer()

	var res *ising.SweepResult
	g.Go(func() error {
		return srv.ListenAndServe(srvCtx, cfg.Output.Listen)
	})
	g.Go(func() error {
		defer stopServer()
		var err error
		res, err = sweeper.Run(gctx, settings)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func buildLattice(cfg *config.Config, initializer ising.Initializer) (*ising.Lattice, error) {
	if cfg.Lattice.File != "" {
		return latticefile.Load(cfg.Lattice.File, latticefile.Defaults{
			Temperature: cfg.Lattice.Temperature,
			Interaction: cfg.Lattice.Interaction,
		})
	}
	m := cfg.Model()
	return ising.NewLattice(m.Dims(), m.Temperature, m.Interaction, initializer)
}

func traceObserver(ctx context.Context, logger *slog.Logger) ising.StepObserver {
	return ising.StepObserverFunc(func(l *ising.Lattice, step int, stats ising.StepStats) {
		logger.Log(ctx, logging.LevelTrace, "step",
			"temperature", l.Temperature(),
			"step", step,
			"accepted", stats.Accepted,
			"magnetization", l.Magnetization(),
		)
	})
}

func printSummary(w io.Writer, res *ising.SweepResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "T\t<|M| avg>\t<|M| final>\taccepted")
	for _, row := range res.Temperatures {
		fmt.Fprintf(tw, "%g\t%.4f\t%.4f\t%.1f%%\n", row.Temperature, row.MeanAbsAverage, row.MeanAbsFinal, 100*row.AcceptanceRatio)
	}
	return tw.Flush()
}
