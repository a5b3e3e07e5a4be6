package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ising/internal/results"
	"ising/pkg/sims/ising"
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect sweeps stored in a SQLite database",
	}
	cmd.PersistentFlags().String("db", "", "SQLite database (defaults to output.database)")
	cmd.AddCommand(newResultsListCmd(), newResultsShowCmd())
	return cmd
}

func openResults(cmd *cobra.Command) (*results.Store, error) {
	cfg, _, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = cfg.Output.Database
	}
	if path == "" {
		return nil, fmt.Errorf("no database: pass --db or set output.database")
	}
	return results.OpenStore(path)
}

func newResultsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openResults(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTARTED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.StartedAt.Format("2006-01-02T15:04:05Z07:00"))
			}
			return tw.Flush()
		},
	}
}

func newResultsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show RUN",
		Short: "Show the magnetization curve of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openResults(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			ctx := cmd.Context()
			if cmd.Flags().Changed("progression") {
				t, _ := cmd.Flags().GetFloat64("progression")
				series, err := store.Progression(ctx, args[0], t)
				if err != nil {
					return err
				}
				if len(series) == 0 {
					return fmt.Errorf("run %s: no progression recorded at T=%g", args[0], t)
				}
				w := cmd.OutOrStdout()
				for i, m := range series {
					fmt.Fprintf(w, "%d\t%g\n", i+1, m)
				}
				return nil
			}
			curves, err := store.Curves(ctx, args[0])
			if err != nil {
				return err
			}
			if len(curves) == 0 {
				return fmt.Errorf("run %s: no curves recorded", args[0])
			}
			avgPts, err := store.Scatter(ctx, args[0], ising.ScatterAverage)
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"run":     args[0],
					"curves":  curves,
					"scatter": avgPts,
				})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "T\t<|M| avg>\t<|M| final>")
			for _, c := range curves {
				fmt.Fprintf(tw, "%g\t%.4f\t%.4f\n", c.Temperature, c.Avg, c.Final)
			}
			fmt.Fprintf(tw, "\n%d repetitions recorded\n", len(avgPts))
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	cmd.Flags().Float64("progression", 0, "print the first-repetition magnetization series at this temperature")
	return cmd
}
