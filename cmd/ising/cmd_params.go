package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"strconv"

	"github.com/spf13/cobra"

	"ising/internal/config"
	"ising/internal/core"
	"ising/internal/latticefile"
	"ising/pkg/sims/ising"
)

func newParamsCmd() *cobra.Command {
	var (
		steps     int
		overrides map[string]string
	)
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Show the parameters of the configured model",
		Long: `Build the model described by the configuration, optionally advance it,
and print its parameter snapshot.

Examples:
  ising params
  ising params --steps 50 --json
  ising params --set x=8,temperature=4.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			var m *ising.Model
			if len(overrides) > 0 {
				m, err = modelFromRegistry(cfg, overrides)
			} else {
				m, err = buildModel(cfg)
			}
			if err != nil {
				return err
			}
			for i := 0; i < steps; i++ {
				m.Step()
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			return printSnapshot(cmd.OutOrStdout(), m.Parameters(), jsonOut)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "Metropolis steps to take before reporting")
	cmd.Flags().StringToStringVar(&overrides, "set", nil, "override model keys: x, y, z, temperature, interaction, seed, init")
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

// buildModel constructs the viewer/inspection model, loading the lattice from
// cfg.Lattice.File when set.
func buildModel(cfg *config.Config) (*ising.Model, error) {
	if cfg.Lattice.File == "" {
		return ising.NewModel(cfg.Model())
	}
	l, err := latticefile.Load(cfg.Lattice.File, latticefile.Defaults{
		Temperature: cfg.Lattice.Temperature,
		Interaction: cfg.Lattice.Interaction,
	})
	if err != nil {
		return nil, err
	}
	return ising.NewModelFromLattice(l, cfg.Seed, cfg.Lattice.Init)
}

// modelFromRegistry builds the model through the registered factory, applying
// overrides on top of the configured values. Unparseable overrides fall back
// to the model defaults.
func modelFromRegistry(cfg *config.Config, overrides map[string]string) (*ising.Model, error) {
	if cfg.Lattice.File != "" {
		return nil, fmt.Errorf("--set cannot be combined with lattice.file")
	}
	factory, ok := core.Lookup("ising")
	if !ok {
		return nil, fmt.Errorf("ising model is not registered")
	}
	values := cfg.Model().Map()
	maps.Copy(values, overrides)
	if err := requestedDims(values).Check(); err != nil {
		return nil, fmt.Errorf("--set: %w", err)
	}
	m, ok := factory(values).(*ising.Model)
	if !ok {
		return nil, fmt.Errorf("registered ising factory returned an unexpected type")
	}
	return m, nil
}

// requestedDims parses the extents in values. An extent that does not parse as
// a positive integer is reported as 1 so that only oversized lattices fail.
func requestedDims(values map[string]string) core.Dims {
	extent := func(key string) int {
		v, err := strconv.Atoi(values[key])
		if err != nil || v <= 0 {
			return 1
		}
		return v
	}
	return core.Dims{X: extent("x"), Y: extent("y"), Z: extent("z")}
}

func printSnapshot(w io.Writer, snap core.ParameterSnapshot, jsonOut bool) error {
	if jsonOut {
		out := map[string]map[string]string{}
		for _, g := range snap.Groups {
			group := map[string]string{}
			for _, p := range g.Params {
				group[p.Key] = p.Value
			}
			out[g.Name] = group
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, g := range snap.Groups {
		fmt.Fprintln(w, g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(w, "  %-14s %s\n", p.Label+":", p.Value)
		}
	}
	return nil
}
