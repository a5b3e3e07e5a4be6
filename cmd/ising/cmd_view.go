//go:build ebiten

package main

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"ising/internal/app"
)

func newViewCmd() *cobra.Command {
	viewCfg := app.NewConfig()
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Watch the lattice evolve at a fixed temperature",
		Long: `Open a window showing one z layer of the lattice while it is stepped
at the configured temperature.

Keys: space pause, n single step, r reset, s reseed, arrows change layer,
p toggle column projection, h hide status, q quit. [ and ] change the
temperature, comma and period change the coupling, as do the buttons in
the panel on the right.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = viewCfg.Seed
			} else {
				viewCfg.Seed = cfg.Seed
			}
			if path, _ := cmd.Flags().GetString("lattice"); path != "" {
				cfg.Lattice.File = path
			}
			m, err := buildModel(cfg)
			if err != nil {
				return err
			}

			game := app.New(m, *viewCfg)
			size := m.Size()
			w, h := viewCfg.ScreenSize(size.X, size.Y)

			ebiten.SetWindowTitle("ising - " + m.String())
			ebiten.SetTPS(viewCfg.TPS)
			ebiten.SetWindowSize(w, h)

			if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
				return err
			}
			return nil
		},
	}
	viewCfg.Bind(cmd.Flags())
	cmd.Flags().String("lattice", "", "start from a lattice file (.zst for zstd)")
	return cmd
}
