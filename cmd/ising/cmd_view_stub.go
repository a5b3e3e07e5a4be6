//go:build !ebiten

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Watch the lattice evolve (requires the ebiten build tag)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("the viewer requires the ebiten build tag; rebuild with `go build -tags ebiten ./cmd/ising`")
		},
	}
}
