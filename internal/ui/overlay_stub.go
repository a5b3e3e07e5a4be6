//go:build !ebiten

package ui

import "ising/internal/core"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(core.Sim, int) *Overlay { return &Overlay{} }

// Layer always reports the first layer.
func (o *Overlay) Layer() int { return 0 }

// Projection always reports the slice view.
func (o *Overlay) Projection() bool { return false }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
