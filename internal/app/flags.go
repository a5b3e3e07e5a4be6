package app

import (
	"image/color"

	"github.com/spf13/pflag"

	"ising/internal/ui"
)

// Spin colors of the slice view: Down sites are red, Up sites are blue.
var (
	UpColor   = color.RGBA{R: 40, G: 80, B: 200, A: 255}
	DownColor = color.RGBA{R: 220, G: 60, B: 40, A: 255}
)

// Config represents the command-line parameters of the viewer.
type Config struct {
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 12, TPS: 30, Seed: 42, HUDWidth: 240}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "lattice steps per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud-width", c.HUDWidth, "width of the parameter panel in pixels (0 hides it)")
}

// ScreenSize returns the window size for a lattice plane of w by h cells.
func (c *Config) ScreenSize(w, h int) (int, int) {
	scale := max(c.Scale, 1)
	width := w*scale + max(c.HUDWidth, 0)
	height := h * scale
	if c.HUDWidth > 0 {
		height = max(height, ui.MinPanelHeight)
	}
	return width, height
}
