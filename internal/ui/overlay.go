//go:build ebiten

package ui

import (
	"image/color"

	"ising/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay selects the displayed layer and draws the status readout on top of
// the lattice view.
type Overlay struct {
	sim        core.Sim
	scale      int
	layer      int
	projection bool
	hidden     bool

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Layer returns the z index currently shown.
func (o *Overlay) Layer() int { return o.layer }

// Projection reports whether the column projection replaces the slice view.
func (o *Overlay) Projection() bool { return o.projection }

// Update handles layer navigation and view toggles.
func (o *Overlay) Update() {
	depth := o.sim.Size().Z
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		o.layer = StepLayer(o.layer, 1, depth)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		o.layer = StepLayer(o.layer, -1, depth)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		o.projection = !o.projection
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.hidden = !o.hidden
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.hidden {
		return
	}
	lines := CollectStatus(o.sim, o.layer, o.projection).Lines()
	if len(lines) == 0 {
		return
	}

	const (
		padding    = 6
		lineHeight = 16
	)
	face := basicfont.Face7x13
	width := 0
	for _, line := range lines {
		if w := text.BoundString(face, line).Dx(); w > width {
			width = w
		}
	}
	boxW := width + 2*padding
	boxH := len(lines)*lineHeight + padding

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(boxW), float64(boxH))
	op.GeoM.Translate(4, 4)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 0, G: 0, B: 0, A: 160})
	screen.DrawImage(o.pixel, op)

	for i, line := range lines {
		y := 4 + padding + 8 + i*lineHeight
		text.Draw(screen, line, face, 4+padding, y, color.RGBA{R: 230, G: 230, B: 240, A: 255})
	}
}
