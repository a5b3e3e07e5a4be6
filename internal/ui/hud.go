//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strings"

	"ising/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD is the parameter panel drawn to the right of the lattice view. It shows
// the adjustable controls followed by the full parameter snapshot.
type HUD struct {
	sim      core.Sim
	width    int
	title    string
	controls *Controls
	snapshot core.ParameterSnapshot

	panel   *ebiten.Image
	pixel   *ebiten.Image
	originX int
}

// NewHUD builds a panel width pixels wide. A non-positive width disables it.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), controls: NewControls(sim, width)}
	if name := sim.Name(); name != "" {
		h.title = strings.ToUpper(name[:1]) + name[1:] + " Controls"
	} else {
		h.title = "Controls"
	}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Update refreshes the snapshot and applies clicks and key shortcuts.
// originX is the screen x where the panel starts.
func (h *HUD) Update(originX int) {
	if h == nil {
		return
	}
	h.originX = originX
	if provider, ok := h.sim.(core.ParameterProvider); ok {
		h.snapshot = provider.Parameters()
	} else {
		h.snapshot = core.ParameterSnapshot{}
	}
	h.controls.Sync(h.snapshot)

	for _, k := range hudKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			h.controls.Nudge(k.control, k.direction)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if x >= originX {
			h.controls.Click(x-originX, y)
		}
	}
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width == 0 {
		return
	}
	height := max(h.sim.Size().Y*max(scale, 1), MinPanelHeight)
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+titleHeight, titleColor)
	if !h.controls.Adjustable() {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, firstRowTop+titleHeight, mutedColor)
	}
	for _, row := range h.controls.Rows {
		h.drawRow(row)
	}

	y := h.controls.Bottom() + 20
	for _, group := range h.snapshot.Groups {
		text.Draw(h.panel, group.Name, face, panelPadding, y, titleColor)
		y += 16
		for _, p := range group.Params {
			text.Draw(h.panel, p.Label+": "+p.Value, face, panelPadding+8, y, mutedColor)
			y += 16
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawRow(row ControlRow) {
	face := basicfont.Face7x13
	baseline := row.Top + 24
	text.Draw(h.panel, row.Def.Label, face, panelPadding, baseline, labelColor)

	value, c := row.Text(), labelColor
	if !row.Known {
		c = mutedColor
	}
	w := text.BoundString(face, value).Dx()
	text.Draw(h.panel, value, face, row.Minus.Min.X-buttonGap-w, baseline, c)

	h.drawButton(row.Minus, "-", row.CanNudge(-1))
	h.drawButton(row.Plus, "+", row.CanNudge(1))
}

func (h *HUD) drawButton(r image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, buttonTextColor
	if !enabled {
		bg, fg = buttonDisabledColor, buttonTextDisabledColor
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := r.Min.X + (r.Dx()-b.Dx())/2
	y := r.Min.Y + (r.Dy()+b.Dy())/2
	text.Draw(h.panel, label, face, x, y, fg)
}

var (
	panelColor              = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor              = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor              = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor              = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonColor             = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonDisabledColor     = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonTextColor         = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	buttonTextDisabledColor = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

// hudKeys maps keyboard shortcuts to control adjustments.
var hudKeys = []struct {
	key       ebiten.Key
	control   string
	direction int
}{
	{ebiten.KeyBracketRight, "temperature", 1},
	{ebiten.KeyBracketLeft, "temperature", -1},
	{ebiten.KeyPeriod, "interaction", 1},
	{ebiten.KeyComma, "interaction", -1},
}
