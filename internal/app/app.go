//go:build ebiten

package app

import (
	"image/color"
	"time"

	"ising/internal/core"
	"ising/internal/render"
	"ising/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a lattice simulation to the ebiten.Game interface. It shows one
// z layer at a time, or the column projection of the whole lattice.
type Game struct {
	sim     core.Sim
	cfg     Config
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	upColor   color.Color
	downColor color.Color
	palette   []color.RGBA
	plane     []uint8

	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg Config) *Game {
	size := sim.Size()
	cfg.Scale = max(cfg.Scale, 1)
	return &Game{
		sim:       sim,
		cfg:       cfg,
		painter:   render.NewGridPainter(size.X, size.Y),
		overlay:   ui.NewOverlay(sim, cfg.Scale),
		hud:       ui.NewHUD(sim, cfg.HUDWidth),
		upColor:   UpColor,
		downColor: DownColor,
		palette:   render.ProjectionPalette(size.Z),
		seed:      cfg.Seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.overlay.Update()
	g.hud.Update(g.viewWidth())

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	size := g.sim.Size()
	cells := g.sim.Cells()
	if g.overlay.Projection() {
		g.plane = render.ProjectZ(g.plane, cells, size)
		g.painter.BlitPalette(screen, g.plane, g.palette, g.cfg.Scale)
	} else {
		g.plane = render.SliceZ(g.plane, cells, size, g.overlay.Layer())
		g.painter.Blit(screen, g.plane, g.upColor, g.downColor, g.cfg.Scale)
	}
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.viewWidth(), g.cfg.Scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return g.cfg.ScreenSize(s.X, s.Y)
}

func (g *Game) viewWidth() int { return g.sim.Size().X * g.cfg.Scale }
