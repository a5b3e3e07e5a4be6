//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads one plane of cell data into an RGBA image and draws it.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a plane of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit draws binary cells using the on and off colours.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, on, off color.Color, scale int) {
	if len(cells) != gp.w*gp.h {
		return
	}
	fillBinaryRGBA(gp.buf, cells, on, off)
	gp.draw(dst, scale)
}

// BlitPalette draws cells whose values index into palette.
func (gp *GridPainter) BlitPalette(dst *ebiten.Image, cells []uint8, palette []color.RGBA, scale int) {
	if len(cells) != gp.w*gp.h {
		return
	}
	fillPaletteRGBA(gp.buf, cells, palette)
	gp.draw(dst, scale)
}

func (gp *GridPainter) draw(dst *ebiten.Image, scale int) {
	gp.img.WritePixels(gp.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
