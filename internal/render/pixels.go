package render

import (
	"image/color"

	"ising/internal/core"
)

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// SliceZ copies the x/y plane at depth z out of cells, which hold one byte per
// site in the Dims linear order. The result is row-major with d.X columns and
// d.Y rows. dst is reused when large enough.
func SliceZ(dst, cells []uint8, d core.Dims, z int) []uint8 {
	plane := d.X * d.Y
	if cap(dst) < plane {
		dst = make([]uint8, plane)
	}
	dst = dst[:plane]
	if len(cells) != d.Len() {
		clear(dst)
		return dst
	}
	_, _, z = d.Wrap(0, 0, z)
	for y := 0; y < d.Y; y++ {
		for x := 0; x < d.X; x++ {
			dst[y*d.X+x] = cells[d.Index(x, y, z)]
		}
	}
	return dst
}

// ProjectZ counts the non-zero cells of every z column. Counts saturate at 255.
func ProjectZ(dst, cells []uint8, d core.Dims) []uint8 {
	plane := d.X * d.Y
	if cap(dst) < plane {
		dst = make([]uint8, plane)
	}
	dst = dst[:plane]
	clear(dst)
	if len(cells) != d.Len() {
		return dst
	}
	for y := 0; y < d.Y; y++ {
		for x := 0; x < d.X; x++ {
			n := 0
			base := d.Index(x, y, 0)
			for z := 0; z < d.Z; z++ {
				if cells[base+z] != 0 {
					n++
				}
			}
			dst[y*d.X+x] = uint8(min(n, 255))
		}
	}
	return dst
}

// ProjectionPalette returns depth+1 colours running from the down colour
// through grey to the up colour, indexed by the number of up spins in a column.
func ProjectionPalette(depth int) []color.RGBA {
	if depth < 1 {
		depth = 1
	}
	if depth > 255 {
		depth = 255
	}
	down := color.RGBA{R: 40, G: 80, B: 200, A: 255}
	mid := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	up := color.RGBA{R: 220, G: 60, B: 40, A: 255}
	palette := make([]color.RGBA, depth+1)
	for i := range palette {
		t := float64(i) / float64(depth)
		if t <= 0.5 {
			palette[i] = lerpRGBA(down, mid, t*2)
			continue
		}
		palette[i] = lerpRGBA(mid, up, (t-0.5)*2)
	}
	return palette
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
