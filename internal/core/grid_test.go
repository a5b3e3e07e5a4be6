package core

import (
	"errors"
	"math"
	"testing"
)

func TestIndexCoordsRoundTrip(t *testing.T) {
	d := Dims{X: 3, Y: 4, Z: 5}
	seen := make(map[int]bool)
	for x := 0; x < d.X; x++ {
		for y := 0; y < d.Y; y++ {
			for z := 0; z < d.Z; z++ {
				i := d.Index(x, y, z)
				if i < 0 || i >= d.Len() {
					t.Fatalf("index %d for (%d,%d,%d) outside [0,%d)", i, x, y, z, d.Len())
				}
				if seen[i] {
					t.Fatalf("index %d produced twice", i)
				}
				seen[i] = true
				gx, gy, gz := d.Coords(i)
				if gx != x || gy != y || gz != z {
					t.Fatalf("Coords(%d) = (%d,%d,%d), want (%d,%d,%d)", i, gx, gy, gz, x, y, z)
				}
			}
		}
	}
}

func TestCheckRejectsOversizedLattices(t *testing.T) {
	if err := (Dims{X: 1 << 10, Y: 1 << 10, Z: 1 << 10}).Check(); err != nil {
		t.Fatalf("MaxCells lattice rejected: %v", err)
	}
	for _, d := range []Dims{
		{1 << 10, 1 << 10, 1<<10 + 1},
		{MaxCells, 2, 1},
		{1 << 20, 1 << 20, 1 << 20},
		{math.MaxInt, math.MaxInt, 4},
		{math.MaxInt / 2, 3, 1},
	} {
		if err := d.Check(); !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("Check(%v) = %v, want ErrInvalidDimensions", d, err)
		}
	}
}

func TestIndexZFastest(t *testing.T) {
	d := Dims{X: 2, Y: 3, Z: 4}
	if got := d.Index(0, 0, 1); got != 1 {
		t.Fatalf("z step = %d, want 1", got)
	}
	if got := d.Index(0, 1, 0); got != 4 {
		t.Fatalf("y step = %d, want 4", got)
	}
	if got := d.Index(1, 0, 0); got != 12 {
		t.Fatalf("x step = %d, want 12", got)
	}
}

func TestWrap(t *testing.T) {
	d := Dims{X: 3, Y: 4, Z: 5}
	cases := []struct {
		in   [3]int
		want [3]int
	}{
		{[3]int{-1, -1, -1}, [3]int{2, 3, 4}},
		{[3]int{3, 4, 5}, [3]int{0, 0, 0}},
		{[3]int{1, 2, 3}, [3]int{1, 2, 3}},
		{[3]int{-7, 9, 11}, [3]int{2, 1, 1}},
	}
	for _, c := range cases {
		x, y, z := d.Wrap(c.in[0], c.in[1], c.in[2])
		if [3]int{x, y, z} != c.want {
			t.Fatalf("Wrap(%v) = (%d,%d,%d), want %v", c.in, x, y, z, c.want)
		}
	}
}

func TestCheck(t *testing.T) {
	if err := (Dims{X: 1, Y: 1, Z: 1}).Check(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range []Dims{{0, 1, 1}, {1, -2, 1}, {1, 1, 0}} {
		if err := d.Check(); !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("Check(%v) = %v, want ErrInvalidDimensions", d, err)
		}
	}
}
