package ising

import (
	"fmt"

	"ising/internal/core"
)

// LocalEnergy returns -J times the sum of s*s_nb over the six axis-aligned
// neighbors of (x, y, z), wrapping periodically at every edge. It is the bond
// energy attributable to that site, not the energy of the whole lattice.
func LocalEnergy(l *Lattice, x, y, z int) (float64, error) {
	if !l.dims.Contains(x, y, z) {
		return 0, fmt.Errorf("%w: (%d,%d,%d) in %s", core.ErrIndexOutOfRange, x, y, z, l.dims)
	}
	return l.localEnergy(x, y, z), nil
}

var neighborOffsets = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

func (l *Lattice) localEnergy(x, y, z int) float64 {
	d := l.dims
	s := int(l.spins[d.Index(x, y, z)])
	sum := 0
	for _, off := range neighborOffsets {
		nx, ny, nz := d.Wrap(x+off[0], y+off[1], z+off[2])
		sum += s * int(l.spins[d.Index(nx, ny, nz)])
	}
	return -l.interaction * float64(sum)
}
