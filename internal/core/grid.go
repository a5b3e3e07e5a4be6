package core

import "fmt"

// Dims describes the extent of a 3D lattice. Cells are laid out with x varying
// slowest and z fastest.
type Dims struct {
	X, Y, Z int
}

// Len returns the number of cells covered by the dimensions.
func (d Dims) Len() int { return d.X * d.Y * d.Z }

// Valid reports whether every extent is positive.
func (d Dims) Valid() bool { return d.X > 0 && d.Y > 0 && d.Z > 0 }

// MaxCells bounds the number of sites a lattice may hold.
const MaxCells = 1 << 30

// Check returns ErrInvalidDimensions when any extent is not positive or the
// cell count exceeds MaxCells.
func (d Dims) Check() error {
	if !d.Valid() {
		return fmt.Errorf("%w: %dx%dx%d", ErrInvalidDimensions, d.X, d.Y, d.Z)
	}
	if d.X > MaxCells/d.Y || d.X*d.Y > MaxCells/d.Z {
		return fmt.Errorf("%w: %dx%dx%d exceeds %d cells", ErrInvalidDimensions, d.X, d.Y, d.Z, MaxCells)
	}
	return nil
}

// Contains reports whether (x, y, z) lies inside the lattice without wrapping.
func (d Dims) Contains(x, y, z int) bool {
	return x >= 0 && x < d.X && y >= 0 && y < d.Y && z >= 0 && z < d.Z
}

// Index returns the linear slice index for coordinates (x, y, z).
func (d Dims) Index(x, y, z int) int { return (x*d.Y+y)*d.Z + z }

// Coords decodes a linear index back into coordinates.
func (d Dims) Coords(i int) (int, int, int) {
	plane := d.Y * d.Z
	x := i / plane
	r := i % plane
	return x, r / d.Z, r % d.Z
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (d Dims) Wrap(x, y, z int) (int, int, int) {
	x = (x%d.X + d.X) % d.X
	y = (y%d.Y + d.Y) % d.Y
	z = (z%d.Z + d.Z) % d.Z
	return x, y, z
}

func (d Dims) String() string { return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z) }
