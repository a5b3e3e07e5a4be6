package ising

import (
	"fmt"

	"ising/internal/core"
)

// Spin is the state of one lattice site.
type Spin int8

const (
	// Down is the -1 spin state.
	Down Spin = -1
	// Up is the +1 spin state.
	Up Spin = 1
)

// Valid reports whether s is +1 or -1.
func (s Spin) Valid() bool { return s == Up || s == Down }

// Initializer maps a coordinate to its starting spin. It is invoked once per
// site on construction and on every Reinitialize, and must return Up or Down.
type Initializer func(x, y, z int) Spin

// Lattice stores the spins of a 3D Ising model along with its temperature and
// coupling. Every stored spin is Up or Down at all times and the dimensions
// never change after construction.
type Lattice struct {
	dims  core.Dims
	spins []Spin

	temperature float64
	interaction float64
}

// NewLattice allocates a lattice and fills it using init. A nil init fills
// every site with Up.
func NewLattice(dims core.Dims, temperature, interaction float64, init Initializer) (*Lattice, error) {
	if err := dims.Check(); err != nil {
		return nil, err
	}
	if err := checkTemperature(temperature); err != nil {
		return nil, err
	}
	l := &Lattice{
		dims:        dims,
		spins:       make([]Spin, dims.Len()),
		temperature: temperature,
		interaction: interaction,
	}
	if err := l.Reinitialize(init); err != nil {
		return nil, err
	}
	return l, nil
}

// Dims returns the lattice extents.
func (l *Lattice) Dims() core.Dims { return l.dims }

// Len returns the number of sites N.
func (l *Lattice) Len() int { return len(l.spins) }

// Temperature returns the current temperature.
func (l *Lattice) Temperature() float64 { return l.temperature }

// SetTemperature changes the temperature used by the acceptance rule.
func (l *Lattice) SetTemperature(t float64) error {
	if err := checkTemperature(t); err != nil {
		return err
	}
	l.temperature = t
	return nil
}

// Interaction returns the coupling J. Positive J favors aligned neighbors.
func (l *Lattice) Interaction() float64 { return l.interaction }

// SetInteraction changes the coupling J.
func (l *Lattice) SetInteraction(j float64) { l.interaction = j }

// At returns the spin at (x, y, z). Coordinates are not wrapped.
func (l *Lattice) At(x, y, z int) (Spin, error) {
	if !l.dims.Contains(x, y, z) {
		return 0, fmt.Errorf("%w: (%d,%d,%d) in %s", core.ErrIndexOutOfRange, x, y, z, l.dims)
	}
	return l.spins[l.dims.Index(x, y, z)], nil
}

// AtIndex returns the spin at linear index i.
func (l *Lattice) AtIndex(i int) (Spin, error) {
	if i < 0 || i >= len(l.spins) {
		return 0, fmt.Errorf("%w: index %d not in [0,%d)", core.ErrIndexOutOfRange, i, len(l.spins))
	}
	return l.spins[i], nil
}

// Set stores s at (x, y, z). Both the coordinates and the spin are validated.
func (l *Lattice) Set(x, y, z int, s Spin) error {
	if !l.dims.Contains(x, y, z) {
		return fmt.Errorf("%w: (%d,%d,%d) in %s", core.ErrIndexOutOfRange, x, y, z, l.dims)
	}
	return l.SetIndex(l.dims.Index(x, y, z), s)
}

// SetIndex stores s at linear index i.
func (l *Lattice) SetIndex(i int, s Spin) error {
	if i < 0 || i >= len(l.spins) {
		return fmt.Errorf("%w: index %d not in [0,%d)", core.ErrIndexOutOfRange, i, len(l.spins))
	}
	if !s.Valid() {
		return fmt.Errorf("%w: got %d", core.ErrInvalidSpin, s)
	}
	l.spins[i] = s
	return nil
}

// Magnetization returns the mean spin over the whole lattice, in [-1, 1].
func (l *Lattice) Magnetization() float64 {
	sum := 0
	for _, s := range l.spins {
		sum += int(s)
	}
	return float64(sum) / float64(len(l.spins))
}

// Reinitialize overwrites every site with the value init returns for it. If
// init produces an invalid spin the remaining sites are left untouched and
// ErrInvalidSpin is returned.
func (l *Lattice) Reinitialize(init Initializer) error {
	if init == nil {
		init = Uniform(Up)
	}
	i := 0
	for x := 0; x < l.dims.X; x++ {
		for y := 0; y < l.dims.Y; y++ {
			for z := 0; z < l.dims.Z; z++ {
				s := init(x, y, z)
				if !s.Valid() {
					return fmt.Errorf("%w: initializer returned %d at (%d,%d,%d)", core.ErrInvalidSpin, s, x, y, z)
				}
				l.spins[i] = s
				i++
			}
		}
	}
	return nil
}

// Spins exposes the backing slice in linear order. Callers must only store Up
// or Down.
func (l *Lattice) Spins() []Spin { return l.spins }

func (l *Lattice) flip(i int) { l.spins[i] = -l.spins[i] }

func checkTemperature(t float64) error {
	if !(t > 0) {
		return fmt.Errorf("%w: got %g", core.ErrInvalidTemperature, t)
	}
	return nil
}
