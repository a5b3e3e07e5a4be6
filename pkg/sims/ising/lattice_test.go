package ising

import (
	"errors"
	"testing"

	"ising/internal/core"
)

func mustLattice(t *testing.T, x, y, z int, init Initializer) *Lattice {
	t.Helper()
	l, err := NewLattice(core.Dims{X: x, Y: y, Z: z}, 1, 1, init)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	return l
}

func TestLinearIndexMatchesCoordinates(t *testing.T) {
	// Encode the coordinate into the spin pattern so mismatches are visible.
	init := func(x, y, z int) Spin {
		if (x*7+y*3+z)%2 == 0 {
			return Up
		}
		return Down
	}
	l := mustLattice(t, 3, 4, 5, init)
	d := l.Dims()
	for x := 0; x < d.X; x++ {
		for y := 0; y < d.Y; y++ {
			for z := 0; z < d.Z; z++ {
				byCoord, err := l.At(x, y, z)
				if err != nil {
					t.Fatalf("At(%d,%d,%d): %v", x, y, z, err)
				}
				byIndex, err := l.AtIndex(x*d.Y*d.Z + y*d.Z + z)
				if err != nil {
					t.Fatalf("AtIndex: %v", err)
				}
				if byCoord != byIndex || byCoord != init(x, y, z) {
					t.Fatalf("(%d,%d,%d): At=%d AtIndex=%d init=%d", x, y, z, byCoord, byIndex, init(x, y, z))
				}
			}
		}
	}
}

func TestSetIndexVisibleThroughAt(t *testing.T) {
	l := mustLattice(t, 2, 3, 4, nil)
	// index 17 -> x=1, r=5, y=1, z=1
	if err := l.SetIndex(17, Down); err != nil {
		t.Fatalf("SetIndex: %v", err)
	}
	s, err := l.At(1, 1, 1)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if s != Down {
		t.Fatalf("At(1,1,1) = %d, want Down", s)
	}
}

func TestMagnetizationHandBuilt(t *testing.T) {
	if m := mustLattice(t, 2, 2, 2, Uniform(Up)).Magnetization(); m != 1.0 {
		t.Fatalf("all up magnetization = %v, want 1", m)
	}
	if m := mustLattice(t, 2, 2, 2, Uniform(Down)).Magnetization(); m != -1.0 {
		t.Fatalf("all down magnetization = %v, want -1", m)
	}
	if m := mustLattice(t, 2, 2, 2, Checkerboard()).Magnetization(); m != 0.0 {
		t.Fatalf("checkerboard magnetization = %v, want 0", m)
	}
	half := func(x, y, z int) Spin {
		if x == 0 {
			return Up
		}
		return Down
	}
	if m := mustLattice(t, 2, 2, 2, half).Magnetization(); m != 0.0 {
		t.Fatalf("half/half magnetization = %v, want 0", m)
	}
}

func TestMagnetizationSingleFlip(t *testing.T) {
	l := mustLattice(t, 2, 2, 2, Uniform(Up))
	if err := l.Set(0, 1, 1, Down); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, want := l.Magnetization(), 6.0/8.0; got != want {
		t.Fatalf("magnetization = %v, want %v", got, want)
	}
}

func TestOutOfRange(t *testing.T) {
	l := mustLattice(t, 2, 3, 4, nil)
	coords := [][3]int{{-1, 0, 0}, {2, 0, 0}, {0, 3, 0}, {0, 0, 4}, {0, -1, 0}}
	for _, c := range coords {
		if _, err := l.At(c[0], c[1], c[2]); !errors.Is(err, core.ErrIndexOutOfRange) {
			t.Fatalf("At(%v) err = %v, want ErrIndexOutOfRange", c, err)
		}
		if err := l.Set(c[0], c[1], c[2], Up); !errors.Is(err, core.ErrIndexOutOfRange) {
			t.Fatalf("Set(%v) err = %v, want ErrIndexOutOfRange", c, err)
		}
	}
	for _, i := range []int{-1, 24, 100} {
		if _, err := l.AtIndex(i); !errors.Is(err, core.ErrIndexOutOfRange) {
			t.Fatalf("AtIndex(%d) err = %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestSetRejectsInvalidSpin(t *testing.T) {
	l := mustLattice(t, 2, 2, 2, nil)
	for _, s := range []Spin{0, 2, -2} {
		if err := l.Set(0, 0, 0, s); !errors.Is(err, core.ErrInvalidSpin) {
			t.Fatalf("Set(%d) err = %v, want ErrInvalidSpin", s, err)
		}
	}
	if s, _ := l.At(0, 0, 0); s != Up {
		t.Fatalf("rejected write changed the site to %d", s)
	}
}

func TestNewLatticePreconditions(t *testing.T) {
	if _, err := NewLattice(core.Dims{X: 0, Y: 2, Z: 2}, 1, 1, nil); !errors.Is(err, core.ErrInvalidDimensions) {
		t.Fatalf("zero dimension err = %v", err)
	}
	for _, temp := range []float64{0, -1} {
		if _, err := NewLattice(core.Dims{X: 2, Y: 2, Z: 2}, temp, 1, nil); !errors.Is(err, core.ErrInvalidTemperature) {
			t.Fatalf("T=%v err = %v, want ErrInvalidTemperature", temp, err)
		}
	}
	bad := func(int, int, int) Spin { return 0 }
	if _, err := NewLattice(core.Dims{X: 2, Y: 2, Z: 2}, 1, 1, bad); !errors.Is(err, core.ErrInvalidSpin) {
		t.Fatalf("bad initializer err = %v, want ErrInvalidSpin", err)
	}
}

func TestReinitializeKeepsDimensions(t *testing.T) {
	l := mustLattice(t, 3, 2, 4, Uniform(Up))
	spins := l.Spins()
	if err := l.Reinitialize(Uniform(Down)); err != nil {
		t.Fatalf("Reinitialize: %v", err)
	}
	if l.Dims() != (core.Dims{X: 3, Y: 2, Z: 4}) || l.Len() != 24 {
		t.Fatalf("dimensions changed to %v", l.Dims())
	}
	if &spins[0] != &l.Spins()[0] {
		t.Fatal("Reinitialize reallocated the spin storage")
	}
	if l.Magnetization() != -1 {
		t.Fatalf("magnetization = %v after reinitializing down", l.Magnetization())
	}
}

func TestReinitializeInvalidSpinKeepsInvariant(t *testing.T) {
	l := mustLattice(t, 2, 2, 2, Uniform(Up))
	calls := 0
	bad := func(int, int, int) Spin {
		calls++
		if calls == 3 {
			return 5
		}
		return Down
	}
	if err := l.Reinitialize(bad); !errors.Is(err, core.ErrInvalidSpin) {
		t.Fatalf("err = %v, want ErrInvalidSpin", err)
	}
	for i, s := range l.Spins() {
		if !s.Valid() {
			t.Fatalf("site %d holds %d", i, s)
		}
	}
}

func TestSetTemperature(t *testing.T) {
	l := mustLattice(t, 2, 2, 2, nil)
	if err := l.SetTemperature(2.5); err != nil || l.Temperature() != 2.5 {
		t.Fatalf("SetTemperature(2.5) = %v, T=%v", err, l.Temperature())
	}
	if err := l.SetTemperature(0); !errors.Is(err, core.ErrInvalidTemperature) {
		t.Fatalf("SetTemperature(0) err = %v", err)
	}
	if l.Temperature() != 2.5 {
		t.Fatalf("rejected temperature overwrote T=%v", l.Temperature())
	}
}
