package ising

import (
	"fmt"

	pcore "ising/pkg/core"
)

// Initializer names accepted by InitializerByName.
const (
	InitUp           = "up"
	InitDown         = "down"
	InitRandom       = "random"
	InitCheckerboard = "checkerboard"
)

// Uniform returns an initializer that sets every site to s.
func Uniform(s Spin) Initializer {
	return func(int, int, int) Spin { return s }
}

// Checkerboard alternates spins by the parity of x+y+z.
func Checkerboard() Initializer {
	return func(x, y, z int) Spin {
		if (x+y+z)%2 == 0 {
			return Up
		}
		return Down
	}
}

// Random draws each spin uniformly from {Up, Down} using rng.
func Random(rng *pcore.RNG) Initializer {
	return func(int, int, int) Spin {
		return Spin(rng.Sign())
	}
}

// InitializerByName resolves one of the Init* names. rng is only used by the
// random initializer.
func InitializerByName(name string, rng *pcore.RNG) (Initializer, error) {
	switch name {
	case InitUp, "":
		return Uniform(Up), nil
	case InitDown:
		return Uniform(Down), nil
	case InitCheckerboard:
		return Checkerboard(), nil
	case InitRandom:
		if rng == nil {
			return nil, fmt.Errorf("random initializer requires an rng")
		}
		return Random(rng), nil
	default:
		return nil, fmt.Errorf("unknown initializer %q", name)
	}
}
