package ising

import "math"

// Source is the randomness a Stepper draws from. *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// StepStats reports how many of a step's trials flipped a spin.
type StepStats struct {
	Trials   int
	Accepted int
}

// AcceptanceRatio returns Accepted/Trials, or 0 for an empty step.
func (s StepStats) AcceptanceRatio() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Trials)
}

// Stepper advances a lattice with single-site Metropolis trials. Sites are
// drawn uniformly with replacement, so a step does not necessarily visit every
// site.
type Stepper struct {
	rng Source
}

// NewStepper returns a Stepper drawing from rng.
func NewStepper(rng Source) *Stepper {
	return &Stepper{rng: rng}
}

// Step performs exactly N trials on l, mutating it in place.
func (s *Stepper) Step(l *Lattice) (StepStats, error) {
	if err := checkTemperature(l.temperature); err != nil {
		return StepStats{}, err
	}
	n := l.Len()
	stats := StepStats{Trials: n}
	for i := 0; i < n; i++ {
		if s.trial(l) {
			stats.Accepted++
		}
	}
	return stats, nil
}

// Trial performs a single trial and reports whether the chosen spin flipped.
func (s *Stepper) Trial(l *Lattice) (bool, error) {
	if err := checkTemperature(l.temperature); err != nil {
		return false, err
	}
	return s.trial(l), nil
}

func (s *Stepper) trial(l *Lattice) bool {
	d := l.dims
	x := s.rng.IntN(d.X)
	y := s.rng.IntN(d.Y)
	z := s.rng.IntN(d.Z)

	hOld := l.localEnergy(x, y, z)
	hNew := -hOld
	deltaH := hNew - hOld

	if deltaH > 0 && s.rng.Float64() >= AcceptanceProbability(deltaH, l.temperature) {
		return false
	}
	l.flip(d.Index(x, y, z))
	return true
}

// AcceptanceProbability returns the Metropolis acceptance probability for an
// energy change deltaH at temperature t: 1 when deltaH <= 0, exp(-deltaH/t)
// otherwise. t must be positive.
func AcceptanceProbability(deltaH, t float64) float64 {
	if deltaH <= 0 {
		return 1
	}
	return math.Exp(-deltaH / t)
}
