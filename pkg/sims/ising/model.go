package ising

import (
	"fmt"
	"log/slog"

	"ising/internal/core"
	pcore "ising/pkg/core"
)

// Model couples a lattice with its stepper and seeded randomness so it can be
// driven one step at a time by the viewer.
type Model struct {
	cfg     Config
	lattice *Lattice
	stepper *Stepper
	rng     *pcore.RNG
	init    Initializer

	steps    int
	last     StepStats
	observer StepObserver
	cells    []uint8
	err      error
}

// NewModel builds a model from cfg.
func NewModel(cfg Config) (*Model, error) {
	m := &Model{cfg: cfg, rng: pcore.NewRNG(cfg.Seed)}
	init, err := InitializerByName(cfg.Init, m.rng)
	if err != nil {
		return nil, err
	}
	l, err := NewLattice(cfg.Dims(), cfg.Temperature, cfg.Interaction, init)
	if err != nil {
		return nil, err
	}
	m.lattice = l
	m.init = init
	m.stepper = NewStepper(m.rng.Source())
	m.cells = make([]uint8, l.Len())
	return m, nil
}

// NewModelFromLattice wraps an existing lattice, for example one read from disk.
// Reset restores the lattice with the named initializer rather than the
// loaded contents.
func NewModelFromLattice(l *Lattice, seed int64, initName string) (*Model, error) {
	rng := pcore.NewRNG(seed)
	init, err := InitializerByName(initName, rng)
	if err != nil {
		return nil, err
	}
	d := l.Dims()
	return &Model{
		cfg: Config{
			X: d.X, Y: d.Y, Z: d.Z,
			Temperature: l.Temperature(),
			Interaction: l.Interaction(),
			Seed:        seed,
			Init:        initName,
		},
		lattice: l,
		stepper: NewStepper(rng.Source()),
		rng:     rng,
		init:    init,
		cells:   make([]uint8, l.Len()),
	}, nil
}

// Name returns the simulation identifier.
func (m *Model) Name() string { return "ising" }

// Size returns the lattice extents.
func (m *Model) Size() core.Dims { return m.lattice.Dims() }

// Lattice exposes the underlying lattice.
func (m *Model) Lattice() *Lattice { return m.lattice }

// Steps returns the number of steps taken since the last Reset.
func (m *Model) Steps() int { return m.steps }

// LastStats returns the statistics of the most recent step.
func (m *Model) LastStats() StepStats { return m.last }

// Magnetization returns the mean spin of the lattice.
func (m *Model) Magnetization() float64 { return m.lattice.Magnetization() }

// AcceptanceRatio returns the accepted share of the most recent step's trials.
func (m *Model) AcceptanceRatio() float64 { return m.last.AcceptanceRatio() }

// Temperature returns the lattice temperature.
func (m *Model) Temperature() float64 { return m.lattice.Temperature() }

// Interaction returns the coupling constant J.
func (m *Model) Interaction() float64 { return m.lattice.Interaction() }

// Observe installs an observer invoked after every Step.
func (m *Model) Observe(o StepObserver) { m.observer = o }

// Reset reseeds the randomness and reinitializes the lattice. A zero seed
// keeps the configured seed.
func (m *Model) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = m.cfg.Seed
	}
	m.rng.Seed(effective)
	m.steps = 0
	m.last = StepStats{}
	m.err = nil
	// A misbehaving initializer leaves the remaining sites as they were.
	if err := m.lattice.Reinitialize(m.init); err != nil {
		m.fail("reset", err)
	}
}

// Step advances the lattice by one Metropolis step. A failed step leaves the
// lattice untouched and is reported by Err.
func (m *Model) Step() {
	stats, err := m.stepper.Step(m.lattice)
	if err != nil {
		m.fail("step", err)
		return
	}
	m.last = stats
	if m.observer != nil {
		m.observer.AfterStep(m.lattice, m.steps, stats)
	}
	m.steps++
}

// Err returns the most recent Reset or Step failure, cleared by Reset.
func (m *Model) Err() error { return m.err }

func (m *Model) fail(op string, err error) {
	if m.err == nil {
		slog.Warn("ising model "+op+" failed", "error", err, "steps", m.steps)
	}
	m.err = fmt.Errorf("%s: %w", op, err)
}

// Cells renders the lattice as 1 for Up and 0 for Down in linear order.
func (m *Model) Cells() []uint8 {
	for i, s := range m.lattice.Spins() {
		if s == Up {
			m.cells[i] = 1
		} else {
			m.cells[i] = 0
		}
	}
	return m.cells
}

// SetFloatParameter updates the temperature or interaction from the HUD.
func (m *Model) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "temperature":
		if err := m.lattice.SetTemperature(value); err != nil {
			return false
		}
		m.cfg.Temperature = value
		return true
	case "interaction":
		m.lattice.SetInteraction(value)
		m.cfg.Interaction = value
		return true
	}
	return false
}

// ParameterControls lists the HUD-adjustable values.
func (m *Model) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "temperature", Label: "Temperature", Type: core.ParamTypeFloat, Step: 0.25, Min: 0.25, HasMin: true},
		{Key: "interaction", Label: "Interaction J", Type: core.ParamTypeFloat, Step: 0.1},
	}
}

func (m *Model) String() string {
	return fmt.Sprintf("ising %s T=%g J=%g", m.lattice.Dims(), m.lattice.Temperature(), m.lattice.Interaction())
}

func init() {
	core.Register("ising", func(cfg map[string]string) core.Sim {
		m, err := NewModel(FromMap(cfg))
		if err != nil {
			// FromMap only yields bounded extents and positive temperatures.
			panic(err)
		}
		return m
	})
}
