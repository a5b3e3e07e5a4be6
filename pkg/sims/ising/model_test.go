package ising

import (
	"errors"
	"slices"
	"testing"

	"ising/internal/core"
)

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"x":           "4",
		"y":           "5",
		"z":           "-1",
		"temperature": "2.5",
		"interaction": "-1",
		"seed":        "9",
		"init":        "checkerboard",
	})
	if c.X != 4 || c.Y != 5 || c.Z != 30 {
		t.Fatalf("dims = %d,%d,%d", c.X, c.Y, c.Z)
	}
	if c.Temperature != 2.5 || c.Interaction != -1 || c.Seed != 9 || c.Init != InitCheckerboard {
		t.Fatalf("config = %+v", c)
	}
	if d := FromMap(map[string]string{"temperature": "0", "init": "spiral"}); d.Temperature != 10 || d.Init != InitRandom {
		t.Fatalf("invalid values must keep defaults, got %+v", d)
	}
	if d := FromMap(map[string]string{"x": "4194304", "y": "4194304", "z": "1048576"}); d.Dims() != DefaultConfig().Dims() {
		t.Fatalf("oversized extents kept: %v", d.Dims())
	}
	if FromMap(nil) != DefaultConfig() {
		t.Fatal("nil map must yield DefaultConfig")
	}
}

func TestRegisteredFactory(t *testing.T) {
	factory, ok := core.Lookup("ising")
	if !ok {
		t.Fatal("ising model not registered")
	}
	sim := factory(map[string]string{"x": "3", "y": "3", "z": "2"})
	if sim.Name() != "ising" || sim.Size() != (core.Dims{X: 3, Y: 3, Z: 2}) {
		t.Fatalf("sim %s size %v", sim.Name(), sim.Size())
	}
	if len(sim.Cells()) != 18 {
		t.Fatalf("cells = %d, want 18", len(sim.Cells()))
	}
}

func TestModelResetDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.X, cfg.Y, cfg.Z = 6, 5, 4
	cfg.Temperature = 3
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	m.Reset(0)
	for i := 0; i < 5; i++ {
		m.Step()
	}
	first := slices.Clone(m.Cells())
	if m.Steps() != 5 || m.LastStats().Trials != 120 {
		t.Fatalf("steps=%d trials=%d", m.Steps(), m.LastStats().Trials)
	}

	m.Reset(0)
	for i := 0; i < 5; i++ {
		m.Step()
	}
	if !slices.Equal(first, m.Cells()) {
		t.Fatal("Reset with config seed not deterministic")
	}

	m.Reset(777)
	seeded := slices.Clone(m.Cells())
	m.Reset(777)
	if !slices.Equal(seeded, m.Cells()) {
		t.Fatal("Reset with explicit seed not deterministic")
	}
}

func TestModelCellsEncoding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.X, cfg.Y, cfg.Z = 2, 2, 2
	cfg.Init = InitCheckerboard
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	for i, c := range m.Cells() {
		x, y, z := m.Size().Coords(i)
		want := uint8(0)
		if (x+y+z)%2 == 0 {
			want = 1
		}
		if c != want {
			t.Fatalf("cell %d = %d, want %d", i, c, want)
		}
	}
}

func TestModelParameters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.X, cfg.Y, cfg.Z = 2, 2, 2
	cfg.Init = InitUp
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if !m.SetFloatParameter("temperature", 4.5) {
		t.Fatal("temperature update rejected")
	}
	if m.SetFloatParameter("temperature", 0) {
		t.Fatal("zero temperature accepted")
	}
	if m.SetFloatParameter("unknown", 1) {
		t.Fatal("unknown key accepted")
	}
	snap := m.Parameters()
	p, ok := snap.Lookup("temperature")
	if !ok || p.Value != "4.5" {
		t.Fatalf("temperature param = %+v", p)
	}
	if p, ok := snap.Lookup("magnetization"); !ok || p.Value != "1" {
		t.Fatalf("magnetization param = %+v", p)
	}
	if len(m.ParameterControls()) != 2 {
		t.Fatal("expected temperature and interaction controls")
	}
}

func TestInitializerByName(t *testing.T) {
	for _, name := range []string{InitUp, InitDown, InitCheckerboard} {
		if _, err := InitializerByName(name, nil); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, err := InitializerByName(InitRandom, nil); err == nil {
		t.Fatal("random initializer without rng must fail")
	}
	if _, err := InitializerByName("spiral", nil); err == nil {
		t.Fatal("unknown initializer accepted")
	}
}

func TestNewModelFromLatticeKeepsContentsUntilReset(t *testing.T) {
	l, err := NewLattice(core.Dims{X: 2, Y: 2, Z: 2}, 3, 0.5, Uniform(Down))
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	m, err := NewModelFromLattice(l, 5, InitUp)
	if err != nil {
		t.Fatalf("NewModelFromLattice: %v", err)
	}
	if m.Magnetization() != -1 {
		t.Fatalf("expected loaded spins to survive, M=%g", m.Magnetization())
	}
	if m.Temperature() != 3 || m.Interaction() != 0.5 {
		t.Fatalf("expected T=3 J=0.5, got T=%g J=%g", m.Temperature(), m.Interaction())
	}
	m.Reset(0)
	if m.Magnetization() != 1 {
		t.Fatalf("expected reset to apply the up initializer, M=%g", m.Magnetization())
	}
	if _, err := NewModelFromLattice(l, 5, "spiral"); err == nil {
		t.Fatal("unknown initializer accepted")
	}
}

func TestConfigMapRoundTrip(t *testing.T) {
	c := Config{X: 2, Y: 3, Z: 4, Temperature: 1.5, Interaction: -0.5, Seed: 11, Init: InitDown}
	if got := FromMap(c.Map()); got != c {
		t.Fatalf("round trip = %+v, want %+v", got, c)
	}
}

func TestModelSurfacesStepAndResetFailures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.X, cfg.Y, cfg.Z = 2, 2, 2
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	m.lattice.temperature = 0
	m.Step()
	if !errors.Is(m.Err(), core.ErrInvalidTemperature) {
		t.Fatalf("Err after step = %v, want ErrInvalidTemperature", m.Err())
	}
	if m.Steps() != 0 {
		t.Fatalf("failed step counted: %d", m.Steps())
	}

	m.lattice.temperature = cfg.Temperature
	good := m.init
	m.init = func(int, int, int) Spin { return 0 }
	m.Reset(0)
	if !errors.Is(m.Err(), core.ErrInvalidSpin) {
		t.Fatalf("Err after reset = %v, want ErrInvalidSpin", m.Err())
	}

	m.init = good
	m.Reset(0)
	if m.Err() != nil {
		t.Fatalf("Err after clean reset = %v", m.Err())
	}
}
