package ising

import (
	"strconv"

	"ising/internal/core"
)

// Config controls the lattice built by the registered "ising" model.
type Config struct {
	X, Y, Z int

	Temperature float64
	Interaction float64

	Seed int64
	Init string
}

// DefaultConfig returns the standard configuration: a 30^3 random lattice at
// T=10 with unit coupling.
func DefaultConfig() Config {
	return Config{
		X:           30,
		Y:           30,
		Z:           30,
		Temperature: 10,
		Interaction: 1,
		Seed:        42,
		Init:        InitRandom,
	}
}

// Dims returns the configured lattice extents.
func (c Config) Dims() core.Dims { return core.Dims{X: c.X, Y: c.Y, Z: c.Z} }

// FromMap populates the config from a string map (flag-style key/value pairs).
// Invalid entries keep their default, and extents whose cell count exceeds
// core.MaxCells fall back to the default extents.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["x"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.X = parsed
		}
	}
	if v, ok := cfg["y"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Y = parsed
		}
	}
	if v, ok := cfg["z"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Z = parsed
		}
	}
	if v, ok := cfg["temperature"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Temperature = parsed
		}
	}
	if v, ok := cfg["interaction"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Interaction = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["init"]; ok {
		switch v {
		case InitUp, InitDown, InitRandom, InitCheckerboard:
			c.Init = v
		}
	}
	if c.Dims().Check() != nil {
		def := DefaultConfig()
		c.X, c.Y, c.Z = def.X, def.Y, def.Z
	}
	return c
}

// Map renders c with the keys FromMap understands.
func (c Config) Map() map[string]string {
	return map[string]string{
		"x":           strconv.Itoa(c.X),
		"y":           strconv.Itoa(c.Y),
		"z":           strconv.Itoa(c.Z),
		"temperature": strconv.FormatFloat(c.Temperature, 'g', -1, 64),
		"interaction": strconv.FormatFloat(c.Interaction, 'g', -1, 64),
		"seed":        strconv.FormatInt(c.Seed, 10),
		"init":        c.Init,
	}
}
