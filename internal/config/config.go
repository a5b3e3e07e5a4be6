// Package config loads sweep configuration from YAML files and the
// environment. Files are validated against an embedded JSON schema before
// they are decoded, and omitted keys keep their defaults.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"ising/pkg/sims/ising"
)

//go:embed schema.json
var schemaJSON []byte

// Config contains every setting of a sweep run.
type Config struct {
	// Seed drives the single random source of the run.
	Seed int64 `json:"seed" yaml:"seed"`

	Lattice LatticeConfig `json:"lattice" yaml:"lattice"`
	Sweep   SweepConfig   `json:"sweep" yaml:"sweep"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LatticeConfig describes the lattice to build, or the file to load it from.
type LatticeConfig struct {
	X           int     `json:"x" yaml:"x"`
	Y           int     `json:"y" yaml:"y"`
	Z           int     `json:"z" yaml:"z"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Interaction float64 `json:"interaction" yaml:"interaction"`

	// Init names the initializer reapplied at every repetition.
	Init string `json:"init" yaml:"init"`

	// File, when set, loads the starting lattice (dimensions, T, J and spins)
	// instead of building one. Repetitions still reinitialize with Init.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// SweepConfig mirrors ising.SweepConfig.
type SweepConfig struct {
	NMax                      int       `json:"n_max" yaml:"n_max"`
	SimulationsPerTemperature int       `json:"simulations_per_temperature" yaml:"simulations_per_temperature"`
	Temperatures              []float64 `json:"temperatures" yaml:"temperatures"`
	GenerateGraphs            bool      `json:"generate_graphs" yaml:"generate_graphs"`
}

// OutputConfig selects where results go. Empty values disable an output.
type OutputConfig struct {
	// Dir receives plot-ready CSV files.
	Dir string `json:"dir" yaml:"dir"`
	// Database is a SQLite file collecting every run.
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
	// Listen serves metrics and a live websocket stream while sweeping.
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty"`
}

// LoggingConfig configures the operational logger.
type LoggingConfig struct {
	// Level is one of "warn", "info", "debug" or "trace".
	Level string `json:"level" yaml:"level"`
}

// Default returns the configuration of the reference run: a random 30^3
// lattice with unit coupling swept over T = 1, 2, 4, 6, 8.
func Default() *Config {
	return &Config{
		Seed: 42,
		Lattice: LatticeConfig{
			X:           30,
			Y:           30,
			Z:           30,
			Temperature: 10,
			Interaction: 1,
			Init:        ising.InitRandom,
		},
		Sweep: SweepConfig{
			NMax:                      400,
			SimulationsPerTemperature: ising.DefaultSimulationsPerTemperature,
			Temperatures:              []float64{1, 2, 4, 6, 8},
			GenerateGraphs:            true,
		},
		Output: OutputConfig{
			Dir: "out",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of Default and applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Parse validates and decodes a YAML document on top of Default.
func Parse(data []byte) (*Config, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	// Decode into a fresh slice so a file's temperatures replace the defaults
	// instead of being merged index by index.
	cfg.Sweep.Temperatures = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Sweep.Temperatures == nil {
		cfg.Sweep.Temperatures = Default().Sweep.Temperatures
	}
	return cfg, nil
}

// ApplyEnv overrides values from ISING_LOG_LEVEL, ISING_DATABASE and
// ISING_LISTEN when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ISING_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ISING_DATABASE"); v != "" {
		c.Output.Database = v
	}
	if v := os.Getenv("ISING_LISTEN"); v != "" {
		c.Output.Listen = v
	}
}

// Model returns the lattice settings as an ising.Config.
func (c *Config) Model() ising.Config {
	return ising.Config{
		X:           c.Lattice.X,
		Y:           c.Lattice.Y,
		Z:           c.Lattice.Z,
		Temperature: c.Lattice.Temperature,
		Interaction: c.Lattice.Interaction,
		Seed:        c.Seed,
		Init:        c.Lattice.Init,
	}
}

// SweepSettings returns the sweep settings as an ising.SweepConfig.
func (c *Config) SweepSettings() ising.SweepConfig {
	return ising.SweepConfig{
		NMax:                      c.Sweep.NMax,
		SimulationsPerTemperature: c.Sweep.SimulationsPerTemperature,
		Temperatures:              append([]float64(nil), c.Sweep.Temperatures...),
		GenerateGraphs:            c.Sweep.GenerateGraphs,
	}
}

// Validate checks the settings that must hold before a sweep starts.
func (c *Config) Validate() error {
	if err := c.Model().Dims().Check(); err != nil && c.Lattice.File == "" {
		return err
	}
	return c.SweepSettings().Validate()
}

func validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile("schema.json")
}
