package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ising/internal/config"
	"ising/internal/core"
	"ising/internal/logging"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "ising.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const smallConfig = `
seed: 3
lattice:
  x: 3
  y: 3
  z: 3
  temperature: 2
  init: checkerboard
sweep:
  n_max: 4
  simulations_per_temperature: 2
  temperatures: [1, 5]
logging:
  level: warn
`

func TestSweepCommandWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	db := filepath.Join(dir, "runs.db")

	out, err := execute(t, "sweep",
		"--log-level", "warn",
		"--size", "3,3,3",
		"--temps", "1,5",
		"--reps", "2",
		"--n-max", "4",
		"--out", outDir,
		"--db", db,
	)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1 "))
	assert.True(t, strings.HasPrefix(lines[2], "5 "))

	for _, name := range []string{"progression.csv", "curves.csv", "scatter_average.csv", "scatter_final.csv"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
	}

	listing, err := execute(t, "results", "list", "--db", db)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(listing), "\n")
	require.Len(t, rows, 2)
	runID := strings.Fields(rows[1])[0]

	shown, err := execute(t, "results", "show", runID, "--db", db, "--json")
	require.NoError(t, err)
	var payload struct {
		Curves []struct {
			Temperature float64 `json:"temperature"`
		} `json:"curves"`
		Scatter []json.RawMessage `json:"scatter"`
	}
	require.NoError(t, json.Unmarshal([]byte(shown), &payload))
	require.Len(t, payload.Curves, 2)
	assert.Equal(t, 1.0, payload.Curves[0].Temperature)
	assert.Len(t, payload.Scatter, 4)

	series, err := execute(t, "results", "show", runID, "--db", db, "--progression", "5")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(series), "\n"), 4)
}

func TestSweepRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "sweep", "--log-level", "warn", "--size", "3,3")
	require.Error(t, err)

	_, err = execute(t, "sweep", "--log-level", "warn", "--size", "2,2,2", "--temps", "1,-1", "--out", "")
	require.Error(t, err)
}

func TestParamsJSON(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), smallConfig)
	out, err := execute(t, "params", "--config", cfgPath, "--steps", "2", "--json")
	require.NoError(t, err)

	var snap map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "3", snap["Lattice"]["x"])
	assert.Equal(t, "checkerboard", snap["Lattice"]["init"])
	assert.Equal(t, "2", snap["Physics"]["temperature"])
	assert.Equal(t, "2", snap["State"]["steps"])
}

func TestLatticeSaveAndInfo(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, smallConfig)
	path := filepath.Join(dir, "start.txt.zst")

	out, err := execute(t, "lattice", "save", path, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	info, err := execute(t, "lattice", "info", path, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, info, "dims:          3x3x3")
	assert.Contains(t, info, "sites:         27")
	assert.Contains(t, info, "temperature:   2")
}

func TestRunSweepWithLiveServer(t *testing.T) {
	cfg := config.Default()
	cfg.Lattice.X, cfg.Lattice.Y, cfg.Lattice.Z = 2, 2, 2
	cfg.Sweep.NMax = 3
	cfg.Sweep.SimulationsPerTemperature = 1
	cfg.Sweep.Temperatures = []float64{2}
	cfg.Output.Dir = ""
	cfg.Output.Listen = "127.0.0.1:0"

	ctx := logging.WithLogger(context.Background(), logging.NewLogger("warn", io.Discard))
	res, err := runSweep(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, res.Temperatures, 1)
	assert.Contains(t, res.AvgByT, 2.0)
}

func TestRunSweepFromLatticeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "start.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 1 2 3 1\n1 -1\n"), 0o644))

	cfg := config.Default()
	cfg.Lattice.File = path
	cfg.Lattice.Init = "up"
	cfg.Sweep.NMax = 2
	cfg.Sweep.SimulationsPerTemperature = 1
	cfg.Sweep.Temperatures = []float64{1}
	cfg.Output.Dir = ""

	ctx := logging.WithLogger(context.Background(), logging.NewLogger("warn", io.Discard))
	res, err := runSweep(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, res.AverageScatter, 1)
}

func TestEnsembleCommand(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), smallConfig)
	out, err := execute(t, "ensemble", "--config", cfgPath, "--seeds", "3", "--workers", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1 "))
	assert.True(t, strings.HasPrefix(lines[2], "5 "))
}

func TestParamsOverridesThroughRegistry(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), smallConfig)
	out, err := execute(t, "params", "--config", cfgPath, "--set", "x=5,temperature=4.5", "--json")
	require.NoError(t, err)

	var snap map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "5", snap["Lattice"]["x"])
	assert.Equal(t, "3", snap["Lattice"]["z"])
	assert.Equal(t, "4.5", snap["Physics"]["temperature"])
	assert.Equal(t, "checkerboard", snap["Lattice"]["init"])
}

func TestParamsRejectsOversizedOverrides(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), smallConfig)
	_, err := execute(t, "params", "--config", cfgPath, "--set", "x=4194304,y=4194304,z=1048576")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidDimensions)
}

func TestSweepRejectsOversizedLattice(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), smallConfig)
	_, err := execute(t, "sweep", "--config", cfgPath, "--size", "4194304,4194304,1048576", "--no-graphs")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidDimensions)
}
