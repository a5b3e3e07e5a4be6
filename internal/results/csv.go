// Package results persists sweep output as CSV files or in a SQLite store.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"ising/pkg/sims/ising"
)

// CSV file names written by CSVSink.
const (
	ProgressionFile = "progression.csv"
	CurvesFile      = "curves.csv"
)

var (
	_ ising.Sink = (*CSVSink)(nil)
	_ ising.Sink = (*RunSink)(nil)
)

// ScatterFile returns the file name used for a scatter collection.
func ScatterFile(kind ising.ScatterKind) string {
	return "scatter_" + string(kind) + ".csv"
}

// CSVSink writes plot-ready CSV files into a directory. Progressions are
// appended as they arrive; curves and scatter files are rewritten on every
// call so they always hold the latest snapshot.
type CSVSink struct {
	dir string
}

// NewCSVSink creates dir and truncates any previous progression file.
func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &CSVSink{dir: dir}
	if err := s.rewrite(ProgressionFile, [][]string{{"temperature", "step", "magnetization"}}); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the output directory.
func (s *CSVSink) Dir() string { return s.dir }

func (s *CSVSink) RecordProgression(temperature float64, series []float64) error {
	f, err := os.OpenFile(filepath.Join(s.dir, ProgressionFile), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	t := formatFloat(temperature)
	for step, m := range series {
		if err := w.Write([]string{t, strconv.Itoa(step + 1), formatFloat(m)}); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *CSVSink) RecordCurves(avg, final map[float64]float64) error {
	temps := make([]float64, 0, len(avg))
	for t := range avg {
		temps = append(temps, t)
	}
	sort.Float64s(temps)
	rows := [][]string{{"temperature", "avg_magnetization", "final_magnetization"}}
	for _, t := range temps {
		rows = append(rows, []string{formatFloat(t), formatFloat(avg[t]), formatFloat(final[t])})
	}
	return s.rewrite(CurvesFile, rows)
}

func (s *CSVSink) RecordScatter(kind ising.ScatterKind, points []ising.Point) error {
	rows := [][]string{{"temperature", "magnetization"}}
	for _, p := range points {
		rows = append(rows, []string{formatFloat(p.Temperature), formatFloat(p.Magnetization)})
	}
	return s.rewrite(ScatterFile(kind), rows)
}

func (s *CSVSink) rewrite(name string, rows [][]string) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
