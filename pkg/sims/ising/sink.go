package ising

// Point is one (temperature, magnetization) sample of a scatter collection.
type Point struct {
	Temperature   float64 `json:"temperature"`
	Magnetization float64 `json:"magnetization"`
}

// ScatterKind names one of the two scatter collections gathered by a sweep.
type ScatterKind string

const (
	// ScatterAverage holds the mean magnetization of every repetition.
	ScatterAverage ScatterKind = "average"
	// ScatterFinal holds the last magnetization of every repetition.
	ScatterFinal ScatterKind = "final"
)

// Sink receives the presentation data produced by a sweep. Implementations
// must not retain the slices or maps they are given beyond the call unless
// they copy them.
type Sink interface {
	// RecordProgression receives the per-step magnetization of the first
	// repetition at a temperature.
	RecordProgression(temperature float64, series []float64) error
	// RecordCurves receives the running temperature -> mean |magnetization|
	// mappings after every temperature.
	RecordCurves(avg, final map[float64]float64) error
	// RecordScatter receives a whole-sweep point collection once the sweep ends.
	RecordScatter(kind ScatterKind, points []Point) error
}

// StepObserver is invoked after every step of a sweep.
type StepObserver interface {
	AfterStep(l *Lattice, step int, stats StepStats)
}

// StepObserverFunc adapts a function to StepObserver.
type StepObserverFunc func(l *Lattice, step int, stats StepStats)

// AfterStep calls f.
func (f StepObserverFunc) AfterStep(l *Lattice, step int, stats StepStats) { f(l, step, stats) }

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordProgression(float64, []float64) error                  { return nil }
func (NopSink) RecordCurves(map[float64]float64, map[float64]float64) error { return nil }
func (NopSink) RecordScatter(ScatterKind, []Point) error                    { return nil }

// MultiSink fans every record out to each sink in order and stops at the
// first error.
type MultiSink []Sink

func (m MultiSink) RecordProgression(temperature float64, series []float64) error {
	for _, s := range m {
		if err := s.RecordProgression(temperature, series); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) RecordCurves(avg, final map[float64]float64) error {
	for _, s := range m {
		if err := s.RecordCurves(avg, final); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) RecordScatter(kind ScatterKind, points []Point) error {
	for _, s := range m {
		if err := s.RecordScatter(kind, points); err != nil {
			return err
		}
	}
	return nil
}

// MultiObserver calls each observer in order.
type MultiObserver []StepObserver

func (m MultiObserver) AfterStep(l *Lattice, step int, stats StepStats) {
	for _, o := range m {
		o.AfterStep(l, step, stats)
	}
}
