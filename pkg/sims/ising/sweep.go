package ising

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"time"

	"ising/internal/core"
	"ising/internal/logging"
)

// DefaultSimulationsPerTemperature is the repetition count used when a
// SweepConfig leaves it unset.
const DefaultSimulationsPerTemperature = 10

// SweepConfig controls the three nested loops of a temperature sweep.
type SweepConfig struct {
	// NMax is the number of steps per repetition.
	NMax int
	// SimulationsPerTemperature is the number of repetitions per temperature.
	// Zero selects DefaultSimulationsPerTemperature.
	SimulationsPerTemperature int
	// Temperatures are visited in order. Duplicates are allowed.
	Temperatures []float64
	// GenerateGraphs gates every call to the Sink.
	GenerateGraphs bool
}

func (c SweepConfig) repetitions() int {
	if c.SimulationsPerTemperature == 0 {
		return DefaultSimulationsPerTemperature
	}
	return c.SimulationsPerTemperature
}

// Validate checks the sweep preconditions.
func (c SweepConfig) Validate() error {
	if c.NMax <= 0 {
		return fmt.Errorf("%w: n_max must be positive, got %d", core.ErrInvalidSweep, c.NMax)
	}
	if c.SimulationsPerTemperature < 0 {
		return fmt.Errorf("%w: simulations_per_temperature must be positive, got %d", core.ErrInvalidSweep, c.SimulationsPerTemperature)
	}
	if len(c.Temperatures) == 0 {
		return core.ErrEmptySweep
	}
	for _, t := range c.Temperatures {
		if err := checkTemperature(t); err != nil {
			return err
		}
	}
	return nil
}

// TemperatureResult summarizes every repetition run at one temperature.
type TemperatureResult struct {
	Temperature float64 `json:"temperature"`
	// MeanAbsAverage is the mean of |repetition average| over repetitions.
	MeanAbsAverage float64 `json:"mean_abs_average"`
	// MeanAbsFinal is the mean of |repetition final| over repetitions.
	MeanAbsFinal float64 `json:"mean_abs_final"`
	// AcceptanceRatio is the fraction of accepted trials across the temperature.
	AcceptanceRatio float64 `json:"acceptance_ratio"`
}

// SweepResult is the terminal state of a sweep.
type SweepResult struct {
	AvgByT         map[float64]float64
	FinalByT       map[float64]float64
	AverageScatter []Point
	FinalScatter   []Point
	// Temperatures holds one entry per visited temperature, in visit order,
	// including duplicates that collapse in the maps.
	Temperatures []TemperatureResult
}

// Sweeper drives a temperature sweep over a single lattice.
type Sweeper struct {
	Lattice *Lattice
	Stepper *Stepper
	// Init is reapplied at the start of every repetition. Nil means all Up.
	Init Initializer
	// Sink receives presentation data when GenerateGraphs is set. Nil discards.
	Sink Sink
	// Observer, when set, is invoked after every step.
	Observer StepObserver
}

// Run executes the sweep. Precondition violations are reported before any
// lattice state changes. The context is checked between steps.
func (s *Sweeper) Run(ctx context.Context, cfg SweepConfig) (*SweepResult, error) {
	if s.Lattice == nil || s.Stepper == nil {
		return nil, errors.New("sweeper requires a lattice and a stepper")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sink := s.Sink
	if sink == nil || !cfg.GenerateGraphs {
		sink = NopSink{}
	}
	logger := logging.FromContext(ctx)

	res := &SweepResult{
		AvgByT:   make(map[float64]float64, len(cfg.Temperatures)),
		FinalByT: make(map[float64]float64, len(cfg.Temperatures)),
	}
	reps := cfg.repetitions()

	for _, t := range cfg.Temperatures {
		start := time.Now()
		if err := s.Lattice.SetTemperature(t); err != nil {
			return nil, &SweepError{Temperature: t, Repetition: -1, Step: -1, Err: err}
		}

		var sumAbsAvg, sumAbsFinal float64
		var trials, accepted int
		for rep := 0; rep < reps; rep++ {
			series, stats, err := s.repetition(ctx, t, rep, cfg.NMax)
			if err != nil {
				return nil, err
			}
			trials += stats.Trials
			accepted += stats.Accepted

			avg := mean(series)
			final := series[len(series)-1]
			res.AverageScatter = append(res.AverageScatter, Point{Temperature: t, Magnetization: avg})
			res.FinalScatter = append(res.FinalScatter, Point{Temperature: t, Magnetization: final})
			sumAbsAvg += math.Abs(avg)
			sumAbsFinal += math.Abs(final)

			logger.Debug("repetition finished", "temperature", t, "repetition", rep, "average", avg, "final", final)

			if rep == 0 {
				if err := sink.RecordProgression(t, series); err != nil {
					return nil, &SweepError{Temperature: t, Repetition: rep, Step: -1, Err: err}
				}
			}
		}

		row := TemperatureResult{
			Temperature:     t,
			MeanAbsAverage:  sumAbsAvg / float64(reps),
			MeanAbsFinal:    sumAbsFinal / float64(reps),
			AcceptanceRatio: StepStats{Trials: trials, Accepted: accepted}.AcceptanceRatio(),
		}
		res.Temperatures = append(res.Temperatures, row)
		res.AvgByT[t] = row.MeanAbsAverage
		res.FinalByT[t] = row.MeanAbsFinal

		logger.Info("temperature finished",
			slog.Float64("temperature", t),
			slog.Float64("avg_magnetization", row.MeanAbsAverage),
			slog.Float64("final_magnetization", row.MeanAbsFinal),
			slog.Float64("acceptance", row.AcceptanceRatio),
			slog.Duration("elapsed", time.Since(start)),
		)

		if err := sink.RecordCurves(maps.Clone(res.AvgByT), maps.Clone(res.FinalByT)); err != nil {
			return nil, &SweepError{Temperature: t, Repetition: -1, Step: -1, Err: err}
		}
	}

	if err := sink.RecordScatter(ScatterAverage, res.AverageScatter); err != nil {
		return nil, fmt.Errorf("record %s scatter: %w", ScatterAverage, err)
	}
	if err := sink.RecordScatter(ScatterFinal, res.FinalScatter); err != nil {
		return nil, fmt.Errorf("record %s scatter: %w", ScatterFinal, err)
	}
	return res, nil
}

// repetition reinitializes the lattice and runs nMax steps, returning the
// magnetization read after each step.
func (s *Sweeper) repetition(ctx context.Context, t float64, rep, nMax int) ([]float64, StepStats, error) {
	if err := s.Lattice.Reinitialize(s.Init); err != nil {
		return nil, StepStats{}, &SweepError{Temperature: t, Repetition: rep, Step: -1, Err: err}
	}
	series := make([]float64, nMax)
	var total StepStats
	for step := 0; step < nMax; step++ {
		if err := ctx.Err(); err != nil {
			return nil, total, &SweepError{Temperature: t, Repetition: rep, Step: step, Err: err}
		}
		stats, err := s.Stepper.Step(s.Lattice)
		if err != nil {
			return nil, total, &SweepError{Temperature: t, Repetition: rep, Step: step, Err: err}
		}
		total.Trials += stats.Trials
		total.Accepted += stats.Accepted
		series[step] = s.Lattice.Magnetization()
		if s.Observer != nil {
			s.Observer.AfterStep(s.Lattice, step, stats)
		}
	}
	return series, total, nil
}

// SweepError reports where in a sweep a failure happened.
type SweepError = core.SweepError

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
