// Package ensemble repeats a temperature sweep over independent seeds on a
// pool of workers. Every member owns its lattice and random source, so a
// member's result depends only on its seed.
package ensemble

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	pcore "ising/pkg/core"
	"ising/pkg/sims/ising"
)

// Plan describes the sweep every member runs.
type Plan struct {
	Model ising.Config
	Sweep ising.SweepConfig
}

// Member is the outcome of one seed.
type Member struct {
	Seed   int64
	Result *ising.SweepResult
}

// Stat summarizes one temperature across members.
type Stat struct {
	Temperature float64
	AvgMean     float64
	AvgStdDev   float64
	FinalMean   float64
	FinalStdDev float64
}

// Run sweeps every seed with at most workers concurrent members. Members are
// returned in seed order. The first failure cancels the remaining members.
func Run(ctx context.Context, plan Plan, seeds []int64, workers int) ([]Member, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("ensemble needs at least one seed")
	}
	if err := plan.Model.Dims().Check(); err != nil {
		return nil, err
	}
	if err := plan.Sweep.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(seeds))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		idx    int
		member Member
		err    error
	}

	jobs := make(chan int)
	results := make(chan outcome)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				seed := seeds[idx]
				res, err := runMember(ctx, plan, seed)
				results <- outcome{idx: idx, member: Member{Seed: seed, Result: res}, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for idx := range seeds {
			select {
			case jobs <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	members := make([]Member, len(seeds))
	var firstErr error
	for out := range results {
		if out.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("seed %d: %w", out.member.Seed, out.err)
				cancel()
			}
			continue
		}
		members[out.idx] = out.member
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func runMember(ctx context.Context, plan Plan, seed int64) (*ising.SweepResult, error) {
	rng := pcore.NewRNG(seed)
	init, err := ising.InitializerByName(plan.Model.Init, rng)
	if err != nil {
		return nil, err
	}
	l, err := ising.NewLattice(plan.Model.Dims(), plan.Model.Temperature, plan.Model.Interaction, init)
	if err != nil {
		return nil, err
	}
	sw := &ising.Sweeper{
		Lattice: l,
		Stepper: ising.NewStepper(rng.Source()),
		Init:    init,
	}
	cfg := plan.Sweep
	cfg.GenerateGraphs = false
	return sw.Run(ctx, cfg)
}

// Summarize reports the mean and population standard deviation of each
// member's per-temperature magnetization, ordered by temperature.
func Summarize(members []Member) []Stat {
	avg := map[float64][]float64{}
	final := map[float64][]float64{}
	for _, m := range members {
		if m.Result == nil {
			continue
		}
		for t, v := range m.Result.AvgByT {
			avg[t] = append(avg[t], v)
		}
		for t, v := range m.Result.FinalByT {
			final[t] = append(final[t], v)
		}
	}
	stats := make([]Stat, 0, len(avg))
	for t, values := range avg {
		s := Stat{Temperature: t}
		s.AvgMean, s.AvgStdDev = meanStd(values)
		s.FinalMean, s.FinalStdDev = meanStd(final[t])
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Temperature < stats[j].Temperature })
	return stats
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
