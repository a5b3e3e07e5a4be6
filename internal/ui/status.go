package ui

import (
	"fmt"

	"ising/internal/core"
)

// MinPanelHeight keeps the HUD parameter list readable on small lattices.
const MinPanelHeight = 360

type stepCounter interface {
	Steps() int
}

type magnetizationReporter interface {
	Magnetization() float64
}

type acceptanceReporter interface {
	AcceptanceRatio() float64
}

type thermalState interface {
	Temperature() float64
	Interaction() float64
}

type errReporter interface {
	Err() error
}

// Status is the readout drawn by the overlay for the current frame.
type Status struct {
	Name       string
	Dims       core.Dims
	Layer      int
	Projection bool

	Steps         int
	Magnetization float64
	Acceptance    float64
	Temperature   float64
	Interaction   float64
	Err           error

	hasSteps      bool
	hasMagnet     bool
	hasAcceptance bool
	hasThermal    bool
}

// CollectStatus reads whatever the simulation reports about itself.
func CollectStatus(sim core.Sim, layer int, projection bool) Status {
	s := Status{Name: sim.Name(), Dims: sim.Size(), Layer: layer, Projection: projection}
	if c, ok := sim.(stepCounter); ok {
		s.Steps = c.Steps()
		s.hasSteps = true
	}
	if m, ok := sim.(magnetizationReporter); ok {
		s.Magnetization = m.Magnetization()
		s.hasMagnet = true
	}
	if a, ok := sim.(acceptanceReporter); ok {
		s.Acceptance = a.AcceptanceRatio()
		s.hasAcceptance = true
	}
	if th, ok := sim.(thermalState); ok {
		s.Temperature = th.Temperature()
		s.Interaction = th.Interaction()
		s.hasThermal = true
	}
	if e, ok := sim.(errReporter); ok {
		s.Err = e.Err()
	}
	return s
}

// Lines formats the status for display, one entry per row.
func (s Status) Lines() []string {
	lines := []string{fmt.Sprintf("%s %s", s.Name, s.Dims)}
	if s.Projection {
		lines = append(lines, "view: z projection")
	} else {
		lines = append(lines, fmt.Sprintf("view: z = %d/%d", s.Layer, s.Dims.Z-1))
	}
	if s.hasThermal {
		lines = append(lines, fmt.Sprintf("T = %.3f  J = %.3f", s.Temperature, s.Interaction))
	}
	if s.hasSteps {
		lines = append(lines, fmt.Sprintf("steps: %d", s.Steps))
	}
	if s.hasMagnet {
		lines = append(lines, fmt.Sprintf("M = %+.4f", s.Magnetization))
	}
	if s.hasAcceptance {
		lines = append(lines, fmt.Sprintf("accepted: %.1f%%", 100*s.Acceptance))
	}
	if s.Err != nil {
		lines = append(lines, "error: "+s.Err.Error())
	}
	return lines
}

// StepLayer moves layer by delta, wrapping around depth.
func StepLayer(layer, delta, depth int) int {
	if depth <= 0 {
		return 0
	}
	return ((layer+delta)%depth + depth) % depth
}
