package ising

import (
	"strconv"

	"ising/internal/core"
)

// Parameters reports the configuration and live observables of the model.
func (m *Model) Parameters() core.ParameterSnapshot {
	d := m.lattice.Dims()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				intParam("x", "X size", d.X),
				intParam("y", "Y size", d.Y),
				intParam("z", "Z size", d.Z),
				int64Param("seed", "Seed", m.cfg.Seed),
				{Key: "init", Label: "Initializer", Type: core.ParamTypeString, Value: m.cfg.Init},
			},
		},
		{
			Name: "Physics",
			Params: []core.Parameter{
				floatParam("temperature", "Temperature", m.lattice.Temperature()),
				floatParam("interaction", "Interaction J", m.lattice.Interaction()),
			},
		},
		{
			Name: "State",
			Params: []core.Parameter{
				intParam("steps", "Steps", m.steps),
				floatParam("magnetization", "Magnetization", m.lattice.Magnetization()),
				floatParam("acceptance", "Acceptance", m.last.AcceptanceRatio()),
			},
		},
	}}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
