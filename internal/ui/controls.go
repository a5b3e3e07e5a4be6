package ui

import (
	"image"
	"math"
	"strconv"
	"strings"

	"ising/internal/core"
)

// Panel geometry shared by the HUD layout and its hit testing.
const (
	panelPadding = 12
	rowHeight    = 36
	buttonSize   = 24
	buttonGap    = 6
	titleHeight  = 18
	firstRowTop  = panelPadding + titleHeight + 14
)

const defaultControlStep = 0.05

// ControlRow is one adjustable float parameter and where its buttons sit.
type ControlRow struct {
	Def   core.ParameterControl
	Value float64
	// Known is false until the simulation reports a parseable value.
	Known bool

	Top         int
	Minus, Plus image.Rectangle
}

// Step returns the increment applied by one button press.
func (r ControlRow) Step() float64 {
	if r.Def.Step > 0 {
		return r.Def.Step
	}
	return defaultControlStep
}

// Text formats the current value with a precision matching the step.
func (r ControlRow) Text() string {
	if !r.Known {
		return "--"
	}
	digits := 0
	step := strconv.FormatFloat(r.Step(), 'f', -1, 64)
	if dot := strings.IndexByte(step, '.'); dot >= 0 {
		digits = min(len(step)-dot-1, 4)
	}
	return strconv.FormatFloat(r.Value, 'f', digits, 64)
}

// CanNudge reports whether a press in direction dir stays within bounds.
func (r ControlRow) CanNudge(dir int) bool {
	if !r.Known || dir == 0 || r.Def.Type != core.ParamTypeFloat {
		return false
	}
	target := r.Value + float64(dir)*r.Step()
	if dir < 0 && r.Def.HasMin && target < r.Def.Min {
		return false
	}
	if dir > 0 && r.Def.HasMax && target > r.Def.Max {
		return false
	}
	return true
}

// Controls tracks the float parameters a simulation lets the panel adjust.
type Controls struct {
	Rows   []ControlRow
	setter core.FloatParameterSetter
}

// NewControls lays out the controls of sim in a panel width pixels wide. It
// returns an empty set when sim exposes no controls or cannot accept values.
func NewControls(sim core.Sim, width int) *Controls {
	c := &Controls{}
	provider, ok := sim.(core.ParameterControlsProvider)
	if !ok {
		return c
	}
	c.setter, _ = sim.(core.FloatParameterSetter)
	right := width - panelPadding
	for i, def := range provider.ParameterControls() {
		top := firstRowTop + i*rowHeight
		y := top + (rowHeight-buttonSize)/2
		plus := image.Rect(right-buttonSize, y, right, y+buttonSize)
		minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
		c.Rows = append(c.Rows, ControlRow{Def: def, Top: top, Minus: minus, Plus: plus})
	}
	return c
}

// Sync reads the current control values out of snap.
func (c *Controls) Sync(snap core.ParameterSnapshot) {
	for i := range c.Rows {
		row := &c.Rows[i]
		row.Known = false
		p, ok := snap.Lookup(row.Def.Key)
		if !ok || row.Def.Type != core.ParamTypeFloat {
			continue
		}
		if v, err := strconv.ParseFloat(p.Value, 64); err == nil {
			row.Value, row.Known = v, true
		}
	}
}

// Nudge moves the control named key one step in direction dir and reports
// whether the simulation accepted the new value.
func (c *Controls) Nudge(key string, dir int) bool {
	for i := range c.Rows {
		if c.Rows[i].Def.Key == key {
			return c.nudge(&c.Rows[i], dir)
		}
	}
	return false
}

func (c *Controls) nudge(row *ControlRow, dir int) bool {
	if c.setter == nil || !row.CanNudge(dir) {
		return false
	}
	target := row.Def.Clamp(row.Value + float64(dir)*row.Step())
	if math.Abs(target-row.Value) < 1e-9 {
		return false
	}
	if !c.setter.SetFloatParameter(row.Def.Key, target) {
		return false
	}
	row.Value = target
	return true
}

// Click applies a press at panel coordinates (x, y) and reports whether it
// changed a value.
func (c *Controls) Click(x, y int) bool {
	pt := image.Pt(x, y)
	for i := range c.Rows {
		row := &c.Rows[i]
		switch {
		case pt.In(row.Minus):
			return c.nudge(row, -1)
		case pt.In(row.Plus):
			return c.nudge(row, 1)
		}
	}
	return false
}

// Adjustable reports whether the panel can change values at all.
func (c *Controls) Adjustable() bool { return c.setter != nil && len(c.Rows) > 0 }

// Bottom is the y coordinate just below the last control row.
func (c *Controls) Bottom() int { return firstRowTop + len(c.Rows)*rowHeight }
