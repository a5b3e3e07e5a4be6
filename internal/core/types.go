package core

import "sort"

// Sim defines the contract a steppable lattice model exposes to viewers and
// tools. Cells returns one byte per site in the Dims linear order, where
// non-zero marks an up spin.
type Sim interface {
	Name() string
	Size() Dims
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	f, ok := sims[name]
	return f, ok
}

// Names lists the registered simulations in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
