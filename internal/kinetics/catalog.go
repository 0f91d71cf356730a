package kinetics

import (
	"fmt"
	"sort"
)

// Entry is a named, ready-to-run reaction network with default rate
// constants and initial concentrations.
type Entry struct {
	Name        string
	Description string
	Species     []string
	Reactions   []Reaction
	Params      map[string]float64
	Init        map[string]float64
}

// Build constructs the symbolic system for the entry.
func (e Entry) Build() (*System, error) {
	return Build(e.Reactions, e.Species)
}

var catalog = map[string]Entry{
	"robertson": {
		Name:        "robertson",
		Description: "Robertson's stiff autocatalytic problem",
		Species:     []string{"A", "B", "C"},
		Reactions: []Reaction{
			{Rate: "k1", Reactants: map[string]int{"A": 1}, Net: map[string]int{"A": -1, "B": 1}},
			{Rate: "k2", Reactants: map[string]int{"B": 1, "C": 1}, Net: map[string]int{"A": 1, "B": -1}},
			{Rate: "k3", Reactants: map[string]int{"B": 2}, Net: map[string]int{"B": -1, "C": 1}},
		},
		Params: map[string]float64{"k1": 0.04, "k2": 1e4, "k3": 3e7},
		Init:   map[string]float64{"A": 1},
	},
	"decay2": {
		Name:        "decay2",
		Description: "two-step decay chain x -> y -> z",
		Species:     []string{"x", "y", "z"},
		Reactions: []Reaction{
			{Rate: "l1", Reactants: map[string]int{"x": 1}, Net: map[string]int{"x": -1, "y": 1}},
			{Rate: "l2", Reactants: map[string]int{"y": 1}, Net: map[string]int{"y": -1, "z": 1}},
		},
		Params: map[string]float64{"l1": 2, "l2": 1},
		Init:   map[string]float64{"x": 1},
	},
	"brusselator": {
		Name:        "brusselator",
		Description: "Brusselator oscillator (open system)",
		Species:     []string{"X", "Y"},
		Reactions: []Reaction{
			// A -> X with [A] folded into k1 (constant feed).
			{Rate: "k1", Reactants: map[string]int{}, Net: map[string]int{"X": 1}},
			{Rate: "k2", Reactants: map[string]int{"X": 1}, Net: map[string]int{"X": -1, "Y": 1}},
			{Rate: "k3", Reactants: map[string]int{"X": 2, "Y": 1}, Net: map[string]int{"X": 1, "Y": -1}},
			{Rate: "k4", Reactants: map[string]int{"X": 1}, Net: map[string]int{"X": -1}},
		},
		Params: map[string]float64{"k1": 1, "k2": 3, "k3": 1, "k4": 1},
		Init:   map[string]float64{"X": 1, "Y": 1},
	},
	"binding": {
		Name:        "binding",
		Description: "reversible binding A + B <-> AB",
		Species:     []string{"A", "B", "AB"},
		Reactions: []Reaction{
			{Rate: "kon", Reactants: map[string]int{"A": 1, "B": 1}, Net: map[string]int{"A": -1, "B": -1, "AB": 1}},
			{Rate: "koff", Reactants: map[string]int{"AB": 1}, Net: map[string]int{"A": 1, "B": 1, "AB": -1}},
		},
		Params: map[string]float64{"kon": 10, "koff": 0.5},
		Init:   map[string]float64{"A": 1, "B": 0.8},
	},
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (Entry, error) {
	e, ok := catalog[name]
	if !ok {
		return Entry{}, fmt.Errorf("kinetics: unknown system %q (available: %v)", name, CatalogNames())
	}
	return e, nil
}

// CatalogNames lists the built-in systems in sorted order.
func CatalogNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
