// Package kinetics builds symbolic ODE systems from elementary reactions.
//
// A reaction is described by a rate-constant name, the reactant
// multiplicities that enter its mass-action rate law, and the net
// stoichiometric change it causes per event. Build translates a list of
// such reactions over an ordered species list into one time-derivative
// expression per species; Compile turns the result into a numeric
// right-hand side (and Jacobian) for the integrators.
package kinetics

// Reaction is one elementary reaction.
//
// Reactants maps species name to its multiplicity in the rate law
// (positive; absent or zero means the species does not enter the rate).
// Net maps species name to the signed change in molecule count per
// reaction event (zero entries are tolerated and equivalent to omission).
type Reaction struct {
	Rate      string
	Reactants map[string]int
	Net       map[string]int
}

// Touches reports whether the reaction mentions the species in either
// mapping.
func (r Reaction) Touches(species string) bool {
	if _, ok := r.Reactants[species]; ok {
		return true
	}
	_, ok := r.Net[species]
	return ok
}
