package kinetics

import (
	"sort"

	"github.com/elowan/kinetix/internal/symbol"
)

// System is the symbolic form of a reaction network: one concentration
// symbol and one time-derivative expression per declared species, in
// declared order, plus the rate-constant symbols in first-appearance
// order. The species order fixes the index convention for every
// downstream consumer: state vectors, Jacobian rows and columns, and the
// argument order of compiled numeric functions.
type System struct {
	Species   []string
	Reactions []Reaction

	Conc     []*symbol.Var // concentration symbols, declared species order
	RateVars []*symbol.Var // rate-constant symbols, first-seen order, deduped by name
	Rates    []symbol.Expr // mass-action rate law per reaction, input order
	Derivs   []symbol.Expr // d[species]/dt per species, declared order
}

// Build translates reactions over an ordered species list into a symbolic
// ODE system. It is a pure function: inputs are not mutated and every call
// allocates fresh expressions.
//
// Validation happens before any expression is built; on error the returned
// system is nil (no partial results). Reactions are not checked for mass
// or charge balance — Build is a syntactic translator from stoichiometry
// to algebra.
func Build(reactions []Reaction, species []string) (*System, error) {
	index := make(map[string]int, len(species))
	for i, name := range species {
		if _, dup := index[name]; dup {
			return nil, &DuplicateSpeciesError{Species: name}
		}
		index[name] = i
	}

	for ri, r := range reactions {
		if r.Rate == "" {
			return nil, &InvalidReactionError{Reaction: ri, Reason: "empty rate-constant name"}
		}
		for _, name := range sortedKeys(r.Reactants) {
			if _, ok := index[name]; !ok {
				return nil, &UnknownSpeciesError{Species: name, Reaction: ri}
			}
			if r.Reactants[name] < 0 {
				return nil, &InvalidReactionError{Reaction: ri, Reason: "negative multiplicity for " + name}
			}
		}
		for _, name := range sortedKeys(r.Net) {
			if _, ok := index[name]; !ok {
				return nil, &UnknownSpeciesError{Species: name, Reaction: ri}
			}
		}
	}

	sys := &System{
		Species:   append([]string(nil), species...),
		Reactions: append([]Reaction(nil), reactions...),
		Conc:      make([]*symbol.Var, len(species)),
		Rates:     make([]symbol.Expr, len(reactions)),
		Derivs:    make([]symbol.Expr, len(species)),
	}
	for i, name := range species {
		sys.Conc[i] = symbol.V(name)
	}

	// Rate-constant symbols are interned by name: reuse across reactions
	// always denotes the same physical constant.
	rateVar := map[string]*symbol.Var{}
	for _, r := range reactions {
		if _, seen := rateVar[r.Rate]; !seen {
			v := symbol.V(r.Rate)
			rateVar[r.Rate] = v
			sys.RateVars = append(sys.RateVars, v)
		}
	}

	accum := make([][]symbol.Expr, len(species))
	for ri, r := range reactions {
		factors := []symbol.Expr{rateVar[r.Rate]}
		for _, name := range sortedKeys(r.Reactants) {
			mult := r.Reactants[name]
			if mult == 0 {
				continue
			}
			factors = append(factors, symbol.Power(sys.Conc[index[name]], symbol.Int(int64(mult))))
		}
		rate := symbol.Prod(factors...)
		sys.Rates[ri] = rate

		for _, name := range sortedKeys(r.Net) {
			change := r.Net[name]
			if change == 0 {
				continue
			}
			si := index[name]
			accum[si] = append(accum[si], symbol.Prod(symbol.Int(int64(change)), rate))
		}
	}

	for i := range species {
		sys.Derivs[i] = symbol.Sum(accum[i]...)
	}
	return sys, nil
}

// Jacobian returns the matrix of partial derivatives of the derivative
// vector with respect to the concentration symbols, in declared species
// order for both rows and columns.
func (s *System) Jacobian() [][]symbol.Expr {
	return symbol.Jacobian(s.Derivs, s.Conc)
}

// Closed reports whether every reaction redistributes molecules without
// net creation or destruction, i.e. the total molecule count is conserved
// along any trajectory.
func (s *System) Closed() bool {
	for _, r := range s.Reactions {
		sum := 0
		for _, change := range r.Net {
			sum += change
		}
		if sum != 0 {
			return false
		}
	}
	return true
}

// RateNames returns the interned rate-constant names in first-seen order.
func (s *System) RateNames() []string {
	names := make([]string, len(s.RateVars))
	for i, v := range s.RateVars {
		names[i] = v.Name()
	}
	return names
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
