package kinetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elowan/kinetix/internal/symbol"
)

func robertson() ([]Reaction, []string) {
	return []Reaction{
		{Rate: "k1", Reactants: map[string]int{"A": 1}, Net: map[string]int{"A": -1, "B": 1}},
		{Rate: "k2", Reactants: map[string]int{"B": 1, "C": 1}, Net: map[string]int{"A": 1, "B": -1}},
		{Rate: "k3", Reactants: map[string]int{"B": 2}, Net: map[string]int{"B": -1, "C": 1}},
	}, []string{"A", "B", "C"}
}

func TestBuildRobertson(t *testing.T) {
	reactions, species := robertson()
	sys, err := Build(reactions, species)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, sys.Species)
	assert.Equal(t, []string{"k1", "k2", "k3"}, sys.RateNames())

	require.Len(t, sys.Rates, 3)
	assert.Equal(t, "A*k1", sys.Rates[0].String())
	assert.Equal(t, "B*C*k2", sys.Rates[1].String())
	assert.Equal(t, "B^2*k3", sys.Rates[2].String())

	require.Len(t, sys.Derivs, 3)
	assert.Equal(t, "-A*k1 + B*C*k2", sys.Derivs[0].String())
	assert.Equal(t, "A*k1 - B*C*k2 - B^2*k3", sys.Derivs[1].String())
	assert.Equal(t, "B^2*k3", sys.Derivs[2].String())
}

func TestBuildDecayChain(t *testing.T) {
	reactions := []Reaction{
		{Rate: "l1", Reactants: map[string]int{"x": 1}, Net: map[string]int{"x": -1, "y": 1}},
		{Rate: "l2", Reactants: map[string]int{"y": 1}, Net: map[string]int{"y": -1, "z": 1}},
	}
	sys, err := Build(reactions, []string{"x", "y", "z"})
	require.NoError(t, err)

	assert.Equal(t, "-l1*x", sys.Derivs[0].String())
	assert.Equal(t, "l1*x - l2*y", sys.Derivs[1].String())
	assert.Equal(t, "l2*y", sys.Derivs[2].String())
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name      string
		reactions []Reaction
		species   []string
		wantErr   string
	}{
		{
			name:      "duplicate species",
			reactions: nil,
			species:   []string{"A", "B", "A"},
			wantErr:   `species "A" declared more than once`,
		},
		{
			name: "unknown species in reactants",
			reactions: []Reaction{
				{Rate: "k1", Reactants: map[string]int{"A": 1}, Net: map[string]int{"A": -1}},
				{Rate: "k2", Reactants: map[string]int{"Q": 1}, Net: map[string]int{"A": 1}},
			},
			species: []string{"A"},
			wantErr: `reaction 1 references undeclared species "Q"`,
		},
		{
			name: "unknown species in net",
			reactions: []Reaction{
				{Rate: "k1", Reactants: map[string]int{"A": 1}, Net: map[string]int{"Z": 1}},
			},
			species: []string{"A"},
			wantErr: `reaction 0 references undeclared species "Z"`,
		},
		{
			name: "empty rate name",
			reactions: []Reaction{
				{Rate: "", Reactants: map[string]int{"A": 1}, Net: map[string]int{"A": -1}},
			},
			species: []string{"A"},
			wantErr: "reaction 0",
		},
		{
			name: "negative multiplicity",
			reactions: []Reaction{
				{Rate: "k1", Reactants: map[string]int{"A": -2}, Net: map[string]int{"A": 2}},
			},
			species: []string{"A"},
			wantErr: "negative multiplicity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := Build(tt.reactions, tt.species)
			assert.Nil(t, sys)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildErrorTypes(t *testing.T) {
	_, err := Build(nil, []string{"A", "A"})
	var dup *DuplicateSpeciesError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.Species)

	_, err = Build([]Reaction{
		{Rate: "k", Reactants: map[string]int{"Q": 1}, Net: map[string]int{}},
	}, []string{"A"})
	var unknown *UnknownSpeciesError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Q", unknown.Species)
	assert.Equal(t, 0, unknown.Reaction)
}

func TestRateSymbolInterning(t *testing.T) {
	// The same rate name across reactions is one symbol.
	reactions := []Reaction{
		{Rate: "k", Reactants: map[string]int{"A": 1}, Net: map[string]int{"A": -1, "B": 1}},
		{Rate: "k", Reactants: map[string]int{"B": 1}, Net: map[string]int{"B": -1, "A": 1}},
	}
	sys, err := Build(reactions, []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, []string{"k"}, sys.RateNames())
	assert.Equal(t, "A*k", sys.Rates[0].String())
	assert.Equal(t, "B*k", sys.Rates[1].String())
}

func TestBuildZeroEntriesIgnored(t *testing.T) {
	reactions := []Reaction{
		// zero multiplicities and zero net changes contribute nothing
		{Rate: "k1", Reactants: map[string]int{"A": 1, "B": 0}, Net: map[string]int{"A": -1, "B": 1, "C": 0}},
	}
	sys, err := Build(reactions, []string{"A", "B", "C"})
	require.NoError(t, err)

	assert.Equal(t, "A*k1", sys.Rates[0].String())
	assert.True(t, sys.Derivs[2].Equal(symbol.Int(0)))
}

func TestBuildZeroOrderReaction(t *testing.T) {
	// constant-feed reaction with no reactants: rate is just the constant
	reactions := []Reaction{
		{Rate: "k0", Reactants: map[string]int{}, Net: map[string]int{"X": 1}},
	}
	sys, err := Build(reactions, []string{"X"})
	require.NoError(t, err)

	assert.Equal(t, "k0", sys.Rates[0].String())
	assert.Equal(t, "k0", sys.Derivs[0].String())
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	reactions, species := robertson()
	_, err := Build(reactions, species)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"A": 1}, reactions[0].Reactants)
	assert.Equal(t, []string{"A", "B", "C"}, species)
}

func TestBuildIsDeterministic(t *testing.T) {
	reactions, species := robertson()
	first, err := Build(reactions, species)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Build(reactions, species)
		require.NoError(t, err)
		for j := range first.Derivs {
			assert.Equal(t, first.Derivs[j].String(), again.Derivs[j].String())
		}
	}
}

func TestBuildSpeciesOrderFollowsDeclaration(t *testing.T) {
	reactions, _ := robertson()
	sys, err := Build(reactions, []string{"C", "B", "A"})
	require.NoError(t, err)

	// Derivative expressions follow the species, not the position.
	assert.Equal(t, "B^2*k3", sys.Derivs[0].String())
	assert.Equal(t, "-A*k1 + B*C*k2", sys.Derivs[2].String())
}

func TestClosedNetworkDerivativesSumToZero(t *testing.T) {
	entry, err := Lookup("decay2")
	require.NoError(t, err)
	sys, err := entry.Build()
	require.NoError(t, err)
	require.True(t, sys.Closed())

	total := symbol.Sum(sys.Derivs...)
	assert.True(t, total.Equal(symbol.Int(0)), "sum of derivatives is %s", total)
}

func TestClosed(t *testing.T) {
	decay, _ := Lookup("decay2")
	sys, err := decay.Build()
	require.NoError(t, err)
	assert.True(t, sys.Closed())

	brusselator, _ := Lookup("brusselator")
	sys, err = brusselator.Build()
	require.NoError(t, err)
	assert.False(t, sys.Closed())

	// Association halves the molecule count (A + B -> AB is two molecules
	// in, one out), so binding is open by the molecule-count criterion and
	// its derivative sum does not cancel.
	binding, _ := Lookup("binding")
	sys, err = binding.Build()
	require.NoError(t, err)
	assert.False(t, sys.Closed())
	total := symbol.Sum(sys.Derivs...)
	assert.False(t, total.Equal(symbol.Int(0)))
	assert.Equal(t, "-A*B*kon + AB*koff", total.String())
}

func TestJacobianRobertson(t *testing.T) {
	reactions, species := robertson()
	sys, err := Build(reactions, species)
	require.NoError(t, err)

	jac := sys.Jacobian()
	require.Len(t, jac, 3)

	assert.Equal(t, "-k1", jac[0][0].String())
	assert.Equal(t, "C*k2", jac[0][1].String())
	assert.Equal(t, "B*k2", jac[0][2].String())
	assert.Equal(t, "-2*B*k3 - C*k2", jac[1][1].String())
	assert.Equal(t, "2*B*k3", jac[2][1].String())
	assert.True(t, jac[2][0].Equal(symbol.Int(0)))
}

func TestTouches(t *testing.T) {
	r := Reaction{Rate: "k", Reactants: map[string]int{"A": 1}, Net: map[string]int{"B": 1}}
	assert.True(t, r.Touches("A"))
	assert.True(t, r.Touches("B"))
	assert.False(t, r.Touches("C"))
}
