package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elowan/kinetix/internal/kinetics"
)

func buildCatalog(t *testing.T, name string) *kinetics.System {
	t.Helper()
	entry, err := kinetics.Lookup(name)
	require.NoError(t, err)
	sys, err := entry.Build()
	require.NoError(t, err)
	return sys
}

func TestEmitCDecay(t *testing.T) {
	sys := buildCatalog(t, "decay2")
	src, err := EmitC("decay2", sys, false)
	require.NoError(t, err)

	assert.Contains(t, src, "#include <math.h>")
	assert.Contains(t, src, "void decay2_rhs(double t, const double y[], const double k[], double f[])")
	// l1 -> k[0], l2 -> k[1]; x,y,z -> y[0..2]
	assert.Contains(t, src, "f[0] = -k[0]*y[0];")
	assert.Contains(t, src, "f[1] = k[0]*y[0] - k[1]*y[1];")
	assert.Contains(t, src, "f[2] = k[1]*y[1];")
	assert.NotContains(t, src, "_jac")
}

func TestEmitCRobertsonWithJacobian(t *testing.T) {
	sys := buildCatalog(t, "robertson")
	src, err := EmitC("rob", sys, true)
	require.NoError(t, err)

	assert.Contains(t, src, "/* species order: A, B, C */")
	assert.Contains(t, src, "/* rate constants: k1, k2, k3 */")
	assert.Contains(t, src, "void rob_rhs(")
	assert.Contains(t, src, "void rob_jac(double t, const double y[], const double k[], double J[])")

	// B^2 is emitted as an explicit square, not pow()
	assert.Contains(t, src, "y[1]*y[1]")
	assert.NotContains(t, src, "pow(")

	// dA/dt = -A*k1 + B*C*k2
	assert.Contains(t, src, "f[0] = -y[0]*k[0] + y[1]*y[2]*k[1];")
	// d(dB/dt)/dB row-major entry
	assert.Contains(t, src, "J[1*3 + 1] =")
}

func TestEmitCJacobianEntries(t *testing.T) {
	sys := buildCatalog(t, "decay2")
	src, err := EmitC("d", sys, true)
	require.NoError(t, err)

	assert.Contains(t, src, "J[0*3 + 0] = -k[0];")
	assert.Contains(t, src, "J[1*3 + 0] = k[0];")
	assert.Contains(t, src, "J[1*3 + 1] = -k[1];")
	assert.Contains(t, src, "J[2*3 + 2] = 0.0;")
}

func TestEmitCZeroOrder(t *testing.T) {
	sys, err := kinetics.Build([]kinetics.Reaction{
		{Rate: "k0", Reactants: map[string]int{}, Net: map[string]int{"X": 1}},
	}, []string{"X"})
	require.NoError(t, err)

	src, err := EmitC("feed", sys, false)
	require.NoError(t, err)
	assert.Contains(t, src, "f[0] = k[0];")
}

func TestEmitCHighPowerUsesPow(t *testing.T) {
	sys, err := kinetics.Build([]kinetics.Reaction{
		{Rate: "k", Reactants: map[string]int{"X": 5}, Net: map[string]int{"X": -1}},
	}, []string{"X"})
	require.NoError(t, err)

	src, err := EmitC("high", sys, false)
	require.NoError(t, err)
	assert.Contains(t, src, "pow(y[0], 5)")
	assert.Equal(t, 1, strings.Count(src, "_rhs"))
}
