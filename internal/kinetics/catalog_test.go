package kinetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogNames(t *testing.T) {
	assert.Equal(t, []string{"binding", "brusselator", "decay2", "robertson"}, CatalogNames())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestCatalogEntriesAreRunnable(t *testing.T) {
	for _, name := range CatalogNames() {
		t.Run(name, func(t *testing.T) {
			entry, err := Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, name, entry.Name)
			assert.NotEmpty(t, entry.Description)

			sys, err := entry.Build()
			require.NoError(t, err)

			// every rate constant has a default value, and vice versa
			c, err := sys.Compile(entry.Params)
			require.NoError(t, err)

			// initial concentrations only name declared species
			declared := map[string]bool{}
			for _, s := range entry.Species {
				declared[s] = true
			}
			for s := range entry.Init {
				assert.True(t, declared[s], "init names undeclared species %q", s)
			}

			x0 := make([]float64, len(entry.Species))
			for i, s := range entry.Species {
				x0[i] = entry.Init[s]
			}
			d := c.Derive(x0, 0)
			assert.Len(t, d, len(entry.Species))
		})
	}
}
