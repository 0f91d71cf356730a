package integrators

import (
	"fmt"

	"github.com/elowan/kinetix/internal/odes"
)

// Names lists the available integrators.
func Names() []string { return []string{"euler", "rk4", "rk45"} }

// ByName returns a fresh integrator instance for name.
func ByName(name string) (odes.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	case "rk45":
		return NewRK45(), nil
	}
	return nil, fmt.Errorf("integrators: unknown integrator %q (available: %v)", name, Names())
}
