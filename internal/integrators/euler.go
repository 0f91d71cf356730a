// Package integrators provides fixed-step and adaptive explicit
// integrators over odes.System.
package integrators

import "github.com/elowan/kinetix/internal/odes"

type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Step(sys odes.System, x odes.State, t, dt float64) odes.State {
	dx := sys.Derive(x, t)
	out := make(odes.State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}
