package integrators

import "github.com/elowan/kinetix/internal/odes"

// RK4 is the classical fourth-order Runge-Kutta method. Stage buffers are
// reused across steps; an RK4 value must not be shared between goroutines.
type RK4 struct {
	scratch odes.State
}

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) Step(sys odes.System, x odes.State, t, dt float64) odes.State {
	n := len(x)
	if len(r.scratch) != n {
		r.scratch = make(odes.State, n)
	}

	k1 := sys.Derive(x, t)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := sys.Derive(r.scratch, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := sys.Derive(r.scratch, t+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*k3[i]
	}
	k4 := sys.Derive(r.scratch, t+dt)

	out := make(odes.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		out[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}
