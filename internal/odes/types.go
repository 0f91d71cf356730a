// Package odes holds the numeric integration layer: state vectors, the
// System interface produced by kinetics.Compile, integrator contracts, and
// the simulator loop that records concentration trajectories.
package odes

import "math"

// State is a concentration vector in declared species order.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	out := make(State, len(s))
	for i := range s {
		out[i] = s[i]
		if i < len(other) {
			out[i] += other[i]
		}
	}
	return out
}

func (s State) Sub(other State) State {
	out := make(State, len(s))
	for i := range s {
		out[i] = s[i]
		if i < len(other) {
			out[i] -= other[i]
		}
	}
	return out
}

func (s State) Scale(factor float64) State {
	out := make(State, len(s))
	for i := range s {
		out[i] = s[i] * factor
	}
	return out
}

// System is a first-order ODE right-hand side dx/dt = f(x, t).
type System interface {
	Derive(x State, t float64) State
	Dim() int
}

// Conserved is implemented by systems with a conserved scalar (total
// molecule count for closed reaction networks); the simulator reports its
// relative drift.
type Conserved interface {
	Total(x State) float64
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		Tolerance:     1e-6,
		MaxDt:         0.1,
		MinDt:         1e-10,
		Adaptive:      false,
		ValidateState: true,
	}
}

type Result struct {
	States     []State
	Times      []float64
	Metrics    map[string]float64
	TotalDrift float64
	StepsTaken int
	Errors     []error
}
