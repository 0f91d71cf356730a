package odes

import (
	"context"
	"fmt"
	"math"
)

// Simulator advances a System through time and records the trajectory.
type Simulator struct {
	sys        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{sys: sys, integrator: integrator}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 over cfg.Duration. The returned Result always
// contains whatever trajectory was produced, even when the run stopped
// early on an invalid state or context cancellation.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initialTotal := s.total(x)

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		var next State
		var err error
		if cfg.Adaptive {
			next, dt, err = s.adaptiveStep(x, t, dt, cfg)
			if err != nil {
				result.Errors = append(result.Errors, &StepError{Step: result.StepsTaken, Time: t, Err: err})
				break
			}
		} else {
			next = s.integrator.Step(s.sys, x, t, dt)
		}

		if cfg.ValidateState && !next.IsValid() {
			result.Errors = append(result.Errors,
				&StepError{Step: result.StepsTaken, Time: t, Err: ErrInvalidState})
			break
		}

		x = next
		t += dt
		result.StepsTaken++
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	if initialTotal != 0 {
		result.TotalDrift = math.Abs(s.total(x)-initialTotal) / math.Abs(initialTotal)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if len(x0) != s.sys.Dim() {
		return fmt.Errorf("%w: got %d, system wants %d", ErrDimensionMismatch, len(x0), s.sys.Dim())
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("odes: dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("odes: duration must be positive, got %g", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("odes: tolerance must be positive for adaptive stepping")
	}
	return nil
}

func (s *Simulator) total(x State) float64 {
	if c, ok := s.sys.(Conserved); ok {
		return c.Total(x)
	}
	return 0
}

// adaptiveStep uses the integrator's own error estimate when available and
// falls back to step doubling otherwise.
func (s *Simulator) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		next, dtNew, err := adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, dt, err
		}
		dtNew = clamp(dtNew, cfg.MinDt, cfg.MaxDt)
		return next, dtNew, nil
	}

	x1 := s.integrator.Step(s.sys, x, t, dt)
	half := s.integrator.Step(s.sys, x, t, dt/2)
	x2 := s.integrator.Step(s.sys, half, t+dt/2, dt/2)

	errEst := x1.Sub(x2).Norm()
	if errEst > cfg.Tolerance {
		if dt/2 < cfg.MinDt {
			return nil, dt, ErrStepTooSmall
		}
		return s.adaptiveStep(x, t, dt/2, cfg)
	}
	if errEst < cfg.Tolerance/10 && dt < cfg.MaxDt {
		dt = math.Min(dt*2, cfg.MaxDt)
	}
	return x2, dt, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RunWithCallback integrates without recording, invoking callback each
// step; returning false from the callback stops the run.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, float64) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		x = s.integrator.Step(s.sys, x, t, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("%w at t=%.4f", ErrInvalidState, t)
		}
	}
	return nil
}
