package kinetics

import (
	"fmt"
	"math"

	"github.com/elowan/kinetix/internal/odes"
	"github.com/elowan/kinetix/internal/symbol"
)

type evalFunc func(y, k []float64) float64

// CompiledSystem is the numeric form of a System: every derivative and
// Jacobian entry lambdified into a closure over the state vector and the
// rate-constant vector, with all name lookups resolved to indices at
// compile time. It implements odes.System.
type CompiledSystem struct {
	sys    *System
	params []float64
	fns    []evalFunc
	jac    [][]evalFunc
}

// Compile lambdifies the system. params supplies a numeric value for every
// rate constant by name; a missing or unknown name is an error.
func (s *System) Compile(params map[string]float64) (*CompiledSystem, error) {
	concIdx := make(map[string]int, len(s.Species))
	for i, name := range s.Species {
		concIdx[name] = i
	}
	rateIdx := make(map[string]int, len(s.RateVars))
	values := make([]float64, len(s.RateVars))
	for i, v := range s.RateVars {
		rateIdx[v.Name()] = i
		val, ok := params[v.Name()]
		if !ok {
			return nil, fmt.Errorf("kinetics: no value for rate constant %q", v.Name())
		}
		values[i] = val
	}
	for name := range params {
		if _, ok := rateIdx[name]; !ok {
			return nil, fmt.Errorf("kinetics: value given for unknown rate constant %q", name)
		}
	}

	c := &CompiledSystem{
		sys:    s,
		params: values,
		fns:    make([]evalFunc, len(s.Derivs)),
	}
	for i, d := range s.Derivs {
		fn, err := compileExpr(d, concIdx, rateIdx)
		if err != nil {
			return nil, err
		}
		c.fns[i] = fn
	}

	symJac := s.Jacobian()
	c.jac = make([][]evalFunc, len(symJac))
	for i, row := range symJac {
		c.jac[i] = make([]evalFunc, len(row))
		for j, e := range row {
			fn, err := compileExpr(e, concIdx, rateIdx)
			if err != nil {
				return nil, err
			}
			c.jac[i][j] = fn
		}
	}
	return c, nil
}

func compileExpr(e symbol.Expr, concIdx, rateIdx map[string]int) (evalFunc, error) {
	switch v := e.(type) {
	case *symbol.Num:
		val := v.Float64()
		return func(_, _ []float64) float64 { return val }, nil

	case *symbol.Var:
		if i, ok := concIdx[v.Name()]; ok {
			return func(y, _ []float64) float64 { return y[i] }, nil
		}
		if j, ok := rateIdx[v.Name()]; ok {
			return func(_, k []float64) float64 { return k[j] }, nil
		}
		return nil, fmt.Errorf("kinetics: unbound symbol %q", v.Name())

	case *symbol.Add:
		fns, err := compileAll(v.Terms(), concIdx, rateIdx)
		if err != nil {
			return nil, err
		}
		return func(y, k []float64) float64 {
			acc := 0.0
			for _, fn := range fns {
				acc += fn(y, k)
			}
			return acc
		}, nil

	case *symbol.Mul:
		fns, err := compileAll(v.Factors(), concIdx, rateIdx)
		if err != nil {
			return nil, err
		}
		return func(y, k []float64) float64 {
			acc := 1.0
			for _, fn := range fns {
				acc *= fn(y, k)
			}
			return acc
		}, nil

	case *symbol.Pow:
		base, err := compileExpr(v.Base(), concIdx, rateIdx)
		if err != nil {
			return nil, err
		}
		en, ok := v.Exp().(*symbol.Num)
		if !ok {
			return nil, fmt.Errorf("kinetics: non-numeric exponent in %s", e)
		}
		if en.IsInteger() {
			switch n := en.Rat().Num().Int64(); n {
			case 2:
				return func(y, k []float64) float64 { b := base(y, k); return b * b }, nil
			case 3:
				return func(y, k []float64) float64 { b := base(y, k); return b * b * b }, nil
			default:
				if n > 0 {
					return func(y, k []float64) float64 {
						b := base(y, k)
						acc := 1.0
						for i := int64(0); i < n; i++ {
							acc *= b
						}
						return acc
					}, nil
				}
			}
		}
		exp := en.Float64()
		return func(y, k []float64) float64 { return math.Pow(base(y, k), exp) }, nil
	}
	return nil, fmt.Errorf("kinetics: cannot compile expression %s", e)
}

func compileAll(exprs []symbol.Expr, concIdx, rateIdx map[string]int) ([]evalFunc, error) {
	fns := make([]evalFunc, len(exprs))
	for i, e := range exprs {
		fn, err := compileExpr(e, concIdx, rateIdx)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	return fns, nil
}

func (c *CompiledSystem) Dim() int          { return len(c.fns) }
func (c *CompiledSystem) Species() []string { return c.sys.Species }

// Derive evaluates the right-hand side at state x. Time does not appear:
// mass-action systems are autonomous.
func (c *CompiledSystem) Derive(x odes.State, _ float64) odes.State {
	out := make(odes.State, len(c.fns))
	for i, fn := range c.fns {
		out[i] = fn(x, c.params)
	}
	return out
}

// JacobianAt evaluates the dense Jacobian at state y.
func (c *CompiledSystem) JacobianAt(y []float64) [][]float64 {
	out := make([][]float64, len(c.jac))
	for i, row := range c.jac {
		out[i] = make([]float64, len(row))
		for j, fn := range row {
			out[i][j] = fn(y, c.params)
		}
	}
	return out
}

// Params returns the current rate-constant values keyed by name.
func (c *CompiledSystem) Params() map[string]float64 {
	out := make(map[string]float64, len(c.params))
	for i, v := range c.sys.RateVars {
		out[v.Name()] = c.params[i]
	}
	return out
}

// SetParam updates one rate-constant value in place.
func (c *CompiledSystem) SetParam(name string, value float64) error {
	for i, v := range c.sys.RateVars {
		if v.Name() == name {
			c.params[i] = value
			return nil
		}
	}
	return fmt.Errorf("kinetics: unknown rate constant %q", name)
}

// ODESystem returns the system for integration. Closed networks are
// wrapped so the simulator tracks total-mass drift.
func (c *CompiledSystem) ODESystem() odes.System {
	if c.sys.Closed() {
		return massConserving{c}
	}
	return c
}

type massConserving struct{ *CompiledSystem }

func (m massConserving) Total(x odes.State) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum
}
