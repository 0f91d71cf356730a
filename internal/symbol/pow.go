package symbol

import (
	"math"
	"math/big"
)

// Pow is base raised to an exponent.
type Pow struct{ base, exp Expr }

// Power builds the canonical power. Integer numeric powers of numeric
// bases are folded exactly; x^0 is 1, x^1 is x, nested powers multiply
// their exponents.
func Power(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Base() Expr { return p.base }
func (p *Pow) Exp() Expr  { return p.exp }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok {
		if en.IsZero() {
			return Int(1)
		}
		if en.IsOne() {
			return base
		}
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsOne() {
			return Int(1)
		}
		if en, ok := exp.(*Num); ok && en.IsInteger() {
			if bn.IsZero() {
				if en.val.Sign() > 0 {
					return Int(0)
				}
				// 0^0 and 0^negative stay unevaluated.
				return &Pow{base: base, exp: exp}
			}
			if e := en.val.Num().Int64(); e >= -12 && e <= 12 {
				return &Num{val: ratPow(bn.val, e)}
			}
		}
	}
	if inner, ok := base.(*Pow); ok {
		return Power(inner.base, Prod(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

func ratPow(r *big.Rat, e int64) *big.Rat {
	out := new(big.Rat).SetInt64(1)
	neg := e < 0
	if neg {
		e = -e
	}
	for i := int64(0); i < e; i++ {
		out.Mul(out, r)
	}
	if neg {
		out.Inv(out)
	}
	return out
}

func (p *Pow) Diff(name string) Expr {
	en, ok := p.exp.(*Num)
	if !ok {
		panic("symbol: Diff of non-numeric exponent")
	}
	return Prod(en, Power(p.base, Sum(en, Int(-1))), p.base.Diff(name))
}

func (p *Pow) Subst(name string, val Expr) Expr {
	return Power(p.base.Subst(name, val), p.exp.Subst(name, val))
}

func (p *Pow) Eval(env map[string]float64) (float64, error) {
	b, err := p.base.Eval(env)
	if err != nil {
		return 0, err
	}
	e, err := p.exp.Eval(env)
	if err != nil {
		return 0, err
	}
	return math.Pow(b, e), nil
}

func (p *Pow) Equal(o Expr) bool {
	op, ok := o.(*Pow)
	return ok && p.base.Equal(op.base) && p.exp.Equal(op.exp)
}

func (p *Pow) String() string {
	bs := p.base.String()
	switch p.base.(type) {
	case *Add, *Mul:
		bs = "(" + bs + ")"
	}
	es := p.exp.String()
	switch p.exp.(type) {
	case *Add, *Mul:
		es = "(" + es + ")"
	}
	return bs + "^" + es
}

func (p *Pow) LaTeX() string {
	bs := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul:
		bs = "\\left(" + bs + "\\right)"
	}
	return bs + "^{" + p.exp.LaTeX() + "}"
}
