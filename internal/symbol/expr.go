package symbol

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Expr is an immutable symbolic expression. Simplify returns the canonical
// form: constants folded, like terms collected, factors in deterministic
// order. All constructors in this package simplify eagerly, so expressions
// obtained through them are already canonical.
type Expr interface {
	Simplify() Expr
	Diff(name string) Expr
	Subst(name string, val Expr) Expr
	Eval(env map[string]float64) (float64, error)
	Equal(o Expr) bool
	String() string
	LaTeX() string
}

// Num is an exact rational constant.
type Num struct{ val *big.Rat }

func Int(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func Rat(p, q int64) *Num {
	if q == 0 {
		panic("symbol: zero denominator")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func (n *Num) Simplify() Expr                            { return n }
func (n *Num) Diff(string) Expr                          { return Int(0) }
func (n *Num) Subst(string, Expr) Expr                   { return n }
func (n *Num) Eval(map[string]float64) (float64, error)  { f, _ := n.val.Float64(); return f, nil }
func (n *Num) IsZero() bool                              { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool                               { return n.val.Cmp(ratOne) == 0 }
func (n *Num) IsInteger() bool                           { return n.val.IsInt() }
func (n *Num) Float64() float64                          { f, _ := n.val.Float64(); return f }
func (n *Num) Rat() *big.Rat                             { return new(big.Rat).Set(n.val) }

func (n *Num) Equal(o Expr) bool {
	on, ok := o.(*Num)
	return ok && n.val.Cmp(on.val) == 0
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	v := new(big.Rat).Set(n.val)
	sign := ""
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

var ratOne = new(big.Rat).SetInt64(1)

// Var is a free variable identified by name.
type Var struct{ name string }

func V(name string) *Var { return &Var{name: name} }

func (v *Var) Name() string    { return v.name }
func (v *Var) Simplify() Expr  { return v }
func (v *Var) String() string  { return v.name }
func (v *Var) LaTeX() string   { return v.name }

func (v *Var) Diff(name string) Expr {
	if v.name == name {
		return Int(1)
	}
	return Int(0)
}

func (v *Var) Subst(name string, val Expr) Expr {
	if v.name == name {
		return val
	}
	return v
}

func (v *Var) Eval(env map[string]float64) (float64, error) {
	f, ok := env[v.name]
	if !ok {
		return 0, fmt.Errorf("symbol: unbound variable %q", v.name)
	}
	return f, nil
}

func (v *Var) Equal(o Expr) bool {
	ov, ok := o.(*Var)
	return ok && v.name == ov.name
}

// Add is a sum of terms.
type Add struct{ terms []Expr }

// Sum builds the canonical sum of terms: nested sums are flattened,
// numeric parts folded, and like terms collected so that e.g.
// k*A + (-1)*k*A cancels to zero.
func Sum(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Terms() []Expr { return a.terms }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if in, ok := s.(*Add); ok {
			flat = append(flat, in.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	constant := new(big.Rat)
	type group struct {
		coeff *big.Rat
		rest  Expr
	}
	groups := map[string]*group{}
	keys := make([]string, 0, len(flat))
	for _, t := range flat {
		coeff, rest := splitCoeff(t)
		if rest == nil {
			constant.Add(constant, coeff)
			continue
		}
		key := rest.String()
		g, ok := groups[key]
		if !ok {
			g = &group{coeff: new(big.Rat), rest: rest}
			groups[key] = g
			keys = append(keys, key)
		}
		g.coeff.Add(g.coeff, coeff)
	}
	sort.Strings(keys)

	terms := make([]Expr, 0, len(keys)+1)
	for _, key := range keys {
		g := groups[key]
		if g.coeff.Sign() == 0 {
			continue
		}
		terms = append(terms, scale(g.coeff, g.rest))
	}
	if constant.Sign() != 0 {
		terms = append(terms, &Num{val: constant})
	}

	switch len(terms) {
	case 0:
		return Int(0)
	case 1:
		return terms[0]
	}
	return &Add{terms: terms}
}

// splitCoeff decomposes a canonical term into its numeric coefficient and
// the remaining symbolic part. A pure number yields rest == nil.
func splitCoeff(t Expr) (*big.Rat, Expr) {
	switch v := t.(type) {
	case *Num:
		return v.Rat(), nil
	case *Mul:
		if len(v.factors) > 1 {
			if c, ok := v.factors[0].(*Num); ok {
				rest := v.factors[1:]
				if len(rest) == 1 {
					return c.Rat(), rest[0]
				}
				return c.Rat(), &Mul{factors: rest}
			}
		}
	}
	return new(big.Rat).SetInt64(1), t
}

// scale multiplies an already-canonical symbolic part by a rational
// coefficient without re-simplifying the part.
func scale(c *big.Rat, rest Expr) Expr {
	if c.Cmp(ratOne) == 0 {
		return rest
	}
	num := &Num{val: new(big.Rat).Set(c)}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{num}, m.factors...)}
	}
	return &Mul{factors: []Expr{num, rest}}
}

func (a *Add) Diff(name string) Expr {
	d := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		d[i] = t.Diff(name)
	}
	return Sum(d...)
}

func (a *Add) Subst(name string, val Expr) Expr {
	nt := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		nt[i] = t.Subst(name, val)
	}
	return Sum(nt...)
}

func (a *Add) Eval(env map[string]float64) (float64, error) {
	acc := 0.0
	for _, t := range a.terms {
		f, err := t.Eval(env)
		if err != nil {
			return 0, err
		}
		acc += f
	}
	return acc, nil
}

func (a *Add) Equal(o Expr) bool {
	oa, ok := o.(*Add)
	if !ok || len(a.terms) != len(oa.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(oa.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) String() string { return a.render(func(e Expr) string { return e.String() }, "*") }
func (a *Add) LaTeX() string  { return a.render(func(e Expr) string { return e.LaTeX() }, " ") }

// render prints the sum with subtraction for negative coefficients:
// "-A*k1 + B*C*k2" rather than "-1*A*k1 + 1*B*C*k2".
func (a *Add) render(pr func(Expr) string, mulSep string) string {
	var sb strings.Builder
	for i, t := range a.terms {
		coeff, rest := splitCoeff(t)
		neg := coeff.Sign() < 0
		mag := new(big.Rat).Abs(coeff)

		var body string
		switch {
		case rest == nil:
			body = pr(&Num{val: mag})
		case mag.Cmp(ratOne) == 0:
			body = pr(rest)
		default:
			body = pr(&Num{val: mag}) + mulSep + pr(rest)
		}

		switch {
		case i == 0 && neg:
			sb.WriteString("-")
		case i > 0 && neg:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		sb.WriteString(body)
	}
	return sb.String()
}

// Mul is a product of factors.
type Mul struct{ factors []Expr }

// Prod builds the canonical product of factors: nested products are
// flattened, numeric factors folded into a single leading coefficient,
// and repeated bases merged into powers (B*B -> B^2).
func Prod(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Factors() []Expr { return m.factors }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if in, ok := s.(*Mul); ok {
			flat = append(flat, in.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	coeff := new(big.Rat).SetInt64(1)
	type group struct {
		base Expr
		exps []Expr
	}
	groups := map[string]*group{}
	keys := make([]string, 0, len(flat))
	for _, f := range flat {
		if n, ok := f.(*Num); ok {
			coeff.Mul(coeff, n.val)
			continue
		}
		base, exp := splitPower(f)
		key := base.String()
		g, ok := groups[key]
		if !ok {
			g = &group{base: base}
			groups[key] = g
			keys = append(keys, key)
		}
		g.exps = append(g.exps, exp)
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}
	sort.Strings(keys)

	factors := make([]Expr, 0, len(keys)+1)
	for _, key := range keys {
		g := groups[key]
		f := Power(g.base, Sum(g.exps...))
		if n, ok := f.(*Num); ok {
			coeff.Mul(coeff, n.val)
			continue
		}
		factors = append(factors, f)
	}

	if len(factors) == 0 {
		return &Num{val: coeff}
	}
	if coeff.Cmp(ratOne) != 0 {
		factors = append([]Expr{&Num{val: coeff}}, factors...)
	}
	if len(factors) == 1 {
		return factors[0]
	}
	return &Mul{factors: factors}
}

func splitPower(e Expr) (base, exp Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, Int(1)
}

func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, len(m.factors))
	for i := range m.factors {
		parts := make([]Expr, 0, len(m.factors))
		parts = append(parts, m.factors[i].Diff(name))
		for j, f := range m.factors {
			if j != i {
				parts = append(parts, f)
			}
		}
		terms[i] = Prod(parts...)
	}
	return Sum(terms...)
}

func (m *Mul) Subst(name string, val Expr) Expr {
	nf := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		nf[i] = f.Subst(name, val)
	}
	return Prod(nf...)
}

func (m *Mul) Eval(env map[string]float64) (float64, error) {
	acc := 1.0
	for _, f := range m.factors {
		v, err := f.Eval(env)
		if err != nil {
			return 0, err
		}
		acc *= v
	}
	return acc, nil
}

func (m *Mul) Equal(o Expr) bool {
	om, ok := o.(*Mul)
	if !ok || len(m.factors) != len(om.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(om.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) String() string {
	return m.render(func(e Expr) string { return e.String() }, "*", "(", ")")
}

func (m *Mul) LaTeX() string {
	return m.render(func(e Expr) string { return e.LaTeX() }, " ", "\\left(", "\\right)")
}

// render folds a leading negative coefficient into a sign prefix, so a
// canonical -1 coefficient prints as "-l1*x" rather than "-1*l1*x".
func (m *Mul) render(pr func(Expr) string, sep, lp, rp string) string {
	factors := m.factors
	sign := ""
	if n, ok := factors[0].(*Num); ok && len(factors) > 1 && n.val.Sign() < 0 {
		sign = "-"
		mag := new(big.Rat).Neg(n.val)
		if mag.Cmp(ratOne) == 0 {
			factors = factors[1:]
		} else {
			factors = append([]Expr{&Num{val: mag}}, factors[1:]...)
		}
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = lp + pr(f) + rp
		} else {
			parts[i] = pr(f)
		}
	}
	return sign + strings.Join(parts, sep)
}
