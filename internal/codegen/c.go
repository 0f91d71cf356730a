// Package codegen emits compilable C source for a built reaction system:
// the right-hand side and, optionally, the dense row-major Jacobian, both
// over (t, y[], k[]) with the system's declared index conventions.
package codegen

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/elowan/kinetix/internal/kinetics"
	"github.com/elowan/kinetix/internal/symbol"
)

// EmitC renders the system as C source. name prefixes the generated
// function names.
func EmitC(name string, sys *kinetics.System, withJacobian bool) (string, error) {
	idx := map[string]string{}
	for i, s := range sys.Species {
		idx[s] = fmt.Sprintf("y[%d]", i)
	}
	for j, v := range sys.RateVars {
		idx[v.Name()] = fmt.Sprintf("k[%d]", j)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "/* generated by kinetix: %s */\n", name)
	fmt.Fprintf(&sb, "/* species order: %s */\n", strings.Join(sys.Species, ", "))
	fmt.Fprintf(&sb, "/* rate constants: %s */\n", strings.Join(sys.RateNames(), ", "))
	sb.WriteString("#include <math.h>\n\n")

	fmt.Fprintf(&sb, "void %s_rhs(double t, const double y[], const double k[], double f[]) {\n", name)
	for i, d := range sys.Derivs {
		expr, err := cExpr(d, idx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "    f[%d] = %s;\n", i, expr)
	}
	sb.WriteString("}\n")

	if withJacobian {
		n := len(sys.Species)
		fmt.Fprintf(&sb, "\n/* dense row-major %dx%d Jacobian */\n", n, n)
		fmt.Fprintf(&sb, "void %s_jac(double t, const double y[], const double k[], double J[]) {\n", name)
		for i, row := range sys.Jacobian() {
			for j, e := range row {
				expr, err := cExpr(e, idx)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(&sb, "    J[%d*%d + %d] = %s;\n", i, n, j, expr)
			}
		}
		sb.WriteString("}\n")
	}
	return sb.String(), nil
}

func cExpr(e symbol.Expr, idx map[string]string) (string, error) {
	switch v := e.(type) {
	case *symbol.Num:
		return cRat(v.Rat()), nil

	case *symbol.Var:
		ref, ok := idx[v.Name()]
		if !ok {
			return "", fmt.Errorf("codegen: unbound symbol %q", v.Name())
		}
		return ref, nil

	case *symbol.Add:
		var sb strings.Builder
		for i, t := range v.Terms() {
			s, err := cExpr(t, idx)
			if err != nil {
				return "", err
			}
			switch {
			case i == 0:
				sb.WriteString(s)
			case strings.HasPrefix(s, "-"):
				sb.WriteString(" - " + s[1:])
			default:
				sb.WriteString(" + " + s)
			}
		}
		return sb.String(), nil

	case *symbol.Mul:
		factors := v.Factors()
		neg := false
		parts := make([]string, 0, len(factors))
		// Canonical products carry at most one leading numeric factor.
		if n, ok := factors[0].(*symbol.Num); ok {
			r := n.Rat()
			if r.Sign() < 0 {
				neg = true
				r.Neg(r)
			}
			if !(r.IsInt() && r.Num().Int64() == 1) {
				parts = append(parts, cRat(r))
			}
			factors = factors[1:]
		}
		for _, f := range factors {
			s, err := cExpr(f, idx)
			if err != nil {
				return "", err
			}
			if _, isAdd := f.(*symbol.Add); isAdd {
				s = "(" + s + ")"
			}
			parts = append(parts, s)
		}
		out := strings.Join(parts, "*")
		if neg {
			out = "-" + out
		}
		return out, nil

	case *symbol.Pow:
		base, err := cExpr(v.Base(), idx)
		if err != nil {
			return "", err
		}
		switch v.Base().(type) {
		case *symbol.Add, *symbol.Mul:
			base = "(" + base + ")"
		}
		en, ok := v.Exp().(*symbol.Num)
		if !ok {
			return "", fmt.Errorf("codegen: non-numeric exponent in %s", e)
		}
		if en.IsInteger() {
			switch n := en.Rat().Num().Int64(); n {
			case 2:
				return base + "*" + base, nil
			case 3:
				return base + "*" + base + "*" + base, nil
			default:
				return fmt.Sprintf("pow(%s, %d)", base, n), nil
			}
		}
		return fmt.Sprintf("pow(%s, %s)", base, cRat(en.Rat())), nil
	}
	return "", fmt.Errorf("codegen: cannot render %s", e)
}

// cRat prints an exact rational as a C double expression.
func cRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String() + ".0"
	}
	return fmt.Sprintf("(%s.0/%s.0)", r.Num().String(), r.Denom().String())
}
