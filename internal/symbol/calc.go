package symbol

import "sort"

// Neg returns -e.
func Neg(e Expr) Expr { return Prod(Int(-1), e) }

// Diff differentiates e with respect to name and returns the canonical form.
func Diff(e Expr, name string) Expr { return e.Diff(name).Simplify() }

// Jacobian returns the matrix of partial derivatives of exprs with respect
// to vars: one row per expression, one column per variable, both in the
// order given.
func Jacobian(exprs []Expr, vars []*Var) [][]Expr {
	jac := make([][]Expr, len(exprs))
	for i, e := range exprs {
		jac[i] = make([]Expr, len(vars))
		for j, v := range vars {
			jac[i][j] = Diff(e, v.Name())
		}
	}
	return jac
}

// Vars returns the sorted names of the free variables of e.
func Vars(e Expr) []string {
	seen := map[string]struct{}{}
	collectVars(e, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectVars(e Expr, seen map[string]struct{}) {
	switch v := e.(type) {
	case *Var:
		seen[v.Name()] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectVars(t, seen)
		}
	case *Mul:
		for _, f := range v.factors {
			collectVars(f, seen)
		}
	case *Pow:
		collectVars(v.base, seen)
		collectVars(v.exp, seen)
	}
}
