// Package symbol is a small symbolic-algebra kernel: exact rational
// constants, variables, sums, products, and powers, with deterministic
// canonical simplification, differentiation, substitution, and numeric
// evaluation.
//
// It covers exactly what building and differentiating polynomial ODE
// right-hand sides needs. There are no transcendental functions and no
// equation solving.
package symbol
