// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symdiff

// Differentiate returns the exact symbolic partial derivative of t with
// respect to the named variable. No simplification is attempted: the result
// is the raw application of the standard rules and may contain trivially
// reducible subtrees. Callers test for provable zeros with Simplify/IsZero.
//
// Rules applied:
//   - constants and other variables differentiate to the zero constant
//   - d/dx x = 1
//   - sums and differences differentiate termwise
//   - n-ary products use the generalized product rule
//   - quotients use the quotient rule
//   - powers use d(u**v) = u**v · (v'·ln u + v·u'/u), with the constant
//     exponent short-circuit d(u**c) = c·u**(c-1)·u'
//   - d ln u = u'/u, d exp u = exp(u)·u'
//
// Differentiate panics on a malformed tree (unknown operator, wrong arity);
// such trees indicate a broken invariant upstream, never bad user input.
func Differentiate(t *Tree, wrt string) *Tree {
	switch t.kind {
	case KindNum:
		return Num(0)
	case KindVar:
		if t.name == wrt {
			return Num(1)
		}
		return Num(0)
	}

	switch t.op {
	case OpAdd, OpSub:
		args := make([]*Tree, len(t.args))
		for i, a := range t.args {
			args[i] = Differentiate(a, wrt)
		}
		return Op(t.op, args...)

	case OpMul:
		// Generalized product rule: sum over i of u_i' * prod(u_j, j != i).
		terms := make([]*Tree, len(t.args))
		for i := range t.args {
			factors := make([]*Tree, 0, len(t.args))
			factors = append(factors, Differentiate(t.args[i], wrt))
			for j, a := range t.args {
				if j != i {
					factors = append(factors, a)
				}
			}
			if len(factors) == 1 {
				terms[i] = factors[0]
			} else {
				terms[i] = Mul(factors...)
			}
		}
		if len(terms) == 1 {
			return terms[0]
		}
		return Add(terms...)

	case OpDiv:
		if len(t.args) != 2 {
			panic(badTree(t))
		}
		u, v := t.args[0], t.args[1]
		du, dv := Differentiate(u, wrt), Differentiate(v, wrt)
		return Div(Sub(Mul(du, v), Mul(u, dv)), Mul(v, v))

	case OpPow:
		if len(t.args) != 2 {
			panic(badTree(t))
		}
		u, v := t.args[0], t.args[1]
		du := Differentiate(u, wrt)
		if v.IsNum() {
			// d(u**c) = c * u**(c-1) * u'
			return Mul(Num(v.num), Pow(u, Num(v.num-1)), du)
		}
		dv := Differentiate(v, wrt)
		// d(u**v) = u**v * (v'*ln(u) + v*u'/u)
		return Mul(Pow(u, v), Add(Mul(dv, Ln(u)), Div(Mul(v, du), u)))

	case OpLn:
		if len(t.args) != 1 {
			panic(badTree(t))
		}
		return Div(Differentiate(t.args[0], wrt), t.args[0])

	case OpExp:
		if len(t.args) != 1 {
			panic(badTree(t))
		}
		return Mul(Exp(t.args[0]), Differentiate(t.args[0], wrt))
	}

	panic(badTree(t))
}
