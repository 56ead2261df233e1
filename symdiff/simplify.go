// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symdiff

import "math"

// Simplify canonicalizes a tree by constant folding and the structural
// identities below. It exists to make provable zeros detectable: any subtree
// with no free variable references folds to a single constant node. No
// canonical form beyond that is promised; Simplify is not a general reducer.
//
// Identities applied after folding the children:
//   - additive identity: zero terms drop from sums, x-0 = x
//   - multiplicative identity: unit factors drop from products, x/1 = x
//   - zero propagation: a product with a zero factor is zero,
//     0/x = 0, 0-x stays (kept as -1*x would change shape, not value)
//   - power identities: x**0 = 1, x**1 = x, 1**x = 1
//   - single-child sums/products collapse to the child
func Simplify(t *Tree) *Tree {
	switch t.kind {
	case KindNum, KindVar:
		return t
	}

	args := make([]*Tree, len(t.args))
	allNum := true
	for i, a := range t.args {
		args[i] = Simplify(a)
		allNum = allNum && args[i].IsNum()
	}

	if allNum {
		if v, ok := foldOp(t.op, args); ok {
			return Num(v)
		}
	}

	switch t.op {
	case OpAdd:
		kept := args[:0]
		for _, a := range args {
			if a.IsNum() && a.num == 0 {
				continue
			}
			kept = append(kept, a)
		}
		switch len(kept) {
		case 0:
			return Num(0)
		case 1:
			return kept[0]
		}
		return Add(kept...)

	case OpSub:
		if len(args) == 2 && args[1].IsNum() && args[1].num == 0 {
			return args[0]
		}

	case OpMul:
		kept := args[:0]
		for _, a := range args {
			if a.IsNum() {
				if a.num == 0 {
					return Num(0)
				}
				if a.num == 1 {
					continue
				}
			}
			kept = append(kept, a)
		}
		switch len(kept) {
		case 0:
			return Num(1)
		case 1:
			return kept[0]
		}
		return Mul(kept...)

	case OpDiv:
		if len(args) == 2 {
			if args[0].IsNum() && args[0].num == 0 {
				return Num(0)
			}
			if args[1].IsNum() && args[1].num == 1 {
				return args[0]
			}
		}

	case OpPow:
		if len(args) == 2 {
			if args[1].IsNum() {
				if args[1].num == 0 {
					return Num(1)
				}
				if args[1].num == 1 {
					return args[0]
				}
			}
			if args[0].IsNum() && args[0].num == 1 {
				return Num(1)
			}
		}
	}

	return Op(t.op, args...)
}

// IsZero reports whether t is provably the zero constant, i.e. whether it
// simplifies to a numeric node equal to 0.
func IsZero(t *Tree) bool {
	s := Simplify(t)
	return s.IsNum() && s.num == 0
}

// foldOp evaluates an operator over constant children. It declines to fold
// (returns ok=false) when the result would be non-finite, so that domain
// errors surface at evaluation time instead of being baked into trees.
func foldOp(op string, args []*Tree) (v float64, ok bool) {
	nums := make([]float64, len(args))
	for i, a := range args {
		nums[i] = a.num
	}
	v, err := applyOp(op, nums)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
