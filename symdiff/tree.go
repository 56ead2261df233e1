// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symdiff implements the symbolic expression trees used to describe
// energy models and constraints, together with exact symbolic
// differentiation, canonicalizing simplification and numeric evaluation.
//
// A tree is a tagged variant over three node kinds:
//   - a numeric constant
//   - a reference to a named variable
//   - an n-ary operator with an ordered child list
//
// Trees are immutable by convention: every transformation returns a new tree
// and subtrees may be shared freely. All trees are acyclic by construction.
package symdiff

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the node variants of a Tree.
type Kind uint8

const (
	KindNum Kind = iota // numeric constant
	KindVar             // named variable reference
	KindOp              // n-ary operator
)

// Operator symbols understood by the engine.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
	OpPow = "**"
	OpLn  = "ln"
	OpExp = "exp"
)

// Tree is a single expression node. Do not mutate a Tree after it has been
// handed to another component; build replacements with the constructors.
type Tree struct {
	kind Kind
	num  float64
	name string
	op   string
	args []*Tree
}

// Num returns a constant node.
func Num(v float64) *Tree { return &Tree{kind: KindNum, num: v} }

// Var returns a named-variable node.
func Var(name string) *Tree { return &Tree{kind: KindVar, name: name} }

// Op returns an operator node with the given ordered children.
// Unary and binary operators are validated for arity when differentiated
// or evaluated, not at construction.
func Op(symbol string, args ...*Tree) *Tree {
	return &Tree{kind: KindOp, op: symbol, args: args}
}

// Convenience constructors for the operator set.
func Add(args ...*Tree) *Tree { return Op(OpAdd, args...) }
func Sub(a, b *Tree) *Tree    { return Op(OpSub, a, b) }
func Mul(args ...*Tree) *Tree { return Op(OpMul, args...) }
func Div(a, b *Tree) *Tree    { return Op(OpDiv, a, b) }
func Pow(a, b *Tree) *Tree    { return Op(OpPow, a, b) }
func Ln(a *Tree) *Tree        { return Op(OpLn, a) }
func Exp(a *Tree) *Tree       { return Op(OpExp, a) }

// Kind reports the node variant.
func (t *Tree) Kind() Kind { return t.kind }

// IsNum reports whether t is a numeric constant.
func (t *Tree) IsNum() bool { return t.kind == KindNum }

// IsVar reports whether t is a variable reference.
func (t *Tree) IsVar() bool { return t.kind == KindVar }

// Value returns the constant value of a KindNum node.
func (t *Tree) Value() float64 {
	if t.kind != KindNum {
		panic("symdiff: Value on non-constant node")
	}
	return t.num
}

// Name returns the variable name of a KindVar node.
func (t *Tree) Name() string {
	if t.kind != KindVar {
		panic("symdiff: Name on non-variable node")
	}
	return t.name
}

// Operator returns the operator symbol of a KindOp node.
func (t *Tree) Operator() string {
	if t.kind != KindOp {
		panic("symdiff: Operator on non-operator node")
	}
	return t.op
}

// Args returns the ordered child list of a KindOp node.
// The returned slice is owned by the tree and must not be modified.
func (t *Tree) Args() []*Tree {
	if t.kind != KindOp {
		panic("symdiff: Args on non-operator node")
	}
	return t.args
}

// FreeVariables appends the distinct variable names referenced by t, in
// first-appearance order.
func (t *Tree) FreeVariables() []string {
	seen := map[string]bool{}
	var names []string
	var walk func(n *Tree)
	walk = func(n *Tree) {
		switch n.kind {
		case KindVar:
			if !seen[n.name] {
				seen[n.name] = true
				names = append(names, n.name)
			}
		case KindOp:
			for _, a := range n.args {
				walk(a)
			}
		}
	}
	walk(t)
	return names
}

// Substitute returns a tree with every reference to name replaced by rep.
// Untouched subtrees are shared with the original.
func Substitute(t *Tree, name string, rep *Tree) *Tree {
	switch t.kind {
	case KindNum:
		return t
	case KindVar:
		if t.name == name {
			return rep
		}
		return t
	}
	changed := false
	args := make([]*Tree, len(t.args))
	for i, a := range t.args {
		args[i] = Substitute(a, name, rep)
		changed = changed || args[i] != a
	}
	if !changed {
		return t
	}
	return Op(t.op, args...)
}

// String renders the tree in infix form for diagnostics.
func (t *Tree) String() string {
	switch t.kind {
	case KindNum:
		return strconv.FormatFloat(t.num, 'g', -1, 64)
	case KindVar:
		return t.name
	}
	switch t.op {
	case OpLn, OpExp:
		parts := make([]string, len(t.args))
		for i, a := range t.args {
			parts[i] = a.String()
		}
		return t.op + "(" + strings.Join(parts, ",") + ")"
	}
	parts := make([]string, len(t.args))
	for i, a := range t.args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, t.op) + ")"
}

// Equal reports structural equality of two trees.
func Equal(a, b *Tree) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNum:
		return a.num == b.num
	case KindVar:
		return a.name == b.name
	}
	if a.op != b.op || len(a.args) != len(b.args) {
		return false
	}
	for i := range a.args {
		if !Equal(a.args[i], b.args[i]) {
			return false
		}
	}
	return true
}

func badTree(t *Tree) string {
	return fmt.Sprintf("symdiff: malformed tree %q", t.String())
}
