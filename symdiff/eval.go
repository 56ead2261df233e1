// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symdiff

import (
	"errors"
	"fmt"
	"math"
)

// VariableNotFoundError reports an evaluation against a binding set that is
// missing a referenced variable.
type VariableNotFoundError struct {
	Name string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("symdiff: variable %q not bound", e.Name)
}

// Eval evaluates the tree numerically under the given variable bindings.
// A reference to an unbound variable is a hard failure.
func Eval(t *Tree, bindings map[string]float64) (float64, error) {
	switch t.kind {
	case KindNum:
		return t.num, nil
	case KindVar:
		v, ok := bindings[t.name]
		if !ok {
			return 0, &VariableNotFoundError{Name: t.name}
		}
		return v, nil
	}
	args := make([]float64, len(t.args))
	for i, a := range t.args {
		v, err := Eval(a, bindings)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return applyOp(t.op, args)
}

// applyOp computes one operator over numeric children. Arity violations are
// internal invariant breaks and panic; numeric domain problems (division by
// zero, ln of a non-positive value) are reported as errors.
func applyOp(op string, args []float64) (float64, error) {
	switch op {
	case OpAdd:
		acc := 0.0
		for _, v := range args {
			acc += v
		}
		return acc, nil
	case OpSub:
		if len(args) != 2 {
			panic("symdiff: '-' expects two operands")
		}
		return args[0] - args[1], nil
	case OpMul:
		acc := 1.0
		for _, v := range args {
			acc *= v
		}
		return acc, nil
	case OpDiv:
		if len(args) != 2 {
			panic("symdiff: '/' expects two operands")
		}
		if args[1] == 0 {
			return 0, errors.New("symdiff: division by zero")
		}
		return args[0] / args[1], nil
	case OpPow:
		if len(args) != 2 {
			panic("symdiff: '**' expects two operands")
		}
		return math.Pow(args[0], args[1]), nil
	case OpLn:
		if len(args) != 1 {
			panic("symdiff: 'ln' expects one operand")
		}
		if args[0] <= 0 {
			return 0, fmt.Errorf("symdiff: ln of non-positive value %g", args[0])
		}
		return math.Log(args[0]), nil
	case OpExp:
		if len(args) != 1 {
			panic("symdiff: 'exp' expects one operand")
		}
		return math.Exp(args[0]), nil
	}
	panic(fmt.Sprintf("symdiff: unknown operator %q", op))
}
