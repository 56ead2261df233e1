// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeString(t *testing.T) {
	cases := []struct {
		expr *Tree
		want string
	}{
		{Num(3), "3"},
		{Num(-0.5), "-0.5"},
		{Var("FCC_A1_0_AL"), "FCC_A1_0_AL"},
		{Add(Var("x"), Num(1)), "(x+1)"},
		{Mul(Var("x"), Var("y"), Num(2)), "(x*y*2)"},
		{Pow(Var("x"), Num(2)), "(x**2)"},
		{Ln(Var("x")), "ln(x)"},
		{Exp(Sub(Var("x"), Var("y"))), "exp((x-y))"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.expr.String())
	}
}

func TestFreeVariables(t *testing.T) {
	expr := Add(
		Mul(Var("b"), Var("a")),
		Ln(Var("b")),
		Num(4),
		Var("c"),
	)
	// First-appearance order, duplicates dropped.
	want := []string{"b", "a", "c"}
	if diff := cmp.Diff(want, expr.FreeVariables()); diff != "" {
		t.Errorf("free variables mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, Num(1).FreeVariables())
}

func TestSubstitute(t *testing.T) {
	expr := Mul(Var("T"), Ln(Var("T")), Var("y"))
	got := Substitute(expr, "T", Num(1000))
	want := Mul(Num(1000), Ln(Num(1000)), Var("y"))
	assert.True(t, Equal(want, got), "got %s", got)

	// The original is untouched and untouched subtrees are shared.
	assert.Equal(t, "(T*ln(T)*y)", expr.String())
	same := Substitute(expr, "zzz", Num(0))
	assert.Same(t, expr, same)
}

func TestEqual(t *testing.T) {
	a := Add(Var("x"), Num(2))
	assert.True(t, Equal(a, Add(Var("x"), Num(2))))
	assert.False(t, Equal(a, Add(Num(2), Var("x")))) // order matters
	assert.False(t, Equal(a, Sub(Var("x"), Num(2))))
	assert.False(t, Equal(a, nil))
	assert.True(t, Equal(nil, nil))
}

func TestAccessorPanics(t *testing.T) {
	require.Panics(t, func() { Var("x").Value() })
	require.Panics(t, func() { Num(1).Name() })
	require.Panics(t, func() { Num(1).Operator() })
	require.Panics(t, func() { Var("x").Args() })
}
