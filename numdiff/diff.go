// Package numdiff estimates gradients by finite differences. It exists to
// cross-check symbolic derivatives: tests sample a point, evaluate the
// symbolic derivative tree there, and compare against the finite-difference
// estimate of the underlying expression.
package numdiff

import (
	"errors"
	"math"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// GradSpec estimates the gradient of a scalar function f : ℝⁿ → ℝ.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
type GradSpec struct {
	N int
	// Function of which to estimate the derivatives.
	// The argument x passed to this function is an n-vector.
	Object func(x []float64) float64
	// Finite difference method to use.
	Method Method
	// Relative step size used to compute absolute step size as
	// h = RelStep * sign(x0) * abs(x0). Selected automatically when zero.
	RelStep float64
	// Absolute step size. RelStep is used when AbsStep is zero.
	AbsStep float64
}

// Check validates the parameters before a Grad call.
func (gs *GradSpec) Check(x0, grad []float64) (err error) {
	switch {
	case gs.N <= 0:
		err = errors.New("negative dimensions")
	case gs.Method != Forward && gs.Method != Central:
		err = errors.New("unknown method")
	case gs.Object == nil:
		err = errors.New("object function is required")
	case gs.N != len(x0):
		err = errors.New("invalid x0 dimensions")
	case gs.N != len(grad):
		err = errors.New("invalid grad dimensions")
	}
	return
}

// Grad computes the finite-difference gradient of the object function at x0,
// storing the result in grad. x0 is restored before returning.
func (gs *GradSpec) Grad(x0, grad []float64) error {
	if err := gs.Check(x0, grad); err != nil {
		return err
	}

	h := gs.absoluteStep(x0)
	fun := gs.Object

	if gs.Method == Forward {
		f0 := fun(x0)
		for i, s := range h {
			t := x0[i]
			x0[i] = t + s
			grad[i] = (fun(x0) - f0) / s
			x0[i] = t
		}
		return nil
	}

	for i, s := range h {
		t := x0[i]
		x0[i] = t - s
		f1 := fun(x0)
		x0[i] = t + s
		f2 := fun(x0)
		grad[i] = (f2 - f1) / (2 * s)
		x0[i] = t
	}
	return nil
}

func (gs *GradSpec) absoluteStep(x0 []float64) []float64 {
	h := make([]float64, len(x0))

	var eps float64
	switch gs.Method {
	case Forward:
		eps = sqrtEps
	case Central:
		eps = cubeEps
	default:
		panic("unknown method")
	}

	abs := gs.AbsStep
	rel := gs.RelStep
	if abs == 0 && rel == 0 {
		for i, v := range x0 {
			h[i] = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		}
		return h
	}
	for i, v := range x0 {
		s := abs
		if s == 0 {
			s = math.Copysign(rel, v) * math.Abs(v)
		}
		d := (v + s) - v
		if d == 0 {
			s = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		}
		h[i] = s
	}
	return h
}
