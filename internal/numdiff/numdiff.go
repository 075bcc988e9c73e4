// Package numdiff approximates Jacobians by finite differences and checks
// analytic derivatives against them.
//
// The problem layer never differentiates anything itself; constraints,
// costs and dynamics must bring exact Jacobians. This package is the
// verification utility for those hand-written derivatives, not a fallback
// used by any solver path.
//
// Step sizes follow the central-difference rule h = ε^(1/3)·max(1, |z|)
// with the sign of z.
//
// # Reference
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
package numdiff

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/constraint"
	"github.com/san-kum/trajopt/internal/dynamics"
	"github.com/san-kum/trajopt/internal/problem"
)

var cubeEps = math.Pow(math.Nextafter(1, 2)-1, 1.0/3)

// Func evaluates y = f(z). The buffer y has the output length p passed to
// Jacobian; z must not be retained.
type Func func(z *mat.VecDense, y *mat.VecDense)

// Jacobian fills jac with the p×len(z0) central-difference approximation
// of f at z0.
func Jacobian(f Func, z0 mat.Vector, p int, jac *mat.Dense) {
	n := z0.Len()
	z := mat.VecDenseCopyOf(z0)
	f1 := mat.NewVecDense(p, nil)
	f2 := mat.NewVecDense(p, nil)

	for i := 0; i < n; i++ {
		zi := z.AtVec(i)
		s := math.Copysign(cubeEps, zi) * math.Max(1, math.Abs(zi))

		z.SetVec(i, zi-s)
		f(z, f1)
		z.SetVec(i, zi+s)
		f(z, f2)
		z.SetVec(i, zi)

		d := 1 / (2 * s)
		for j := 0; j < p; j++ {
			jac.Set(j, i, (f2.AtVec(j)-f1.AtVec(j))*d)
		}
	}
}

// CheckConstraint compares a constraint's analytic Jacobian at (x, u)
// against the central-difference approximation and returns the largest
// absolute deviation.
func CheckConstraint(c constraint.Constraint, x, u mat.Vector) float64 {
	n := x.Len()
	m := u.Len()
	p := c.OutputDimension()

	analytic := mat.NewDense(p, n+m, nil)
	c.Jacobian(x, u, analytic)

	approx := mat.NewDense(p, n+m, nil)
	Jacobian(func(z, y *mat.VecDense) {
		c.Evaluate(z.SliceVec(0, n), z.SliceVec(n, n+m), y)
	}, stack(x, u), p, approx)

	return maxAbsDiff(analytic, approx)
}

// CheckDynamics compares the discrete dynamics Jacobian at (x, u, t, h)
// against the central-difference approximation and returns the largest
// absolute deviation.
func CheckDynamics(model problem.Dynamics, x, u mat.Vector, t, h float64) float64 {
	n := model.StateDimension()
	m := model.ControlDimension()

	analytic := mat.NewDense(n, n+m, nil)
	model.Jacobian(x, u, t, h, analytic)

	approx := mat.NewDense(n, n+m, nil)
	Jacobian(func(z, y *mat.VecDense) {
		model.Evaluate(z.SliceVec(0, n), z.SliceVec(n, n+m), t, h, y)
	}, stack(x, u), n, approx)

	return maxAbsDiff(analytic, approx)
}

// CheckContinuous compares a continuous model's Jacobian at (x, u, t)
// against the central-difference approximation and returns the largest
// absolute deviation.
func CheckContinuous(model dynamics.Continuous, x, u mat.Vector, t float64) float64 {
	n := model.StateDimension()
	m := model.ControlDimension()

	analytic := mat.NewDense(n, n+m, nil)
	model.Jacobian(x, u, t, analytic)

	approx := mat.NewDense(n, n+m, nil)
	Jacobian(func(z, y *mat.VecDense) {
		model.Evaluate(z.SliceVec(0, n), z.SliceVec(n, n+m), t, y)
	}, stack(x, u), n, approx)

	return maxAbsDiff(analytic, approx)
}

func stack(x, u mat.Vector) *mat.VecDense {
	z := mat.NewVecDense(x.Len()+u.Len(), nil)
	for i := 0; i < x.Len(); i++ {
		z.SetVec(i, x.AtVec(i))
	}
	for j := 0; j < u.Len(); j++ {
		z.SetVec(x.Len()+j, u.AtVec(j))
	}
	return z
}

func maxAbsDiff(a, b *mat.Dense) float64 {
	r, c := a.Dims()
	worst := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := math.Abs(a.At(i, j) - b.At(i, j))
			if d > worst {
				worst = d
			}
		}
	}
	return worst
}
