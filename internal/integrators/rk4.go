// Package integrators provides the discretization schemes that advance a
// continuous model across one segment of a trajectory. Every scheme
// propagates the model Jacobian through its stages by the chain rule, so
// the discrete derivatives a solver consumes are exact.
package integrators

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
	"github.com/san-kum/trajopt/internal/dynamics"
)

// RK4 is the classic fourth-order Runge-Kutta scheme. It holds no state so
// a single instance can serve shared models across stages.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Integrate(model dynamics.Continuous, x, u mat.Vector, t, h float64, xnext *mat.VecDense) {
	n := model.StateDimension()

	k1 := mat.NewVecDense(n, nil)
	k2 := mat.NewVecDense(n, nil)
	k3 := mat.NewVecDense(n, nil)
	k4 := mat.NewVecDense(n, nil)
	xs := mat.NewVecDense(n, nil)

	model.Evaluate(x, u, t, k1)
	xs.AddScaledVec(x, 0.5*h, k1)
	model.Evaluate(xs, u, t+0.5*h, k2)
	xs.AddScaledVec(x, 0.5*h, k2)
	model.Evaluate(xs, u, t+0.5*h, k3)
	xs.AddScaledVec(x, h, k3)
	model.Evaluate(xs, u, t+h, k4)

	for i := 0; i < n; i++ {
		xnext.SetVec(i, x.AtVec(i)+h/6*(k1.AtVec(i)+2*k2.AtVec(i)+2*k3.AtVec(i)+k4.AtVec(i)))
	}
}

// Jacobian differentiates the full scheme. With A_i, B_i the continuous
// Jacobian blocks at the i-th sample state, the slope derivatives chain as
//
//	dk1 = A1,            B1
//	dk2 = A2(I + h/2 dk1x), A2 h/2 dk1u + B2
//
// and so on through dk4; the discrete blocks are I + h/6 Σ w_i dk_ix and
// h/6 Σ w_i dk_iu with the classic weights 1,2,2,1.
func (r *RK4) Jacobian(model dynamics.Continuous, x, u mat.Vector, t, h float64, jac *mat.Dense) {
	n := model.StateDimension()
	m := model.ControlDimension()
	jr, jc := jac.Dims()
	assert.Assertf(jr == n && jc == n+m, "discrete Jacobian must be %d x %d", n, n+m)

	// Recompute the sample states of Integrate.
	k1 := mat.NewVecDense(n, nil)
	k2 := mat.NewVecDense(n, nil)
	k3 := mat.NewVecDense(n, nil)
	x2 := mat.NewVecDense(n, nil)
	x3 := mat.NewVecDense(n, nil)
	x4 := mat.NewVecDense(n, nil)
	model.Evaluate(x, u, t, k1)
	x2.AddScaledVec(x, 0.5*h, k1)
	model.Evaluate(x2, u, t+0.5*h, k2)
	x3.AddScaledVec(x, 0.5*h, k2)
	model.Evaluate(x3, u, t+0.5*h, k3)
	x4.AddScaledVec(x, h, k3)

	j1 := mat.NewDense(n, n+m, nil)
	j2 := mat.NewDense(n, n+m, nil)
	j3 := mat.NewDense(n, n+m, nil)
	j4 := mat.NewDense(n, n+m, nil)
	model.Jacobian(x, u, t, j1)
	model.Jacobian(x2, u, t+0.5*h, j2)
	model.Jacobian(x3, u, t+0.5*h, j3)
	model.Jacobian(x4, u, t+h, j4)

	a1 := j1.Slice(0, n, 0, n).(*mat.Dense)
	a2 := j2.Slice(0, n, 0, n).(*mat.Dense)
	a3 := j3.Slice(0, n, 0, n).(*mat.Dense)
	a4 := j4.Slice(0, n, 0, n).(*mat.Dense)

	dk2x := mat.NewDense(n, n, nil)
	dk3x := mat.NewDense(n, n, nil)
	dk4x := mat.NewDense(n, n, nil)
	tmp := mat.NewDense(n, n, nil)

	scaleAddEye(tmp, 0.5*h, a1)
	dk2x.Mul(a2, tmp)
	scaleAddEye(tmp, 0.5*h, dk2x)
	dk3x.Mul(a3, tmp)
	scaleAddEye(tmp, h, dk3x)
	dk4x.Mul(a4, tmp)

	sum := mat.NewDense(n, n, nil)
	sum.Add(a1, dk4x)
	tmp.Add(dk2x, dk3x)
	tmp.Scale(2, tmp)
	sum.Add(sum, tmp)

	dx := jac.Slice(0, n, 0, n).(*mat.Dense)
	dx.Scale(h/6, sum)
	for i := 0; i < n; i++ {
		dx.Set(i, i, dx.At(i, i)+1)
	}

	if m == 0 {
		return
	}
	b1 := j1.Slice(0, n, n, n+m).(*mat.Dense)
	b2 := j2.Slice(0, n, n, n+m).(*mat.Dense)
	b3 := j3.Slice(0, n, n, n+m).(*mat.Dense)
	b4 := j4.Slice(0, n, n, n+m).(*mat.Dense)

	dk2u := mat.NewDense(n, m, nil)
	dk3u := mat.NewDense(n, m, nil)
	dk4u := mat.NewDense(n, m, nil)

	dk2u.Mul(a2, b1)
	dk2u.Scale(0.5*h, dk2u)
	dk2u.Add(dk2u, b2)
	dk3u.Mul(a3, dk2u)
	dk3u.Scale(0.5*h, dk3u)
	dk3u.Add(dk3u, b3)
	dk4u.Mul(a4, dk3u)
	dk4u.Scale(h, dk4u)
	dk4u.Add(dk4u, b4)

	sumU := mat.NewDense(n, m, nil)
	sumU.Add(b1, dk4u)
	tmpU := mat.NewDense(n, m, nil)
	tmpU.Add(dk2u, dk3u)
	tmpU.Scale(2, tmpU)
	sumU.Add(sumU, tmpU)

	du := jac.Slice(0, n, n, n+m).(*mat.Dense)
	du.Scale(h/6, sumU)
}

// scaleAddEye sets dst = I + s·a.
func scaleAddEye(dst *mat.Dense, s float64, a *mat.Dense) {
	dst.Scale(s, a)
	n, _ := dst.Dims()
	for i := 0; i < n; i++ {
		dst.Set(i, i, dst.At(i, i)+1)
	}
}
