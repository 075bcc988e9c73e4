package models

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Unicycle is the kinematic car. The state is (p_x, p_y, θ) and the
// control (v, ω):
//
//	ṗ_x = v cos θ, ṗ_y = v sin θ, θ̇ = ω
type Unicycle struct{}

func NewUnicycle() *Unicycle {
	return &Unicycle{}
}

func (un *Unicycle) StateDimension() int { return 3 }

func (un *Unicycle) ControlDimension() int { return 2 }

func (un *Unicycle) Evaluate(x, u mat.Vector, t float64, xdot *mat.VecDense) {
	theta := x.AtVec(2)
	v := u.AtVec(0)
	omega := u.AtVec(1)
	sin, cos := math.Sincos(theta)
	xdot.SetVec(0, v*cos)
	xdot.SetVec(1, v*sin)
	xdot.SetVec(2, omega)
}

func (un *Unicycle) Jacobian(x, u mat.Vector, t float64, jac *mat.Dense) {
	theta := x.AtVec(2)
	v := u.AtVec(0)
	sin, cos := math.Sincos(theta)
	jac.Zero()
	jac.Set(0, 2, -v*sin)
	jac.Set(0, 3, cos)
	jac.Set(1, 2, v*cos)
	jac.Set(1, 3, sin)
	jac.Set(2, 4, 1)
}
