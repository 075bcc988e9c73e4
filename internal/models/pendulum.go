package models

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Pendulum is a damped torque-actuated pendulum. The state is (θ, ω) with
// θ = 0 hanging down, the control a single torque at the pivot:
//
//	θ̇ = ω, ω̇ = (u − b·ω − m·g·l·sin θ) / (m·l²)
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

func (p *Pendulum) StateDimension() int { return 2 }

func (p *Pendulum) ControlDimension() int { return 1 }

func (p *Pendulum) Evaluate(x, u mat.Vector, t float64, xdot *mat.VecDense) {
	theta := x.AtVec(0)
	omega := x.AtVec(1)
	torque := u.AtVec(0)

	inertia := p.Mass * p.Length * p.Length
	xdot.SetVec(0, omega)
	xdot.SetVec(1, (torque-p.Damping*omega-p.Mass*p.Gravity*p.Length*math.Sin(theta))/inertia)
}

func (p *Pendulum) Jacobian(x, u mat.Vector, t float64, jac *mat.Dense) {
	theta := x.AtVec(0)

	inertia := p.Mass * p.Length * p.Length
	jac.Zero()
	jac.Set(0, 1, 1)
	jac.Set(1, 0, -p.Gravity*math.Cos(theta)/p.Length)
	jac.Set(1, 1, -p.Damping/inertia)
	jac.Set(1, 2, 1/inertia)
}
