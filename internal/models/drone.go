package models

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Drone is a planar birotor. The state is (p_x, p_y, θ, v_x, v_y, ω) and
// the control the two rotor thrusts (u_L, u_R). Thrust acts along the
// body-up axis; linear and angular drag oppose motion. Feasibility of the
// thrusts is the constraint layer's concern, the dynamics stay smooth.
type Drone struct {
	Mass      float64
	Inertia   float64
	ArmLength float64
	Gravity   float64
	DragCoeff float64
	AngDrag   float64
}

func NewDrone() *Drone {
	return &Drone{
		Mass:      1.0,
		Inertia:   0.1,
		ArmLength: 0.25,
		Gravity:   9.81,
		DragCoeff: 0.1,
		AngDrag:   0.05,
	}
}

func (d *Drone) StateDimension() int { return 6 }

func (d *Drone) ControlDimension() int { return 2 }

// HoverThrust returns the per-rotor thrust that balances gravity.
func (d *Drone) HoverThrust() float64 {
	return d.Mass * d.Gravity / 2
}

func (d *Drone) Evaluate(x, u mat.Vector, t float64, xdot *mat.VecDense) {
	theta := x.AtVec(2)
	vx := x.AtVec(3)
	vy := x.AtVec(4)
	omega := x.AtVec(5)
	left := u.AtVec(0)
	right := u.AtVec(1)

	total := left + right
	torque := (right - left) * d.ArmLength
	sin, cos := math.Sincos(theta)

	xdot.SetVec(0, vx)
	xdot.SetVec(1, vy)
	xdot.SetVec(2, omega)
	xdot.SetVec(3, (-total*sin-d.DragCoeff*vx)/d.Mass)
	xdot.SetVec(4, (total*cos-d.DragCoeff*vy)/d.Mass-d.Gravity)
	xdot.SetVec(5, (torque-d.AngDrag*omega)/d.Inertia)
}

func (d *Drone) Jacobian(x, u mat.Vector, t float64, jac *mat.Dense) {
	theta := x.AtVec(2)
	left := u.AtVec(0)
	right := u.AtVec(1)

	total := left + right
	sin, cos := math.Sincos(theta)

	jac.Zero()
	jac.Set(0, 3, 1)
	jac.Set(1, 4, 1)
	jac.Set(2, 5, 1)

	jac.Set(3, 2, -total*cos/d.Mass)
	jac.Set(3, 3, -d.DragCoeff/d.Mass)
	jac.Set(3, 6, -sin/d.Mass)
	jac.Set(3, 7, -sin/d.Mass)

	jac.Set(4, 2, -total*sin/d.Mass)
	jac.Set(4, 4, -d.DragCoeff/d.Mass)
	jac.Set(4, 6, cos/d.Mass)
	jac.Set(4, 7, cos/d.Mass)

	jac.Set(5, 5, -d.AngDrag/d.Inertia)
	jac.Set(5, 6, -d.ArmLength/d.Inertia)
	jac.Set(5, 7, d.ArmLength/d.Inertia)
}
