package integrators

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/dynamics"
)

// Euler is the explicit first-order scheme x' = x + h f(x, u, t).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Integrate(model dynamics.Continuous, x, u mat.Vector, t, h float64, xnext *mat.VecDense) {
	n := model.StateDimension()
	xdot := mat.NewVecDense(n, nil)
	model.Evaluate(x, u, t, xdot)
	xnext.AddScaledVec(x, h, xdot)
}

// Jacobian writes [I, 0] + h ∂f/∂(x,u) into jac.
func (e *Euler) Jacobian(model dynamics.Continuous, x, u mat.Vector, t, h float64, jac *mat.Dense) {
	model.Jacobian(x, u, t, jac)
	jac.Scale(h, jac)
	for i := 0; i < model.StateDimension(); i++ {
		jac.Set(i, i, jac.At(i, i)+1)
	}
}
