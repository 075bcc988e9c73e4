// Package models provides the benchmark continuous dynamics models.
package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
)

// TripleIntegrator is a linear chain of three integrators per degree of
// freedom. The state stacks position, velocity and acceleration blocks of
// size dof, and the control drives the jerk:
//
//	ṗ = v, v̇ = a, ȧ = u
type TripleIntegrator struct {
	dof int
}

// NewTripleIntegrator builds the model with the given degrees of freedom.
func NewTripleIntegrator(dof int) *TripleIntegrator {
	assert.Assertf(dof > 0, "degrees of freedom must be greater than zero")
	return &TripleIntegrator{dof: dof}
}

func (ti *TripleIntegrator) StateDimension() int { return 3 * ti.dof }

func (ti *TripleIntegrator) ControlDimension() int { return ti.dof }

func (ti *TripleIntegrator) Evaluate(x, u mat.Vector, t float64, xdot *mat.VecDense) {
	d := ti.dof
	assert.Assertf(x.Len() == 3*d, "inconsistent state dimension for the triple integrator")
	assert.Assertf(u.Len() == d, "inconsistent control dimension for the triple integrator")
	for i := 0; i < 2*d; i++ {
		xdot.SetVec(i, x.AtVec(i+d))
	}
	for j := 0; j < d; j++ {
		xdot.SetVec(2*d+j, u.AtVec(j))
	}
}

func (ti *TripleIntegrator) Jacobian(x, u mat.Vector, t float64, jac *mat.Dense) {
	d := ti.dof
	jac.Zero()
	for i := 0; i < 2*d; i++ {
		jac.Set(i, i+d, 1)
	}
	for j := 0; j < d; j++ {
		jac.Set(2*d+j, 3*d+j, 1)
	}
}
