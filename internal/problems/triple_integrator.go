// Package problems provides ready-made benchmark problem definitions
// used by the CLI, the configuration layer, and tests.
package problems

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
	"github.com/san-kum/trajopt/internal/constraint"
	"github.com/san-kum/trajopt/internal/cost"
	"github.com/san-kum/trajopt/internal/dynamics"
	"github.com/san-kum/trajopt/internal/integrators"
	"github.com/san-kum/trajopt/internal/models"
	"github.com/san-kum/trajopt/internal/problem"
	"github.com/san-kum/trajopt/internal/trajectory"
)

// TripleIntegratorProblem describes a point-to-point move of a chain
// of three integrators per degree of freedom, with symmetric control
// bounds at every stage and a terminal goal. Fields may be adjusted
// before calling MakeProblem.
type TripleIntegratorProblem struct {
	Dof int
	N   int
	H   float64

	Q  *mat.Dense
	R  *mat.Dense
	Qf *mat.Dense
	X0 *mat.VecDense
	Xf *mat.VecDense

	// Ubnd holds the symmetric control bound per degree of freedom.
	Ubnd []float64
}

// NewTripleIntegratorProblem returns the benchmark definition for the
// given number of degrees of freedom.
func NewTripleIntegratorProblem(dof int) *TripleIntegratorProblem {
	assert.Assertf(dof > 0, "degrees of freedom must be greater than zero")
	n := 3 * dof
	p := &TripleIntegratorProblem{
		Dof:  dof,
		N:    10,
		H:    0.1,
		Q:    cost.ConstantDiagonal(n, 1.0),
		R:    cost.ConstantDiagonal(dof, 1e-3),
		Qf:   cost.ConstantDiagonal(n, 1e5),
		X0:   mat.NewVecDense(n, nil),
		Xf:   mat.NewVecDense(n, nil),
		Ubnd: make([]float64, dof),
	}
	for i := 0; i < dof; i++ {
		p.Xf.SetVec(i, float64(i+1))
		p.X0.SetVec(i, -float64(i+1))
		p.Ubnd[i] = 100 * float64(i+1)
	}
	return p
}

func (p *TripleIntegratorProblem) StateDimension() int { return 3 * p.Dof }

func (p *TripleIntegratorProblem) ControlDimension() int { return p.Dof }

// MakeProblem assembles the problem: LQR tracking costs toward Xf,
// RK4-discretized dynamics, and the initial state. With
// addConstraints it also attaches control bounds at every stage and a
// goal constraint at the last knot point. The terminal cost carries a
// zero control penalty so it can be evaluated without a control.
func (p *TripleIntegratorProblem) MakeProblem(addConstraints bool) *problem.Problem {
	m := p.ControlDimension()
	prob := problem.New(p.N)

	uref := mat.NewVecDense(m, nil)
	stage := cost.LQR(p.Q, p.R, p.Xf, uref, false)
	term := cost.LQR(p.Qf, mat.NewDense(m, m, nil), p.Xf, uref, true)
	for k := 0; k < p.N; k++ {
		prob.SetCostFunction(stage, k)
	}
	prob.SetCostFunction(term, p.N)

	model := dynamics.Discretize(models.NewTripleIntegrator(p.Dof), integrators.NewRK4())
	for k := 0; k < p.N; k++ {
		prob.SetDynamics(model, k)
	}

	prob.SetInitialState(p.X0)

	if addConstraints {
		lb := make([]float64, m)
		ub := make([]float64, m)
		for i, b := range p.Ubnd {
			lb[i] = -b
			ub[i] = b
		}
		for k := 0; k < p.N; k++ {
			prob.SetConstraint(constraint.NewControlBound(lb, ub), k)
		}
		prob.SetConstraint(constraint.NewGoal(p.Xf), p.N)
	}
	return prob
}

// InitialTrajectory returns a zero-control trajectory with uniform
// step H, sized for this problem.
func (p *TripleIntegratorProblem) InitialTrajectory() *trajectory.Trajectory {
	traj := trajectory.New(p.StateDimension(), p.ControlDimension(), p.N)
	traj.SetUniformStep(p.H)
	return traj
}
