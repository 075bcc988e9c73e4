package problems

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/constraint"
	"github.com/san-kum/trajopt/internal/cost"
	"github.com/san-kum/trajopt/internal/dynamics"
	"github.com/san-kum/trajopt/internal/integrators"
	"github.com/san-kum/trajopt/internal/models"
	"github.com/san-kum/trajopt/internal/problem"
	"github.com/san-kum/trajopt/internal/trajectory"
)

// PendulumProblem describes the swing-up of a damped pendulum from the
// hanging rest state to the upright pose. The torque bound sits below
// the peak gravity torque, so feasible trajectories must pump energy
// over several swings. Fields may be adjusted before calling
// MakeProblem.
type PendulumProblem struct {
	N  int
	Tf float64

	Q  *mat.Dense
	R  *mat.Dense
	Qf *mat.Dense
	X0 *mat.VecDense
	Xf *mat.VecDense
	U0 *mat.VecDense

	// TorqueBound bounds the pivot torque symmetrically.
	TorqueBound float64
}

// NewPendulumProblem returns the swing-up benchmark definition.
func NewPendulumProblem() *PendulumProblem {
	return &PendulumProblem{
		N:           80,
		Tf:          4.0,
		Q:           cost.ConstantDiagonal(2, 1e-2),
		R:           cost.ConstantDiagonal(1, 1e-1),
		Qf:          cost.ConstantDiagonal(2, 100),
		X0:          mat.NewVecDense(2, nil),
		Xf:          mat.NewVecDense(2, []float64{math.Pi, 0}),
		U0:          mat.NewVecDense(1, []float64{1.0}),
		TorqueBound: 8.0,
	}
}

// TimeStep returns the uniform step Tf/N.
func (p *PendulumProblem) TimeStep() float64 { return p.Tf / float64(p.N) }

// MakeProblem assembles the problem: LQR tracking costs toward the
// upright pose, RK4-discretized pendulum dynamics, and the initial
// state. With addConstraints it attaches torque bounds at every stage
// and a goal constraint at the last knot point.
func (p *PendulumProblem) MakeProblem(addConstraints bool) *problem.Problem {
	prob := problem.New(p.N)

	uref := mat.NewVecDense(1, nil)
	stage := cost.LQR(p.Q, p.R, p.Xf, uref, false)
	term := cost.LQR(p.Qf, mat.NewDense(1, 1, nil), p.Xf, uref, true)
	for k := 0; k < p.N; k++ {
		prob.SetCostFunction(stage, k)
	}
	prob.SetCostFunction(term, p.N)

	model := dynamics.Discretize(models.NewPendulum(), integrators.NewRK4())
	for k := 0; k < p.N; k++ {
		prob.SetDynamics(model, k)
	}

	prob.SetInitialState(p.X0)

	if addConstraints {
		lb := []float64{-p.TorqueBound}
		ub := []float64{p.TorqueBound}
		for k := 0; k < p.N; k++ {
			prob.SetConstraint(constraint.NewControlBound(lb, ub), k)
		}
		prob.SetConstraint(constraint.NewGoal(p.Xf), p.N)
	}
	return prob
}

// InitialTrajectory returns a trajectory with uniform step Tf/N and
// every control set to U0.
func (p *PendulumProblem) InitialTrajectory() *trajectory.Trajectory {
	traj := trajectory.New(2, 1, p.N)
	for k := 0; k < p.N; k++ {
		traj.SetControl(k, p.U0)
	}
	traj.SetUniformStep(p.TimeStep())
	return traj
}
