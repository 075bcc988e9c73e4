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

// DroneProblem describes a hover-to-hover translation of a planar
// birotor. Rotor thrusts are boxed between zero and ThrustMax, the
// altitude is kept above ground by a one-sided state bound, and the
// cost references the hover thrust instead of zero control. Fields may
// be adjusted before calling MakeProblem.
type DroneProblem struct {
	N  int
	Tf float64

	Q  *mat.Dense
	R  *mat.Dense
	Qf *mat.Dense
	X0 *mat.VecDense
	Xf *mat.VecDense

	// ThrustMax caps each rotor; the lower bound is zero.
	ThrustMax float64
}

// NewDroneProblem returns the benchmark definition.
func NewDroneProblem() *DroneProblem {
	hover := models.NewDrone().HoverThrust()
	return &DroneProblem{
		N:         60,
		Tf:        3.0,
		Q:         cost.ConstantDiagonal(6, 1e-2),
		R:         cost.ConstantDiagonal(2, 1e-3),
		Qf:        cost.ConstantDiagonal(6, 100),
		X0:        mat.NewVecDense(6, nil),
		Xf:        mat.NewVecDense(6, []float64{2, 1, 0, 0, 0, 0}),
		ThrustMax: 2.5 * hover,
	}
}

// TimeStep returns the uniform step Tf/N.
func (p *DroneProblem) TimeStep() float64 { return p.Tf / float64(p.N) }

// MakeProblem assembles the problem: LQR tracking costs toward Xf with
// the hover thrust as control reference, RK4-discretized birotor
// dynamics, and the initial state. With addConstraints it attaches
// thrust boxes and the ground bound at every stage and a goal
// constraint at the last knot point.
func (p *DroneProblem) MakeProblem(addConstraints bool) *problem.Problem {
	prob := problem.New(p.N)

	drone := models.NewDrone()
	hover := drone.HoverThrust()
	uref := mat.NewVecDense(2, []float64{hover, hover})
	stage := cost.LQR(p.Q, p.R, p.Xf, uref, false)
	term := cost.LQR(p.Qf, mat.NewDense(2, 2, nil), p.Xf, uref, true)
	for k := 0; k < p.N; k++ {
		prob.SetCostFunction(stage, k)
	}
	prob.SetCostFunction(term, p.N)

	model := dynamics.Discretize(drone, integrators.NewRK4())
	for k := 0; k < p.N; k++ {
		prob.SetDynamics(model, k)
	}

	prob.SetInitialState(p.X0)

	if addConstraints {
		thrust := constraint.NewControlBound(
			[]float64{0, 0},
			[]float64{p.ThrustMax, p.ThrustMax},
		)
		ground := constraint.NewStateBound(
			[]float64{math.Inf(-1), 0, math.Inf(-1), math.Inf(-1), math.Inf(-1), math.Inf(-1)},
			[]float64{math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1)},
		)
		for k := 0; k < p.N; k++ {
			prob.SetConstraint(thrust, k)
			prob.SetConstraint(ground, k)
		}
		prob.SetConstraint(constraint.NewGoal(p.Xf), p.N)
	}
	return prob
}

// InitialTrajectory returns a hover-thrust trajectory with uniform step
// Tf/N.
func (p *DroneProblem) InitialTrajectory() *trajectory.Trajectory {
	hover := models.NewDrone().HoverThrust()
	u0 := mat.NewVecDense(2, []float64{hover, hover})

	traj := trajectory.New(6, 2, p.N)
	for k := 0; k < p.N; k++ {
		traj.SetControl(k, u0)
	}
	traj.SetUniformStep(p.TimeStep())
	return traj
}
