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

// Scenario selects the unicycle benchmark variant.
type Scenario int

const (
	// Turn90 drives from the origin to (1.5, 1.5) while turning 90
	// degrees, subject only to velocity bounds.
	Turn90 Scenario = iota

	// ThreeObstacles crosses a field of three circular obstacles on
	// the diagonal, adding obstacle and position constraints.
	ThreeObstacles
)

// UnicycleProblem describes a kinematic unicycle driving to a goal
// pose. Fields may be adjusted before calling MakeProblem.
type UnicycleProblem struct {
	N  int
	Tf float64

	Q  *mat.Dense
	R  *mat.Dense
	Qf *mat.Dense
	X0 *mat.VecDense
	Xf *mat.VecDense
	U0 *mat.VecDense

	// VBound and WBound bound the linear and angular velocity.
	VBound float64
	WBound float64

	scenario Scenario
}

// NewUnicycleProblem returns the benchmark definition for the Turn90
// scenario.
func NewUnicycleProblem() *UnicycleProblem {
	return &UnicycleProblem{
		N:      100,
		Tf:     3.0,
		Q:      cost.ConstantDiagonal(3, 1e-2),
		R:      cost.ConstantDiagonal(2, 1e-2),
		Qf:     cost.ConstantDiagonal(3, 100),
		X0:     mat.NewVecDense(3, nil),
		Xf:     mat.NewVecDense(3, []float64{1.5, 1.5, math.Pi / 2}),
		U0:     mat.NewVecDense(2, []float64{0.1, 0.1}),
		VBound: 1.5,
		WBound: 1.5,
	}
}

// SetScenario selects the benchmark variant.
func (p *UnicycleProblem) SetScenario(s Scenario) { p.scenario = s }

// Scenario reports the selected benchmark variant.
func (p *UnicycleProblem) Scenario() Scenario { return p.scenario }

// TimeStep returns the uniform step Tf/N.
func (p *UnicycleProblem) TimeStep() float64 { return p.Tf / float64(p.N) }

// MakeProblem assembles the problem: LQR tracking costs toward Xf,
// RK4-discretized unicycle dynamics, and the initial state. With
// addConstraints it attaches velocity bounds at every stage, a goal
// constraint at the last knot point, and, for ThreeObstacles, circle
// obstacles and an x/y position box.
func (p *UnicycleProblem) MakeProblem(addConstraints bool) *problem.Problem {
	prob := problem.New(p.N)

	obstacles := constraint.NewCircle()
	var posBound *constraint.StateBound
	if p.scenario == ThreeObstacles {
		const scaling = 3.0
		p.Xf.SetVec(0, scaling)
		p.Xf.SetVec(1, scaling)
		p.Xf.SetVec(2, 0)
		radius := 0.425 * scaling / 2
		obstacles.AddObstacle(scaling*0.25, scaling*0.25, radius)
		obstacles.AddObstacle(scaling*0.50, scaling*0.50, radius)
		obstacles.AddObstacle(scaling*0.75, scaling*0.75, radius)
		posBound = constraint.NewStateBound(
			[]float64{0, 0, math.Inf(-1)},
			[]float64{scaling, scaling, math.Inf(1)},
		)
	}

	uref := mat.NewVecDense(2, nil)
	stage := cost.LQR(p.Q, p.R, p.Xf, uref, false)
	term := cost.LQR(p.Qf, mat.NewDense(2, 2, nil), p.Xf, uref, true)
	for k := 0; k < p.N; k++ {
		prob.SetCostFunction(stage, k)
	}
	prob.SetCostFunction(term, p.N)

	model := dynamics.Discretize(models.NewUnicycle(), integrators.NewRK4())
	for k := 0; k < p.N; k++ {
		prob.SetDynamics(model, k)
	}

	prob.SetInitialState(p.X0)

	if addConstraints {
		lb := []float64{-p.VBound, -p.WBound}
		ub := []float64{p.VBound, p.WBound}
		for k := 0; k < p.N; k++ {
			prob.SetConstraint(constraint.NewControlBound(lb, ub), k)
			if p.scenario == ThreeObstacles {
				prob.SetConstraint(obstacles, k)
				prob.SetConstraint(posBound, k)
			}
		}
		prob.SetConstraint(constraint.NewGoal(p.Xf), p.N)
	}
	return prob
}

// InitialTrajectory returns a trajectory with uniform step Tf/N and
// every control set to U0.
func (p *UnicycleProblem) InitialTrajectory() *trajectory.Trajectory {
	traj := trajectory.New(3, 2, p.N)
	for k := 0; k < p.N; k++ {
		traj.SetControl(k, p.U0)
	}
	traj.SetUniformStep(p.TimeStep())
	return traj
}
