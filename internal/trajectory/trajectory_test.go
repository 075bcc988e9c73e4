package trajectory

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/constraint"
	"github.com/san-kum/trajopt/internal/cost"
	"github.com/san-kum/trajopt/internal/dynamics"
	"github.com/san-kum/trajopt/internal/integrators"
	"github.com/san-kum/trajopt/internal/models"
	"github.com/san-kum/trajopt/internal/problem"
)

func TestNewShape(t *testing.T) {
	traj := New(3, 2, 10)
	if got := traj.NumSegments(); got != 10 {
		t.Errorf("NumSegments() = %d, want 10", got)
	}
	if got := traj.StateDimension(); got != 3 {
		t.Errorf("StateDimension() = %d, want 3", got)
	}
	if got := traj.ControlDimension(); got != 2 {
		t.Errorf("ControlDimension() = %d, want 2", got)
	}
	if got := traj.State(10).Len(); got != 3 {
		t.Errorf("final state length = %d, want 3", got)
	}
	if got := traj.Control(9).Len(); got != 2 {
		t.Errorf("last control length = %d, want 2", got)
	}
}

func TestUniformStep(t *testing.T) {
	traj := New(2, 1, 10)
	traj.SetUniformStep(0.1)
	if got := traj.Time(5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Time(5) = %g, want 0.5", got)
	}
	for k := 0; k < traj.NumSegments(); k++ {
		if got := traj.Step(k); math.Abs(got-0.1) > 1e-12 {
			t.Errorf("Step(%d) = %g, want 0.1", k, got)
		}
	}
	if got := traj.Duration(); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Duration() = %g, want 1.0", got)
	}
}

// A triple integrator driven by constant jerk has a polynomial
// solution, which the rollout must reproduce to round-off.
func TestRolloutTripleIntegrator(t *testing.T) {
	const (
		nseg = 10
		h    = 0.1
	)
	model := dynamics.Discretize(models.NewTripleIntegrator(1), integrators.NewRK4())

	prob := problem.New(nseg)
	for k := 0; k < nseg; k++ {
		prob.SetDynamics(model, k)
	}
	prob.SetInitialState(mat.NewVecDense(3, []float64{1, 2, 3}))

	traj := New(3, 1, nseg)
	traj.SetUniformStep(h)
	for k := 0; k < nseg; k++ {
		traj.Control(k).SetVec(0, 6)
	}

	if err := Rollout(prob, traj); err != nil {
		t.Fatalf("Rollout() error = %v", err)
	}

	if got := traj.State(0).AtVec(0); got != 1 {
		t.Errorf("initial state not copied: State(0)[0] = %g, want 1", got)
	}
	for k := 0; k <= nseg; k++ {
		tk := float64(k) * h
		want := []float64{
			1 + 2*tk + 1.5*tk*tk + tk*tk*tk,
			2 + 3*tk + 3*tk*tk,
			3 + 6*tk,
		}
		for i, w := range want {
			if got := traj.State(k).AtVec(i); math.Abs(got-w) > 1e-10 {
				t.Errorf("State(%d)[%d] = %g, want %g", k, i, got, w)
			}
		}
	}
}

type divergent struct{ after int }

func (d *divergent) StateDimension() int   { return 1 }
func (d *divergent) ControlDimension() int { return 1 }

func (d *divergent) Evaluate(x, u mat.Vector, t, h float64, xnext *mat.VecDense) {
	if t >= float64(d.after)*h {
		xnext.SetVec(0, math.NaN())
		return
	}
	xnext.SetVec(0, x.AtVec(0)+h)
}

func (d *divergent) Jacobian(x, u mat.Vector, t, h float64, jac *mat.Dense) {}

func TestRolloutUnstable(t *testing.T) {
	prob := problem.New(5)
	for k := 0; k < 5; k++ {
		prob.SetDynamics(&divergent{after: 3}, k)
	}
	prob.SetInitialState(mat.NewVecDense(1, []float64{0}))

	traj := New(1, 1, 5)
	traj.SetUniformStep(0.1)

	err := Rollout(prob, traj)
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("Rollout() error = %v, want ErrUnstable", err)
	}
	if !strings.Contains(err.Error(), "segment 3") {
		t.Errorf("error %q does not name the failing segment", err)
	}
}

func TestTotalCostSkipsUndefinedStages(t *testing.T) {
	prob := problem.New(2)
	stage := cost.LQR(cost.ConstantDiagonal(3, 1), cost.ConstantDiagonal(1, 1),
		mat.NewVecDense(3, nil), mat.NewVecDense(1, nil), false)
	term := cost.LQR(cost.ConstantDiagonal(3, 1), mat.NewDense(1, 1, nil),
		mat.NewVecDense(3, nil), mat.NewVecDense(1, nil), true)
	prob.SetCostFunction(stage, 0)
	prob.SetCostFunction(term, 2)

	traj := New(3, 1, 2)
	traj.SetState(1, mat.NewVecDense(3, []float64{1, 0, 0}))
	traj.SetState(2, mat.NewVecDense(3, []float64{2, 0, 0}))
	traj.Control(0).SetVec(0, 1)
	traj.Control(1).SetVec(0, 1)

	// Stage 0 contributes 0.5*u^2 = 0.5, stage 1 has no cost, and the
	// terminal stage contributes 0.5*2^2 = 2.
	if got, want := TotalCost(prob, traj), 2.5; math.Abs(got-want) > 1e-12 {
		t.Errorf("TotalCost() = %g, want %g", got, want)
	}
}

func TestStageViolations(t *testing.T) {
	prob := problem.New(2)
	prob.SetConstraint(constraint.NewControlBound([]float64{-1}, []float64{1}), 0)
	prob.SetConstraint(constraint.NewGoal(mat.NewVecDense(3, []float64{1, 1, 1})), 2)

	traj := New(3, 1, 2)
	traj.Control(0).SetVec(0, 3)
	traj.SetState(2, mat.NewVecDense(3, []float64{2, 1, 1}))

	got := StageViolations(prob, traj)
	want := []float64{2, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("StageViolations() returned %d entries, want %d", len(got), len(want))
	}
	for k := range want {
		if math.Abs(got[k]-want[k]) > 1e-12 {
			t.Errorf("StageViolations()[%d] = %g, want %g", k, got[k], want[k])
		}
	}
	if got := MaxViolation(prob, traj); math.Abs(got-2) > 1e-12 {
		t.Errorf("MaxViolation() = %g, want 2", got)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	traj := New(2, 1, 3)
	traj.SetUniformStep(0.5)
	traj.State(1).SetVec(0, 7)
	traj.Control(2).SetVec(0, -1)

	cp := traj.Copy()
	traj.State(1).SetVec(0, 99)
	traj.Control(2).SetVec(0, 99)

	if got := cp.State(1).AtVec(0); got != 7 {
		t.Errorf("copied state changed with original: got %g, want 7", got)
	}
	if got := cp.Control(2).AtVec(0); got != -1 {
		t.Errorf("copied control changed with original: got %g, want -1", got)
	}
	if got := cp.Time(3); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("copied time = %g, want 1.5", got)
	}
}
