package numdiff

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
	"github.com/san-kum/trajopt/internal/problem"
	"github.com/san-kum/trajopt/internal/trajectory"
)

// ConstraintCheck is the deviation measured for one constraint.
type ConstraintCheck struct {
	Label string
	Diff  float64
}

// CheckResult holds the deviations measured at one knot point. Dynamics
// is NaN at the terminal knot, which has no segment to differentiate.
type CheckResult struct {
	Stage       int
	Dynamics    float64
	Constraints []ConstraintCheck
}

// CheckProblem verifies every analytic Jacobian of a fully defined
// problem against central differences at the trajectory's knot points,
// one goroutine per knot. Dynamics and constraints share model
// instances across stages, so this relies on the integrator and
// constraint contracts being stateless.
func CheckProblem(prob *problem.Problem, traj *trajectory.Trajectory) []CheckResult {
	assert.Assertf(prob != nil, "must provide a valid problem pointer")
	assert.Assertf(traj != nil, "must provide a valid trajectory pointer")
	assert.Assertf(prob.NumSegments() == traj.NumSegments(),
		"problem and trajectory must agree on the number of segments")

	n := prob.NumSegments()
	results := make([]CheckResult, n+1)

	var wg sync.WaitGroup
	for k := 0; k <= n; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			results[k] = checkStage(prob, traj, k)
		}(k)
	}
	wg.Wait()

	return results
}

func checkStage(prob *problem.Problem, traj *trajectory.Trajectory, k int) CheckResult {
	n := prob.NumSegments()
	res := CheckResult{Stage: k, Dynamics: math.NaN()}

	// The terminal knot carries no control; pad with zeros so the
	// finite-difference stencil keeps the full column layout.
	u := mat.Vector(mat.NewVecDense(traj.ControlDimension(), nil))
	if k < n {
		u = traj.Control(k)
		res.Dynamics = CheckDynamics(prob.GetDynamics(k), traj.State(k), u, traj.Time(k), traj.Step(k))
	}

	for _, c := range prob.Constraints(k) {
		res.Constraints = append(res.Constraints, ConstraintCheck{
			Label: c.Label(),
			Diff:  CheckConstraint(c, traj.State(k), u),
		})
	}
	return res
}

// MaxDiff returns the largest deviation across a set of check results.
func MaxDiff(results []CheckResult) float64 {
	worst := 0.0
	for _, r := range results {
		if !math.IsNaN(r.Dynamics) && r.Dynamics > worst {
			worst = r.Dynamics
		}
		for _, c := range r.Constraints {
			if c.Diff > worst {
				worst = c.Diff
			}
		}
	}
	return worst
}
