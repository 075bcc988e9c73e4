// Package trajectory provides the state and control sequences a solver
// iterates on, plus rollout and evaluation helpers that connect a
// trajectory to a problem definition.
//
// A trajectory over N segments stores N+1 state vectors, N control
// vectors, and N+1 sample times. Knot point k holds the state at the
// start of segment k; the final state has no control associated with
// it.
package trajectory

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
	"github.com/san-kum/trajopt/internal/constraint"
	"github.com/san-kum/trajopt/internal/problem"
)

// ErrUnstable indicates a rollout produced a non-finite state.
var ErrUnstable = errors.New("trajectory: state diverged (NaN or Inf detected)")

// Trajectory holds the discrete states, controls, and times for a
// problem with a fixed number of segments.
type Trajectory struct {
	n        int
	m        int
	states   []*mat.VecDense
	controls []*mat.VecDense
	times    []float64
}

// New allocates a zero trajectory with numSegments segments, n states
// per knot point, and m controls per segment.
func New(n, m, numSegments int) *Trajectory {
	assert.Assertf(n > 0, "state dimension must be positive")
	assert.Assertf(m > 0, "control dimension must be positive")
	assert.Assertf(numSegments > 0, "number of segments must be positive")
	t := &Trajectory{
		n:        n,
		m:        m,
		states:   make([]*mat.VecDense, numSegments+1),
		controls: make([]*mat.VecDense, numSegments),
		times:    make([]float64, numSegments+1),
	}
	for k := range t.states {
		t.states[k] = mat.NewVecDense(n, nil)
	}
	for k := range t.controls {
		t.controls[k] = mat.NewVecDense(m, nil)
	}
	return t
}

// NumSegments returns the number of dynamics segments N. The
// trajectory holds N+1 knot points.
func (t *Trajectory) NumSegments() int { return len(t.controls) }

// StateDimension returns the length of each state vector.
func (t *Trajectory) StateDimension() int { return t.n }

// ControlDimension returns the length of each control vector.
func (t *Trajectory) ControlDimension() int { return t.m }

// State returns the state vector at knot point k. The returned vector
// is a reference into the trajectory and may be written in place.
func (t *Trajectory) State(k int) *mat.VecDense {
	assert.Assertf(k >= 0 && k < len(t.states), "knot point index %d out of range [0, %d]", k, len(t.states)-1)
	return t.states[k]
}

// Control returns the control vector applied over segment k.
func (t *Trajectory) Control(k int) *mat.VecDense {
	assert.Assertf(k >= 0 && k < len(t.controls), "segment index %d out of range [0, %d)", k, len(t.controls))
	return t.controls[k]
}

// Time returns the sample time at knot point k.
func (t *Trajectory) Time(k int) float64 {
	assert.Assertf(k >= 0 && k < len(t.times), "knot point index %d out of range [0, %d]", k, len(t.times)-1)
	return t.times[k]
}

// Step returns the duration of segment k.
func (t *Trajectory) Step(k int) float64 {
	assert.Assertf(k >= 0 && k < len(t.controls), "segment index %d out of range [0, %d)", k, len(t.controls))
	return t.times[k+1] - t.times[k]
}

// SetUniformStep assigns evenly spaced sample times with step h,
// starting at zero.
func (t *Trajectory) SetUniformStep(h float64) {
	assert.Assertf(h > 0, "time step must be positive")
	for k := range t.times {
		t.times[k] = float64(k) * h
	}
}

// SetState copies x into knot point k.
func (t *Trajectory) SetState(k int, x mat.Vector) {
	assert.Assertf(x != nil && x.Len() == t.n, "state must have length %d", t.n)
	for i := 0; i < t.n; i++ {
		t.states[k].SetVec(i, x.AtVec(i))
	}
}

// SetControl copies u into segment k.
func (t *Trajectory) SetControl(k int, u mat.Vector) {
	assert.Assertf(u != nil && u.Len() == t.m, "control must have length %d", t.m)
	for i := 0; i < t.m; i++ {
		t.controls[k].SetVec(i, u.AtVec(i))
	}
}

// FinalState returns the state at the last knot point.
func (t *Trajectory) FinalState() *mat.VecDense { return t.states[len(t.states)-1] }

// Duration returns the total time spanned by the trajectory.
func (t *Trajectory) Duration() float64 { return t.times[len(t.times)-1] - t.times[0] }

// Copy returns a deep copy of the trajectory.
func (t *Trajectory) Copy() *Trajectory {
	c := &Trajectory{
		n:        t.n,
		m:        t.m,
		states:   make([]*mat.VecDense, len(t.states)),
		controls: make([]*mat.VecDense, len(t.controls)),
		times:    make([]float64, len(t.times)),
	}
	for k, x := range t.states {
		c.states[k] = mat.VecDenseCopyOf(x)
	}
	for k, u := range t.controls {
		c.controls[k] = mat.VecDenseCopyOf(u)
	}
	copy(c.times, t.times)
	return c
}

// Rollout simulates the problem dynamics forward from the problem's
// initial state, overwriting the trajectory states. Controls and
// sample times are left as-is and must be set before calling. Returns
// ErrUnstable wrapped with the offending segment if a state stops
// being finite.
func Rollout(prob *problem.Problem, traj *Trajectory) error {
	assert.Assertf(prob != nil && traj != nil, "must provide a valid problem and trajectory")
	assert.Assertf(prob.NumSegments() == traj.NumSegments(),
		"problem has %d segments but trajectory has %d", prob.NumSegments(), traj.NumSegments())
	x0 := prob.GetInitialState()
	assert.Assertf(x0 != nil && x0.Len() == traj.StateDimension(),
		"initial state must have length %d", traj.StateDimension())

	traj.State(0).CopyVec(x0)
	for k := 0; k < traj.NumSegments(); k++ {
		model := prob.GetDynamics(k)
		model.Evaluate(traj.State(k), traj.Control(k), traj.Time(k), traj.Step(k), traj.State(k+1))
		if !isFinite(traj.State(k+1)) {
			return fmt.Errorf("segment %d (t=%.4f): %w", k, traj.Time(k), ErrUnstable)
		}
	}
	return nil
}

// TotalCost sums the stage costs over the trajectory. Knot points
// without a cost function contribute zero. The final knot point is
// evaluated with an empty control.
func TotalCost(prob *problem.Problem, traj *Trajectory) float64 {
	assert.Assertf(prob != nil && traj != nil, "must provide a valid problem and trajectory")
	assert.Assertf(prob.NumSegments() == traj.NumSegments(),
		"problem has %d segments but trajectory has %d", prob.NumSegments(), traj.NumSegments())

	total := 0.0
	nseg := traj.NumSegments()
	for k := 0; k < nseg; k++ {
		if cost := prob.GetCostFunction(k); cost != nil {
			total += cost.Evaluate(traj.State(k), traj.Control(k))
		}
	}
	if cost := prob.GetCostFunction(nseg); cost != nil {
		total += cost.Evaluate(traj.FinalState(), &mat.VecDense{})
	}
	return total
}

// StageViolations returns the largest constraint violation at each
// knot point. Knot points without constraints report zero. The final
// knot point is evaluated with an empty control.
func StageViolations(prob *problem.Problem, traj *Trajectory) []float64 {
	assert.Assertf(prob != nil && traj != nil, "must provide a valid problem and trajectory")
	assert.Assertf(prob.NumSegments() == traj.NumSegments(),
		"problem has %d segments but trajectory has %d", prob.NumSegments(), traj.NumSegments())

	out := make([]float64, traj.NumSegments()+1)
	empty := &mat.VecDense{}
	for k := range out {
		u := empty
		if k < traj.NumSegments() {
			u = traj.Control(k)
		}
		worst := 0.0
		for _, con := range prob.Constraints(k) {
			v := constraint.Violation(con, traj.State(k), u)
			for i := 0; i < v.Len(); i++ {
				if a := math.Abs(v.AtVec(i)); a > worst {
					worst = a
				}
			}
		}
		out[k] = worst
	}
	return out
}

// MaxViolation returns the largest constraint violation over the
// whole trajectory.
func MaxViolation(prob *problem.Problem, traj *Trajectory) float64 {
	worst := 0.0
	for _, v := range StageViolations(prob, traj) {
		if v > worst {
			worst = v
		}
	}
	return worst
}

func isFinite(x *mat.VecDense) bool {
	for i := 0; i < x.Len(); i++ {
		v := x.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
