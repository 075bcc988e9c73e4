// Package problem holds the trajectory-optimization problem definition: the
// horizon, the per-stage dynamics, cost functions and constraint lists, and
// the initial state.
//
// A problem over N segments has stages 0..N. Dynamics connect consecutive
// stages and live on 0..N−1; cost functions and constraints live on every
// stage, with stage N the terminal one. Setup is single-threaded: build the
// problem, check [Problem.IsFullyDefined], then hand it read-only to the
// solver. The container performs no numerical work itself.
//
// Dynamics models and cost functions are consumed through the capability
// interfaces declared here; any type with the right method set plugs in.
// Constraints attach through [constraint.Constraint] and may be shared
// across stages.
package problem

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
	"github.com/san-kum/trajopt/internal/constraint"
)

// Dynamics is a discrete dynamics model, advancing the state across one
// segment of length h starting at time t.
type Dynamics interface {
	StateDimension() int
	ControlDimension() int
	// Evaluate writes the next state into xnext.
	Evaluate(x, u mat.Vector, t, h float64, xnext *mat.VecDense)
	// Jacobian writes the n×(n+m) derivative of the next state with
	// respect to x and u into jac.
	Jacobian(x, u mat.Vector, t, h float64, jac *mat.Dense)
}

// CostFunction is a stage cost. Derivatives are written into caller
// buffers: the gradient blocks dx (length n) and du (length m), and the
// Hessian blocks dxdx, dxdu and dudu.
type CostFunction interface {
	Evaluate(x, u mat.Vector) float64
	Gradient(x, u mat.Vector, dx, du *mat.VecDense)
	Hessian(x, u mat.Vector, dxdx, dxdu, dudu *mat.Dense)
}

// Problem is the mutable problem container.
type Problem struct {
	n           int
	x0          *mat.VecDense
	models      []Dynamics
	costs       []CostFunction
	constraints [][]constraint.Constraint
}

// New returns an empty problem over n segments (stages 0..n).
func New(n int) *Problem {
	assert.Assertf(n > 0, "number of segments must be positive")
	return &Problem{
		n:           n,
		models:      make([]Dynamics, n),
		costs:       make([]CostFunction, n+1),
		constraints: make([][]constraint.Constraint, n+1),
	}
}

// NumSegments returns the number of control segments N. Stages run 0..N.
func (p *Problem) NumSegments() int { return p.n }

// SetDynamics binds a dynamics model to segment k, replacing any previous
// model there.
func (p *Problem) SetDynamics(model Dynamics, k int) {
	assert.Assertf(model != nil, "must provide a valid dynamics model")
	assert.Assertf(0 <= k && k < p.n, "dynamics index %d out of range [0, %d)", k, p.n)
	p.models[k] = model
}

// SetAllDynamics binds models to segments 0..len(models)−1.
func (p *Problem) SetAllDynamics(models []Dynamics) {
	assert.Assertf(len(models) <= p.n, "too many dynamics models for %d segments", p.n)
	for k, model := range models {
		p.SetDynamics(model, k)
	}
}

// GetDynamics returns the dynamics of segment k. The dynamics must have
// been set.
func (p *Problem) GetDynamics(k int) Dynamics {
	assert.Assertf(0 <= k && k < p.n, "dynamics index %d out of range [0, %d)", k, p.n)
	assert.Assertf(p.models[k] != nil, "Dynamics have not been defined at index %d", k)
	return p.models[k]
}

// SetCostFunction binds a cost function to stage k, replacing any previous
// cost there.
func (p *Problem) SetCostFunction(costfun CostFunction, k int) {
	assert.Assertf(costfun != nil, "must provide a valid cost function")
	assert.Assertf(0 <= k && k <= p.n, "cost index %d out of range [0, %d]", k, p.n)
	p.costs[k] = costfun
}

// SetAllCostFunctions binds costs to stages 0..len(costfuns)−1.
func (p *Problem) SetAllCostFunctions(costfuns []CostFunction) {
	assert.Assertf(len(costfuns) <= p.n+1, "too many cost functions for %d stages", p.n+1)
	for k, costfun := range costfuns {
		p.SetCostFunction(costfun, k)
	}
}

// GetCostFunction returns the cost of stage k, or nil when none has been
// set.
func (p *Problem) GetCostFunction(k int) CostFunction {
	assert.Assertf(0 <= k && k <= p.n, "cost index %d out of range [0, %d]", k, p.n)
	return p.costs[k]
}

// SetConstraint appends a constraint to stage k's list. The same instance
// may be attached to any number of stages.
func (p *Problem) SetConstraint(con constraint.Constraint, k int) {
	assert.Assertf(con != nil, "must provide a valid constraint pointer")
	assert.Assertf(con.OutputDimension() > 0, "constraint must have length greater than zero")
	assert.Assertf(0 <= k && k <= p.n, "constraint index %d out of range [0, %d]", k, p.n)
	p.constraints[k] = append(p.constraints[k], con)
}

// Constraints returns the constraints attached to stage k.
func (p *Problem) Constraints(k int) []constraint.Constraint {
	assert.Assertf(0 <= k && k <= p.n, "constraint index %d out of range [0, %d]", k, p.n)
	return p.constraints[k]
}

// NumConstraints sums the output dimensions of the constraints at stage k.
// A shared instance counts at every stage it is attached to.
func (p *Problem) NumConstraints(k int) int {
	assert.Assertf(0 <= k && k <= p.n, "constraint index %d out of range [0, %d]", k, p.n)
	rows := 0
	for _, con := range p.constraints[k] {
		rows += con.OutputDimension()
	}
	return rows
}

// SetInitialState copies x0 into the problem.
func (p *Problem) SetInitialState(x0 mat.Vector) {
	p.x0 = mat.VecDenseCopyOf(x0)
}

// GetInitialState returns the initial state, or nil when none has been set.
func (p *Problem) GetInitialState() *mat.VecDense { return p.x0 }

// IsFullyDefined reports whether every dynamics slot 0..N−1 and every cost
// slot 0..N is populated and the initial state matches the stage-0 model's
// state dimension. The answer is recomputed on every call.
func (p *Problem) IsFullyDefined() bool {
	for _, model := range p.models {
		if model == nil {
			return false
		}
	}
	for _, costfun := range p.costs {
		if costfun == nil {
			return false
		}
	}
	return p.x0 != nil && p.x0.Len() == p.models[0].StateDimension()
}
