// Package dynamics declares the continuous dynamics contract and the
// adapter that turns a continuous model into discrete stage dynamics.
//
// Continuous models define ẋ = f(x, u, t) with an exact n×(n+m) Jacobian.
// An [Integrator] advances the model across one segment and, unlike a plain
// ODE stepper, also propagates the Jacobian through its stages by the chain
// rule, so discrete derivatives stay exact rather than finite-differenced.
package dynamics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
)

// Continuous is an ODE model ẋ = f(x, u, t).
type Continuous interface {
	StateDimension() int
	ControlDimension() int
	// Evaluate writes f(x, u, t) into xdot.
	Evaluate(x, u mat.Vector, t float64, xdot *mat.VecDense)
	// Jacobian writes the n×(n+m) derivative of f with respect to x and u
	// into jac.
	Jacobian(x, u mat.Vector, t float64, jac *mat.Dense)
}

// Integrator advances a continuous model across one segment of length h.
// Implementations must be stateless: one discretized model may be shared
// across every stage of a problem and evaluated concurrently.
type Integrator interface {
	Integrate(model Continuous, x, u mat.Vector, t, h float64, xnext *mat.VecDense)
	// Jacobian writes the n×(n+m) derivative of the discrete step.
	Jacobian(model Continuous, x, u mat.Vector, t, h float64, jac *mat.Dense)
}

// Discretized couples a continuous model with an integrator, forming the
// discrete dynamics a problem stage consumes.
type Discretized struct {
	model Continuous
	integ Integrator
}

// Discretize wraps model with the given integrator.
func Discretize(model Continuous, integ Integrator) *Discretized {
	assert.Assertf(model != nil, "must provide a valid continuous model")
	assert.Assertf(integ != nil, "must provide a valid integrator")
	return &Discretized{model: model, integ: integ}
}

// Model returns the underlying continuous model.
func (d *Discretized) Model() Continuous { return d.model }

func (d *Discretized) StateDimension() int { return d.model.StateDimension() }

func (d *Discretized) ControlDimension() int { return d.model.ControlDimension() }

// Evaluate writes the state at the end of the segment into xnext.
func (d *Discretized) Evaluate(x, u mat.Vector, t, h float64, xnext *mat.VecDense) {
	d.integ.Integrate(d.model, x, u, t, h, xnext)
}

// Jacobian writes the exact discrete n×(n+m) Jacobian into jac.
func (d *Discretized) Jacobian(x, u mat.Vector, t, h float64, jac *mat.Dense) {
	d.integ.Jacobian(d.model, x, u, t, h, jac)
}
