// Package constraint defines the generic constraint abstraction of the
// problem layer together with a small set of reference constraints.
//
// A constraint is a map g(x,u) whose value must lie in one of the cones
// from [cones.Kind]:
//
//	g(x,u) ∈ K
//
// Picking the zero cone gives an equality constraint, the negative orthant
// an inequality constraint. The solver combines Evaluate and Jacobian with
// the cone's projection calculus to build feasibility residuals and penalty
// derivatives; no automatic differentiation is performed, implementers must
// supply exact Jacobians. The numdiff package offers a finite-difference
// check for them.
//
// Constraint values are first-order only: HasHessian reports false and the
// solver must not ask for second-order constraint curvature.
//
// Instances may be attached to many stages of a problem at once, so
// Evaluate and Jacobian must not mutate the constraint. Parameter setters
// (such as the bound setters) are for the setup phase only.
package constraint

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
	"github.com/san-kum/trajopt/internal/cones"
)

// Constraint is the contract a constraint implementation must satisfy.
//
// Evaluate writes the p-vector g(x,u) into out, where p is OutputDimension.
// Jacobian writes the derivative of g into jac, laid out with the state
// columns first and the control columns offset by the state dimension.
// Either argument may be ignored by constraints that do not depend on it.
type Constraint interface {
	// Cone identifies the cone the constraint value must lie in.
	Cone() cones.Kind
	// OutputDimension is the fixed length p of the constraint value.
	OutputDimension() int
	// StateDimension is the expected state size, for constraints that
	// depend on the state. Undefined otherwise.
	StateDimension() int
	// ControlDimension is the expected control size, for constraints that
	// depend on the control. Undefined otherwise.
	ControlDimension() int
	// HasHessian reports whether second-order derivatives are available.
	HasHessian() bool
	// Evaluate writes g(x,u) into out.
	Evaluate(x, u mat.Vector, out *mat.VecDense)
	// Jacobian writes the derivative of g at (x,u) into jac.
	Jacobian(x, u mat.Vector, jac *mat.Dense)
	// Label is a brief description of the constraint for diagnostics.
	Label() string
}

// TypeLabel names the constraint class a cone encodes.
func TypeLabel(k cones.Kind) string {
	switch k {
	case cones.Equality:
		return "Equality Constraint"
	case cones.Inequality:
		return "Inequality Constraint"
	}
	return "Undefined Constraint Type"
}

// Base carries the cone of a constraint and supplies the default method set.
// Concrete constraints embed it and override what they define:
//
//	type Goal struct {
//		constraint.Base
//		...
//	}
//
// StateDimension and ControlDimension are contract violations until the
// embedding constraint overrides the one(s) it depends on.
type Base struct {
	kind cones.Kind
}

// ForCone returns a Base for constraints living in the given cone.
func ForCone(k cones.Kind) Base {
	return Base{kind: k}
}

func (b Base) Cone() cones.Kind { return b.kind }

func (b Base) Label() string { return TypeLabel(b.kind) }

// HasHessian reports false: constraints carry first-order information only.
func (b Base) HasHessian() bool { return false }

func (b Base) StateDimension() int {
	assert.Failf("StateDimension has not been defined for this constraint")
	return -1
}

func (b Base) ControlDimension() int {
	assert.Failf("ControlDimension has not been defined for this constraint")
	return -1
}

// Violation returns the feasibility residual g(x,u) − proj(g(x,u)) of a
// constraint, the quantity an augmented-Lagrangian penalty is built from.
// The residual is zero exactly when the constraint is satisfied.
func Violation(c Constraint, x, u mat.Vector) *mat.VecDense {
	p := c.OutputDimension()
	g := mat.NewVecDense(p, nil)
	proj := mat.NewVecDense(p, nil)
	c.Evaluate(x, u, g)
	c.Cone().Project(g, proj)
	g.SubVec(g, proj)
	return g
}
