// Package cones defines the convex cones a constraint can live in, together
// with the projection calculus an augmented-Lagrangian solver needs.
//
// A constraint g(x,u) ∈ K is expressed by picking one of the closed set of
// cone kinds:
//
//   - [Zero]: the origin, giving equality constraints g(x,u) = 0
//   - [Identity]: the whole space, the dual of the zero cone, used as the
//     multiplier-space cone of equality constraints
//   - [NegativeOrthant]: componentwise non-positive values, giving
//     inequality constraints g(x,u) ≤ 0; self-dual
//
// Each kind supplies the projection onto the cone along with its first and
// second derivatives. The operators are stateless and write into caller
// buffers; dispatch is a switch over the closed enum, so constraints pay no
// per-call allocation for their cone calculus.
//
// All three projections are affine or piecewise-linear, so every
// ProjectionHessian is identically zero. Second-order cone curvature is not
// yet exploited by any solver method; this is a known limitation, not a gap
// to fill here.
package cones

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
)

// Kind selects one member of the closed cone family. The zero value is the
// zero cone.
type Kind int

const (
	// Zero is the cone containing only the origin.
	Zero Kind = iota
	// Identity is the full space, the dual cone of Zero.
	Identity
	// NegativeOrthant is the set of componentwise non-positive vectors.
	NegativeOrthant
)

// Aliases naming the cones by the constraint class they encode.
const (
	Equality   = Zero
	Inequality = NegativeOrthant
)

func (k Kind) String() string {
	switch k {
	case Zero:
		return "Zero"
	case Identity:
		return "Identity"
	case NegativeOrthant:
		return "NegativeOrthant"
	}
	return "Unknown"
}

// Dual returns the dual cone: Zero and Identity are dual to each other, the
// negative orthant is self-dual.
func (k Kind) Dual() Kind {
	switch k {
	case Zero:
		return Identity
	case Identity:
		return Zero
	}
	return k
}

// Project writes the Euclidean projection of x onto the cone into proj.
// Both vectors must have the same length.
func (k Kind) Project(x mat.Vector, proj *mat.VecDense) {
	assert.Assertf(x.Len() == proj.Len(), "x and the projection must be the same size")
	switch k {
	case Zero:
		proj.Zero()
	case Identity:
		for i := 0; i < x.Len(); i++ {
			proj.SetVec(i, x.AtVec(i))
		}
	case NegativeOrthant:
		for i := 0; i < x.Len(); i++ {
			proj.SetVec(i, min(0, x.AtVec(i)))
		}
	}
}

// ProjectionJacobian writes the derivative of the projection at x into jac,
// which must be a square p×p matrix for a p-vector x.
//
// For the negative orthant the projection is not differentiable where a
// component sits exactly on the boundary; that component is assigned the
// subgradient 1, not 0. Solver penalty updates rely on this convention.
func (k Kind) ProjectionJacobian(x mat.Vector, jac *mat.Dense) {
	r, c := jac.Dims()
	assert.Assertf(r == c, "projection Jacobian must be square")
	assert.Assertf(r == x.Len(), "projection Jacobian must match the vector size")
	jac.Zero()
	switch k {
	case Identity:
		for i := 0; i < r; i++ {
			jac.Set(i, i, 1)
		}
	case NegativeOrthant:
		for i := 0; i < x.Len(); i++ {
			if x.AtVec(i) <= 0 {
				jac.Set(i, i, 1)
			}
		}
	}
}

// ProjectionHessian writes the second derivative of the projection at x,
// contracted against the dual vector b, into hess. The buffer must be
// square and b must have the same length as x.
//
// Every cone in the catalog has a piecewise-linear projection, so the
// result is always zero.
func (k Kind) ProjectionHessian(x, b mat.Vector, hess *mat.Dense) {
	r, c := hess.Dims()
	assert.Assertf(r == c, "projection Hessian must be square")
	assert.Assertf(x.Len() == b.Len(), "x and b must be the same size")
	hess.Zero()
}
