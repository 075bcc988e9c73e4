package constraint

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/cones"
)

// Goal pins the state to a target, typically at the terminal stage:
//
//	g(x,u) = x − xf = 0
type Goal struct {
	Base
	xf *mat.VecDense
}

// NewGoal returns an equality constraint driving the state to xf.
func NewGoal(xf mat.Vector) *Goal {
	return &Goal{
		Base: ForCone(cones.Equality),
		xf:   mat.VecDenseCopyOf(xf),
	}
}

func (g *Goal) Label() string { return "Goal Constraint" }

func (g *Goal) StateDimension() int { return g.xf.Len() }

func (g *Goal) OutputDimension() int { return g.xf.Len() }

// Target returns the goal state.
func (g *Goal) Target() mat.Vector { return g.xf }

func (g *Goal) Evaluate(x, u mat.Vector, out *mat.VecDense) {
	out.SubVec(x, g.xf)
}

// Jacobian writes the identity on the state block. Control columns, when
// present, stay zero.
func (g *Goal) Jacobian(x, u mat.Vector, jac *mat.Dense) {
	jac.Zero()
	for i := 0; i < g.xf.Len(); i++ {
		jac.Set(i, i, 1)
	}
}
