package constraint

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/cones"
)

// Circle keeps the planar position (x₀, x₁) of the state outside a set of
// circular obstacles, one inequality row per obstacle:
//
//	r_i² − (x₀−cx_i)² − (x₁−cy_i)² ≤ 0
type Circle struct {
	Base
	cx []float64
	cy []float64
	r  []float64
}

// NewCircle returns an obstacle constraint with no obstacles yet.
func NewCircle() *Circle {
	return &Circle{Base: ForCone(cones.Inequality)}
}

// AddObstacle appends a circle centered at (x, y) with radius r.
func (c *Circle) AddObstacle(x, y, r float64) {
	c.cx = append(c.cx, x)
	c.cy = append(c.cy, y)
	c.r = append(c.r, r)
}

// Obstacle returns the center and radius of obstacle i.
func (c *Circle) Obstacle(i int) (x, y, r float64) {
	return c.cx[i], c.cy[i], c.r[i]
}

func (c *Circle) Label() string { return "Circle Constraint" }

func (c *Circle) OutputDimension() int { return len(c.cx) }

func (c *Circle) Evaluate(x, u mat.Vector, out *mat.VecDense) {
	for i := range c.cx {
		dx := x.AtVec(0) - c.cx[i]
		dy := x.AtVec(1) - c.cy[i]
		out.SetVec(i, c.r[i]*c.r[i]-dx*dx-dy*dy)
	}
}

func (c *Circle) Jacobian(x, u mat.Vector, jac *mat.Dense) {
	jac.Zero()
	for i := range c.cx {
		dx := x.AtVec(0) - c.cx[i]
		dy := x.AtVec(1) - c.cy[i]
		jac.Set(i, 0, -2*dx)
		jac.Set(i, 1, -2*dy)
	}
}
