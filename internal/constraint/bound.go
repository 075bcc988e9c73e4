package constraint

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
	"github.com/san-kum/trajopt/internal/cones"
)

// ControlBound is a box bound on the controls:
//
//	lower ≤ u ≤ upper
//
// Only finite bounds generate constraint rows; an entry of ±Inf (or of the
// largest representable magnitude) leaves that side of the control
// unbounded. Rows are ordered with all finite lower bounds first, as
//
//	lower_j − u_j ≤ 0
//	u_j − upper_j ≤ 0
type ControlBound struct {
	Base
	m          int
	lower      []float64
	upper      []float64
	lowerIndex []int
	upperIndex []int
}

// NewControlBound builds the bound lower ≤ u ≤ upper. The two slices must
// be non-empty and of equal length, with lower ≤ upper elementwise.
func NewControlBound(lower, upper []float64) *ControlBound {
	assert.Assertf(len(lower) == len(upper), "upper and lower bounds must have the same length")
	assert.Assertf(len(lower) > 0, "cannot build a control bound from empty bounds")
	b := &ControlBound{
		Base:  ForCone(cones.Inequality),
		m:     len(lower),
		lower: append([]float64(nil), lower...),
		upper: append([]float64(nil), upper...),
	}
	b.lowerIndex = finiteIndices(b.lower)
	b.upperIndex = finiteIndices(b.upper)
	b.validate()
	return b
}

// NewUnboundedControl returns a bound on m controls with every side open,
// so no constraint rows. Bounds are attached afterwards through
// SetLowerBound and SetUpperBound.
func NewUnboundedControl(m int) *ControlBound {
	lower := make([]float64, m)
	upper := make([]float64, m)
	for j := range lower {
		lower[j] = math.Inf(-1)
		upper[j] = math.Inf(1)
	}
	return &ControlBound{Base: ForCone(cones.Inequality), m: m, lower: lower, upper: upper}
}

// SetLowerBound replaces the lower bound, re-deriving the finite rows.
func (b *ControlBound) SetLowerBound(lower []float64) {
	assert.Assertf(len(lower) == b.m, "inconsistent control dimension when setting the lower bound")
	b.lower = append(b.lower[:0], lower...)
	b.lowerIndex = finiteIndices(b.lower)
	b.validate()
}

// SetUpperBound replaces the upper bound, re-deriving the finite rows.
func (b *ControlBound) SetUpperBound(upper []float64) {
	assert.Assertf(len(upper) == b.m, "inconsistent control dimension when setting the upper bound")
	b.upper = append(b.upper[:0], upper...)
	b.upperIndex = finiteIndices(b.upper)
	b.validate()
}

func (b *ControlBound) Label() string { return "Control Bound" }

func (b *ControlBound) ControlDimension() int { return b.m }

func (b *ControlBound) OutputDimension() int {
	return len(b.lowerIndex) + len(b.upperIndex)
}

func (b *ControlBound) Evaluate(x, u mat.Vector, out *mat.VecDense) {
	assert.Assertf(u.Len() == b.m, "inconsistent control dimension when evaluating a control bound")
	for i, j := range b.lowerIndex {
		out.SetVec(i, b.lower[j]-u.AtVec(j))
	}
	offset := len(b.lowerIndex)
	for i, j := range b.upperIndex {
		out.SetVec(offset+i, u.AtVec(j)-b.upper[j])
	}
}

// Jacobian writes a single ±1 per row at the control column, offset by the
// state dimension taken from x.
func (b *ControlBound) Jacobian(x, u mat.Vector, jac *mat.Dense) {
	assert.Assertf(u.Len() == b.m, "inconsistent control dimension when evaluating a control bound")
	jac.Zero()
	n := x.Len()
	for i, j := range b.lowerIndex {
		jac.Set(i, n+j, -1)
	}
	offset := len(b.lowerIndex)
	for i, j := range b.upperIndex {
		jac.Set(offset+i, n+j, 1)
	}
}

func (b *ControlBound) validate() {
	for j := range b.lower {
		assert.Assertf(b.lower[j] <= b.upper[j], "lower bound must not exceed the upper bound")
	}
}

// StateBound is the state-space counterpart of ControlBound:
//
//	lower ≤ x ≤ upper
//
// with the same finite-row convention. Jacobian entries land on the state
// columns directly.
type StateBound struct {
	Base
	n          int
	lower      []float64
	upper      []float64
	lowerIndex []int
	upperIndex []int
}

// NewStateBound builds the bound lower ≤ x ≤ upper. The two slices must be
// non-empty and of equal length, with lower ≤ upper elementwise.
func NewStateBound(lower, upper []float64) *StateBound {
	assert.Assertf(len(lower) == len(upper), "upper and lower bounds must have the same length")
	assert.Assertf(len(lower) > 0, "cannot build a state bound from empty bounds")
	b := &StateBound{
		Base:  ForCone(cones.Inequality),
		n:     len(lower),
		lower: append([]float64(nil), lower...),
		upper: append([]float64(nil), upper...),
	}
	b.lowerIndex = finiteIndices(b.lower)
	b.upperIndex = finiteIndices(b.upper)
	for j := range b.lower {
		assert.Assertf(b.lower[j] <= b.upper[j], "lower bound must not exceed the upper bound")
	}
	return b
}

func (b *StateBound) Label() string { return "State Bound" }

func (b *StateBound) StateDimension() int { return b.n }

func (b *StateBound) OutputDimension() int {
	return len(b.lowerIndex) + len(b.upperIndex)
}

func (b *StateBound) Evaluate(x, u mat.Vector, out *mat.VecDense) {
	assert.Assertf(x.Len() == b.n, "inconsistent state dimension when evaluating a state bound")
	for i, j := range b.lowerIndex {
		out.SetVec(i, b.lower[j]-x.AtVec(j))
	}
	offset := len(b.lowerIndex)
	for i, j := range b.upperIndex {
		out.SetVec(offset+i, x.AtVec(j)-b.upper[j])
	}
}

func (b *StateBound) Jacobian(x, u mat.Vector, jac *mat.Dense) {
	assert.Assertf(x.Len() == b.n, "inconsistent state dimension when evaluating a state bound")
	jac.Zero()
	for i, j := range b.lowerIndex {
		jac.Set(i, j, -1)
	}
	offset := len(b.lowerIndex)
	for i, j := range b.upperIndex {
		jac.Set(offset+i, j, 1)
	}
}

// finiteIndices collects the indices whose bound magnitude is below the
// largest representable value, so Inf and MaxFloat64 both mean unbounded.
func finiteIndices(bound []float64) []int {
	idx := make([]int, 0, len(bound))
	for j, v := range bound {
		if math.Abs(v) < math.MaxFloat64 {
			idx = append(idx, j)
		}
	}
	return idx
}
