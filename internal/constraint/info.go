package constraint

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/cones"
)

// Info is a snapshot of a constraint's value at one stage, produced on
// demand for diagnostics. It holds no reference to the constraint and is
// never stored inside a problem.
type Info struct {
	Label     string
	Index     int
	Violation *mat.VecDense
	Type      cones.Kind
}

// NewInfo evaluates c at (x, u) and captures the result as an Info for
// stage index k.
func NewInfo(c Constraint, k int, x, u mat.Vector) Info {
	v := mat.NewVecDense(c.OutputDimension(), nil)
	c.Evaluate(x, u, v)
	return Info{
		Label:     c.Label(),
		Index:     k,
		Violation: v,
		Type:      c.Cone(),
	}
}

// String renders the info with the default 4 significant digits.
func (in Info) String() string {
	return in.Format(4)
}

// Format renders "<label> at index <k>: [v1, v2, ...]" with the given
// number of significant digits.
func (in Info) Format(prec int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at index %d: [", in.Label, in.Index)
	for i := 0; i < in.Violation.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(in.Violation.AtVec(i), 'g', prec, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}
