package constraint

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/cones"
)

func TestInfoString(t *testing.T) {
	xf := mat.NewVecDense(3, nil)
	g := NewGoal(xf)

	x := mat.NewVecDense(3, []float64{1.5, -2, 3})
	u := mat.NewVecDense(1, nil)

	info := NewInfo(g, 10, x, u)

	want := "Goal Constraint at index 10: [1.5, -2, 3]"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, expected %q", got, want)
	}
}

func TestInfoPrecision(t *testing.T) {
	xf := mat.NewVecDense(1, nil)
	g := NewGoal(xf)

	x := mat.NewVecDense(1, []float64{1.23456})
	u := mat.NewVecDense(1, nil)
	info := NewInfo(g, 0, x, u)

	if got := info.Format(2); got != "Goal Constraint at index 0: [1.2]" {
		t.Errorf("Format(2) = %q", got)
	}
	if got := info.Format(4); got != "Goal Constraint at index 0: [1.235]" {
		t.Errorf("Format(4) = %q", got)
	}
}

func TestInfoCapturesConeAndLabel(t *testing.T) {
	b := NewControlBound([]float64{-2, -3}, []float64{2, 3})

	x := mat.NewVecDense(3, nil)
	u := mat.NewVecDense(2, []float64{0, 0})
	info := NewInfo(b, 4, x, u)

	if info.Label != "Control Bound" {
		t.Errorf("label = %q", info.Label)
	}
	if info.Type != cones.Inequality {
		t.Errorf("type = %v, expected Inequality", info.Type)
	}
	if info.Index != 4 {
		t.Errorf("index = %d, expected 4", info.Index)
	}
	if info.Violation.Len() != 4 {
		t.Errorf("violation length = %d, expected 4", info.Violation.Len())
	}
}
