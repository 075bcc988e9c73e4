package constraint

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/cones"
)

func TestControlBoundOutputDimension(t *testing.T) {
	b := NewControlBound([]float64{-2, -3}, []float64{2, 3})

	if b.OutputDimension() != 4 {
		t.Errorf("output dimension = %d, expected 4", b.OutputDimension())
	}
	if b.ControlDimension() != 2 {
		t.Errorf("control dimension = %d, expected 2", b.ControlDimension())
	}
	if b.Cone() != cones.Inequality {
		t.Errorf("cone = %v, expected Inequality", b.Cone())
	}
	if b.Label() != "Control Bound" {
		t.Errorf("label = %q", b.Label())
	}
}

func TestControlBoundSkipsInfiniteRows(t *testing.T) {
	tests := []struct {
		name  string
		lower []float64
		upper []float64
		dim   int
	}{
		{"negative inf lower", []float64{math.Inf(-1), -3}, []float64{2, 3}, 3},
		{"max float upper", []float64{-2, -3}, []float64{2, math.MaxFloat64}, 3},
		{"one sided", []float64{math.Inf(-1), math.Inf(-1)}, []float64{2, 3}, 2},
		{"fully open", []float64{math.Inf(-1), math.Inf(-1)}, []float64{math.Inf(1), math.Inf(1)}, 0},
	}
	for _, tt := range tests {
		b := NewControlBound(tt.lower, tt.upper)
		if b.OutputDimension() != tt.dim {
			t.Errorf("%s: output dimension = %d, expected %d", tt.name, b.OutputDimension(), tt.dim)
		}
	}
}

func TestControlBoundEvaluateOrder(t *testing.T) {
	b := NewControlBound([]float64{-2, -3}, []float64{2, 3})

	x := mat.NewVecDense(3, nil)
	u := mat.NewVecDense(2, []float64{1.0, -2.5})
	out := mat.NewVecDense(4, nil)

	b.Evaluate(x, u, out)

	// Lower rows first: lb_j − u_j, then upper rows u_j − ub_j.
	expected := []float64{-2 - 1.0, -3 - (-2.5), 1.0 - 2, -2.5 - 3}
	for i, want := range expected {
		if math.Abs(out.AtVec(i)-want) > 1e-12 {
			t.Errorf("row %d = %v, expected %v", i, out.AtVec(i), want)
		}
	}
}

func TestControlBoundJacobian(t *testing.T) {
	b := NewControlBound([]float64{-2, -3}, []float64{2, 3})

	n, m := 3, 2
	x := mat.NewVecDense(n, nil)
	u := mat.NewVecDense(m, nil)
	jac := mat.NewDense(4, n+m, nil)
	jac.Set(0, 0, 99) // must be overwritten

	b.Jacobian(x, u, jac)

	rows := []struct {
		col   int
		entry float64
	}{
		{n + 0, -1},
		{n + 1, -1},
		{n + 0, 1},
		{n + 1, 1},
	}
	for i, want := range rows {
		for j := 0; j < n+m; j++ {
			expected := 0.0
			if j == want.col {
				expected = want.entry
			}
			if jac.At(i, j) != expected {
				t.Errorf("jac[%d,%d] = %v, expected %v", i, j, jac.At(i, j), expected)
			}
		}
	}
}

func TestControlBoundPartialRows(t *testing.T) {
	// Only u₁ is lower-bounded, only u₀ is upper-bounded.
	b := NewControlBound([]float64{math.Inf(-1), -3}, []float64{2, math.Inf(1)})

	if b.OutputDimension() != 2 {
		t.Fatalf("output dimension = %d, expected 2", b.OutputDimension())
	}

	x := mat.NewVecDense(1, nil)
	u := mat.NewVecDense(2, []float64{1.5, -4})
	out := mat.NewVecDense(2, nil)
	b.Evaluate(x, u, out)

	if math.Abs(out.AtVec(0)-(-3-(-4))) > 1e-12 {
		t.Errorf("lower row = %v, expected 1", out.AtVec(0))
	}
	if math.Abs(out.AtVec(1)-(1.5-2)) > 1e-12 {
		t.Errorf("upper row = %v, expected -0.5", out.AtVec(1))
	}

	jac := mat.NewDense(2, 3, nil)
	b.Jacobian(x, u, jac)
	if jac.At(0, 1+1) != -1 {
		t.Errorf("lower row Jacobian entry = %v, expected -1", jac.At(0, 2))
	}
	if jac.At(1, 1+0) != 1 {
		t.Errorf("upper row Jacobian entry = %v, expected 1", jac.At(1, 1))
	}
}

func TestUnboundedControl(t *testing.T) {
	b := NewUnboundedControl(2)

	if b.OutputDimension() != 0 {
		t.Errorf("output dimension = %d, expected 0", b.OutputDimension())
	}

	b.SetLowerBound([]float64{-1, math.Inf(-1)})
	if b.OutputDimension() != 1 {
		t.Errorf("output dimension after lower bound = %d, expected 1", b.OutputDimension())
	}

	b.SetUpperBound([]float64{1, 5})
	if b.OutputDimension() != 3 {
		t.Errorf("output dimension after upper bound = %d, expected 3", b.OutputDimension())
	}
}

func TestControlBoundContracts(t *testing.T) {
	expectViolation := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected a contract violation", name)
			}
		}()
		fn()
	}

	expectViolation("mismatched lengths", func() {
		NewControlBound([]float64{-1}, []float64{1, 2})
	})
	expectViolation("empty bounds", func() {
		NewControlBound(nil, nil)
	})
	expectViolation("crossed bounds", func() {
		NewControlBound([]float64{2}, []float64{-2})
	})
	expectViolation("crossed bounds on set", func() {
		b := NewControlBound([]float64{-1}, []float64{1})
		b.SetLowerBound([]float64{4})
	})
	expectViolation("wrong length on set", func() {
		b := NewControlBound([]float64{-1}, []float64{1})
		b.SetUpperBound([]float64{1, 2})
	})
	expectViolation("wrong control size", func() {
		b := NewControlBound([]float64{-1}, []float64{1})
		out := mat.NewVecDense(2, nil)
		b.Evaluate(mat.NewVecDense(1, nil), mat.NewVecDense(3, nil), out)
	})
}

func TestStateBound(t *testing.T) {
	b := NewStateBound([]float64{0, 0, math.Inf(-1)}, []float64{3, 3, math.Inf(1)})

	if b.OutputDimension() != 4 {
		t.Fatalf("output dimension = %d, expected 4", b.OutputDimension())
	}
	if b.StateDimension() != 3 {
		t.Errorf("state dimension = %d, expected 3", b.StateDimension())
	}
	if b.Label() != "State Bound" {
		t.Errorf("label = %q", b.Label())
	}

	x := mat.NewVecDense(3, []float64{-0.5, 2, 9})
	u := mat.NewVecDense(2, nil)
	out := mat.NewVecDense(4, nil)
	b.Evaluate(x, u, out)

	expected := []float64{0 - (-0.5), 0 - 2, -0.5 - 3, 2 - 3}
	for i, want := range expected {
		if math.Abs(out.AtVec(i)-want) > 1e-12 {
			t.Errorf("row %d = %v, expected %v", i, out.AtVec(i), want)
		}
	}

	jac := mat.NewDense(4, 5, nil)
	b.Jacobian(x, u, jac)
	if jac.At(0, 0) != -1 || jac.At(1, 1) != -1 {
		t.Error("lower rows must carry -1 on the state columns")
	}
	if jac.At(2, 0) != 1 || jac.At(3, 1) != 1 {
		t.Error("upper rows must carry 1 on the state columns")
	}
	if jac.At(0, 3) != 0 || jac.At(2, 4) != 0 {
		t.Error("control columns must stay zero")
	}
}
