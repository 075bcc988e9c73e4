package constraint

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
	"github.com/san-kum/trajopt/internal/cones"
)

// scalar is a one-row constraint g = x₀ used to exercise the Base defaults.
type scalar struct {
	Base
}

func newScalar(k cones.Kind) scalar {
	return scalar{Base: ForCone(k)}
}

func (s scalar) OutputDimension() int { return 1 }

func (s scalar) Evaluate(x, u mat.Vector, out *mat.VecDense) {
	out.SetVec(0, x.AtVec(0))
}

func (s scalar) Jacobian(x, u mat.Vector, jac *mat.Dense) {
	jac.Zero()
	jac.Set(0, 0, 1)
}

func TestTypeLabel(t *testing.T) {
	tests := []struct {
		kind cones.Kind
		want string
	}{
		{cones.Equality, "Equality Constraint"},
		{cones.Inequality, "Inequality Constraint"},
		{cones.Identity, "Undefined Constraint Type"},
	}
	for _, tt := range tests {
		if got := TypeLabel(tt.kind); got != tt.want {
			t.Errorf("TypeLabel(%v) = %q, expected %q", tt.kind, got, tt.want)
		}
	}
}

func TestBaseDefaults(t *testing.T) {
	c := newScalar(cones.Equality)

	if c.Cone() != cones.Equality {
		t.Errorf("cone = %v, expected Equality", c.Cone())
	}
	if c.Label() != "Equality Constraint" {
		t.Errorf("label = %q, expected cone-derived label", c.Label())
	}
	if c.HasHessian() {
		t.Error("constraints must report first-order information only")
	}
}

func TestBaseDimensionsUndefined(t *testing.T) {
	c := newScalar(cones.Inequality)

	for _, call := range []func() int{c.StateDimension, c.ControlDimension} {
		func() {
			defer func() {
				v, ok := recover().(*assert.Violation)
				if !ok {
					t.Fatal("expected a contract violation for an undefined dimension")
				}
				if v.Msg == "" {
					t.Error("violation carries no message")
				}
			}()
			call()
		}()
	}
}

func TestViolationEquality(t *testing.T) {
	// An equality residual is the full constraint value.
	c := newScalar(cones.Equality)
	x := mat.NewVecDense(1, []float64{0.75})
	u := mat.NewVecDense(1, nil)

	v := Violation(c, x, u)

	if v.Len() != 1 || v.AtVec(0) != 0.75 {
		t.Errorf("violation = %v, expected [0.75]", mat.Formatted(v))
	}
}

func TestViolationInequality(t *testing.T) {
	// An inequality residual clips to the infeasible part, max(0, g).
	c := newScalar(cones.Inequality)
	u := mat.NewVecDense(1, nil)

	x := mat.NewVecDense(1, []float64{0.75})
	if v := Violation(c, x, u); v.AtVec(0) != 0.75 {
		t.Errorf("violated constraint: residual = %v, expected 0.75", v.AtVec(0))
	}

	x = mat.NewVecDense(1, []float64{-0.75})
	if v := Violation(c, x, u); v.AtVec(0) != 0 {
		t.Errorf("satisfied constraint: residual = %v, expected 0", v.AtVec(0))
	}
}
