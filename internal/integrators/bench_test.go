package integrators

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/models"
)

func BenchmarkEulerStep(b *testing.B) {
	un := models.NewUnicycle()
	integ := NewEuler()
	x := mat.NewVecDense(3, []float64{0, 0, 0.2})
	u := mat.NewVecDense(2, []float64{1, 0.1})
	xn := mat.NewVecDense(3, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Integrate(un, x, u, 0, 0.01, xn)
	}
}

func BenchmarkRK4Step(b *testing.B) {
	un := models.NewUnicycle()
	integ := NewRK4()
	x := mat.NewVecDense(3, []float64{0, 0, 0.2})
	u := mat.NewVecDense(2, []float64{1, 0.1})
	xn := mat.NewVecDense(3, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Integrate(un, x, u, 0, 0.01, xn)
	}
}

func BenchmarkRK4Jacobian(b *testing.B) {
	un := models.NewUnicycle()
	integ := NewRK4()
	x := mat.NewVecDense(3, []float64{0, 0, 0.2})
	u := mat.NewVecDense(2, []float64{1, 0.1})
	jac := mat.NewDense(3, 5, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Jacobian(un, x, u, 0, 0.01, jac)
	}
}

func BenchmarkRK4StepTripleIntegrator(b *testing.B) {
	ti := models.NewTripleIntegrator(2)
	integ := NewRK4()
	x := mat.NewVecDense(6, []float64{1, 2, 3, 4, 5, 6})
	u := mat.NewVecDense(2, []float64{1, -1})
	xn := mat.NewVecDense(6, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Integrate(ti, x, u, 0, 0.01, xn)
	}
}
