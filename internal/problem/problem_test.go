package problem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
	"github.com/san-kum/trajopt/internal/constraint"
	"github.com/san-kum/trajopt/internal/cost"
	"github.com/san-kum/trajopt/internal/dynamics"
	"github.com/san-kum/trajopt/internal/integrators"
	"github.com/san-kum/trajopt/internal/models"
	"github.com/san-kum/trajopt/internal/problem"
)

const nseg = 10

// A 6-state, 2-control discretized model, matching the cost below.
func makeModel() problem.Dynamics {
	return dynamics.Discretize(models.NewTripleIntegrator(2), integrators.NewRK4())
}

func makeCost() problem.CostFunction {
	return cost.LQR(cost.ConstantDiagonal(6, 1), cost.ConstantDiagonal(2, 0.1),
		mat.NewVecDense(6, nil), mat.NewVecDense(2, nil), false)
}

var _ = Describe("Problem", func() {
	var prob *problem.Problem

	BeforeEach(func() {
		prob = problem.New(nseg)
	})

	Describe("initialization", func() {
		It("starts empty", func() {
			Expect(prob.NumSegments()).To(Equal(nseg))
			Expect(prob.IsFullyDefined()).To(BeFalse())
			Expect(prob.GetInitialState()).To(BeNil())
			Expect(prob.GetCostFunction(0)).To(BeNil())
			Expect(prob.Constraints(0)).To(BeEmpty())
		})

		It("rejects a non-positive segment count", func() {
			Expect(func() { problem.New(0) }).To(
				PanicWith(MatchError(ContainSubstring("number of segments must be positive"))))
		})
	})

	Describe("dynamics", func() {
		It("stores models per segment", func() {
			prob.SetDynamics(makeModel(), 0)
			Expect(prob.IsFullyDefined()).To(BeFalse())
			Expect(prob.GetDynamics(0)).NotTo(BeNil())

			for k := 0; k < nseg; k++ {
				prob.SetDynamics(makeModel(), k)
				Expect(prob.GetDynamics(k)).NotTo(BeNil())
			}
			Expect(prob.IsFullyDefined()).To(BeFalse())
		})

		It("panics when reading an undefined segment", func() {
			prob.SetDynamics(makeModel(), 0)
			Expect(func() { prob.GetDynamics(1) }).To(
				PanicWith(MatchError(ContainSubstring("Dynamics have not been defined"))))
		})

		It("fills a prefix of segments from a slice", func() {
			ms := make([]problem.Dynamics, nseg)
			for k := range ms {
				ms[k] = makeModel()
			}
			prob.SetAllDynamics(ms)
			Expect(prob.GetDynamics(nseg - 1)).NotTo(BeNil())
			Expect(prob.IsFullyDefined()).To(BeFalse())
		})
	})

	Describe("cost functions", func() {
		It("returns nil for unset stages", func() {
			prob.SetCostFunction(makeCost(), 5)
			Expect(prob.GetCostFunction(5)).NotTo(BeNil())
			Expect(prob.GetCostFunction(0)).To(BeNil())

			costs := make([]problem.CostFunction, 4)
			for k := range costs {
				costs[k] = makeCost()
			}
			prob.SetAllCostFunctions(costs)
			for k := 0; k < 4; k++ {
				Expect(prob.GetCostFunction(k)).NotTo(BeNil())
			}
			Expect(prob.GetCostFunction(4)).To(BeNil())
			Expect(prob.IsFullyDefined()).To(BeFalse())
		})

		It("is not fully defined without the terminal cost", func() {
			for k := 0; k < nseg; k++ {
				prob.SetDynamics(makeModel(), k)
				prob.SetCostFunction(makeCost(), k)
			}
			prob.SetInitialState(mat.NewVecDense(6, []float64{1, 2, 3, 4, 5, 6}))
			Expect(prob.IsFullyDefined()).To(BeFalse())
		})
	})

	Describe("initial state", func() {
		It("stores a copy", func() {
			x0 := mat.NewVecDense(6, []float64{1, 2, 3, 4, 5, 6})
			prob.SetInitialState(x0)
			x0.SetVec(0, -99)
			Expect(prob.GetInitialState().AtVec(0)).To(Equal(1.0))
		})

		It("can be replaced", func() {
			prob.SetInitialState(mat.NewVecDense(6, []float64{1, 2, 3, 4, 5, 6}))
			prob.SetInitialState(mat.NewVecDense(6, []float64{6, 5, 4, 3, 2, 1}))
			Expect(prob.GetInitialState().AtVec(0)).To(Equal(6.0))
		})
	})

	Describe("full definition", func() {
		fill := func() {
			for k := 0; k < nseg; k++ {
				prob.SetDynamics(makeModel(), k)
			}
			for k := 0; k <= nseg; k++ {
				prob.SetCostFunction(makeCost(), k)
			}
		}

		It("requires every slot plus a matching initial state", func() {
			fill()
			prob.SetInitialState(mat.NewVecDense(6, []float64{1, 2, 3, 4, 5, 6}))
			Expect(prob.IsFullyDefined()).To(BeTrue())
		})

		It("rejects an initial state of the wrong size", func() {
			fill()
			prob.SetInitialState(mat.NewVecDense(7, nil))
			Expect(prob.IsFullyDefined()).To(BeFalse())
		})
	})

	Describe("constraints", func() {
		It("counts constraint rows per stage", func() {
			goal := constraint.NewGoal(mat.NewVecDense(4, []float64{1, 2, 3, 4}))
			prob.SetConstraint(goal, nseg)
			Expect(prob.NumConstraints(nseg)).To(Equal(4))

			bound := constraint.NewControlBound([]float64{-2, -3}, []float64{2, 3})
			Expect(prob.NumConstraints(1)).To(Equal(0))
			Expect(bound.OutputDimension()).To(Equal(4))
			for k := 0; k < nseg; k++ {
				prob.SetConstraint(bound, k)
			}
			Expect(prob.NumConstraints(0)).To(Equal(4))
			Expect(prob.NumConstraints(nseg - 1)).To(Equal(4))
		})

		It("accumulates constraints on the same stage", func() {
			prob.SetConstraint(constraint.NewControlBound([]float64{-1}, []float64{1}), 3)
			prob.SetConstraint(constraint.NewGoal(mat.NewVecDense(2, nil)), 3)
			Expect(prob.Constraints(3)).To(HaveLen(2))
			Expect(prob.NumConstraints(3)).To(Equal(4))
		})

		It("rejects a nil constraint", func() {
			Expect(func() { prob.SetConstraint(nil, nseg) }).To(
				PanicWith(MatchError(ContainSubstring("must provide a valid constraint pointer"))))
		})

		It("rejects a constraint with no rows", func() {
			unbounded := constraint.NewUnboundedControl(2)
			Expect(unbounded.OutputDimension()).To(Equal(0))
			Expect(func() { prob.SetConstraint(unbounded, 0) }).To(
				PanicWith(MatchError(ContainSubstring("length greater than zero"))))
		})
	})

	Describe("with checks disabled", func() {
		It("skips the contract checks", func() {
			assert.SetActive(false)
			defer assert.SetActive(true)

			Expect(func() { prob.SetConstraint(constraint.NewUnboundedControl(2), 0) }).NotTo(Panic())
			Expect(prob.NumConstraints(0)).To(Equal(0))
			Expect(prob.GetDynamics(1)).To(BeNil())
		})
	})
})
