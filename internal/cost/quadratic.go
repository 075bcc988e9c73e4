// Package cost provides quadratic stage costs for trajectory optimization.
package cost

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajopt/internal/assert"
)

// Quadratic is the cost
//
//	J(x,u) = ½ xᵀQx + ½ uᵀRu + xᵀHu + qᵀx + rᵀu + c
//
// with Q symmetric positive semidefinite and R symmetric positive definite
// (R definiteness is only required for non-terminal costs). The blocks are
// validated once at construction; evaluation writes derivatives into caller
// buffers.
type Quadratic struct {
	n, m     int
	terminal bool
	qxx      *mat.Dense
	quu      *mat.Dense
	qxu      *mat.Dense
	qx       *mat.VecDense
	qu       *mat.VecDense
	c        float64
}

// NewQuadratic builds a quadratic cost from its blocks: Q is n×n, R is m×m,
// H is n×m, q has length n and r length m.
func NewQuadratic(Q, R, H *mat.Dense, q, r *mat.VecDense, c float64, terminal bool) *Quadratic {
	n := q.Len()
	m := r.Len()
	qr, qc := Q.Dims()
	rr, rc := R.Dims()
	hr, hc := H.Dims()
	assert.Assertf(qr == n && qc == n, "Q must be %d x %d", n, n)
	assert.Assertf(rr == m && rc == m, "R must be %d x %d", m, m)
	assert.Assertf(hr == n && hc == m, "H must be %d x %d", n, m)
	assert.Assertf(isSymmetric(Q), "Q must be symmetric")
	assert.Assertf(isSymmetric(R), "R must be symmetric")

	cost := &Quadratic{
		n:        n,
		m:        m,
		terminal: terminal,
		qxx:      mat.DenseCopyOf(Q),
		quu:      mat.DenseCopyOf(R),
		qxu:      mat.DenseCopyOf(H),
		qx:       mat.VecDenseCopyOf(q),
		qu:       mat.VecDenseCopyOf(r),
		c:        c,
	}
	cost.validate()
	return cost
}

// LQR returns the quadratic tracking cost
//
//	½ (x−xref)ᵀQ(x−xref) + ½ (u−uref)ᵀR(u−uref)
//
// expanded into the canonical blocks. Terminal costs skip the positive
// definiteness requirement on R.
func LQR(Q, R *mat.Dense, xref, uref mat.Vector, terminal bool) *Quadratic {
	n := xref.Len()
	m := uref.Len()
	q := mat.NewVecDense(n, nil)
	q.MulVec(Q, xref)
	q.ScaleVec(-1, q)
	r := mat.NewVecDense(m, nil)
	r.MulVec(R, uref)
	r.ScaleVec(-1, r)
	c := 0.5*mat.Inner(xref, Q, xref) + 0.5*mat.Inner(uref, R, uref)
	return NewQuadratic(Q, R, mat.NewDense(n, m, nil), q, r, c, terminal)
}

// Diagonal returns an n×n matrix with the given diagonal entries, a
// convenience for building LQR weights.
func Diagonal(diag []float64) *mat.Dense {
	n := len(diag)
	d := mat.NewDense(n, n, nil)
	for i, v := range diag {
		d.Set(i, i, v)
	}
	return d
}

// ConstantDiagonal returns an n×n matrix with v on the diagonal.
func ConstantDiagonal(n int, v float64) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, v)
	}
	return d
}

func (qc *Quadratic) StateDimension() int { return qc.n }

func (qc *Quadratic) ControlDimension() int { return qc.m }

// Terminal reports whether the cost is meant for the final stage.
func (qc *Quadratic) Terminal() bool { return qc.terminal }

// Evaluate returns J(x,u). A zero-length u drops the control terms, which
// is how the terminal stage is evaluated.
func (qc *Quadratic) Evaluate(x, u mat.Vector) float64 {
	assert.Assertf(x.Len() == qc.n, "inconsistent state dimension when evaluating a quadratic cost")
	j := 0.5*mat.Inner(x, qc.qxx, x) + mat.Dot(qc.qx, x) + qc.c
	if u != nil && u.Len() > 0 {
		assert.Assertf(u.Len() == qc.m, "inconsistent control dimension when evaluating a quadratic cost")
		j += 0.5*mat.Inner(u, qc.quu, u) + mat.Dot(qc.qu, u) + mat.Inner(x, qc.qxu, u)
	}
	return j
}

// Gradient writes ∂J/∂x into dx and ∂J/∂u into du. With a zero-length u
// only the state gradient is produced.
func (qc *Quadratic) Gradient(x, u mat.Vector, dx, du *mat.VecDense) {
	assert.Assertf(x.Len() == qc.n, "inconsistent state dimension in a quadratic cost gradient")
	dx.MulVec(qc.qxx, x)
	dx.AddVec(dx, qc.qx)
	if u == nil || u.Len() == 0 {
		return
	}
	assert.Assertf(u.Len() == qc.m, "inconsistent control dimension in a quadratic cost gradient")
	var tmp mat.VecDense
	tmp.MulVec(qc.qxu, u)
	dx.AddVec(dx, &tmp)

	du.MulVec(qc.quu, u)
	du.AddVec(du, qc.qu)
	tmp.Reset()
	tmp.MulVec(qc.qxu.T(), x)
	du.AddVec(du, &tmp)
}

// Hessian writes the constant blocks Q, H and R into dxdx, dxdu and dudu.
func (qc *Quadratic) Hessian(x, u mat.Vector, dxdx, dxdu, dudu *mat.Dense) {
	dxdx.Copy(qc.qxx)
	if dxdu != nil {
		dxdu.Copy(qc.qxu)
	}
	if dudu != nil {
		dudu.Copy(qc.quu)
	}
}

func (qc *Quadratic) validate() {
	if !qc.terminal {
		assert.Assertf(isPositiveDefinite(qc.quu), "R must be positive definite")
	}
	assert.Assertf(isPositiveSemidefinite(qc.qxx), "Q must be positive semi-definite")
}

func isSymmetric(a *mat.Dense) bool {
	n, m := a.Dims()
	if n != m {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := a.At(i, j) - a.At(j, i)
			if d < -1e-10 || d > 1e-10 {
				return false
			}
		}
	}
	return true
}

func symmetrize(a *mat.Dense) *mat.SymDense {
	n, _ := a.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	return s
}

func isPositiveDefinite(a *mat.Dense) bool {
	var chol mat.Cholesky
	return chol.Factorize(symmetrize(a))
}

func isPositiveSemidefinite(a *mat.Dense) bool {
	var eig mat.EigenSym
	if !eig.Factorize(symmetrize(a), false) {
		return false
	}
	for _, v := range eig.Values(nil) {
		if v < -1e-8 {
			return false
		}
	}
	return true
}
