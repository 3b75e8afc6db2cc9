package FD2D

import (
	"math"
	"testing"

	"github.com/notargets/convdo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarField(t *testing.T) {
	var (
		A = utils.NewTensorConst(1, 1, 3, 4, 2)
		B = utils.NewTensorConst(1, 1, 3, 4, 5)
	)
	dA, err := NewDomain([]Boundary{DirichletBoundary(1), NeumannBoundary(2),
		UnconstrainedBoundary(), UnconstrainedBoundary()})
	require.NoError(t, err)
	dB, err := NewDomain([]Boundary{DirichletBoundary(3), NeumannBoundary(1),
		UnconstrainedBoundary(), UnconstrainedBoundary()})
	require.NoError(t, err)
	fA, fB := NewScalarField(A, dA), NewScalarField(B, dB)
	{ // Test a nil domain defaults to unconstrained unit spacing
		f := NewScalarField2D(utils.NewMatrix(2, 2), nil)
		assert.Equal(t, [4]int{1, 1, 2, 2}, f.Shape())
		assert.Equal(t, UnconstrainedBoundary(), f.Domain.Left)
		assert.Equal(t, 1., f.Domain.DeltaX)
	}
	{ // Test values and domains combine together
		R, err := fA.Sub(fB)
		require.NoError(t, err)
		assert.Equal(t, -3., R.Value.At(0, 0, 2, 3))
		assert.Equal(t, DirichletBoundary(-2), R.Domain.Left)
		assert.Equal(t, NeumannBoundary(1), R.Domain.Right)
		R, err = fA.Mul(fB)
		require.NoError(t, err)
		assert.Equal(t, 10., R.Value.At(0, 0, 0, 0))
		assert.Equal(t, DirichletBoundary(3), R.Domain.Left)
		assert.Equal(t, UnconstrainedBoundary(), R.Domain.Right)
		R, err = fB.Div(fA)
		require.NoError(t, err)
		assert.Equal(t, 2.5, R.Value.At(0, 0, 1, 1))
		R, err = fA.Pow(fA)
		require.NoError(t, err)
		assert.Equal(t, 4., R.Value.At(0, 0, 1, 1))
	}
	{ // Test scalar operations on both sides
		R, err := ScalarSub(10, fA)
		require.NoError(t, err)
		assert.Equal(t, 8., R.Value.At(0, 0, 0, 0))
		assert.Equal(t, DirichletBoundary(9), R.Domain.Left)
		assert.Equal(t, NeumannBoundary(-2), R.Domain.Right)
		R, err = ScalarDiv(1, fA)
		require.NoError(t, err)
		assert.Equal(t, 0.5, R.Value.At(0, 0, 0, 0))
		assert.Equal(t, DirichletBoundary(1), R.Domain.Left)
		assert.Equal(t, UnconstrainedBoundary(), R.Domain.Right)
		R, err = fA.Scale(3)
		require.NoError(t, err)
		assert.Equal(t, 6., R.Value.At(0, 0, 0, 0))
		assert.Equal(t, NeumannBoundary(6), R.Domain.Right)
		R, err = fA.AddScalar(1)
		require.NoError(t, err)
		assert.Equal(t, DirichletBoundary(2), R.Domain.Left)
		R, err = fA.Neg()
		require.NoError(t, err)
		assert.Equal(t, -2., R.Value.At(0, 0, 0, 0))
	}
	{ // Test shape errors propagate
		_, err := fA.Add(NewScalarField(utils.NewTensorConst(1, 1, 4, 4, 1), nil))
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}
	{ // Test rebinding shares the domain and not the buffer
		R := fA.Rebind(B)
		assert.Same(t, fA.Domain, R.Domain)
		assert.Equal(t, 5., R.Value.At(0, 0, 0, 0))
		assert.Equal(t, 2., fA.Value.At(0, 0, 0, 0))
	}
}

func TestVectorField(t *testing.T) {
	c := func(v float64) *ScalarField {
		return NewScalarField(utils.NewTensorConst(1, 1, 2, 2, v), nil)
	}
	u := NewVectorField(c(1), c(2))
	w := NewVectorField(c(3), c(4))
	{ // Test componentwise algebra
		R, err := u.Add(w)
		require.NoError(t, err)
		assert.Equal(t, 4., R.Ux.Value.At(0, 0, 0, 0))
		assert.Equal(t, 6., R.Uy.Value.At(0, 0, 0, 0))
		R, err = u.Sub(w)
		require.NoError(t, err)
		assert.Equal(t, -2., R.Uy.Value.At(0, 0, 1, 1))
		R, err = u.Scale(0.5)
		require.NoError(t, err)
		assert.Equal(t, 1., R.Uy.Value.At(0, 0, 1, 1))
		R, err = u.CombineField(utils.OpMul, c(10))
		require.NoError(t, err)
		assert.Equal(t, 20., R.Uy.Value.At(0, 0, 1, 1))
	}
	{ // Test a failing component yields no partial result
		bad := NewScalarField(utils.NewTensorConst(1, 1, 3, 3, 1), nil)
		R, err := u.Add(NewVectorField(c(1), bad))
		assert.ErrorIs(t, err, ErrShapeMismatch)
		assert.Nil(t, R)
		R, err = u.CombineField(utils.OpMul, bad)
		assert.ErrorIs(t, err, ErrShapeMismatch)
		assert.Nil(t, R)
		R, err = u.DotTensor(NewTensorField(c(1), c(1), c(1), bad))
		assert.ErrorIs(t, err, ErrShapeMismatch)
		assert.Nil(t, R)
		T, err := NewTensorField(c(1), c(1), c(1), c(1)).Combine(utils.OpAdd, NewTensorField(c(1), c(1), c(1), bad))
		assert.ErrorIs(t, err, ErrShapeMismatch)
		assert.Nil(t, T)
	}
	{ // Test products
		D, err := u.Dot(w)
		require.NoError(t, err)
		assert.Equal(t, 11., D.Value.At(0, 0, 0, 1))
		T, err := u.Outer(w)
		require.NoError(t, err)
		assert.Equal(t, 3., T.Uxx.Value.At(0, 0, 0, 0))
		assert.Equal(t, 4., T.Uyx.Value.At(0, 0, 0, 0))
		assert.Equal(t, 6., T.Uxy.Value.At(0, 0, 0, 0))
		assert.Equal(t, 8., T.Uyy.Value.At(0, 0, 0, 0))
		tr, err := T.Trace()
		require.NoError(t, err)
		assert.Equal(t, 11., tr.Value.At(0, 0, 0, 0))
		// (1, 2) . [[5, 6], [7, 8]] with uxx=5, uyx=6, uxy=7, uyy=8
		J := NewTensorField(c(5), c(6), c(7), c(8))
		V, err := u.DotTensor(J)
		require.NoError(t, err)
		assert.Equal(t, 19., V.Ux.Value.At(0, 0, 0, 0))
		assert.Equal(t, 22., V.Uy.Value.At(0, 0, 0, 0))
		J2, err := J.CombineScalar(utils.OpMul, 2)
		require.NoError(t, err)
		J3, err := J2.Combine(utils.OpSub, J)
		require.NoError(t, err)
		assert.Equal(t, 8., J3.Uyy.Value.At(0, 0, 1, 0))
	}
}

func TestDifferentialOperators(t *testing.T) {
	var (
		k = 2 * math.Pi
		n = 32
		h = 1. / float64(n)
	)
	d, err := PeriodicDomain(WithSpacing(h, h))
	require.NoError(t, err)
	ops, err := NewFieldOperations(4)
	require.NoError(t, err)
	assert.Same(t, ops.Nabla.X, ops.GradX)
	field := func(f func(x, y float64) float64) *ScalarField {
		return NewScalarField(sample(n, n, 1, 1, f), d)
	}
	u := NewVectorField(
		field(func(x, y float64) float64 { return math.Sin(k * x) }),
		field(func(x, y float64) float64 { return math.Cos(k * y) }),
	)
	var (
		dudx = sample(n, n, 1, 1, func(x, y float64) float64 { return k * math.Cos(k*x) })
		dvdy = sample(n, n, 1, 1, func(x, y float64) float64 { return -k * math.Sin(k*y) })
		tol  = 1.e-3
	)
	{ // Test the jacobian component layout
		J, err := ops.Nabla.Jacobian(u)
		require.NoError(t, err)
		assert.Less(t, maxError(J.Uxx.Value, dudx), tol)
		assert.Less(t, J.Uyx.Value.MaxAbs(), 1.e-10)
		assert.Less(t, J.Uxy.Value.MaxAbs(), 1.e-10)
		assert.Less(t, maxError(J.Uyy.Value, dvdy), tol)
	}
	{ // Test divergence and gradient
		D, err := ops.Nabla.Div(u)
		require.NoError(t, err)
		sum, err := dudx.Combine(utils.OpAdd, dvdy)
		require.NoError(t, err)
		assert.Less(t, maxError(D.Value, sum), 2*tol)

		G, err := ops.Nabla.Grad(u.Ux)
		require.NoError(t, err)
		assert.Less(t, maxError(G.Ux.Value, dudx), tol)
		assert.Less(t, G.Uy.Value.MaxAbs(), 1.e-10)
	}
	{ // Test the vector laplacian
		L, err := ops.Nabla2.ApplyVector(u)
		require.NoError(t, err)
		lu := sample(n, n, 1, 1, func(x, y float64) float64 { return -k * k * math.Sin(k*x) })
		assert.Less(t, maxError(L.Ux.Value, lu), 1.e-2)
	}
	{ // Test unsupported order
		_, err := NewFieldOperations(5)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
}
