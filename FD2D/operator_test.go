package FD2D

import (
	"math"
	"testing"

	"github.com/notargets/convdo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample evaluates f at the cell centres of an nr x nc grid covering
// [0, lx] x [0, ly], with y increasing upward from the bottom row.
func sample(nr, nc int, lx, ly float64, f func(x, y float64) float64) utils.Tensor {
	var (
		dx, dy = lx / float64(nc), ly / float64(nr)
		T      = utils.NewTensor(1, 1, nr, nc)
	)
	for i := 0; i < nr; i++ {
		y := (float64(nr-i) - 0.5) * dy
		for j := 0; j < nc; j++ {
			x := (float64(j) + 0.5) * dx
			T.Planes[0].Set(i, j, f(x, y))
		}
	}
	return T
}

func maxError(A, B utils.Tensor) (m float64) {
	for i, a := range A.Data() {
		m = math.Max(m, math.Abs(a-B.Data()[i]))
	}
	return
}

func periodicSine(t *testing.T, order int, dir Direction, n int) float64 {
	var (
		k         = 2 * math.Pi
		nr, nc    = 4, n
		f, dfdx   func(x, y float64) float64
		dx, dy    = 1. / float64(n), 1. / 4
		gradient  *ConvOperator
		domain    *Domain
		err       error
		result, F *ScalarField
	)
	f = func(x, y float64) float64 { return math.Sin(k * x) }
	dfdx = func(x, y float64) float64 { return k * math.Cos(k*x) }
	if dir == Y {
		nr, nc = n, 4
		dx, dy = 1./4, 1./float64(n)
		f = func(x, y float64) float64 { return math.Sin(k * y) }
		dfdx = func(x, y float64) float64 { return k * math.Cos(k*y) }
	}
	domain, err = PeriodicDomain(WithSpacing(dx, dy))
	require.NoError(t, err)
	gradient, err = Grad(order, dir)
	require.NoError(t, err)
	F = NewScalarField(sample(nr, nc, float64(nc)*dx, float64(nr)*dy, f), domain)
	result, err = gradient.Apply(F)
	require.NoError(t, err)
	require.Equal(t, F.Shape(), result.Shape())
	return maxError(result.Value, sample(nr, nc, float64(nc)*dx, float64(nr)*dy, dfdx))
}

func TestConvOperatorPeriodic(t *testing.T) {
	k := 2 * math.Pi
	{ // Test order 2 is within the truncation bound
		for _, dir := range []Direction{X, Y} {
			dx := 1. / 64
			assert.Less(t, periodicSine(t, 2, dir, 64), k*k*k*dx*dx/6)
		}
	}
	{ // Test each order converges at its nominal rate
		for _, order := range SupportedOrders() {
			for _, dir := range []Direction{X, Y} {
				e1 := periodicSine(t, order, dir, 16)
				e2 := periodicSine(t, order, dir, 32)
				rate := math.Log2(e1 / e2)
				assert.Greater(t, rate, float64(order)-0.5, "order %d along %s", order, dir)
			}
		}
	}
	{ // Test the laplacian of a periodic product
		n := 64
		d, err := PeriodicDomain(WithSpacing(1./float64(n), 1./float64(n)))
		require.NoError(t, err)
		f := func(x, y float64) float64 { return math.Sin(k*x) * math.Cos(k*y) }
		lf := func(x, y float64) float64 { return -2 * k * k * f(x, y) }
		lap, err := NewLaplacian(2)
		require.NoError(t, err)
		R, err := lap.Apply(NewScalarField(sample(n, n, 1, 1, f), d))
		require.NoError(t, err)
		h := 1. / float64(n)
		assert.Less(t, maxError(R.Value, sample(n, n, 1, 1, lf)), 2*math.Pow(k, 4)*h*h/12)
	}
}

func TestConvOperatorBoundaries(t *testing.T) {
	var (
		n  = 10
		dx = 1. / float64(n)
		F  = sample(3, n, 1, 0.3, func(x, y float64) float64 { return x })
	)
	gx, err := Grad(2, X)
	require.NoError(t, err)
	{ // Test a linear field between matching Dirichlet faces has unit slope
		d, err := NewDomain([]Boundary{DirichletBoundary(0), DirichletBoundary(1),
			UnconstrainedBoundary(), UnconstrainedBoundary()}, WithSpacing(dx, 0.1))
		require.NoError(t, err)
		R, err := gx.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		for _, val := range R.Value.Data() {
			assert.InDelta(t, 1, val, 1.e-12)
		}
		assert.Equal(t, UnconstrainedBoundary(), R.Domain.Left)
		assert.Equal(t, dx, R.Domain.DeltaX)
	}
	{ // Test unconstrained faces leave interior cells exact
		R, err := gx.Apply(NewScalarField(F, nil))
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			for j := 1; j < n-1; j++ {
				assert.InDelta(t, dx, R.Value.At(0, 0, i, j), 1.e-12)
			}
		}
	}
	{ // Test a high-order stencil needs a periodic pair
		g4, err := Grad(4, X)
		require.NoError(t, err)
		d, err := NewDomain([]Boundary{DirichletBoundary(0), DirichletBoundary(1),
			PeriodicBoundary(), PeriodicBoundary()})
		require.NoError(t, err)
		_, err = g4.Apply(NewScalarField(F, d))
		assert.ErrorIs(t, err, ErrUnsupportedOperator)
		d, err = NewDomain([]Boundary{PeriodicBoundary(), PeriodicBoundary(),
			DirichletBoundary(0), DirichletBoundary(1)})
		require.NoError(t, err)
		_, err = g4.Apply(NewScalarField(F, d))
		assert.NoError(t, err)
	}
	{ // Test fields smaller than the extrapolation stencil
		_, err := gx.Apply(NewScalarField(utils.NewTensorConst(1, 1, 3, 2, 1), nil))
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}
}

func TestConvOperatorObstacles(t *testing.T) {
	var (
		nr, nc = 4, 10
		F      = sample(nr, nc, float64(nc), float64(nr), func(x, y float64) float64 { return x * x })
		shape  = blockShape(nr, nc, 0, nr, 5, 7)
	)
	ob, err := DirichletObstacle(shape, 0)
	require.NoError(t, err)
	{ // Test order 2 corrects the fluid cells beside the solid and zeroes the solid
		d, err := UnconstrainedDomain(WithObstacles(ob))
		require.NoError(t, err)
		gx, err := Grad(2, X)
		require.NoError(t, err)
		R, err := gx.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		for i := 0; i < nr; i++ {
			f := func(j int) float64 { return F.At(0, 0, i, j) }
			assert.InDelta(t, ((0-f(4))-f(3))/2, R.Value.At(0, 0, i, 4), 1.e-12)
			assert.InDelta(t, (f(8)-(0-f(7)))/2, R.Value.At(0, 0, i, 7), 1.e-12)
			assert.InDelta(t, (f(3)-f(1))/2, R.Value.At(0, 0, i, 2), 1.e-12)
			assert.Equal(t, 0., R.Value.At(0, 0, i, 5))
			assert.Equal(t, 0., R.Value.At(0, 0, i, 6))
		}
		assert.Empty(t, R.Domain.Obstacles)
	}
	{ // Test obstacles are honoured in periodic domains
		d, err := PeriodicDomain(WithObstacles(ob))
		require.NoError(t, err)
		gx, err := Grad(2, X)
		require.NoError(t, err)
		R, err := gx.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		f0, fl := F.At(0, 0, 0, 0), F.At(0, 0, 0, nc-1)
		assert.InDelta(t, (F.At(0, 0, 0, 1)-fl)/2, R.Value.At(0, 0, 0, 0), 1.e-12)
		assert.InDelta(t, (f0-F.At(0, 0, 0, nc-2))/2, R.Value.At(0, 0, 0, nc-1), 1.e-12)
		assert.InDelta(t, -F.At(0, 0, 0, 3)/2-F.At(0, 0, 0, 4)/2, R.Value.At(0, 0, 0, 4), 1.e-12)
	}
	{ // Test the high-order obstacle policy
		d, err := PeriodicDomain(WithObstacles(ob))
		require.NoError(t, err)
		g4, err := Grad(4, X)
		require.NoError(t, err)
		_, err = g4.Apply(NewScalarField(F, d))
		assert.ErrorIs(t, err, ErrUnsupportedOperator)

		g4i, err := Grad(4, X, WithObstaclePolicy(IgnoreObstaclesHighOrder))
		require.NoError(t, err)
		R, err := g4i.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		dp, err := PeriodicDomain()
		require.NoError(t, err)
		Rp, err := g4i.Apply(NewScalarField(F, dp))
		require.NoError(t, err)
		assert.True(t, R.Value.Equal(Rp.Value))
	}
}

func TestConvOperatorObstaclesY(t *testing.T) {
	var (
		nr, nc = 6, 4
		data   = make([]float64, nr*nc)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			data[i*nc+j] = float64(10*i + j)
		}
	}
	F, err := utils.NewTensorFromData(1, 1, nr, nc, data)
	require.NoError(t, err)
	ob, err := DirichletObstacle(blockShape(nr, nc, 2, 4, 0, nc), 0)
	require.NoError(t, err)
	d, err := UnconstrainedDomain(WithObstacles(ob))
	require.NoError(t, err)
	gy, err := Grad(2, Y)
	require.NoError(t, err)
	R, err := gy.Apply(NewScalarField(F, d))
	require.NoError(t, err)
	f := func(i, j int) float64 { return F.At(0, 0, i, j) }
	for j := 0; j < nc; j++ {
		// row 0 is the top, so up is the previous row
		assert.InDelta(t, (f(0, j)-(0-f(1, j)))/2, R.Value.At(0, 0, 1, j), 1.e-12)
		assert.InDelta(t, ((0-f(4, j))-f(5, j))/2, R.Value.At(0, 0, 4, j), 1.e-12)
		assert.Equal(t, 0., R.Value.At(0, 0, 2, j))
		assert.Equal(t, 0., R.Value.At(0, 0, 3, j))
	}
}

func TestConvOperatorSecondDerivative(t *testing.T) {
	{ // Test a linear field between Dirichlet top and bottom faces
		var (
			nr, nc = 8, 3
			F      = sample(nr, nc, 0.3, 2, func(x, y float64) float64 { return y })
		)
		d, err := NewDomain([]Boundary{UnconstrainedBoundary(), UnconstrainedBoundary(),
			DirichletBoundary(2), DirichletBoundary(0)}, WithSpacing(0.1, 0.25))
		require.NoError(t, err)
		gy, err := Grad(2, Y)
		require.NoError(t, err)
		R, err := gy.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		assert.True(t, R.Value.EqualApprox(utils.NewTensorConst(1, 1, nr, nc, 1), 1.e-12))
		gyy, err := Grad2(2, Y)
		require.NoError(t, err)
		R, err = gyy.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		assert.True(t, R.Value.EqualApprox(utils.NewTensorConst(1, 1, nr, nc, 0), 1.e-9))
	}
	{ // Test the Laplacian beside a Dirichlet obstacle
		var (
			nr, nc = 4, 10
			F      = sample(nr, nc, float64(nc), float64(nr), func(x, y float64) float64 { return x * x })
		)
		ob, err := DirichletObstacle(blockShape(nr, nc, 0, nr, 5, 7), 0)
		require.NoError(t, err)
		d, err := UnconstrainedDomain(WithObstacles(ob))
		require.NoError(t, err)
		lap, err := NewLaplacian(2)
		require.NoError(t, err)
		R, err := lap.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		for i := 0; i < nr; i++ {
			f := func(j int) float64 { return F.At(0, 0, i, j) }
			assert.InDelta(t, 2, R.Value.At(0, 0, i, 2), 1.e-9)
			assert.InDelta(t, f(3)-2*f(4)+(0-f(4)), R.Value.At(0, 0, i, 4), 1.e-9)
			assert.InDelta(t, (0-f(7))-2*f(7)+f(8), R.Value.At(0, 0, i, 7), 1.e-9)
			assert.Equal(t, 0., R.Value.At(0, 0, i, 5))
			assert.Equal(t, 0., R.Value.At(0, 0, i, 6))
		}
	}
}

func TestConvOperatorOptions(t *testing.T) {
	var (
		data = make([]float64, 2*3*6*8)
	)
	for i := range data {
		data[i] = math.Sin(float64(i))
	}
	F, err := utils.NewTensorFromData(2, 3, 6, 8, data)
	require.NoError(t, err)
	d, err := PeriodicDomain(WithSpacing(0.5, 0.25))
	require.NoError(t, err)
	{ // Test results do not depend on the parallel degree
		g1, err := Grad2(4, Y, WithParallelDegree(1))
		require.NoError(t, err)
		g3, err := Grad2(4, Y, WithParallelDegree(3))
		require.NoError(t, err)
		R1, err := g1.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		R3, err := g3.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		assert.True(t, R1.Value.Equal(R3.Value))
		assert.Equal(t, [4]int{2, 3, 6, 8}, R3.Shape())
	}
	{ // Test float32 precision rounds the output
		g, err := Grad(2, X, WithPrecision(Float32), WithDevice("cpu"))
		require.NoError(t, err)
		assert.Equal(t, "cpu", g.Config.Device)
		R, err := g.Apply(NewScalarField(F, d))
		require.NoError(t, err)
		for _, val := range R.Value.Data() {
			assert.Equal(t, float64(float32(val)), val)
		}
	}
	{ // Test operator construction errors
		_, err := NewConvOperator(nil, X, 1)
		assert.ErrorIs(t, err, ErrConfiguration)
		s, err := InterpolationStencil(2)
		require.NoError(t, err)
		_, err = NewConvOperator(s, X, 0)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
}

func TestConvOperatorMatrix(t *testing.T) {
	var (
		h, w = 5, 8
		F    = sample(h, w, 2, 1.25, func(x, y float64) float64 { return math.Sin(3*x) + x*y*y })
	)
	d, err := PeriodicDomain(WithSpacing(0.25, 0.25))
	require.NoError(t, err)
	for _, dir := range []Direction{X, Y} {
		for _, order := range []int{2, 4} {
			op, err := Grad(order, dir)
			require.NoError(t, err)
			A, err := op.Matrix(h, w, d)
			require.NoError(t, err)
			nr, nc := A.Dims()
			assert.Equal(t, h*w, nr)
			assert.Equal(t, h*w, nc)
			// central difference weights have a zero centre tap
			assert.Equal(t, h*w*order, A.NNZ())
			R, err := op.Apply(NewScalarField(F, d))
			require.NoError(t, err)
			y := A.MulVec(F.Planes[0].DataP)
			for i, val := range R.Value.Planes[0].DataP {
				assert.InDelta(t, val, y[i], 1.e-12, "%s order %d", dir, order)
			}
		}
	}
	{ // Test the matrix form needs a periodic direction
		op, err := Grad(2, X)
		require.NoError(t, err)
		du, err := UnconstrainedDomain()
		require.NoError(t, err)
		_, err = op.Matrix(h, w, du)
		assert.ErrorIs(t, err, ErrUnsupportedOperator)
	}
}
