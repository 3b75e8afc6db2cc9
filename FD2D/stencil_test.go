package FD2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestStencilCatalog(t *testing.T) {
	assert.Equal(t, []int{2, 4, 6, 8}, SupportedOrders())
	for _, order := range SupportedOrders() {
		gs, err := InterpolationStencil(order)
		require.NoError(t, err)
		ls, err := LaplacianStencil(order)
		require.NoError(t, err)
		{ // Test length, padding and consistency
			assert.Equal(t, order+1, gs.Len())
			assert.Equal(t, order/2, gs.Pad)
			assert.Equal(t, order > 2, gs.IsHighOrder())
			assert.InDelta(t, 0, floats.Sum(gs.Weights), 1.e-14)
			assert.InDelta(t, 0, floats.Sum(ls.Weights), 1.e-14)
			// first moment of the gradient and second moment of the laplacian
			var m1, m2 float64
			for k := range gs.Weights {
				x := float64(k - gs.Pad)
				m1 += x * gs.Weights[k]
				m2 += x * x * ls.Weights[k]
			}
			assert.InDelta(t, 1, m1, 1.e-13)
			assert.InDelta(t, 2, m2, 1.e-13)
		}
		{ // Test kernel layout
			n := gs.Len()
			for k, w := range gs.Weights {
				assert.Equal(t, w, gs.KernelX.At(gs.Pad, k))
				assert.Equal(t, w, gs.KernelY.At(n-1-k, gs.Pad))
			}
			assert.True(t, gs.Kernel(X).IsReadOnly())
			assert.Panics(t, func() { gs.Kernel(Y).Set(0, 0, 1) })
		}
		{ // Test catalog entries are shared
			again, err := InterpolationStencil(order)
			require.NoError(t, err)
			assert.Same(t, gs, again)
		}
	}
	{ // Test unsupported orders and malformed stencils
		_, err := InterpolationStencil(3)
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = LaplacianStencil(10)
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = NewStencil([]float64{1, -1})
		assert.ErrorIs(t, err, ErrConfiguration)
		_, err = NewStencil([]float64{1})
		assert.ErrorIs(t, err, ErrConfiguration)
	}
}
