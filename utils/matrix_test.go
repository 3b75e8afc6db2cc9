package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	M := NewMatrix(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	{ // Window, including out of range cells
		A := M.Window(-1, 1, 3, 3)
		assert.Equal(t, []float64{
			0, 0, 0,
			2, 3, 0,
			5, 6, 0,
		}, A.DataP)
	}
	{ // Zero padding
		A := M.Pad(1, 0, 0, 1, PadZero)
		nr, nc := A.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 4, nc)
		assert.Equal(t, []float64{
			0, 1, 2, 3,
			0, 4, 5, 6,
			0, 0, 0, 0,
		}, A.DataP)
	}
	{ // Circular padding wraps the opposite edge
		A := M.Pad(1, 1, 1, 1, PadCircular)
		assert.Equal(t, []float64{
			6, 4, 5, 6, 4,
			3, 1, 2, 3, 1,
			6, 4, 5, 6, 4,
			3, 1, 2, 3, 1,
		}, A.DataP)
	}
	{ // Correlation is an unflipped sliding weighted sum
		K := NewMatrix(1, 2, []float64{-1, 1})
		A := M.Correlate(K)
		assert.Equal(t, []float64{1, 1, 1, 1}, A.DataP)
		nr, nc := A.Dims()
		assert.Equal(t, 2, nr)
		assert.Equal(t, 2, nc)
	}
	{ // Read only matrices refuse writes
		A := M.Copy()
		A.SetReadOnly("A")
		assert.Panics(t, func() { A.Set(0, 0, 1) })
		B := A.Copy()
		assert.NotPanics(t, func() { B.Set(0, 0, 10) })
		assert.Equal(t, 1., A.At(0, 0))
	}
}

func TestPOW(t *testing.T) {
	for p := -10; p <= 10; p++ {
		assert.InDelta(t, pow(1.3, p), POW(1.3, p), 1.e-12)
	}
	assert.Equal(t, []float64{0.25, 0.75}, CellCenters(2, 1))
}

func pow(x float64, p int) (y float64) {
	y = 1
	if p < 0 {
		return 1. / pow(x, -p)
	}
	for i := 0; i < p; i++ {
		y *= x
	}
	return
}
