package utils

import (
	"math"
)

// POW is an integer power with unrolled small exponents, used for the
// spacing^order kernel divisors.
func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		return math.Pow(x, float64(pp))
	}
	if p < 0 {
		p = -pp
		flipped = true
	}
	y = 1
	for ; p >= 2; p -= 2 {
		y *= x * x
	}
	if p == 1 {
		y *= x
	}
	if flipped {
		y = 1. / y
	}
	return
}

// CellCenters returns N cell centres covering [0, L), i.e. (i+0.5)*L/N.
func CellCenters(N int, L float64) (x []float64) {
	var (
		dx = L / float64(N)
	)
	x = make([]float64, N)
	for i := range x {
		x[i] = (float64(i) + 0.5) * dx
	}
	return
}
