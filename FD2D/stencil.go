package FD2D

import (
	"fmt"
	"sort"
	"sync"

	"github.com/notargets/convdo/utils"
)

/*
Stencil is a centred finite-difference weight vector of odd length n and the
two n x n kernels built from it. KernelX carries the weights along its centre
row. KernelY carries them reversed down its centre column, since row index
increases downward while y increases upward.
*/
type Stencil struct {
	Weights          []float64
	KernelX, KernelY utils.Matrix
	Pad              int
}

func NewStencil(weights []float64) (s *Stencil, err error) {
	var (
		n = len(weights)
	)
	if n < 3 || n%2 == 0 {
		err = fmt.Errorf("%w: stencil length must be odd and at least 3, have %d",
			ErrConfiguration, n)
		return
	}
	s = &Stencil{
		Weights: append([]float64(nil), weights...),
		KernelX: utils.NewMatrix(n, n),
		KernelY: utils.NewMatrix(n, n),
		Pad:     (n - 1) / 2,
	}
	for k, w := range weights {
		s.KernelX.Set(s.Pad, k, w)
		s.KernelY.Set(n-1-k, s.Pad, w)
	}
	s.KernelX.SetReadOnly("KernelX")
	s.KernelY.SetReadOnly("KernelY")
	return
}

func (s *Stencil) Len() int { return len(s.Weights) }

// IsHighOrder is true for stencils wider than three points, which reach past
// the single ghost layer the boundary corrections provide.
func (s *Stencil) IsHighOrder() bool { return s.Len() > 3 }

func (s *Stencil) Kernel(dir Direction) utils.Matrix {
	if dir == X {
		return s.KernelX
	}
	return s.KernelY
}

var (
	interpolationWeights = map[int][]float64{
		2: {-1. / 2, 0, 1. / 2},
		4: {1. / 12, -2. / 3, 0, 2. / 3, -1. / 12},
		6: {-1. / 60, 3. / 20, -3. / 4, 0, 3. / 4, -3. / 20, 1. / 60},
		8: {1. / 280, -4. / 105, 1. / 5, -4. / 5, 0, 4. / 5, -1. / 5, 4. / 105, -1. / 280},
	}
	laplacianWeights = map[int][]float64{
		2: {1, -2, 1},
		4: {-1. / 12, 4. / 3, -5. / 2, 4. / 3, -1. / 12},
		6: {1. / 90, -3. / 20, 3. / 2, -49. / 18, 3. / 2, -3. / 20, 1. / 90},
		8: {-1. / 560, 8. / 315, -1. / 5, 8. / 5, -205. / 72, 8. / 5, -1. / 5, 8. / 315, -1. / 560},
	}

	catalogOnce                            sync.Once
	interpolationCatalog, laplacianCatalog map[int]*Stencil
)

func buildCatalog() {
	build := func(weights map[int][]float64) (c map[int]*Stencil) {
		c = make(map[int]*Stencil, len(weights))
		for order, w := range weights {
			s, err := NewStencil(w)
			if err != nil {
				panic(err)
			}
			c[order] = s
		}
		return
	}
	interpolationCatalog = build(interpolationWeights)
	laplacianCatalog = build(laplacianWeights)
}

func lookup(catalog func() map[int]*Stencil, kind string, order int) (s *Stencil, err error) {
	catalogOnce.Do(buildCatalog)
	var ok bool
	if s, ok = catalog()[order]; !ok {
		err = fmt.Errorf("%w: no %s stencil of order %d, have %v",
			ErrConfiguration, kind, order, SupportedOrders())
	}
	return
}

// InterpolationStencil returns the shared central first-derivative stencil
func InterpolationStencil(order int) (*Stencil, error) {
	return lookup(func() map[int]*Stencil { return interpolationCatalog }, "interpolation", order)
}

// LaplacianStencil returns the shared central second-derivative stencil
func LaplacianStencil(order int) (*Stencil, error) {
	return lookup(func() map[int]*Stencil { return laplacianCatalog }, "laplacian", order)
}

func SupportedOrders() (orders []int) {
	for order := range interpolationWeights {
		orders = append(orders, order)
	}
	sort.Ints(orders)
	return
}
