package FD2D

import (
	"github.com/notargets/convdo/utils"
)

/*
Face correctors compute the value of a single ghost layer from the cells next
to the face. With c0 the boundary cell, c1 and c2 the next two cells moving
into the domain and δ the grid spacing:

	Dirichlet(v):      g = 2v - c0
	Neumann(grad) out: g = (2c0 + grad·δ)/2
	Neumann(grad) in:  g = (2c0 - grad·δ)/2
	Unconstrained:     g = (4c0 - 3c1 + c2)/2
	Periodic:          g = (f_first + f_last)/2

Outward faces are the right and top faces, inward the left and bottom.
*/

type DirichletFace struct {
	Value float64
}

func (f DirichletFace) Correct(c0 utils.Tensor) utils.Tensor {
	return c0.ScalarCombine(utils.OpSub, 2*f.Value)
}

type NeumannFace struct {
	Gradient float64
}

func (f NeumannFace) CorrectOutward(c0 utils.Tensor, delta float64) utils.Tensor {
	return c0.CombineScalar(utils.OpMul, 2).
		CombineScalar(utils.OpAdd, f.Gradient*delta).
		CombineScalar(utils.OpDiv, 2)
}

func (f NeumannFace) CorrectInward(c0 utils.Tensor, delta float64) utils.Tensor {
	return c0.CombineScalar(utils.OpMul, 2).
		CombineScalar(utils.OpSub, f.Gradient*delta).
		CombineScalar(utils.OpDiv, 2)
}

type UnconstrainedFace struct{}

// Extrapolate needs c0 at the face and c1, c2 moving into the domain
func (UnconstrainedFace) Extrapolate(c0, c1, c2 utils.Tensor) (utils.Tensor, error) {
	return utils.LinearCombination([]float64{2, -1.5, 0.5}, c0, c1, c2)
}

type PeriodicFace struct{}

func (PeriodicFace) Average(first, last utils.Tensor) (utils.Tensor, error) {
	return utils.LinearCombination([]float64{0.5, 0.5}, first, last)
}
