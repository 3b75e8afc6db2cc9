package FD2D

import (
	"fmt"

	"github.com/notargets/convdo/utils"
)

/*
Boundary is the condition carried by one face of a Domain. Value is the
prescribed field value for Dirichlet faces and the prescribed outward normal
gradient for Neumann faces; it is unused for the other kinds.
*/
type Boundary struct {
	Kind  utils.BCType
	Value float64
}

func DirichletBoundary(value float64) Boundary {
	return Boundary{Kind: utils.BCDirichlet, Value: value}
}

func NeumannBoundary(gradient float64) Boundary {
	return Boundary{Kind: utils.BCNeumann, Value: gradient}
}

func PeriodicBoundary() Boundary { return Boundary{Kind: utils.BCPeriodic} }

func UnconstrainedBoundary() Boundary { return Boundary{Kind: utils.BCUnconstrained} }

func (b Boundary) String() string {
	switch b.Kind {
	case utils.BCDirichlet, utils.BCNeumann:
		return fmt.Sprintf("%s(%g)", b.Kind, b.Value)
	}
	return b.Kind.String()
}

/*
Correct returns a copy of padded with the ghost layer of side replaced. The
field is the unpadded array and padded is the field zero-padded by one cell
along the axis of side. Delta is the grid spacing along that axis.
*/
func (b Boundary) Correct(side Side, padded, field utils.Tensor, delta float64) (R utils.Tensor, err error) {
	var (
		layers []utils.Tensor
		ghost  utils.Tensor
	)
	switch b.Kind {
	case utils.BCDirichlet:
		if layers, err = boundaryLayers(field, side, 1); err != nil {
			return
		}
		ghost = DirichletFace{Value: b.Value}.Correct(layers[0])
	case utils.BCNeumann:
		if layers, err = boundaryLayers(field, side, 1); err != nil {
			return
		}
		if side.Outward() {
			ghost = NeumannFace{Gradient: b.Value}.CorrectOutward(layers[0], delta)
		} else {
			ghost = NeumannFace{Gradient: b.Value}.CorrectInward(layers[0], delta)
		}
	case utils.BCPeriodic:
		var far []utils.Tensor
		if layers, err = boundaryLayers(field, side, 1); err != nil {
			return
		}
		if far, err = boundaryLayers(field, side.Opposite(), 1); err != nil {
			return
		}
		if ghost, err = (PeriodicFace{}).Average(layers[0], far[0]); err != nil {
			return
		}
	case utils.BCUnconstrained:
		if layers, err = boundaryLayers(field, side, 3); err != nil {
			return
		}
		if ghost, err = (UnconstrainedFace{}).Extrapolate(layers[0], layers[1], layers[2]); err != nil {
			return
		}
	default:
		err = fmt.Errorf("%w: boundary kind %d", ErrConfiguration, b.Kind)
		return
	}
	R = padded.Copy()
	err = assignGhost(R, side, ghost)
	return
}

// CorrectOutward fills the right ghost layer for X and the top one for Y
func (b Boundary) CorrectOutward(dir Direction, padded, field utils.Tensor, delta float64) (utils.Tensor, error) {
	_, outward := sides(dir)
	return b.Correct(outward, padded, field, delta)
}

// CorrectInward fills the left ghost layer for X and the bottom one for Y
func (b Boundary) CorrectInward(dir Direction, padded, field utils.Tensor, delta float64) (utils.Tensor, error) {
	inward, _ := sides(dir)
	return b.Correct(inward, padded, field, delta)
}

func (b Boundary) CorrectLeft(padded, field utils.Tensor, delta float64) (utils.Tensor, error) {
	return b.Correct(Left, padded, field, delta)
}

func (b Boundary) CorrectRight(padded, field utils.Tensor, delta float64) (utils.Tensor, error) {
	return b.Correct(Right, padded, field, delta)
}

func (b Boundary) CorrectTop(padded, field utils.Tensor, delta float64) (utils.Tensor, error) {
	return b.Correct(Top, padded, field, delta)
}

func (b Boundary) CorrectBottom(padded, field utils.Tensor, delta float64) (utils.Tensor, error) {
	return b.Correct(Bottom, padded, field, delta)
}

// boundaryLayers returns the n single-cell layers of field nearest to side,
// starting at the face and moving into the domain.
func boundaryLayers(field utils.Tensor, side Side, n int) (layers []utils.Tensor, err error) {
	var (
		nr, nc = field.Dims()
		size   = nc
	)
	if side.Direction() == Y {
		size = nr
	}
	if size < n {
		err = fmt.Errorf("%w: %s face needs %d cells, field has %d",
			ErrShapeMismatch, side, n, size)
		return
	}
	layers = make([]utils.Tensor, n)
	for k := range layers {
		switch side {
		case Left:
			layers[k] = field.Cols(k, k+1)
		case Right:
			layers[k] = field.Cols(nc-1-k, nc-k)
		case Top:
			layers[k] = field.Rows(k, k+1)
		case Bottom:
			layers[k] = field.Rows(nr-1-k, nr-k)
		}
	}
	return
}

func assignGhost(padded utils.Tensor, side Side, ghost utils.Tensor) error { // Changes padded
	nr, nc := padded.Dims()
	switch side {
	case Left:
		return padded.AssignCol(0, ghost)
	case Right:
		return padded.AssignCol(nc-1, ghost)
	case Top:
		return padded.AssignRow(0, ghost)
	default:
		return padded.AssignRow(nr-1, ghost)
	}
}

/*
Boundary algebra. Combining two faces yields the condition satisfied by the
combined field:

	Dirichlet(a) op Dirichlet(b) = Dirichlet(a op b)
	Neumann(g1)  +  Neumann(g2)  = Neumann(g1 + g2)
	Periodic     op Periodic     = Periodic
	anything else                = Unconstrained

Subtraction is addition of the negation, so Neumann - Neumann follows.
*/
func (b Boundary) Combine(op utils.ArithOp, o Boundary) Boundary {
	if op == utils.OpSub {
		return b.Combine(utils.OpAdd, o.Neg())
	}
	switch b.Kind {
	case utils.BCDirichlet:
		if o.Kind == utils.BCDirichlet {
			return DirichletBoundary(op.Eval(b.Value, o.Value))
		}
	case utils.BCNeumann:
		if o.Kind == utils.BCNeumann && op == utils.OpAdd {
			return NeumannBoundary(b.Value + o.Value)
		}
	case utils.BCPeriodic:
		if o.Kind == utils.BCPeriodic {
			return PeriodicBoundary()
		}
	case utils.BCUnconstrained:
	}
	return UnconstrainedBoundary()
}

/*
CombineScalar returns the condition of (field op s). Adding a constant keeps a
Neumann gradient, scaling scales it, and a power other than 1 loses it.
Periodic and Unconstrained faces are unchanged by any scalar operation.
*/
func (b Boundary) CombineScalar(op utils.ArithOp, s float64) Boundary {
	switch b.Kind {
	case utils.BCDirichlet:
		return DirichletBoundary(op.Eval(b.Value, s))
	case utils.BCNeumann:
		// The gradient follows the derivative of (f op s), not (g op s):
		// d(f+s) = df and d(f*s) = s df. See DESIGN.md, Neumann combined with a scalar.
		switch op {
		case utils.OpAdd, utils.OpSub:
			return b
		case utils.OpMul, utils.OpDiv:
			return NeumannBoundary(op.Eval(b.Value, s))
		case utils.OpPow:
			if s == 1 {
				return b
			}
			return UnconstrainedBoundary()
		}
	case utils.BCPeriodic, utils.BCUnconstrained:
	}
	return b
}

// ScalarCombine returns the condition of (s op field).
func (b Boundary) ScalarCombine(op utils.ArithOp, s float64) Boundary {
	switch b.Kind {
	case utils.BCDirichlet:
		return DirichletBoundary(op.Eval(s, b.Value))
	case utils.BCNeumann:
		switch op {
		case utils.OpAdd:
			return b
		case utils.OpSub:
			return b.Neg()
		case utils.OpMul:
			return NeumannBoundary(s * b.Value)
		default:
			return UnconstrainedBoundary()
		}
	case utils.BCPeriodic, utils.BCUnconstrained:
	}
	return b
}

func (b Boundary) Neg() Boundary                { return b.CombineScalar(utils.OpMul, -1) }
func (b Boundary) Add(o Boundary) Boundary      { return b.Combine(utils.OpAdd, o) }
func (b Boundary) Sub(o Boundary) Boundary      { return b.Combine(utils.OpSub, o) }
func (b Boundary) Mul(o Boundary) Boundary      { return b.Combine(utils.OpMul, o) }
func (b Boundary) Div(o Boundary) Boundary      { return b.Combine(utils.OpDiv, o) }
func (b Boundary) Pow(o Boundary) Boundary      { return b.Combine(utils.OpPow, o) }
func (b Boundary) AddScalar(s float64) Boundary { return b.CombineScalar(utils.OpAdd, s) }
func (b Boundary) Scale(s float64) Boundary     { return b.CombineScalar(utils.OpMul, s) }
