package FD2D

import (
	"fmt"

	"github.com/notargets/convdo/utils"
)

/*
Obstacle is a solid region immersed in the domain. Shape is a single plane
with 1 in fluid cells and 0 in solid cells, matching the field's height and
width. The condition is applied on the fluid/solid interface by writing ghost
values into the solid cells adjacent to fluid.

The four edge masks mark fluid cells with a solid neighbour on one side:

	XRight:  solid to the right     m[i][j+1] - m[i][j] < -0.5
	XLeft:   solid to the left      m[i][j] - m[i][j-1] >  0.5
	YTop:    solid above            m[i-1][j] - m[i][j] < -0.5
	YBottom: solid below            m[i][j] - m[i+1][j] >  0.5

Cells on the outer edge of the grid have no neighbour beyond it and are never
marked. Each mask is padded with one zero cell on every side, so it is
(height+2) x (width+2).
*/
type Obstacle struct {
	Condition                    Boundary
	Shape                        utils.Tensor
	XRight, XLeft, YTop, YBottom utils.Tensor
}

func NewObstacle(shape utils.Tensor, condition Boundary) (o *Obstacle, err error) {
	var (
		nr, nc = shape.Dims()
	)
	if condition.Kind == utils.BCPeriodic {
		err = fmt.Errorf("%w: obstacles cannot be periodic", ErrConfiguration)
		return
	}
	if len(shape.Planes) != 1 || nr < 1 || nc < 1 {
		err = fmt.Errorf("%w: obstacle shape must be a single non-empty plane, have %v",
			ErrShapeMismatch, shape.Shape())
		return
	}
	o = &Obstacle{
		Condition: condition,
		Shape:     shape,
		XRight:    edgeMask(shape, 0, 1, true),
		XLeft:     edgeMask(shape, 0, -1, false),
		YTop:      edgeMask(shape, -1, 0, true),
		YBottom:   edgeMask(shape, 1, 0, false),
	}
	return
}

func DirichletObstacle(shape utils.Tensor, value float64) (*Obstacle, error) {
	return NewObstacle(shape, DirichletBoundary(value))
}

func NeumannObstacle(shape utils.Tensor, gradient float64) (*Obstacle, error) {
	return NewObstacle(shape, NeumannBoundary(gradient))
}

func UnconstrainedObstacle(shape utils.Tensor) (*Obstacle, error) {
	return NewObstacle(shape, UnconstrainedBoundary())
}

// edgeMask differences the shape against its neighbour at (rowOff, colOff).
// A forward difference is nbr - m, marked below -0.5; a backward difference
// is m - nbr, marked above 0.5.
func edgeMask(shape utils.Tensor, rowOff, colOff int, forward bool) utils.Tensor {
	var (
		nr, nc = shape.Dims()
		nbr    = shape.Window(rowOff, colOff, nr, nc)
		exists = utils.NewTensorConst(1, 1, nr, nc, 1).Window(rowOff, colOff, nr, nc)
		diff   utils.Tensor
		marked utils.Tensor
	)
	if forward {
		diff, _ = nbr.Combine(utils.OpSub, shape)
		diff, _ = diff.Combine(utils.OpMul, exists)
		marked = diff.Threshold(utils.Less, -0.5)
	} else {
		diff, _ = shape.Combine(utils.OpSub, nbr)
		diff, _ = diff.Combine(utils.OpMul, exists)
		marked = diff.Threshold(utils.Greater, 0.5)
	}
	return marked.Pad(1, 1, 1, 1, utils.PadZero)
}

func (o *Obstacle) String() string {
	nr, nc := o.Shape.Dims()
	return fmt.Sprintf("Obstacle(%s, %dx%d)", o.Condition, nr, nc)
}

/*
Correct returns a copy of padded with the ghost values for side written into
the solid cells that border fluid on that side. As with Boundary.Correct,
padded is the field zero-padded by one cell along the axis of side only.

With the field F and the cropped edge mask M in padded coordinates, each
side reads its ghost sources from shifted windows of F (zero outside the
grid) and selects where the shifted mask is set:

	Right:  c_k = F[p-2-k],  mask = M[p-1]   outward
	Left:   c_k = F[p+k],    mask = M[p+1]   inward
	Top:    c_k = F[r+k],    mask = M[r+1]   outward
	Bottom: c_k = F[r-2-k],  mask = M[r-1]   inward
*/
func (o *Obstacle) Correct(side Side, padded, field utils.Tensor, delta float64) (R utils.Tensor, err error) {
	var (
		nr, nc   = field.Dims()
		nrS, ncS = o.Shape.Dims()
		nrP, ncP = padded.Dims()
		h, w     = nr, nc + 2
		mask     utils.Tensor
		c        [3]utils.Tensor
		ghost    utils.Tensor
	)
	if nrS != nr || ncS != nc {
		err = fmt.Errorf("%w: obstacle shape %dx%d for field %dx%d", ErrShapeMismatch, nrS, ncS, nr, nc)
		return
	}
	if side.Direction() == Y {
		h, w = nr+2, nc
	}
	if nrP != h || ncP != w {
		err = fmt.Errorf("%w: padded field %dx%d, expected %dx%d", ErrShapeMismatch, nrP, ncP, h, w)
		return
	}
	switch side {
	case Right:
		mask = o.XRight.Window(1, 0, h, w).Window(0, -1, h, w)
		for k := range c {
			c[k] = field.Window(0, -2-k, h, w)
		}
	case Left:
		mask = o.XLeft.Window(1, 0, h, w).Window(0, 1, h, w)
		for k := range c {
			c[k] = field.Window(0, k, h, w)
		}
	case Top:
		mask = o.YTop.Window(0, 1, h, w).Window(1, 0, h, w)
		for k := range c {
			c[k] = field.Window(k, 0, h, w)
		}
	case Bottom:
		mask = o.YBottom.Window(0, 1, h, w).Window(-1, 0, h, w)
		for k := range c {
			c[k] = field.Window(-2-k, 0, h, w)
		}
	}
	switch o.Condition.Kind {
	case utils.BCDirichlet:
		ghost = DirichletFace{Value: o.Condition.Value}.Correct(c[0])
	case utils.BCNeumann:
		if side.Outward() {
			ghost = NeumannFace{Gradient: o.Condition.Value}.CorrectOutward(c[0], delta)
		} else {
			ghost = NeumannFace{Gradient: o.Condition.Value}.CorrectInward(c[0], delta)
		}
	case utils.BCUnconstrained:
		if ghost, err = (UnconstrainedFace{}).Extrapolate(c[0], c[1], c[2]); err != nil {
			return
		}
	default:
		err = fmt.Errorf("%w: obstacle condition %s", ErrConfiguration, o.Condition)
		return
	}
	R, err = ghost.Where(mask, padded)
	return
}

// CorrectOutward applies the right face for X and the top face for Y
func (o *Obstacle) CorrectOutward(dir Direction, padded, field utils.Tensor, delta float64) (utils.Tensor, error) {
	_, outward := sides(dir)
	return o.Correct(outward, padded, field, delta)
}

// CorrectInward applies the left face for X and the bottom face for Y
func (o *Obstacle) CorrectInward(dir Direction, padded, field utils.Tensor, delta float64) (utils.Tensor, error) {
	inward, _ := sides(dir)
	return o.Correct(inward, padded, field, delta)
}

// FillInternalField zeroes the derivative inside the solid
func (o *Obstacle) FillInternalField(field utils.Tensor) (utils.Tensor, error) {
	return field.Combine(utils.OpMul, o.Shape)
}

func (o *Obstacle) with(condition Boundary) *Obstacle {
	R := *o
	R.Condition = condition
	return &R
}

// Combine requires both obstacles to share a shape
func (o *Obstacle) Combine(op utils.ArithOp, other *Obstacle) (R *Obstacle, err error) {
	if !o.Shape.Equal(other.Shape) {
		err = fmt.Errorf("%w: cannot combine obstacles with different shapes", ErrConfiguration)
		return
	}
	R = o.with(o.Condition.Combine(op, other.Condition))
	return
}

func (o *Obstacle) CombineScalar(op utils.ArithOp, s float64) (*Obstacle, error) {
	return o.with(o.Condition.CombineScalar(op, s)), nil
}

func (o *Obstacle) ScalarCombine(op utils.ArithOp, s float64) (*Obstacle, error) {
	return o.with(o.Condition.ScalarCombine(op, s)), nil
}
