package FD2D

import (
	"fmt"

	"github.com/notargets/convdo/utils"
)

// ObstaclePolicy selects how a high-order operator treats a field that
// carries obstacles.
type ObstaclePolicy uint8

const (
	ForbidHighOrderObstacles ObstaclePolicy = iota // return ErrUnsupportedOperator
	IgnoreObstaclesHighOrder                       // skip obstacle corrections and fill
)

type Precision uint8

const (
	Float64 Precision = iota
	Float32
)

type OperatorConfig struct {
	ObstaclePolicy ObstaclePolicy
	Precision      Precision
	Device         string
	ParallelDegree int
}

type OperatorOption func(c *OperatorConfig)

func WithObstaclePolicy(p ObstaclePolicy) OperatorOption {
	return func(c *OperatorConfig) { c.ObstaclePolicy = p }
}

// WithPrecision is recorded on the operator; values are computed in float64
// and rounded on output for Float32.
func WithPrecision(p Precision) OperatorOption {
	return func(c *OperatorConfig) { c.Precision = p }
}

// WithDevice is stored on the operator for callers that place work
// themselves; evaluation here always runs on the CPU.
func WithDevice(device string) OperatorOption {
	return func(c *OperatorConfig) { c.Device = device }
}

// WithParallelDegree sets the number of goroutines used to correlate the
// planes of a field; <= 0 uses one per CPU.
func WithParallelDegree(n int) OperatorOption {
	return func(c *OperatorConfig) { c.ParallelDegree = n }
}

/*
ConvOperator differentiates a ScalarField along one direction by correlating
a padded copy of its values with a stencil kernel scaled by 1/δ^Derivative.

The active axis is padded circularly when the domain is periodic along it,
otherwise by one ghost layer whose values come from the two boundaries and
then from each obstacle in turn. The orthogonal axis is always zero padded.
For 3-point stencils the result is then multiplied by each obstacle's shape,
zeroing the derivative inside the solid.

Stencils wider than three points need the active direction to be periodic;
with obstacles present they follow the configured ObstaclePolicy.
*/
type ConvOperator struct {
	Stencil    *Stencil
	Direction  Direction
	Derivative int
	Config     OperatorConfig
}

func NewConvOperator(stencil *Stencil, dir Direction, derivative int, opts ...OperatorOption) (op *ConvOperator, err error) {
	if stencil == nil {
		err = fmt.Errorf("%w: nil stencil", ErrConfiguration)
		return
	}
	if derivative < 1 {
		err = fmt.Errorf("%w: derivative order must be at least 1, have %d", ErrConfiguration, derivative)
		return
	}
	if dir != X && dir != Y {
		err = fmt.Errorf("%w: direction %s", ErrConfiguration, dir)
		return
	}
	op = &ConvOperator{
		Stencil:    stencil,
		Direction:  dir,
		Derivative: derivative,
		Config:     OperatorConfig{Device: "cpu"},
	}
	for _, opt := range opts {
		opt(&op.Config)
	}
	return
}

func (op *ConvOperator) IsHighOrder() bool { return op.Stencil.IsHighOrder() }

func (op *ConvOperator) String() string {
	return fmt.Sprintf("ConvOperator(d%d/d%s^%d, %d-point)",
		op.Derivative, op.Direction, op.Derivative, op.Stencil.Len())
}

func (op *ConvOperator) Apply(f *ScalarField) (R *ScalarField, err error) {
	var (
		d                = f.Domain
		F                = f.Value
		dir              = op.Direction
		high             = op.IsHighOrder()
		pad              = op.Stencil.Pad
		correctObstacles = len(d.Obstacles) != 0
		delta            = d.Spacing(dir)
		nr, nc           = F.Dims()
		P                utils.Tensor
	)
	if nr < 1 || nc < 1 {
		err = fmt.Errorf("%w: empty field %v", ErrShapeMismatch, F.Shape())
		return
	}
	if high {
		if !d.IsPeriodic(dir) {
			inward, outward := sides(dir)
			err = fmt.Errorf("%w: %d-point stencil along %s needs a periodic pair, have %s and %s",
				ErrUnsupportedOperator, op.Stencil.Len(), dir,
				d.Boundary(inward), d.Boundary(outward))
			return
		}
		if correctObstacles {
			switch op.Config.ObstaclePolicy {
			case ForbidHighOrderObstacles:
				err = fmt.Errorf("%w: %d-point stencil with %d obstacles",
					ErrUnsupportedOperator, op.Stencil.Len(), len(d.Obstacles))
				return
			case IgnoreObstaclesHighOrder:
				correctObstacles = false
			}
		}
	}
	if P, err = op.padActive(d, F, delta); err != nil {
		return
	}
	if correctObstacles {
		inward, outward := sides(dir)
		for _, ob := range d.Obstacles {
			if P, err = ob.Correct(inward, P, F, delta); err != nil {
				return
			}
			if P, err = ob.Correct(outward, P, F, delta); err != nil {
				return
			}
		}
	}
	if dir == X {
		P = P.Pad(0, 0, pad, pad, utils.PadZero)
	} else {
		P = P.Pad(pad, pad, 0, 0, utils.PadZero)
	}
	kernel := op.Stencil.Kernel(dir).Copy().Scale(1. / utils.POW(delta, op.Derivative))
	out := P.Correlate(kernel, op.Config.ParallelDegree)
	if correctObstacles && !high {
		for _, ob := range d.Obstacles {
			if out, err = ob.FillInternalField(out); err != nil {
				return
			}
		}
	}
	if op.Config.Precision == Float32 {
		out = roundFloat32(out)
	}
	R = &ScalarField{Value: out, Domain: d.Derivative()}
	return
}

// padActive pads the axis of the operator and fills its ghost layer
func (op *ConvOperator) padActive(d *Domain, F utils.Tensor, delta float64) (P utils.Tensor, err error) {
	var (
		pad             = op.Stencil.Pad
		inward, outward = sides(op.Direction)
	)
	if d.IsPeriodic(op.Direction) {
		if op.Direction == X {
			return F.Pad(pad, pad, 0, 0, utils.PadCircular), nil
		}
		return F.Pad(0, 0, pad, pad, utils.PadCircular), nil
	}
	if op.Direction == X {
		P = F.Pad(1, 1, 0, 0, utils.PadZero)
	} else {
		P = F.Pad(0, 0, 1, 1, utils.PadZero)
	}
	if P, err = d.Boundary(inward).Correct(inward, P, F, delta); err != nil {
		return
	}
	P, err = d.Boundary(outward).Correct(outward, P, F, delta)
	return
}

func roundFloat32(T utils.Tensor) utils.Tensor {
	R := T.Copy()
	for _, p := range R.Planes {
		for i, val := range p.DataP {
			p.DataP[i] = float64(float32(val))
		}
	}
	return R
}

/*
Matrix assembles the operator as a sparse (h*w) x (h*w) matrix acting on a
field flattened row-major, so row i*w+j yields the derivative at cell (i, j).
Only periodic directions without obstacles have a field-independent matrix.
*/
func (op *ConvOperator) Matrix(h, w int, d *Domain) (A utils.CSR, err error) {
	var (
		weights = op.Stencil.Weights
		pad     = op.Stencil.Pad
	)
	if !d.IsPeriodic(op.Direction) || len(d.Obstacles) != 0 {
		err = fmt.Errorf("%w: matrix form needs a periodic %s direction without obstacles",
			ErrUnsupportedOperator, op.Direction)
		return
	}
	if h < 1 || w < 1 {
		err = fmt.Errorf("%w: grid %dx%d", ErrShapeMismatch, h, w)
		return
	}
	scale := 1. / utils.POW(d.Spacing(op.Direction), op.Derivative)
	dok := utils.NewDOK(h*w, h*w)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			row := i*w + j
			for k, wt := range weights {
				if wt == 0 {
					continue
				}
				var col int
				if op.Direction == X {
					col = i*w + wrap(j+k-pad, w)
				} else {
					// KernelY is reversed, tap k reads the cell pad-k rows below
					col = wrap(i+pad-k, h)*w + j
				}
				dok.Accumulate(row, col, wt*scale)
			}
		}
	}
	A = dok.ToCSR()
	return
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
