package FD2D

import (
	"fmt"

	"github.com/notargets/convdo/utils"
)

// ScalarField pairs sampled values of shape (batch, channel, height, width)
// with the Domain that describes their boundary conditions.
type ScalarField struct {
	Value  utils.Tensor
	Domain *Domain
}

// NewScalarField attaches an all Unconstrained domain with unit spacing when
// domain is nil.
func NewScalarField(value utils.Tensor, domain *Domain) *ScalarField {
	if domain == nil {
		domain = defaultDomain()
	}
	return &ScalarField{Value: value, Domain: domain}
}

// NewScalarField2D promotes a single height x width array to (1, 1, h, w)
func NewScalarField2D(value utils.Matrix, domain *Domain) *ScalarField {
	return NewScalarField(utils.NewTensorFromMatrix(value), domain)
}

// Rebind returns a field with new values sharing the domain of f
func (f *ScalarField) Rebind(value utils.Tensor) *ScalarField {
	return &ScalarField{Value: value, Domain: f.Domain}
}

func (f *ScalarField) Shape() [4]int { return f.Value.Shape() }

func (f *ScalarField) String() string {
	return fmt.Sprintf("ScalarField(%v, %s)", f.Value.Shape(), f.Domain)
}

func (f *ScalarField) Combine(op utils.ArithOp, o *ScalarField) (R *ScalarField, err error) {
	var (
		value  utils.Tensor
		domain *Domain
	)
	if op == utils.OpSub {
		return subtract(f, o)
	}
	if value, err = f.Value.Combine(op, o.Value); err != nil {
		return
	}
	if domain, err = f.Domain.Combine(op, o.Domain); err != nil {
		return
	}
	R = &ScalarField{Value: value, Domain: domain}
	return
}

func (f *ScalarField) CombineScalar(op utils.ArithOp, s float64) (R *ScalarField, err error) {
	var (
		domain *Domain
	)
	if domain, err = f.Domain.CombineScalar(op, s); err != nil {
		return
	}
	R = &ScalarField{Value: f.Value.CombineScalar(op, s), Domain: domain}
	return
}

// ScalarCombine computes s op f
func (f *ScalarField) ScalarCombine(op utils.ArithOp, s float64) (R *ScalarField, err error) {
	var (
		domain *Domain
	)
	if op == utils.OpSub {
		return scalarSubtract(s, f)
	}
	if domain, err = f.Domain.ScalarCombine(op, s); err != nil {
		return
	}
	R = &ScalarField{Value: f.Value.ScalarCombine(op, s), Domain: domain}
	return
}

func (f *ScalarField) Add(o *ScalarField) (*ScalarField, error) { return f.Combine(utils.OpAdd, o) }
func (f *ScalarField) Sub(o *ScalarField) (*ScalarField, error) { return f.Combine(utils.OpSub, o) }
func (f *ScalarField) Mul(o *ScalarField) (*ScalarField, error) { return f.Combine(utils.OpMul, o) }
func (f *ScalarField) Div(o *ScalarField) (*ScalarField, error) { return f.Combine(utils.OpDiv, o) }
func (f *ScalarField) Pow(o *ScalarField) (*ScalarField, error) { return f.Combine(utils.OpPow, o) }
func (f *ScalarField) Neg() (*ScalarField, error)               { return negate(f) }
func (f *ScalarField) Scale(s float64) (*ScalarField, error)    { return f.CombineScalar(utils.OpMul, s) }
func (f *ScalarField) AddScalar(s float64) (*ScalarField, error) {
	return f.CombineScalar(utils.OpAdd, s)
}

// ScalarSub returns s - f
func ScalarSub(s float64, f *ScalarField) (*ScalarField, error) {
	return f.ScalarCombine(utils.OpSub, s)
}

// ScalarDiv returns s / f
func ScalarDiv(s float64, f *ScalarField) (*ScalarField, error) {
	return f.ScalarCombine(utils.OpDiv, s)
}
