package FD2D

import (
	"fmt"
)

// Grad builds a first-derivative operator of the given accuracy order
func Grad(order int, dir Direction, opts ...OperatorOption) (op *ConvOperator, err error) {
	var s *Stencil
	if s, err = InterpolationStencil(order); err != nil {
		return
	}
	return NewConvOperator(s, dir, 1, opts...)
}

// Grad2 builds a second-derivative operator of the given accuracy order
func Grad2(order int, dir Direction, opts ...OperatorOption) (op *ConvOperator, err error) {
	var s *Stencil
	if s, err = LaplacianStencil(order); err != nil {
		return
	}
	return NewConvOperator(s, dir, 2, opts...)
}

// Nabla is the vector of first-derivative operators (∂x, ∂y)
type Nabla struct {
	X, Y *ConvOperator
}

func NewNabla(order int, opts ...OperatorOption) (n *Nabla, err error) {
	n = &Nabla{}
	if n.X, err = Grad(order, X, opts...); err != nil {
		return nil, err
	}
	if n.Y, err = Grad(order, Y, opts...); err != nil {
		return nil, err
	}
	return
}

// Grad returns (∂x f, ∂y f)
func (n *Nabla) Grad(f *ScalarField) (R *VectorField, err error) {
	R = &VectorField{}
	if R.Ux, err = n.X.Apply(f); err != nil {
		return nil, err
	}
	if R.Uy, err = n.Y.Apply(f); err != nil {
		return nil, err
	}
	return
}

// Div returns ∂x ux + ∂y uy
func (n *Nabla) Div(v *VectorField) (R *ScalarField, err error) {
	var (
		dx, dy *ScalarField
	)
	if dx, err = n.X.Apply(v.Ux); err != nil {
		return
	}
	if dy, err = n.Y.Apply(v.Uy); err != nil {
		return
	}
	return dx.Add(dy)
}

// Jacobian returns the velocity gradient (∂x ux, ∂x uy, ∂y ux, ∂y uy)
func (n *Nabla) Jacobian(v *VectorField) (R *TensorField, err error) {
	var (
		c   [4]*ScalarField
		ops = [4]*ConvOperator{n.X, n.X, n.Y, n.Y}
		fs  = [4]*ScalarField{v.Ux, v.Uy, v.Ux, v.Uy}
	)
	for i := range c {
		if c[i], err = ops[i].Apply(fs[i]); err != nil {
			return
		}
	}
	R = NewTensorField(c[0], c[1], c[2], c[3])
	return
}

// Laplacian is ∂xx + ∂yy
type Laplacian struct {
	X, Y *ConvOperator
}

func NewLaplacian(order int, opts ...OperatorOption) (l *Laplacian, err error) {
	l = &Laplacian{}
	if l.X, err = Grad2(order, X, opts...); err != nil {
		return nil, err
	}
	if l.Y, err = Grad2(order, Y, opts...); err != nil {
		return nil, err
	}
	return
}

func (l *Laplacian) Apply(f *ScalarField) (R *ScalarField, err error) {
	var (
		dxx, dyy *ScalarField
	)
	if dxx, err = l.X.Apply(f); err != nil {
		return
	}
	if dyy, err = l.Y.Apply(f); err != nil {
		return
	}
	return dxx.Add(dyy)
}

// ApplyVector applies the Laplacian to each component
func (l *Laplacian) ApplyVector(v *VectorField) (R *VectorField, err error) {
	R = &VectorField{}
	if R.Ux, err = l.Apply(v.Ux); err != nil {
		return nil, err
	}
	if R.Uy, err = l.Apply(v.Uy); err != nil {
		return nil, err
	}
	return
}

// FieldOperations bundles the operators a solver needs at one accuracy order
type FieldOperations struct {
	Order        int
	GradX, GradY *ConvOperator
	Nabla        *Nabla
	Nabla2       *Laplacian
}

func NewFieldOperations(order int, opts ...OperatorOption) (ops *FieldOperations, err error) {
	ops = &FieldOperations{Order: order}
	if ops.Nabla, err = NewNabla(order, opts...); err != nil {
		return nil, err
	}
	if ops.Nabla2, err = NewLaplacian(order, opts...); err != nil {
		return nil, err
	}
	ops.GradX, ops.GradY = ops.Nabla.X, ops.Nabla.Y
	return
}

func (ops *FieldOperations) String() string {
	return fmt.Sprintf("FieldOperations(order=%d)", ops.Order)
}
