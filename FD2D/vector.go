package FD2D

import (
	"github.com/notargets/convdo/utils"
)

type VectorField struct {
	Ux, Uy *ScalarField
}

func NewVectorField(ux, uy *ScalarField) *VectorField {
	return &VectorField{Ux: ux, Uy: uy}
}

func (v *VectorField) Combine(op utils.ArithOp, o *VectorField) (R *VectorField, err error) {
	R = &VectorField{}
	if R.Ux, err = v.Ux.Combine(op, o.Ux); err != nil {
		return nil, err
	}
	if R.Uy, err = v.Uy.Combine(op, o.Uy); err != nil {
		return nil, err
	}
	return
}

func (v *VectorField) CombineScalar(op utils.ArithOp, s float64) (R *VectorField, err error) {
	R = &VectorField{}
	if R.Ux, err = v.Ux.CombineScalar(op, s); err != nil {
		return nil, err
	}
	if R.Uy, err = v.Uy.CombineScalar(op, s); err != nil {
		return nil, err
	}
	return
}

// CombineField applies op between each component and f
func (v *VectorField) CombineField(op utils.ArithOp, f *ScalarField) (R *VectorField, err error) {
	R = &VectorField{}
	if R.Ux, err = v.Ux.Combine(op, f); err != nil {
		return nil, err
	}
	if R.Uy, err = v.Uy.Combine(op, f); err != nil {
		return nil, err
	}
	return
}

func (v *VectorField) Add(o *VectorField) (*VectorField, error) { return v.Combine(utils.OpAdd, o) }
func (v *VectorField) Sub(o *VectorField) (*VectorField, error) { return subtract(v, o) }
func (v *VectorField) Scale(s float64) (*VectorField, error) {
	return v.CombineScalar(utils.OpMul, s)
}

// Dot returns ux*ox + uy*oy
func (v *VectorField) Dot(o *VectorField) (R *ScalarField, err error) {
	var (
		xx, yy *ScalarField
	)
	if xx, err = v.Ux.Mul(o.Ux); err != nil {
		return
	}
	if yy, err = v.Uy.Mul(o.Uy); err != nil {
		return
	}
	return xx.Add(yy)
}

// Outer returns the tensor with components (ux*ox, ux*oy, uy*ox, uy*oy) in
// the order uxx, uyx, uxy, uyy.
func (v *VectorField) Outer(o *VectorField) (R *TensorField, err error) {
	var (
		c [4]*ScalarField
	)
	pairs := [4][2]*ScalarField{{v.Ux, o.Ux}, {v.Ux, o.Uy}, {v.Uy, o.Ux}, {v.Uy, o.Uy}}
	for i, p := range pairs {
		if c[i], err = p[0].Mul(p[1]); err != nil {
			return nil, err
		}
	}
	R = NewTensorField(c[0], c[1], c[2], c[3])
	return
}

/*
DotTensor contracts v with a velocity gradient tensor:

	x: ux*uxx + uy*uxy
	y: ux*uyx + uy*uyy

With T the Jacobian of u this is the convective term (u·∇)u.
*/
func (v *VectorField) DotTensor(T *TensorField) (R *VectorField, err error) {
	var (
		a, b *ScalarField
	)
	R = &VectorField{}
	if a, err = v.Ux.Mul(T.Uxx); err != nil {
		return nil, err
	}
	if b, err = v.Uy.Mul(T.Uxy); err != nil {
		return nil, err
	}
	if R.Ux, err = a.Add(b); err != nil {
		return nil, err
	}
	if a, err = v.Ux.Mul(T.Uyx); err != nil {
		return nil, err
	}
	if b, err = v.Uy.Mul(T.Uyy); err != nil {
		return nil, err
	}
	if R.Uy, err = a.Add(b); err != nil {
		return nil, err
	}
	return
}

/*
TensorField holds the four components of a 2x2 tensor of fields. For a
velocity gradient, uxx = ∂x ux, uyx = ∂x uy, uxy = ∂y ux and uyy = ∂y uy.
*/
type TensorField struct {
	Uxx, Uyx, Uxy, Uyy *ScalarField
}

func NewTensorField(uxx, uyx, uxy, uyy *ScalarField) *TensorField {
	return &TensorField{Uxx: uxx, Uyx: uyx, Uxy: uxy, Uyy: uyy}
}

func (t *TensorField) components() []*ScalarField {
	return []*ScalarField{t.Uxx, t.Uyx, t.Uxy, t.Uyy}
}

func (t *TensorField) Combine(op utils.ArithOp, o *TensorField) (R *TensorField, err error) {
	var (
		c  [4]*ScalarField
		oc = o.components()
	)
	for i, f := range t.components() {
		if c[i], err = f.Combine(op, oc[i]); err != nil {
			return nil, err
		}
	}
	R = NewTensorField(c[0], c[1], c[2], c[3])
	return
}

func (t *TensorField) CombineScalar(op utils.ArithOp, s float64) (R *TensorField, err error) {
	var (
		c [4]*ScalarField
	)
	for i, f := range t.components() {
		if c[i], err = f.CombineScalar(op, s); err != nil {
			return nil, err
		}
	}
	R = NewTensorField(c[0], c[1], c[2], c[3])
	return
}

// Trace returns uxx + uyy, the divergence when t is a velocity gradient
func (t *TensorField) Trace() (*ScalarField, error) { return t.Uxx.Add(t.Uyy) }
