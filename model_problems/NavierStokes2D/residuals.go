package NavierStokes2D

import (
	"fmt"

	"github.com/notargets/convdo/FD2D"
	"github.com/notargets/convdo/utils"
)

/*
NavierStokes assembles residuals of the incompressible Navier-Stokes
equations on a uniform grid. All derivatives come from one FieldOperations
bundle, so the accuracy order and obstacle policy apply to every term.

Residuals are returned as a tensor with the equations stacked along the
channel axis:

	Transient:        [momentum x, momentum y, pressure poisson, divergence]
	PressureVelocity: [pressure poisson, divergence]
*/
type NavierStokes struct {
	Order int
	ops   *FD2D.FieldOperations
}

// State holds velocity components and pressure at one time level
type State struct {
	U, V, P utils.Tensor
}

type Domains struct {
	U, V, P *FD2D.Domain
}

// Force is a body force per unit mass
type Force struct {
	X, Y             utils.Tensor
	DomainX, DomainY *FD2D.Domain
}

func NewNavierStokes(order int, opts ...FD2D.OperatorOption) (ns *NavierStokes, err error) {
	var ops *FD2D.FieldOperations
	if ops, err = FD2D.NewFieldOperations(order, opts...); err != nil {
		return
	}
	ns = &NavierStokes{Order: order, ops: ops}
	return
}

func (ns *NavierStokes) String() string {
	return fmt.Sprintf("NavierStokes(order=%d)", ns.Order)
}

func velocity(s State, d Domains) *FD2D.VectorField {
	return FD2D.NewVectorField(FD2D.NewScalarField(s.U, d.U), FD2D.NewScalarField(s.V, d.V))
}

func (f *Force) field() *FD2D.VectorField {
	return FD2D.NewVectorField(FD2D.NewScalarField(f.X, f.DomainX), FD2D.NewScalarField(f.Y, f.DomainY))
}

// TransientResidual evaluates one time step from s0 to s1 of size dt
func (ns *NavierStokes) TransientResidual(s0, s1 State, d Domains, viscosity, dt float64) (utils.Tensor, error) {
	return ns.transient(s0, s1, nil, d, viscosity, dt)
}

func (ns *NavierStokes) TransientForceResidual(s0, s1 State, force Force, d Domains, viscosity, dt float64) (utils.Tensor, error) {
	return ns.transient(s0, s1, &force, d, viscosity, dt)
}

// PressureVelocityResidual checks the pressure poisson equation and continuity
func (ns *NavierStokes) PressureVelocityResidual(s State, d Domains) (utils.Tensor, error) {
	return ns.pressureVelocity(s, nil, d)
}

func (ns *NavierStokes) PressureVelocityForceResidual(s State, force Force, d Domains) (utils.Tensor, error) {
	return ns.pressureVelocity(s, &force, d)
}

func (ns *NavierStokes) transient(s0, s1 State, force *Force, d Domains, viscosity, dt float64) (R utils.Tensor, err error) {
	var (
		u0, u1        = velocity(s0, d), velocity(s1, d)
		p0            = FD2D.NewScalarField(s0.P, d.P)
		p1            = FD2D.NewScalarField(s1.P, d.P)
		momentum      *FD2D.VectorField
		poisson, cont *FD2D.ScalarField
	)
	if !(dt > 0) {
		err = fmt.Errorf("%w: time step must be positive, have %g", FD2D.ErrConfiguration, dt)
		return
	}
	if momentum, err = ns.momentum(u0, u1, p0, viscosity, dt); err != nil {
		return
	}
	if poisson, err = ns.poisson(u1, p1); err != nil {
		return
	}
	if cont, err = ns.ops.Nabla.Div(u1); err != nil {
		return
	}
	if force != nil {
		var (
			f    = force.field()
			divF *FD2D.ScalarField
		)
		if momentum, err = momentum.Sub(f); err != nil {
			return
		}
		if divF, err = ns.ops.Nabla.Div(f); err != nil {
			return
		}
		if poisson, err = poisson.Sub(divF); err != nil {
			return
		}
	}
	return utils.ConcatChannels(momentum.Ux.Value, momentum.Uy.Value, poisson.Value, cont.Value)
}

func (ns *NavierStokes) pressureVelocity(s State, force *Force, d Domains) (R utils.Tensor, err error) {
	var (
		u             = velocity(s, d)
		p             = FD2D.NewScalarField(s.P, d.P)
		poisson, cont *FD2D.ScalarField
	)
	if poisson, err = ns.poisson(u, p); err != nil {
		return
	}
	if cont, err = ns.ops.Nabla.Div(u); err != nil {
		return
	}
	if force != nil {
		var divF *FD2D.ScalarField
		if divF, err = ns.ops.Nabla.Div(force.field()); err != nil {
			return
		}
		if poisson, err = poisson.Sub(divF); err != nil {
			return
		}
	}
	return utils.ConcatChannels(poisson.Value, cont.Value)
}

/*
momentum evaluates

	(u1 - u0)/dt + (ū·∇)ū + ∇p0 - ν∇²ū,   ū = (u0 + u1)/2
*/
func (ns *NavierStokes) momentum(u0, u1 *FD2D.VectorField, p0 *FD2D.ScalarField, viscosity, dt float64) (R *FD2D.VectorField, err error) {
	var (
		sum, uBar, advection, pressure, vis *FD2D.VectorField
		J                                   *FD2D.TensorField
	)
	if sum, err = u1.Add(u0); err != nil {
		return
	}
	if uBar, err = sum.Scale(0.5); err != nil {
		return
	}
	if sum, err = u1.Sub(u0); err != nil {
		return
	}
	if R, err = sum.Scale(1 / dt); err != nil {
		return
	}
	if J, err = ns.ops.Nabla.Jacobian(uBar); err != nil {
		return
	}
	if advection, err = uBar.DotTensor(J); err != nil {
		return
	}
	if pressure, err = ns.ops.Nabla.Grad(p0); err != nil {
		return
	}
	if vis, err = ns.ops.Nabla2.ApplyVector(uBar); err != nil {
		return
	}
	if vis, err = vis.Scale(-viscosity); err != nil {
		return
	}
	for _, term := range []*FD2D.VectorField{advection, pressure, vis} {
		if R, err = R.Add(term); err != nil {
			return
		}
	}
	return
}

/*
poisson evaluates the pressure equation obtained from the divergence of the
momentum equation for a solenoidal velocity:

	∇²p + (∂x u)² + 2 (∂y u)(∂x v) + (∂y v)²
*/
func (ns *NavierStokes) poisson(u *FD2D.VectorField, p *FD2D.ScalarField) (R *FD2D.ScalarField, err error) {
	var (
		J       *FD2D.TensorField
		a, b, c *FD2D.ScalarField
	)
	if R, err = ns.ops.Nabla2.Apply(p); err != nil {
		return
	}
	if J, err = ns.ops.Nabla.Jacobian(u); err != nil {
		return
	}
	if a, err = J.Uxx.Mul(J.Uxx); err != nil {
		return
	}
	if b, err = J.Uxy.Mul(J.Uyx); err != nil {
		return
	}
	if b, err = b.Scale(2); err != nil {
		return
	}
	if c, err = J.Uyy.Mul(J.Uyy); err != nil {
		return
	}
	for _, term := range []*FD2D.ScalarField{a, b, c} {
		if R, err = R.Add(term); err != nil {
			return
		}
	}
	return
}
