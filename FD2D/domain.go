package FD2D

import (
	"fmt"

	"github.com/notargets/convdo/utils"
)

// Domain is the set of conditions a field carries: one boundary per face,
// the immersed obstacles and the grid spacing.
type Domain struct {
	Left, Right, Top, Bottom Boundary
	Obstacles                []*Obstacle
	DeltaX, DeltaY           float64
}

type DomainOption func(d *Domain)

func WithObstacles(obstacles ...*Obstacle) DomainOption {
	return func(d *Domain) {
		d.Obstacles = append(d.Obstacles, obstacles...)
	}
}

func WithSpacing(dx, dy float64) DomainOption {
	return func(d *Domain) {
		d.DeltaX, d.DeltaY = dx, dy
	}
}

/*
NewDomain takes the four boundaries in the order left, right, top, bottom.
Periodic faces must come in pairs: left with right, top with bottom. The
spacing defaults to 1 in both directions.
*/
func NewDomain(boundaries []Boundary, opts ...DomainOption) (d *Domain, err error) {
	if len(boundaries) != 4 {
		err = fmt.Errorf("%w: a domain needs 4 boundaries, have %d", ErrConfiguration, len(boundaries))
		return
	}
	d = &Domain{
		Left:   boundaries[0],
		Right:  boundaries[1],
		Top:    boundaries[2],
		Bottom: boundaries[3],
		DeltaX: 1,
		DeltaY: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	if err = d.validate(); err != nil {
		d = nil
	}
	return
}

func (d *Domain) validate() (err error) {
	for _, pair := range [][2]Side{{Left, Right}, {Top, Bottom}} {
		p0 := d.Boundary(pair[0]).Kind == utils.BCPeriodic
		p1 := d.Boundary(pair[1]).Kind == utils.BCPeriodic
		if p0 != p1 {
			return fmt.Errorf("%w: %s and %s must both be periodic or neither",
				ErrConfiguration, pair[0], pair[1])
		}
	}
	if !(d.DeltaX > 0) || !(d.DeltaY > 0) {
		return fmt.Errorf("%w: grid spacing must be positive, have (%g, %g)",
			ErrConfiguration, d.DeltaX, d.DeltaY)
	}
	for i, o := range d.Obstacles {
		if o == nil {
			return fmt.Errorf("%w: obstacle %d is nil", ErrConfiguration, i)
		}
	}
	return
}

func UnconstrainedDomain(opts ...DomainOption) (*Domain, error) {
	B := UnconstrainedBoundary()
	return NewDomain([]Boundary{B, B, B, B}, opts...)
}

func PeriodicDomain(opts ...DomainOption) (*Domain, error) {
	B := PeriodicBoundary()
	return NewDomain([]Boundary{B, B, B, B}, opts...)
}

// defaultDomain is attached to fields constructed without one
func defaultDomain() *Domain {
	B := UnconstrainedBoundary()
	return &Domain{Left: B, Right: B, Top: B, Bottom: B, DeltaX: 1, DeltaY: 1}
}

func (d *Domain) Boundaries() []Boundary {
	return []Boundary{d.Left, d.Right, d.Top, d.Bottom}
}

func (d *Domain) Boundary(side Side) Boundary {
	switch side {
	case Left:
		return d.Left
	case Right:
		return d.Right
	case Top:
		return d.Top
	default:
		return d.Bottom
	}
}

func (d *Domain) Spacing(dir Direction) float64 {
	if dir == X {
		return d.DeltaX
	}
	return d.DeltaY
}

func (d *Domain) IsPeriodic(dir Direction) bool {
	inward, outward := sides(dir)
	return d.Boundary(inward).Kind == utils.BCPeriodic &&
		d.Boundary(outward).Kind == utils.BCPeriodic
}

func (d *Domain) String() string {
	return fmt.Sprintf("Domain(left=%s, right=%s, top=%s, bottom=%s, obstacles=%d, dx=%g, dy=%g)",
		d.Left, d.Right, d.Top, d.Bottom, len(d.Obstacles), d.DeltaX, d.DeltaY)
}

/*
Derivative returns the domain carried by a derivative of a field on d.
Periodicity survives differentiation; every other face becomes Unconstrained
and the obstacles are dropped. The caller can re-attach obstacles with
WithObstacles.
*/
func (d *Domain) Derivative() *Domain {
	R := &Domain{DeltaX: d.DeltaX, DeltaY: d.DeltaY}
	bs := make([]Boundary, 4)
	for i, b := range d.Boundaries() {
		if b.Kind == utils.BCPeriodic {
			bs[i] = b
		} else {
			bs[i] = UnconstrainedBoundary()
		}
	}
	R.Left, R.Right, R.Top, R.Bottom = bs[0], bs[1], bs[2], bs[3]
	return R
}

// WithObstacles returns a copy of d carrying obstacles in place of its own
func (d *Domain) WithObstacles(obstacles ...*Obstacle) (R *Domain, err error) {
	R = &Domain{}
	*R = *d
	R.Obstacles = append([]*Obstacle(nil), obstacles...)
	if err = R.validate(); err != nil {
		R = nil
	}
	return
}

func (d *Domain) mapBoundaries(f func(b Boundary) Boundary) (R *Domain) {
	R = &Domain{}
	*R = *d
	R.Left, R.Right, R.Top, R.Bottom = f(d.Left), f(d.Right), f(d.Top), f(d.Bottom)
	return
}

/*
Combine pairs the faces of both domains and the obstacles by position. An
empty obstacle list is the identity; lists of different non-zero length
cannot be combined. The spacing is taken from d.
*/
func (d *Domain) Combine(op utils.ArithOp, o *Domain) (R *Domain, err error) {
	var (
		obs []*Obstacle
	)
	if op == utils.OpSub {
		return subtract(d, o)
	}
	switch {
	case len(o.Obstacles) == 0:
		obs = d.Obstacles
	case len(d.Obstacles) == 0:
		obs = o.Obstacles
	case len(d.Obstacles) != len(o.Obstacles):
		err = fmt.Errorf("%w: cannot combine %d obstacles with %d",
			ErrConfiguration, len(d.Obstacles), len(o.Obstacles))
		return
	default:
		obs = make([]*Obstacle, len(d.Obstacles))
		for i := range obs {
			if obs[i], err = d.Obstacles[i].Combine(op, o.Obstacles[i]); err != nil {
				return
			}
		}
	}
	R = &Domain{
		Left:      d.Left.Combine(op, o.Left),
		Right:     d.Right.Combine(op, o.Right),
		Top:       d.Top.Combine(op, o.Top),
		Bottom:    d.Bottom.Combine(op, o.Bottom),
		Obstacles: obs,
		DeltaX:    d.DeltaX,
		DeltaY:    d.DeltaY,
	}
	return
}

func (d *Domain) CombineScalar(op utils.ArithOp, s float64) (R *Domain, err error) {
	R = d.mapBoundaries(func(b Boundary) Boundary { return b.CombineScalar(op, s) })
	R.Obstacles = make([]*Obstacle, len(d.Obstacles))
	for i, ob := range d.Obstacles {
		if R.Obstacles[i], err = ob.CombineScalar(op, s); err != nil {
			return
		}
	}
	return
}

// ScalarCombine returns the domain of (s op field)
func (d *Domain) ScalarCombine(op utils.ArithOp, s float64) (R *Domain, err error) {
	if op == utils.OpSub {
		return scalarSubtract(s, d)
	}
	R = d.mapBoundaries(func(b Boundary) Boundary { return b.ScalarCombine(op, s) })
	R.Obstacles = make([]*Obstacle, len(d.Obstacles))
	for i, ob := range d.Obstacles {
		if R.Obstacles[i], err = ob.ScalarCombine(op, s); err != nil {
			return
		}
	}
	return
}
