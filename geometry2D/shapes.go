package geometry2D

import (
	"fmt"
	"math"

	"github.com/notargets/convdo/utils"
)

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) Point { return Point{X: [2]float64{x, y}} }

func (pt Point) Minus(rhs Point) Point {
	return NewPoint(pt.X[0]-rhs.X[0], pt.X[1]-rhs.X[1])
}

func (pt Point) Plus(rhs Point) Point {
	return NewPoint(pt.X[0]+rhs.X[0], pt.X[1]+rhs.X[1])
}

func (pt Point) Norm() float64 { return math.Hypot(pt.X[0], pt.X[1]) }

type BoundingBox struct {
	Min, Max Point
}

// NewBoundingBox returns the smallest box containing every point
func NewBoundingBox(geometry []Point) (Box *BoundingBox) {
	Box = &BoundingBox{
		Min: NewPoint(math.MaxFloat64, math.MaxFloat64),
		Max: NewPoint(-math.MaxFloat64, -math.MaxFloat64),
	}
	for _, pt := range geometry {
		for ii := 0; ii < 2; ii++ {
			Box.Min.X[ii] = math.Min(Box.Min.X[ii], pt.X[ii])
			Box.Max.X[ii] = math.Max(Box.Max.X[ii], pt.X[ii])
		}
	}
	return
}

func (bb *BoundingBox) Centroid() Point {
	return NewPoint(0.5*(bb.Min.X[0]+bb.Max.X[0]), 0.5*(bb.Min.X[1]+bb.Max.X[1]))
}

// Grow extends bb to contain newBB
func (bb *BoundingBox) Grow(newBB *BoundingBox) {
	for ii := 0; ii < 2; ii++ {
		bb.Min.X[ii] = math.Min(bb.Min.X[ii], newBB.Min.X[ii])
		bb.Max.X[ii] = math.Max(bb.Max.X[ii], newBB.Max.X[ii])
	}
}

// Bounds returns the box containing every shape, nil when there are none
func Bounds(shapes ...Shape) (bb *BoundingBox) {
	for _, s := range shapes {
		if bb == nil {
			b := *s.GetBoundingBox()
			bb = &b
			continue
		}
		bb.Grow(s.GetBoundingBox())
	}
	return
}

func (bb *BoundingBox) PointInside(point Point) (within bool) {
	return point.X[0] > bb.Min.X[0] && point.X[0] < bb.Max.X[0] &&
		point.X[1] > bb.Min.X[1] && point.X[1] < bb.Max.X[1]
}

// Shape is a solid region; Inside is strict so cells on the outline stay fluid.
type Shape interface {
	Inside(pt Point) bool
	GetBoundingBox() *BoundingBox
}

type Circle struct {
	Center Point
	Radius float64
}

func NewCircle(cx, cy, radius float64) *Circle {
	return &Circle{Center: NewPoint(cx, cy), Radius: radius}
}

func (c *Circle) Inside(pt Point) bool { return pt.Minus(c.Center).Norm() < c.Radius }

func (c *Circle) GetBoundingBox() *BoundingBox {
	r := NewPoint(c.Radius, c.Radius)
	return &BoundingBox{Min: c.Center.Minus(r), Max: c.Center.Plus(r)}
}

type Rectangle struct {
	Box BoundingBox
}

func NewRectangle(xmin, ymin, xmax, ymax float64) *Rectangle {
	return &Rectangle{Box: *NewBoundingBox([]Point{NewPoint(xmin, ymin), NewPoint(xmax, ymax)})}
}

func (r *Rectangle) Inside(pt Point) bool         { return r.Box.PointInside(pt) }
func (r *Rectangle) GetBoundingBox() *BoundingBox { return &r.Box }

type Polygon struct {
	Geometry []Point
	Box      *BoundingBox
}

func NewPolygon(geom []Point) (poly *Polygon) {
	return &Polygon{Geometry: geom, Box: NewBoundingBox(geom)}
}

// Inside uses the even-odd crossing rule
func (poly *Polygon) Inside(pt Point) (inside bool) {
	var (
		n = len(poly.Geometry)
	)
	if !poly.Box.PointInside(pt) {
		return
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly.Geometry[i], poly.Geometry[j]
		if (pi.X[1] > pt.X[1]) != (pj.X[1] > pt.X[1]) {
			xCross := pi.X[0] + (pt.X[1]-pi.X[1])*(pj.X[0]-pi.X[0])/(pj.X[1]-pi.X[1])
			if pt.X[0] < xCross {
				inside = !inside
			}
		}
	}
	return
}

func (poly *Polygon) GetBoundingBox() *BoundingBox { return poly.Box }

/*
Grid is a uniform cell-centred grid of Nx x Ny cells covering [0, Lx] x
[0, Ly]. Row 0 is the top of the grid, so cell (i, j) has its centre at
x = (j+0.5)·Dx and y = (Ny-i-0.5)·Dy.
*/
type Grid struct {
	Nx, Ny int
	Lx, Ly float64
}

func NewGrid(nx, ny int, lx, ly float64) (g *Grid, err error) {
	if nx < 1 || ny < 1 || !(lx > 0) || !(ly > 0) {
		err = fmt.Errorf("geometry2D: invalid grid %dx%d over %gx%g", nx, ny, lx, ly)
		return
	}
	g = &Grid{Nx: nx, Ny: ny, Lx: lx, Ly: ly}
	return
}

func (g *Grid) Spacing() (dx, dy float64) {
	return g.Lx / float64(g.Nx), g.Ly / float64(g.Ny)
}

// Sample evaluates f at every cell centre as a (1, 1, Ny, Nx) tensor
func (g *Grid) Sample(f func(x, y float64) float64) (T utils.Tensor) {
	var (
		xc, yc = utils.CellCenters(g.Nx, g.Lx), utils.CellCenters(g.Ny, g.Ly)
	)
	T = utils.NewTensor(1, 1, g.Ny, g.Nx)
	for i := 0; i < g.Ny; i++ {
		y := yc[g.Ny-1-i] // row 0 is the top
		for j, x := range xc {
			T.Planes[0].Set(i, j, f(x, y))
		}
	}
	return
}

// ShapeMask returns 0 in cells whose centre lies inside any shape and 1 elsewhere
func (g *Grid) ShapeMask(shapes ...Shape) utils.Tensor {
	bounds := Bounds(shapes...)
	return g.Sample(func(x, y float64) float64 {
		pt := NewPoint(x, y)
		if bounds == nil || !bounds.PointInside(pt) {
			return 1
		}
		for _, s := range shapes {
			if s.GetBoundingBox().PointInside(pt) && s.Inside(pt) {
				return 0
			}
		}
		return 1
	})
}
