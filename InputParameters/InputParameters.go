package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/convdo/FD2D"
	"github.com/notargets/convdo/geometry2D"
	"github.com/notargets/convdo/utils"
)

type BCParameters struct {
	Type  string  `json:"Type"`
	Value float64 `json:"Value"`
}

// CircleParameters keys are XC/YC: a bare Y key reads as a boolean in YAML 1.1
type CircleParameters struct {
	XC     float64 `json:"XC"`
	YC     float64 `json:"YC"`
	Radius float64 `json:"Radius"`
}

type RectangleParameters struct {
	XMin float64 `json:"XMin"`
	YMin float64 `json:"YMin"`
	XMax float64 `json:"XMax"`
	YMax float64 `json:"YMax"`
}

// ObstacleParameters describes one obstacle; its solid region is the union
// of every shape given.
type ObstacleParameters struct {
	Type       string                `json:"Type"`
	Value      float64               `json:"Value"`
	Circles    []CircleParameters    `json:"Circles"`
	Rectangles []RectangleParameters `json:"Rectangles"`
	Polygons   [][][2]float64        `json:"Polygons"`
}

// Parameters obtained from the YAML input file
type InputParameters2D struct {
	Title          string                  `json:"Title"`
	Order          int                     `json:"Order"`
	Nx             int                     `json:"Nx"`
	Ny             int                     `json:"Ny"`
	Lx             float64                 `json:"Lx"`
	Ly             float64                 `json:"Ly"`
	InitType       string                  `json:"InitType"`
	ObstaclePolicy string                  `json:"ObstaclePolicy"`
	ParallelDegree int                     `json:"ParallelDegree"`
	BCs            map[string]BCParameters `json:"BCs"` // Keyed by face: Left, Right, Top, Bottom
	Obstacles      []ObstacleParameters    `json:"Obstacles"`
}

func (ip *InputParameters2D) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.Order == 0 {
		ip.Order = 2
	}
	if ip.Lx == 0 {
		ip.Lx = 1
	}
	if ip.Ly == 0 {
		ip.Ly = 1
	}
	return
}

func (ip *InputParameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Accuracy Order\n", ip.Order)
	fmt.Printf("[%d x %d]\t\t\t= Grid Cells\n", ip.Nx, ip.Ny)
	fmt.Printf("[%8.5f x %8.5f]\t= Domain Size\n", ip.Lx, ip.Ly)
	fmt.Printf("[%s]\t\t\t= InitType\n", ip.InitType)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
	for i, ob := range ip.Obstacles {
		fmt.Printf("Obstacles[%d] = %s(%g), %d circles, %d rectangles, %d polygons",
			i, ob.Type, ob.Value, len(ob.Circles), len(ob.Rectangles), len(ob.Polygons))
		if bb := geometry2D.Bounds(ob.Shapes()...); bb != nil {
			c := bb.Centroid()
			fmt.Printf(", centred at (%g, %g)", c.X[0], c.X[1])
		}
		fmt.Println()
	}
}

func (op ObstacleParameters) Shapes() (shapes []geometry2D.Shape) {
	for _, c := range op.Circles {
		shapes = append(shapes, geometry2D.NewCircle(c.XC, c.YC, c.Radius))
	}
	for _, r := range op.Rectangles {
		shapes = append(shapes, geometry2D.NewRectangle(r.XMin, r.YMin, r.XMax, r.YMax))
	}
	for _, poly := range op.Polygons {
		pts := make([]geometry2D.Point, len(poly))
		for k, xy := range poly {
			pts[k] = geometry2D.NewPoint(xy[0], xy[1])
		}
		shapes = append(shapes, geometry2D.NewPolygon(pts))
	}
	return
}

func (ip *InputParameters2D) Grid() (*geometry2D.Grid, error) {
	return geometry2D.NewGrid(ip.Nx, ip.Ny, ip.Lx, ip.Ly)
}

func condition(bcType string, value float64) (b FD2D.Boundary, err error) {
	var (
		kind utils.BCType
	)
	if kind, err = utils.ParseBCName(bcType); err != nil {
		err = fmt.Errorf("%w: %v", FD2D.ErrConfiguration, err)
		return
	}
	b = FD2D.Boundary{Kind: kind, Value: value}
	return
}

// Domain builds the boundaries, obstacles and spacing described by the input
func (ip *InputParameters2D) Domain() (d *FD2D.Domain, err error) {
	var (
		grid       *geometry2D.Grid
		boundaries = make([]FD2D.Boundary, 4)
		obstacles  []*FD2D.Obstacle
	)
	if grid, err = ip.Grid(); err != nil {
		return
	}
	faces := map[string]int{"left": 0, "right": 1, "top": 2, "bottom": 3}
	for key, bc := range ip.BCs {
		n, ok := faces[strings.ToLower(key)]
		if !ok {
			err = fmt.Errorf("%w: unknown face %q", FD2D.ErrConfiguration, key)
			return
		}
		if boundaries[n], err = condition(bc.Type, bc.Value); err != nil {
			return
		}
	}
	for i, op := range ip.Obstacles {
		var (
			shapes []geometry2D.Shape
			cond   FD2D.Boundary
			ob     *FD2D.Obstacle
		)
		shapes = op.Shapes()
		if len(shapes) == 0 {
			err = fmt.Errorf("%w: obstacle %d has no shape", FD2D.ErrConfiguration, i)
			return
		}
		if cond, err = condition(op.Type, op.Value); err != nil {
			return
		}
		if ob, err = FD2D.NewObstacle(grid.ShapeMask(shapes...), cond); err != nil {
			return
		}
		obstacles = append(obstacles, ob)
	}
	dx, dy := grid.Spacing()
	return FD2D.NewDomain(boundaries, FD2D.WithSpacing(dx, dy), FD2D.WithObstacles(obstacles...))
}

func (ip *InputParameters2D) OperatorOptions() (opts []FD2D.OperatorOption, err error) {
	opts = append(opts, FD2D.WithParallelDegree(ip.ParallelDegree))
	switch strings.ToLower(ip.ObstaclePolicy) {
	case "", "forbid":
		opts = append(opts, FD2D.WithObstaclePolicy(FD2D.ForbidHighOrderObstacles))
	case "ignore":
		opts = append(opts, FD2D.WithObstaclePolicy(FD2D.IgnoreObstaclesHighOrder))
	default:
		err = fmt.Errorf("%w: unknown obstacle policy %q", FD2D.ErrConfiguration, ip.ObstaclePolicy)
	}
	return
}
