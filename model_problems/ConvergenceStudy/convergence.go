package ConvergenceStudy

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/convdo/FD2D"
	"github.com/notargets/convdo/geometry2D"
	"github.com/notargets/convdo/utils"
)

/*
ConvergenceStudy records the error of one operator on a manufactured periodic
solution over a sequence of grid sizes. Each grid covers the unit square with
NumPTS cells per side and samples sin(2πx)·cos(2πy); the exact derivative is
compared against the operator output in the RMS and max norms.
*/
type ConvergenceStudy struct {
	Title          string
	Order          int
	NumPTS         []int
	RMS, MAX       []float64
	ParallelDegree int
}

func NewConvergenceStudy(title string, order int) *ConvergenceStudy {
	return &ConvergenceStudy{
		Title: title,
		Order: order,
	}
}

func (cs *ConvergenceStudy) Add(numPTS int, rms, maxErr float64) {
	cs.NumPTS = append(cs.NumPTS, numPTS)
	cs.RMS = append(cs.RMS, rms)
	cs.MAX = append(cs.MAX, maxErr)
}

type manufactured struct {
	f, exact func(x, y float64) float64
	build    func(order int, opts ...FD2D.OperatorOption) (*FD2D.ConvOperator, error)
}

var (
	k        = 2 * math.Pi
	solution = func(x, y float64) float64 { return math.Sin(k*x) * math.Cos(k*y) }
	catalog  = map[string]manufactured{
		"GradX": {
			f:     solution,
			exact: func(x, y float64) float64 { return k * math.Cos(k*x) * math.Cos(k*y) },
			build: func(order int, opts ...FD2D.OperatorOption) (*FD2D.ConvOperator, error) {
				return FD2D.Grad(order, FD2D.X, opts...)
			},
		},
		"GradY": {
			f:     solution,
			exact: func(x, y float64) float64 { return -k * math.Sin(k*x) * math.Sin(k*y) },
			build: func(order int, opts ...FD2D.OperatorOption) (*FD2D.ConvOperator, error) {
				return FD2D.Grad(order, FD2D.Y, opts...)
			},
		},
		"Grad2X": {
			f:     solution,
			exact: func(x, y float64) float64 { return -k * k * solution(x, y) },
			build: func(order int, opts ...FD2D.OperatorOption) (*FD2D.ConvOperator, error) {
				return FD2D.Grad2(order, FD2D.X, opts...)
			},
		},
		"Grad2Y": {
			f:     solution,
			exact: func(x, y float64) float64 { return -k * k * solution(x, y) },
			build: func(order int, opts ...FD2D.OperatorOption) (*FD2D.ConvOperator, error) {
				return FD2D.Grad2(order, FD2D.Y, opts...)
			},
		},
	}
)

// Titles lists the operators a study can be run for
func Titles() (titles []string) {
	for title := range catalog {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return
}

// Run evaluates the operator on each grid size and appends the errors
func (cs *ConvergenceStudy) Run(numPTS ...int) (err error) {
	var (
		m, ok = catalog[cs.Title]
		op    *FD2D.ConvOperator
	)
	if !ok {
		err = fmt.Errorf("%w: unknown study %q, have %v", FD2D.ErrConfiguration, cs.Title, Titles())
		return
	}
	if op, err = m.build(cs.Order, FD2D.WithParallelDegree(cs.ParallelDegree)); err != nil {
		return
	}
	for _, n := range numPTS {
		var (
			grid   *geometry2D.Grid
			domain *FD2D.Domain
			R      *FD2D.ScalarField
		)
		if grid, err = geometry2D.NewGrid(n, n, 1, 1); err != nil {
			return
		}
		dx, dy := grid.Spacing()
		if domain, err = FD2D.PeriodicDomain(FD2D.WithSpacing(dx, dy)); err != nil {
			return
		}
		if R, err = op.Apply(FD2D.NewScalarField(grid.Sample(m.f), domain)); err != nil {
			return
		}
		diff := R.Value.Data()
		floats.Sub(diff, grid.Sample(m.exact).Data())
		if utils.IsNan(diff) {
			err = fmt.Errorf("NaN in %s order %d on %d points", cs.Title, cs.Order, n)
			return
		}
		cs.Add(n,
			floats.Norm(diff, 2)/math.Sqrt(float64(len(diff))),
			floats.Norm(diff, math.Inf(1)))
	}
	return
}

// ObservedOrder returns log(e[i-1]/e[i])/log(n[i]/n[i-1]) between successive
// grids in the max norm; the first entry is NaN.
func (cs *ConvergenceStudy) ObservedOrder() (rate []float64) {
	rate = make([]float64, len(cs.NumPTS))
	for i := range rate {
		if i == 0 {
			rate[i] = math.NaN()
			continue
		}
		rate[i] = math.Log(cs.MAX[i-1]/cs.MAX[i]) /
			math.Log(float64(cs.NumPTS[i])/float64(cs.NumPTS[i-1]))
	}
	return
}

func (cs *ConvergenceStudy) Print() {
	fmt.Printf("Title = %s, Order = %d\n", cs.Title, cs.Order)
	rate := cs.ObservedOrder()
	for i := range cs.NumPTS {
		fmt.Printf("%d, %v, %v, %5.2f\n", cs.NumPTS[i], cs.RMS[i], cs.MAX[i], rate[i])
	}
}

var header = []string{"Title", "NumPTS", "Order", "RMS", "MAX"}

// WriteCSV writes the studies in the format read by ReadCSV
func WriteCSV(w io.Writer, studies ...*ConvergenceStudy) (err error) {
	cw := csv.NewWriter(w)
	if err = cw.Write(header); err != nil {
		return
	}
	for _, cs := range studies {
		for i := range cs.NumPTS {
			rec := []string{
				cs.Title,
				strconv.Itoa(cs.NumPTS[i]),
				strconv.Itoa(cs.Order),
				strconv.FormatFloat(cs.RMS[i], 'g', -1, 64),
				strconv.FormatFloat(cs.MAX[i], 'g', -1, 64),
			}
			if err = cw.Write(rec); err != nil {
				return
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV groups the records by title and order
func ReadCSV(r io.Reader) (studies map[string]*ConvergenceStudy, err error) {
	var (
		records [][]string
		ok      bool
		cs      *ConvergenceStudy
	)
	studies = make(map[string]*ConvergenceStudy)
	if records, err = csv.NewReader(bufio.NewReader(r)).ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) != len(header) {
			err = fmt.Errorf("record %d has %d fields, want %d", i, len(rec), len(header))
			return
		}
		var (
			title, nptstxt, ntxt = rec[0], rec[1], rec[2]
			n, npts              int
			rms, maxErr          float64
		)
		if n, err = strconv.Atoi(ntxt); err != nil {
			return
		}
		if npts, err = strconv.Atoi(nptstxt); err != nil {
			return
		}
		if rms, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return
		}
		if maxErr, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return
		}
		combTitle := title + ntxt
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, n)
			studies[combTitle] = cs
		}
		cs.Add(npts, rms, maxErr)
	}
	return
}
