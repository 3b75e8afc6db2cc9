/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/convdo/FD2D"
	"github.com/notargets/convdo/InputParameters"
	"github.com/notargets/convdo/utils"
)

type Model2D struct {
	ICFile         string
	Operators      []string
	ParallelDegree int
}

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Evaluate operators on a field described by an input file",
	Long:  `Builds the domain, obstacles and initial field from a YAML input file and reports each operator's result`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("2D called")
		m2d := &Model2D{}
		if m2d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m2d.Operators, _ = cmd.Flags().GetStringSlice("operators")
		m2d.ParallelDegree = viper.GetInt("parallel")
		ip := processInput(m2d)
		ip.Print()
		if ip.ParallelDegree == 0 {
			ip.ParallelDegree = m2d.ParallelDegree
		}
		if err = Run2D(m2d, ip); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func processInput(m2d *Model2D) (ip *InputParameters.InputParameters2D) {
	var (
		err error
	)
	if len(m2d.ICFile) == 0 {
		err := fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Cylinder"
Order: 2
Nx: 64
Ny: 32
Lx: 2.
Ly: 1.
InitType: SineXY # SineX, SineY, SineXY, Linear, Quadratic
BCs:
  Left:
    Type: Periodic
  Right:
    Type: Periodic
  Top:
    Type: Dirichlet
    Value: 0
  Bottom:
    Type: Neumann
    Value: 0
Obstacles:
  - Type: Dirichlet
    Value: 0
    Circles:
      - XC: 0.5
        YC: 0.5
        Radius: 0.15
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(m2d.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters2D{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- grid size\n\t- boundary conditions\n\t- obstacles")
	TwoDCmd.Flags().StringSliceP("operators", "o", []string{"gradx", "grady", "laplacian"},
		"operators to evaluate: "+strings.Join(operatorNames(), ", "))
}

// initFields maps an InitType to a field over [0, Lx] x [0, Ly]
func initFields(lx, ly float64) map[string]func(x, y float64) float64 {
	kx, ky := 2*math.Pi/lx, 2*math.Pi/ly
	return map[string]func(x, y float64) float64{
		"sinex":     func(x, y float64) float64 { return math.Sin(kx * x) },
		"siney":     func(x, y float64) float64 { return math.Sin(ky * y) },
		"sinexy":    func(x, y float64) float64 { return math.Sin(kx*x) * math.Cos(ky*y) },
		"linear":    func(x, y float64) float64 { return x + 2*y },
		"quadratic": func(x, y float64) float64 { return x*x + y*y },
	}
}

type fieldOperator func(ops *FD2D.FieldOperations, f *FD2D.ScalarField) (*FD2D.ScalarField, error)

var operators = map[string]fieldOperator{
	"gradx": func(ops *FD2D.FieldOperations, f *FD2D.ScalarField) (*FD2D.ScalarField, error) {
		return ops.GradX.Apply(f)
	},
	"grady": func(ops *FD2D.FieldOperations, f *FD2D.ScalarField) (*FD2D.ScalarField, error) {
		return ops.GradY.Apply(f)
	},
	"laplacian": func(ops *FD2D.FieldOperations, f *FD2D.ScalarField) (*FD2D.ScalarField, error) {
		return ops.Nabla2.Apply(f)
	},
	"divgrad": func(ops *FD2D.FieldOperations, f *FD2D.ScalarField) (R *FD2D.ScalarField, err error) {
		var g *FD2D.VectorField
		if g, err = ops.Nabla.Grad(f); err != nil {
			return
		}
		return ops.Nabla.Div(g)
	},
}

func operatorNames() (names []string) {
	for name := range operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

type OperatorResult struct {
	Name     string
	Min, Max float64
	HasNaN   bool
}

func Run2D(m2d *Model2D, ip *InputParameters.InputParameters2D) (err error) {
	var (
		results []OperatorResult
	)
	if results, err = Evaluate2D(m2d, ip); err != nil {
		return
	}
	fmt.Printf("%-10s %14s %14s\n", "Operator", "Min", "Max")
	for _, r := range results {
		fmt.Printf("%-10s %14.6e %14.6e", r.Name, r.Min, r.Max)
		if r.HasNaN {
			fmt.Printf("  NaN detected")
		}
		fmt.Println()
	}
	fmt.Println(utils.GetMemUsage())
	return
}

func Evaluate2D(m2d *Model2D, ip *InputParameters.InputParameters2D) (results []OperatorResult, err error) {
	var (
		domain *FD2D.Domain
		opts   []FD2D.OperatorOption
		ops    *FD2D.FieldOperations
	)
	grid, err := ip.Grid()
	if err != nil {
		return
	}
	initField, ok := initFields(ip.Lx, ip.Ly)[strings.ToLower(ip.InitType)]
	if !ok {
		err = fmt.Errorf("%w: unknown InitType %q", FD2D.ErrConfiguration, ip.InitType)
		return
	}
	if domain, err = ip.Domain(); err != nil {
		return
	}
	if opts, err = ip.OperatorOptions(); err != nil {
		return
	}
	if ops, err = FD2D.NewFieldOperations(ip.Order, opts...); err != nil {
		return
	}
	f := FD2D.NewScalarField(grid.Sample(initField), domain)
	for _, name := range m2d.Operators {
		var (
			op, ok = operators[strings.ToLower(name)]
			R      *FD2D.ScalarField
		)
		if !ok {
			err = fmt.Errorf("%w: unknown operator %q", FD2D.ErrConfiguration, name)
			return
		}
		if R, err = op(ops, f); err != nil {
			return
		}
		data := R.Value.Data()
		results = append(results, OperatorResult{
			Name:   name,
			Min:    floats.Min(data),
			Max:    floats.Max(data),
			HasNaN: utils.IsNan(R.Value),
		})
	}
	return
}
