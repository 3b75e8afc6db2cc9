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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/convdo/FD2D"
	"github.com/notargets/convdo/model_problems/ConvergenceStudy"
)

// ConvergenceCmd represents the convergence command
var ConvergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Measure the observed accuracy order of the stencil catalog",
	Long: `Applies each operator to sin(2 pi x) cos(2 pi y) on a sequence of periodic grids
and reports the RMS and max errors with the observed order between refinements`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		study, _ := cmd.Flags().GetString("study")
		order, _ := cmd.Flags().GetInt("order")
		points, _ := cmd.Flags().GetIntSlice("points")
		csvFile, _ := cmd.Flags().GetString("csvFile")
		studies, err := RunConvergence(study, order, viper.GetInt("parallel"), points...)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		for _, cs := range studies {
			cs.Print()
		}
		if len(csvFile) != 0 {
			var file *os.File
			if file, err = os.Create(csvFile); err != nil {
				panic(err)
			}
			defer file.Close()
			if err = ConvergenceStudy.WriteCSV(file, studies...); err != nil {
				panic(err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(ConvergenceCmd)
	ConvergenceCmd.Flags().StringP("study", "s", "all", "operator to study, one of GradX, GradY, Grad2X, Grad2Y or all")
	ConvergenceCmd.Flags().IntP("order", "n", 0, "stencil order, 0 runs every supported order")
	ConvergenceCmd.Flags().IntSlice("points", []int{16, 32, 64, 128}, "grid sizes, coarse to fine")
	ConvergenceCmd.Flags().String("csvFile", "", "write the results to this CSV file")
}

func RunConvergence(study string, order, parallelDegree int, points ...int) (studies []*ConvergenceStudy.ConvergenceStudy, err error) {
	titles := []string{study}
	if study == "all" {
		titles = ConvergenceStudy.Titles()
	}
	orders := []int{order}
	if order == 0 {
		orders = FD2D.SupportedOrders()
	}
	for _, title := range titles {
		for _, n := range orders {
			cs := ConvergenceStudy.NewConvergenceStudy(title, n)
			cs.ParallelDegree = parallelDegree
			if err = cs.Run(points...); err != nil {
				return
			}
			studies = append(studies, cs)
		}
	}
	return
}
