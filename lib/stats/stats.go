/*package stats computes summary statistics, projections and profiles of
USRBIN grids.
*/
package stats

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/usrbin"
)

// Summary describes the distribution of the values in a grid. StdDev is the
// population standard deviation.
type Summary struct {
	N                 int
	Sum, Mean, StdDev float64
	Min, Max          float64
	ArgMax            [3]int
}

// Summarize computes the Summary of g. An empty grid gives a zero Summary.
func Summarize(g *usrbin.Grid) Summary {
	x := float64s(g)
	if len(x) == 0 {
		return Summary{}
	}

	s := Summary{N: len(x), Sum: floats.Sum(x)}
	s.Mean, s.StdDev = stat.PopMeanStdDev(x, nil)
	s.Min, s.Max = floats.Min(x), floats.Max(x)

	idx := floats.MaxIdx(x)
	shape := g.Shape()
	s.ArgMax = [3]int{
		idx % shape[0],
		(idx / shape[0]) % shape[1],
		idx / (shape[0] * shape[1]),
	}

	return s
}

// Project sums g along axis. The rows and columns of the result run over
// the two remaining axes, in order: projecting along y gives an nx x nz
// matrix.
func Project(g *usrbin.Grid, axis int) (*mat.Dense, error) {
	if err := checkAxis(g, axis); err != nil {
		return nil, err
	}
	shape := g.Shape()
	rowAxis, colAxis := otherAxes(axis)

	m := mat.NewDense(shape[rowAxis], shape[colAxis], nil)
	for k := 0; k < shape[2]; k++ {
		for j := 0; j < shape[1]; j++ {
			for i := 0; i < shape[0]; i++ {
				idx := [3]int{i, j, k}
				r, c := idx[rowAxis], idx[colAxis]
				m.Set(r, c, m.At(r, c)+float64(g.At(i, j, k)))
			}
		}
	}

	return m, nil
}

// Profile sums g over every axis except axis.
func Profile(g *usrbin.Grid, axis int) ([]float64, error) {
	if err := checkAxis(g, axis); err != nil {
		return nil, err
	}
	shape := g.Shape()

	out := make([]float64, shape[axis])
	for k := 0; k < shape[2]; k++ {
		for j := 0; j < shape[1]; j++ {
			for i := 0; i < shape[0]; i++ {
				idx := [3]int{i, j, k}
				out[idx[axis]] += float64(g.At(i, j, k))
			}
		}
	}

	return out, nil
}

func checkAxis(g *usrbin.Grid, axis int) error {
	if axis < 0 || axis > 2 {
		return fmt.Errorf("axis %d does not exist", axis)
	}
	if g.Len() == 0 {
		return fmt.Errorf("the grid has shape %v and is empty", g.Shape())
	}
	return nil
}

func otherAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	}
	return 0, 1
}

func float64s(g *usrbin.Grid) []float64 {
	flat := g.Flat()
	x := make([]float64, len(flat))
	for i := range x {
		x[i] = float64(flat[i])
	}
	return x
}
