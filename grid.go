package usrbin

import (
	"fmt"

	"github.com/phil-mansfield/usrbin/lib/fortran"
)

// Grid is a 3D array of float32 values stored in the same order FLUKA writes
// them: the first axis varies fastest, so element (i, j, k) lives at flat
// index i + nx*(j + ny*k). Getting this backwards transposes X and Z.
type Grid struct {
	shape [3]int
	data  []float32
}

// NewGrid allocates a zeroed grid with the given shape.
func NewGrid(shape [3]int) *Grid {
	if shape[0] < 0 || shape[1] < 0 || shape[2] < 0 {
		panic(fmt.Sprintf("Invalid grid shape %v.", shape))
	}
	return &Grid{shape: shape, data: make([]float32, shape[0]*shape[1]*shape[2])}
}

// NewGridFromFlat wraps flat, which must already be in first-axis-fastest
// order. The slice is not copied.
func NewGridFromFlat(shape [3]int, flat []float32) (*Grid, error) {
	if shape[0] < 0 || shape[1] < 0 || shape[2] < 0 {
		return nil, fmt.Errorf("invalid grid shape %v", shape)
	}
	if n := shape[0] * shape[1] * shape[2]; n != len(flat) {
		return nil, fmt.Errorf("a grid with shape %v needs %d values, "+
			"but %d were given", shape, n, len(flat))
	}
	return &Grid{shape: shape, data: flat}, nil
}

// NewGridFromArray copies a nested array indexed as a[i][j][k]. Every row
// must have the same length.
func NewGridFromArray(a [][][]float32) (*Grid, error) {
	shape := [3]int{len(a), 0, 0}
	if len(a) > 0 {
		shape[1] = len(a[0])
		if len(a[0]) > 0 {
			shape[2] = len(a[0][0])
		}
	}

	g := NewGrid(shape)
	for i := range a {
		if len(a[i]) != shape[1] {
			return nil, fmt.Errorf("a[%d] has length %d, but a[0] has "+
				"length %d", i, len(a[i]), shape[1])
		}
		for j := range a[i] {
			if len(a[i][j]) != shape[2] {
				return nil, fmt.Errorf("a[%d][%d] has length %d, but "+
					"a[0][0] has length %d", i, j, len(a[i][j]), shape[2])
			}
			for k := range a[i][j] {
				g.data[g.Index(i, j, k)] = a[i][j][k]
			}
		}
	}
	return g, nil
}

// Shape returns (nx, ny, nz).
func (g *Grid) Shape() [3]int { return g.shape }

// Len returns nx*ny*nz.
func (g *Grid) Len() int { return len(g.data) }

// Index returns the flat index of element (i, j, k).
func (g *Grid) Index(i, j, k int) int {
	return i + g.shape[0]*(j+g.shape[1]*k)
}

// At returns element (i, j, k).
func (g *Grid) At(i, j, k int) float32 { return g.data[g.Index(i, j, k)] }

// Set sets element (i, j, k).
func (g *Grid) Set(i, j, k int, x float32) { g.data[g.Index(i, j, k)] = x }

// Flat returns the underlying first-axis-fastest array. It is not a copy.
func (g *Grid) Flat() []float32 { return g.data }

// Array copies the grid into a nested array indexed as a[i][j][k].
func (g *Grid) Array() [][][]float32 {
	nx, ny, nz := g.shape[0], g.shape[1], g.shape[2]
	a := make([][][]float32, nx)
	for i := range a {
		a[i] = make([][]float32, ny)
		for j := range a[i] {
			a[i][j] = make([]float32, nz)
			for k := range a[i][j] {
				a[i][j][k] = g.At(i, j, k)
			}
		}
	}
	return a
}

// Copy returns a deep copy of the grid.
func (g *Grid) Copy() *Grid {
	data := make([]float32, len(g.data))
	copy(data, g.data)
	return &Grid{shape: g.shape, data: data}
}

// decodeGrid reads a grid's payload. The file stores values in exactly the
// order Grid does, so no reshuffling is needed.
func decodeGrid(rd *fortran.Reader, shape [3]int) (*Grid, error) {
	g := NewGrid(shape)
	if err := rd.ReadFloat32s(g.data); err != nil {
		return nil, err
	}
	return g, nil
}

// encodeGrid writes a grid as a complete record.
func encodeGrid(wr *fortran.Writer, g *Grid) error {
	return wr.WriteRecord(g.data)
}
