package usrbin

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/usrbin/lib/eq"
	"github.com/phil-mansfield/usrbin/lib/fortran"
)

func TestDecodeGridFirstAxisFastest(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian,
		[]float32{1, 2}))

	rd := fortran.NewReader(bytes.NewReader(buf.Bytes()), binary.LittleEndian)
	g, err := decodeGrid(rd, [3]int{2, 1, 1})
	require.NoError(t, err)

	if x := g.At(0, 0, 0); x != 1 {
		t.Errorf("Expected grid[0, 0, 0] = 1, got %g.", x)
	}
	if x := g.At(1, 0, 0); x != 2 {
		t.Errorf("Expected grid[1, 0, 0] = 2, got %g.", x)
	}
}

func TestGridIndexing(t *testing.T) {
	shape := [3]int{2, 3, 4}
	flat := make([]float32, 24)
	for i := range flat {
		flat[i] = float32(i)
	}
	g, err := NewGridFromFlat(shape, flat)
	require.NoError(t, err)

	for k := 0; k < shape[2]; k++ {
		for j := 0; j < shape[1]; j++ {
			for i := 0; i < shape[0]; i++ {
				want := float32(i + 2*(j+3*k))
				if x := g.At(i, j, k); x != want {
					t.Errorf("Expected grid[%d, %d, %d] = %g, got %g.",
						i, j, k, want, x)
				}
			}
		}
	}

	a := g.Array()
	if len(a) != 2 || len(a[0]) != 3 || len(a[0][0]) != 4 {
		t.Fatalf("Expected Array() to have shape [2 3 4], got [%d %d %d].",
			len(a), len(a[0]), len(a[0][0]))
	}
	if a[1][2][3] != 23 || a[1][0][0] != 1 || a[0][0][1] != 6 {
		t.Errorf("Array() is not indexed as a[i][j][k].")
	}

	g2, err := NewGridFromArray(a)
	require.NoError(t, err)
	if g2.Shape() != shape {
		t.Errorf("Expected shape %v, got %v.", shape, g2.Shape())
	}
	if !eq.Float32s(g2.Flat(), flat) {
		t.Errorf("Expected %v, got %v.", flat, g2.Flat())
	}

	g.Set(1, 1, 1, -1)
	if flat[1+2*(1+3*1)] != -1 {
		t.Errorf("Set() wrote to the wrong element.")
	}
}

func TestGridCopy(t *testing.T) {
	g := NewGrid([3]int{3, 1, 2})
	g.Set(2, 0, 1, 5)

	c := g.Copy()
	c.Set(2, 0, 1, 6)
	if g.At(2, 0, 1) != 5 {
		t.Errorf("Copy() shares memory with the original grid.")
	}
	if c.Shape() != g.Shape() || c.Len() != 6 {
		t.Errorf("Copy() has shape %v and length %d.", c.Shape(), c.Len())
	}
}

func TestNewGridErrors(t *testing.T) {
	tests := []struct {
		shape [3]int
		n     int
		valid bool
	}{
		{[3]int{2, 2, 2}, 8, true},
		{[3]int{2, 2, 2}, 7, false},
		{[3]int{1, 1, 1}, 0, false},
		{[3]int{0, 5, 5}, 0, true},
		{[3]int{-1, 1, 1}, 0, false},
	}

	for i := range tests {
		_, err := NewGridFromFlat(tests[i].shape, make([]float32, tests[i].n))
		if tests[i].valid && err != nil {
			t.Errorf("%d) Unexpected error: %s", i, err.Error())
		} else if !tests[i].valid && err == nil {
			t.Errorf("%d) Expected shape %v with %d values to fail.",
				i, tests[i].shape, tests[i].n)
		}
	}

	ragged := [][][]float32{{{1, 2}, {3, 4}}, {{5, 6}, {7}}}
	if _, err := NewGridFromArray(ragged); err == nil {
		t.Errorf("Expected a ragged array to fail.")
	}

	g, err := NewGridFromArray(nil)
	require.NoError(t, err)
	if diff := cmp.Diff([3]int{}, g.Shape()); diff != "" {
		t.Errorf("Empty array gave the wrong shape:\n%s", diff)
	}
}
