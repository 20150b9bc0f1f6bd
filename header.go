package usrbin

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/usrbin/lib/fortran"
)

const (
	// PrimariesPerCase is the number of primary histories represented by one
	// unit of SummaryHeader.MCase.
	PrimariesPerCase = 1000000000
	// MaxCells is the largest number of bins a detector can have: the data
	// record's length in bytes must fit in a 32-bit control word.
	MaxCells = (1<<31 - 1) / 4

	titleLen = 80
	timeLen  = 32
	nameLen  = 10

	summaryHeaderSize  = titleLen + timeLen + 4*4
	detectorHeaderSize = 4 + nameLen + 2*4 + 3*axisSize + 4*4
	axisSize           = 4 * 4
)

// SummaryHeader is the run summary written once at the start of every file.
// Every detector read from the same file points at the same SummaryHeader.
type SummaryHeader struct {
	Title string // Run title, at most 80 characters
	Time  string // Time stamp of the run, at most 32 characters

	Weight    float32 // Total statistical weight of the primaries
	Primaries int32   // Primary histories, modulo PrimariesPerCase
	MCase     int32   // Number of times Primaries wrapped around
	NBatch    int32   // Number of batches (spill) in the run
}

// TotalPrimaries returns the number of primary histories in the run. It
// needs 64 bits: FLUKA splits the count into MCase*PrimariesPerCase plus a
// remainder because it doesn't fit in the 32-bit Primaries field.
func (hd *SummaryHeader) TotalPrimaries() int64 {
	return int64(hd.Primaries) + int64(hd.MCase)*PrimariesPerCase
}

// Axis describes one axis of a detector's grid.
type Axis struct {
	Lo, Hi float32 // Bounds of the axis
	N      int32   // Number of bins
	Width  float32 // Width of each bin
}

// DetectorHeader describes the identity and geometry of one detector. Axes
// are in the order X (or R), Y (or Phi), Z.
type DetectorHeader struct {
	Index int32  // Detector number assigned by FLUKA
	Name  string // At most 10 characters

	BinType      int32 // Mesh type code (Cartesian, cylindrical, ...)
	ParticleType int32 // Code of the scored particle or quantity

	Axes [3]Axis

	Lntzer       float32 // Threshold flag for logarithmic binning
	Birk1, Birk2 float32 // Birks' law quenching coefficients
	TimeCutoff   float32
}

// Shape returns (nx, ny, nz).
func (hd *DetectorHeader) Shape() [3]int {
	return [3]int{int(hd.Axes[0].N), int(hd.Axes[1].N), int(hd.Axes[2].N)}
}

// BinWidths returns (dx, dy, dz).
func (hd *DetectorHeader) BinWidths() [3]float32 {
	return [3]float32{hd.Axes[0].Width, hd.Axes[1].Width, hd.Axes[2].Width}
}

// Cells returns the total number of bins, nx*ny*nz.
func (hd *DetectorHeader) Cells() int {
	shape := hd.Shape()
	return shape[0] * shape[1] * shape[2]
}

// validate checks that the bin counts describe a grid that can actually be
// stored.
func (hd *DetectorHeader) validate(section string) error {
	cells := int64(1)
	for dim, ax := range hd.Axes {
		if ax.N < 1 {
			return &MalformedHeaderError{section, fmt.Sprintf(
				"axis %d has %d bins", dim, ax.N)}
		}
		cells *= int64(ax.N)
		if cells > MaxCells {
			return &MalformedHeaderError{section, fmt.Sprintf(
				"the grid has more than %d bins", MaxCells)}
		}
	}
	return nil
}

// rawSummaryHeader has the same layout as the summary record's payload.
type rawSummaryHeader struct {
	Title  [titleLen]byte
	Time   [timeLen]byte
	Weight float32
	Prime  int32
	MCase  int32
	NBatch int32
}

// rawAxis has the same layout as one axis of a detector header.
type rawAxis struct {
	Lo, Hi float32
	N      int32
	Width  float32
}

// rawDetectorHeader has the same layout as the detector header record's
// payload.
type rawDetectorHeader struct {
	Index        int32
	Name         [nameLen]byte
	BinType      int32
	ParticleType int32
	Axes         [3]rawAxis
	Lntzer       float32
	Birk1, Birk2 float32
	TimeCutoff   float32
}

func decodeSummaryHeader(rd *fortran.Reader) (*SummaryHeader, error) {
	raw := &rawSummaryHeader{}
	if err := rd.Read(raw); err != nil {
		return nil, err
	}
	return &SummaryHeader{
		Title:     fixedString(raw.Title[:]),
		Time:      fixedString(raw.Time[:]),
		Weight:    raw.Weight,
		Primaries: raw.Prime,
		MCase:     raw.MCase,
		NBatch:    raw.NBatch,
	}, nil
}

func encodeSummaryHeader(hd *SummaryHeader) *rawSummaryHeader {
	raw := &rawSummaryHeader{
		Weight: hd.Weight,
		Prime:  hd.Primaries,
		MCase:  hd.MCase,
		NBatch: hd.NBatch,
	}
	putFixedString(raw.Title[:], hd.Title)
	putFixedString(raw.Time[:], hd.Time)
	return raw
}

func decodeDetectorHeader(rd *fortran.Reader) (*DetectorHeader, error) {
	raw := &rawDetectorHeader{}
	if err := rd.Read(raw); err != nil {
		return nil, err
	}

	hd := &DetectorHeader{
		Index:        raw.Index,
		Name:         fixedString(raw.Name[:]),
		BinType:      raw.BinType,
		ParticleType: raw.ParticleType,
		Lntzer:       raw.Lntzer,
		Birk1:        raw.Birk1,
		Birk2:        raw.Birk2,
		TimeCutoff:   raw.TimeCutoff,
	}
	for dim := range raw.Axes {
		hd.Axes[dim] = Axis(raw.Axes[dim])
	}
	return hd, nil
}

func encodeDetectorHeader(hd *DetectorHeader) *rawDetectorHeader {
	raw := &rawDetectorHeader{
		Index:        hd.Index,
		BinType:      hd.BinType,
		ParticleType: hd.ParticleType,
		Lntzer:       hd.Lntzer,
		Birk1:        hd.Birk1,
		Birk2:        hd.Birk2,
		TimeCutoff:   hd.TimeCutoff,
	}
	putFixedString(raw.Name[:], hd.Name)
	for dim := range hd.Axes {
		raw.Axes[dim] = rawAxis(hd.Axes[dim])
	}
	return raw
}

// fixedString converts a fixed-width text field to a string, dropping the
// spaces and NULs Fortran pads it with.
func fixedString(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// putFixedString left-justifies s in dst, pads it with spaces, and cuts off
// anything that doesn't fit. Non-ASCII characters become '?'.
func putFixedString(dst []byte, s string) {
	for i := range dst {
		dst[i] = ' '
	}
	i := 0
	for _, c := range s {
		if i >= len(dst) {
			break
		}
		if c > 0x7f {
			c = '?'
		}
		dst[i] = byte(c)
		i++
	}
}
