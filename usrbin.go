/*package usrbin reads and writes the binary files produced by FLUKA's USRBIN
scoring card: binned tallies of some scored quantity over a 3D (or
projected 2D/1D) mesh, optionally followed by a statistical-error tally of
the same shape for every detector.

A file is a Fortran sequential unformatted stream. It looks like this, with
every record bracketed by 4-byte control words:

   summary header                    (128 bytes, once per file)
   detector header                   (86 bytes)  \  repeated once per
   detector data                     (4*nx*ny*nz) /  detector
   "STATISTICS" record               (14 bytes, optional)
   error data, one per detector      (4*nx*ny*nz)

Grid values are float32s with the first axis varying fastest. The codec
doesn't interpret the values in any way.

Files are read with ReadDataset and written with WriteDetector. Both handle
whole-file zstd and xz compression (see lib/compress).
*/
package usrbin

import (
	"fmt"

	"github.com/phil-mansfield/usrbin/lib/format"
)

// Detector is one scored quantity over one grid. Error is nil unless the
// file had a statistics section.
type Detector struct {
	Summary *SummaryHeader
	Header  DetectorHeader
	Data    *Grid
	Error   *Grid
}

// Dataset is every detector in a file, in the order they were stored.
type Dataset struct {
	Summary   *SummaryHeader
	Detectors []*Detector
	// HasStatistics is true if the file ended with a statistics section, in
	// which case every detector has an Error grid.
	HasStatistics bool
}

// Len returns the number of detectors.
func (ds *Dataset) Len() int { return len(ds.Detectors) }

// Find returns the first detector with the given name, or nil.
func (ds *Dataset) Find(name string) *Detector {
	for _, d := range ds.Detectors {
		if d.Header.Name == name {
			return d
		}
	}
	return nil
}

// Select returns the detectors whose positions in the dataset are given by
// a sequence format string, e.g. "0..3 - 2" (see lib/format). Detectors are
// returned in dataset order.
func (ds *Dataset) Select(seq string) ([]*Detector, error) {
	idx, err := format.ExpandSequenceFormat(seq)
	if err != nil {
		return nil, fmt.Errorf("the detector selection '%s' is not valid: %s",
			seq, err.Error())
	}

	out := make([]*Detector, len(idx))
	for i, n := range idx {
		if n < 0 || n >= len(ds.Detectors) {
			return nil, fmt.Errorf("the detector selection '%s' includes %d, "+
				"but the dataset only has %d detectors", seq, n,
				len(ds.Detectors))
		}
		out[i] = ds.Detectors[n]
	}
	return out, nil
}
