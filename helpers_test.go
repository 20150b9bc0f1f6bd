package usrbin

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/usrbin/lib/fortran"
)

func testSummary() *SummaryHeader {
	return &SummaryHeader{
		Title:     "Proton beam on a graphite target",
		Time:      "  18/10/26   12:34:56",
		Weight:    1.5e5,
		Primaries: 500,
		MCase:     3,
		NBatch:    4,
	}
}

// testDetector creates a detector with random data over a [-10, 10] box.
func testDetector(
	name string, index int32, shape [3]int, seed int64, withError bool,
) *Detector {
	rng := rand.New(rand.NewSource(seed))

	hd := DetectorHeader{
		Index:        index,
		Name:         name,
		BinType:      10,
		ParticleType: 208,
		Lntzer:       1,
		Birk1:        0.0126,
		Birk2:        -1e-6,
		TimeCutoff:   1e38,
	}
	for dim := range hd.Axes {
		hd.Axes[dim] = Axis{
			Lo: -10, Hi: 10, N: int32(shape[dim]),
			Width: 20 / float32(shape[dim]),
		}
	}

	d := &Detector{Summary: testSummary(), Header: hd, Data: NewGrid(shape)}
	for i := range d.Data.Flat() {
		d.Data.Flat()[i] = rng.Float32() * 1e-3
	}
	if withError {
		d.Error = NewGrid(shape)
		for i := range d.Error.Flat() {
			d.Error.Flat()[i] = rng.Float32()
		}
	}
	return d
}

// fakeFile lays out several detectors the way FLUKA does, which
// Writer.WriteDetector can't do since it only writes one.
func fakeFile(
	t *testing.T, order binary.ByteOrder, summary *SummaryHeader,
	dets []*Detector, withStatistics bool,
) []byte {
	buf := &bytes.Buffer{}
	wr := fortran.NewWriter(buf, order)

	require.NoError(t, wr.WriteRecord(encodeSummaryHeader(summary)))
	for _, d := range dets {
		require.NoError(t, wr.WriteRecord(encodeDetectorHeader(&d.Header)))
		require.NoError(t, encodeGrid(wr, d.Data))
	}

	if withStatistics {
		stats := &rawStatistics{Flag: 1}
		copy(stats.Tag[:], statisticsTag)
		require.NoError(t, wr.WriteRecord(stats))
		for _, d := range dets {
			require.NoError(t, encodeGrid(wr, d.Error))
		}
	}

	return buf.Bytes()
}
