package usrbin

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/usrbin/lib/compress"
	"github.com/phil-mansfield/usrbin/lib/fortran"
)

const (
	statisticsTag = "STATISTICS"
	// statisticsWindow is the number of bytes needed to recognize the
	// statistics record: its opening control word and its tag.
	statisticsWindow = fortran.MarkerSize + len(statisticsTag)
	// statisticsRecordSize is the payload length of the statistics record:
	// the tag followed by an int32.
	statisticsRecordSize = len(statisticsTag) + 4
)

// state is a position in the file's record structure. The cursor position
// alone determines the next state.
type state int

const (
	expectDetectorHeader state = iota
	expectStatisticsOrNextHeader
	readingErrors
	done
)

func (s state) String() string {
	switch s {
	case expectDetectorHeader:
		return "expectDetectorHeader"
	case expectStatisticsOrNextHeader:
		return "expectStatisticsOrNextHeader"
	case readingErrors:
		return "readingErrors"
	case done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// trailer is what the bytes following a detector's data turned out to be.
type trailer int

const (
	// trailerShort means the file ends before a full window could be read.
	trailerShort trailer = iota
	// trailerStatistics means the statistics section starts here.
	trailerStatistics
	// trailerNextHeader means anything else, which is taken to be the next
	// detector's header.
	trailerNextHeader
)

// classifyTrailer decides what a statisticsWindow-byte window is. Windows
// whose tag bytes aren't ASCII are simply not the statistics tag.
func classifyTrailer(window []byte) trailer {
	if len(window) < statisticsWindow {
		return trailerShort
	}
	tag := window[len(window)-len(statisticsTag):]
	for _, c := range tag {
		if c > 0x7f {
			return trailerNextHeader
		}
	}
	if string(tag) == statisticsTag {
		return trailerStatistics
	}
	return trailerNextHeader
}

// Reader decodes a USRBIN dataset from a seekable stream.
type Reader struct {
	rs   io.ReadSeeker
	opts *options
	log  *logrus.Entry
}

// NewReader creates a Reader for rs. The stream must be uncompressed; use
// compress.Open (or ReadDataset) for compressed files.
func NewReader(rs io.ReadSeeker, opts ...Option) *Reader {
	o := newOptions(opts)
	return &Reader{
		rs:   rs,
		opts: o,
		log:  o.logger.WithField("pkg", "usrbin"),
	}
}

// ReadDataset reads a whole USRBIN file. Compressed files are recognized and
// decompressed automatically. The file is always closed before returning.
func ReadDataset(path string, opts ...Option) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	rs, codec, err := compress.Open(f)
	if err != nil {
		if codec == compress.None {
			return nil, errors.Wrapf(err, "the file %s could not be read", path)
		}
		return nil, errors.Wrapf(err, "the %s-compressed file %s could not "+
			"be decompressed", codec, path)
	}

	ds, err := NewReader(rs, opts...).ReadDataset()
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return ds, nil
}

// ReadDataset reads the summary and every detector, attaching error grids if
// the stream has a statistics section. No partial dataset is returned on
// error.
func (r *Reader) ReadDataset() (*Dataset, error) {
	order := r.opts.order
	if r.opts.detectOrder {
		var err error
		if order, err = DetectByteOrder(r.rs); err != nil {
			return nil, err
		}
	}
	rd := fortran.NewReader(r.rs, order)

	summary, err := r.readSummary(rd)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Summary: summary}

	for st := expectDetectorHeader; st != done; {
		next, err := r.step(rd, st, ds)
		if err != nil {
			return nil, err
		}
		r.log.Debugf("%s -> %s", st, next)
		st = next
	}

	return ds, nil
}

// step performs the work of one state and returns the next one.
func (r *Reader) step(rd *fortran.Reader, st state, ds *Dataset) (state, error) {
	switch st {
	case expectDetectorHeader:
		d, err := r.readDetector(rd, ds)
		if err != nil {
			return done, err
		}
		ds.Detectors = append(ds.Detectors, d)
		return expectStatisticsOrNextHeader, nil

	case expectStatisticsOrNextHeader:
		window, err := rd.Peek(statisticsWindow)
		if err != nil {
			return done, sectionError(rd, "statistics section", err)
		}

		switch classifyTrailer(window) {
		case trailerShort:
			return done, nil
		case trailerStatistics:
			if err := r.checkMarker("statistics section",
				int32(rd.ByteOrder().Uint32(window)),
				statisticsRecordSize); err != nil {
				return done, err
			}
			if err := rd.Discard(int64(statisticsWindow)); err != nil {
				return done, sectionError(rd, "statistics section", err)
			}
			ds.HasStatistics = true
			return readingErrors, nil
		default:
			return expectDetectorHeader, nil
		}

	case readingErrors:
		if err := r.readErrors(rd, ds); err != nil {
			return done, err
		}
		return done, nil
	}

	return done, fmt.Errorf("Internal error: the USRBIN reader reached "+
		"the unknown state %s", st)
}

func (r *Reader) readSummary(rd *fortran.Reader) (*SummaryHeader, error) {
	const section = "summary header"

	if err := r.marker(rd, section, summaryHeaderSize); err != nil {
		return nil, sectionError(rd, section, err)
	}
	hd, err := decodeSummaryHeader(rd)
	if err != nil {
		return nil, sectionError(rd, section, err)
	}
	if err := r.marker(rd, section, summaryHeaderSize); err != nil {
		return nil, sectionError(rd, section, err)
	}

	r.log.Debugf("Read summary '%s' with %d primaries.",
		hd.Title, hd.TotalPrimaries())
	return hd, nil
}

func (r *Reader) readDetector(
	rd *fortran.Reader, ds *Dataset,
) (*Detector, error) {
	i := len(ds.Detectors)
	section := fmt.Sprintf("header of detector %d", i)

	if err := r.marker(rd, section, detectorHeaderSize); err != nil {
		return nil, sectionError(rd, section, err)
	}
	hd, err := decodeDetectorHeader(rd)
	if err != nil {
		return nil, sectionError(rd, section, err)
	}
	if err := r.marker(rd, section, detectorHeaderSize); err != nil {
		return nil, sectionError(rd, section, err)
	}
	if err := hd.validate(section); err != nil {
		return nil, err
	}

	section = fmt.Sprintf("data grid of detector %d ('%s')", i, hd.Name)
	data, err := r.readGridRecord(rd, section, hd.Shape())
	if err != nil {
		return nil, err
	}

	r.log.Debugf("Read detector %d ('%s') with shape %v.",
		i, hd.Name, hd.Shape())
	return &Detector{Summary: ds.Summary, Header: *hd, Data: data}, nil
}

// readErrors reads the rest of the statistics record and then one error grid
// per detector, in the order the detectors were read.
func (r *Reader) readErrors(rd *fortran.Reader, ds *Dataset) error {
	const section = "statistics section"

	var flag int32
	if err := rd.Read(&flag); err != nil {
		return sectionError(rd, section, err)
	}
	if err := r.marker(rd, section, statisticsRecordSize); err != nil {
		return sectionError(rd, section, err)
	}
	r.log.Debugf("Statistics section flag is %d.", flag)

	for i, d := range ds.Detectors {
		section := fmt.Sprintf("error grid of detector %d ('%s')",
			i, d.Header.Name)
		g, err := r.readGridRecord(rd, section, d.Header.Shape())
		if err != nil {
			return err
		}
		d.Error = g
	}
	return nil
}

// readGridRecord reads a complete grid record. The length of the payload is
// checked against the rest of the stream before anything is allocated.
func (r *Reader) readGridRecord(
	rd *fortran.Reader, section string, shape [3]int,
) (*Grid, error) {
	n := 4 * shape[0] * shape[1] * shape[2]

	if err := r.marker(rd, section, n); err != nil {
		return nil, sectionError(rd, section, err)
	}

	rem, err := rd.Remaining()
	if err != nil {
		return nil, sectionError(rd, section, err)
	}
	if rem < int64(n) {
		pos, _ := rd.Pos()
		return nil, &TruncatedFileError{Section: section, Offset: pos + rem,
			Err: errors.Wrapf(fortran.ErrTruncated, "%d of %d bytes present",
				rem, n)}
	}

	g, err := decodeGrid(rd, shape)
	if err != nil {
		return nil, sectionError(rd, section, err)
	}
	if err := r.marker(rd, section, n); err != nil {
		return nil, sectionError(rd, section, err)
	}
	return g, nil
}

// marker consumes a control word, checking it against the payload length
// if the Reader's Strictness asks for that.
func (r *Reader) marker(rd *fortran.Reader, section string, want int) error {
	if r.opts.strictness == Lenient {
		return rd.SkipMarker()
	}
	got, err := rd.ReadMarker()
	if err != nil {
		return err
	}
	return r.checkMarker(section, got, want)
}

func (r *Reader) checkMarker(section string, got int32, want int) error {
	if r.opts.strictness == Lenient || int(got) == want {
		return nil
	}
	if r.opts.strictness == FailOnMismatch {
		return &MarkerError{Section: section, Got: int(got), Want: want}
	}
	r.log.Warnf("The %s has a control word of %d, but its payload is %d "+
		"bytes long.", section, got, want)
	return nil
}
