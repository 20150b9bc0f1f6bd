package usrbin

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/usrbin/lib/compress"
	"github.com/phil-mansfield/usrbin/lib/fortran"
)

// rawStatistics has the same layout as the statistics record's payload.
type rawStatistics struct {
	Tag  [len(statisticsTag)]byte
	Flag int32
}

// Writer encodes detectors to a stream. Every control word is computed from
// the length of the payload it brackets, so grids of any size produce valid
// files.
type Writer struct {
	wr   *fortran.Writer
	opts *options
	log  *logrus.Entry
}

// NewWriter creates a Writer for w. Compression options are ignored; use
// WriteDetector to write compressed files.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	o := newOptions(opts)
	return &Writer{
		wr:   fortran.NewWriter(w, o.order),
		opts: o,
		log:  o.logger.WithField("pkg", "usrbin"),
	}
}

// WriteDetector writes a single detector, preceded by its summary header and
// followed by a statistics section if d.Error is non-nil. A USRBIN file
// written this way holds exactly one detector.
func WriteDetector(d *Detector, path string, opts ...Option) (err error) {
	o := newOptions(opts)

	// Encode first so a bad detector doesn't leave a truncated file behind.
	buf := &bytes.Buffer{}
	if err := NewWriter(buf, opts...).WriteDetector(d); err != nil {
		return errors.WithMessage(err, path)
	}
	b, err := compress.Compress(o.codec, o.level, buf.Bytes())
	if err != nil {
		return errors.WithMessage(err, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return &OpenError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "the file %s could not be closed", path)
		}
	}()

	bw := bufio.NewWriter(f)
	if _, err := bw.Write(b); err != nil {
		return errors.Wrapf(err, "the file %s could not be written", path)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "the file %s could not be written", path)
	}
	return nil
}

// WriteDataset writes a dataset holding exactly one detector. Writing more
// than one detector per file isn't supported and returns
// ErrMultipleDetectors without touching the file system.
func WriteDataset(ds *Dataset, path string, opts ...Option) error {
	switch {
	case ds == nil || len(ds.Detectors) == 0:
		return ErrEmptyDataset
	case len(ds.Detectors) > 1:
		return errors.Wrapf(ErrMultipleDetectors, "%s would hold %d detectors",
			path, len(ds.Detectors))
	}
	return WriteDetector(ds.Detectors[0], path, opts...)
}

// WriteDetector writes d's summary header, detector header, data grid and,
// if d.Error is non-nil, a statistics section holding the error grid.
func (w *Writer) WriteDetector(d *Detector) error {
	if err := checkDetector(d); err != nil {
		return err
	}

	if err := w.wr.WriteRecord(encodeSummaryHeader(d.Summary)); err != nil {
		return errors.Wrap(err, "writing the summary header")
	}
	if err := w.wr.WriteRecord(encodeDetectorHeader(&d.Header)); err != nil {
		return errors.Wrap(err, "writing the detector header")
	}
	if err := encodeGrid(w.wr, d.Data); err != nil {
		return errors.Wrap(err, "writing the data grid")
	}

	if d.Error != nil {
		stats := &rawStatistics{Flag: 1}
		copy(stats.Tag[:], statisticsTag)
		if err := w.wr.WriteRecord(stats); err != nil {
			return errors.Wrap(err, "writing the statistics section")
		}
		if err := encodeGrid(w.wr, d.Error); err != nil {
			return errors.Wrap(err, "writing the error grid")
		}
	}

	w.log.Debugf("Wrote detector '%s' (%d bytes so far).",
		d.Header.Name, w.wr.Written())
	return nil
}

// checkDetector makes sure d can be written and read back as the same
// detector.
func checkDetector(d *Detector) error {
	switch {
	case d == nil:
		return errors.New("cannot write a nil detector")
	case d.Summary == nil:
		return errors.New("the detector has no summary header")
	case d.Data == nil:
		return errors.New("the detector has no data grid")
	}

	if err := d.Header.validate("detector header"); err != nil {
		return err
	}
	want := d.Header.Shape()
	if d.Data.Shape() != want {
		return &ShapeError{Grid: "data", Got: d.Data.Shape(), Want: want}
	}
	if d.Error != nil && d.Error.Shape() != want {
		return &ShapeError{Grid: "error", Got: d.Error.Shape(), Want: want}
	}
	return nil
}
