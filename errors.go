package usrbin

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/phil-mansfield/usrbin/lib/fortran"
)

var (
	// ErrMultipleDetectors is returned when asked to write more than one
	// detector to a single file.
	ErrMultipleDetectors = errors.New("writing more than one detector to a " +
		"USRBIN file is not supported")
	// ErrEmptyDataset is returned when asked to write a dataset with no
	// detectors.
	ErrEmptyDataset = errors.New("the dataset contains no detectors")
)

// OpenError means that a file could not be opened or created.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("the file %s cannot be opened: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// TruncatedFileError means that a section of the file which must be present
// ended early. Offset is the position the reader had reached.
type TruncatedFileError struct {
	Section string
	Offset  int64
	Err     error
}

func (e *TruncatedFileError) Error() string {
	return fmt.Sprintf("the %s is truncated (stopped at byte %d)",
		e.Section, e.Offset)
}

func (e *TruncatedFileError) Unwrap() error { return e.Err }

// MalformedHeaderError means a header decoded cleanly but describes
// something impossible, like an axis with no bins.
type MalformedHeaderError struct {
	Section string
	Reason  string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("the %s is malformed: %s", e.Section, e.Reason)
}

// MarkerError means a record's control word doesn't match the length of the
// payload it should bracket. It's only reported by FailOnMismatch readers.
type MarkerError struct {
	Section   string
	Got, Want int
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("the %s has a control word of %d, but its payload "+
		"is %d bytes long", e.Section, e.Got, e.Want)
}

// ShapeError means a detector's grids don't agree with its header.
type ShapeError struct {
	Grid      string
	Got, Want [3]int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("the %s grid has shape %v, but the header describes "+
		"shape %v", e.Grid, e.Got, e.Want)
}

// sectionError attaches a section name to an error returned while reading
// that section. Short reads become a *TruncatedFileError.
func sectionError(rd *fortran.Reader, section string, err error) error {
	var (
		marker    *MarkerError
		malformed *MalformedHeaderError
		trunc     *TruncatedFileError
	)
	switch {
	case errors.As(err, &marker), errors.As(err, &malformed),
		errors.As(err, &trunc):
		return err
	case errors.Is(err, fortran.ErrTruncated):
		pos, _ := rd.Pos()
		return &TruncatedFileError{Section: section, Offset: pos, Err: err}
	}
	return errors.Wrapf(err, "reading the %s", section)
}
