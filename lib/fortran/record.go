/*package fortran reads and writes the record framing used by Fortran
sequential unformatted files. Every logical record in such a file is
bracketed by a pair of 4-byte control words which normally hold the length
of the payload in bytes:

   [n int32] [n bytes of payload] [n int32]

Reader and Writer only deal with this framing and with fixed-size values.
They know nothing about what the payloads mean.
*/
package fortran

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// MarkerSize is the width of a control word in bytes.
const MarkerSize = 4

var (
	// ErrTruncated is returned (wrapped) whenever a mandatory read runs out
	// of bytes before it is finished.
	ErrTruncated = errors.New("unexpected end of file")
	// ErrRecordTooLarge is returned when a payload is too long to be
	// described by a 32-bit control word.
	ErrRecordTooLarge = errors.New("record payload does not fit in a 32-bit control word")
)

// Reader reads framed records from a seekable stream. The stream position is
// the only state a Reader has: every method leaves the cursor exactly after
// the bytes it consumed, and Peek leaves it exactly where it started.
type Reader struct {
	rs    io.ReadSeeker
	order binary.ByteOrder
}

// NewReader creates a Reader which decodes numbers with the given byte order.
func NewReader(rs io.ReadSeeker, order binary.ByteOrder) *Reader {
	return &Reader{rs: rs, order: order}
}

// ByteOrder returns the byte order used to decode values.
func (rd *Reader) ByteOrder() binary.ByteOrder { return rd.order }

// Pos returns the current offset of the cursor from the start of the stream.
func (rd *Reader) Pos() (int64, error) {
	return rd.rs.Seek(0, io.SeekCurrent)
}

// Remaining returns the number of bytes between the cursor and the end of
// the stream. The cursor is not moved.
func (rd *Reader) Remaining() (int64, error) {
	pos, err := rd.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := rd.rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err = rd.rs.Seek(pos, io.SeekStart); err != nil {
		return 0, err
	}
	return end - pos, nil
}

// SkipMarker consumes one control word without interpreting it.
func (rd *Reader) SkipMarker() error {
	return rd.Discard(MarkerSize)
}

// ReadMarker consumes one control word and returns its value.
func (rd *Reader) ReadMarker() (int32, error) {
	var n int32
	err := rd.Read(&n)
	return n, err
}

// Read decodes a fixed-size value (see encoding/binary) from the stream.
func (rd *Reader) Read(v interface{}) error {
	return truncated(binary.Read(rd.rs, rd.order, v))
}

// ReadFloat32s fills dst with consecutive float32 values.
func (rd *Reader) ReadFloat32s(dst []float32) error {
	if len(dst) == 0 {
		return nil
	}
	return truncated(binary.Read(rd.rs, rd.order, dst))
}

// ReadBytes reads exactly n bytes.
func (rd *Reader) ReadBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rd.rs, b); err != nil {
		return nil, truncated(err)
	}
	return b, nil
}

// Discard consumes exactly n bytes. Unlike a seek, it fails if the stream
// ends first.
func (rd *Reader) Discard(n int64) error {
	m, err := io.CopyN(io.Discard, rd.rs, n)
	if err != nil {
		if m < n {
			return truncated(io.ErrUnexpectedEOF)
		}
		return err
	}
	return nil
}

// Peek returns up to n bytes starting at the cursor and then moves the cursor
// back to where it was, even if the read fails. Fewer than n bytes are
// returned only when the stream ends first; this is not an error.
func (rd *Reader) Peek(n int) ([]byte, error) {
	b := make([]byte, n)
	m, err := io.ReadFull(rd.rs, b)
	if rerr := rd.Rewind(int64(m)); rerr != nil {
		return nil, rerr
	}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return b[:m], nil
}

// Rewind moves the cursor n bytes towards the start of the stream.
func (rd *Reader) Rewind(n int64) error {
	if n == 0 {
		return nil
	}
	_, err := rd.rs.Seek(-n, io.SeekCurrent)
	return err
}

// truncated converts the end-of-file errors returned by short reads into
// ErrTruncated and leaves everything else alone.
func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrap(ErrTruncated, err.Error())
	}
	return err
}

// Writer writes framed records to a stream.
type Writer struct {
	w       io.Writer
	order   binary.ByteOrder
	written int64
}

// NewWriter creates a Writer which encodes numbers with the given byte order.
func NewWriter(w io.Writer, order binary.ByteOrder) *Writer {
	return &Writer{w: w, order: order}
}

// Written returns the number of bytes written so far.
func (wr *Writer) Written() int64 { return wr.written }

// WriteMarker writes the control word for a payload of payloadLen bytes.
func (wr *Writer) WriteMarker(payloadLen int) error {
	if payloadLen < 0 || int64(payloadLen) > math.MaxInt32 {
		return errors.Wrapf(ErrRecordTooLarge, "%d bytes", payloadLen)
	}
	return wr.Write(int32(payloadLen))
}

// Write encodes a fixed-size value without any framing.
func (wr *Writer) Write(v interface{}) error {
	n := binary.Size(v)
	if n < 0 {
		return errors.Errorf("cannot encode a value of type %T", v)
	}
	if err := binary.Write(wr.w, wr.order, v); err != nil {
		return err
	}
	wr.written += int64(n)
	return nil
}

// WriteRecord writes v as a complete record: the opening control word, the
// payload, and the closing control word. Both control words are computed
// from the encoded size of v.
func (wr *Writer) WriteRecord(v interface{}) error {
	n := binary.Size(v)
	if n < 0 {
		return errors.Errorf("cannot encode a value of type %T", v)
	}
	if err := wr.WriteMarker(n); err != nil {
		return err
	}
	if err := wr.Write(v); err != nil {
		return err
	}
	return wr.WriteMarker(n)
}
