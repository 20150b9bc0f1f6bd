package usrbin

import (
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"

	"github.com/phil-mansfield/usrbin/lib/fortran"
)

// SystemByteOrder returns the byte order of the machine the code is running
// on. FLUKA writes numbers in this order, so it's the right choice for files
// produced on the same kind of machine.
func SystemByteOrder() binary.ByteOrder {
	b := [2]byte{}
	*(*uint16)(unsafe.Pointer(&b[0])) = uint16(0x0001)
	if b[0] == 0 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// DetectByteOrder works out the byte order of a USRBIN file from its first
// control word, which always holds the length of the summary header. The
// cursor of rs is left where it was.
func DetectByteOrder(rs io.ReadSeeker) (binary.ByteOrder, error) {
	rd := fortran.NewReader(rs, binary.LittleEndian)
	b, err := rd.Peek(fortran.MarkerSize)
	if err != nil {
		return nil, err
	}
	if len(b) < fortran.MarkerSize {
		pos, _ := rd.Pos()
		return nil, &TruncatedFileError{Section: "summary header",
			Offset: pos + int64(len(b)), Err: fortran.ErrTruncated}
	}

	switch {
	case binary.LittleEndian.Uint32(b) == summaryHeaderSize:
		return binary.LittleEndian, nil
	case binary.BigEndian.Uint32(b) == summaryHeaderSize:
		return binary.BigEndian, nil
	}
	return nil, &MalformedHeaderError{"summary header", fmt.Sprintf(
		"the first control word is % x, which is %d in neither byte order",
		b, summaryHeaderSize)}
}
