/*package compress handles USRBIN files that have been compressed as a whole
after FLUKA wrote them. Two codecs are supported, zstd and xz, and both are
recognized by the magic number at the start of their frames, so readers
never need to be told which one (if any) was used.

Decompression materializes the whole file in memory. That's fine, since
the codec built on top of this package materializes the whole dataset
anyway, and it gives back a seekable reader.
*/
package compress

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/DataDog/zstd"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// Codec identifies a whole-file compression method.
type Codec int

const (
	// None means the file is stored as FLUKA wrote it.
	None Codec = iota
	Zstd
	XZ
)

const (
	// DefaultLevel is the zstd compression level used when none is given.
	// The xz codec ignores levels.
	DefaultLevel = zstd.DefaultCompression
	// magicLen is the length of the longest magic number.
	magicLen = 6
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

	// ErrUnknownCodec is returned when a Codec value isn't one of the
	// constants above.
	ErrUnknownCodec = errors.New("unknown compression codec")
)

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case XZ:
		return "xz"
	}
	return fmt.Sprintf("Codec(%d)", int(c))
}

// Detect returns the codec whose magic number starts prefix, or None if
// no codec matches.
func Detect(prefix []byte) Codec {
	switch {
	case bytes.HasPrefix(prefix, zstdMagic):
		return Zstd
	case bytes.HasPrefix(prefix, xzMagic):
		return XZ
	}
	return None
}

// Open sniffs the first bytes of rs. If they belong to a compressed frame,
// the rest of rs is decompressed into memory and a reader over the result is
// returned. Otherwise rs itself is returned, rewound to where it started.
func Open(rs io.ReadSeeker) (io.ReadSeeker, Codec, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, None, err
	}

	prefix := make([]byte, magicLen)
	n, err := io.ReadFull(rs, prefix)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, None, err
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, None, err
	}

	codec := Detect(prefix[:n])
	if codec == None {
		return rs, None, nil
	}

	b, err := ioutil.ReadAll(rs)
	if err != nil {
		return nil, codec, err
	}
	out, err := Decompress(codec, b)
	if err != nil {
		return nil, codec, err
	}
	return bytes.NewReader(out), codec, nil
}

// Compress compresses b with the given codec. level is only used by zstd.
func Compress(c Codec, level int, b []byte) ([]byte, error) {
	switch c {
	case None:
		return b, nil
	case Zstd:
		out, err := zstd.CompressLevel(nil, b, level)
		if err != nil {
			return nil, errors.Wrap(err, "zstd compression failed")
		}
		return out, nil
	case XZ:
		buf := &bytes.Buffer{}
		wr, err := xz.NewWriter(buf)
		if err != nil {
			return nil, errors.Wrap(err, "xz compression failed")
		}
		if _, err := wr.Write(b); err != nil {
			return nil, errors.Wrap(err, "xz compression failed")
		}
		if err := wr.Close(); err != nil {
			return nil, errors.Wrap(err, "xz compression failed")
		}
		return buf.Bytes(), nil
	}
	return nil, errors.Wrapf(ErrUnknownCodec, "%d", int(c))
}

// Decompress reverses Compress.
func Decompress(c Codec, b []byte) ([]byte, error) {
	switch c {
	case None:
		return b, nil
	case Zstd:
		out, err := zstd.Decompress(nil, b)
		if err != nil {
			return nil, errors.Wrap(err, "zstd decompression failed")
		}
		return out, nil
	case XZ:
		rd, err := xz.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, errors.Wrap(err, "xz decompression failed")
		}
		out, err := ioutil.ReadAll(rd)
		if err != nil {
			return nil, errors.Wrap(err, "xz decompression failed")
		}
		return out, nil
	}
	return nil, errors.Wrapf(ErrUnknownCodec, "%d", int(c))
}
