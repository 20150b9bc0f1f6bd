package compress

import (
	"bytes"
	"io"
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func testBytes(n int) []byte {
	rng := rand.New(rand.NewSource(7))
	b := make([]byte, n)
	for i := range b {
		// Low entropy so compression actually has something to do.
		b[i] = byte(rng.Intn(4))
	}
	return b
}

func TestCompressRoundTrip(t *testing.T) {
	b := testBytes(1 << 14)

	for _, c := range []Codec{None, Zstd, XZ} {
		cb, err := Compress(c, DefaultLevel, b)
		require.NoError(t, err, c.String())

		if got := Detect(cb); got != c {
			t.Errorf("Expected Detect() to find %s, got %s.", c, got)
		}

		out, err := Decompress(c, cb)
		require.NoError(t, err, c.String())
		if !bytes.Equal(out, b) {
			t.Errorf("%s round trip changed the data.", c)
		}
	}
}

func TestOpen(t *testing.T) {
	b := testBytes(1000)

	for _, c := range []Codec{None, Zstd, XZ} {
		cb, err := Compress(c, DefaultLevel, b)
		require.NoError(t, err)

		src := bytes.NewReader(cb)
		rs, codec, err := Open(src)
		require.NoError(t, err)
		if codec != c {
			t.Errorf("Expected Open() to detect %s, got %s.", c, codec)
		}

		out, err := ioutil.ReadAll(rs)
		require.NoError(t, err)
		if !bytes.Equal(out, b) {
			t.Errorf("Reading through Open() changed %s data.", c)
		}
	}
}

func TestOpenUncompressedKeepsReader(t *testing.T) {
	src := bytes.NewReader([]byte{0x80, 0, 0, 0, 'h', 'i'})
	_, err := src.Seek(1, io.SeekStart)
	require.NoError(t, err)

	rs, codec, err := Open(src)
	require.NoError(t, err)
	if codec != None {
		t.Errorf("Expected no codec, got %s.", codec)
	}
	if rs != io.ReadSeeker(src) {
		t.Errorf("Expected Open() to hand back the original reader.")
	}
	pos, err := src.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	if pos != 1 {
		t.Errorf("Expected Open() to leave the cursor at 1, got %d.", pos)
	}
}

func TestOpenShortInput(t *testing.T) {
	rs, codec, err := Open(bytes.NewReader([]byte{0x28, 0xb5}))
	require.NoError(t, err)
	require.Equal(t, None, codec)
	require.NotNil(t, rs)
}

func TestUnknownCodec(t *testing.T) {
	if _, err := Compress(Codec(99), 0, nil); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("Expected ErrUnknownCodec from Compress, got %v.", err)
	}
	if _, err := Decompress(Codec(99), nil); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("Expected ErrUnknownCodec from Decompress, got %v.", err)
	}
	if s := Codec(99).String(); s != "Codec(99)" {
		t.Errorf("Expected Codec(99), got %s.", s)
	}
}
