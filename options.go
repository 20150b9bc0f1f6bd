package usrbin

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/usrbin/lib/compress"
)

// Strictness controls what a Reader does when a record's control word
// doesn't match the length of its payload. FLUKA's own tools never look at
// control words, so Lenient is the default.
type Strictness int

const (
	// Lenient skips control words without reading them.
	Lenient Strictness = iota
	// WarnOnMismatch logs a warning for every bad control word.
	WarnOnMismatch
	// FailOnMismatch stops reading with a *MarkerError.
	FailOnMismatch
)

// Option configures a Reader or Writer.
type Option func(*options)

type options struct {
	order       binary.ByteOrder
	detectOrder bool
	strictness  Strictness
	logger      *logrus.Logger
	codec       compress.Codec
	level       int
}

func defaultOptions() *options {
	return &options{
		order:      binary.LittleEndian,
		strictness: Lenient,
		logger:     logrus.StandardLogger(),
		codec:      compress.None,
		level:      compress.DefaultLevel,
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithByteOrder sets the byte order of every number in the file. The default
// is little-endian, which is what FLUKA produces on x86 machines.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) {
		if order != nil {
			o.order = order
			o.detectOrder = false
		}
	}
}

// WithDetectedByteOrder makes readers work out the byte order from the first
// control word of the file (see DetectByteOrder). Writers ignore it.
func WithDetectedByteOrder() Option {
	return func(o *options) { o.detectOrder = true }
}

// WithStrictness sets how control words are checked while reading.
func WithStrictness(s Strictness) Option {
	return func(o *options) { o.strictness = s }
}

// WithLogger sets the logger used for debug traces and warnings.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCompression makes WriteDetector and WriteDataset compress the whole
// file. level is only used by zstd. Readers detect compression on their own.
func WithCompression(c compress.Codec, level int) Option {
	return func(o *options) {
		o.codec = c
		o.level = level
	}
}
