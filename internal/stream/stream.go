// Package stream implements the uniform random-access byte view every
// decoder in this module reads from: plain little/big-endian primitive
// reads over an in-memory buffer, a RIFF tree walker with compressed-list
// expansion, a ZIP container reader, and a minimal OLE-compound substream
// reader for documents wrapped in PerfectOffice_MAIN.
package stream

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"
	"math"
)

// ErrTruncated is returned by any read that needs more bytes than remain.
var ErrTruncated = errors.New("stream: truncated")

// Order selects the endianness primitive reads use. CDR documents are
// always little-endian; CMX documents declare their endianness in the
// "cont" header chunk.
type Order uint8

const (
	LittleEndian Order = iota
	BigEndian
)

// Reader is a seekable, ordered view over an in-memory byte buffer, playing
// the role the source's WPXInputStream/CDRInternalStream play: every
// decoder takes one of these rather than touching a raw []byte or *os.File
// directly.
type Reader struct {
	data  []byte
	pos   int64
	order Order
}

// New wraps data for little-endian reads.
func New(data []byte) *Reader {
	return &Reader{data: data, order: LittleEndian}
}

// NewWithOrder wraps data with an explicit byte order.
func NewWithOrder(data []byte, order Order) *Reader {
	return &Reader{data: data, order: order}
}

// SetOrder changes the byte order used by subsequent multi-byte reads (used
// once a CMX "cont" header has been read and its declared endianness is
// known).
func (r *Reader) SetOrder(order Order) { r.order = order }

func (r *Reader) Order() Order { return r.order }

// Len returns the total number of bytes in the view.
func (r *Reader) Len() int { return len(r.data) }

// Tell returns the current read offset.
func (r *Reader) Tell() int64 { return r.pos }

// AtEnd reports whether the read cursor has reached the end of the buffer.
func (r *Reader) AtEnd() bool { return r.pos >= int64(len(r.data)) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int64 { return int64(len(r.data)) - r.pos }

// Whence selects the reference point for Seek, matching io.Seeker's values.
const (
	SeekSet = io.SeekStart
	SeekCur = io.SeekCurrent
	SeekEnd = io.SeekEnd
)

// Seek repositions the read cursor. Out-of-range results are clamped to
// [0, len(data)] rather than erroring, matching the source's tolerant
// WPXInputStream::seek semantics (a subsequent read simply truncates).
func (r *Reader) Seek(offset int64, whence int) int64 {
	var base int64
	switch whence {
	case SeekCur:
		base = r.pos
	case SeekEnd:
		base = int64(len(r.data))
	default:
		base = 0
	}
	next := base + offset
	if next < 0 {
		next = 0
	}
	if next > int64(len(r.data)) {
		next = int64(len(r.data))
	}
	r.pos = next
	return r.pos
}

// Bytes returns the underlying buffer (for callers that need to hand a
// sub-slice to another package, e.g. a recursive CMX parse of a vector
// pattern payload).
func (r *Reader) Bytes() []byte { return r.data }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || int64(n) > r.Remaining() {
		return nil, ErrTruncated
	}
	b := r.data[r.pos : r.pos+int64(n)]
	r.pos += int64(n)
	return b, nil
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n)
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) u16(b []byte) uint16 {
	if r.order == BigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}

func (r *Reader) u32(b []byte) uint32 {
	if r.order == BigEndian {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

func (r *Reader) u64(b []byte) uint64 {
	lo := r.u32(b[:4])
	hi := r.u32(b[4:])
	if r.order == BigEndian {
		return uint64(lo)<<32 | uint64(hi)
	}
	return uint64(hi)<<32 | uint64(lo)
}

// ReadU16 reads a 16-bit unsigned integer in the reader's byte order.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return r.u16(b), nil
}

// ReadU32 reads a 32-bit unsigned integer in the reader's byte order.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return r.u32(b), nil
}

// ReadU64 reads a 64-bit unsigned integer in the reader's byte order.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return r.u64(b), nil
}

// ReadS16 reads a signed 16-bit integer.
func (r *Reader) ReadS16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadS32 reads a signed 32-bit integer.
func (r *Reader) ReadS32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadDouble reads an IEEE-754 double-precision float.
func (r *Reader) ReadDouble() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadFourCC reads a raw 4-byte ASCII tag, e.g. "RIFF", "page", "cont".
func (r *Reader) ReadFourCC() (string, error) {
	b, err := r.take(4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// inflateZlib decompresses a zlib-wrapped (RFC 1950, inflateInit-style)
// DEFLATE stream, as used by RIFF cmpr lists.
func inflateZlib(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
