// Package basics collects the small numeric and enumeration primitives
// shared across the geometry and color engines.
package basics

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// Zero-distance tolerances used throughout path flushing and arc
// re-projection. CDR/CMX coordinates are document units (inches or
// hundredths of a millimeter scaled down); 1e-6 is the path-elision
// tolerance, 1e-9 the identity-transform round-trip tolerance.
const (
	PathEpsilon     = 1e-6
	TransformEpsilon = 1e-9
)

// AlmostZero reports whether v is within PathEpsilon of zero.
func AlmostZero(v float64) bool {
	return math.Abs(v) < PathEpsilon
}

// AlmostEqual reports whether a and b are within PathEpsilon of each other.
func AlmostEqual(a, b float64) bool {
	return AlmostZero(a - b)
}

const (
	Pi      = math.Pi
	Deg2Rad = Pi / 180.0
	Rad2Deg = 180.0 / Pi
)

// Round rounds to the nearest integer, halves away from zero, matching the
// source's cdr_round helper used when converting normalized color channels
// back to bytes.
func Round(v float64) int {
	if v < 0 {
		return -int(math.Floor(-v + 0.5))
	}
	return int(math.Floor(v + 0.5))
}

// ClampByte clamps v into [0, 255] and truncates to a byte.
func ClampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// UnpackMSBBits decodes a row-padded 1-bpp bitstream (MSB of byte 0 is bit
// index 0) into a bitset.BitSet of length count, the shared bit-unpacking
// this module's two 1-bpp consumers (a monochrome bitmap's pixel row and a
// fill pattern's mask row) both need: styles.MaterializeBitmap's colorModel
// 6 branch and content.renderPatternBMP's mask walk port the same
// byte/shift loop CDRStylesCollector::collectBmp and
// CDRContentCollector::_generateBitmapFromPattern duplicate in the source;
// here it is one helper instead of two copies.
func UnpackMSBBits(data []byte, count uint) *bitset.BitSet {
	bs := bitset.New(count)
	for k := uint(0); k < count; k++ {
		byteIdx := k / 8
		if byteIdx >= uint(len(data)) {
			break
		}
		bitIdx := 7 - (k % 8)
		if data[byteIdx]&(1<<bitIdx) != 0 {
			bs.Set(k)
		}
	}
	return bs
}

// LineCap enumerates stroke cap styles, numbered per the outline record's
// capsType wire values (0 butt, 1 round, 2 square).
type LineCap int

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

// LineJoin enumerates stroke join styles, numbered per the lineStyle.joinType
// wire values (0 miter, 1 round, 2 bevel).
type LineJoin int

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)
