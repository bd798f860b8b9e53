package content

import (
	"encoding/binary"

	"github.com/MeKo-Christian/cdrimport/internal/basics"
	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/state"
)

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
)

func putU16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}

func putU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

// renderPatternBMP expands a 1-bpp, row-padded fill pattern against fg/bg
// into a synthetic 32-bit top-down BMP, the same wire shape
// styles.MaterializeBitmap produces for an embedded raster; the result is
// then treated as an ordinary bitmap fill.
func renderPatternBMP(pat state.Pattern, fg, bg color.RGB) []byte {
	if pat.Width == 0 || pat.Height == 0 {
		return nil
	}
	pixelCount := uint64(pat.Width) * uint64(pat.Height)
	imageSize := pixelCount * 4
	fileSize := uint64(bmpFileHeaderSize+bmpInfoHeaderSize) + imageSize

	out := make([]byte, 0, fileSize)
	out = putU16(out, 0x4D42)
	out = putU32(out, uint32(fileSize))
	out = putU16(out, 0)
	out = putU16(out, 0)
	out = putU32(out, bmpFileHeaderSize+bmpInfoHeaderSize)

	out = putU32(out, bmpInfoHeaderSize)
	out = putU32(out, pat.Width)
	out = putU32(out, pat.Height)
	out = putU16(out, 1)
	out = putU16(out, 32)
	out = putU32(out, 0)
	out = putU32(out, uint32(imageSize))
	out = putU32(out, 0)
	out = putU32(out, 0)
	out = putU32(out, 0)
	out = putU32(out, 0)

	rowBytes := (pat.Width + 7) / 8
	for j := uint32(0); j < pat.Height; j++ {
		rowStart := j * rowBytes
		rowEnd := rowStart + rowBytes
		if int(rowEnd) > len(pat.Mask) {
			rowEnd = uint32(len(pat.Mask))
		}
		var row []byte
		if rowStart < rowEnd {
			row = pat.Mask[rowStart:rowEnd]
		}
		bits := basics.UnpackMSBBits(row, uint(pat.Width))
		for k := uint(0); k < uint(pat.Width); k++ {
			if bits.Test(k) {
				out = putU32(out, fg.Packed())
			} else {
				out = putU32(out, bg.Packed())
			}
		}
	}

	return out
}
