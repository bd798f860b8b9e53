// Package styles implements the styles-collector pass: it
// walks the document once resolving bitmaps, patterns, the color palette,
// character-style inheritance and text runs into an internal/state.ParserState
// the content-collector pass later reads from. Modeled on
// libcdr/src/lib/CDRStylesCollector.cpp.
package styles

import (
	"encoding/binary"

	"github.com/MeKo-Christian/cdrimport/internal/basics"
	"github.com/MeKo-Christian/cdrimport/internal/color"
)

// bmpFileHeaderSize and bmpInfoHeaderSize are the BITMAPFILEHEADER and
// BITMAPINFOHEADER sizes this module always emits (32-bit color, no
// palette), matching CDRStylesCollector::collectBmp's synthesized header.
const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
)

// bmpColorModel resolves one of a bitmap's own per-pixel color-model codes
// (a distinct, narrower enumeration from the document-wide color.Model) to
// an sRGB triple, porting CDRParserState::getBMPColor's remapping table.
// Models 8 and 9 carry an already-resolved RGB triple directly; every other
// model is redirected through color.Decode using the document model code
// getBMPColor maps it to. Models with no mapping (0, 6, and anything
// unrecognized) fall through to color.Decode's own unknown-model default,
// the same BGR-swap _getRGBColor itself falls back to.
func bmpColorValue(bitmapColorModel uint32, value uint32, profiles color.Profiles) color.RGB {
	switch bitmapColorModel {
	case 8, 9:
		return color.RGB{R: byte(value >> 16), G: byte(value >> 8), B: byte(value)}
	case 1, 10:
		return color.Decode(color.Color{Model: color.ModelRGB, Value: value}, profiles)
	case 2:
		return color.Decode(color.Color{Model: color.ModelCMY, Value: value}, profiles)
	case 3:
		return color.Decode(color.Color{Model: color.ModelCMYK255, Value: value}, profiles)
	case 4:
		return color.Decode(color.Color{Model: color.ModelHSB, Value: value}, profiles)
	case 5:
		return color.Decode(color.Color{Model: color.ModelGrayscale, Value: value}, profiles)
	case 7:
		return color.Decode(color.Color{Model: color.ModelHLS, Value: value}, profiles)
	case 11:
		return color.Decode(color.Color{Model: color.ModelLabBiased, Value: value}, profiles)
	default:
		return color.Decode(color.Color{Model: 0xff, Value: value}, profiles)
	}
}

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

// MaterializeBitmap synthesizes a 32-bit-per-pixel top-down BMP file from a
// document-embedded raster, porting CDRStylesCollector::collectBmp's pixel
// loop: 1-bpp monochrome (colorModel 6, MSB-first), 8-bpp direct (colorModel
// 5), 8-bpp palette-indexed (any colorModel with a non-empty palette), and
// raw 24/32-bpp BGR(A) rows. Unsupported (colorModel, bpp) combinations
// (bpp neither 24 nor 32, no palette, and colorModel outside {5,6}) return
// ok=false and no bytes, exactly as the source silently drops the image.
func MaterializeBitmap(colorModel, width, height, bpp uint32, palette []uint32, bitmap []byte, profiles color.Profiles) (bmp []byte, ok bool) {
	if height == 0 || width == 0 {
		return nil, false
	}
	pixelCount := uint64(width) * uint64(height)
	imageSize := pixelCount * 4
	fileSize := uint64(bmpFileHeaderSize+bmpInfoHeaderSize) + imageSize
	if imageSize/4 != pixelCount || fileSize < imageSize {
		return nil, false // overflow, matching the source's explicit guards
	}

	out := make([]byte, 0, fileSize)
	out = putU16(out, 0x4D42)
	out = putU32(out, uint32(fileSize))
	out = putU16(out, 0)
	out = putU16(out, 0)
	out = putU32(out, bmpFileHeaderSize+bmpInfoHeaderSize)

	out = putU32(out, bmpInfoHeaderSize)
	out = putU32(out, width)
	out = putU32(out, height)
	out = putU16(out, 1)
	out = putU16(out, 32)
	out = putU32(out, 0)
	out = putU32(out, uint32(imageSize))
	out = putU32(out, 0)
	out = putU32(out, 0)
	out = putU32(out, 0)
	out = putU32(out, 0)

	if height == 0 {
		return nil, false
	}
	lineWidth := uint32(len(bitmap)) / height

	for j := uint32(0); j < height; j++ {
		rowStart := j * lineWidth
		if uint64(rowStart)+uint64(lineWidth) > uint64(len(bitmap)) {
			return nil, false
		}
		i, k := uint32(0), uint32(0)
		switch {
		case colorModel == 6:
			bits := basics.UnpackMSBBits(bitmap[rowStart:rowStart+lineWidth], uint(width))
			for k := uint(0); k < uint(width); k++ {
				if bits.Test(k) {
					out = putU32(out, 0xffffff)
				} else {
					out = putU32(out, 0)
				}
			}
		case colorModel == 5:
			for i < lineWidth && i < width {
				c := bitmap[rowStart+i]
				i++
				rgb := bmpColorValue(5, uint32(c), profiles)
				out = putU32(out, rgb.Packed())
			}
		case len(palette) > 0:
			for i < lineWidth && i < width {
				c := bitmap[rowStart+i]
				i++
				if int(c) >= len(palette) {
					return nil, false
				}
				rgb := bmpColorValue(colorModel, palette[c], profiles)
				out = putU32(out, rgb.Packed())
			}
		case bpp == 24:
			for i+2 < lineWidth && k < width {
				c := uint32(bitmap[rowStart+i+2])<<16 | uint32(bitmap[rowStart+i+1])<<8 | uint32(bitmap[rowStart+i])
				i += 3
				rgb := bmpColorValue(colorModel, c, profiles)
				out = putU32(out, rgb.Packed())
				k++
			}
		case bpp == 32:
			for i+3 < lineWidth && k < width {
				c := uint32(bitmap[rowStart+i+3])<<24 | uint32(bitmap[rowStart+i+2])<<16 | uint32(bitmap[rowStart+i+1])<<8 | uint32(bitmap[rowStart+i])
				i += 4
				rgb := bmpColorValue(colorModel, c, profiles)
				out = putU32(out, rgb.Packed())
				k++
			}
		default:
			return nil, false
		}
	}

	return out, true
}
