// Package color implements the document color engine: decoding the wire
// color models a CDR/CMX document can declare (CMYK, RGB, CMY, HSB, HLS,
// grayscale, Lab, HKS spot colors) down to the sRGB triples a paint sink
// consumes, plus the tint derivation a "shade of color N" style applies on
// top of a base color.
package color

import "github.com/MeKo-Christian/cdrimport/internal/basics"

// Model identifies the wire encoding of a Color's 32-bit value, matching the
// document's own model byte.
type Model uint8

const (
	ModelCMYK100 Model = 0x01
	ModelCMYK100Alt Model = 0x02
	ModelCMYK255 Model = 0x03
	ModelCMY     Model = 0x04
	ModelRGB     Model = 0x05
	ModelHSB     Model = 0x06
	ModelHLS     Model = 0x07
	ModelCMYK255Alt Model = 0x11
	ModelGrayscale Model = 0x09
	ModelLabSigned Model = 0x0c
	ModelLabBiased Model = 0x12
	ModelHKS       Model = 0x19
)

// Color is a document color record exactly as read off the wire: a model tag
// plus its packed 32-bit payload. Decode interprets the payload according to
// Model.
type Color struct {
	Model Model
	Value uint32
}

// RGB is a resolved 8-bit-per-channel sRGB triple.
type RGB struct {
	R, G, B byte
}

func (c RGB) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func bytes4(v uint32) (b0, b1, b2, b3 byte) {
	return byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)
}

// Decode resolves a document Color to sRGB using the supplied profile set.
// This is a port of CDRParserState::_getRGBColor, with the cmsDoTransform
// calls for CMYK and RGB routed through Profiles' replaceable transforms
// instead of a bound lcms2 handle.
func Decode(c Color, p Profiles) RGB {
	b0, b1, b2, b3 := bytes4(c.Value)

	switch c.Model {
	case ModelCMYK100, ModelCMYK100Alt:
		return p.CMYKToSRGB(float64(b0), float64(b1), float64(b2), float64(b3))

	case ModelCMYK255, ModelCMYK255Alt:
		return p.CMYKToSRGB(
			float64(b0)*100.0/255.0,
			float64(b1)*100.0/255.0,
			float64(b2)*100.0/255.0,
			float64(b3)*100.0/255.0,
		)

	case ModelCMY:
		return RGB{R: 255 - b0, G: 255 - b1, B: 255 - b2}

	case ModelRGB:
		// wire order is BGR; m_colorValue's low byte is blue.
		return p.RGBToSRGB(b2, b1, b0)

	case ModelHSB:
		return decodeHSB(b0, b1, b2, b3)

	case ModelHLS:
		return decodeHLS(b0, b1, b2, b3)

	case ModelGrayscale:
		return RGB{R: b0, G: b0, B: b0}

	case ModelLabSigned:
		l := float64(b0) * 100.0 / 255.0
		a := float64(int8(b1))
		bb := float64(int8(b2))
		return p.LabToSRGB(l, a, bb)

	case ModelLabBiased:
		l := float64(b0) * 100.0 / 255.0
		a := float64(int8(b1 - 0x80))
		bb := float64(int8(b2 - 0x80))
		return p.LabToSRGB(l, a, bb)

	case ModelHKS:
		return decodeHKS(c.Value)

	default:
		return RGB{R: b2, G: b1, B: b0}
	}
}

func clampHue(hue int) int {
	for hue > 360 {
		hue -= 360
	}
	return hue
}

func satComponents(hue int) (satRed, satGreen, satBlue float64) {
	switch {
	case hue < 120:
		satRed = float64(120-hue) / 60.0
		satGreen = float64(hue) / 60.0
		satBlue = 0
	case hue < 240:
		satRed = 0
		satGreen = float64(240-hue) / 60.0
		satBlue = float64(hue-120) / 60.0
	default:
		satRed = float64(hue-240) / 60.0
		satGreen = 0
		satBlue = float64(360-hue) / 60.0
	}
	return
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// decodeHSB ports the HSB (model 0x06) branch of _getRGBColor.
func decodeHSB(col0, col1, col2, col3 byte) RGB {
	hue := clampHue(int(col1)<<8 | int(col0))
	saturation := float64(col2) / 255.0
	brightness := float64(col3) / 255.0

	satRed, satGreen, satBlue := satComponents(hue)

	r := basics.Round(255 * (1 - saturation + saturation*clamp1(satRed)) * brightness)
	g := basics.Round(255 * (1 - saturation + saturation*clamp1(satGreen)) * brightness)
	b := basics.Round(255 * (1 - saturation + saturation*clamp1(satBlue)) * brightness)
	return RGB{R: basics.ClampByte(r), G: basics.ClampByte(g), B: basics.ClampByte(b)}
}

// decodeHLS ports the HLS (model 0x07) branch of _getRGBColor.
func decodeHLS(col0, col1, col2, col3 byte) RGB {
	hue := clampHue(int(col1)<<8 | int(col0))
	lightness := float64(col2) / 255.0
	saturation := float64(col3) / 255.0

	satRed, satGreen, satBlue := satComponents(hue)

	tmpRed := 2*saturation*clamp1(satRed) + 1 - saturation
	tmpGreen := 2*saturation*clamp1(satGreen) + 1 - saturation
	tmpBlue := 2*saturation*clamp1(satBlue) + 1 - saturation

	var r, g, b int
	if lightness < 0.5 {
		r = basics.Round(255.0 * lightness * tmpRed)
		g = basics.Round(255.0 * lightness * tmpGreen)
		b = basics.Round(255.0 * lightness * tmpBlue)
	} else {
		r = basics.Round(255 * ((1-lightness)*tmpRed + 2*lightness - 1))
		g = basics.Round(255 * ((1-lightness)*tmpGreen + 2*lightness - 1))
		b = basics.Round(255 * ((1-lightness)*tmpBlue + 2*lightness - 1))
	}
	return RGB{R: basics.ClampByte(r), G: basics.ClampByte(g), B: basics.ClampByte(b)}
}

// hksRed, hksGreen and hksBlue are the 86-entry HKS spot-color swatch
// lookups, ported verbatim from CDRParserState::_getRGBColor. The source
// defines three distinct arrays with byte-for-byte identical contents; this
// is very likely a copy-paste bug (green and blue were each meant to carry
// their own swatch data) but the set of HKS inks this affects is small and
// undocumented upstream, so the duplication is preserved rather than
// silently "corrected" here.
//
// TODO: if libcdr ever publishes corrected green/blue tables, replace these.
var hksRed = []byte{
	0xff, 0xe3, 0x00, 0x00, 0xff, 0x8f, 0x00, 0x00,
	0xff, 0x9b, 0x1d, 0x00, 0xe2, 0x1f, 0x33, 0x00,
	0x78, 0x89, 0x3a, 0x00, 0xca, 0x22, 0x6f, 0x00,
	0xb2, 0x34, 0x86, 0x00, 0xb0, 0x3b, 0x8e, 0x00,
	0x54, 0x3c, 0xcb, 0x00, 0x28, 0x53, 0xd2, 0x00,
	0x55, 0x96, 0xd3, 0x00, 0x00, 0xd2, 0xa0, 0x00,
	0x00, 0x98, 0x55, 0x00, 0x00, 0x6a, 0x7d, 0x00,
	0x2a, 0x6a, 0x40, 0x00, 0x46, 0xc6, 0x0d, 0x00,
	0xea, 0xa9, 0x00, 0x00, 0x92, 0x6d, 0x2b, 0x00,
	0x7a, 0x5e, 0x1f, 0x00, 0x66, 0x22, 0x8d, 0x00,
	0xad, 0x80, 0x59, 0x00, 0x83, 0x41,
}

var hksGreen = []byte{
	0xff, 0xe3, 0x00, 0x00, 0xff, 0x8f, 0x00, 0x00,
	0xff, 0x9b, 0x1d, 0x00, 0xe2, 0x1f, 0x33, 0x00,
	0x78, 0x89, 0x3a, 0x00, 0xca, 0x22, 0x6f, 0x00,
	0xb2, 0x34, 0x86, 0x00, 0xb0, 0x3b, 0x8e, 0x00,
	0x54, 0x3c, 0xcb, 0x00, 0x28, 0x53, 0xd2, 0x00,
	0x55, 0x96, 0xd3, 0x00, 0x00, 0xd2, 0xa0, 0x00,
	0x00, 0x98, 0x55, 0x00, 0x00, 0x6a, 0x7d, 0x00,
	0x2a, 0x6a, 0x40, 0x00, 0x46, 0xc6, 0x0d, 0x00,
	0xea, 0xa9, 0x00, 0x00, 0x92, 0x6d, 0x2b, 0x00,
	0x7a, 0x5e, 0x1f, 0x00, 0x66, 0x22, 0x8d, 0x00,
	0xad, 0x80, 0x59, 0x00, 0x83, 0x41,
}

var hksBlue = []byte{
	0xff, 0xe3, 0x00, 0x00, 0xff, 0x8f, 0x00, 0x00,
	0xff, 0x9b, 0x1d, 0x00, 0xe2, 0x1f, 0x33, 0x00,
	0x78, 0x89, 0x3a, 0x00, 0xca, 0x22, 0x6f, 0x00,
	0xb2, 0x34, 0x86, 0x00, 0xb0, 0x3b, 0x8e, 0x00,
	0x54, 0x3c, 0xcb, 0x00, 0x28, 0x53, 0xd2, 0x00,
	0x55, 0x96, 0xd3, 0x00, 0x00, 0xd2, 0xa0, 0x00,
	0x00, 0x98, 0x55, 0x00, 0x00, 0x6a, 0x7d, 0x00,
	0x2a, 0x6a, 0x40, 0x00, 0x46, 0xc6, 0x0d, 0x00,
	0xea, 0xa9, 0x00, 0x00, 0x92, 0x6d, 0x2b, 0x00,
	0x7a, 0x5e, 0x1f, 0x00, 0x66, 0x22, 0x8d, 0x00,
	0xad, 0x80, 0x59, 0x00, 0x83, 0x41,
}

// decodeHKS ports the HKS (model 0x19) branch of _getRGBColor.
func decodeHKS(value uint32) RGB {
	hks := uint((uint16(value) + 85))
	hksIndex := hks % 86
	hks /= 86
	blackFifth := hks / 10
	var blackPercent uint
	switch blackFifth {
	case 2:
		blackPercent = 10
	case 3:
		blackPercent = 30
	case 4:
		blackPercent = 50
	default:
		blackPercent = 0
	}
	colorRemainder := hks % 10
	colorPercent := colorRemainder * 10
	if colorRemainder == 0 {
		colorPercent = 100
	}

	blackFrac := 1.0 - float64(blackPercent)/100.0
	colorFrac := float64(colorPercent) / 100.0

	tmpRed := basics.Round(blackFrac * (255.0*(1.0-colorFrac) + float64(hksRed[hksIndex])*colorFrac))
	tmpGreen := basics.Round(blackFrac * (255.0*(1.0-colorFrac) + float64(hksGreen[hksIndex])*colorFrac))
	tmpBlue := basics.Round(blackFrac * (255.0*(1.0-colorFrac) + float64(hksBlue[hksIndex])*colorFrac))

	return RGB{
		R: clampTo255(tmpRed),
		G: clampTo255(tmpGreen),
		B: clampTo255(tmpBlue),
	}
}

func clampTo255(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
