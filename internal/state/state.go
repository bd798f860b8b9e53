// Package state holds the parsed-so-far document model a styles-collector
// and content-collector pass accumulate into and read back from: pages,
// fill/line/character styles, bitmaps, patterns, vector sub-documents and
// resolved text runs. It is the Go equivalent of CDRParserState/
// CDRCollector's member fields in libcdr.
package state

import (
	"github.com/MeKo-Christian/cdrimport/internal/basics"
	"github.com/MeKo-Christian/cdrimport/internal/color"
)

// Page is one page record.
type Page struct {
	Width, Height    float64
	OffsetX, OffsetY float64
	// Flags carries the page's `flgs` record, if any. Bit 0x00FF0000 means
	// "ignore this page": the content pass emits no
	// StartGraphics/EndGraphics pair for it.
	Flags uint32
}

// IgnoreFlag is the `flgs` bit meaning "ignore page".
const IgnoreFlag = 0x00FF0000

// GradientStop is one color stop along a Gradient's offset axis.
type GradientStop struct {
	Offset float64
	Color  color.Color
}

// Gradient describes a fountain fill, ported from CDRGradient.
type Gradient struct {
	Type           int
	Mode           int
	Angle          float64
	Midpoint       float64
	EdgeOffset     float64
	CenterXOffset  float64
	CenterYOffset  float64
	Stops          []GradientStop
}

// ImageFill describes a bitmap/texture fill, ported from CDRImageFill.
type ImageFill struct {
	ID         uint32
	Width      float64
	Height     float64
	IsRelative bool
	XOffset    float64
	YOffset    float64
	RCPOffset  float64
	Flags      uint32
}

// FillKindUnset is the fillType sentinel CDRFillStyle's constructor assigns
// (the source's `(unsigned short)-1`), distinguishing "this override record
// never mentioned a fill" from "this override record explicitly set fill
// kind 0 (none)". CharStyle.Override uses it to decide whether to copy an
// embedded FillStyle at all.
const FillKindUnset = -1

// FillStyle.Kind wire values.
const (
	FillKindNone     = 0
	FillKindSolid    = 1
	FillKindGradient = 2
	FillKindPattern  = 7
	FillKindBitmap   = 9
	FillKindFull     = 10
	FillKindTexture  = 11
)

// Gradient.Type wire values.
const (
	GradientLinear  = 1
	GradientRadial  = 2
	GradientConical = 3
	GradientSquare  = 4
)

// FillStyle is ported from CDRFillStyle.
type FillStyle struct {
	Kind      int32
	Color1    color.Color
	Color2    color.Color
	Gradient  Gradient
	ImageFill ImageFill
}

// LineKindUnset is the lineType sentinel, the LineStyle analog of
// FillKindUnset.
const LineKindUnset = -1

// LineStyle is ported from CDRLineStyle.
type LineStyle struct {
	Kind          int32
	Caps          basics.LineCap
	Join          basics.LineJoin
	Width         float64
	Stretch       float64
	Angle         float64
	Color         color.Color
	DashArray     []uint32
	StartMarkerID uint32
	EndMarkerID   uint32
}

// CharSetUnset is the charSet sentinel CDRCharacterStyle's constructor
// assigns, the CharStyle analog of FillKindUnset/LineKindUnset.
const CharSetUnset = -1

// CharStyle is ported from CDRCharacterStyle, including its parentId-keyed
// inheritance and the overrideCharacterStyle field-by-field merge.
type CharStyle struct {
	ID       uint32
	ParentID uint32

	CharSet  int32
	FontName string
	FontSize float64
	Align    int

	LeftIndent  float64
	FirstIndent float64
	RightIndent float64

	LineStyle LineStyle
	FillStyle FillStyle
}

// NewCharStyle returns a CharStyle with every sentinel-bearing field set to
// its unset value, matching CDRCharacterStyle's default constructor.
func NewCharStyle() CharStyle {
	return CharStyle{
		CharSet:         CharSetUnset,
		LineStyle:       LineStyle{Kind: LineKindUnset},
		FillStyle:       FillStyle{Kind: FillKindUnset},
	}
}

// almostZero matches CDR_ALMOST_ZERO's tolerance for "this float field was
// never supplied" (libcdr/src/lib/libcdr_utils.h).
func almostZero(v float64) bool {
	const epsilon = 1e-4
	if v < 0 {
		return -v < epsilon
	}
	return v < epsilon
}

// Override applies the fields of other onto c wherever other's own sentinel
// marks that field as having actually been supplied, and leaves c's existing
// value alone otherwise. This is a direct port of
// CDRCharacterStyle::overrideCharacterStyle (libcdr/src/lib/CDRTypes.h):
// each sentinel-guarded group is copied as a unit, never field-by-field
// within the group, because the source guards charSet+fontName, and
// left/first/right indent, as single conditions.
func (c CharStyle) Override(other CharStyle) CharStyle {
	result := c

	if other.CharSet != CharSetUnset || other.FontName != "" {
		result.CharSet = other.CharSet
		result.FontName = other.FontName
	}
	if !almostZero(other.FontSize) {
		result.FontSize = other.FontSize
	}
	if other.Align != 0 {
		result.Align = other.Align
	}
	if other.LeftIndent != 0 && other.FirstIndent != 0 && other.RightIndent != 0 {
		result.LeftIndent = other.LeftIndent
		result.FirstIndent = other.FirstIndent
		result.RightIndent = other.RightIndent
	}
	if other.LineStyle.Kind != LineKindUnset {
		result.LineStyle = other.LineStyle
	}
	if other.FillStyle.Kind != FillKindUnset {
		result.FillStyle = other.FillStyle
	}
	return result
}

// Image is ported from CDRImage: an embedded raster with its placement
// rectangle in document units.
type Image struct {
	Data                   []byte
	X1, X2, Y1, Y2 float64
}

// MiddleX returns the horizontal center of the image's placement rectangle,
// matching CDRImage::getMiddleX.
func (img Image) MiddleX() float64 { return (img.X1 + img.X2) / 2.0 }

// MiddleY returns the vertical center of the image's placement rectangle,
// matching CDRImage::getMiddleY.
func (img Image) MiddleY() float64 { return (img.Y1 + img.Y2) / 2.0 }

// Pattern is a 1-bit-per-pixel fill pattern, ported from CDRPattern. Mask
// rows are packed 8 pixels to a byte and padded to a whole byte per row,
// matching the wire format.
type Pattern struct {
	Width, Height uint32
	Mask          []byte
}

// Font is one document font-table entry (`font`/`fntt` records): a face name
// plus the code-page its 8-bit text runs decode through.
type Font struct {
	Name     string
	Encoding uint16
}

// TextRun is one styled run of text within a TextLine.
type TextRun struct {
	String string
	Style  CharStyle
}

// TextLine is one resolved line of text, produced by the styles-collector
// pass from a document's text-object data/charDescriptions/styleOverrides
// triple.
type TextLine struct {
	Runs []TextRun
}
