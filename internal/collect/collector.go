// Package collect declares the collector capability set both the CDR and
// CMX record decoders are written against once and driven through twice:
// a styles-collector pass (internal/styles) that materializes resources
// into a shared internal/state.ParserState, and a content-collector pass
// (internal/content) that emits ordered paint events. This is the Go
// expression of libcdr's CDRCollector virtual-base hierarchy:
// rather than a base class with two subclasses, the decoders take
// an interface value, and the two concrete implementations each satisfy it
// in the way their pass actually needs (the styles pass no-ops every
// geometry/style-projection method; the content pass no-ops nothing).
package collect

import (
	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/curves"
	"github.com/MeKo-Christian/cdrimport/internal/path"
	"github.com/MeKo-Christian/cdrimport/internal/state"
	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

// Collector is called into by record/instruction decoders in strict
// document order.
type Collector interface {
	// Document/page structure (page, mcfg, flgs records).
	CollectPageSize(width, height, offsetX, offsetY float64)
	CollectPage()
	CollectFlags(flags uint32)

	// Resources keyed by id, immutable once written in the styles pass.
	CollectBmp(imageID, colorModel, width, height, bpp uint32, palette []uint32, bitmap []byte)
	CollectBmpRaw(imageID uint32, bitmap []byte)
	CollectBmpf(patternID, width, height uint32, pattern []byte)
	CollectColorProfile(rgbTransform color.RGBTransform)
	CollectPaletteEntry(colorID uint32, col color.Color)
	CollectFont(fontID uint16, encoding uint16, name string)
	CollectPreviewBitmap(bmp []byte)
	CollectStld(id uint32, cs state.CharStyle)
	CollectText(textID, styleID uint32, data, charDescriptions []byte, styleOverrides map[uint32]state.CharStyle)
	CollectVectorPattern(spnd uint32, svg []byte)
	CollectFillStyleDef(id uint32, fs state.FillStyle)
	CollectOutlineStyleDef(id uint32, ls state.LineStyle)

	// Per-object scratch, reset at every object boundary and observed
	// meaningfully only by the content pass.
	CollectObjectBegin()
	CollectObjectEnd()
	CollectGroupBegin()
	CollectGroupEnd()
	CollectTransform(t transform.Affine)
	CollectFillStyle(id uint32, fs state.FillStyle)
	CollectOutlineStyle(id uint32, ls state.LineStyle)
	CollectMoveTo(x, y float64)
	CollectLineTo(x, y float64)
	CollectCubicBezier(x1, y1, x2, y2, x, y float64)
	CollectQuadraticBezier(x1, y1, x, y float64)
	CollectArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64)
	CollectClosePath()
	CollectSplineData(points []path.Point, knotMarkers []bool)
	CollectPolygon(p curves.Polygon)
	CollectImage(img state.Image, imageID uint32)
	CollectBBox(x1, y1, x2, y2 float64)
	CollectTextRef(textID uint32)
}
