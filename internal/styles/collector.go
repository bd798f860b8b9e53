package styles

import (
	"github.com/MeKo-Christian/cdrimport/internal/collect"
	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/curves"
	"github.com/MeKo-Christian/cdrimport/internal/path"
	"github.com/MeKo-Christian/cdrimport/internal/state"
	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

var _ collect.Collector = (*Collector)(nil)

// Collector drives the styles-collector pass: a single walk of the document
// that resolves bitmaps, patterns, palette entries, character-style
// inheritance and text runs into a ParserState, before the content-collector
// pass makes its own walk emitting paint events. Modeled on
// CDRStylesCollector (libcdr/src/lib/CDRStylesCollector.cpp).
type Collector struct {
	State *state.ParserState
	page  state.Page
}

// NewCollector returns a Collector over st, with the pending page defaulted
// to CDRStylesCollector's own default (8.5x11in, US Letter, centered),
// used whenever a document never declares its own page size before the
// first `page` record.
func NewCollector(st *state.ParserState) *Collector {
	return &Collector{
		State: st,
		page:  state.Page{Width: 8.5, Height: 11.0, OffsetX: -4.25, OffsetY: -5.5},
	}
}

// CollectPageSize records a page-size override for the page currently being
// assembled, or retroactively for the most recently pushed page if one
// already exists — matching collectPageSize's odd "patch the last page"
// behavior for documents that declare size after the page boundary.
func (c *Collector) CollectPageSize(width, height, offsetX, offsetY float64) {
	p := state.Page{Width: width, Height: height, OffsetX: offsetX, OffsetY: offsetY}
	if len(c.State.Pages) == 0 {
		c.page = p
	} else {
		c.State.Pages[len(c.State.Pages)-1] = p
	}
}

// CollectPage pushes the pending page onto the document's page list.
func (c *Collector) CollectPage() {
	c.State.Pages = append(c.State.Pages, c.page)
}

// CollectBmp materializes a raw embedded raster into a synthetic BMP and
// records it under imageId, dropping it silently if MaterializeBitmap can't
// make sense of the (colorModel, bpp) combination — matching the source's
// storeBMP-false path.
func (c *Collector) CollectBmp(imageID, colorModel, width, height, bpp uint32, palette []uint32, bitmap []byte) {
	bmp, ok := MaterializeBitmap(colorModel, width, height, bpp, palette, bitmap, c.State.Profiles)
	if !ok {
		return
	}
	c.State.Bitmaps[imageID] = bmp
}

// CollectBmpRaw records a bitmap that is already a complete, embedded BMP
// (a JPEG/PNG/TIFF-wrapped `bmp ` record, rather than a raw pixel array),
// matching collectBmp's pass-through overload.
func (c *Collector) CollectBmpRaw(imageID uint32, bitmap []byte) {
	c.State.Bitmaps[imageID] = append([]byte(nil), bitmap...)
}

// CollectBmpf records a 1-bpp fill pattern, stored as-read (row-padded to a
// whole byte), matching collectBmpf.
func (c *Collector) CollectBmpf(patternID, width, height uint32, pattern []byte) {
	c.State.Patterns[patternID] = state.Pattern{
		Width:  width,
		Height: height,
		Mask:   append([]byte(nil), pattern...),
	}
}

// CollectColorProfile installs an ICC-derived transform set in place of the
// default sRGB/SWOP/D50-Lab profiles, matching collectColorProfile routing
// a nonempty `iccd` payload into setColorTransform.
func (c *Collector) CollectColorProfile(rgbTransform color.RGBTransform) {
	if rgbTransform == nil {
		return
	}
	c.State.Profiles.RGBToSRGB = rgbTransform
}

// CollectPaletteEntry records one document palette slot.
func (c *Collector) CollectPaletteEntry(colorID uint32, col color.Color) {
	c.State.Palette[colorID] = col
}

// CollectFont records one font-table entry (`font`/`fntt`), keyed by the id
// character-style records reference it through.
func (c *Collector) CollectFont(fontID uint16, encoding uint16, name string) {
	c.State.Fonts[fontID] = state.Font{Name: name, Encoding: encoding}
}

// CollectPreviewBitmap records the document's `DISP` preview raster. Last
// writer wins; a document only ever carries one.
func (c *Collector) CollectPreviewBitmap(bmp []byte) {
	c.State.Preview = append([]byte(nil), bmp...)
}

// CollectStld records a character-style definition by id, to be resolved
// later (alongside its parentId ancestors) by GetRecursedStyle.
func (c *Collector) CollectStld(id uint32, cs state.CharStyle) {
	cs.ID = id
	c.State.AddCharStyle(cs)
}

// CollectText decodes one text object's (data, charDescriptions,
// styleOverrides) triple into a resolved TextLine and appends it to
// textId's paragraph list. This is a direct port of
// CDRStylesCollector::collectText: charDescriptions walks in lockstep with
// data, each description byte's low bit selects 1-byte vs 2-byte-per-char
// encoding, and a run boundary is any index where the description byte
// changes; styleOverrides is keyed by the description byte with its low bit
// masked off.
func (c *Collector) CollectText(textID, styleID uint32, data, charDescriptions []byte, styleOverrides map[uint32]state.CharStyle) {
	if len(data) == 0 || len(charDescriptions) == 0 {
		return
	}

	defaultStyle, ok := c.State.GetRecursedStyle(styleID)
	if !ok {
		defaultStyle = state.NewCharStyle()
	}

	var (
		tmpCharDescription byte
		tmpTextData        []byte
		tmpCharStyle       state.CharStyle
		line               state.TextLine
	)

	flush := func() {
		if len(tmpTextData) == 0 {
			return
		}
		wide := tmpCharDescription&0x01 != 0
		text := decodeRunBytes(tmpTextData, wide, tmpCharStyle.CharSet)
		line.Runs = append(line.Runs, state.TextRun{String: text, Style: tmpCharStyle})
	}

	i, j := 0, 0
	for i < len(charDescriptions) && j < len(data) {
		tmpCharStyle = defaultStyle
		if override, ok := styleOverrides[uint32(tmpCharDescription&0xfe)]; ok {
			tmpCharStyle = tmpCharStyle.Override(override)
		}
		if charDescriptions[i] != tmpCharDescription {
			flush()
			tmpTextData = nil
			tmpCharDescription = charDescriptions[i]
		}
		if j >= len(data) {
			break
		}
		tmpTextData = append(tmpTextData, data[j])
		j++
		if tmpCharDescription&0x01 != 0 {
			if j >= len(data) {
				break
			}
			tmpTextData = append(tmpTextData, data[j])
			j++
		}
		i++
	}
	flush()

	c.State.Texts[textID] = append(c.State.Texts[textID], line)
}

// CollectFlags records a `flgs` record against the most recently pushed
// page, matching collectFlags routing into the last page's flags field the
// same way CollectPageSize patches the last page's size.
func (c *Collector) CollectFlags(flags uint32) {
	if len(c.State.Pages) == 0 {
		return
	}
	c.State.Pages[len(c.State.Pages)-1].Flags = flags
}

// CollectVectorPattern records an embedded vector-pattern's serialized SVG
// under its spnd id. The recursive CMX parse that produces svg runs during
// the content pass, but the result belongs in ParserState alongside every
// other resource, so both passes can implement this identically.
func (c *Collector) CollectVectorPattern(spnd uint32, svg []byte) {
	c.State.Vectors[spnd] = append([]byte(nil), svg...)
}

// CollectFillStyleDef records a `fild` fill-style definition by id, for
// objects elsewhere in the document that reference it rather than carrying
// their own inline copy.
func (c *Collector) CollectFillStyleDef(id uint32, fs state.FillStyle) {
	c.State.FillStyles[id] = fs
}

// CollectOutlineStyleDef records an `outl` line-style definition by id, the
// LineStyle analog of CollectFillStyleDef.
func (c *Collector) CollectOutlineStyleDef(id uint32, ls state.LineStyle) {
	c.State.LineStyles[id] = ls
}

// The remaining Collector methods are per-object geometry/style events the
// content pass alone projects into paint output; the styles pass never
// builds a path or resolves a fill onto the sink, so these are no-ops.

func (c *Collector) CollectObjectBegin()                 {}
func (c *Collector) CollectObjectEnd()                   {}
func (c *Collector) CollectGroupBegin()                  {}
func (c *Collector) CollectGroupEnd()                    {}
func (c *Collector) CollectTransform(t transform.Affine) {}
func (c *Collector) CollectFillStyle(id uint32, fs state.FillStyle)    {}
func (c *Collector) CollectOutlineStyle(id uint32, ls state.LineStyle) {}
func (c *Collector) CollectMoveTo(x, y float64)                       {}
func (c *Collector) CollectLineTo(x, y float64)                       {}
func (c *Collector) CollectCubicBezier(x1, y1, x2, y2, x, y float64)   {}
func (c *Collector) CollectQuadraticBezier(x1, y1, x, y float64)       {}
func (c *Collector) CollectArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64) {
}
func (c *Collector) CollectClosePath()                                         {}
func (c *Collector) CollectSplineData(points []path.Point, knotMarkers []bool) {}
func (c *Collector) CollectPolygon(p curves.Polygon)                          {}
func (c *Collector) CollectImage(img state.Image, imageID uint32)             {}
func (c *Collector) CollectBBox(x1, y1, x2, y2 float64)                       {}
func (c *Collector) CollectTextRef(textID uint32)                             {}
